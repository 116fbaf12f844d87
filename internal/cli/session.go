package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/witherBattler/edit-hunt-ai/internal/autosave"
	"github.com/witherBattler/edit-hunt-ai/internal/config"
	"github.com/witherBattler/edit-hunt-ai/internal/journal"
	"github.com/witherBattler/edit-hunt-ai/internal/review"
)

// SessionFlags are the file and checkpoint flags shared by every command that
// opens a session. Set flags override the config file.
type SessionFlags struct {
	Input         string
	Accepted      string
	Rejected      string
	Snapshot      string
	Journal       string
	AutosaveDelay time.Duration
	Fresh         bool
}

func (f *SessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Input, "input", "i", "", "leads file (default "+config.DefaultInput+")")
	cmd.Flags().StringVar(&f.Accepted, "accepted", "", "accepted export file")
	cmd.Flags().StringVar(&f.Rejected, "rejected", "", "rejected export file")
	cmd.Flags().StringVar(&f.Snapshot, "snapshot", "", "session snapshot file")
	cmd.Flags().StringVar(&f.Journal, "journal", "", "SQLite action journal (disabled when empty)")
	cmd.Flags().DurationVar(&f.AutosaveDelay, "autosave-delay", 0, "idle time before an automatic checkpoint")
	cmd.Flags().BoolVar(&f.Fresh, "fresh", false, "ignore any previous checkpoint; the next save overwrites it")
}

// apply overlays set flags onto cfg.
func (f *SessionFlags) apply(cfg config.Config) config.Config {
	if f.Input != "" {
		cfg.Input = f.Input
	}
	if f.Accepted != "" {
		cfg.Paths.Accepted = f.Accepted
	}
	if f.Rejected != "" {
		cfg.Paths.Rejected = f.Rejected
	}
	if f.Snapshot != "" {
		cfg.Paths.Snapshot = f.Snapshot
	}
	if f.Journal != "" {
		cfg.Journal = f.Journal
	}
	if f.AutosaveDelay > 0 {
		cfg.AutosaveDelay = f.AutosaveDelay
	}
	return cfg
}

// resolve loads the config file and applies the flags.
func (f *SessionFlags) resolve(opts *RootOptions) (config.Config, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return config.Config{}, err
	}
	return f.apply(cfg), nil
}

// openedSession is a session plus the journal recording it, if any.
type openedSession struct {
	*review.Session
	journal  *journal.Journal
	recorder *journal.Recorder
}

// runID returns the journal run ID, or "" when no journal is attached.
func (o *openedSession) runID() string {
	if o.recorder == nil {
		return ""
	}
	return o.recorder.RunID()
}

// Close drops any pending autosave and closes the journal.
func (o *openedSession) Close(logger *slog.Logger) {
	o.Session.Close()
	if o.journal == nil {
		return
	}
	if err := o.journal.Close(); err != nil {
		logger.Error("error closing journal", "error", err)
	}
}

// openSession opens the journal (when configured) and the session over
// cfg.Input. A journal run is started before the checkpoint is restored, so
// the reload is the first entry of the run.
func openSession(ctx context.Context, cfg config.Config, fresh bool, ids journal.IDGenerator, logger *slog.Logger) (*openedSession, error) {
	opened := &openedSession{}

	ropts := review.Options{
		Paths:         cfg.Paths,
		AutosaveDelay: cfg.AutosaveDelay,
		Logger:        logger,
		Observer: func(e autosave.Event) {
			logger.Debug("autosave", "event", e.Kind.String(), "generation", e.Ticket.Generation)
		},
	}

	if cfg.Journal != "" {
		j, err := journal.Open(cfg.Journal)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		rec, err := j.StartRun(ctx, ids, cfg.Input)
		if err != nil {
			_ = j.Close()
			return nil, WrapExitError(ExitCommandError, "failed to start journal run", err)
		}
		logger.Info("journal run started", "run_id", rec.RunID(), "journal", cfg.Journal)
		opened.journal = j
		opened.recorder = rec
		ropts.Recorder = rec
	}

	var (
		session *review.Session
		err     error
	)
	if fresh {
		session, err = review.OpenFresh(cfg.Input, ropts)
	} else {
		session, err = review.Open(cfg.Input, ropts)
	}
	if err != nil {
		if opened.journal != nil {
			_ = opened.journal.Close()
		}
		return nil, sessionExitError("failed to open session", err)
	}
	opened.Session = session
	logger.Debug("session opened", "input", cfg.Input, "records", session.Len(), "cursor", session.Current())
	return opened, nil
}
