package cli

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/witherBattler/edit-hunt-ai/internal/journal"
	"github.com/witherBattler/edit-hunt-ai/internal/review"
	"github.com/witherBattler/edit-hunt-ai/internal/tui"
)

// ReviewOptions holds flags for the review command.
type ReviewOptions struct {
	*RootOptions
	SessionFlags

	// IDs allows overriding the journal run ID generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDs journal.IDGenerator

	// ProgramOptions are passed to tea.NewProgram (for testing).
	ProgramOptions []tea.ProgramOption
}

// ReviewSummary is printed when the review screen exits.
type ReviewSummary struct {
	Input    string        `json:"input"`
	Saved    bool          `json:"saved"`
	Cursor   int           `json:"cursor"`
	Counts   review.Counts `json:"counts"`
	Accepted string        `json:"accepted"`
	Rejected string        `json:"rejected"`
	Snapshot string        `json:"snapshot"`
}

// NewReviewCommand creates the review command.
func NewReviewCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReviewOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Open the interactive review screen",
		Long: `Open the interactive review screen over a leads file.

The previous checkpoint, if any, is restored. Every action schedules an
automatic checkpoint after the autosave delay; s saves immediately, r reloads
the last checkpoint, q saves and exits, and ctrl+c exits without saving.

Keys:
  1/y accept   0/n reject   x delete   l/h next/previous   g go to lead

Examples:
  leadreview review
  leadreview review --input leads.jsonl --journal review.db
  leadreview review --fresh --autosave-delay 30s`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReview(opts, cmd)
		},
	}

	opts.SessionFlags.register(cmd)

	return cmd
}

func runReview(opts *ReviewOptions, cmd *cobra.Command) error {
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	cfg, err := opts.SessionFlags.resolve(opts.RootOptions)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	session, err := openSession(ctx, cfg, opts.Fresh, opts.IDs, logger)
	if err != nil {
		return err
	}
	defer session.Close(logger)

	app := tui.NewApp(session.Session, tui.Options{
		Highlighter: tui.NewHighlighter(cfg.Highlight.Positive, cfg.Highlight.Negative),
		Logger:      logger,
	})

	programOpts := append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithOutput(cmd.OutOrStdout()),
	}, opts.ProgramOptions...)
	if _, err := tea.NewProgram(app, programOpts...).Run(); err != nil {
		return WrapExitError(ExitFailure, "review screen failed", err)
	}

	paths := session.Paths()
	summary := ReviewSummary{
		Input:    cfg.Input,
		Saved:    app.Saved(),
		Cursor:   session.Current(),
		Counts:   session.Counts(),
		Accepted: paths.Accepted,
		Rejected: paths.Rejected,
		Snapshot: paths.Snapshot,
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), CLIResponse{
			Status: "ok",
			Data:   summary,
			RunID:  session.runID(),
		})
	}
	return outputReviewText(cmd.OutOrStdout(), summary)
}

func outputReviewText(w io.Writer, summary ReviewSummary) error {
	if summary.Saved {
		fmt.Fprintln(w, "✓ Session saved")
	} else {
		fmt.Fprintln(w, "✗ Exited without saving (changes since the last checkpoint are lost)")
	}
	c := summary.Counts
	fmt.Fprintf(w, "  Accepted: %d  Rejected: %d  Deleted: %d  Remaining: %d\n",
		c.Accepted, c.Rejected, c.Deleted, c.Remaining)
	fmt.Fprintf(w, "  Leads:     %s\n", summary.Accepted)
	fmt.Fprintf(w, "  Non-leads: %s\n", summary.Rejected)
	return nil
}
