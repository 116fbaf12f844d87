package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/witherBattler/edit-hunt-ai/internal/journal"
	"github.com/witherBattler/edit-hunt-ai/internal/review"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Journal string
	RunID   string
	Kind    string
	Text    string
	Limit   int
	Runs    bool
}

// HistoryResult holds entries, or runs with --runs.
type HistoryResult struct {
	Journal string          `json:"journal"`
	Runs    []journal.Run   `json:"runs,omitempty"`
	Entries []journal.Entry `json:"entries"`
}

// validKinds are the action kinds accepted by --kind.
var validKinds = []review.ActionKind{
	review.ActionAccept, review.ActionReject, review.ActionDelete,
	review.ActionAdvance, review.ActionRetreat, review.ActionJump,
	review.ActionSave, review.ActionReload,
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded review actions",
		Long: `List actions recorded in the SQLite journal, oldest first.

The journal is written by review and mark when --journal (or the journal
config key) is set. Each review run has its own ID.

Examples:
  leadreview history --journal review.db
  leadreview history --journal review.db --runs
  leadreview history --journal review.db --run 0193... --kind accept --limit 20
  leadreview history --journal review.db --text "[REDDIT] Hiring a video editor"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to SQLite journal (default: journal config key)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "only entries from this run")
	cmd.Flags().StringVar(&opts.Kind, "kind", "", "only entries of this action kind")
	cmd.Flags().StringVar(&opts.Text, "text", "", "only entries for this exact lead text")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "keep only the last N entries")
	cmd.Flags().BoolVar(&opts.Runs, "runs", false, "list runs instead of entries")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	path := opts.Journal
	if path == "" {
		cfg, err := loadConfig(opts.RootOptions)
		if err != nil {
			return err
		}
		path = cfg.Journal
	}
	if path == "" {
		return NewExitError(ExitCommandError, "no journal configured: pass --journal or set journal in the config file")
	}
	// Opening creates the database; a history query must not.
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("journal not found: %s", path))
	}

	kind := review.ActionKind(opts.Kind)
	if opts.Kind != "" && !isValidKind(kind) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid kind %q: must be one of %v", opts.Kind, validKinds))
	}
	if opts.Limit < 0 {
		return NewExitError(ExitCommandError, "--limit must not be negative")
	}

	j, err := journal.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer j.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, err := queryHistory(ctx, j, opts, kind)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to query journal", err)
	}
	result.Journal = path

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), CLIResponse{Status: "ok", Data: result})
	}
	return outputHistoryText(cmd.OutOrStdout(), result, opts.Runs, opts.Verbose)
}

func queryHistory(ctx context.Context, j *journal.Journal, opts *HistoryOptions, kind review.ActionKind) (HistoryResult, error) {
	if opts.Runs {
		runs, err := j.Runs(ctx)
		if err != nil {
			return HistoryResult{}, err
		}
		return HistoryResult{Runs: runs, Entries: []journal.Entry{}}, nil
	}

	if opts.Text != "" {
		entries, err := j.TextHistory(ctx, opts.Text)
		if err != nil {
			return HistoryResult{}, err
		}
		return HistoryResult{Entries: entries}, nil
	}

	entries, err := j.List(ctx, journal.Filter{RunID: opts.RunID, Kind: kind, Limit: opts.Limit})
	if err != nil {
		return HistoryResult{}, err
	}
	return HistoryResult{Entries: entries}, nil
}

func isValidKind(kind review.ActionKind) bool {
	for _, k := range validKinds {
		if k == kind {
			return true
		}
	}
	return false
}

func outputHistoryText(w io.Writer, result HistoryResult, runs, verbose bool) error {
	if runs {
		if len(result.Runs) == 0 {
			fmt.Fprintln(w, "No runs recorded.")
			return nil
		}
		fmt.Fprintln(w, "=== Runs ===")
		for _, r := range result.Runs {
			fmt.Fprintf(w, "  [%d] %s  %s  %s  (%d entries)\n",
				r.Seq, r.ID, r.StartedAt.Format(time.RFC3339), r.Input, r.Entries)
		}
		return nil
	}

	if len(result.Entries) == 0 {
		fmt.Fprintln(w, "No entries found.")
		return nil
	}
	fmt.Fprintln(w, "=== Entries ===")
	for _, e := range result.Entries {
		lead := "-"
		if e.Index >= 0 {
			lead = fmt.Sprintf("%d", e.Index+1)
		}
		fmt.Fprintf(w, "  [%d] %-7s lead %-5s cursor %d\n", e.Seq, e.Kind, lead, e.Cursor+1)
		if verbose {
			fmt.Fprintf(w, "       Run:  %s\n", e.RunID)
			fmt.Fprintf(w, "       At:   %s\n", e.RecordedAt.Format(time.RFC3339Nano))
			if e.Text != "" {
				fmt.Fprintf(w, "       Text: %s\n", truncate(e.Text, 72))
			}
		}
	}
	return nil
}
