package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/witherBattler/edit-hunt-ai/internal/review"
	"github.com/witherBattler/edit-hunt-ai/internal/tui"
)

// StatusOptions holds flags for the status command.
type StatusOptions struct {
	*RootOptions
	SessionFlags
}

// StatusResult describes the restored session.
type StatusResult struct {
	Input    string        `json:"input"`
	Cursor   int           `json:"cursor"` // 0-based
	Progress string        `json:"progress"`
	Counts   review.Counts `json:"counts"`
	Current  *LeadView     `json:"current,omitempty"`
	Accepted string        `json:"accepted"`
	Rejected string        `json:"rejected"`
	Snapshot string        `json:"snapshot"`
}

// LeadView is one lead with its disposition.
type LeadView struct {
	Number   int                `json:"number"` // 1-based
	Status   review.Disposition `json:"status"`
	Reviewed bool               `json:"reviewed"`
	Text     string             `json:"text"`
}

// NewStatusCommand creates the status command.
func NewStatusCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatusOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show review progress",
		Long: `Restore the last checkpoint and print progress counts and the lead under
the cursor. Nothing is written.

Examples:
  leadreview status
  leadreview status --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(opts, cmd)
		},
	}

	opts.SessionFlags.register(cmd)

	return cmd
}

func runStatus(opts *StatusOptions, cmd *cobra.Command) error {
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	cfg, err := opts.SessionFlags.resolve(opts.RootOptions)
	if err != nil {
		return err
	}
	// Read-only: never journal a status query.
	cfg.Journal = ""

	session, err := openSession(context.Background(), cfg, opts.Fresh, nil, logger)
	if err != nil {
		return err
	}
	defer session.Close(logger)

	result := buildStatus(session.Session, cfg.Input)

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), CLIResponse{Status: "ok", Data: result})
	}
	return outputStatusText(cmd.OutOrStdout(), result)
}

func buildStatus(session *review.Session, input string) StatusResult {
	paths := session.Paths()
	result := StatusResult{
		Input:    input,
		Cursor:   session.Current(),
		Progress: tui.ProgressLine(session.Current(), session.Counts()),
		Counts:   session.Counts(),
		Accepted: paths.Accepted,
		Rejected: paths.Rejected,
		Snapshot: paths.Snapshot,
	}
	if view, ok := leadView(session, session.Current()); ok {
		result.Current = &view
	}
	return result
}

func leadView(session *review.Session, index int) (LeadView, bool) {
	rec, err := session.Record(index)
	if err != nil {
		return LeadView{}, false
	}
	status, _ := session.Status(index)
	return LeadView{
		Number:   index + 1,
		Status:   status,
		Reviewed: session.IsReviewed(index),
		Text:     rec.Text,
	}, true
}

func outputStatusText(w io.Writer, result StatusResult) error {
	fmt.Fprintf(w, "Input: %s\n", result.Input)
	fmt.Fprintln(w, result.Progress)
	fmt.Fprintln(w)

	c := result.Counts
	fmt.Fprintf(w, "  Total:     %d\n", c.Total)
	fmt.Fprintf(w, "  Accepted:  %d\n", c.Accepted)
	fmt.Fprintf(w, "  Rejected:  %d\n", c.Rejected)
	fmt.Fprintf(w, "  Deleted:   %d\n", c.Deleted)
	fmt.Fprintf(w, "  Remaining: %d\n", c.Remaining)

	if result.Current != nil {
		fmt.Fprintln(w)
		reviewed := ""
		if result.Current.Reviewed {
			reviewed = " (reviewed)"
		}
		fmt.Fprintf(w, "Lead %d: %s%s\n", result.Current.Number, result.Current.Status, reviewed)
		fmt.Fprintf(w, "  %s\n", result.Current.Text)
	}
	return nil
}
