package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/witherBattler/edit-hunt-ai/internal/journal"
	"github.com/witherBattler/edit-hunt-ai/internal/review"
)

// MarkOptions holds flags for the mark command.
type MarkOptions struct {
	*RootOptions
	SessionFlags

	// IDs allows overriding the journal run ID generator (for testing).
	IDs journal.IDGenerator
}

// MarkResult reports the lead after the change.
type MarkResult struct {
	Lead   LeadView      `json:"lead"`
	Cursor int           `json:"cursor"`
	Counts review.Counts `json:"counts"`
}

// NewMarkCommand creates the mark command.
func NewMarkCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MarkOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "mark <lead> <accept|reject|delete>",
		Short: "Record one decision without the review screen",
		Long: `Restore the last checkpoint, record a decision for one lead and save.

<lead> is the 1-based lead number shown on the review screen. The cursor ends
on the lead after it, as it would in the review screen.

Examples:
  leadreview mark 12 accept
  leadreview mark 40 delete --journal review.db`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMark(opts, args[0], args[1], cmd)
		},
	}

	opts.SessionFlags.register(cmd)

	return cmd
}

func runMark(opts *MarkOptions, leadArg, dispArg string, cmd *cobra.Command) error {
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	number, err := strconv.Atoi(leadArg)
	if err != nil {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid lead number %q", leadArg))
	}
	disp, err := review.ParseDisposition(dispArg)
	if err != nil || disp == review.Pending {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid decision %q: must be accept, reject or delete", dispArg))
	}

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

	if err := session.JumpTo(number); err != nil {
		return sessionExitError("failed to select lead", err)
	}
	if disp == review.Deleted {
		_, err = session.Delete()
	} else {
		_, err = session.Classify(disp)
	}
	if err != nil {
		return sessionExitError("failed to mark lead", err)
	}
	if err := session.Save(); err != nil {
		return sessionExitError("failed to save session", err)
	}

	view, _ := leadView(session.Session, number-1)
	result := MarkResult{
		Lead:   view,
		Cursor: session.Current(),
		Counts: session.Counts(),
	}

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	formatter.VerboseLog("saved %s", session.Paths().Snapshot)
	if opts.Format == "json" {
		return formatter.Success(result)
	}
	return formatter.Success(fmt.Sprintf("✓ Lead %d marked %s", view.Number, view.Status))
}
