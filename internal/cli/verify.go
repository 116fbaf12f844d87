package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/witherBattler/edit-hunt-ai/internal/review"
)

// VerifyOptions holds flags for the verify command.
type VerifyOptions struct {
	*RootOptions
	SessionFlags
}

// VerifyResult is the drift report plus context.
type VerifyResult struct {
	Input  string             `json:"input"`
	Clean  bool               `json:"clean"`
	Counts review.Counts      `json:"counts"`
	Drift  review.DriftReport `json:"drift"`
}

// NewVerifyCommand creates the verify command.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VerifyOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the checkpoint against the export files",
		Long: `Restore the last checkpoint and report where the reviewed/deleted index
sets disagree with the export files. Loading never repairs these; verify only
makes them visible.

Drift kinds:
  reviewed_unlabeled  reviewed leads whose text is in neither export
  labeled_unreviewed  leads labeled through a shared text, never reviewed
  stale_indices       indices beyond the end of the leads file
  orphan_texts        export entries matching no lead

Exit codes:
  0 - No drift
  1 - Drift found
  2 - Command error (missing input, corrupt session, etc.)

Examples:
  leadreview verify
  leadreview verify --input batch2.jsonl --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(opts, cmd)
		},
	}

	opts.SessionFlags.register(cmd)

	return cmd
}

func runVerify(opts *VerifyOptions, cmd *cobra.Command) error {
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	cfg, err := opts.SessionFlags.resolve(opts.RootOptions)
	if err != nil {
		return err
	}
	cfg.Journal = ""

	session, err := openSession(context.Background(), cfg, false, nil, logger)
	if err != nil {
		return err
	}
	defer session.Close(logger)

	report := session.Drift()
	result := VerifyResult{
		Input:  cfg.Input,
		Clean:  report.Clean(),
		Counts: session.Counts(),
		Drift:  report,
	}

	if opts.Format == "json" {
		return outputVerifyJSON(cmd.OutOrStdout(), result)
	}
	return outputVerifyText(cmd.OutOrStdout(), result)
}

func outputVerifyJSON(w io.Writer, result VerifyResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if !result.Clean {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    "E_DRIFT",
			Message: "checkpoint and exports disagree",
		}
	}
	if err := writeJSON(w, response); err != nil {
		return err
	}
	if !result.Clean {
		return NewExitError(ExitFailure, "checkpoint and exports disagree")
	}
	return nil
}

func outputVerifyText(w io.Writer, result VerifyResult) error {
	if result.Clean {
		fmt.Fprintf(w, "✓ %s: checkpoint and exports agree\n", result.Input)
		return nil
	}

	fmt.Fprintf(w, "✗ %s: checkpoint and exports disagree\n", result.Input)
	d := result.Drift
	writeIndexDrift(w, "Reviewed but unlabeled", d.ReviewedUnlabeled)
	writeIndexDrift(w, "Labeled but unreviewed", d.LabeledUnreviewed)
	writeIndexDrift(w, "Stale indices", d.StaleIndices)
	if len(d.OrphanTexts) > 0 {
		fmt.Fprintf(w, "  Orphan export texts (%d):\n", len(d.OrphanTexts))
		for _, text := range d.OrphanTexts {
			fmt.Fprintf(w, "    %s\n", truncate(text, 72))
		}
	}
	return NewExitError(ExitFailure, "checkpoint and exports disagree")
}

// writeIndexDrift prints 0-based indices as 1-based lead numbers.
func writeIndexDrift(w io.Writer, label string, indices []int) {
	if len(indices) == 0 {
		return
	}
	fmt.Fprintf(w, "  %s (%d):", label, len(indices))
	for _, i := range indices {
		fmt.Fprintf(w, " %d", i+1)
	}
	fmt.Fprintln(w)
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
