package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/witherBattler/edit-hunt-ai/internal/config"
	"github.com/witherBattler/edit-hunt-ai/internal/lead"
	"github.com/witherBattler/edit-hunt-ai/internal/persist"
)

// PrepareOptions holds flags for the prepare command.
type PrepareOptions struct {
	*RootOptions
	Output string
}

// PrepareSummary reports what prepare wrote.
type PrepareSummary struct {
	Source    string               `json:"source"`
	Output    string               `json:"output"`
	Raw       int                  `json:"raw"`
	Written   int                  `json:"written"`
	Skipped   []int                `json:"skipped"`
	Platforms []lead.PlatformCount `json:"platforms"`
}

// NewPrepareCommand creates the prepare command.
func NewPrepareCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PrepareOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "prepare <raw-leads.json>",
		Short: "Convert scraped leads into a review file",
		Long: `Convert a JSON array of scraped leads ({platform, title, content}) into
the JSON Lines file that review reads.

Each lead becomes "[PLATFORM] text". Reddit posts combine title and content;
other platforms use content, falling back to the title. HTML bodies are
converted to text. Leads with no text are skipped and reported.

Examples:
  leadreview prepare leads.json
  leadreview prepare scrape.json -o batch2.jsonl --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrepare(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (default: configured input, "+config.DefaultInput+")")

	return cmd
}

func runPrepare(opts *PrepareOptions, source string, cmd *cobra.Command) error {
	logger := newLogger(opts.RootOptions, cmd.ErrOrStderr())

	output := opts.Output
	if output == "" {
		cfg, err := loadConfig(opts.RootOptions)
		if err != nil {
			return err
		}
		output = cfg.Input
	}

	raws, err := lead.ReadRaw(source)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read raw leads", err)
	}
	logger.Debug("raw leads loaded", "source", source, "count", len(raws))

	result := lead.NewPreparer().Prepare(raws)
	if err := persist.WriteRecords(output, result.Records); err != nil {
		return WrapExitError(ExitFailure, "failed to write leads", err)
	}
	logger.Info("leads written", "output", output, "count", len(result.Records), "skipped", len(result.Skipped))

	summary := PrepareSummary{
		Source:    source,
		Output:    output,
		Raw:       len(raws),
		Written:   len(result.Records),
		Skipped:   result.Skipped,
		Platforms: result.Platforms,
	}
	if summary.Platforms == nil {
		summary.Platforms = []lead.PlatformCount{}
	}

	if opts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), CLIResponse{Status: "ok", Data: summary})
	}
	return outputPrepareText(cmd.OutOrStdout(), summary)
}

func outputPrepareText(w io.Writer, summary PrepareSummary) error {
	fmt.Fprintf(w, "✓ Wrote %d of %d leads to %s\n", summary.Written, summary.Raw, summary.Output)
	if len(summary.Skipped) > 0 {
		fmt.Fprintf(w, "  Skipped %d with no text\n", len(summary.Skipped))
	}
	if len(summary.Platforms) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Platforms ===")
	for _, p := range summary.Platforms {
		fmt.Fprintf(w, "  %-10s %d\n", p.Platform, p.Count)
	}
	return nil
}
