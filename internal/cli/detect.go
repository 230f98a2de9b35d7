package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/docimport/internal/importer"
	"github.com/nerdneilsfield/docimport/internal/report"
	"github.com/nerdneilsfield/docimport/internal/snapshot"
)

var (
	// detect 命令的标志
	outputFormat string
	reportPath   string
	showChart    bool
)

// NewDetectCommand 创建 detect 命令
func NewDetectCommand() *cobra.Command {
	detectCmd := &cobra.Command{
		Use:   "detect <snapshot.json>",
		Short: "Classify the paragraphs of a feature snapshot",
		Long: `Run the detection rules over every paragraph of a snapshot file and
show how each body element was classified.

Examples:
  # Trace table and summary
  docimport detect paper.json

  # Only the summary, with a chart of element kinds
  docimport detect paper.json --format summary --chart

  # Full report as JSON on stdout
  docimport detect paper.json --format json

  # Write the report to a file and switch off caption detection
  docimport detect paper.json --report out/paper.report.json --disable caption`,
		Args: cobra.ExactArgs(1),
		RunE: runDetectCommand,
	}

	detectCmd.Flags().StringVar(&outputFormat, "format", "table", "Output format (table, summary, json)")
	detectCmd.Flags().StringVar(&reportPath, "report", "", "Write the JSON report to this file (overrides report_file)")
	detectCmd.Flags().BoolVar(&showChart, "chart", false, "Show the distribution of element kinds")

	return detectCmd
}

func runDetectCommand(cmd *cobra.Command, args []string) error {
	switch outputFormat {
	case "table", "summary", "json":
	default:
		return fmt.Errorf("unsupported output format %q (table, summary, json)", outputFormat)
	}

	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	doc, err := snapshot.Load(args[0])
	if err != nil {
		return err
	}

	opts, err := cfg.PipelineOptions()
	if err != nil {
		return err
	}

	res, err := importer.New(opts, log).Run(cmd.Context(), doc)
	if err != nil {
		return err
	}
	rep := report.New(res)

	out := cmd.OutOrStdout()
	switch outputFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
	case "summary":
		report.RenderSummary(out, rep.Summary)
	default:
		report.RenderTrace(out, rep.Trace)
		report.RenderSummary(out, rep.Summary)
	}

	if showChart {
		if err := report.RenderKindChart(out, rep.Summary); err != nil {
			log.Warn("failed to render chart", zap.Error(err))
		}
	}

	path := reportPath
	if path == "" {
		path = cfg.ReportFile
	}
	if path != "" {
		if err := rep.Save(path, log); err != nil {
			return err
		}
	}
	return nil
}
