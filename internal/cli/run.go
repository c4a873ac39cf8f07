/*
PURPOSE:
  Defines the 'run' subcommand.
  Aggregates a measurement file and writes every report.

REQUIREMENTS:
  User-specified:
  - Run the comparison.
  - specific flags for overrides.

  Implementation-discovered:
  - Need to load config first.
  - Apply flag overrides to config.
  - Dropped records fail the command unless --allow-dropped, but the
    reports are still written and the summary still printed.

ARCHITECTURE INTEGRATION:
  - Calls: internal/pipeline.Run()
  - Uses: internal/config, internal/output.Console

ERROR HANDLING:
  - Returns error if config load fails or the pipeline fails.

IMPLEMENTATION RULES:
  - Setup flags in init().
  - Logic: Load Config -> Override -> pipeline.Run -> Console summary.

USAGE:
  format-bench run data/model_data.csv -o ./results

SELF-HEALING INSTRUCTIONS:
  - Check flag names match Config struct fields generally.

RELATED FILES:
  - internal/cli/root.go
  - internal/pipeline/runner.go

MAINTENANCE:
  - Update when adding new CLI overrides.
*/

package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/daryltucker/format-bench/internal/output"
	"github.com/daryltucker/format-bench/internal/pipeline"
)

var (
	outputOverride    string
	renderersOverride []string
	allowDropped      bool
	titleOverride     string
	minSamples        int
)

var runCmd = &cobra.Command{
	Use:   "run [input]",
	Short: "Aggregate measurements and write reports",
	Long: `Loads a CSV or JSON measurement file and compares formats per metric.
The process follows a fixed order:
1. Ingest: cells are normalized ("1,037 MB", "2.9 GB", "N/A") and bad records dropped.
2. Aggregate: derived metrics, rankings, correlations, size buckets, head-to-head.
3. Render: JSON dataset, record CSV/JSONL, summary CSV, text, Markdown and HTML reports.

Records dropped during ingest make the command exit non-zero unless --allow-dropped is set.`,
	Example: `  # Run with defaults (uses format_bench.yaml when present)
  format-bench run model_data.csv

  # Write only the JSON dataset and HTML report
  format-bench run model_data.csv --renderers json,html -o ./reports

  # Require at least 5 paired samples before reporting a correlation
  format-bench run all_models_data.json --min-samples 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. Load Config
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}

		// 2. Overrides
		if outputOverride != "" {
			cfg.OutputDir = outputOverride
			if err := cfg.ExpandPaths(); err != nil {
				return err
			}
		}
		if len(renderersOverride) > 0 {
			cfg.Renderers = renderersOverride
		}
		if cmd.Flags().Changed("allow-dropped") {
			cfg.AllowDropped = allowDropped
		}
		if titleOverride != "" {
			cfg.ReportTitle = titleOverride
		}
		if cmd.Flags().Changed("min-samples") {
			cfg.MinCorrelationSamples = minSamples
		}

		// 3. Execution
		sum, err := pipeline.Run(cfg, pipeline.Options{})
		if sum != nil {
			output.NewConsole(os.Stdout).Summary(sum.Dataset, sum.Written)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&outputOverride, "output-dir", "o", "", "Output directory for reports")
	runCmd.Flags().StringSliceVar(&renderersOverride, "renderers", nil, "Comma-separated list of reports to write (default all)")
	runCmd.Flags().BoolVar(&allowDropped, "allow-dropped", false, "Succeed even when records were dropped")
	runCmd.Flags().StringVar(&titleOverride, "title", "", "Report title")
	runCmd.Flags().IntVar(&minSamples, "min-samples", 2, "Minimum paired samples for a correlation")
}
