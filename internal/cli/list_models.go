/*
PURPOSE:
  Defines the 'list-models' and 'metrics' subcommands.
  Helps check what a measurement file contains before a full run.

REQUIREMENTS:
  User-specified:
  - List models.

  Implementation-discovered:
  - Useful validation step before full run.
  - Size buckets depend on config, so models are listed through the
    same settings the run uses.

ARCHITECTURE INTEGRATION:
  - Calls: internal/pipeline.Load(), internal/engine.Aggregate()

ERROR HANDLING:
  - Returns load/config errors. Dropped records are only logged.

IMPLEMENTATION RULES:
  - Simple output to stdout.

USAGE:
  format-bench list-models model_data.csv
  format-bench metrics

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/output/console.go

MAINTENANCE:
  - None.
*/

package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/daryltucker/format-bench/internal/engine"
	"github.com/daryltucker/format-bench/internal/output"
	"github.com/daryltucker/format-bench/internal/pipeline"
)

var listModelsCmd = &cobra.Command{
	Use:   "list-models [input]",
	Short: "List models with face counts, size buckets and formats",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}
		settings, err := cfg.Settings()
		if err != nil {
			return err
		}
		res, err := pipeline.Load(cfg)
		if err != nil {
			return err
		}
		output.NewConsole(os.Stdout).Models(engine.Aggregate(res.Records, settings))
		return nil
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "List metrics with units and ranking direction",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, nil)
		if err != nil {
			return err
		}
		settings, err := cfg.Settings()
		if err != nil {
			return err
		}
		output.NewConsole(os.Stdout).Metrics(settings)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listModelsCmd)
	rootCmd.AddCommand(metricsCmd)
}
