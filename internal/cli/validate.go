package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daryltucker/format-bench/internal/output"
	"github.com/daryltucker/format-bench/internal/pipeline"
)

var validateCmd = &cobra.Command{
	Use:   "validate [input]",
	Short: "Load a measurement file and report parse problems without aggregating",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, args)
		if err != nil {
			return err
		}
		res, err := pipeline.Load(cfg)
		if err != nil {
			return err
		}
		output.NewConsole(os.Stdout).Validation(res)
		if n := len(res.Errors); n > 0 {
			return fmt.Errorf("%d %w", n, pipeline.ErrDroppedRecords)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
