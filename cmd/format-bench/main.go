/*
PURPOSE:
  Entry point for the Format Bench application.
  Hands os.Args to the cobra root command.

REQUIREMENTS:
  User-specified:
  - Single binary: format-bench run|validate|list-models|metrics.
  - Non-zero exit when a run drops records or cannot read its input.

  Implementation-discovered:
  - Cobra is silenced (SilenceUsage, SilenceErrors on root), so
    the error line printed here is the only failure output.

ARCHITECTURE INTEGRATION:
  - Calls: internal/cli.Execute()

ERROR HANDLING:
  - Explicit error check on Execute(); exit code 1 on failure.

IMPLEMENTATION RULES:
  - Keep main() minimal. All logic belongs in internal/ packages.

USAGE:
  go build -ldflags "-X github.com/daryltucker/format-bench/internal/pipeline.Version=v0.1.0" ./cmd/format-bench
  ./format-bench run model_data.csv

RELATED FILES:
  - internal/cli/root.go
*/

package main

import (
	"fmt"
	"os"

	"github.com/daryltucker/format-bench/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
