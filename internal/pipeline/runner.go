/*
PURPOSE:
  High-level runner that orchestrates one comparison run.
  Load -> Aggregate -> Build dataset -> Render reports.

REQUIREMENTS:
  User-specified:
  - Run the comparison over one measurement file.
  - Write results to CSV/JSON and the text/HTML reports.

  Implementation-discovered:
  - Needs to report data loss (skipped cells, dropped records) loudly.
  - The CLI decides the exit code, so dropped records surface as a
    sentinel error after the reports are written.

ARCHITECTURE INTEGRATION:
  - Called by: internal/cli
  - Uses: internal/ingest, internal/engine, internal/dataset, internal/output

ERROR HANDLING:
  - Fatal: unreadable/invalid input, invalid settings.
  - Renderer failures are logged and returned joined.
  - Dropped records return ErrDroppedRecords unless cfg.AllowDropped.

IMPLEMENTATION RULES:
  - Single pass, synchronous. Each stage consumes the previous one read-only.

USAGE:
  summary, err := pipeline.Run(cfg)

SELF-HEALING INSTRUCTIONS:
  - None.

RELATED FILES:
  - internal/cli/run.go

MAINTENANCE:
  - Update when a new stage is added between aggregation and rendering.
*/

package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/daryltucker/format-bench/internal/config"
	"github.com/daryltucker/format-bench/internal/dataset"
	"github.com/daryltucker/format-bench/internal/engine"
	"github.com/daryltucker/format-bench/internal/ingest"
	"github.com/daryltucker/format-bench/internal/output"
)

// ErrDroppedRecords reports that at least one record was rejected with a ParseError.
var ErrDroppedRecords = errors.New("records dropped")

// Version is stamped into dataset metadata. Overridden at build time.
var Version = "dev"

// Summary is what a run produced.
type Summary struct {
	Dataset *dataset.Dataset
	Written []string
}

// Options tweak a run without going through config.
type Options struct {
	// Clock fixes the dataset timestamp; nil means time.Now.
	Clock func() time.Time
}

// Load reads and normalizes the configured input.
func Load(cfg *config.Config) (*ingest.Result, error) {
	if cfg.Input == "" {
		return nil, errors.New("no input file (pass one as an argument or set input in the config)")
	}
	output.Logger.Info("Loading records", "input", cfg.Input)
	res, err := ingest.Load(cfg.Input, ingest.NewNormalizer(cfg.NormalizerUnits()))
	if err != nil {
		return nil, err
	}
	output.Logger.Info("Loaded records", "records", len(res.Records), "models", len(res.Models()), "source", res.Kind)
	logReport(res)
	return res, nil
}

// logReport emits the warning summary of a load.
func logReport(res *ingest.Result) {
	r := res.Report
	if r.Skipped > 0 {
		output.Logger.Warn("Skipped fields",
			"count", r.Skipped,
			"fields", r.Fields,
			"blank", r.Blanks,
			"placeholder", r.Placeholders,
			"malformed", r.Malformed,
		)
	}
	if r.Conflicts > 0 {
		output.Logger.Warn("Conflicting model attributes replaced by first value", "count", r.Conflicts)
	}
	if len(r.UnknownFields) > 0 {
		output.Logger.Debug("Ignored unknown fields", "fields", r.UnknownFields)
	}
	for _, e := range res.Errors {
		output.Logger.Warn("Dropped record", "line", e.Line, "field", e.Field, "value", e.Value, "error", e.Err)
	}
}

// Run executes the full comparison and writes the configured reports.
func Run(cfg *config.Config, opts Options) (*Summary, error) {
	settings, err := cfg.Settings()
	if err != nil {
		return nil, err
	}
	renderers, err := output.Select(cfg.Renderers, output.Options{Title: cfg.ReportTitle})
	if err != nil {
		return nil, err
	}

	res, err := Load(cfg)
	if err != nil {
		return nil, err
	}

	agg := engine.Aggregate(res.Records, settings)
	output.Logger.Debug("Aggregated", "rankings", len(agg.Rankings), "correlations", len(agg.Correlations))
	if agg.Unbucketed > 0 {
		output.Logger.Warn("Records without face count left out of size buckets", "count", agg.Unbucketed)
	}

	buildOpts := []dataset.Option{dataset.WithVersion(Version)}
	if opts.Clock != nil {
		buildOpts = append(buildOpts, dataset.WithClock(opts.Clock))
	}
	ds := dataset.Build(res, agg, buildOpts...)

	written, err := output.WriteAll(cfg.OutputDir, renderers, ds)
	summary := &Summary{Dataset: ds, Written: written}
	if err != nil {
		return summary, fmt.Errorf("failed to write reports: %w", err)
	}
	output.Logger.Info("Reports written", "dir", cfg.OutputDir, "files", len(written))

	if n := len(res.Errors); n > 0 && !cfg.AllowDropped {
		return summary, fmt.Errorf("%d %w (use --allow-dropped to accept)", n, ErrDroppedRecords)
	}
	return summary, nil
}
