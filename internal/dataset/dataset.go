/*
PURPOSE:
  Comparison Dataset Builder. Assembles the loader report and the engine
  result into the single structure every renderer consumes.

REQUIREMENTS:
  User-specified:
  - One stable comparison dataset: per model, per format, rankings,
    correlations.

  Implementation-discovered:
  - Renderers must not re-sort anything; the dataset owns ordering.
  - JSON output must be byte-identical across runs, so the clock is
    injected and maps are never serialized directly.

ARCHITECTURE INTEGRATION:
  - Called by: internal/pipeline
  - Consumes: internal/ingest.Result, internal/engine.Result
  - Consumed by: internal/output renderers

ERROR HANDLING:
  - None. Build is pure assembly.

IMPLEMENTATION RULES:
  - Models in first-encountered order, metrics in declared order,
    formats in declared order.
  - Build copies what it keeps; later changes to the inputs do not leak in.

USAGE:
  ds := dataset.Build(res, agg, dataset.WithClock(func() time.Time { return fixed }))
  b, _ := json.Marshal(ds)

RELATED FILES:
  - internal/dataset/json.go
  - internal/engine/aggregate.go

MAINTENANCE:
  - New top-level sections go at the end of MarshalJSON to keep existing
    consumers stable.
*/

package dataset

import (
	"slices"
	"time"

	"github.com/daryltucker/format-bench/internal/engine"
	"github.com/daryltucker/format-bench/internal/ingest"
	"github.com/daryltucker/format-bench/internal/model"
)

// Metadata describes the run that produced a dataset.
type Metadata struct {
	GeneratedAt       time.Time `json:"generated_at"`
	Version           string    `json:"version"`
	Source            string    `json:"source"`
	SourceFormat      string    `json:"source_format"`
	RecordCount       int       `json:"record_count"`
	ModelCount        int       `json:"model_count"`
	SkippedFields     int       `json:"skipped_fields"`
	MalformedFields   int       `json:"malformed_fields"`
	DroppedRecords    int       `json:"dropped_records"`
	IdentityConflicts int       `json:"identity_conflicts"`
	UnbucketedRecords int       `json:"unbucketed_records"`
	UnknownFields     []string  `json:"unknown_fields"`
}

// ModelEntry is one model with its format rows and per-model rankings.
type ModelEntry struct {
	ModelID      string
	FaceCount    model.Optional[int]
	TextureCount model.Optional[int]
	// Bucket is the size bucket name, empty when the face count is unknown.
	Bucket   string
	Rows     []engine.Row
	Rankings []engine.Ranking
}

// Row returns the row of format f.
func (m ModelEntry) Row(f model.Format) (engine.Row, bool) {
	for _, r := range m.Rows {
		if r.Record.Format == f {
			return r, true
		}
	}
	return engine.Row{}, false
}

// Formats returns the formats present for the model, in record order.
func (m ModelEntry) Formats() []model.Format {
	out := make([]model.Format, len(m.Rows))
	for i, r := range m.Rows {
		out[i] = r.Record.Format
	}
	return out
}

// Dataset is the comparison dataset.
type Dataset struct {
	Metadata     Metadata
	Models       []ModelEntry
	Rankings     []engine.Ranking
	Correlations []engine.Correlation
	Formats      []engine.FormatSummary
	Buckets      []engine.BucketStats
	BucketBounds []engine.Bucket
	Leaderboards []engine.Leaderboard
	HeadToHead   []engine.HeadToHead
	// Directions maps every metric in declared order to its directionality.
	Directions []MetricDirection
	// ParseErrors are the loader's dropped records, for reports.
	ParseErrors []*ingest.ParseError
}

// MetricDirection pairs a metric with its directionality.
type MetricDirection struct {
	Metric    model.Metric
	Direction engine.Direction
}

// Option configures Build.
type Option func(*options)

type options struct {
	clock   func() time.Time
	version string
}

// WithClock sets the clock used for Metadata.GeneratedAt.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithVersion sets Metadata.Version.
func WithVersion(v string) Option {
	return func(o *options) {
		o.version = v
	}
}

// Build assembles a Dataset.
func Build(res *ingest.Result, agg *engine.Result, opts ...Option) *Dataset {
	o := options{clock: time.Now, version: "dev"}
	for _, opt := range opts {
		opt(&o)
	}

	ds := &Dataset{
		Rankings:     slices.Clone(agg.Rankings),
		Correlations: slices.Clone(agg.Correlations),
		Formats:      slices.Clone(agg.Formats),
		Buckets:      slices.Clone(agg.Buckets),
		BucketBounds: slices.Clone(agg.Settings.Buckets),
		Leaderboards: slices.Clone(agg.Leaderboards),
		HeadToHead:   slices.Clone(agg.HeadToHead),
		ParseErrors:  slices.Clone(res.Errors),
	}

	for _, g := range agg.Models {
		faces := g.FaceCount()
		ds.Models = append(ds.Models, ModelEntry{
			ModelID:      g.ModelID,
			FaceCount:    faces,
			TextureCount: g.TextureCount(),
			Bucket:       agg.Bucket(faces),
			Rows:         slices.Clone(g.Rows),
			Rankings:     slices.Clone(g.Rankings),
		})
	}

	for _, m := range model.Metrics {
		ds.Directions = append(ds.Directions, MetricDirection{Metric: m, Direction: agg.Settings.Direction(m)})
	}

	ds.Metadata = Metadata{
		GeneratedAt:       o.clock().UTC(),
		Version:           o.version,
		Source:            res.Source,
		SourceFormat:      res.Kind.String(),
		RecordCount:       len(agg.Rows),
		ModelCount:        len(agg.Models),
		SkippedFields:     res.Report.Skipped,
		MalformedFields:   res.Report.Malformed,
		DroppedRecords:    res.Report.Dropped,
		IdentityConflicts: res.Report.Conflicts,
		UnbucketedRecords: agg.Unbucketed,
		UnknownFields:     slices.Clone(res.Report.UnknownFields),
	}
	if ds.Metadata.UnknownFields == nil {
		ds.Metadata.UnknownFields = []string{}
	}
	return ds
}

// Model returns the entry of a model id.
func (d *Dataset) Model(id string) (ModelEntry, bool) {
	for _, m := range d.Models {
		if m.ModelID == id {
			return m, true
		}
	}
	return ModelEntry{}, false
}

// Ranking returns the global ranking of m.
func (d *Dataset) Ranking(m model.Metric) (engine.Ranking, bool) {
	for _, r := range d.Rankings {
		if r.Metric == m {
			return r, true
		}
	}
	return engine.Ranking{}, false
}

// Best returns the recommended format for m.
func (d *Dataset) Best(m model.Metric) (engine.RankEntry, bool) {
	r, ok := d.Ranking(m)
	if !ok {
		return engine.RankEntry{}, false
	}
	return r.Best()
}

// Correlation returns the correlation of a and b, in either order.
func (d *Dataset) Correlation(a, b model.Metric) (engine.Correlation, bool) {
	p := engine.NewPair(a, b)
	for _, c := range d.Correlations {
		if c.Pair == p {
			return c, true
		}
	}
	return engine.Correlation{}, false
}

// Leaderboard returns the record leaderboard of m.
func (d *Dataset) Leaderboard(m model.Metric) (engine.Leaderboard, bool) {
	for _, lb := range d.Leaderboards {
		if lb.Metric == m {
			return lb, true
		}
	}
	return engine.Leaderboard{}, false
}

// Direction returns the directionality of m.
func (d *Dataset) Direction(m model.Metric) engine.Direction {
	for _, md := range d.Directions {
		if md.Metric == m {
			return md.Direction
		}
	}
	return engine.Descriptive
}
