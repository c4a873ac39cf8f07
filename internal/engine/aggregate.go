/*
PURPOSE:
  The aggregation engine. Turns normalized records into derived metrics,
  per-format summaries, rankings, correlations, size buckets and
  head-to-head comparisons.

REQUIREMENTS:
  User-specified:
  - Rank formats per metric and recommend the best one.
  - Correlate metrics (faces vs memory, size vs import time, ...).
  - Compare small, medium and large models separately.

  Implementation-discovered:
  - Half the cells in real sheets are N/A. Missing values are excluded
    from every mean, rank and correlation; they are never zero.
  - Two runs over the same input must produce the same ordering, so every
    sort has a total tie-break (declared format order, then model id).

ARCHITECTURE INTEGRATION:
  - Called by: internal/pipeline
  - Consumed by: internal/dataset

ERROR HANDLING:
  - None. Insufficient data is a state (absent value, empty ranking).

IMPLEMENTATION RULES:
  - Pure: no I/O, no logging, no package-level state.
  - Input records are never mutated.

USAGE:
  agg := engine.Aggregate(res.Records, engine.DefaultSettings())
  best, ok := agg.Best(model.CompressionRatio)

SELF-HEALING INSTRUCTIONS:
  - New metric: add it to model.Metrics and to DefaultSettings().Directions.

RELATED FILES:
  - internal/engine/settings.go
  - internal/dataset/dataset.go

MAINTENANCE:
  - Keep iteration in declared order; maps are only used for lookups.
*/

package engine

import (
	"cmp"
	"slices"

	"github.com/daryltucker/format-bench/internal/model"
)

// ModelGroup holds the rows of one model and its per-model rankings.
type ModelGroup struct {
	ModelID string
	// Rows are in record order.
	Rows     []Row
	Rankings []Ranking
}

// Row returns the row of format f.
func (g ModelGroup) Row(f model.Format) (Row, bool) {
	for _, r := range g.Rows {
		if r.Record.Format == f {
			return r, true
		}
	}
	return Row{}, false
}

// FaceCount returns the model's face count from its first row that has one.
func (g ModelGroup) FaceCount() model.Optional[int] {
	for _, r := range g.Rows {
		if r.Record.FaceCount.Valid() {
			return r.Record.FaceCount
		}
	}
	return model.None[int]()
}

// TextureCount returns the model's texture count from its first row that has one.
func (g ModelGroup) TextureCount() model.Optional[int] {
	for _, r := range g.Rows {
		if r.Record.TextureCount.Valid() {
			return r.Record.TextureCount
		}
	}
	return model.None[int]()
}

// Result is everything computed from one batch of records.
type Result struct {
	Settings     Settings
	Rows         []Row
	Models       []ModelGroup
	Formats      []FormatSummary
	Rankings     []Ranking
	Leaderboards []Leaderboard
	Correlations []Correlation
	Buckets      []BucketStats
	// Unbucketed counts records excluded from size buckets for lack of a face count.
	Unbucketed int
	HeadToHead []HeadToHead
}

// Aggregate computes a Result. It does not modify records or s.
func Aggregate(records []model.MetricRecord, s Settings) *Result {
	s = s.clone()
	rows := DeriveAll(records)
	ranked := s.RankedMetrics()

	res := &Result{
		Settings: s,
		Rows:     rows,
		Formats:  summarizeFormats(rows),
	}

	res.Models = groupModels(rows)
	for i := range res.Models {
		g := &res.Models[i]
		for _, m := range ranked {
			g.Rankings = append(g.Rankings, rankRecords(g.Rows, m, s.Direction(m)))
		}
	}

	for _, m := range ranked {
		res.Rankings = append(res.Rankings, rankFormats(rows, m, s.Direction(m)))
		res.Leaderboards = append(res.Leaderboards, leaderboard(rows, m, s.Direction(m)))
	}

	metrics := slices.Clone(s.CorrelationMetrics)
	slices.SortFunc(metrics, func(a, b model.Metric) int { return cmp.Compare(a.Index(), b.Index()) })
	metrics = slices.Compact(metrics)
	res.Correlations = correlate(rows, metrics, s.MinCorrelationSamples)

	res.Buckets, res.Unbucketed = bucketize(rows, s)
	res.HeadToHead = headToHead(res.Models, s.HeadToHead, s.HeadToHeadMetrics)
	return res
}

// groupModels groups rows by model id, models in first-encountered order.
func groupModels(rows []Row) []ModelGroup {
	index := make(map[string]int)
	var groups []ModelGroup
	for _, r := range rows {
		i, ok := index[r.Record.ModelID]
		if !ok {
			i = len(groups)
			index[r.Record.ModelID] = i
			groups = append(groups, ModelGroup{ModelID: r.Record.ModelID})
		}
		groups[i].Rows = append(groups[i].Rows, r)
	}
	return groups
}

// Ranking returns the global ranking of m. Descriptive metrics have none.
func (r *Result) Ranking(m model.Metric) (Ranking, bool) {
	for _, rk := range r.Rankings {
		if rk.Metric == m {
			return rk, true
		}
	}
	return Ranking{}, false
}

// Best returns the recommended format for m: the head of its ranking.
func (r *Result) Best(m model.Metric) (RankEntry, bool) {
	rk, ok := r.Ranking(m)
	if !ok {
		return RankEntry{}, false
	}
	return rk.Best()
}

// Correlation looks up a pair in either order.
func (r *Result) Correlation(a, b model.Metric) (Correlation, bool) {
	p := NewPair(a, b)
	for _, c := range r.Correlations {
		if c.Pair == p {
			return c, true
		}
	}
	return Correlation{}, false
}

// Model returns the group of a model id.
func (r *Result) Model(id string) (ModelGroup, bool) {
	for _, g := range r.Models {
		if g.ModelID == id {
			return g, true
		}
	}
	return ModelGroup{}, false
}

// Format returns the summary of f, if any record has that format.
func (r *Result) Format(f model.Format) (FormatSummary, bool) {
	for _, fs := range r.Formats {
		if fs.Format == f {
			return fs, true
		}
	}
	return FormatSummary{}, false
}

// Bucket returns the name of the size bucket for a model face count (in thousands).
func (r *Result) Bucket(faces model.Optional[int]) string {
	f, ok := faces.Get()
	if !ok {
		return ""
	}
	return r.Settings.bucketFor(f)
}
