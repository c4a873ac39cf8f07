package engine

import (
	"math"
	"slices"

	"github.com/daryltucker/format-bench/internal/model"
)

// Summary describes the defined values of one metric within a group.
// Every statistic is absent when Samples is zero; StdDev needs two samples.
type Summary struct {
	Samples int
	Mean    model.Optional[float64]
	Median  model.Optional[float64]
	Min     model.Optional[float64]
	Max     model.Optional[float64]
	StdDev  model.Optional[float64]
}

// Summarize computes a Summary. values must only hold defined values.
func Summarize(values []float64) Summary {
	n := len(values)
	s := Summary{Samples: n}
	if n == 0 {
		return s
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mean := Mean(sorted)
	s.Mean = model.Some(mean)
	s.Min = model.Some(sorted[0])
	s.Max = model.Some(sorted[n-1])
	if n%2 == 1 {
		s.Median = model.Some(sorted[n/2])
	} else {
		s.Median = model.Some((sorted[n/2-1] + sorted[n/2]) / 2)
	}

	if n > 1 {
		ss := 0.0
		for _, v := range sorted {
			d := v - mean
			ss += d * d
		}
		s.StdDev = model.Some(math.Sqrt(ss / float64(n-1)))
	}
	return s
}

// Mean returns the arithmetic mean, or NaN for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// defined collects the defined values of m over rows.
func defined(rows []Row, m model.Metric) []float64 {
	var out []float64
	for _, r := range rows {
		if v, ok := r.Value(m).Get(); ok {
			out = append(out, v)
		}
	}
	return out
}

// FormatSummary aggregates every record of one format.
type FormatSummary struct {
	Format  model.Format
	Records int
	// Metrics is indexed like model.Metrics.
	Metrics []Summary
}

// Metric returns the summary of m.
func (f FormatSummary) Metric(m model.Metric) Summary {
	if i := m.Index(); i >= 0 && i < len(f.Metrics) {
		return f.Metrics[i]
	}
	return Summary{}
}

// summarizeFormats builds one FormatSummary per format that has records,
// in declared format order.
func summarizeFormats(rows []Row) []FormatSummary {
	var out []FormatSummary
	for _, f := range model.Formats {
		group := rowsOf(rows, f)
		if len(group) == 0 {
			continue
		}
		fs := FormatSummary{Format: f, Records: len(group), Metrics: make([]Summary, len(model.Metrics))}
		for i, m := range model.Metrics {
			fs.Metrics[i] = Summarize(defined(group, m))
		}
		out = append(out, fs)
	}
	return out
}

func rowsOf(rows []Row, f model.Format) []Row {
	var out []Row
	for _, r := range rows {
		if r.Record.Format == f {
			out = append(out, r)
		}
	}
	return out
}
