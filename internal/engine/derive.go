package engine

import "github.com/daryltucker/format-bench/internal/model"

// Row pairs a record with the metrics derived from it.
type Row struct {
	Record  model.MetricRecord
	Derived model.DerivedMetrics
}

// Value returns metric m for the row, looking in the derived set for
// derived metrics and in the record otherwise.
func (r Row) Value(m model.Metric) model.Optional[float64] {
	if m.Derived() {
		return r.Derived.Value(m)
	}
	return r.Record.Value(m)
}

// Derive computes the ratio metrics of one record. A ratio is absent when any
// input is absent or its denominator is zero.
func Derive(r model.MetricRecord) model.DerivedMetrics {
	var d model.DerivedMetrics

	if raw, ok := r.RawSizeMB.Get(); ok && raw > 0 {
		if c, ok := r.CompressedSizeMB.Get(); ok {
			d.CompressionRatio = model.Some(1 - c/raw)
		}
		if t, ok := r.TextureSizeMB.Get(); ok {
			d.TextureRatio = model.Some(t / raw)
		}
		if p, ok := r.PeakMemoryMB.Get(); ok {
			d.MemoryPerMB = model.Some(p / raw)
		}
	}

	if faces, ok := r.FaceCount.Get(); ok && faces > 0 {
		if p, ok := r.PeakMemoryMB.Get(); ok {
			d.MemoryPerFace = model.Some(p / float64(faces))
		}
	}

	return d
}

// DeriveAll returns one Row per record, in input order.
func DeriveAll(records []model.MetricRecord) []Row {
	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = Row{Record: r, Derived: Derive(r)}
	}
	return rows
}
