package engine

import "github.com/daryltucker/format-bench/internal/model"

// BucketFormat holds the per-format means of one size bucket.
type BucketFormat struct {
	Format  model.Format
	Records int
	// Means is indexed like model.Metrics; absent where no record of the
	// format in this bucket defines the metric.
	Means []model.Optional[float64]
}

// Mean returns the bucket mean of m.
func (b BucketFormat) Mean(m model.Metric) model.Optional[float64] {
	if i := m.Index(); i >= 0 && i < len(b.Means) {
		return b.Means[i]
	}
	return model.None[float64]()
}

// BucketStats aggregates the records whose model falls in one size bucket.
type BucketStats struct {
	Name string
	// Models lists the bucket's models in first-encountered order.
	Models  []string
	Formats []BucketFormat
}

// bucketize groups rows by the face count of their record. Records without a
// face count, or beyond every bound, are excluded and counted. Buckets with no records are still
// returned so reports show the full range.
func bucketize(rows []Row, s Settings) ([]BucketStats, int) {
	grouped := make(map[string][]Row, len(s.Buckets))
	unbucketed := 0
	for _, r := range rows {
		faces, ok := r.Record.FaceCount.Get()
		if !ok {
			unbucketed++
			continue
		}
		name := s.bucketFor(faces)
		if name == "" {
			// above the last bound of unvalidated settings
			unbucketed++
			continue
		}
		grouped[name] = append(grouped[name], r)
	}

	out := make([]BucketStats, 0, len(s.Buckets))
	for _, b := range s.Buckets {
		group := grouped[b.Name]
		bs := BucketStats{Name: b.Name}

		seen := make(map[string]bool)
		for _, r := range group {
			if !seen[r.Record.ModelID] {
				seen[r.Record.ModelID] = true
				bs.Models = append(bs.Models, r.Record.ModelID)
			}
		}

		for _, f := range model.Formats {
			fr := rowsOf(group, f)
			if len(fr) == 0 {
				continue
			}
			bf := BucketFormat{Format: f, Records: len(fr), Means: make([]model.Optional[float64], len(model.Metrics))}
			for i, m := range model.Metrics {
				if values := defined(fr, m); len(values) > 0 {
					bf.Means[i] = model.Some(Mean(values))
				}
			}
			bs.Formats = append(bs.Formats, bf)
		}
		out = append(out, bs)
	}
	return out, unbucketed
}
