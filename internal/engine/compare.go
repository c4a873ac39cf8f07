package engine

import "github.com/daryltucker/format-bench/internal/model"

// Delta compares one metric between the two formats of a head-to-head.
type Delta struct {
	Metric model.Metric
	A, B   model.Optional[float64]
	// Diff is B - A; Ratio is B / A. Both need A and B, Ratio also a non-zero A.
	Diff  model.Optional[float64]
	Ratio model.Optional[float64]
}

// HeadToHead compares two formats of the same model.
type HeadToHead struct {
	ModelID string
	A, B    model.Format
	Deltas  []Delta
}

// headToHead emits one comparison per model that has both formats of a pair.
func headToHead(models []ModelGroup, pairs []FormatPair, metrics []model.Metric) []HeadToHead {
	var out []HeadToHead
	for _, p := range pairs {
		for _, g := range models {
			a, okA := g.Row(p.A)
			b, okB := g.Row(p.B)
			if !okA || !okB {
				continue
			}
			h := HeadToHead{ModelID: g.ModelID, A: p.A, B: p.B}
			for _, m := range metrics {
				d := Delta{Metric: m, A: a.Value(m), B: b.Value(m)}
				av, aok := d.A.Get()
				bv, bok := d.B.Get()
				if aok && bok {
					d.Diff = model.Some(bv - av)
					if av != 0 {
						d.Ratio = model.Some(bv / av)
					}
				}
				h.Deltas = append(h.Deltas, d)
			}
			out = append(out, h)
		}
	}
	return out
}
