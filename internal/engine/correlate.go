package engine

import (
	"math"

	"github.com/daryltucker/format-bench/internal/model"
)

// Pair is an unordered pair of metrics, stored in declared metric order.
type Pair struct {
	A, B model.Metric
}

// NewPair normalizes the order of a and b so (a, b) and (b, a) are the same key.
func NewPair(a, b model.Metric) Pair {
	if b.Index() < a.Index() {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Correlation is the Pearson coefficient of a metric pair over the records
// where both are defined.
type Correlation struct {
	Pair
	R       model.Optional[float64]
	Samples int
}

// Pearson returns the correlation coefficient of xs and ys. It is absent when
// there are fewer than minSamples pairs or either series has zero variance.
// Swapping xs and ys yields the identical value.
func Pearson(xs, ys []float64, minSamples int) model.Optional[float64] {
	n := min(len(xs), len(ys))
	if n < max(minSamples, 2) {
		return model.None[float64]()
	}
	mx, my := Mean(xs[:n]), Mean(ys[:n])

	var sxy, sxx, syy float64
	for i := 0; i < n; i++ {
		dx := xs[i] - mx
		dy := ys[i] - my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return model.None[float64]()
	}

	r := sxy / math.Sqrt(sxx*syy)
	return model.Some(math.Max(-1, math.Min(1, r)))
}

// paired collects the records where both a and b are defined.
func paired(rows []Row, a, b model.Metric) (xs, ys []float64) {
	for _, r := range rows {
		x, okx := r.Value(a).Get()
		y, oky := r.Value(b).Get()
		if okx && oky {
			xs = append(xs, x)
			ys = append(ys, y)
		}
	}
	return xs, ys
}

// correlate computes every unordered pair of metrics, in declared order.
func correlate(rows []Row, metrics []model.Metric, minSamples int) []Correlation {
	var out []Correlation
	for i, a := range metrics {
		for _, b := range metrics[i+1:] {
			p := NewPair(a, b)
			xs, ys := paired(rows, p.A, p.B)
			out = append(out, Correlation{
				Pair:    p,
				R:       Pearson(xs, ys, minSamples),
				Samples: len(xs),
			})
		}
	}
	return out
}
