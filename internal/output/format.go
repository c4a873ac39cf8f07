package output

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/daryltucker/format-bench/internal/engine"
	"github.com/daryltucker/format-bench/internal/model"
)

// printer groups thousands in every human-readable report.
var printer = message.NewPrinter(language.English)

// precision returns the decimals shown for m.
func precision(m model.Metric) int {
	switch m {
	case model.FaceCount, model.TextureCount:
		return 0
	case model.CompressionRatio, model.TextureRatio, model.MemoryPerFace, model.MemoryPerMB:
		return 3
	}
	return 1
}

// number formats v with grouped thousands and prec decimals.
func number(v float64, prec int) string {
	return printer.Sprintf(fmt.Sprintf("%%.%df", prec), v)
}

// value formats an optional metric value, "N/A" when absent.
func value(m model.Metric, v model.Optional[float64]) string {
	f, ok := v.Get()
	if !ok {
		return "N/A"
	}
	return number(f, precision(m))
}

// withUnit appends the unit of m to a formatted value.
func withUnit(m model.Metric, v model.Optional[float64]) string {
	s := value(m, v)
	if u := m.Unit(); u != "" && v.Valid() {
		return s + " " + u
	}
	return s
}

// count formats an optional count.
func count(v model.Optional[int]) string {
	n, ok := v.Get()
	if !ok {
		return "N/A"
	}
	return printer.Sprintf("%d", n)
}

// label returns "Label (unit)".
func label(m model.Metric) string {
	if u := m.Unit(); u != "" {
		return m.Label() + " (" + u + ")"
	}
	return m.Label()
}

// directionNote is the short human phrasing of a direction.
func directionNote(d engine.Direction) string {
	switch d {
	case engine.LowerIsBetter:
		return "lower is better"
	case engine.HigherIsBetter:
		return "higher is better"
	}
	return "descriptive"
}

// bucketLabel describes a bucket's face-count range, e.g. "100k-1,000k faces".
func bucketLabel(bounds []engine.Bucket, i int) string {
	lower := 0
	if i > 0 {
		lower = bounds[i-1].MaxFaceCountK
	}
	upper := bounds[i].MaxFaceCountK
	switch {
	case upper == 0:
		return printer.Sprintf(">= %dk faces", lower)
	case lower == 0:
		return printer.Sprintf("< %dk faces", upper)
	}
	return printer.Sprintf("%dk-%dk faces", lower, upper)
}

// correlationStrength names the strength of |r|.
func correlationStrength(r float64) string {
	if r < 0 {
		r = -r
	}
	switch {
	case r >= 0.7:
		return "strong"
	case r >= 0.4:
		return "moderate"
	case r >= 0.2:
		return "weak"
	}
	return "negligible"
}
