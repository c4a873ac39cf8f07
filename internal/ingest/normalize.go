/*
PURPOSE:
  Converts hand-transcribed metric cells ("1,220 MB", " 382 MB ", "N/Av")
  into canonical numbers: megabytes for sizes, milliseconds for times,
  thousands of faces for face counts.

REQUIREMENTS:
  User-specified:
  - Tolerate thousands separators, whitespace, unit suffixes in any case.
  - N/A-family markers always mean "missing".

  Implementation-discovered:
  - Never fail: a cell that does not parse is missing, and is counted.
  - Placeholders and garbage are counted separately so reports can tell
    "not measured" from "transcription error".

ARCHITECTURE INTEGRATION:
  - Called by: internal/ingest loaders
  - Produces: model.Optional values

ERROR HANDLING:
  - None. Classification is returned as a Kind.

IMPLEMENTATION RULES:
  - Unit tables are passed in; there is no package-level mutable state.

USAGE:
  n := ingest.NewNormalizer(ingest.DefaultUnits())
  out := n.Normalize("1,220 MB") // out.Value == model.Some(1220.0)

RELATED FILES:
  - internal/ingest/ingest.go
*/

package ingest

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/daryltucker/format-bench/internal/model"
)

// Kind classifies the outcome of normalizing one cell.
type Kind int

const (
	KindValue       Kind = iota // a usable number
	KindBlank                   // empty cell
	KindPlaceholder             // N/A-family marker
	KindMalformed               // anything else that failed to parse
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindBlank:
		return "blank"
	case KindPlaceholder:
		return "placeholder"
	case KindMalformed:
		return "malformed"
	}
	return "unknown"
}

// Outcome is a normalized cell.
type Outcome struct {
	Value model.Optional[float64]
	Kind  Kind
}

// Missing reports whether the cell produced no value.
func (o Outcome) Missing() bool {
	return o.Kind != KindValue
}

// Int converts an integral value to an Optional[int].
func (o Outcome) Int() model.Optional[int] {
	v, ok := o.Value.Get()
	if !ok {
		return model.None[int]()
	}
	return model.Some(int(v))
}

// UnitTable maps a lower-case unit suffix to its factor in the canonical unit.
// The empty key is the factor for a bare number.
type UnitTable map[string]float64

// Units groups the unit tables for each kind of measurement.
type Units struct {
	Size  UnitTable // canonical: MB
	Time  UnitTable // canonical: ms
	Count UnitTable // canonical: as written (face counts are thousands)
}

// DefaultUnits returns the unit tables used when none are configured.
func DefaultUnits() Units {
	return Units{
		Size: UnitTable{
			"":   1,
			"mb": 1,
			"m":  1,
			"gb": 1024,
			"g":  1024,
			"kb": 1.0 / 1024,
		},
		Time: UnitTable{
			"":    1,
			"ms":  1,
			"s":   1000,
			"sec": 1000,
		},
		Count: UnitTable{
			"":  1,
			"k": 1,
		},
	}
}

var (
	// Commas are only accepted as thousands separators.
	numberPattern      = regexp.MustCompile(`^([+-]?)((?:\d{1,3}(?:,\d{3})+|\d+)(?:\.\d+)?|\.\d+)\s*([a-z]*)\.?$`)
	placeholderPattern = regexp.MustCompile(`^(n\s*[/\\.]?\s*a[^0-9]*|-+|—|none|null|nil|unknown|\?+)$`)
)

// Normalizer turns raw cells into canonical numbers.
type Normalizer struct {
	units Units
}

// NewNormalizer creates a Normalizer over the given unit tables. Table keys
// are matched lower-case.
func NewNormalizer(units Units) *Normalizer {
	return &Normalizer{units: Units{
		Size:  lowerKeys(units.Size),
		Time:  lowerKeys(units.Time),
		Count: lowerKeys(units.Count),
	}}
}

func lowerKeys(t UnitTable) UnitTable {
	out := make(UnitTable, len(t))
	for k, v := range t {
		out[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return out
}

// Normalize parses a size cell into megabytes.
func (n *Normalizer) Normalize(raw string) Outcome {
	return parse(raw, n.units.Size)
}

// Duration parses a time cell into milliseconds.
func (n *Normalizer) Duration(raw string) Outcome {
	return parse(raw, n.units.Time)
}

// Count parses a face or texture count. Fractional counts are malformed.
func (n *Normalizer) Count(raw string) Outcome {
	out := parse(raw, n.units.Count)
	if v, ok := out.Value.Get(); ok && v != math.Trunc(v) {
		return Outcome{Kind: KindMalformed}
	}
	return out
}

// Number validates a value that arrived already numeric (JSON numbers).
func (n *Normalizer) Number(v float64) Outcome {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return Outcome{Kind: KindMalformed}
	}
	return Outcome{Value: model.Some(v), Kind: KindValue}
}

func parse(raw string, units UnitTable) Outcome {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return Outcome{Kind: KindBlank}
	}
	if placeholderPattern.MatchString(s) {
		return Outcome{Kind: KindPlaceholder}
	}

	m := numberPattern.FindStringSubmatch(s)
	if m == nil {
		return Outcome{Kind: KindMalformed}
	}
	if m[1] == "-" {
		return Outcome{Kind: KindMalformed}
	}
	factor, ok := units[m[3]]
	if !ok {
		return Outcome{Kind: KindMalformed}
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", ""), 64)
	if err != nil {
		return Outcome{Kind: KindMalformed}
	}
	return Outcome{Value: model.Some(v * factor), Kind: KindValue}
}
