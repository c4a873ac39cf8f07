package ingest

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"unicode"

	"github.com/daryltucker/format-bench/internal/model"
)

// Canonical field names of a flat record.
const (
	fieldModelID = "model_id"
	fieldFormat  = "format"
)

type fieldKind int

const (
	sizeField fieldKind = iota
	timeField
	countField
)

// numericFields maps every optional numeric field to its metric and unit kind,
// in declared metric order.
var numericFields = []struct {
	metric model.Metric
	kind   fieldKind
}{
	{model.RawSize, sizeField},
	{model.CompressedSize, sizeField},
	{model.TextureSize, sizeField},
	{model.PeakMemory, sizeField},
	{model.ImportTime, timeField},
	{model.LoadTime, timeField},
	{model.LoadMemory, sizeField},
	{model.FaceCount, countField},
	{model.TextureCount, countField},
}

// fieldAliases maps a squashed column name (lower-case, letters and digits
// only) to its canonical field.
var fieldAliases = map[string]string{
	"modelid":   fieldModelID,
	"modelname": fieldModelID,
	"model":     fieldModelID,
	"name":      fieldModelID,
	"format":    fieldFormat,
	"fmt":       fieldFormat,

	"facecount":  string(model.FaceCount),
	"facecountk": string(model.FaceCount),
	"faces":      string(model.FaceCount),
	"facesk":     string(model.FaceCount),

	"texturecount": string(model.TextureCount),
	"textures":     string(model.TextureCount),

	"rawsizemb":        string(model.RawSize),
	"originalsizemb":   string(model.RawSize),
	"sizebeforemb":     string(model.RawSize),
	"sizebeforezipmb":  string(model.RawSize),
	"compressedsizemb": string(model.CompressedSize),
	"sizeaftermb":      string(model.CompressedSize),
	"sizeafterzipmb":   string(model.CompressedSize),

	"texturesizemb":          string(model.TextureSize),
	"texturesizebeforezipmb": string(model.TextureSize),

	"peakmemorymb": string(model.PeakMemory),
	"importtimems": string(model.ImportTime),
	"loadtimems":   string(model.LoadTime),

	"loadmemorymb":     string(model.LoadMemory),
	"loadpeakmemorymb": string(model.LoadMemory),
}

// canonicalField resolves a column or JSON key to its canonical field name.
func canonicalField(name string) (string, bool) {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	f, ok := fieldAliases[b.String()]
	return f, ok
}

// cell is one raw field value before normalization.
type cell struct {
	text  string
	num   float64
	isNum bool
	null  bool
	bad   bool // JSON value of the wrong shape (bool, object, array)
	// counted cells were already added to the Report by their model.
	counted bool
}

func textCell(s string) cell {
	return cell{text: s}
}

func jsonCell(raw json.RawMessage) cell {
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0, bytes.Equal(raw, []byte("null")):
		return cell{null: true}
	case raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return cell{bad: true}
		}
		return cell{text: s}
	}
	if v, err := strconv.ParseFloat(string(raw), 64); err == nil {
		return cell{num: v, isNum: true, text: string(raw)}
	}
	return cell{bad: true, text: string(raw)}
}

// String is the identifying text of a cell (model ids and formats).
func (c cell) String() string {
	if c.null || c.bad {
		return ""
	}
	return strings.TrimSpace(c.text)
}

// normalize runs the cell through the normalizer for the given field kind.
func (c cell) normalize(n *Normalizer, kind fieldKind) Outcome {
	switch {
	case c.null:
		return Outcome{Kind: KindPlaceholder}
	case c.bad:
		return Outcome{Kind: KindMalformed}
	case c.isNum:
		out := n.Number(c.num)
		if v, ok := out.Value.Get(); ok && kind == countField && v != float64(int64(v)) {
			return Outcome{Kind: KindMalformed}
		}
		return out
	}
	switch kind {
	case timeField:
		return n.Duration(c.text)
	case countField:
		return n.Count(c.text)
	}
	return n.Normalize(c.text)
}
