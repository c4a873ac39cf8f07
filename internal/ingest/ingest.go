/*
PURPOSE:
  Record Loader. Reads a CSV or JSON measurement file and returns one
  model.MetricRecord per (model, format) pair.

REQUIREMENTS:
  User-specified:
  - Accept CSV and JSON exports of the measurement sheet.
  - Drop records whose model id or format is missing/unrecognized; keep going.
  - A bad numeric cell is missing, never a hard failure.

  Implementation-discovered:
  - The benchmark JSON export is nested by model, then by format.
  - Face and texture counts belong to the model, but the sheet sometimes
    repeats them inconsistently per row. First present value wins.
  - Skipped cells must be counted so data loss is visible in the report.

ARCHITECTURE INTEGRATION:
  - Called by: internal/pipeline, internal/cli (validate, list-models)
  - Uses: internal/model

ERROR HANDLING:
  - Per-record problems become *ParseError values in Result.Errors.
  - Unreadable files, missing CSV columns and invalid JSON are returned as errors.

IMPLEMENTATION RULES:
  - Whole-file reads. No streaming.
  - Records come back in source order.

USAGE:
  res, err := ingest.Load("data/model_data.csv", ingest.NewNormalizer(ingest.DefaultUnits()))

RELATED FILES:
  - internal/ingest/csv.go
  - internal/ingest/json.go
  - internal/ingest/normalize.go
*/

package ingest

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"github.com/daryltucker/format-bench/internal/model"
)

// Report counts what happened to individual cells and records during a load.
type Report struct {
	// Fields is the number of optional numeric cells seen.
	Fields int `json:"fields"`
	// Skipped is the number of those cells that ended up missing.
	Skipped      int `json:"skipped"`
	Blanks       int `json:"blanks"`
	Placeholders int `json:"placeholders"`
	Malformed    int `json:"malformed"`
	// Dropped is the number of records rejected with a ParseError.
	Dropped int `json:"dropped"`
	// Conflicts is the number of face/texture counts overwritten by the
	// model's first value.
	Conflicts int `json:"conflicts"`

	SkippedByMetric map[model.Metric]int `json:"skipped_by_metric,omitempty"`
	UnknownFields   []string             `json:"unknown_fields,omitempty"`
}

func (r *Report) count(m model.Metric, out Outcome) {
	r.Fields++
	if !out.Missing() {
		return
	}
	r.Skipped++
	if r.SkippedByMetric == nil {
		r.SkippedByMetric = make(map[model.Metric]int)
	}
	r.SkippedByMetric[m]++
	switch out.Kind {
	case KindBlank:
		r.Blanks++
	case KindPlaceholder:
		r.Placeholders++
	case KindMalformed:
		r.Malformed++
	}
}

func (r *Report) unknownField(name string) {
	if !slices.Contains(r.UnknownFields, name) {
		r.UnknownFields = append(r.UnknownFields, name)
	}
}

// Result is the output of a load.
type Result struct {
	// Source is the path the records were read from; Kind its detected layout.
	Source  string
	Kind    Source
	Records []model.MetricRecord
	Errors  []*ParseError
	Report  Report
}

// Models returns model ids in first-encountered order.
func (r *Result) Models() []string {
	var ids []string
	seen := make(map[string]bool)
	for _, rec := range r.Records {
		if !seen[rec.ModelID] {
			seen[rec.ModelID] = true
			ids = append(ids, rec.ModelID)
		}
	}
	return ids
}

// Load reads the file at path and parses it as CSV or JSON.
func Load(path string, n *Normalizer) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input %s: %w", path, err)
	}

	src, err := DetectSource(path, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var res *Result
	switch src {
	case SourceCSV:
		res, err = LoadCSV(bytes.NewReader(data), n)
	case SourceJSON:
		res, err = LoadJSON(bytes.NewReader(data), n)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	res.Source = path
	res.Kind = src
	return res, nil
}

// builder accumulates records from any source.
type builder struct {
	n       *Normalizer
	res     *Result
	present map[string]map[model.Format]bool
}

func newBuilder(n *Normalizer) *builder {
	return &builder{
		n:       n,
		res:     &Result{},
		present: make(map[string]map[model.Format]bool),
	}
}

func (b *builder) drop(err *ParseError) {
	b.res.Errors = append(b.res.Errors, err)
	b.res.Report.Dropped++
}

// add validates and normalizes one flat row keyed by canonical field name.
func (b *builder) add(line int, cells map[string]cell) {
	id := cells[fieldModelID].String()
	if id == "" {
		b.drop(&ParseError{Line: line, Field: fieldModelID, Err: ErrMissingField})
		return
	}

	rawFormat := cells[fieldFormat].String()
	if rawFormat == "" {
		b.drop(&ParseError{Line: line, Field: fieldFormat, Err: ErrMissingField})
		return
	}
	format, err := model.ParseFormat(rawFormat)
	if err != nil {
		b.drop(&ParseError{
			Line:       line,
			Field:      fieldFormat,
			Value:      rawFormat,
			Suggestion: suggestFormat(rawFormat),
			Err:        ErrUnknownFormat,
		})
		return
	}

	if b.present[id][format] {
		b.drop(&ParseError{Line: line, Field: fieldFormat, Value: id + "/" + format.String(), Err: ErrDuplicate})
		return
	}
	if b.present[id] == nil {
		b.present[id] = make(map[model.Format]bool)
	}
	b.present[id][format] = true

	rec := model.MetricRecord{ModelID: id, Format: format, Line: line}
	for _, f := range numericFields {
		c, ok := cells[string(f.metric)]
		if !ok {
			continue
		}
		out := c.normalize(b.n, f.kind)
		if !c.counted {
			b.res.Report.count(f.metric, out)
		}
		setField(&rec, f.metric, out)
	}
	b.res.Records = append(b.res.Records, rec)
}

func setField(rec *model.MetricRecord, m model.Metric, out Outcome) {
	switch m {
	case model.RawSize:
		rec.RawSizeMB = out.Value
	case model.CompressedSize:
		rec.CompressedSizeMB = out.Value
	case model.TextureSize:
		rec.TextureSizeMB = out.Value
	case model.PeakMemory:
		rec.PeakMemoryMB = out.Value
	case model.ImportTime:
		rec.ImportTimeMS = out.Value
	case model.LoadTime:
		rec.LoadTimeMS = out.Value
	case model.LoadMemory:
		rec.LoadMemoryMB = out.Value
	case model.FaceCount:
		rec.FaceCount = out.Int()
	case model.TextureCount:
		rec.TextureCount = out.Int()
	}
}

// finish reconciles model identity attributes and returns the result.
func (b *builder) finish() *Result {
	b.res.Records, b.res.Report.Conflicts = reconcile(b.res.Records)
	return b.res
}

// reconcile returns a copy of records where face and texture counts follow
// the first present value seen for each model.
func reconcile(records []model.MetricRecord) ([]model.MetricRecord, int) {
	faces := make(map[string]model.Optional[int])
	textures := make(map[string]model.Optional[int])
	for _, rec := range records {
		if !faces[rec.ModelID].Valid() && rec.FaceCount.Valid() {
			faces[rec.ModelID] = rec.FaceCount
		}
		if !textures[rec.ModelID].Valid() && rec.TextureCount.Valid() {
			textures[rec.ModelID] = rec.TextureCount
		}
	}

	conflicts := 0
	out := make([]model.MetricRecord, len(records))
	for i, rec := range records {
		if want := faces[rec.ModelID]; want.Valid() {
			if rec.FaceCount.Valid() && rec.FaceCount != want {
				conflicts++
			}
			rec.FaceCount = want
		}
		if want := textures[rec.ModelID]; want.Valid() {
			if rec.TextureCount.Valid() && rec.TextureCount != want {
				conflicts++
			}
			rec.TextureCount = want
		}
		out[i] = rec
	}
	return out, conflicts
}
