/*
PURPOSE:
  Writes the comparison dataset as one JSON document, and the normalized
  records as JSON Lines (NDJSON).
  Optimized for machine parsing and `vecq`/`jq` integration.

REQUIREMENTS:
  User-specified:
  - JSON output for easier parsing.

  Implementation-discovered:
  - The dataset is nested and ordered; it must be a single document.
  - Per-record rows are better as JSON Lines (grep/jq friendly, one row per line).

ARCHITECTURE INTEGRATION:
  - Called by: WriteAll (renderer.go)
  - Consumes: internal/dataset.Dataset

ERROR HANDLING:
  - Returns error on marshal or write failure.

IMPLEMENTATION RULES:
  - Use encoding/json.NewEncoder.
  - JSONWriter is safe for concurrent use.

USAGE:
  w := output.NewJSONWriter(f)
  w.Write(row)

SELF-HEALING INSTRUCTIONS:
  - Dataset key order lives in internal/dataset/json.go, not here.

RELATED FILES:
  - internal/dataset/json.go
*/

package output

import (
	"encoding/json"
	"io"
	"sync"

	"github.com/daryltucker/format-bench/internal/dataset"
	"github.com/daryltucker/format-bench/internal/engine"
	"github.com/daryltucker/format-bench/internal/model"
)

// JSONRenderer writes comparison.json.
type JSONRenderer struct{}

func (JSONRenderer) Name() string     { return "json" }
func (JSONRenderer) Filename() string { return "comparison.json" }

func (JSONRenderer) Render(w io.Writer, ds *dataset.Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ds)
}

// recordLine is one JSON Lines row: the record plus its derived metrics.
type recordLine struct {
	model.MetricRecord
	model.DerivedMetrics
}

// JSONWriter handles writing rows to a JSON Lines stream.
type JSONWriter struct {
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONWriter creates a new JSONWriter.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{encoder: json.NewEncoder(w)}
}

// Write writes a single row as a JSON line.
func (jw *JSONWriter) Write(r engine.Row) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	return jw.encoder.Encode(recordLine{r.Record, r.Derived})
}

// RecordsJSONLRenderer writes records.jsonl, models in dataset order.
type RecordsJSONLRenderer struct{}

func (RecordsJSONLRenderer) Name() string     { return "jsonl" }
func (RecordsJSONLRenderer) Filename() string { return "records.jsonl" }

func (RecordsJSONLRenderer) Render(w io.Writer, ds *dataset.Dataset) error {
	jw := NewJSONWriter(w)
	for _, m := range ds.Models {
		for _, r := range m.Rows {
			if err := jw.Write(r); err != nil {
				return err
			}
		}
	}
	return nil
}
