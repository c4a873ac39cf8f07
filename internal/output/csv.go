/*
PURPOSE:
  Writes the normalized records and the per-format summary as CSV.

REQUIREMENTS:
  User-specified:
  - Output to CSV.
  - A summary CSV of per-format statistics.

  Implementation-discovered:
  - Missing values must stay distinguishable from zero: they are written
    as empty cells, never "0".
  - Spreadsheet users want derived ratios next to the raw measurements.

ARCHITECTURE INTEGRATION:
  - Called by: WriteAll (renderer.go)
  - Consumes: internal/dataset.Dataset

ERROR HANDLING:
  - Returns error on write failure.

IMPLEMENTATION RULES:
  - Use encoding/csv.
  - Flush() after every row (crash resilience).
  - Columns follow the declared metric order.

USAGE:
  w, _ := output.NewCSVWriter(f)
  w.Write(row)

SELF-HEALING INSTRUCTIONS:
  - If CSV format changes, update header and record conversion.

RELATED FILES:
  - internal/model/metric.go

MAINTENANCE:
  - New metrics appear automatically via model.Metrics.
*/

package output

import (
	"encoding/csv"
	"io"
	"strconv"
	"sync"

	"github.com/daryltucker/format-bench/internal/dataset"
	"github.com/daryltucker/format-bench/internal/engine"
	"github.com/daryltucker/format-bench/internal/model"
)

// CSVWriter handles writing record rows as CSV.
type CSVWriter struct {
	writer *csv.Writer
	mu     sync.Mutex
}

// RecordHeader is the records.csv header.
func RecordHeader() []string {
	header := []string{"model_id", "format"}
	for _, m := range model.Metrics {
		header = append(header, string(m))
	}
	return header
}

// NewCSVWriter writes the header and returns a writer for rows.
func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(RecordHeader()); err != nil {
		return nil, err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return &CSVWriter{writer: cw}, nil
}

// Write writes a single row. It is thread-safe.
func (cw *CSVWriter) Write(r engine.Row) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	record := []string{r.Record.ModelID, r.Record.Format.String()}
	for _, m := range model.Metrics {
		record = append(record, formatCell(r.Value(m)))
	}

	if err := cw.writer.Write(record); err != nil {
		return err
	}
	cw.writer.Flush()
	return cw.writer.Error()
}

// formatCell renders a value with the shortest exact representation, or an
// empty cell when absent.
func formatCell(v model.Optional[float64]) string {
	f, ok := v.Get()
	if !ok {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// RecordsCSVRenderer writes records.csv.
type RecordsCSVRenderer struct{}

func (RecordsCSVRenderer) Name() string     { return "csv" }
func (RecordsCSVRenderer) Filename() string { return "records.csv" }

func (RecordsCSVRenderer) Render(w io.Writer, ds *dataset.Dataset) error {
	cw, err := NewCSVWriter(w)
	if err != nil {
		return err
	}
	for _, m := range ds.Models {
		for _, r := range m.Rows {
			if err := cw.Write(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// SummaryCSVRenderer writes format_summary.csv: one row per format and metric.
type SummaryCSVRenderer struct{}

func (SummaryCSVRenderer) Name() string     { return "summary-csv" }
func (SummaryCSVRenderer) Filename() string { return "format_summary.csv" }

func (SummaryCSVRenderer) Render(w io.Writer, ds *dataset.Dataset) error {
	cw := csv.NewWriter(w)
	header := []string{"format", "metric", "direction", "records", "samples", "mean", "median", "min", "max", "stddev", "rank"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, f := range ds.Formats {
		for _, m := range model.Metrics {
			s := f.Metric(m)
			rank := ""
			if r, ok := ds.Ranking(m); ok {
				for i, e := range r.Entries {
					if e.Format == f.Format {
						rank = strconv.Itoa(i + 1)
					}
				}
			}
			row := []string{
				f.Format.String(),
				string(m),
				ds.Direction(m).String(),
				strconv.Itoa(f.Records),
				strconv.Itoa(s.Samples),
				formatCell(s.Mean),
				formatCell(s.Median),
				formatCell(s.Min),
				formatCell(s.Max),
				formatCell(s.StdDev),
				rank,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
