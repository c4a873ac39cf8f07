package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// LoadCSV parses a CSV sheet with a header row. Column names are matched
// case-insensitively against the known aliases; unknown columns are ignored
// and listed in the report.
func LoadCSV(r io.Reader, n *Normalizer) (*Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty CSV: %w", ErrMissingColumn)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	b := newBuilder(n)
	columns := make([]string, len(header))
	for i, name := range header {
		field, ok := canonicalField(name)
		if !ok {
			if strings.TrimSpace(name) != "" {
				b.res.Report.unknownField(strings.TrimSpace(name))
			}
			continue
		}
		columns[i] = field
	}
	for _, required := range []string{fieldModelID, fieldFormat} {
		if !containsField(columns, required) {
			return nil, fmt.Errorf("column %q: %w", required, ErrMissingColumn)
		}
	}

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if blankRow(row) {
			continue
		}

		cells := make(map[string]cell, len(columns))
		for i, field := range columns {
			if field == "" {
				continue
			}
			// Short rows: trailing cells are blank.
			value := ""
			if i < len(row) {
				value = row[i]
			}
			if _, dup := cells[field]; dup && strings.TrimSpace(value) == "" {
				continue
			}
			cells[field] = textCell(value)
		}
		b.add(line, cells)
	}

	return b.finish(), nil
}

func containsField(columns []string, field string) bool {
	for _, c := range columns {
		if c == field {
			return true
		}
	}
	return false
}

func blankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
