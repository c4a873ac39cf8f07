package ingest

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Source is the kind of structured input.
type Source int

const (
	SourceCSV Source = iota + 1
	SourceJSON
)

func (s Source) String() string {
	switch s {
	case SourceCSV:
		return "csv"
	case SourceJSON:
		return "json"
	}
	return "unknown"
}

// DetectSource picks the parser by file extension, falling back to the
// first non-space byte of the content.
func DetectSource(path string, data []byte) (Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return SourceCSV, nil
	case ".json", ".jsonl", ".ndjson":
		return SourceJSON, nil
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) == 0 {
		return 0, ErrUnknownSource
	}
	switch trimmed[0] {
	case '[', '{':
		return SourceJSON, nil
	}
	if bytes.IndexByte(trimmed, ',') >= 0 {
		return SourceCSV, nil
	}
	return 0, ErrUnknownSource
}
