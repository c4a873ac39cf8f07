/*
PURPOSE:
  Defines the core data structures used throughout Format Bench.
  A MetricRecord is one (model, format) measurement row; DerivedMetrics
  are the ratios computed from it.

REQUIREMENTS:
  User-specified:
  - Record file size, compressed size, texture size, peak memory, import time.
  - Track model id, format, face count, texture count.

  Implementation-discovered:
  - Source data is hand transcribed and full of holes ("N/A", blank cells).
  - Absent values must never turn into zero further down the pipeline.
  - glTF/GLB rows carry load time and load memory as well.

ARCHITECTURE INTEGRATION:
  - Used by: internal/ingest, internal/engine, internal/dataset, internal/output
  - Shared across boundaries.

ERROR HANDLING:
  - None (pure data structs).

IMPLEMENTATION RULES:
  - Every numeric measurement is an Optional.
  - Records are values; stages copy, never mutate their input.

USAGE:
  rec := model.MetricRecord{ModelID: "Bistro", Format: model.FBX, RawSizeMB: model.Some(1037.0)}

SELF-HEALING INSTRUCTIONS:
  - If new metrics are needed, add the field, a Metric constant, and a case in Value().

RELATED FILES:
  - internal/model/metric.go
  - internal/output/csv.go

MAINTENANCE:
  - Update when adding new metrics to capture.
*/

package model

// MetricRecord represents the measurements of one model exported to one format.
type MetricRecord struct {
	ModelID string `json:"model_id"`
	Format  Format `json:"format"`

	// Model identity attributes. FaceCount is in thousands of faces.
	FaceCount    Optional[int] `json:"face_count"`
	TextureCount Optional[int] `json:"texture_count"`

	RawSizeMB        Optional[float64] `json:"raw_size_mb"`
	CompressedSizeMB Optional[float64] `json:"compressed_size_mb"`
	TextureSizeMB    Optional[float64] `json:"texture_size_mb"`
	PeakMemoryMB     Optional[float64] `json:"peak_memory_mb"`
	ImportTimeMS     Optional[float64] `json:"import_time_ms"`
	LoadTimeMS       Optional[float64] `json:"load_time_ms"`
	LoadMemoryMB     Optional[float64] `json:"load_memory_mb"`

	// Line is the CSV line or JSON element the record came from.
	Line int `json:"-"`
}

// Value returns the measured value of a base metric. Derived metrics are
// never present on a record and always come back absent.
func (r MetricRecord) Value(m Metric) Optional[float64] {
	switch m {
	case RawSize:
		return r.RawSizeMB
	case CompressedSize:
		return r.CompressedSizeMB
	case TextureSize:
		return r.TextureSizeMB
	case PeakMemory:
		return r.PeakMemoryMB
	case ImportTime:
		return r.ImportTimeMS
	case LoadTime:
		return r.LoadTimeMS
	case LoadMemory:
		return r.LoadMemoryMB
	case FaceCount:
		return r.FaceCount.Float()
	case TextureCount:
		return r.TextureCount.Float()
	}
	return None[float64]()
}

// DerivedMetrics holds the ratios computed from a single record.
type DerivedMetrics struct {
	CompressionRatio Optional[float64] `json:"compression_ratio"`
	TextureRatio     Optional[float64] `json:"texture_ratio"`
	MemoryPerFace    Optional[float64] `json:"memory_per_face"`
	MemoryPerMB      Optional[float64] `json:"memory_per_mb"`
}

// Value returns the derived metric m, absent for base metrics.
func (d DerivedMetrics) Value(m Metric) Optional[float64] {
	switch m {
	case CompressionRatio:
		return d.CompressionRatio
	case TextureRatio:
		return d.TextureRatio
	case MemoryPerFace:
		return d.MemoryPerFace
	case MemoryPerMB:
		return d.MemoryPerMB
	}
	return None[float64]()
}
