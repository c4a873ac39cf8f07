package model

// Metric names one measured or derived dimension of a record.
type Metric string

const (
	RawSize        Metric = "raw_size_mb"
	CompressedSize Metric = "compressed_size_mb"
	TextureSize    Metric = "texture_size_mb"
	PeakMemory     Metric = "peak_memory_mb"
	ImportTime     Metric = "import_time_ms"
	LoadTime       Metric = "load_time_ms"
	LoadMemory     Metric = "load_memory_mb"
	FaceCount      Metric = "face_count"
	TextureCount   Metric = "texture_count"

	CompressionRatio Metric = "compression_ratio"
	TextureRatio     Metric = "texture_ratio"
	MemoryPerFace    Metric = "memory_per_face"
	MemoryPerMB      Metric = "memory_per_mb"
)

// Metrics is the declared metric order. Rankings, correlations and every
// report iterate metrics in this order.
var Metrics = []Metric{
	RawSize,
	CompressedSize,
	TextureSize,
	PeakMemory,
	ImportTime,
	LoadTime,
	LoadMemory,
	FaceCount,
	TextureCount,
	CompressionRatio,
	TextureRatio,
	MemoryPerFace,
	MemoryPerMB,
}

type metricInfo struct {
	label   string
	unit    string
	derived bool
}

var metricInfos = map[Metric]metricInfo{
	RawSize:          {label: "Raw size", unit: "MB"},
	CompressedSize:   {label: "Compressed size", unit: "MB"},
	TextureSize:      {label: "Texture size", unit: "MB"},
	PeakMemory:       {label: "Peak memory", unit: "MB"},
	ImportTime:       {label: "Import time", unit: "ms"},
	LoadTime:         {label: "Load time", unit: "ms"},
	LoadMemory:       {label: "Load memory", unit: "MB"},
	FaceCount:        {label: "Face count", unit: "k faces"},
	TextureCount:     {label: "Texture count"},
	CompressionRatio: {label: "Compression ratio", derived: true},
	TextureRatio:     {label: "Texture ratio", derived: true},
	MemoryPerFace:    {label: "Memory per 1k faces", unit: "MB", derived: true},
	MemoryPerMB:      {label: "Memory per raw MB", derived: true},
}

// Label returns a human-readable name.
func (m Metric) Label() string {
	if info, ok := metricInfos[m]; ok {
		return info.label
	}
	return string(m)
}

// Unit returns the display unit, empty for dimensionless metrics.
func (m Metric) Unit() string {
	return metricInfos[m].unit
}

// Derived reports whether m is computed from other metrics.
func (m Metric) Derived() bool {
	return metricInfos[m].derived
}

// Known reports whether m is in the catalogue.
func (m Metric) Known() bool {
	_, ok := metricInfos[m]
	return ok
}

// Index returns the position of m in Metrics, or -1.
func (m Metric) Index() int {
	for i, v := range Metrics {
		if v == m {
			return i
		}
	}
	return -1
}
