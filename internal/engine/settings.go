/*
PURPOSE:
  Settings is the immutable configuration of one aggregation run: metric
  directionality, size buckets, correlation sample floor, head-to-head pairs.

REQUIREMENTS:
  User-specified:
  - Lower is better for size, memory and time; higher is better for compression.
  - Group models into small/medium/large by face count.

  Implementation-discovered:
  - Runs must be reproducible and independently testable, so nothing here
    is package-level mutable state. Aggregate works on its own copy.

ARCHITECTURE INTEGRATION:
  - Built by: internal/pipeline from internal/config
  - Consumed by: Aggregate

ERROR HANDLING:
  - Validate() rejects unusable bucket lists and sample floors.

USAGE:
  s := engine.DefaultSettings()
  agg := engine.Aggregate(records, s)
*/

package engine

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/daryltucker/format-bench/internal/model"
)

// Direction says which end of a metric is better.
type Direction int

const (
	// Descriptive metrics are reported and correlated but never ranked.
	Descriptive Direction = iota
	LowerIsBetter
	HigherIsBetter
)

func (d Direction) String() string {
	switch d {
	case LowerIsBetter:
		return "lower-is-better"
	case HigherIsBetter:
		return "higher-is-better"
	}
	return "descriptive"
}

// ParseDirection parses the String form, plus the short forms "lower" and "higher".
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "lower", "lower-is-better", "min":
		return LowerIsBetter, nil
	case "higher", "higher-is-better", "max":
		return HigherIsBetter, nil
	case "descriptive", "none", "":
		return Descriptive, nil
	}
	return Descriptive, fmt.Errorf("unknown direction %q", s)
}

// compare orders a before b when a is the better value.
func (d Direction) compare(a, b float64) int {
	switch {
	case a == b:
		return 0
	case (a < b) == (d == LowerIsBetter):
		return -1
	}
	return 1
}

// Bucket is a named face-count range. A record falls in the first bucket whose
// MaxFaceCountK exceeds its face count; MaxFaceCountK 0 means unbounded.
type Bucket struct {
	Name          string
	MaxFaceCountK int
}

// FormatPair names two formats compared head to head.
type FormatPair struct {
	A, B model.Format
}

// Settings configures Aggregate.
type Settings struct {
	Directions            map[model.Metric]Direction
	Buckets               []Bucket
	MinCorrelationSamples int
	// CorrelationMetrics lists the metrics paired for correlation, in order.
	CorrelationMetrics []model.Metric
	HeadToHead         []FormatPair
	HeadToHeadMetrics  []model.Metric
}

// DefaultSettings returns the standard directionality table and the
// <100k / <1M / larger face-count buckets.
func DefaultSettings() Settings {
	return Settings{
		Directions: map[model.Metric]Direction{
			model.RawSize:          LowerIsBetter,
			model.CompressedSize:   LowerIsBetter,
			model.TextureSize:      LowerIsBetter,
			model.PeakMemory:       LowerIsBetter,
			model.ImportTime:       LowerIsBetter,
			model.LoadTime:         LowerIsBetter,
			model.LoadMemory:       LowerIsBetter,
			model.FaceCount:        Descriptive,
			model.TextureCount:     Descriptive,
			model.CompressionRatio: HigherIsBetter,
			model.TextureRatio:     LowerIsBetter,
			model.MemoryPerFace:    LowerIsBetter,
			model.MemoryPerMB:      LowerIsBetter,
		},
		Buckets: []Bucket{
			{Name: "small", MaxFaceCountK: 100},
			{Name: "medium", MaxFaceCountK: 1000},
			{Name: "large"},
		},
		MinCorrelationSamples: 2,
		CorrelationMetrics:    slices.Clone(model.Metrics),
		HeadToHead:            []FormatPair{{A: model.GLTF, B: model.GLB}},
		HeadToHeadMetrics: []model.Metric{
			model.RawSize,
			model.CompressedSize,
			model.PeakMemory,
			model.ImportTime,
			model.LoadTime,
			model.LoadMemory,
		},
	}
}

// Direction returns the directionality of m; unknown metrics are descriptive.
func (s Settings) Direction(m model.Metric) Direction {
	return s.Directions[m]
}

// RankedMetrics returns the metrics with a direction, in declared order.
func (s Settings) RankedMetrics() []model.Metric {
	var out []model.Metric
	for _, m := range model.Metrics {
		if s.Direction(m) != Descriptive {
			out = append(out, m)
		}
	}
	return out
}

// Validate checks the settings are usable.
func (s Settings) Validate() error {
	if s.MinCorrelationSamples < 2 {
		return fmt.Errorf("min correlation samples must be at least 2, got %d", s.MinCorrelationSamples)
	}
	if len(s.Buckets) == 0 {
		return errors.New("at least one size bucket is required")
	}
	prev := 0
	names := make(map[string]bool, len(s.Buckets))
	for i, b := range s.Buckets {
		if b.Name == "" {
			return fmt.Errorf("size bucket %d has no name", i)
		}
		if names[b.Name] {
			return fmt.Errorf("size bucket %q is listed twice", b.Name)
		}
		names[b.Name] = true
		last := i == len(s.Buckets)-1
		if b.MaxFaceCountK == 0 {
			if !last {
				return fmt.Errorf("size bucket %q is unbounded but not last", b.Name)
			}
			continue
		}
		if last {
			return fmt.Errorf("last size bucket %q must be unbounded (omit max_face_count_k)", b.Name)
		}
		if b.MaxFaceCountK <= prev {
			return fmt.Errorf("size bucket %q: bounds must increase", b.Name)
		}
		prev = b.MaxFaceCountK
	}
	for m := range s.Directions {
		if !m.Known() {
			return fmt.Errorf("unknown metric %q in directions", m)
		}
	}
	for _, m := range s.CorrelationMetrics {
		if !m.Known() {
			return fmt.Errorf("unknown metric %q in correlation metrics", m)
		}
	}
	return nil
}

// clone returns a deep copy so an Aggregate never shares state with its caller.
func (s Settings) clone() Settings {
	c := s
	c.Directions = maps.Clone(s.Directions)
	c.Buckets = slices.Clone(s.Buckets)
	c.CorrelationMetrics = slices.Clone(s.CorrelationMetrics)
	c.HeadToHead = slices.Clone(s.HeadToHead)
	c.HeadToHeadMetrics = slices.Clone(s.HeadToHeadMetrics)
	return c
}

// bucketFor returns the bucket name for a face count.
func (s Settings) bucketFor(faces int) string {
	for _, b := range s.Buckets {
		if b.MaxFaceCountK == 0 || faces < b.MaxFaceCountK {
			return b.Name
		}
	}
	return ""
}
