package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"FBX":      FBX,
		"fbx":      FBX,
		" obj ":    OBJ,
		"glTF":     GLTF,
		".gltf":    GLTF,
		"glTF 2.0": GLTF,
		"GLB":      GLB,
	}
	for in, want := range cases {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("usdz")
	assert.Error(t, err)
	_, err = ParseFormat("")
	assert.Error(t, err)
}

func TestFormat_Text(t *testing.T) {
	t.Run("MarshalsCanonicalToken", func(t *testing.T) {
		b, err := json.Marshal(map[string]Format{"f": GLTF})
		require.NoError(t, err)
		assert.JSONEq(t, `{"f":"GLTF"}`, string(b))
	})

	t.Run("UnknownDoesNotMarshal", func(t *testing.T) {
		_, err := FormatUnknown.MarshalText()
		assert.Error(t, err)
	})

	t.Run("DisplayName", func(t *testing.T) {
		assert.Equal(t, "glTF", GLTF.DisplayName())
		assert.Equal(t, "GLB", GLB.DisplayName())
	})

	t.Run("DeclaredOrder", func(t *testing.T) {
		assert.Equal(t, []string{"FBX", "OBJ", "GLTF", "GLB"}, FormatNames())
		assert.Equal(t, 2, GLTF.Index())
		assert.Equal(t, -1, FormatUnknown.Index())
	})
}

func TestOptional(t *testing.T) {
	t.Run("ZeroValueIsAbsent", func(t *testing.T) {
		var o Optional[float64]
		assert.False(t, o.Valid())
		assert.Equal(t, "N/A", o.String())
	})

	t.Run("ZeroIsAValue", func(t *testing.T) {
		o := Some(0.0)
		v, ok := o.Get()
		assert.True(t, ok)
		assert.Equal(t, 0.0, v)
	})

	t.Run("RejectsNaNAndInf", func(t *testing.T) {
		assert.False(t, Some(math.NaN()).Valid())
		assert.False(t, Some(math.Inf(1)).Valid())
	})

	t.Run("JSONNull", func(t *testing.T) {
		b, err := json.Marshal(struct {
			A Optional[float64] `json:"a"`
			B Optional[int]     `json:"b"`
		}{A: None[float64](), B: Some(3)})
		require.NoError(t, err)
		assert.JSONEq(t, `{"a":null,"b":3}`, string(b))

		var back struct {
			A Optional[float64] `json:"a"`
			B Optional[int]     `json:"b"`
		}
		require.NoError(t, json.Unmarshal(b, &back))
		assert.False(t, back.A.Valid())
		assert.Equal(t, Some(3), back.B)
	})

	t.Run("FloatKeepsAbsence", func(t *testing.T) {
		assert.False(t, None[int]().Float().Valid())
		assert.Equal(t, Some(2832.0), Some(2832).Float())
	})
}

func TestMetricRecord_Value(t *testing.T) {
	rec := MetricRecord{
		ModelID:   "m",
		Format:    OBJ,
		FaceCount: Some(120),
		RawSizeMB: Some(12.5),
	}
	assert.Equal(t, Some(12.5), rec.Value(RawSize))
	assert.Equal(t, Some(120.0), rec.Value(FaceCount))
	assert.False(t, rec.Value(PeakMemory).Valid())
	assert.False(t, rec.Value(CompressionRatio).Valid())
}

func TestMetrics_Catalogue(t *testing.T) {
	seen := map[Metric]bool{}
	for i, m := range Metrics {
		assert.True(t, m.Known(), m)
		assert.Equal(t, i, m.Index())
		assert.False(t, seen[m], "duplicate %s", m)
		seen[m] = true
	}
	assert.True(t, CompressionRatio.Derived())
	assert.False(t, RawSize.Derived())
	assert.Equal(t, "MB", PeakMemory.Unit())
	assert.False(t, Metric("nope").Known())
}
