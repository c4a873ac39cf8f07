package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/daryltucker/format-bench/internal/model"
)

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer(DefaultUnits())

	values := map[string]float64{
		"1,220 MB":   1220,
		"  382 MB ":  382,
		"2.15 MB":    2.15,
		"2.15mb":     2.15,
		"587":        587,
		"1.5 GB":     1536,
		"1,037.5 Mb": 1037.5,
		"0":          0,
		".5 MB":      0.5,
		"1,234,567":  1234567,
	}
	for in, want := range values {
		out := n.Normalize(in)
		v, ok := out.Value.Get()
		assert.True(t, ok, "%q should parse", in)
		assert.Equal(t, KindValue, out.Kind, in)
		assert.InDelta(t, want, v, 1e-9, in)
	}

	kinds := map[string]Kind{
		"":           KindBlank,
		"   ":        KindBlank,
		"N/A":        KindPlaceholder,
		"n/a":        KindPlaceholder,
		"N/Av":       KindPlaceholder,
		"N/A.":       KindPlaceholder,
		"NA":         KindPlaceholder,
		"-":          KindPlaceholder,
		"about 5":    KindMalformed,
		"-12 MB":     KindMalformed,
		"12 parsecs": KindMalformed,
		"1.2.3":      KindMalformed,
		"1,2,3 MB":   KindMalformed,
		"12,34.5 MB": KindMalformed,
		"1,0000 MB":  KindMalformed,
		",123 MB":    KindMalformed,
	}
	for in, want := range kinds {
		out := n.Normalize(in)
		assert.Equal(t, want, out.Kind, "%q", in)
		assert.False(t, out.Value.Valid(), "%q", in)
		assert.True(t, out.Missing(), "%q", in)
	}
}

func TestNormalizer_Duration(t *testing.T) {
	n := NewNormalizer(DefaultUnits())

	v, ok := n.Duration("2.5 s").Value.Get()
	assert.True(t, ok)
	assert.Equal(t, 2500.0, v)

	v, ok = n.Duration("1,250ms").Value.Get()
	assert.True(t, ok)
	assert.Equal(t, 1250.0, v)

	assert.Equal(t, KindMalformed, n.Duration("3 MB").Kind)
}

func TestNormalizer_Count(t *testing.T) {
	n := NewNormalizer(DefaultUnits())

	assert.Equal(t, model.Some(2832), n.Count("2832k").Int())
	assert.Equal(t, model.Some(2832), n.Count("2,832").Int())
	assert.Equal(t, KindMalformed, n.Count("12.5").Kind)
	assert.False(t, n.Count("N/A").Int().Valid())
}

func TestNormalizer_Number(t *testing.T) {
	n := NewNormalizer(DefaultUnits())

	assert.Equal(t, model.Some(12.0), n.Number(12).Value)
	assert.Equal(t, KindMalformed, n.Number(-1).Kind)
}

func TestNormalizer_CustomUnits(t *testing.T) {
	units := DefaultUnits()
	units.Size = UnitTable{"": 1, "MiB": 1.048576}
	n := NewNormalizer(units)

	v, ok := n.Normalize("100 mib").Value.Get()
	assert.True(t, ok)
	assert.InDelta(t, 104.8576, v, 1e-9)
	assert.Equal(t, KindMalformed, n.Normalize("1 GB").Kind)
}
