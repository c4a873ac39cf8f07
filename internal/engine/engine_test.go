package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/format-bench/internal/model"
)

func rec(id string, f model.Format, raw, compressed float64) model.MetricRecord {
	return model.MetricRecord{
		ModelID:          id,
		Format:           f,
		RawSizeMB:        model.Some(raw),
		CompressedSizeMB: model.Some(compressed),
	}
}

func bistroExterior() []model.MetricRecord {
	fbx := rec("BistroExterior_2832k_405tex", model.FBX, 1037, 587)
	fbx.FaceCount = model.Some(2832)
	fbx.PeakMemoryMB = model.Some(3120.0)
	obj := rec("BistroExterior_2832k_405tex", model.OBJ, 1220, 551)
	obj.FaceCount = model.Some(2832)
	return []model.MetricRecord{fbx, obj}
}

func TestDerive(t *testing.T) {
	t.Run("CompressionRatio", func(t *testing.T) {
		d := Derive(rec("A", model.FBX, 1037, 587))
		v, ok := d.CompressionRatio.Get()
		require.True(t, ok)
		assert.InDelta(t, 0.434, v, 0.001)
	})

	t.Run("ZeroRawIsUndefined", func(t *testing.T) {
		r := rec("A", model.FBX, 0, 10)
		r.TextureSizeMB = model.Some(5.0)
		r.PeakMemoryMB = model.Some(100.0)
		d := Derive(r)
		assert.False(t, d.CompressionRatio.Valid())
		assert.False(t, d.TextureRatio.Valid())
		assert.False(t, d.MemoryPerMB.Valid())
	})

	t.Run("MissingRawIsUndefined", func(t *testing.T) {
		d := Derive(model.MetricRecord{ModelID: "A", Format: model.OBJ, CompressedSizeMB: model.Some(3.0)})
		assert.False(t, d.CompressionRatio.Valid())
	})

	t.Run("MissingCompressedIsUndefined", func(t *testing.T) {
		d := Derive(model.MetricRecord{ModelID: "A", Format: model.OBJ, RawSizeMB: model.Some(3.0)})
		assert.False(t, d.CompressionRatio.Valid())
	})

	t.Run("MemoryRatios", func(t *testing.T) {
		r := model.MetricRecord{
			RawSizeMB:     model.Some(200.0),
			TextureSizeMB: model.Some(50.0),
			PeakMemoryMB:  model.Some(1000.0),
			FaceCount:     model.Some(250),
		}
		d := Derive(r)
		assert.Equal(t, model.Some(0.25), d.TextureRatio)
		assert.Equal(t, model.Some(5.0), d.MemoryPerMB)
		assert.Equal(t, model.Some(4.0), d.MemoryPerFace)
	})

	t.Run("ZeroFacesIsUndefined", func(t *testing.T) {
		d := Derive(model.MetricRecord{PeakMemoryMB: model.Some(10.0), FaceCount: model.Some(0)})
		assert.False(t, d.MemoryPerFace.Valid())
	})
}

func TestAggregate_BistroExterior(t *testing.T) {
	res := Aggregate(bistroExterior(), DefaultSettings())

	g, ok := res.Model("BistroExterior_2832k_405tex")
	require.True(t, ok)
	require.Len(t, g.Rows, 2)

	fbx, _ := g.Row(model.FBX)
	obj, _ := g.Row(model.OBJ)
	fv, _ := fbx.Derived.CompressionRatio.Get()
	ov, _ := obj.Derived.CompressionRatio.Get()
	assert.InDelta(t, 0.434, fv, 0.001)
	assert.InDelta(t, 0.548, ov, 0.001)

	rk, ok := res.Ranking(model.CompressionRatio)
	require.True(t, ok)
	assert.Equal(t, []model.Format{model.OBJ, model.FBX}, rk.Formats())

	best, ok := res.Best(model.CompressionRatio)
	require.True(t, ok)
	assert.Equal(t, model.OBJ, best.Format)

	// Lower raw size wins.
	best, ok = res.Best(model.RawSize)
	require.True(t, ok)
	assert.Equal(t, model.FBX, best.Format)
}

func TestAggregate_RankingOmitsUndefinedFormats(t *testing.T) {
	res := Aggregate(bistroExterior(), DefaultSettings())

	rk, ok := res.Ranking(model.PeakMemory)
	require.True(t, ok)
	assert.Equal(t, []model.Format{model.FBX}, rk.Formats())

	rk, ok = res.Ranking(model.LoadTime)
	require.True(t, ok)
	assert.Empty(t, rk.Entries)
	_, ok = rk.Best()
	assert.False(t, ok)
}

func TestAggregate_AllMissingModelContributesNothing(t *testing.T) {
	a := []model.MetricRecord{
		{ModelID: "A", Format: model.FBX, PeakMemoryMB: model.Some(300.0)},
		{ModelID: "A", Format: model.GLB, PeakMemoryMB: model.Some(200.0)},
	}
	withEmpty := append([]model.MetricRecord{
		{ModelID: "B", Format: model.FBX, RawSizeMB: model.Some(1.0)},
		{ModelID: "B", Format: model.GLB, RawSizeMB: model.Some(2.0)},
	}, a...)

	only, _ := Aggregate(a, DefaultSettings()).Ranking(model.PeakMemory)
	both, _ := Aggregate(withEmpty, DefaultSettings()).Ranking(model.PeakMemory)
	assert.Equal(t, only.Entries, both.Entries)
	assert.Equal(t, []model.Format{model.GLB, model.FBX}, both.Formats())

	lb, _ := leaderboardOf(Aggregate(withEmpty, DefaultSettings()), model.PeakMemory)
	assert.Len(t, lb.Entries, 2)
}

func leaderboardOf(r *Result, m model.Metric) (Leaderboard, bool) {
	for _, lb := range r.Leaderboards {
		if lb.Metric == m {
			return lb, true
		}
	}
	return Leaderboard{}, false
}

func TestAggregate_TiesUseDeclaredOrder(t *testing.T) {
	records := []model.MetricRecord{
		{ModelID: "b", Format: model.GLB, ImportTimeMS: model.Some(10.0)},
		{ModelID: "b", Format: model.OBJ, ImportTimeMS: model.Some(10.0)},
		{ModelID: "a", Format: model.GLB, ImportTimeMS: model.Some(10.0)},
		{ModelID: "a", Format: model.FBX, ImportTimeMS: model.Some(20.0)},
	}
	res := Aggregate(records, DefaultSettings())

	rk, _ := res.Ranking(model.ImportTime)
	assert.Equal(t, []model.Format{model.OBJ, model.GLB, model.FBX}, rk.Formats())

	lb, ok := leaderboardOf(res, model.ImportTime)
	require.True(t, ok)
	require.Len(t, lb.Entries, 4)
	assert.Equal(t, Placing{ModelID: "a", Format: model.GLB, Value: 10}, lb.Entries[0])
	assert.Equal(t, Placing{ModelID: "b", Format: model.OBJ, Value: 10}, lb.Entries[1])
	assert.Equal(t, Placing{ModelID: "b", Format: model.GLB, Value: 10}, lb.Entries[2])
	assert.Equal(t, "a", lb.Entries[3].ModelID)

	g, _ := res.Model("b")
	require.Len(t, g.Rankings, len(DefaultSettings().RankedMetrics()))
	for _, r := range g.Rankings {
		if r.Metric == model.ImportTime {
			assert.Equal(t, []model.Format{model.OBJ, model.GLB}, r.Formats())
		}
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	records := append(bistroExterior(), rec("Sponza", model.GLB, 50, 20), rec("Sponza", model.GLTF, 52, 19))
	first := Aggregate(records, DefaultSettings())
	second := Aggregate(records, DefaultSettings())
	assert.Equal(t, first, second)
}

func TestAggregate_DoesNotMutate(t *testing.T) {
	records := bistroExterior()
	before := append([]model.MetricRecord(nil), records...)
	s := DefaultSettings()

	res := Aggregate(records, s)
	res.Settings.Directions[model.RawSize] = HigherIsBetter

	assert.Equal(t, before, records)
	assert.Equal(t, LowerIsBetter, s.Direction(model.RawSize))
}

func TestAggregate_DescriptiveMetricsAreNotRanked(t *testing.T) {
	res := Aggregate(bistroExterior(), DefaultSettings())
	_, ok := res.Ranking(model.FaceCount)
	assert.False(t, ok)
	_, ok = res.Ranking(model.TextureCount)
	assert.False(t, ok)
}

func TestAggregate_FormatSummaries(t *testing.T) {
	records := []model.MetricRecord{
		rec("A", model.FBX, 10, 5),
		rec("B", model.FBX, 20, 5),
		rec("C", model.FBX, 60, 5),
		rec("A", model.GLB, 8, 4),
	}
	res := Aggregate(records, DefaultSettings())
	require.Len(t, res.Formats, 2)

	fbx, ok := res.Format(model.FBX)
	require.True(t, ok)
	s := fbx.Metric(model.RawSize)
	assert.Equal(t, 3, s.Samples)
	assert.Equal(t, model.Some(30.0), s.Mean)
	assert.Equal(t, model.Some(20.0), s.Median)
	assert.Equal(t, model.Some(10.0), s.Min)
	assert.Equal(t, model.Some(60.0), s.Max)

	glb, _ := res.Format(model.GLB)
	assert.False(t, glb.Metric(model.RawSize).StdDev.Valid())
	assert.False(t, glb.Metric(model.PeakMemory).Mean.Valid())

	_, ok = res.Format(model.OBJ)
	assert.False(t, ok)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{4, 1, 3, 2})
	assert.Equal(t, model.Some(2.5), s.Median)
	assert.Equal(t, model.Some(2.5), s.Mean)
	sd, ok := s.StdDev.Get()
	require.True(t, ok)
	assert.InDelta(t, 1.2909944, sd, 1e-6)

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.Samples)
	assert.False(t, empty.Mean.Valid())
	assert.False(t, empty.Median.Valid())
}

func TestPearson(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	ys := []float64{2.1, 3.9, 6.2, 8.0, 9.7}

	t.Run("Symmetric", func(t *testing.T) {
		assert.Equal(t, Pearson(xs, ys, 2), Pearson(ys, xs, 2))
		r, ok := Pearson(xs, ys, 2).Get()
		require.True(t, ok)
		assert.InDelta(t, 0.999, r, 0.001)
	})

	t.Run("PerfectNegative", func(t *testing.T) {
		r, ok := Pearson([]float64{1, 2, 3}, []float64{6, 4, 2}, 2).Get()
		require.True(t, ok)
		assert.InDelta(t, -1, r, 1e-12)
	})

	t.Run("TooFewSamples", func(t *testing.T) {
		assert.False(t, Pearson([]float64{1}, []float64{2}, 2).Valid())
		assert.False(t, Pearson(nil, nil, 2).Valid())
		assert.False(t, Pearson(xs, ys, 6).Valid())
	})

	t.Run("ZeroVariance", func(t *testing.T) {
		assert.False(t, Pearson([]float64{3, 3, 3}, []float64{1, 2, 3}, 2).Valid())
	})
}

func TestAggregate_Correlations(t *testing.T) {
	records := []model.MetricRecord{
		{ModelID: "A", Format: model.FBX, FaceCount: model.Some(100), PeakMemoryMB: model.Some(500.0)},
		{ModelID: "B", Format: model.FBX, FaceCount: model.Some(200), PeakMemoryMB: model.Some(1100.0)},
		{ModelID: "C", Format: model.FBX, FaceCount: model.Some(300), PeakMemoryMB: model.Some(1400.0)},
		{ModelID: "D", Format: model.FBX, FaceCount: model.Some(400)},
	}
	res := Aggregate(records, DefaultSettings())

	n := len(model.Metrics)
	assert.Len(t, res.Correlations, n*(n-1)/2)

	ab, ok := res.Correlation(model.FaceCount, model.PeakMemory)
	require.True(t, ok)
	ba, ok := res.Correlation(model.PeakMemory, model.FaceCount)
	require.True(t, ok)
	assert.Equal(t, ab, ba)
	assert.Equal(t, model.PeakMemory, ab.A)
	assert.Equal(t, 3, ab.Samples)
	r, ok := ab.R.Get()
	require.True(t, ok)
	assert.Greater(t, r, 0.9)

	lt, ok := res.Correlation(model.LoadTime, model.FaceCount)
	require.True(t, ok)
	assert.Equal(t, 0, lt.Samples)
	assert.False(t, lt.R.Valid())

	_, ok = res.Correlation("bogus", model.FaceCount)
	assert.False(t, ok)
}

func TestAggregate_SizeBuckets(t *testing.T) {
	records := []model.MetricRecord{
		{ModelID: "tiny", Format: model.FBX, FaceCount: model.Some(50), ImportTimeMS: model.Some(10.0)},
		{ModelID: "tiny", Format: model.GLB, FaceCount: model.Some(50), ImportTimeMS: model.Some(5.0)},
		{ModelID: "mid", Format: model.FBX, FaceCount: model.Some(100), ImportTimeMS: model.Some(30.0)},
		{ModelID: "big", Format: model.FBX, FaceCount: model.Some(2832)},
		{ModelID: "unknown", Format: model.FBX, ImportTimeMS: model.Some(99.0)},
	}
	res := Aggregate(records, DefaultSettings())

	require.Len(t, res.Buckets, 3)
	assert.Equal(t, 1, res.Unbucketed)

	small := res.Buckets[0]
	assert.Equal(t, "small", small.Name)
	assert.Equal(t, []string{"tiny"}, small.Models)
	require.Len(t, small.Formats, 2)
	assert.Equal(t, model.Some(10.0), small.Formats[0].Mean(model.ImportTime))
	assert.Equal(t, model.GLB, small.Formats[1].Format)

	medium := res.Buckets[1]
	assert.Equal(t, []string{"mid"}, medium.Models)
	assert.Equal(t, model.Some(30.0), medium.Formats[0].Mean(model.ImportTime))

	large := res.Buckets[2]
	assert.Equal(t, []string{"big"}, large.Models)
	assert.False(t, large.Formats[0].Mean(model.ImportTime).Valid())

	assert.Equal(t, "large", res.Bucket(model.Some(1000)))
	assert.Equal(t, "", res.Bucket(model.None[int]()))
}

func TestAggregate_HeadToHead(t *testing.T) {
	records := []model.MetricRecord{
		{ModelID: "Sponza", Format: model.GLTF, LoadTimeMS: model.Some(800.0), LoadMemoryMB: model.Some(400.0)},
		{ModelID: "Sponza", Format: model.GLB, LoadTimeMS: model.Some(600.0)},
		{ModelID: "Bistro", Format: model.GLB, LoadTimeMS: model.Some(900.0)},
	}
	res := Aggregate(records, DefaultSettings())

	require.Len(t, res.HeadToHead, 1)
	h := res.HeadToHead[0]
	assert.Equal(t, "Sponza", h.ModelID)
	assert.Equal(t, model.GLTF, h.A)

	for _, d := range h.Deltas {
		switch d.Metric {
		case model.LoadTime:
			assert.Equal(t, model.Some(-200.0), d.Diff)
			assert.Equal(t, model.Some(0.75), d.Ratio)
		case model.LoadMemory:
			assert.Equal(t, model.Some(400.0), d.A)
			assert.False(t, d.Diff.Valid())
		}
	}
}

func TestSettings_Validate(t *testing.T) {
	require.NoError(t, DefaultSettings().Validate())

	s := DefaultSettings()
	s.MinCorrelationSamples = 1
	assert.Error(t, s.Validate())

	s = DefaultSettings()
	s.Buckets = []Bucket{{Name: "all"}, {Name: "never", MaxFaceCountK: 10}}
	assert.Error(t, s.Validate())

	s = DefaultSettings()
	s.Buckets = []Bucket{{Name: "a", MaxFaceCountK: 100}, {Name: "b", MaxFaceCountK: 50}}
	assert.Error(t, s.Validate())

	s = DefaultSettings()
	s.Buckets = nil
	assert.Error(t, s.Validate())

	s = DefaultSettings()
	s.Buckets = []Bucket{{Name: "small", MaxFaceCountK: 100}, {Name: "medium", MaxFaceCountK: 1000}}
	assert.ErrorContains(t, s.Validate(), "must be unbounded")

	s = DefaultSettings()
	s.Buckets = []Bucket{{Name: "a", MaxFaceCountK: 100}, {Name: "a"}}
	assert.ErrorContains(t, s.Validate(), "listed twice")
}

func TestAggregate_FaceCountBeyondBoundedBucketsIsCounted(t *testing.T) {
	s := DefaultSettings()
	s.Buckets = []Bucket{{Name: "small", MaxFaceCountK: 100}, {Name: "medium", MaxFaceCountK: 1000}}
	records := []model.MetricRecord{
		{ModelID: "Huge", Format: model.FBX, FaceCount: model.Some(5000), RawSizeMB: model.Some(10.0)},
		{ModelID: "Tiny", Format: model.OBJ, FaceCount: model.Some(5), RawSizeMB: model.Some(1.0)},
	}

	res := Aggregate(records, s)
	assert.Equal(t, 1, res.Unbucketed)
	require.Len(t, res.Buckets, 2)
	assert.Equal(t, []string{"Tiny"}, res.Buckets[0].Models)
	assert.Empty(t, res.Buckets[1].Models)
	assert.Equal(t, "", res.Bucket(model.Some(5000)))
}

func TestParseDirection(t *testing.T) {
	d, err := ParseDirection("higher")
	require.NoError(t, err)
	assert.Equal(t, HigherIsBetter, d)

	d, err = ParseDirection(LowerIsBetter.String())
	require.NoError(t, err)
	assert.Equal(t, LowerIsBetter, d)

	_, err = ParseDirection("sideways")
	assert.Error(t, err)
}
