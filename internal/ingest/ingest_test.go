package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daryltucker/format-bench/internal/model"
)

func newTestNormalizer() *Normalizer {
	return NewNormalizer(DefaultUnits())
}

func TestLoad_CSV(t *testing.T) {
	res, err := Load(filepath.Join("testdata", "models.csv"), newTestNormalizer())
	require.NoError(t, err)

	t.Run("KeepsValidRecordsInOrder", func(t *testing.T) {
		require.Len(t, res.Records, 5)
		assert.Equal(t, []string{
			"BistroExterior_2832k_405tex",
			"BistroInterior_1047k_211tex",
			"Sponza_262k_69tex",
		}, res.Models())
		assert.Equal(t, model.FBX, res.Records[0].Format)
		assert.Equal(t, model.OBJ, res.Records[1].Format)
		assert.Equal(t, model.GLTF, res.Records[2].Format)
		assert.Equal(t, 2, res.Records[0].Line)
	})

	t.Run("NormalizesCells", func(t *testing.T) {
		fbx := res.Records[0]
		assert.Equal(t, model.Some(1037.0), fbx.RawSizeMB)
		assert.Equal(t, model.Some(587.0), fbx.CompressedSizeMB)
		assert.Equal(t, model.Some(3120.0), fbx.PeakMemoryMB)
		assert.Equal(t, model.Some(2832), fbx.FaceCount)

		obj := res.Records[1]
		assert.Equal(t, model.Some(1220.0), obj.RawSizeMB)
		assert.Equal(t, model.Some(382.0), obj.TextureSizeMB)
		assert.False(t, obj.PeakMemoryMB.Valid())
		assert.False(t, obj.ImportTimeMS.Valid())

		gltf := res.Records[2]
		v, ok := gltf.PeakMemoryMB.Get()
		require.True(t, ok)
		assert.InDelta(t, 2969.6, v, 1e-9)
	})

	t.Run("DropsRecordsWithBadIdentity", func(t *testing.T) {
		require.Len(t, res.Errors, 2)
		assert.ErrorIs(t, res.Errors[0], ErrUnknownFormat)
		assert.Equal(t, 7, res.Errors[0].Line)
		assert.Equal(t, "usdz", res.Errors[0].Value)
		assert.ErrorIs(t, res.Errors[1], ErrMissingField)
		assert.Equal(t, fieldModelID, res.Errors[1].Field)
		assert.Equal(t, 2, res.Report.Dropped)
	})

	t.Run("CountsSkippedFields", func(t *testing.T) {
		r := res.Report
		assert.Equal(t, 35, r.Fields)
		assert.Equal(t, 4, r.Skipped)
		assert.Equal(t, 2, r.Placeholders)
		assert.Equal(t, 1, r.Blanks)
		assert.Equal(t, 1, r.Malformed)
		assert.Equal(t, 2, r.SkippedByMetric[model.PeakMemory])
		assert.Equal(t, 2, r.SkippedByMetric[model.ImportTime])
		assert.Equal(t, []string{"notes"}, r.UnknownFields)
	})

	t.Run("FirstFaceCountWins", func(t *testing.T) {
		glb := res.Records[4]
		assert.Equal(t, model.GLB, glb.Format)
		assert.Equal(t, model.Some(1047), glb.FaceCount)
		assert.Equal(t, 1, res.Report.Conflicts)
	})
}

func TestLoad_NestedJSON(t *testing.T) {
	res, err := Load(filepath.Join("testdata", "models.json"), newTestNormalizer())
	require.NoError(t, err)

	require.Len(t, res.Records, 5)
	assert.Equal(t, []string{"Sponza_262k_69tex", "BistroExterior_2832k_405tex"}, res.Models())

	sponzaFBX := res.Records[0]
	assert.Equal(t, model.Some(262), sponzaFBX.FaceCount)
	assert.Equal(t, model.Some(69), sponzaFBX.TextureCount)
	assert.Equal(t, model.Some(110.5), sponzaFBX.RawSizeMB)
	assert.Equal(t, model.Some(40.0), sponzaFBX.TextureSizeMB)

	sponzaGLB := res.Records[2]
	assert.Equal(t, model.GLB, sponzaGLB.Format)
	assert.Equal(t, model.Some(650.0), sponzaGLB.LoadTimeMS)
	assert.False(t, sponzaGLB.LoadMemoryMB.Valid())

	bistroFBX := res.Records[3]
	assert.False(t, bistroFBX.PeakMemoryMB.Valid())
	assert.Equal(t, model.Some(1220.0), res.Records[4].RawSizeMB)

	require.Len(t, res.Errors, 1)
	assert.ErrorIs(t, res.Errors[0], ErrUnknownFormat)
	assert.Equal(t, 23, res.Report.Fields, "model level counts are counted once per model")
	assert.Equal(t, 3, res.Report.Skipped)
	assert.Equal(t, 3, res.Report.Placeholders)
}

func TestLoad_JSONLines(t *testing.T) {
	res, err := Load(filepath.Join("testdata", "models.jsonl"), newTestNormalizer())
	require.NoError(t, err)

	require.Len(t, res.Records, 2)
	assert.Equal(t, model.Some(2.15), res.Records[0].RawSizeMB)
	assert.False(t, res.Records[1].CompressedSizeMB.Valid())
	assert.Equal(t, 1, res.Report.Malformed)
	assert.Equal(t, 6, res.Report.Fields)
}

func TestLoadJSON_Array(t *testing.T) {
	input := `[
		{"model_id": "A", "format": "fbx", "raw_size_mb": 10, "compressed_size_mb": 8},
		{"model_id": "A", "format": "obj", "raw_size_mb": "12 MB", "compressed_size_mb": null},
		{"model_id": "B", "raw_size_mb": 1}
	]`
	res, err := LoadJSON(strings.NewReader(input), newTestNormalizer())
	require.NoError(t, err)

	require.Len(t, res.Records, 2)
	assert.Equal(t, model.Some(12.0), res.Records[1].RawSizeMB)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 3, res.Errors[0].Line)
	assert.ErrorIs(t, res.Errors[0], ErrMissingField)
}

func TestLoadJSON_NonObjectElements(t *testing.T) {
	t.Run("Array", func(t *testing.T) {
		input := `[{"model_id": "A", "format": "FBX", "raw_size_mb": 1}, null, "x", 7, {"model_id": "B", "format": "OBJ"}]`
		res, err := LoadJSON(strings.NewReader(input), newTestNormalizer())
		require.NoError(t, err)

		assert.Equal(t, []string{"A", "B"}, res.Models())
		require.Len(t, res.Errors, 3)
		for i, e := range res.Errors {
			assert.Equal(t, i+2, e.Line)
			assert.ErrorIs(t, e, ErrMissingField)
		}
		assert.Equal(t, 3, res.Report.Dropped)
	})

	t.Run("JSONLines", func(t *testing.T) {
		input := "{\"model_id\": \"A\", \"format\": \"glb\"}\n[1, 2]\n{\"model_id\": \"A\", \"format\": \"gltf\"}\n"
		res, err := LoadJSON(strings.NewReader(input), newTestNormalizer())
		require.NoError(t, err)
		assert.Len(t, res.Records, 2)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, 2, res.Errors[0].Line)
	})

	t.Run("NestedFormatValue", func(t *testing.T) {
		input := `{"A": {"face_count_k": 5, "formats": {"fbx": {"raw_size_mb": 3}, "obj": null, "glb": {"raw_size_mb": 2}}}}`
		res, err := LoadJSON(strings.NewReader(input), newTestNormalizer())
		require.NoError(t, err)
		require.Len(t, res.Records, 2)
		assert.Equal(t, model.GLB, res.Records[1].Format)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, 2, res.Errors[0].Line)
		assert.Equal(t, "A/obj", res.Errors[0].Value)
	})
}

func TestLoad_ModelArrayJSON(t *testing.T) {
	res, err := Load(filepath.Join("testdata", "model_array.json"), newTestNormalizer())
	require.NoError(t, err)

	require.Len(t, res.Records, 3)
	assert.Equal(t, []string{"Sponza", "Bistro"}, res.Models())

	fbx := res.Records[0]
	assert.Equal(t, model.FBX, fbx.Format)
	assert.Equal(t, model.Some(262), fbx.FaceCount)
	assert.False(t, fbx.TextureCount.Valid())
	assert.Equal(t, model.Some(110.5), fbx.RawSizeMB)
	assert.Equal(t, model.Some(120.0), res.Records[1].RawSizeMB)
	assert.Equal(t, model.Some(2832), res.Records[2].FaceCount)
	assert.Equal(t, model.Some(900.0), res.Records[2].LoadTimeMS)

	require.Len(t, res.Errors, 2)
	assert.Equal(t, "Sponza/glb", res.Errors[0].Value)
	assert.Equal(t, 1, res.Errors[0].Line)
	assert.Equal(t, fieldModelID, res.Errors[1].Field)
	assert.Equal(t, 3, res.Errors[1].Line)

	assert.Equal(t, 1, res.Report.Placeholders, "shared texture_count is counted once")
	assert.Equal(t, 1, res.Report.Skipped)
}

func TestLoadCSV_Errors(t *testing.T) {
	t.Run("MissingFormatColumn", func(t *testing.T) {
		_, err := LoadCSV(strings.NewReader("model_id,raw_size_mb\nA,1\n"), newTestNormalizer())
		assert.ErrorIs(t, err, ErrMissingColumn)
	})

	t.Run("EmptyInput", func(t *testing.T) {
		_, err := LoadCSV(strings.NewReader(""), newTestNormalizer())
		assert.ErrorIs(t, err, ErrMissingColumn)
	})

	t.Run("SuggestsCloseFormat", func(t *testing.T) {
		res, err := LoadCSV(strings.NewReader("model_id,format\nA,glbb\nB,zzzzzz\n"), newTestNormalizer())
		require.NoError(t, err)
		require.Len(t, res.Errors, 2)
		assert.Equal(t, "GLB", res.Errors[0].Suggestion)
		assert.Contains(t, res.Errors[0].Error(), "did you mean GLB?")
		assert.Empty(t, res.Errors[1].Suggestion)
	})

	t.Run("DuplicatePairDropped", func(t *testing.T) {
		res, err := LoadCSV(strings.NewReader("model_id,format,raw_size_mb\nA,fbx,1\nA,FBX,2\n"), newTestNormalizer())
		require.NoError(t, err)
		require.Len(t, res.Records, 1)
		assert.Equal(t, model.Some(1.0), res.Records[0].RawSizeMB)
		require.Len(t, res.Errors, 1)
		assert.True(t, errors.Is(res.Errors[0], ErrDuplicate))
	})

	t.Run("ShortRowsAreBlank", func(t *testing.T) {
		res, err := LoadCSV(strings.NewReader("model_id,format,raw_size_mb,peak_memory_mb\nA,fbx,1\n"), newTestNormalizer())
		require.NoError(t, err)
		require.Len(t, res.Records, 1)
		assert.False(t, res.Records[0].PeakMemoryMB.Valid())
		assert.Equal(t, 1, res.Report.Blanks)
	})
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.csv"), newTestNormalizer())
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"a": [1,`), 0644))
	_, err = Load(bad, newTestNormalizer())
	assert.Error(t, err)

	unknown := filepath.Join(dir, "data")
	require.NoError(t, os.WriteFile(unknown, []byte("hello"), 0644))
	_, err = Load(unknown, newTestNormalizer())
	assert.ErrorIs(t, err, ErrUnknownSource)
}

func TestDetectSource(t *testing.T) {
	src, err := DetectSource("x.CSV", nil)
	require.NoError(t, err)
	assert.Equal(t, SourceCSV, src)

	src, err = DetectSource("x.ndjson", nil)
	require.NoError(t, err)
	assert.Equal(t, SourceJSON, src)

	src, err = DetectSource("stdin", []byte("  \n[{}]"))
	require.NoError(t, err)
	assert.Equal(t, SourceJSON, src)

	src, err = DetectSource("stdin", []byte("model_id,format\n"))
	require.NoError(t, err)
	assert.Equal(t, SourceCSV, src)
}

func TestReconcile_DoesNotMutateInput(t *testing.T) {
	in := []model.MetricRecord{
		{ModelID: "A", Format: model.FBX, FaceCount: model.Some(10)},
		{ModelID: "A", Format: model.OBJ, FaceCount: model.Some(11)},
		{ModelID: "A", Format: model.GLB},
	}
	out, conflicts := reconcile(in)

	assert.Equal(t, 1, conflicts)
	assert.Equal(t, model.Some(11), in[1].FaceCount)
	assert.Equal(t, model.Some(10), out[1].FaceCount)
	assert.Equal(t, model.Some(10), out[2].FaceCount)
}
