package pipeline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/visionkit/go-annotate/detections"
	"github.com/visionkit/go-annotate/labels"
)

func f32(v float32) *float32 { return &v }

func testConfig() Config {
	return Config{
		Family:    detections.FamilyFasterRCNN,
		Threshold: f32(0.3),
		Input:     InputShape{Width: 320, Height: 240},
	}
}

func testLabels(t *testing.T) *labels.Map {
	t.Helper()
	m, err := labels.New([]string{"cat", "dog", "bird"}, 0)
	require.NoError(t, err)
	return m
}

func TestPipeline_Annotate(t *testing.T) {
	p, err := New(testConfig(), testLabels(t))
	require.NoError(t, err)

	img := gocv.NewMatWithSize(480, 640, gocv.MatTypeCV8UC3)
	defer img.Close()

	batch := detections.Batch{
		{Box: [4]float32{50, 50, 150, 120}, Class: 0, Score: 0.9},
		{Box: [4]float32{160, 60, 300, 200}, Class: 1, Score: 0.4},
		{Box: [4]float32{10, 10, 20, 20}, Class: 2, Score: 0.1}, // below threshold
		{Box: [4]float32{0, 0, 0, 0}, Class: 0, Score: 0.0},     // padding
	}

	out, err := p.Annotate(&img, batch)
	require.NoError(t, err)
	assert.Same(t, &img, out, "default config annotates in place")
	assert.Equal(t, 640, out.Cols())
	assert.Equal(t, 480, out.Rows())

	// Boxes were rescaled 2x; the first box's top edge sits at y=100.
	v := out.GetVecbAt(100, 200)
	assert.False(t, v[0] == 0 && v[1] == 0 && v[2] == 0,
		"expected drawn pixels along the first box's top edge")
}

func TestPipeline_Annotate_CopyImage(t *testing.T) {
	cfg := testConfig()
	cfg.CopyImage = true
	p, err := New(cfg, testLabels(t))
	require.NoError(t, err)

	img := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer img.Close()

	out, err := p.Annotate(&img, detections.Batch{
		{Box: [4]float32{50, 50, 150, 120}, Class: 1, Score: 0.8},
	})
	require.NoError(t, err)
	require.NotSame(t, &img, out)
	defer out.Close()

	// The original buffer stays untouched.
	v := img.GetVecbAt(50, 100)
	assert.True(t, v[0] == 0 && v[1] == 0 && v[2] == 0)
}

func TestPipeline_Annotate_CopyImage_ErrorReleasesClone(t *testing.T) {
	cfg := testConfig()
	cfg.CopyImage = true
	p, err := New(cfg, testLabels(t))
	require.NoError(t, err)

	img := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer img.Close()

	// The second detection's class is unknown, so the lookup fails
	// after the first box was already drawn onto the clone. The failed
	// invocation must close the clone instead of leaking it, and must
	// not touch the caller's buffer.
	batch := detections.Batch{
		{Box: [4]float32{50, 50, 150, 120}, Class: 0, Score: 0.9},
		{Box: [4]float32{10, 20, 60, 90}, Class: 99, Score: 0.8},
	}
	out, err := p.Annotate(&img, batch)
	require.ErrorIs(t, err, labels.ErrLabelNotFound)
	assert.Nil(t, out)

	// The input survives the failed invocation untouched and usable:
	// no pixels drawn, and a corrected batch annotates it cleanly.
	v := img.GetVecbAt(50, 100)
	assert.True(t, v[0] == 0 && v[1] == 0 && v[2] == 0)

	out, err = p.Annotate(&img, batch[:1])
	require.NoError(t, err)
	defer out.Close()
}

func TestPipeline_Annotate_MaxDetections(t *testing.T) {
	cfg := testConfig()
	cfg.MaxDetections = 1
	p, err := New(cfg, testLabels(t))
	require.NoError(t, err)

	img := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer img.Close()

	// The second detection has an unknown class; with the cap at 1 it is
	// never looked up, so annotation succeeds.
	batch := detections.Batch{
		{Box: [4]float32{50, 50, 150, 120}, Class: 0, Score: 0.9},
		{Box: [4]float32{10, 20, 60, 90}, Class: 99, Score: 0.8},
	}
	_, err = p.Annotate(&img, batch)
	assert.NoError(t, err)
}

func TestPipeline_Annotate_UnknownClassFails(t *testing.T) {
	p, err := New(testConfig(), testLabels(t))
	require.NoError(t, err)

	img := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer img.Close()

	_, err = p.Annotate(&img, detections.Batch{
		{Box: [4]float32{50, 50, 150, 120}, Class: 42, Score: 0.9},
	})
	assert.True(t, errors.Is(err, labels.ErrLabelNotFound))
}

func TestPipeline_Annotate_OutOfBoundsFails(t *testing.T) {
	p, err := New(testConfig(), testLabels(t))
	require.NoError(t, err)

	img := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer img.Close()

	_, err = p.Annotate(&img, detections.Batch{
		{Box: [4]float32{200, 50, 400, 120}, Class: 0, Score: 0.9},
	})
	assert.Error(t, err, "a box past the right edge must be rejected, not drawn")
}

func TestPipeline_Annotate_EmptyImage(t *testing.T) {
	p, err := New(testConfig(), testLabels(t))
	require.NoError(t, err)

	img := gocv.NewMat()
	defer img.Close()

	_, err = p.Annotate(&img, nil)
	assert.Error(t, err)
}

func TestPipeline_AnnotateOutput(t *testing.T) {
	cfg := Config{
		Family:    detections.FamilySSD,
		Threshold: f32(0.3),
		Input:     InputShape{Width: 300, Height: 300},
	}
	m, err := labels.New([]string{"cat", "dog"}, 1)
	require.NoError(t, err)
	p, err := New(cfg, m)
	require.NoError(t, err)

	img := gocv.NewMatWithSize(600, 600, gocv.MatTypeCV8UC3)
	defer img.Close()

	raw := detections.RawOutput{
		// yxyx, normalized.
		Boxes:   []float32{0.2, 0.1, 0.5, 0.4, 0, 0, 0, 0},
		Classes: []float32{1, 0},
		Scores:  []float32{0.9, 0},
		Count:   -1,
	}
	_, err = p.AnnotateOutput(&img, raw)
	assert.NoError(t, err)
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Config{}, testLabels(t))
	assert.Error(t, err, "missing family and layout")

	cfg := testConfig()
	cfg.Input = InputShape{}
	_, err = New(cfg, testLabels(t))
	assert.Error(t, err, "missing input shape")

	_, err = New(testConfig(), nil)
	assert.Error(t, err, "missing label map")
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pipeline.yaml")
	data := []byte(`
family: ssd
threshold: 0.4
max_detections: 10
input:
  width: 300
  height: 300
copy_image: true
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, detections.FamilySSD, cfg.Family)
	assert.Equal(t, detections.OrderYXYX, cfg.Layout.Order)
	assert.True(t, cfg.Layout.Normalized)
	require.NotNil(t, cfg.Threshold)
	assert.Equal(t, float32(0.4), *cfg.Threshold)
	assert.Equal(t, 10, cfg.MaxDetections)
	assert.True(t, cfg.CopyImage)
}

func TestLoadConfig_ThresholdZeroVsUnset(t *testing.T) {
	dir := t.TempDir()

	// An explicit zero threshold is a valid setting (keep everything
	// with a positive score) and must survive loading.
	zeroPath := filepath.Join(dir, "zero.yaml")
	require.NoError(t, os.WriteFile(zeroPath, []byte(`
family: ssd
threshold: 0.0
input:
  width: 300
  height: 300
`), 0o644))

	cfg, err := LoadConfig(zeroPath)
	require.NoError(t, err)
	require.NotNil(t, cfg.Threshold)
	assert.Equal(t, float32(0), *cfg.Threshold)

	// An omitted threshold falls back to the documented default.
	unsetPath := filepath.Join(dir, "unset.yaml")
	require.NoError(t, os.WriteFile(unsetPath, []byte(`
family: ssd
input:
  width: 300
  height: 300
`), 0o644))

	cfg, err = LoadConfig(unsetPath)
	require.NoError(t, err)
	require.NotNil(t, cfg.Threshold)
	assert.Equal(t, DefaultThreshold, *cfg.Threshold)
}

func TestPipeline_ZeroThresholdKeepsLowScores(t *testing.T) {
	cfg := testConfig()
	cfg.Threshold = f32(0)
	p, err := New(cfg, testLabels(t))
	require.NoError(t, err)

	img := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer img.Close()

	// A 0.05-score detection must be drawn when the threshold is an
	// explicit zero rather than silently bumped to the default.
	out, err := p.Annotate(&img, detections.Batch{
		{Box: [4]float32{50, 50, 150, 120}, Class: 0, Score: 0.05},
	})
	require.NoError(t, err)

	v := out.GetVecbAt(50, 100)
	assert.False(t, v[0] == 0 && v[1] == 0 && v[2] == 0,
		"expected the low-score box to be drawn")
}

func TestLoadConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threshold: 2.0\ninput: {width: 300, height: 300}\nfamily: ssd\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
