package core_test

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"image-chain-studio/internal/core"
	"image-chain-studio/internal/imaging"
	"image-chain-studio/internal/ops"
)

func grayImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.SetRGBA(x, y, color.RGBA{R: 128, G: 128, B: 128, A: 255})
		}
	}
	return img
}

func checkerboard(w, h, cell int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			shade := uint8(0)
			if (x/cell+y/cell)%2 == 0 {
				shade = 255
			}
			img.SetRGBA(x, y, color.RGBA{R: shade, G: shade, B: shade, A: 255})
		}
	}
	return img
}

func newEngine(t *testing.T, registry *ops.Registry) (*core.Engine, *core.Model, *core.ImageData) {
	t.Helper()
	logger := discardLogger()
	imageData := core.NewImageData(logger)
	t.Cleanup(imageData.Close)
	model := core.NewModel(registry, logger)
	engine := core.NewEngine(registry, imageData, model, logger)
	engine.SetLiveMode(false)
	t.Cleanup(engine.Close)
	return engine, model, imageData
}

func loadImage(t *testing.T, imageData *core.ImageData, img *image.RGBA) {
	t.Helper()
	mat, err := imaging.FromImage(img)
	require.NoError(t, err)
	require.NoError(t, imageData.SetOriginal(mat, "test.png"))
}

func TestRunWithoutImage(t *testing.T) {
	engine, _, _ := newEngine(t, ops.Builtin())

	status := engine.Execute()
	assert.False(t, status.Success)
	assert.ErrorIs(t, status.Err, core.ErrNoImage)
	assert.Nil(t, engine.Snapshot())
}

func TestZeroEnabledStepsProducesIdentity(t *testing.T) {
	engine, _, imageData := newEngine(t, ops.Builtin())
	loadImage(t, imageData, grayImage(100, 100))

	status := engine.Execute()
	require.True(t, status.Success, "run error: %v", status.Err)
	assert.Equal(t, 0, status.StepsExecuted)

	snapshot := engine.Snapshot()
	require.NotNil(t, snapshot)
	assert.Equal(t, imageData.OriginalImage().Pix, snapshot.Pix)
}

func TestDisabledStepIsInvisibleToExecution(t *testing.T) {
	registry := ops.Builtin()

	full, fullModel, fullData := newEngine(t, registry)
	loadImage(t, fullData, grayImage(100, 100))
	_, err := fullModel.Add("grayscale")
	require.NoError(t, err)
	invertID, err := fullModel.Add("invert")
	require.NoError(t, err)
	off := false
	fullModel.Update(invertID, core.Patch{Enabled: &off})

	single, singleModel, singleData := newEngine(t, registry)
	loadImage(t, singleData, grayImage(100, 100))
	_, err = singleModel.Add("grayscale")
	require.NoError(t, err)

	fullStatus := full.Execute()
	singleStatus := single.Execute()
	require.True(t, fullStatus.Success)
	require.True(t, singleStatus.Success)

	assert.Equal(t, 1, fullStatus.StepsExecuted, "disabled step must not execute")
	assert.Equal(t, single.Snapshot().Pix, full.Snapshot().Pix)
}

func TestRunsAreDeterministic(t *testing.T) {
	engine, model, imageData := newEngine(t, ops.Builtin())
	loadImage(t, imageData, checkerboard(64, 64, 8))
	_, err := model.Add("gaussian_blur")
	require.NoError(t, err)
	_, err = model.Add("threshold")
	require.NoError(t, err)

	require.True(t, engine.Execute().Success)
	first := append([]uint8(nil), engine.Snapshot().Pix...)

	require.True(t, engine.Execute().Success)
	assert.Equal(t, first, engine.Snapshot().Pix)
}

func TestUnknownKindIsSkippedWithoutAborting(t *testing.T) {
	engine, model, imageData := newEngine(t, ops.Builtin())
	loadImage(t, imageData, grayImage(32, 32))

	model.Import([]core.StepState{
		{ID: 1, Kind: "from_the_future", Enabled: true},
		{ID: 2, Kind: "grayscale", Enabled: true},
	})

	status := engine.Execute()
	require.True(t, status.Success, "run error: %v", status.Err)
	assert.Equal(t, 1, status.StepsExecuted)
}

func failingRegistry() *ops.Registry {
	return ops.NewRegistry(
		ops.Definition{
			Kind:  "copy",
			Title: "Copy",
			Transform: func(src gocv.Mat, _ map[string]interface{}, _ ops.Context) (gocv.Mat, error) {
				return src.Clone(), nil
			},
		},
		ops.Definition{
			Kind:  "boom",
			Title: "Boom",
			Transform: func(_ gocv.Mat, _ map[string]interface{}, _ ops.Context) (gocv.Mat, error) {
				return gocv.NewMat(), fmt.Errorf("backend rejected the request")
			},
		},
	)
}

func TestTransformFailureKeepsPreviousSnapshot(t *testing.T) {
	engine, model, imageData := newEngine(t, failingRegistry())
	loadImage(t, imageData, grayImage(16, 16))
	_, err := model.Add("copy")
	require.NoError(t, err)

	require.True(t, engine.Execute().Success)
	snapshot := engine.Snapshot()
	require.NotNil(t, snapshot)

	_, err = model.Add("boom")
	require.NoError(t, err)

	status := engine.Execute()
	assert.False(t, status.Success)
	require.Error(t, status.Err)
	assert.Contains(t, status.Err.Error(), "boom")
	assert.Equal(t, 1, status.StepsExecuted, "steps before the failure still count")

	assert.Same(t, snapshot, engine.Snapshot(), "failed run must leave the previous snapshot untouched")
}

func TestBufferAccounting(t *testing.T) {
	engine, model, imageData := newEngine(t, failingRegistry())
	loadImage(t, imageData, grayImage(16, 16))
	_, err := model.Add("copy")
	require.NoError(t, err)
	_, err = model.Add("copy")
	require.NoError(t, err)

	before := imaging.LiveCount()
	require.True(t, engine.Execute().Success)
	assert.Equal(t, before, imaging.LiveCount(), "successful run must release every buffer")

	_, err = model.Add("boom")
	require.NoError(t, err)
	require.False(t, engine.Execute().Success)
	assert.Equal(t, before, imaging.LiveCount(), "failed run must release every buffer")
}

func TestReorderingNonCommutativeSteps(t *testing.T) {
	engine, model, imageData := newEngine(t, ops.Builtin())
	loadImage(t, imageData, checkerboard(64, 64, 8))

	thresholdID, err := model.Add("threshold")
	require.NoError(t, err)
	blurID, err := model.Add("gaussian_blur")
	require.NoError(t, err)

	require.True(t, engine.Execute().Success)
	thresholdFirst := append([]uint8(nil), engine.Snapshot().Pix...)

	require.True(t, model.Move(blurID, core.MoveUp))
	require.True(t, engine.Execute().Success)
	blurFirst := append([]uint8(nil), engine.Snapshot().Pix...)

	assert.NotEqual(t, thresholdFirst, blurFirst,
		"threshold-then-blur must differ from blur-then-threshold")

	// Boundary moves are no-ops and change nothing.
	require.False(t, model.Move(blurID, core.MoveUp))
	require.False(t, model.Move(thresholdID, core.MoveDown))
	require.True(t, engine.Execute().Success)
	assert.Equal(t, blurFirst, append([]uint8(nil), engine.Snapshot().Pix...))
}

func TestInFlightRunDropsNewRequests(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	var invocations int

	registry := ops.NewRegistry(ops.Definition{
		Kind:  "slow",
		Title: "Slow",
		Transform: func(src gocv.Mat, _ map[string]interface{}, _ ops.Context) (gocv.Mat, error) {
			invocations++
			once.Do(func() { close(started) })
			<-release
			return src.Clone(), nil
		},
	})

	engine, model, imageData := newEngine(t, registry)
	loadImage(t, imageData, grayImage(8, 8))
	_, err := model.Add("slow")
	require.NoError(t, err)

	done := make(chan core.RunStatus, 1)
	go func() { done <- engine.Execute() }()
	<-started

	dropped := engine.Execute()
	assert.False(t, dropped.Success, "dropped request returns the previous status without running")

	close(release)
	status := <-done
	require.True(t, status.Success)
	assert.Equal(t, 1, invocations, "the request arriving mid-run must not execute")
}

func TestErrorsWrapSentinels(t *testing.T) {
	wrapped := fmt.Errorf("context: %w", core.ErrMalformedPipeline)
	assert.True(t, errors.Is(wrapped, core.ErrMalformedPipeline))
}
