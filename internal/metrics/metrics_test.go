package metrics

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func solidMat(t *testing.T, rows, cols int, value float64) gocv.Mat {
	t.Helper()
	mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(value, value, value, 255),
		rows, cols, gocv.MatTypeCV8UC4)
	t.Cleanup(func() { mat.Close() })
	return mat
}

func TestPSNRIdenticalImagesSaturates(t *testing.T) {
	a := solidMat(t, 32, 32, 128)

	value, err := NewPSNR().Calculate(a, a)
	require.NoError(t, err)
	assert.Equal(t, 100.0, value)
}

func TestPSNRDropsWithDistortion(t *testing.T) {
	a := solidMat(t, 32, 32, 128)
	b := solidMat(t, 32, 32, 100)

	value, err := NewPSNR().Calculate(a, b)
	require.NoError(t, err)
	assert.Less(t, value, 100.0)
	assert.Greater(t, value, 0.0)
}

func TestSSIMIdenticalImages(t *testing.T) {
	a := solidMat(t, 32, 32, 128)

	value, err := NewSSIM().Calculate(a, a)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, value, 0.01)
}

func TestMetricsRejectMismatchedSizes(t *testing.T) {
	a := solidMat(t, 32, 32, 128)
	b := solidMat(t, 16, 16, 128)

	_, err := NewPSNR().Calculate(a, b)
	assert.Error(t, err)

	_, err = NewSSIM().Calculate(a, b)
	assert.Error(t, err)
}

func TestEvaluatorSkipsFailures(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a := solidMat(t, 32, 32, 128)
	b := solidMat(t, 16, 16, 128)

	results := NewEvaluator(logger).Evaluate(a, b)
	assert.Empty(t, results)

	results = NewEvaluator(logger).Evaluate(a, a)
	assert.Contains(t, results, "psnr")
	assert.Contains(t, results, "ssim")
}
