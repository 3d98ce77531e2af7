package io

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLoader() *ImageLoader {
	return NewImageLoader(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeTestPNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for x := 0; x < 20; x++ {
		for y := 0; y < 10; y++ {
			img.SetRGBA(x, y, color.RGBA{R: 200, G: 50, B: 30, A: 255})
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func TestLoadProducesFourChannelBuffer(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.png")
	writeTestPNG(t, path)

	mat, err := testLoader().Load(path)
	require.NoError(t, err)
	defer mat.Close()

	assert.Equal(t, 4, mat.Channels())
	assert.Equal(t, 20, mat.Cols())
	assert.Equal(t, 10, mat.Rows())
}

func TestLoadRejectsUnsupportedFormat(t *testing.T) {
	_, err := testLoader().Load(filepath.Join(t.TempDir(), "input.gif"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported image format")
}

func TestLoadFailsOnMissingFile(t *testing.T) {
	_, err := testLoader().Load(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "input.png")
	writeTestPNG(t, src)

	loader := testLoader()
	mat, err := loader.Load(src)
	require.NoError(t, err)
	defer mat.Close()

	img := image.NewRGBA(image.Rect(0, 0, 20, 10))
	for i := range img.Pix {
		img.Pix[i] = 255
	}

	out := filepath.Join(dir, "output.png")
	require.NoError(t, loader.Save(img, out))

	reloaded, err := loader.Load(out)
	require.NoError(t, err)
	defer reloaded.Close()
	assert.Equal(t, 20, reloaded.Cols())
	assert.Equal(t, 10, reloaded.Rows())
}

func TestSaveRejectsNilImageAndBadExtension(t *testing.T) {
	loader := testLoader()

	err := loader.Save(nil, filepath.Join(t.TempDir(), "out.png"))
	assert.Error(t, err)

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	err = loader.Save(img, filepath.Join(t.TempDir(), "out.gif"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported save format")
}
