package compare

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(c color.RGBA, w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

func TestDividerConfinedToUnitRange(t *testing.T) {
	v := NewView()

	v.SetDivider(-0.5)
	assert.Equal(t, 0.0, v.Divider())

	v.SetDivider(1.5)
	assert.Equal(t, 1.0, v.Divider())

	v.SetDivider(0.25)
	assert.Equal(t, 0.25, v.Divider())
}

func TestWipeAtZeroIsEntirelySnapshot(t *testing.T) {
	original := solid(red, 10, 10)
	snapshot := solid(blue, 10, 10)

	v := NewView()
	v.SetDivider(0)

	out := Render(original, snapshot, v)
	require.NotNil(t, out)
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			assert.Equal(t, blue, out.RGBAAt(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestWipeAtOneIsEntirelyOriginal(t *testing.T) {
	original := solid(red, 10, 10)
	snapshot := solid(blue, 10, 10)

	v := NewView()
	v.SetDivider(1)

	out := Render(original, snapshot, v)
	require.NotNil(t, out)
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			assert.Equal(t, red, out.RGBAAt(x, y), "pixel (%d,%d)", x, y)
		}
	}
}

func TestWipeSplitsAtDivider(t *testing.T) {
	original := solid(red, 10, 10)
	snapshot := solid(blue, 10, 10)

	v := NewView()
	v.SetDivider(0.5)

	out := Render(original, snapshot, v)
	require.NotNil(t, out)

	// Left of the divider is original, right of it is the snapshot; the
	// divider line itself is drawn over the seam.
	assert.Equal(t, red, out.RGBAAt(1, 5))
	assert.Equal(t, blue, out.RGBAAt(8, 5))
}

func TestPeekShowsOriginalRegardlessOfDivider(t *testing.T) {
	original := solid(red, 10, 10)
	snapshot := solid(blue, 10, 10)

	v := NewView()
	v.SetDivider(0)
	v.SetPeek(true)

	out := Render(original, snapshot, v)
	require.NotNil(t, out)
	for x := 0; x < 10; x++ {
		for y := 0; y < 10; y++ {
			assert.Equal(t, red, out.RGBAAt(x, y), "pixel (%d,%d)", x, y)
		}
	}

	v.SetPeek(false)
	out = Render(original, snapshot, v)
	assert.Equal(t, blue, out.RGBAAt(5, 5))
}

func TestRenderWithoutSnapshotFallsBackToOriginal(t *testing.T) {
	original := solid(red, 4, 4)

	out := Render(original, nil, NewView())
	require.NotNil(t, out)
	assert.Equal(t, red, out.RGBAAt(2, 2))
}

func TestRenderWithNothingReturnsNil(t *testing.T) {
	assert.Nil(t, Render(nil, nil, NewView()))
}
