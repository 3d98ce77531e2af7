package imaging

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// ToRGBA copies a BGRA Mat into a pixel-exact Go image. The Mat is borrowed,
// never released.
func ToRGBA(mat gocv.Mat) (*image.RGBA, error) {
	if mat.Empty() {
		return nil, fmt.Errorf("cannot snapshot an empty buffer")
	}
	if mat.Channels() != 4 {
		return nil, fmt.Errorf("expected 4-channel buffer, got %d channels", mat.Channels())
	}

	// The BGRA<->RGBA conversion is its own inverse.
	rgba := gocv.NewMat()
	defer rgba.Close()
	gocv.CvtColor(mat, &rgba, gocv.ColorBGRAToRGBA)

	img := image.NewRGBA(image.Rect(0, 0, mat.Cols(), mat.Rows()))
	data := rgba.ToBytes()
	if len(data) != len(img.Pix) {
		return nil, fmt.Errorf("snapshot size mismatch: %d bytes for %dx%d", len(data), mat.Cols(), mat.Rows())
	}
	copy(img.Pix, data)
	return img, nil
}

// FromImage allocates a new BGRA Mat from a decoded Go image. The caller
// owns the returned Mat.
func FromImage(img image.Image) (gocv.Mat, error) {
	rgba, err := gocv.ImageToMatRGBA(img)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to convert image: %w", err)
	}
	defer rgba.Close()

	out := gocv.NewMat()
	gocv.CvtColor(rgba, &out, gocv.ColorBGRAToRGBA)
	return out, nil
}

// EnsureBGRA returns a newly allocated 4-channel copy of mat, whatever its
// channel count. The input is borrowed, never released.
func EnsureBGRA(mat gocv.Mat) (gocv.Mat, error) {
	if mat.Empty() {
		return gocv.NewMat(), fmt.Errorf("cannot convert an empty buffer")
	}

	switch mat.Channels() {
	case 1:
		out := gocv.NewMat()
		gocv.CvtColor(mat, &out, gocv.ColorGrayToBGRA)
		return out, nil
	case 3:
		out := gocv.NewMat()
		gocv.CvtColor(mat, &out, gocv.ColorBGRToBGRA)
		return out, nil
	case 4:
		return mat.Clone(), nil
	default:
		return gocv.NewMat(), fmt.Errorf("unsupported number of channels: %d", mat.Channels())
	}
}
