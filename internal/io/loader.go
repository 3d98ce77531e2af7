// Image decode/encode boundary around the vision library
package io

import (
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"

	"image-chain-studio/internal/imaging"
)

// ImageLoader handles image file operations. Decoded images are handed out
// as caller-owned 4-channel BGRA buffers; saved images come from the preview
// snapshot, with no UI chrome baked into the pixels.
type ImageLoader struct {
	logger *slog.Logger
}

func NewImageLoader(logger *slog.Logger) *ImageLoader {
	return &ImageLoader{logger: logger}
}

var loadFormats = []string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp", ".webp"}

// saveFormats lists the two selectable export encodings.
var saveFormats = []string{".png", ".jpg", ".jpeg"}

// Load decodes an image file into a caller-owned BGRA buffer.
func (il *ImageLoader) Load(path string) (gocv.Mat, error) {
	il.logger.Debug("loading image", "path", path)

	if !supported(path, loadFormats) {
		return gocv.NewMat(), fmt.Errorf("unsupported image format: %s", path)
	}

	mat := gocv.IMRead(path, gocv.IMReadColor)
	if mat.Empty() {
		return gocv.NewMat(), fmt.Errorf("failed to load image: %s", path)
	}
	defer mat.Close()

	bgra, err := imaging.EnsureBGRA(mat)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("failed to convert image: %w", err)
	}

	il.logger.Info("image loaded",
		"path", path,
		"width", bgra.Cols(),
		"height", bgra.Rows())
	return bgra, nil
}

// Save encodes a snapshot image to PNG or JPEG, selected by extension.
func (il *ImageLoader) Save(img image.Image, path string) error {
	il.logger.Debug("saving image", "path", path)

	if img == nil {
		return fmt.Errorf("cannot save: no image")
	}
	if !supported(path, saveFormats) {
		return fmt.Errorf("unsupported save format: %s (use png or jpg)", path)
	}

	bgra, err := imaging.FromImage(img)
	if err != nil {
		return fmt.Errorf("failed to convert snapshot: %w", err)
	}
	defer bgra.Close()

	// JPEG encoding rejects 4-channel input.
	bgr := gocv.NewMat()
	defer bgr.Close()
	gocv.CvtColor(bgra, &bgr, gocv.ColorBGRAToBGR)

	if !gocv.IMWrite(path, bgr) {
		return fmt.Errorf("failed to save image: %s", path)
	}

	il.logger.Info("image saved",
		"path", path,
		"width", bgr.Cols(),
		"height", bgr.Rows())
	return nil
}

func supported(path string, formats []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range formats {
		if ext == format {
			return true
		}
	}
	return false
}
