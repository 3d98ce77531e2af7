// Thread-safe owner of the original image buffer
package core

import (
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"gocv.io/x/gocv"

	"image-chain-studio/internal/imaging"
)

// ImageMetadata describes the loaded image.
type ImageMetadata struct {
	Width    int
	Height   int
	Channels int
	Format   string
}

// ImageData owns the run's original buffer. It is shared read-only by every
// transform and by the renderer, and is only replaced wholesale when a new
// image is loaded; the old buffer is released at that point.
type ImageData struct {
	mu       sync.RWMutex
	original gocv.Mat
	hasImage bool
	path     string
	metadata ImageMetadata
	logger   *slog.Logger
}

func NewImageData(logger *slog.Logger) *ImageData {
	return &ImageData{
		original: gocv.NewMat(),
		logger:   logger,
	}
}

// SetOriginal installs a new original buffer, taking ownership of mat. The
// buffer must already be 4-channel BGRA; the previous original is released.
func (d *ImageData) SetOriginal(mat gocv.Mat, path string) error {
	if mat.Empty() {
		return fmt.Errorf("cannot set empty image")
	}
	if mat.Cols() <= 0 || mat.Rows() <= 0 || mat.Cols() > 65536 || mat.Rows() > 65536 {
		return fmt.Errorf("invalid image dimensions: %dx%d", mat.Cols(), mat.Rows())
	}
	if mat.Channels() != 4 {
		return fmt.Errorf("original buffer must be 4-channel, got %d", mat.Channels())
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.original.Empty() {
		d.original.Close()
	}
	d.original = mat
	d.hasImage = true
	d.path = path
	d.metadata = ImageMetadata{
		Width:    mat.Cols(),
		Height:   mat.Rows(),
		Channels: mat.Channels(),
		Format:   formatFromPath(path),
	}

	d.logger.Info("original image installed",
		"path", path,
		"width", d.metadata.Width,
		"height", d.metadata.Height)
	return nil
}

// HasImage reports whether an original is loaded.
func (d *ImageData) HasImage() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.hasImage && !d.original.Empty()
}

// CloneOriginal returns a caller-owned copy of the original buffer, or
// ok=false when no image is loaded.
func (d *ImageData) CloneOriginal() (gocv.Mat, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.hasImage || d.original.Empty() {
		return gocv.NewMat(), false
	}
	return d.original.Clone(), true
}

// OriginalImage extracts a pixel copy of the original as a Go image for
// display. Returns nil when no image is loaded.
func (d *ImageData) OriginalImage() *image.RGBA {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.hasImage || d.original.Empty() {
		return nil
	}
	img, err := imaging.ToRGBA(d.original)
	if err != nil {
		d.logger.Error("failed to extract original image", "error", err)
		return nil
	}
	return img
}

// Metadata returns the loaded image's metadata.
func (d *ImageData) Metadata() ImageMetadata {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.metadata
}

// Path returns the file path the original was loaded from.
func (d *ImageData) Path() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.path
}

// Close releases the original buffer.
func (d *ImageData) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.original.Empty() {
		d.original.Close()
	}
	d.original = gocv.NewMat()
	d.hasImage = false
	d.path = ""
	d.metadata = ImageMetadata{}
}

func formatFromPath(path string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return "unknown"
	}
	return ext
}
