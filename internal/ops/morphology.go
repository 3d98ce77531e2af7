// Morphological operations
package ops

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

func morphParams() []ParamSpec {
	return []ParamSpec{
		{Name: "kernel_size", Type: TypeInt, Min: 1, Max: 15, Step: 2, Default: 3, Odd: true, Description: "Structuring element size, odd"},
		{Name: "shape", Type: TypeEnum, Options: []string{"rect", "ellipse", "cross"}, Default: "rect", Description: "Structuring element shape"},
	}
}

func structuringElement(params map[string]interface{}) gocv.Mat {
	size := intParam(params, "kernel_size", 3)
	shape := gocv.MorphRect
	switch enumParam(params, "shape", "rect") {
	case "ellipse":
		shape = gocv.MorphEllipse
	case "cross":
		shape = gocv.MorphCross
	}
	return gocv.GetStructuringElement(shape, image.Pt(size, size))
}

func morphTransform(apply func(src gocv.Mat, dst *gocv.Mat, kernel gocv.Mat)) Transform {
	return func(src gocv.Mat, params map[string]interface{}, _ Context) (gocv.Mat, error) {
		if src.Empty() {
			return gocv.NewMat(), fmt.Errorf("input image is empty")
		}
		kernel := structuringElement(params)
		defer kernel.Close()

		out := gocv.NewMat()
		apply(src, &out, kernel)
		return out, nil
	}
}

// Erode shrinks bright regions.
func Erode() Definition {
	return Definition{
		Kind:        "erode",
		Title:       "Erosion",
		Description: "Morphological erosion",
		Params:      morphParams(),
		Transform: morphTransform(func(src gocv.Mat, dst *gocv.Mat, kernel gocv.Mat) {
			gocv.Erode(src, dst, kernel)
		}),
	}
}

// Dilate grows bright regions.
func Dilate() Definition {
	return Definition{
		Kind:        "dilate",
		Title:       "Dilation",
		Description: "Morphological dilation",
		Params:      morphParams(),
		Transform: morphTransform(func(src gocv.Mat, dst *gocv.Mat, kernel gocv.Mat) {
			gocv.Dilate(src, dst, kernel)
		}),
	}
}

// Opening erodes then dilates, removing small bright specks.
func Opening() Definition {
	return Definition{
		Kind:        "opening",
		Title:       "Opening",
		Description: "Erosion followed by dilation",
		Params:      morphParams(),
		Transform: morphTransform(func(src gocv.Mat, dst *gocv.Mat, kernel gocv.Mat) {
			gocv.MorphologyEx(src, dst, gocv.MorphOpen, kernel)
		}),
	}
}

// Closing dilates then erodes, filling small dark holes.
func Closing() Definition {
	return Definition{
		Kind:        "closing",
		Title:       "Closing",
		Description: "Dilation followed by erosion",
		Params:      morphParams(),
		Transform: morphTransform(func(src gocv.Mat, dst *gocv.Mat, kernel gocv.Mat) {
			gocv.MorphologyEx(src, dst, gocv.MorphClose, kernel)
		}),
	}
}
