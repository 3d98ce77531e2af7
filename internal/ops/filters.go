// Smoothing and edge filters
package ops

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// GaussianBlur smooths with a square Gaussian kernel. The kernel size carries
// the odd constraint, so the schema coercion guarantees an odd value reaches
// the transform.
func GaussianBlur() Definition {
	return Definition{
		Kind:        "gaussian_blur",
		Title:       "Gaussian Blur",
		Description: "Gaussian smoothing for general noise reduction",
		Params: []ParamSpec{
			{Name: "kernel_size", Type: TypeInt, Min: 1, Max: 31, Step: 2, Default: 5, Odd: true, Description: "Kernel size, odd"},
			{Name: "sigma", Type: TypeFloat, Min: 0.1, Max: 10.0, Step: 0.1, Default: 1.5, Description: "Gaussian standard deviation"},
		},
		Transform: func(src gocv.Mat, params map[string]interface{}, _ Context) (gocv.Mat, error) {
			if src.Empty() {
				return gocv.NewMat(), fmt.Errorf("input image is empty")
			}
			kernel := intParam(params, "kernel_size", 5)
			sigma := floatParam(params, "sigma", 1.5)

			out := gocv.NewMat()
			gocv.GaussianBlur(src, &out, image.Pt(kernel, kernel), sigma, sigma, gocv.BorderDefault)
			return out, nil
		},
	}
}

// MedianBlur removes impulse noise while keeping edges.
func MedianBlur() Definition {
	return Definition{
		Kind:        "median_blur",
		Title:       "Median Blur",
		Description: "Median filter for salt-and-pepper noise",
		Params: []ParamSpec{
			{Name: "kernel_size", Type: TypeInt, Min: 1, Max: 21, Step: 2, Default: 3, Odd: true, Description: "Aperture size, odd"},
		},
		Transform: func(src gocv.Mat, params map[string]interface{}, _ Context) (gocv.Mat, error) {
			if src.Empty() {
				return gocv.NewMat(), fmt.Errorf("input image is empty")
			}
			kernel := intParam(params, "kernel_size", 3)

			out := gocv.NewMat()
			gocv.MedianBlur(src, &out, kernel)
			return out, nil
		},
	}
}

// Bilateral smooths while preserving edges. OpenCV's bilateral filter only
// accepts 1- or 3-channel input, so the transform converts to BGR and back.
func Bilateral() Definition {
	return Definition{
		Kind:        "bilateral",
		Title:       "Bilateral Filter",
		Description: "Edge-preserving smoothing",
		Params: []ParamSpec{
			{Name: "diameter", Type: TypeInt, Min: 1, Max: 15, Step: 1, Default: 9, Description: "Pixel neighborhood diameter"},
			{Name: "sigma_color", Type: TypeFloat, Min: 10, Max: 200, Step: 5, Default: 75, Description: "Color-space sigma"},
			{Name: "sigma_space", Type: TypeFloat, Min: 10, Max: 200, Step: 5, Default: 75, Description: "Coordinate-space sigma"},
		},
		Transform: func(src gocv.Mat, params map[string]interface{}, _ Context) (gocv.Mat, error) {
			if src.Empty() {
				return gocv.NewMat(), fmt.Errorf("input image is empty")
			}
			diameter := intParam(params, "diameter", 9)
			sigmaColor := floatParam(params, "sigma_color", 75)
			sigmaSpace := floatParam(params, "sigma_space", 75)

			bgr := gocv.NewMat()
			defer bgr.Close()
			gocv.CvtColor(src, &bgr, gocv.ColorBGRAToBGR)

			filtered := gocv.NewMat()
			defer filtered.Close()
			gocv.BilateralFilter(bgr, &filtered, diameter, sigmaColor, sigmaSpace)

			out := gocv.NewMat()
			gocv.CvtColor(filtered, &out, gocv.ColorBGRToBGRA)
			return out, nil
		},
	}
}

// Canny detects edges; the result is rendered as white edges on black.
func Canny() Definition {
	return Definition{
		Kind:        "canny",
		Title:       "Canny Edges",
		Description: "Canny edge detection",
		Params: []ParamSpec{
			{Name: "threshold_low", Type: TypeFloat, Min: 0, Max: 255, Step: 1, Default: 50, Description: "Lower hysteresis threshold"},
			{Name: "threshold_high", Type: TypeFloat, Min: 0, Max: 255, Step: 1, Default: 150, Description: "Upper hysteresis threshold"},
		},
		Transform: func(src gocv.Mat, params map[string]interface{}, _ Context) (gocv.Mat, error) {
			if src.Empty() {
				return gocv.NewMat(), fmt.Errorf("input image is empty")
			}
			low := floatParam(params, "threshold_low", 50)
			high := floatParam(params, "threshold_high", 150)

			gray := gocv.NewMat()
			defer gray.Close()
			gocv.CvtColor(src, &gray, gocv.ColorBGRAToGray)

			edges := gocv.NewMat()
			defer edges.Close()
			gocv.Canny(gray, &edges, float32(low), float32(high))

			out := gocv.NewMat()
			gocv.CvtColor(edges, &out, gocv.ColorGrayToBGRA)
			return out, nil
		},
	}
}
