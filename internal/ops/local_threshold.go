// Research-grade local binarization operations
package ops

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// localStats computes per-pixel windowed mean and standard deviation of a
// single-channel image as CV32F mats. Callers own both results.
func localStats(gray gocv.Mat, window int) (mean gocv.Mat, stddev gocv.Mat) {
	grayF := gocv.NewMat()
	defer grayF.Close()
	gray.ConvertTo(&grayF, gocv.MatTypeCV32F)

	ksize := image.Pt(window, window)

	mean = gocv.NewMat()
	gocv.BoxFilter(grayF, &mean, -1, ksize)

	squared := gocv.NewMat()
	defer squared.Close()
	gocv.Multiply(grayF, grayF, &squared)

	meanSq := gocv.NewMat()
	defer meanSq.Close()
	gocv.BoxFilter(squared, &meanSq, -1, ksize)

	meanOfMean := gocv.NewMat()
	defer meanOfMean.Close()
	gocv.Multiply(mean, mean, &meanOfMean)

	variance := gocv.NewMat()
	defer variance.Close()
	gocv.Subtract(meanSq, meanOfMean, &variance)

	// Rounding can push the variance a hair below zero.
	zeros := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0),
		variance.Rows(), variance.Cols(), gocv.MatTypeCV32F)
	defer zeros.Close()
	gocv.Max(variance, zeros, &variance)

	stddev = gocv.NewMat()
	gocv.Sqrt(variance, &stddev)
	return mean, stddev
}

// binarizeAgainst thresholds gray against a per-pixel level map and expands
// the binary result back to BGRA.
func binarizeAgainst(gray gocv.Mat, level gocv.Mat) gocv.Mat {
	grayF := gocv.NewMat()
	defer grayF.Close()
	gray.ConvertTo(&grayF, gocv.MatTypeCV32F)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Compare(grayF, level, &binary, gocv.CompareGT)

	out := gocv.NewMat()
	gocv.CvtColor(binary, &out, gocv.ColorGrayToBGRA)
	return out
}

// Niblack binarizes with the classic T = mean + k * stddev local rule.
// Negative k keeps thin strokes intact, which suits document images.
func Niblack() Definition {
	return Definition{
		Kind:        "niblack",
		Title:       "Niblack Threshold",
		Description: "Local binarization from windowed mean and deviation",
		Params: []ParamSpec{
			{Name: "window_size", Type: TypeInt, Min: 3, Max: 101, Step: 2, Default: 15, Odd: true, Description: "Window for local statistics, odd"},
			{Name: "k", Type: TypeFloat, Min: -1, Max: 1, Step: 0.05, Default: -0.2, Description: "Deviation weight"},
		},
		Transform: func(src gocv.Mat, params map[string]interface{}, _ Context) (gocv.Mat, error) {
			if src.Empty() {
				return gocv.NewMat(), fmt.Errorf("input image is empty")
			}
			window := intParam(params, "window_size", 15)
			k := floatParam(params, "k", -0.2)

			gray := gocv.NewMat()
			defer gray.Close()
			gocv.CvtColor(src, &gray, gocv.ColorBGRAToGray)

			mean, stddev := localStats(gray, window)
			defer mean.Close()
			defer stddev.Close()

			stddev.MultiplyFloat(float32(k))
			level := gocv.NewMat()
			defer level.Close()
			gocv.Add(mean, stddev, &level)

			return binarizeAgainst(gray, level), nil
		},
	}
}

// Sauvola binarizes with T = mean * (1 + k * (stddev/r - 1)), which dampens
// the Niblack rule in low-contrast regions.
func Sauvola() Definition {
	return Definition{
		Kind:        "sauvola",
		Title:       "Sauvola Threshold",
		Description: "Contrast-normalized local binarization",
		Params: []ParamSpec{
			{Name: "window_size", Type: TypeInt, Min: 3, Max: 101, Step: 2, Default: 15, Odd: true, Description: "Window for local statistics, odd"},
			{Name: "k", Type: TypeFloat, Min: 0.01, Max: 1, Step: 0.01, Default: 0.2, Description: "Sensitivity"},
			{Name: "r", Type: TypeFloat, Min: 1, Max: 255, Step: 1, Default: 128, Description: "Dynamic range of the deviation"},
		},
		Transform: func(src gocv.Mat, params map[string]interface{}, _ Context) (gocv.Mat, error) {
			if src.Empty() {
				return gocv.NewMat(), fmt.Errorf("input image is empty")
			}
			window := intParam(params, "window_size", 15)
			k := floatParam(params, "k", 0.2)
			r := floatParam(params, "r", 128)

			gray := gocv.NewMat()
			defer gray.Close()
			gocv.CvtColor(src, &gray, gocv.ColorBGRAToGray)

			mean, stddev := localStats(gray, window)
			defer mean.Close()
			defer stddev.Close()

			// 1 + k*(s/r - 1) rearranged to a single scale and offset.
			stddev.MultiplyFloat(float32(k / r))
			stddev.AddFloat(float32(1 - k))

			level := gocv.NewMat()
			defer level.Close()
			gocv.Multiply(mean, stddev, &level)

			return binarizeAgainst(gray, level), nil
		},
	}
}
