// Binarization operations
package ops

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Threshold binarizes against a fixed or Otsu-derived level.
func Threshold() Definition {
	return Definition{
		Kind:        "threshold",
		Title:       "Threshold",
		Description: "Global binarization",
		Params: []ParamSpec{
			{Name: "level", Type: TypeInt, Min: 0, Max: 255, Step: 1, Default: 128, Description: "Threshold level"},
			{Name: "otsu", Type: TypeBool, Default: false, Description: "Derive the level with Otsu's method"},
			{Name: "inverted", Type: TypeBool, Default: false, Description: "Invert the binary output"},
		},
		Transform: func(src gocv.Mat, params map[string]interface{}, _ Context) (gocv.Mat, error) {
			if src.Empty() {
				return gocv.NewMat(), fmt.Errorf("input image is empty")
			}
			level := intParam(params, "level", 128)
			useOtsu := boolParam(params, "otsu", false)
			inverted := boolParam(params, "inverted", false)

			mode := gocv.ThresholdBinary
			if inverted {
				mode = gocv.ThresholdBinaryInv
			}
			if useOtsu {
				mode |= gocv.ThresholdOtsu
			}

			gray := gocv.NewMat()
			defer gray.Close()
			gocv.CvtColor(src, &gray, gocv.ColorBGRAToGray)

			binary := gocv.NewMat()
			defer binary.Close()
			gocv.Threshold(gray, &binary, float32(level), 255, mode)

			out := gocv.NewMat()
			gocv.CvtColor(binary, &out, gocv.ColorGrayToBGRA)
			return out, nil
		},
	}
}

// AdaptiveThreshold binarizes against a locally computed level.
func AdaptiveThreshold() Definition {
	return Definition{
		Kind:        "adaptive_threshold",
		Title:       "Adaptive Threshold",
		Description: "Local binarization for uneven illumination",
		Params: []ParamSpec{
			{Name: "block_size", Type: TypeInt, Min: 3, Max: 51, Step: 2, Default: 11, Odd: true, Description: "Neighborhood size, odd"},
			{Name: "c", Type: TypeFloat, Min: -20, Max: 20, Step: 0.5, Default: 2, Description: "Constant subtracted from the mean"},
			{Name: "method", Type: TypeEnum, Options: []string{"mean", "gaussian"}, Default: "gaussian", Description: "Local level estimator"},
		},
		Transform: func(src gocv.Mat, params map[string]interface{}, _ Context) (gocv.Mat, error) {
			if src.Empty() {
				return gocv.NewMat(), fmt.Errorf("input image is empty")
			}
			blockSize := intParam(params, "block_size", 11)
			c := floatParam(params, "c", 2)

			method := gocv.AdaptiveThresholdGaussian
			if enumParam(params, "method", "gaussian") == "mean" {
				method = gocv.AdaptiveThresholdMean
			}

			gray := gocv.NewMat()
			defer gray.Close()
			gocv.CvtColor(src, &gray, gocv.ColorBGRAToGray)

			binary := gocv.NewMat()
			defer binary.Close()
			gocv.AdaptiveThreshold(gray, &binary, 255, method, gocv.ThresholdBinary, blockSize, float32(c))

			out := gocv.NewMat()
			gocv.CvtColor(binary, &out, gocv.ColorGrayToBGRA)
			return out, nil
		},
	}
}
