// Color-space and tonal operations
package ops

import (
	"fmt"

	"gocv.io/x/gocv"
)

// Grayscale converts to single-channel luminance and back to BGRA so the
// next step in the chain still sees a 4-channel buffer.
func Grayscale() Definition {
	return Definition{
		Kind:        "grayscale",
		Title:       "Grayscale",
		Description: "Luminance conversion",
		Transform: func(src gocv.Mat, _ map[string]interface{}, _ Context) (gocv.Mat, error) {
			if src.Empty() {
				return gocv.NewMat(), fmt.Errorf("input image is empty")
			}
			gray := gocv.NewMat()
			defer gray.Close()
			gocv.CvtColor(src, &gray, gocv.ColorBGRAToGray)

			out := gocv.NewMat()
			gocv.CvtColor(gray, &out, gocv.ColorGrayToBGRA)
			return out, nil
		},
	}
}

// Invert negates the color channels, leaving alpha untouched.
func Invert() Definition {
	return Definition{
		Kind:        "invert",
		Title:       "Invert",
		Description: "Negative of the color channels",
		Transform: func(src gocv.Mat, _ map[string]interface{}, _ Context) (gocv.Mat, error) {
			if src.Empty() {
				return gocv.NewMat(), fmt.Errorf("input image is empty")
			}
			bgr := gocv.NewMat()
			defer bgr.Close()
			gocv.CvtColor(src, &bgr, gocv.ColorBGRAToBGR)

			inverted := gocv.NewMat()
			defer inverted.Close()
			gocv.BitwiseNot(bgr, &inverted)

			out := gocv.NewMat()
			gocv.CvtColor(inverted, &out, gocv.ColorBGRToBGRA)
			return out, nil
		},
	}
}

// BrightnessContrast applies the linear gain/bias adjustment out = in*gain + bias.
func BrightnessContrast() Definition {
	return Definition{
		Kind:        "brightness_contrast",
		Title:       "Brightness / Contrast",
		Description: "Linear gain and bias adjustment",
		Params: []ParamSpec{
			{Name: "gain", Type: TypeFloat, Min: 0.2, Max: 3.0, Step: 0.05, Default: 1.0, Description: "Contrast multiplier"},
			{Name: "bias", Type: TypeFloat, Min: -100, Max: 100, Step: 1, Default: 0.0, Description: "Brightness offset"},
		},
		Transform: func(src gocv.Mat, params map[string]interface{}, _ Context) (gocv.Mat, error) {
			if src.Empty() {
				return gocv.NewMat(), fmt.Errorf("input image is empty")
			}
			gain := floatParam(params, "gain", 1.0)
			bias := floatParam(params, "bias", 0.0)

			out := gocv.NewMat()
			src.ConvertToWithParams(&out, gocv.MatTypeCV8UC4, float32(gain), float32(bias))
			return out, nil
		},
	}
}

// BlendOriginal mixes the current chain result with the run's unprocessed
// source image. This is the one builtin that reads the execution context.
func BlendOriginal() Definition {
	return Definition{
		Kind:        "blend_original",
		Title:       "Blend with Original",
		Description: "Weighted mix against the unprocessed source",
		Params: []ParamSpec{
			{Name: "opacity", Type: TypeFloat, Min: 0, Max: 1, Step: 0.05, Default: 0.5, Description: "Weight of the original image"},
		},
		Transform: func(src gocv.Mat, params map[string]interface{}, ctx Context) (gocv.Mat, error) {
			if src.Empty() {
				return gocv.NewMat(), fmt.Errorf("input image is empty")
			}
			if ctx.Original.Empty() {
				return gocv.NewMat(), fmt.Errorf("run context has no original image")
			}
			opacity := floatParam(params, "opacity", 0.5)

			out := gocv.NewMat()
			gocv.AddWeighted(src, 1.0-opacity, ctx.Original, opacity, 0, &out)
			return out, nil
		},
	}
}
