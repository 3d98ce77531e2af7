// Concrete metric implementations
package metrics

import (
	"fmt"
	"math"

	"gocv.io/x/gocv"
)

// PSNR implements Peak Signal-to-Noise Ratio.
type PSNR struct{}

func NewPSNR() *PSNR {
	return &PSNR{}
}

func (p *PSNR) Name() string {
	return "psnr"
}

func (p *PSNR) Calculate(original, processed gocv.Mat) (float64, error) {
	origF, procF, err := toGrayFloat(original, processed)
	if err != nil {
		return 0, err
	}
	defer origF.Close()
	defer procF.Close()

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.Subtract(origF, procF, &diff)

	diffSq := gocv.NewMat()
	defer diffSq.Close()
	gocv.Multiply(diff, diff, &diffSq)

	total := float64(origF.Total())
	if total == 0 {
		return 0, fmt.Errorf("empty images")
	}
	mse := diffSq.Sum().Val1 / total

	if mse < 1e-10 {
		// Perfect match, report a large finite value instead of +Inf.
		return 100.0, nil
	}

	psnr := 20*math.Log10(255) - 10*math.Log10(mse)
	if math.IsInf(psnr, 0) || math.IsNaN(psnr) {
		return 0, fmt.Errorf("unstable psnr value")
	}
	return clamp(psnr, 0, 100), nil
}

// SSIM implements a global Structural Similarity index.
type SSIM struct{}

func NewSSIM() *SSIM {
	return &SSIM{}
}

func (s *SSIM) Name() string {
	return "ssim"
}

func (s *SSIM) Calculate(original, processed gocv.Mat) (float64, error) {
	origF, procF, err := toGrayFloat(original, processed)
	if err != nil {
		return 0, err
	}
	defer origF.Close()
	defer procF.Close()

	c1 := math.Pow(0.01*255, 2)
	c2 := math.Pow(0.03*255, 2)

	mu1 := origF.Mean().Val1
	mu2 := procF.Mean().Val1

	origMean := gocv.NewMatFromScalar(gocv.NewScalar(mu1, 0, 0, 0), origF.Type())
	defer origMean.Close()
	procMean := gocv.NewMatFromScalar(gocv.NewScalar(mu2, 0, 0, 0), procF.Type())
	defer procMean.Close()

	origSub := gocv.NewMat()
	defer origSub.Close()
	procSub := gocv.NewMat()
	defer procSub.Close()
	gocv.Subtract(origF, origMean, &origSub)
	gocv.Subtract(procF, procMean, &procSub)

	sigma1Sq := gocv.NewMat()
	defer sigma1Sq.Close()
	sigma2Sq := gocv.NewMat()
	defer sigma2Sq.Close()
	sigma12 := gocv.NewMat()
	defer sigma12.Close()
	gocv.Multiply(origSub, origSub, &sigma1Sq)
	gocv.Multiply(procSub, procSub, &sigma2Sq)
	gocv.Multiply(origSub, procSub, &sigma12)

	numerator := (2*mu1*mu2 + c1) * (2*sigma12.Mean().Val1 + c2)
	denominator := (mu1*mu1 + mu2*mu2 + c1) * (sigma1Sq.Mean().Val1 + sigma2Sq.Mean().Val1 + c2)
	if denominator == 0 || math.IsNaN(denominator) || math.IsInf(denominator, 0) {
		return 0, fmt.Errorf("unstable ssim denominator")
	}

	ssim := numerator / denominator
	if math.IsNaN(ssim) || math.IsInf(ssim, 0) {
		return 0, fmt.Errorf("unstable ssim value")
	}
	return clamp(ssim, 0, 1), nil
}

// toGrayFloat converts both inputs to single-channel CV32F buffers of equal
// size. The caller owns both returned mats.
func toGrayFloat(original, processed gocv.Mat) (gocv.Mat, gocv.Mat, error) {
	if original.Empty() || processed.Empty() {
		return gocv.NewMat(), gocv.NewMat(), fmt.Errorf("empty images")
	}
	if original.Rows() != processed.Rows() || original.Cols() != processed.Cols() {
		return gocv.NewMat(), gocv.NewMat(), fmt.Errorf("image dimensions mismatch")
	}

	origGray := grayOf(original)
	defer origGray.Close()
	procGray := grayOf(processed)
	defer procGray.Close()

	origF := gocv.NewMat()
	procF := gocv.NewMat()
	origGray.ConvertTo(&origF, gocv.MatTypeCV32F)
	procGray.ConvertTo(&procF, gocv.MatTypeCV32F)
	return origF, procF, nil
}

func grayOf(mat gocv.Mat) gocv.Mat {
	if mat.Channels() == 1 {
		return mat.Clone()
	}
	gray := gocv.NewMat()
	code := gocv.ColorBGRToGray
	if mat.Channels() == 4 {
		code = gocv.ColorBGRAToGray
	}
	gocv.CvtColor(mat, &gray, code)
	return gray
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
