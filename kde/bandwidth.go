package kde

import (
	"fmt"
	"math"

	"github.com/uyouii/kernel-density/common"
	"gonum.org/v1/gonum/stat"
)

// iqrNormalize turns an interquartile range into a normal standard deviation.
const iqrNormalize = 1.349

type BandWidth interface {
	BandWidth(x []float64) (float64, error)
}

// DefaultBandWidth is the selector Setup uses when none is configured.
var DefaultBandWidth BandWidth = SilvermanBandWidth{}

// SilvermanBandWidth implements Silverman's rule of thumb,
// h = 1.06 * sd * n^(-1/5), with the n-1 standard deviation.
//
// Silverman, B. W. (1986) Density Estimation.
type SilvermanBandWidth struct{}

func (SilvermanBandWidth) BandWidth(x []float64) (float64, error) {
	if err := checkBandWidthSample(x); err != nil {
		return 0, err
	}
	stdDev := stat.StdDev(x, nil)
	if !(stdDev > 0) {
		return 0, fmt.Errorf("silverman bandwidth of %d identical values: %w", len(x), common.ErrorDegenerateSample)
	}
	return 1.06 * stdDev * math.Pow(float64(len(x)), -0.2), nil
}

// SilvermanBandwidth returns the Silverman rule of thumb bandwidth of sample.
func SilvermanBandwidth(sample []float64) (float64, error) {
	return SilvermanBandWidth{}.BandWidth(sample)
}

// ScottBandWidth is Silverman's rule with the robust spread
// min(sd, IQR/1.349), which keeps outliers from inflating h.
//
// Scott, D. W. (1992) Multivariate Density Estimation.
type ScottBandWidth struct{}

func (ScottBandWidth) BandWidth(x []float64) (float64, error) {
	if err := checkBandWidthSample(x); err != nil {
		return 0, err
	}
	sigma, err := selectSigma(x)
	if err != nil {
		return 0, err
	}
	return 1.06 * sigma * math.Pow(float64(len(x)), -0.2), nil
}

// NormalReferenceBandWidth scales the robust spread by the kernel's own
// normal reference constant instead of the gaussian 1.06.
type NormalReferenceBandWidth struct {
	kernel Kernel
}

func NewNormalReferenceBandWidth(kernel Kernel) *NormalReferenceBandWidth {
	if kernel == nil {
		kernel = NewGaussianKernel()
	}
	return &NormalReferenceBandWidth{
		kernel: kernel,
	}
}

func (bw *NormalReferenceBandWidth) BandWidth(x []float64) (float64, error) {
	if err := checkBandWidthSample(x); err != nil {
		return 0, err
	}
	A, err := selectSigma(x)
	if err != nil {
		return 0, err
	}
	C := bw.kernel.NormalReferenceConstant()
	n := len(x)
	return C * A * math.Pow(float64(n), -0.2), nil
}

// FixedBandWidth ignores the sample and returns itself.
type FixedBandWidth float64

func (bw FixedBandWidth) BandWidth(x []float64) (float64, error) {
	h := float64(bw)
	if err := checkBandWidth(h); err != nil {
		return 0, err
	}
	return h, nil
}

func selectSigma(x []float64) (float64, error) {
	sorted, err := sortedCopy(x)
	if err != nil {
		return 0, err
	}

	q75 := stat.Quantile(0.75, stat.Empirical, sorted, nil)
	q25 := stat.Quantile(0.25, stat.Empirical, sorted, nil)
	iqr := (q75 - q25) / iqrNormalize

	stdDev := stat.StdDev(sorted, nil)
	if !(stdDev > 0) {
		return 0, fmt.Errorf("spread of %d identical values: %w", len(x), common.ErrorDegenerateSample)
	}

	if iqr > 0 && iqr < stdDev {
		return iqr, nil
	}
	return stdDev, nil
}

func checkBandWidthSample(x []float64) error {
	if len(x) < 2 {
		return fmt.Errorf("bandwidth needs at least 2 values, got %d: %w", len(x), common.ErrorInvalidValue)
	}
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("sample value %v at %d is not finite: %w", v, i, common.ErrorInvalidValue)
		}
	}
	return nil
}

func checkBandWidth(h float64) error {
	if !(h > 0) || math.IsInf(h, 0) {
		return fmt.Errorf("bandwidth must be positive and finite, got %v: %w", h, common.ErrorInvalidValue)
	}
	return nil
}
