package density

import (
	"fmt"
	"math"

	"github.com/uyouii/kernel-density/common"
	"gonum.org/v1/gonum/stat/distuv"
)

type Normal struct {
	Mean     float64
	Variance float64

	dist distuv.Normal
}

func NewNormal(mean, variance float64) (*Normal, error) {
	if math.IsNaN(mean) || math.IsInf(mean, 0) {
		return nil, fmt.Errorf("normal mean %v: %w", mean, common.ErrorInvalidValue)
	}
	if !(variance > 0) || math.IsInf(variance, 0) {
		return nil, fmt.Errorf("normal variance must be positive, got %v: %w", variance, common.ErrorInvalidValue)
	}
	return &Normal{
		Mean:     mean,
		Variance: variance,
		dist:     distuv.Normal{Mu: mean, Sigma: math.Sqrt(variance)},
	}, nil
}

func (n *Normal) Density(x float64) (float64, error) {
	if err := CheckFinite(x); err != nil {
		return 0, err
	}
	return n.dist.Prob(x), nil
}

func (n *Normal) Cdf(x float64) (float64, error) {
	if err := CheckFinite(x); err != nil {
		return 0, err
	}
	return n.dist.CDF(x), nil
}

// CheckFinite rejects NaN and infinite query points.
func CheckFinite(x float64) error {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return fmt.Errorf("query point %v is not finite: %w", x, common.ErrorInvalidValue)
	}
	return nil
}
