package ecdf

import (
	"fmt"
	"math"

	"github.com/uyouii/kernel-density/common"
	"github.com/uyouii/kernel-density/density"
	"github.com/uyouii/kernel-density/model"
)

// DKWEpsilon returns the half width of the Dvoretzky-Kiefer-Wolfowitz band,
// sqrt(ln(2/alpha) / 2n). With probability at least 1-alpha the empirical
// CDF of n samples stays within epsilon of the true CDF everywhere.
func DKWEpsilon(n int, alpha float64) (float64, error) {
	if n < 1 {
		return 0, fmt.Errorf("dkw sample size %d: %w", n, common.ErrorInvalidValue)
	}
	if err := checkAlpha(alpha); err != nil {
		return 0, err
	}
	return math.Sqrt(math.Log(2/alpha) / (2 * float64(n))), nil
}

// DKWSampleSize returns the smallest n whose DKW band at alpha is no wider
// than epsilon.
func DKWSampleSize(epsilon, alpha float64) (int, error) {
	if !(epsilon > 0 && epsilon < 1) {
		return 0, fmt.Errorf("dkw epsilon %v outside (0, 1): %w", epsilon, common.ErrorInvalidValue)
	}
	if err := checkAlpha(alpha); err != nil {
		return 0, err
	}
	n := math.Ceil(math.Log(2/alpha) / (2 * epsilon * epsilon))
	if n >= math.MaxInt {
		return 0, fmt.Errorf("dkw sample size for epsilon %v does not fit an int: %w", epsilon, common.ErrorInvalidValue)
	}
	return max(int(n), 1), nil
}

// ConfidenceBand returns [max(0, F(x)-epsilon), min(1, F(x)+epsilon)].
//
// The DKW guarantee holds when c is an *Ecdf. Any other Cumulative, such as a
// kernel estimate, gets the same margin as an approximation only.
func ConfidenceBand(c density.Cumulative, x, epsilon float64) (float64, float64, error) {
	if err := checkEpsilon(epsilon); err != nil {
		return 0, 0, err
	}
	value, err := c.Cdf(x)
	if err != nil {
		return 0, 0, err
	}
	lower, upper := band(value, epsilon)
	return lower, upper, nil
}

// Band evaluates ConfidenceBand at every point of xs.
func Band(c density.Cumulative, xs []float64, epsilon float64) ([]model.BandPoint, error) {
	if err := checkEpsilon(epsilon); err != nil {
		return nil, err
	}
	res := make([]model.BandPoint, 0, len(xs))
	for _, x := range xs {
		value, err := c.Cdf(x)
		if err != nil {
			return nil, err
		}
		lower, upper := band(value, epsilon)
		res = append(res, model.BandPoint{X: x, Value: value, Lower: lower, Upper: upper})
	}
	return res, nil
}

func band(value, epsilon float64) (float64, float64) {
	return math.Max(0, value-epsilon), math.Min(1, value+epsilon)
}

func checkEpsilon(epsilon float64) error {
	if !(epsilon >= 0) || math.IsInf(epsilon, 0) {
		return fmt.Errorf("band epsilon %v: %w", epsilon, common.ErrorInvalidValue)
	}
	return nil
}

func checkAlpha(alpha float64) error {
	if !(alpha > 0 && alpha < 1) {
		return fmt.Errorf("confidence level %v outside (0, 1): %w", alpha, common.ErrorInvalidValue)
	}
	return nil
}
