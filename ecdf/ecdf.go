// Package ecdf implements the empirical cumulative distribution function of
// a sample and the Dvoretzky-Kiefer-Wolfowitz confidence band around it.
package ecdf

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/uyouii/kernel-density/common"
	"github.com/uyouii/kernel-density/density"
)

// Ecdf is the step function placing mass 1/n at every sample value.
type Ecdf struct {
	samples []float64
}

var _ density.Cumulative = (*Ecdf)(nil)

// NewEcdf copies and sorts samples.
func NewEcdf(samples []float64) (*Ecdf, error) {
	sorted, err := sortedCopy(samples)
	if err != nil {
		return nil, err
	}
	return &Ecdf{samples: sorted}, nil
}

// Cdf returns the fraction of samples less than or equal to x.
func (e *Ecdf) Cdf(x float64) (float64, error) {
	if err := density.CheckFinite(x); err != nil {
		return 0, err
	}
	leq := sort.Search(len(e.samples), func(i int) bool {
		return e.samples[i] > x
	})
	return float64(leq) / float64(len(e.samples)), nil
}

// P returns the smallest sample x with Cdf(x) >= proportion.
func (e *Ecdf) P(proportion float64) (float64, error) {
	rank, err := proportionRank(proportion, len(e.samples))
	if err != nil {
		return 0, err
	}
	return e.samples[rank-1], nil
}

func (e *Ecdf) Percentile(percentile float64) (float64, error) {
	if !(percentile > 0 && percentile <= 100) {
		return 0, fmt.Errorf("percentile %v outside (0, 100]: %w", percentile, common.ErrorInvalidValue)
	}
	return e.P(percentile / 100)
}

// Rank returns the rank-th smallest sample, counting from 1.
func (e *Ecdf) Rank(rank int) (float64, error) {
	if rank < 1 || rank > len(e.samples) {
		return 0, fmt.Errorf("rank %d outside [1, %d]: %w", rank, len(e.samples), common.ErrorInvalidValue)
	}
	return e.samples[rank-1], nil
}

func (e *Ecdf) Min() float64 { return e.samples[0] }

func (e *Ecdf) Max() float64 { return e.samples[len(e.samples)-1] }

func (e *Ecdf) Len() int { return len(e.samples) }

// Value is the one-shot form of Ecdf.Cdf; it does not sort samples.
func Value(samples []float64, x float64) (float64, error) {
	if err := checkSamples(samples); err != nil {
		return 0, err
	}
	if err := density.CheckFinite(x); err != nil {
		return 0, err
	}
	leq := 0
	for _, v := range samples {
		if v <= x {
			leq++
		}
	}
	return float64(leq) / float64(len(samples)), nil
}

func P(samples []float64, proportion float64) (float64, error) {
	rank, err := proportionRank(proportion, len(samples))
	if err != nil {
		return 0, err
	}
	return Rank(samples, rank)
}

func Percentile(samples []float64, percentile float64) (float64, error) {
	if !(percentile > 0 && percentile <= 100) {
		return 0, fmt.Errorf("percentile %v outside (0, 100]: %w", percentile, common.ErrorInvalidValue)
	}
	return P(samples, percentile/100)
}

// Rank returns the rank-th smallest value of samples without modifying it.
func Rank(samples []float64, rank int) (float64, error) {
	if len(samples) == 0 {
		return 0, fmt.Errorf("empty sample: %w", common.ErrorInvalidValue)
	}
	if rank < 1 || rank > len(samples) {
		return 0, fmt.Errorf("rank %d outside [1, %d]: %w", rank, len(samples), common.ErrorInvalidValue)
	}
	sorted, err := sortedCopy(samples)
	if err != nil {
		return 0, err
	}
	return sorted[rank-1], nil
}

func proportionRank(proportion float64, n int) (int, error) {
	if n == 0 {
		return 0, fmt.Errorf("empty sample: %w", common.ErrorInvalidValue)
	}
	if !(proportion > 0 && proportion <= 1) {
		return 0, fmt.Errorf("proportion %v outside (0, 1]: %w", proportion, common.ErrorInvalidValue)
	}
	rank := int(math.Ceil(proportion * float64(n)))
	return min(max(rank, 1), n), nil
}

func checkSamples(samples []float64) error {
	if len(samples) == 0 {
		return fmt.Errorf("empty sample: %w", common.ErrorInvalidValue)
	}
	for i, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("sample value %v at %d is not finite: %w", v, i, common.ErrorInvalidValue)
		}
	}
	return nil
}

func sortedCopy(samples []float64) ([]float64, error) {
	if err := checkSamples(samples); err != nil {
		return nil, err
	}
	sorted := slices.Clone(samples)
	slices.Sort(sorted)
	return sorted, nil
}
