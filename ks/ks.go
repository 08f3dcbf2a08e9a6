// Package ks implements the two sample Kolmogorov-Smirnov test.
package ks

import (
	"fmt"
	"math"
	"slices"

	"github.com/uyouii/kernel-density/common"
	"github.com/uyouii/kernel-density/model"
)

// MinSampleSize is the smallest sample the asymptotic distribution is used
// for; both samples must be strictly larger.
const MinSampleSize = 7

const (
	seriesTerms     = 200
	seriesTolerance = 1e-8
	bisectTolerance = 1e-8
	smallLambda     = 1.18
)

// Test checks whether xs and ys come from the same distribution. The null
// hypothesis is rejected when the reject probability exceeds confidence.
func Test(xs, ys []float64, confidence float64) (*model.KsResult, error) {
	if !(confidence > 0 && confidence < 1) {
		return nil, fmt.Errorf("confidence %v outside (0, 1): %w", confidence, common.ErrorInvalidValue)
	}
	if len(xs) <= MinSampleSize || len(ys) <= MinSampleSize {
		return nil, fmt.Errorf("ks test needs more than %d values per sample, got %d and %d: %w",
			MinSampleSize, len(xs), len(ys), common.ErrorInvalidValue)
	}

	statistic, err := Statistic(xs, ys)
	if err != nil {
		return nil, err
	}
	criticalValue, err := CriticalValue(len(xs), len(ys), confidence)
	if err != nil {
		return nil, err
	}
	rejectProbability, err := RejectProbability(statistic, len(xs), len(ys))
	if err != nil {
		return nil, err
	}

	return &model.KsResult{
		IsRejected:        rejectProbability > confidence,
		Statistic:         statistic,
		RejectProbability: rejectProbability,
		CriticalValue:     criticalValue,
		Confidence:        confidence,
	}, nil
}

// Statistic returns sup |F_xs(t) - F_ys(t)| over all t.
func Statistic(xs, ys []float64) (float64, error) {
	n, m := len(xs), len(ys)
	if n == 0 || m == 0 {
		return 0, fmt.Errorf("ks statistic of an empty sample: %w", common.ErrorInvalidValue)
	}
	for _, v := range slices.Concat(xs, ys) {
		if math.IsNaN(v) {
			return 0, fmt.Errorf("ks statistic of NaN: %w", common.ErrorInvalidValue)
		}
	}

	xs, ys = slices.Clone(xs), slices.Clone(ys)
	slices.Sort(xs)
	slices.Sort(ys)

	// i and j index the first values of xs and ys above the sweep position.
	i, j := 0, 0
	var ecdfXs, ecdfYs, statistic float64
	for i < n && j < m {
		// Skip ties so each step sees the full jump at a value.
		xi := xs[i]
		for i+1 < n && xs[i+1] == xi {
			i++
		}
		yj := ys[j]
		for j+1 < m && ys[j+1] == yj {
			j++
		}

		current := math.Min(xi, yj)
		if current == xi {
			ecdfXs = float64(i+1) / float64(n)
			i++
		}
		if current == yj {
			ecdfYs = float64(j+1) / float64(m)
			j++
		}

		statistic = math.Max(statistic, math.Abs(ecdfXs-ecdfYs))
	}

	// One ECDF has reached 1 and the other only grows towards it, so the
	// difference cannot increase past this point.
	return statistic, nil
}

// RejectProbability returns the probability of rejecting the null hypothesis
// for statistic and sample sizes n1, n2.
func RejectProbability(statistic float64, n1, n2 int) (float64, error) {
	if n1 <= MinSampleSize || n2 <= MinSampleSize {
		return 0, fmt.Errorf("sample sizes %d and %d: %w", n1, n2, common.ErrorInvalidValue)
	}
	f1, f2 := float64(n1), float64(n2)
	factor := math.Sqrt(f1 * f2 / (f1 + f2))
	term := (factor + 0.12 + 0.11/factor) * statistic

	q, err := probabilityKS(term)
	if err != nil {
		return 0, err
	}
	return math.Min(1, math.Max(0, 1-q)), nil
}

// CriticalValue is the statistic at which RejectProbability reaches
// confidence.
func CriticalValue(n1, n2 int, confidence float64) (float64, error) {
	if !(confidence > 0 && confidence < 1) {
		return 0, fmt.Errorf("confidence %v outside (0, 1): %w", confidence, common.ErrorInvalidValue)
	}

	// reject(low) <= confidence < reject(high)
	low, high := 0.0, 1.0
	for iter := 0; iter < seriesTerms; iter++ {
		if low+bisectTolerance >= high {
			return high, nil
		}
		mid := low + (high-low)/2
		reject, err := RejectProbability(mid, n1, n2)
		if err != nil {
			return 0, err
		}
		if reject > confidence {
			high = mid
		} else {
			low = mid
		}
	}
	return 0, fmt.Errorf("critical value for (%d, %d, %v) did not converge", n1, n2, confidence)
}

// probabilityKS is the Kolmogorov distribution tail Q(lambda).
func probabilityKS(lambda float64) (float64, error) {
	if lambda <= 0 {
		return 1, nil
	}
	if lambda < smallLambda {
		return kolmogorovSmall(lambda)
	}
	return kolmogorovLarge(lambda)
}

// kolmogorovSmall uses 1 - sqrt(2 pi)/lambda * sum exp(-(2j-1)^2 pi^2 / (8 lambda^2)),
// which converges fast where the alternating series does not.
func kolmogorovSmall(lambda float64) (float64, error) {
	y := -math.Pi * math.Pi / (8 * lambda * lambda)
	var k float64
	for j := 1; j < seriesTerms; j++ {
		odd := float64(2*j - 1)
		term := math.Exp(y * odd * odd)
		k += term
		if term <= seriesTolerance*k {
			return math.Min(1, math.Max(0, 1-math.Sqrt(2*math.Pi)/lambda*k)), nil
		}
	}
	return 0, fmt.Errorf("kolmogorov series for lambda %v did not converge", lambda)
}

// kolmogorovLarge sums Q(lambda) = 2 * sum (-1)^(j-1) exp(-2 j^2 lambda^2).
func kolmogorovLarge(lambda float64) (float64, error) {
	minusTwoLambdaSquared := -2 * lambda * lambda
	var q float64
	for j := 1; j < seriesTerms; j++ {
		sign := -1.0
		if j%2 == 1 {
			sign = 1
		}
		fj := float64(j)
		term := sign * 2 * math.Exp(minusTwoLambdaSquared*fj*fj)
		q += term
		if math.Abs(term) < seriesTolerance {
			return math.Min(q, 1), nil
		}
	}
	return 0, fmt.Errorf("kolmogorov series for lambda %v did not converge", lambda)
}
