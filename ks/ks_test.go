package ks

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/kernel-density/common"
)

func series(start, step float64, n int) []float64 {
	res := make([]float64, n)
	for i := range res {
		res[i] = start + float64(i)*step
	}
	return res
}

func TestStatistic(t *testing.T) {
	tests := []struct {
		name   string
		xs, ys []float64
		want   float64
	}{
		{"same", []float64{1, 2, 3}, []float64{3, 2, 1}, 0},
		{"ties", []float64{1, 1, 2, 2}, []float64{1, 2, 2, 2}, 0.25},
		{"disjoint", []float64{1, 2}, []float64{5, 6, 7}, 1},
		{"shifted", []float64{1, 2, 3, 4}, []float64{2, 3, 4, 5}, 0.25},
		{"interleaved", []float64{1, 3, 5, 7}, []float64{2, 4, 6, 8}, 0.25},
	}
	for _, tt := range tests {
		got, err := Statistic(tt.xs, tt.ys)
		require.NoError(t, err, tt.name)
		assert.InDelta(t, tt.want, got, 1e-15, tt.name)

		// Symmetric in its arguments.
		got, err = Statistic(tt.ys, tt.xs)
		require.NoError(t, err, tt.name)
		assert.InDelta(t, tt.want, got, 1e-15, tt.name)
	}

	xs := []float64{3, 1, 2}
	_, err := Statistic(xs, []float64{1})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 1, 2}, xs)

	_, err = Statistic(nil, []float64{1})
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
	_, err = Statistic([]float64{1, math.NaN()}, []float64{1})
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
}

func TestProbabilityKS(t *testing.T) {
	q, err := probabilityKS(0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, q)

	// Tabulated values of the Kolmogorov distribution.
	q, err = probabilityKS(1)
	require.NoError(t, err)
	assert.InDelta(t, 0.27, q, 1e-4)

	q, err = probabilityKS(1.3581)
	require.NoError(t, err)
	assert.InDelta(t, 0.05, q, 1e-4)

	q, err = probabilityKS(0.2)
	require.NoError(t, err)
	assert.InDelta(t, 1, q, 1e-6)

	q, err = probabilityKS(4)
	require.NoError(t, err)
	assert.InDelta(t, 2*math.Exp(-32), q, 1e-15)

	prev := 1.0
	for lambda := 0.05; lambda < 3; lambda += 0.01 {
		q, err := probabilityKS(lambda)
		require.NoError(t, err)
		assert.LessOrEqual(t, q, prev+1e-9, "lambda %v", lambda)
		prev = q
	}
}

func TestKolmogorovSeriesAgree(t *testing.T) {
	for _, lambda := range []float64{0.9, 1, smallLambda, 1.5} {
		small, err := kolmogorovSmall(lambda)
		require.NoError(t, err)
		large, err := kolmogorovLarge(lambda)
		require.NoError(t, err)
		assert.InDelta(t, small, large, 1e-7, "lambda %v", lambda)
	}
}

func TestTestSameDistribution(t *testing.T) {
	xs := series(0, 1, 40)
	ys := series(0.5, 1, 40)
	res, err := Test(xs, ys, 0.95)
	require.NoError(t, err)

	assert.False(t, res.IsRejected)
	assert.InDelta(t, 0.025, res.Statistic, 1e-12)
	assert.Less(t, res.Statistic, res.CriticalValue)
	assert.Equal(t, 0.95, res.Confidence)

	res, err = Test(xs, xs, 0.95)
	require.NoError(t, err)
	assert.Zero(t, res.Statistic)
	assert.Zero(t, res.RejectProbability)
	assert.False(t, res.IsRejected)
}

func TestTestDifferentDistribution(t *testing.T) {
	xs := series(0, 1, 20)
	ys := series(100, 1, 20)
	res, err := Test(xs, ys, 0.95)
	require.NoError(t, err)

	assert.True(t, res.IsRejected)
	assert.Equal(t, 1.0, res.Statistic)
	assert.InDelta(t, 1, res.RejectProbability, 1e-6)
	assert.Greater(t, res.Statistic, res.CriticalValue)
}

func TestCriticalValue(t *testing.T) {
	for _, confidence := range []float64{0.5, 0.9, 0.95, 0.99} {
		cv, err := CriticalValue(30, 50, confidence)
		require.NoError(t, err)
		reject, err := RejectProbability(cv, 30, 50)
		require.NoError(t, err)
		assert.InDelta(t, confidence, reject, 1e-6, "confidence %v", confidence)
	}

	// Larger samples tolerate smaller differences.
	small, err := CriticalValue(10, 10, 0.95)
	require.NoError(t, err)
	large, err := CriticalValue(1000, 1000, 0.95)
	require.NoError(t, err)
	assert.Less(t, large, small)

	_, err = CriticalValue(10, 10, 1)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
}

func TestTestErrors(t *testing.T) {
	big := series(0, 1, 10)
	_, err := Test(big, series(0, 1, MinSampleSize), 0.95)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)

	for _, confidence := range []float64{0, 1, -1, math.NaN()} {
		_, err = Test(big, big, confidence)
		assert.ErrorIs(t, err, common.ErrorInvalidValue, "confidence %v", confidence)
	}

	_, err = RejectProbability(0.5, 3, 100)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
}
