package ecdf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/kernel-density/common"
	"github.com/uyouii/kernel-density/density"
)

func TestDKWEpsilon(t *testing.T) {
	eps, err := DKWEpsilon(100, 0.05)
	require.NoError(t, err)
	assert.InDelta(t, 0.13581, eps, 1e-5)
	assert.InDelta(t, math.Sqrt(math.Log(40)/200), eps, 1e-15)
}

func TestDKWEpsilonMonotone(t *testing.T) {
	prev := math.Inf(1)
	for n := 1; n <= 500; n++ {
		eps, err := DKWEpsilon(n, 0.05)
		require.NoError(t, err)
		assert.Less(t, eps, prev, "n = %d", n)
		prev = eps
	}

	prev = math.Inf(1)
	for i := 1; i < 100; i++ {
		alpha := float64(i) / 100
		eps, err := DKWEpsilon(50, alpha)
		require.NoError(t, err)
		assert.Less(t, eps, prev, "alpha = %v", alpha)
		prev = eps
	}
}

func TestDKWEpsilonErrors(t *testing.T) {
	tests := []struct {
		n     int
		alpha float64
	}{
		{10, 0},
		{10, 1},
		{10, -0.1},
		{10, 1.5},
		{10, math.NaN()},
		{0, 0.05},
		{-3, 0.05},
	}
	for _, tt := range tests {
		_, err := DKWEpsilon(tt.n, tt.alpha)
		assert.ErrorIs(t, err, common.ErrorInvalidValue, "DKWEpsilon(%d, %v)", tt.n, tt.alpha)
	}
}

func TestDKWSampleSize(t *testing.T) {
	n, err := DKWSampleSize(0.05, 0.05)
	require.NoError(t, err)
	assert.Equal(t, 738, n)

	eps, err := DKWEpsilon(n, 0.05)
	require.NoError(t, err)
	assert.LessOrEqual(t, eps, 0.05)
	eps, err = DKWEpsilon(n-1, 0.05)
	require.NoError(t, err)
	assert.Greater(t, eps, 0.05)

	for _, bad := range []float64{0, 1, -0.2, math.NaN()} {
		_, err := DKWSampleSize(bad, 0.05)
		assert.ErrorIs(t, err, common.ErrorInvalidValue)
	}
	_, err = DKWSampleSize(0.1, 0)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)

	// ln(40) / 2e-20 is far beyond any int.
	n, err = DKWSampleSize(1e-10, 0.05)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
	assert.Zero(t, n)
}

func TestConfidenceBandClamped(t *testing.T) {
	e, err := NewEcdf([]float64{1, 2, 3, 4})
	require.NoError(t, err)

	lower, upper, err := ConfidenceBand(e, 0, 0.2)
	require.NoError(t, err)
	assert.Equal(t, 0.0, lower)
	assert.InDelta(t, 0.2, upper, 1e-15)

	lower, upper, err = ConfidenceBand(e, 2, 0.2)
	require.NoError(t, err)
	assert.InDelta(t, 0.3, lower, 1e-15)
	assert.InDelta(t, 0.7, upper, 1e-15)

	lower, upper, err = ConfidenceBand(e, 10, 0.2)
	require.NoError(t, err)
	assert.InDelta(t, 0.8, lower, 1e-15)
	assert.Equal(t, 1.0, upper)

	lower, upper, err = ConfidenceBand(e, 2.5, 5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, lower)
	assert.Equal(t, 1.0, upper)
}

func TestConfidenceBandErrors(t *testing.T) {
	e, err := NewEcdf([]float64{1, 2, 3, 4})
	require.NoError(t, err)

	for _, eps := range []float64{-0.1, math.NaN(), math.Inf(1)} {
		_, _, err := ConfidenceBand(e, 1, eps)
		assert.ErrorIs(t, err, common.ErrorInvalidValue, "epsilon %v", eps)
	}
	_, _, err = ConfidenceBand(e, math.NaN(), 0.1)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)

	_, err = Band(e, []float64{1, math.Inf(1)}, 0.1)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
	_, err = Band(e, []float64{1}, -0.1)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
}

type countingCdf struct {
	*Ecdf
	calls int
}

func (c *countingCdf) Cdf(x float64) (float64, error) {
	c.calls++
	return c.Ecdf.Cdf(x)
}

func TestBandEvaluatesCdfOnce(t *testing.T) {
	e, err := NewEcdf([]float64{1, 2, 3, 4})
	require.NoError(t, err)
	c := &countingCdf{Ecdf: e}

	band, err := Band(c, []float64{0, 2, 10}, 0.2)
	require.NoError(t, err)
	assert.Equal(t, 3, c.calls)
	assert.Equal(t, 0.5, band[1].Value)
	assert.InDelta(t, 0.3, band[1].Lower, 1e-15)
	assert.InDelta(t, 0.7, band[1].Upper, 1e-15)
}

// An evenly spread uniform sample sits 0.5/n from the true CDF, well inside
// the DKW band.
func TestBandCoversTrueCdf(t *testing.T) {
	const n = 50
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = (float64(i) + 0.5) / n
	}
	e, err := NewEcdf(samples)
	require.NoError(t, err)
	eps, err := DKWEpsilon(n, 0.05)
	require.NoError(t, err)

	xs := make([]float64, 101)
	for i := range xs {
		xs[i] = float64(i) / 100
	}
	band, err := Band(e, xs, eps)
	require.NoError(t, err)
	require.Len(t, band, len(xs))
	for _, p := range band {
		assert.LessOrEqual(t, p.Lower, p.X)
		assert.GreaterOrEqual(t, p.Upper, p.X)
		assert.LessOrEqual(t, p.Lower, p.Value)
		assert.GreaterOrEqual(t, p.Upper, p.Value)
	}
}

func TestBandAroundNormal(t *testing.T) {
	normal, err := density.NewNormal(0, 1)
	require.NoError(t, err)

	band, err := Band(normal, []float64{-40, 0, 40}, 0.1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, band[0].Lower)
	assert.InDelta(t, 0.4, band[1].Lower, 1e-12)
	assert.InDelta(t, 0.6, band[1].Upper, 1e-12)
	assert.Equal(t, 1.0, band[2].Upper)
}
