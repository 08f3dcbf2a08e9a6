package ecdf

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/kernel-density/common"
)

func TestEcdfCdf(t *testing.T) {
	e, err := NewEcdf([]float64{2, 3, 1, 2})
	require.NoError(t, err)

	tests := map[float64]float64{
		0:   0,
		1:   0.25,
		1.5: 0.25,
		2:   0.75,
		2.5: 0.75,
		3:   1,
		10:  1,
	}
	for x, want := range tests {
		got, err := e.Cdf(x)
		require.NoError(t, err)
		assert.Equal(t, want, got, "cdf(%v)", x)

		got, err = Value([]float64{2, 3, 1, 2}, x)
		require.NoError(t, err)
		assert.Equal(t, want, got, "value(%v)", x)
	}

	_, err = e.Cdf(math.NaN())
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
	_, err = Value(nil, 1)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
	_, err = Value([]float64{math.NaN()}, 0)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
	_, err = Value([]float64{1, math.Inf(1)}, 0)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)

	assert.Equal(t, 1.0, e.Min())
	assert.Equal(t, 3.0, e.Max())
	assert.Equal(t, 4, e.Len())
}

func TestNewEcdfErrors(t *testing.T) {
	_, err := NewEcdf(nil)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
	_, err = NewEcdf([]float64{1, math.Inf(-1)})
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
}

func TestEcdfCopiesSamples(t *testing.T) {
	samples := []float64{5, 3, 9, 1}
	e, err := NewEcdf(samples)
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 3, 9, 1}, samples)

	samples[0] = -100
	got, err := e.Cdf(0)
	require.NoError(t, err)
	assert.Zero(t, got)

	r, err := Rank([]float64{5, 3, 9, 1}, 2)
	require.NoError(t, err)
	assert.Equal(t, 3.0, r)
}

func TestEcdfProportions(t *testing.T) {
	samples := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	e, err := NewEcdf(samples)
	require.NoError(t, err)

	tests := []struct {
		proportion float64
		want       float64
	}{
		{0.05, 1},
		{0.1, 1},
		{0.5, 5},
		{0.55, 6},
		{1, 10},
	}
	for _, tt := range tests {
		got, err := e.P(tt.proportion)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "P(%v)", tt.proportion)

		got, err = P(samples, tt.proportion)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "free P(%v)", tt.proportion)

		got, err = e.Percentile(tt.proportion * 100)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "Percentile(%v)", tt.proportion*100)

		got, err = Percentile(samples, tt.proportion*100)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "free Percentile(%v)", tt.proportion*100)
	}

	for _, bad := range []float64{0, -0.5, 1.1, math.NaN()} {
		_, err := e.P(bad)
		assert.ErrorIs(t, err, common.ErrorInvalidValue, "P(%v)", bad)
		_, err = P(samples, bad)
		assert.ErrorIs(t, err, common.ErrorInvalidValue, "free P(%v)", bad)
	}
	_, err = e.Percentile(101)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
	_, err = Percentile(samples, 0)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
}

func TestEcdfRank(t *testing.T) {
	e, err := NewEcdf([]float64{4, 2, 8, 6})
	require.NoError(t, err)

	for rank, want := range map[int]float64{1: 2, 2: 4, 3: 6, 4: 8} {
		got, err := e.Rank(rank)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	for _, bad := range []int{0, -1, 5} {
		_, err := e.Rank(bad)
		assert.ErrorIs(t, err, common.ErrorInvalidValue)
		_, err = Rank([]float64{4, 2, 8, 6}, bad)
		assert.ErrorIs(t, err, common.ErrorInvalidValue)
	}
	_, err = Rank(nil, 1)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
}
