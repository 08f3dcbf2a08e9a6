package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantileKey(t *testing.T) {
	assert.Equal(t, "0.93", QuantileKey(1-0.07))
	assert.Equal(t, "0.01", QuantileKey(0.01))
	assert.Equal(t, "0.5", QuantileKey(0.5))
	assert.Equal(t, QuantileKey(0.95), QuantileKey(1-0.05))
}

func TestKdeConfidenceInterval(t *testing.T) {
	c := &KdeConfidence{QuantileValues: map[string]*QuantileValue{
		QuantileKey(0.07): {Value: -1.5, Quantile: 0.07},
		QuantileKey(0.93): {Value: 1.5, Quantile: 0.93},
	}}

	interval, ok := c.Interval(0.07)
	require.True(t, ok)
	assert.Equal(t, -1.5, interval.Lower.Value)
	assert.Equal(t, 1.5, interval.Upper.Value)

	_, ok = c.Interval(0.05)
	assert.False(t, ok)

	var missing *KdeConfidence
	_, ok = missing.GetQuantileValue(0.5)
	assert.False(t, ok)
}
