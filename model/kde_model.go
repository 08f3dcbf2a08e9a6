package model

import (
	"math"
	"strconv"
)

// quantileKeyScale drops float noise such as 1-0.07 = 0.9299999999999999
// from quantile keys.
const quantileKeyScale = 1e12

// Clip keeps sample values inside [Lower, Upper].
type Clip struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

func (c *Clip) Contains(x float64) bool {
	if c == nil {
		return true
	}
	return x >= c.Lower && x <= c.Upper
}

type Density struct {
	X     float64 `json:"x"`
	Value float64 `json:"v"`
}

type Cdf struct {
	X     float64 `json:"x"`
	Value float64 `json:"v"`
}

type QuantileValue struct {
	Value    float64 `json:"v,omitempty"`
	Quantile float64 `json:"q,omitempty"`
}

type ConfidenceInterval struct {
	Lower *QuantileValue `json:"l,omitempty"`
	Upper *QuantileValue `json:"u,omitempty"`
}

// BandPoint is one point of a confidence band around a cumulative function.
// Lower and Upper are always clipped to [0, 1].
type BandPoint struct {
	X     float64 `json:"x"`
	Value float64 `json:"v"`
	Lower float64 `json:"l"`
	Upper float64 `json:"u"`
}

type KdeConfidence struct {
	Kernel    string  `json:"kernel,omitempty"`
	Bandwidth float64 `json:"bw,omitempty"`
	Count     int     `json:"n,omitempty"`
	// Alpha is the DKW significance level and Epsilon the band half width.
	Alpha          float64                   `json:"alpha,omitempty"`
	Epsilon        float64                   `json:"eps,omitempty"`
	QuantileValues map[string]*QuantileValue `json:"quantiles,omitempty"`
	Band           []BandPoint               `json:"band,omitempty"`
}

func (c *KdeConfidence) GetQuantileValue(value float64) (*QuantileValue, bool) {
	if c == nil || c.QuantileValues == nil {
		return nil, false
	}
	quantile, ok := c.QuantileValues[QuantileKey(value)]
	return quantile, ok
}

// QuantileKey is the QuantileValues key of quantile q.
func QuantileKey(q float64) string {
	return strconv.FormatFloat(math.Round(q*quantileKeyScale)/quantileKeyScale, 'g', -1, 64)
}

// Interval returns the quantile values enclosing the central 1-2*tail mass,
// when both were calculated.
func (c *KdeConfidence) Interval(tail float64) (*ConfidenceInterval, bool) {
	lower, ok := c.GetQuantileValue(tail)
	if !ok {
		return nil, false
	}
	upper, ok := c.GetQuantileValue(1 - tail)
	if !ok {
		return nil, false
	}
	return &ConfidenceInterval{Lower: lower, Upper: upper}, true
}

type KsResult struct {
	IsRejected        bool    `json:"is_rejected"`
	Statistic         float64 `json:"statistic"`
	RejectProbability float64 `json:"reject_probability"`
	CriticalValue     float64 `json:"critical_value"`
	Confidence        float64 `json:"confidence"`
}
