package kde

import (
	"fmt"
	"math"
	"sort"

	"github.com/uyouii/kernel-density/common"
	"github.com/uyouii/kernel-density/model"
)

func factorial(n int) float64 {
	result := 1.0
	for i := 2; i <= n; i++ {
		result *= float64(i)
	}
	return result
}

func linspace(start, stop float64, num int) []float64 {
	if num < 2 {
		return []float64{start}
	}
	step := (stop - start) / float64(num-1)
	grid := make([]float64, num)
	for i := 0; i < num; i++ {
		grid[i] = start + float64(i)*step
	}
	grid[num-1] = stop
	return grid
}

// sortedCopy validates x and returns it sorted, leaving the caller's slice
// untouched.
func sortedCopy(x []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("empty sample: %w", common.ErrorInvalidValue)
	}
	res := make([]float64, len(x))
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("sample value %v at %d is not finite: %w", v, i, common.ErrorInvalidValue)
		}
		res[i] = v
	}
	sort.Float64s(res)
	return res, nil
}

// Clip drops the values outside clip together with their weights.
// Weights may be nil.
func Clip(x []float64, weights []float64, clip *model.Clip) ([]float64, []float64) {
	if clip == nil || (weights != nil && len(x) != len(weights)) {
		// do nothing
		return x, weights
	}

	resX := []float64{}
	var resWeight []float64
	if weights != nil {
		resWeight = []float64{}
	}
	for i := range x {
		if clip.Contains(x[i]) {
			resX = append(resX, x[i])
			if weights != nil {
				resWeight = append(resWeight, weights[i])
			}
		}
	}
	return resX, resWeight
}
