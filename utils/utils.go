package utils

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/uyouii/kernel-density/common"
)

// MaxGridPoints caps the number of points StepGrid produces.
const MaxGridPoints = 1_000_000

// StepGrid returns minX, minX+step, ... up to and including maxX. Points are
// integer multiples of step from minX so the grid does not drift.
func StepGrid(minX, maxX, step float64) ([]float64, error) {
	for _, v := range []float64{minX, maxX, step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("grid bound %v is not finite: %w", v, common.ErrorInvalidValue)
		}
	}
	if !(minX <= maxX) || !(step > 0) {
		return nil, fmt.Errorf("invalid grid [%v, %v] step %v: %w", minX, maxX, step, common.ErrorInvalidValue)
	}
	steps := math.Floor((maxX - minX) / step)
	if steps+2 > MaxGridPoints {
		return nil, fmt.Errorf("grid [%v, %v] step %v exceeds %d points: %w",
			minX, maxX, step, MaxGridPoints, common.ErrorInvalidValue)
	}

	count := int(steps) + 1
	grid := make([]float64, 0, count+1)
	for i := 0; i < count; i++ {
		x := minX + float64(i)*step
		if x > maxX {
			break
		}
		grid = append(grid, x)
	}
	if grid[len(grid)-1] < maxX {
		grid = append(grid, maxX)
	}
	return grid, nil
}

// FormatFloat rounds f to round decimal places.
func FormatFloat(f float64, round int32) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	scale := math.Pow10(int(round))
	return math.Round(f*scale) / scale
}

// ReadSample parses a single column of numbers, one per line. Blank lines and
// lines starting with '#' are skipped.
func ReadSample(r io.Reader) ([]float64, error) {
	res := []float64{}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %q is not a number: %w", line, text, common.ErrorInvalidValue)
		}
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return nil, fmt.Errorf("line %d: %q is not finite: %w", line, text, common.ErrorInvalidValue)
		}
		res = append(res, value)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return res, nil
}
