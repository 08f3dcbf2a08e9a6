package kde

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"slices"
	"sort"

	"github.com/uyouii/kernel-density/common"
	"github.com/uyouii/kernel-density/density"
	"github.com/uyouii/kernel-density/model"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate/quad"
)

const (
	// minEachChunk is the smallest number of points handed to one goroutine
	// by DensityEach and CdfEach.
	minEachChunk = 64
	// integratePoints is the Gauss-Legendre order used per bandwidth wide
	// piece by Integrate.
	integratePoints = 20

	maxIntegrateIntervals = 100000
)

// Estimator is a fixed bandwidth kernel density estimate of a univariate
// sample. It is immutable once built and safe for concurrent use.
type Estimator struct {
	// sample is a sorted private copy.
	sample []float64
	// weights are normalised to sum to 1 and follow sample's order;
	// nil for an unweighted estimate.
	weights []float64
	// cumWeights[i] is the sum of weights[:i+1].
	cumWeights []float64

	kernel Kernel
	bw     float64
}

var _ density.Density = (*Estimator)(nil)

// NewEstimator builds an estimator of sample with the given kernel and
// bandwidth. The sample is copied.
func NewEstimator(sample []float64, kind KernelKind, bandwidth float64) (*Estimator, error) {
	kernel, err := NewKernel(kind)
	if err != nil {
		return nil, err
	}
	return newEstimator(sample, nil, kernel, bandwidth)
}

// Setup describes how to build an Estimator from a sample. The zero value is
// a gaussian kernel with DefaultBandWidth.
type Setup struct {
	Kernel KernelKind

	// BandWidth selects h from the sample. Nil means DefaultBandWidth.
	BandWidth BandWidth

	// An adjustment factor for the bw. Bandwidth becomes bw * adjust.
	// Zero means 1.
	Adjust float64

	// Weights are optional non-negative per value weights.
	Weights []float64
}

// DefaultSetup returns the gaussian kernel with DefaultBandWidth.
func DefaultSetup() Setup {
	return Setup{Kernel: Gaussian, BandWidth: DefaultBandWidth}
}

func (s Setup) FromSample(sample []float64) (*Estimator, error) {
	kernel, err := NewKernel(s.Kernel)
	if err != nil {
		return nil, err
	}

	selector := s.BandWidth
	if selector == nil {
		selector = DefaultBandWidth
	}
	bw, err := selector.BandWidth(sample)
	if err != nil {
		return nil, err
	}

	adjust := s.Adjust
	if adjust == 0 {
		adjust = 1
	}
	if !(adjust > 0) || math.IsInf(adjust, 0) {
		return nil, fmt.Errorf("bandwidth adjust must be positive, got %v: %w", adjust, common.ErrorInvalidValue)
	}

	return newEstimator(sample, s.Weights, kernel, bw*adjust)
}

func newEstimator(sample, weights []float64, kernel Kernel, bw float64) (*Estimator, error) {
	if err := checkBandWidth(bw); err != nil {
		return nil, err
	}
	if weights == nil {
		sorted, err := sortedCopy(sample)
		if err != nil {
			return nil, err
		}
		return &Estimator{sample: sorted, kernel: kernel, bw: bw}, nil
	}

	if len(sample) == 0 {
		return nil, fmt.Errorf("empty sample: %w", common.ErrorInvalidValue)
	}
	if len(weights) != len(sample) {
		return nil, fmt.Errorf("%d weights for %d values: %w", len(weights), len(sample), common.ErrorInvalidValue)
	}
	for i, w := range weights {
		if !(w >= 0) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("weight %v at %d: %w", w, i, common.ErrorInvalidValue)
		}
	}
	q := floats.Sum(weights)
	if !(q > 0) || math.IsInf(q, 0) {
		return nil, fmt.Errorf("weights sum to %v: %w", q, common.ErrorInvalidValue)
	}

	if _, err := sortedCopy(sample); err != nil {
		return nil, err
	}
	order := make([]int, len(sample))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return sample[order[a]] < sample[order[b]]
	})

	sorted := make([]float64, len(sample))
	normalized := make([]float64, len(sample))
	for i, j := range order {
		sorted[i] = sample[j]
		normalized[i] = weights[j] / q
	}
	cum := make([]float64, len(normalized))
	floats.CumSum(cum, normalized)
	// Rounding can leave the total just under 1.
	cum[len(cum)-1] = 1

	return &Estimator{
		sample:     sorted,
		weights:    normalized,
		cumWeights: cum,
		kernel:     kernel,
		bw:         bw,
	}, nil
}

func (e *Estimator) Bandwidth() float64 { return e.bw }

func (e *Estimator) Kernel() Kernel { return e.kernel }

func (e *Estimator) Len() int { return len(e.sample) }

// Sample returns a sorted copy of the estimated sample.
func (e *Estimator) Sample() []float64 {
	return append([]float64(nil), e.sample...)
}

// Density returns f(x) = 1/(n*h) * sum K((x - x_i)/h).
func (e *Estimator) Density(x float64) (float64, error) {
	if err := density.CheckFinite(x); err != nil {
		return 0, err
	}
	return e.density(x), nil
}

// Cdf returns F(x) = 1/n * sum W((x - x_i)/h), where W is the kernel's
// cumulative form.
func (e *Estimator) Cdf(x float64) (float64, error) {
	if err := density.CheckFinite(x); err != nil {
		return 0, err
	}
	return e.cdf(x), nil
}

// window returns the index range of samples that may have a non-zero kernel
// value at x. It is the whole sample for kernels with unbounded support.
func (e *Estimator) window(x float64) (int, int) {
	lo, hi := e.kernel.Support()
	if math.IsInf(lo, 0) || math.IsInf(hi, 0) {
		return 0, len(e.sample)
	}
	// u = (x - x_i)/h lies in [lo, hi] iff x_i in [x - hi*h, x - lo*h].
	pad := e.bw * 1e-9
	left := x - hi*e.bw - pad
	right := x - lo*e.bw + pad
	start := sort.SearchFloat64s(e.sample, left)
	end := start + sort.Search(len(e.sample)-start, func(i int) bool {
		return e.sample[start+i] > right
	})
	return start, end
}

func (e *Estimator) density(x float64) float64 {
	h := e.bw
	start, end := e.window(x)

	var sum float64
	if e.weights != nil {
		for i := start; i < end; i++ {
			sum += e.kernel.Shape((x-e.sample[i])/h) * e.weights[i]
		}
		return sum / h
	}

	for i := start; i < end; i++ {
		sum += e.kernel.Shape((x - e.sample[i]) / h)
	}
	return sum / (h * float64(len(e.sample)))
}

func (e *Estimator) cdf(x float64) float64 {
	h := e.bw
	start, end := e.window(x)

	// Every sample left of the window has W = 1.
	var sum float64
	if e.weights != nil {
		if start > 0 {
			sum = e.cumWeights[start-1]
		}
		for i := start; i < end; i++ {
			sum += e.kernel.Cumulative((x-e.sample[i])/h) * e.weights[i]
		}
		return clampUnit(sum)
	}

	sum = float64(start)
	for i := start; i < end; i++ {
		sum += e.kernel.Cumulative((x - e.sample[i]) / h)
	}
	return clampUnit(sum / float64(len(e.sample)))
}

// DensityEach evaluates Density at every point of xs, spreading the points
// over GOMAXPROCS goroutines.
func (e *Estimator) DensityEach(ctx context.Context, xs []float64) ([]float64, error) {
	return e.evalEach(ctx, xs, e.density)
}

// CdfEach evaluates Cdf at every point of xs, spreading the points over
// GOMAXPROCS goroutines.
func (e *Estimator) CdfEach(ctx context.Context, xs []float64) ([]float64, error) {
	return e.evalEach(ctx, xs, e.cdf)
}

func (e *Estimator) evalEach(ctx context.Context, xs []float64, f func(float64) float64) ([]float64, error) {
	for _, x := range xs {
		if err := density.CheckFinite(x); err != nil {
			return nil, err
		}
	}

	res := make([]float64, len(xs))
	workers := runtime.GOMAXPROCS(0)
	chunk := max((len(xs)+workers-1)/workers, minEachChunk)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(xs); start += chunk {
		start, end := start, min(start+chunk, len(xs))
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				res[i] = f(xs[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

// Grid returns gridSize evenly spaced points from min(x) - cut*h to
// max(x) + cut*h. A non-positive gridSize uses max(n, DefaultGridSize) and a
// zero cut uses DefaultCut.
func (e *Estimator) Grid(gridSize int, cut float64) []float64 {
	if gridSize <= 0 {
		gridSize = max(len(e.sample), DefaultGridSize)
	}
	if cut == 0 {
		cut = DefaultCut
	}
	a := floats.Min(e.sample) - cut*e.bw
	b := floats.Max(e.sample) + cut*e.bw
	return linspace(a, b, gridSize)
}

// Kdensity evaluates the density and the cumulative distribution on Grid.
func (e *Estimator) Kdensity(gridSize int, cut float64) ([]model.Density, []model.Cdf) {
	grid := e.Grid(gridSize, cut)

	dens := make([]model.Density, len(grid))
	cdf := make([]model.Cdf, len(grid))
	for i, x := range grid {
		dens[i] = model.Density{X: x, Value: e.density(x)}
		cdf[i] = model.Cdf{X: x, Value: e.cdf(x)}
	}
	return dens, cdf
}

// Quantile inverts the cumulative distribution by bisection.
func (e *Estimator) Quantile(p float64) (*model.QuantileValue, error) {
	if !(p > 0 && p < 1) {
		return nil, fmt.Errorf("quantile %v outside (0, 1): %w", p, common.ErrorInvalidValue)
	}

	lo, hi := e.sample[0]-e.bw, e.sample[len(e.sample)-1]+e.bw
	step := e.bw
	for i := 0; e.cdf(lo) > p; i++ {
		if i == quantileMaxExpand {
			return nil, fmt.Errorf("quantile %v below the reachable cdf: %w", p, common.ErrorInvalidValue)
		}
		lo -= step
		step *= 2
	}
	step = e.bw
	for i := 0; e.cdf(hi) < p; i++ {
		if i == quantileMaxExpand {
			return nil, fmt.Errorf("quantile %v above the reachable cdf: %w", p, common.ErrorInvalidValue)
		}
		hi += step
		step *= 2
	}

	for i := 0; i < quantileMaxIter; i++ {
		mid := lo + (hi-lo)/2
		if hi-lo <= quantileTolerance*math.Max(1, math.Abs(mid)) {
			break
		}
		if e.cdf(mid) < p {
			lo = mid
		} else {
			hi = mid
		}
	}

	return &model.QuantileValue{
		Quantile: p,
		Value:    lo + (hi-lo)/2,
	}, nil
}

// Integrate integrates the density over [a, b] with fixed order
// Gauss-Legendre quadrature. Compact kernels are split at every sample's
// support edges and centre so each piece is smooth.
func (e *Estimator) Integrate(a, b float64) (float64, error) {
	if err := density.CheckFinite(a); err != nil {
		return 0, err
	}
	if err := density.CheckFinite(b); err != nil {
		return 0, err
	}
	if a > b {
		return 0, fmt.Errorf("integration bounds [%v, %v]: %w", a, b, common.ErrorInvalidValue)
	}
	if a == b {
		return 0, nil
	}

	points := []float64{a, b}
	lo, hi := e.kernel.Support()
	if !math.IsInf(lo, 0) && !math.IsInf(hi, 0) {
		for _, xi := range e.sample {
			for _, u := range []float64{lo, 0, hi} {
				if p := xi + u*e.bw; p > a && p < b {
					points = append(points, p)
				}
			}
		}
	}
	slices.Sort(points)
	points = slices.Compact(points)

	var sum float64
	for i := 1; i < len(points); i++ {
		intervals := int(math.Min(math.Ceil((points[i]-points[i-1])/e.bw), maxIntegrateIntervals))
		grid := linspace(points[i-1], points[i], intervals+1)
		for j := 1; j < len(grid); j++ {
			sum += quad.Fixed(e.density, grid[j-1], grid[j], integratePoints, nil, 0)
		}
	}
	return sum, nil
}

func clampUnit(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
