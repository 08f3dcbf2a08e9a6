package kde

const (
	ClipUpperZScore = 3.0
	ClipLowerZScore = 3.0

	KdeMinCalculatePointCnt = 5

	DefaultGridSize = 100
	// DefaultCut extends the evaluation grid this many bandwidths past the
	// lowest and highest sample.
	DefaultCut = 3.0
	// DefaultAlpha is the DKW significance level used when none is given.
	DefaultAlpha = 0.05

	quantileTolerance = 1e-10
	quantileMaxIter   = 200
	// quantileMaxExpand bounds the bracket doublings in Quantile.
	quantileMaxExpand = 64
)

var (
	AllCalculateQuantiles = []float64{0.01, 0.02, 0.03, 0.04, 0.05, 0.06, 0.07, 0.08, 0.09, 0.1, 0.11,
		0.12, 0.5, 0.88, 0.89, 0.9, 0.91, 0.92, 0.93, 0.94, 0.95, 0.96, 0.97, 0.98, 0.99}
)
