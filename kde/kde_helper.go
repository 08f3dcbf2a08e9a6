package kde

import (
	"context"
	"fmt"
	"math"

	"github.com/uyouii/kernel-density/common"
	"github.com/uyouii/kernel-density/ecdf"
	"github.com/uyouii/kernel-density/model"
	"github.com/uyouii/kernel-density/utils"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

type ConfidenceOptions struct {
	Setup Setup

	// Alpha is the DKW significance level. Zero means DefaultAlpha.
	Alpha float64

	GridSize int
	Cut      float64

	// Clip drops values further than ClipLowerZScore standard deviations
	// below or ClipUpperZScore above the mean before estimating.
	Clip bool

	// Quantiles to report. Nil means AllCalculateQuantiles.
	Quantiles []float64

	// Round is the number of decimals quantile values are rounded to.
	// Zero keeps full precision.
	Round int32
}

// CalculateKdeConfidences estimates the density of values and reports its
// quantiles together with the DKW band of the empirical CDF, evaluated on the
// estimator grid. Weighted setups get no band since DKW does not cover them.
func CalculateKdeConfidences(ctx context.Context, values []float64,
	opts ConfidenceOptions) (res *model.KdeConfidence, err error) {
	logger := utils.GetLogger(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("CalculateKdeConfidences recover panic error!", zap.Any("err", r),
				zap.String("panic info", utils.GetPanicInfo()), zap.Int("valueCount", len(values)))
			res, err = nil, fmt.Errorf("calculate kde confidences: panic: %v", r)
		}
	}()

	alpha := opts.Alpha
	if alpha == 0 {
		alpha = DefaultAlpha
	}

	weights := opts.Setup.Weights
	if weights != nil && len(weights) != len(values) {
		logger.Error("weights do not match values", zap.Int("values", len(values)), zap.Int("weights", len(weights)))
		return nil, fmt.Errorf("%d weights for %d values: %w", len(weights), len(values), common.ErrorInvalidValue)
	}
	values, weights = dropNonFinite(values, weights)

	if len(values) < KdeMinCalculatePointCnt {
		logger.Error("point too little, skip calculate", zap.Int("cnt", len(values)))
		return nil, fmt.Errorf("%d finite values, need %d: %w", len(values), KdeMinCalculatePointCnt, common.ErrorInvalidValue)
	}

	if opts.Clip {
		mean, stddev := stat.MeanStdDev(values, nil)
		clip := &model.Clip{
			Lower: mean - stddev*ClipLowerZScore,
			Upper: mean + stddev*ClipUpperZScore,
		}
		before := len(values)
		values, weights = Clip(values, weights, clip)
		logger.Debug("clip values", zap.Any("clip", clip), zap.Int("dropped", before-len(values)))

		if len(values) < KdeMinCalculatePointCnt {
			logger.Error("point too little after clip, skip calculate", zap.Int("cnt", len(values)))
			return nil, fmt.Errorf("%d values after clipping, need %d: %w", len(values), KdeMinCalculatePointCnt, common.ErrorInvalidValue)
		}
	}

	setup := opts.Setup
	setup.Weights = weights
	k, err := setup.FromSample(values)
	if err != nil {
		logger.Error("build kde estimator failed", zap.Error(err), zap.Stringer("kernel", setup.Kernel))
		return nil, err
	}

	quantiles := opts.Quantiles
	if quantiles == nil {
		quantiles = AllCalculateQuantiles
	}
	calculatedQuantiles := map[string]*model.QuantileValue{}
	for _, value := range quantiles {
		quantile, err := k.Quantile(value)
		if err != nil {
			logger.Error("kde Quantile failed", zap.Error(err), zap.Float64("value", value))
			continue
		}
		if opts.Round > 0 {
			quantile.Value = utils.FormatFloat(quantile.Value, opts.Round)
		}
		calculatedQuantiles[model.QuantileKey(value)] = quantile
	}

	epsilon, err := ecdf.DKWEpsilon(len(values), alpha)
	if err != nil {
		logger.Error("dkw epsilon failed", zap.Error(err), zap.Float64("alpha", alpha))
		return nil, err
	}

	res = &model.KdeConfidence{
		Kernel:         setup.Kernel.String(),
		Bandwidth:      k.Bandwidth(),
		Count:          k.Len(),
		Alpha:          alpha,
		Epsilon:        epsilon,
		QuantileValues: calculatedQuantiles,
	}

	if weights != nil {
		logger.Info("weighted sample, skip dkw band", zap.Int("cnt", len(values)))
		return res, nil
	}

	empirical, err := ecdf.NewEcdf(values)
	if err != nil {
		return nil, err
	}
	res.Band, err = ecdf.Band(empirical, k.Grid(opts.GridSize, opts.Cut), epsilon)
	if err != nil {
		logger.Error("dkw band failed", zap.Error(err))
		return nil, err
	}

	logger.Debug("kde confidences calculated", zap.Int("cnt", res.Count),
		zap.Float64("bandwidth", res.Bandwidth), zap.Float64("epsilon", epsilon))
	return res, nil
}

func dropNonFinite(values, weights []float64) ([]float64, []float64) {
	resX := make([]float64, 0, len(values))
	var resWeight []float64
	if weights != nil {
		resWeight = make([]float64, 0, len(weights))
	}
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		resX = append(resX, v)
		if weights != nil {
			resWeight = append(resWeight, weights[i])
		}
	}
	return resX, resWeight
}
