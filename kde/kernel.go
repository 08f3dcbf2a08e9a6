package kde

import (
	"fmt"
	"math"
	"strings"

	"github.com/uyouii/kernel-density/common"
	"gonum.org/v1/gonum/stat/distuv"
)

type KernelKind int

const (
	Gaussian KernelKind = iota
	Uniform
	Triangular
	Epanechnikov
	Quartic
	Triweight
	Cosine
)

var kernelNames = map[KernelKind]string{
	Uniform:      "uniform",
	Triangular:   "triangular",
	Epanechnikov: "epanechnikov",
	Quartic:      "quartic",
	Triweight:    "triweight",
	Gaussian:     "gaussian",
	Cosine:       "cosine",
}

// AllKernelKinds lists every supported kernel, compact ones first.
var AllKernelKinds = []KernelKind{Uniform, Triangular, Epanechnikov, Quartic, Triweight, Gaussian, Cosine}

func (k KernelKind) String() string {
	if name, ok := kernelNames[k]; ok {
		return name
	}
	return fmt.Sprintf("KernelKind(%d)", int(k))
}

// ParseKernelKind accepts the lower case kernel names; "biweight" and "normal"
// are aliases of quartic and gaussian.
func ParseKernelKind(s string) (KernelKind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "biweight":
		return Quartic, nil
	case "normal":
		return Gaussian, nil
	}
	for kind, kindName := range kernelNames {
		if kindName == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown kernel %q: %w", s, common.ErrorInvalidValue)
}

// Kernel is a symmetric, unit-integral smoothing function paired with its
// antiderivative. The set is closed: only this package can implement it.
type Kernel interface {
	Kind() KernelKind
	// Shape returns K(u).
	Shape(u float64) float64
	// Cumulative returns W(u), the integral of K from -inf to u.
	Cumulative(u float64) float64
	// Support returns the interval outside of which K is zero.
	Support() (float64, float64)
	// L2Norm returns R(K), the integral of K squared.
	L2Norm() float64
	// Moments returns the n-th moment of K for n <= 2 and NaN above.
	Moments(n int) float64
	NormalReferenceConstant() float64

	sealed()
}

func NewKernel(kind KernelKind) (Kernel, error) {
	switch kind {
	case Uniform:
		return NewUniformKernel(), nil
	case Triangular:
		return NewTriangularKernel(), nil
	case Epanechnikov:
		return NewEpanechnikovKernel(), nil
	case Quartic:
		return NewQuarticKernel(), nil
	case Triweight:
		return NewTriweightKernel(), nil
	case Gaussian:
		return NewGaussianKernel(), nil
	case Cosine:
		return NewCosineKernel(), nil
	}
	return nil, fmt.Errorf("unknown kernel %v: %w", kind, common.ErrorInvalidValue)
}

type baseKernel struct {
	kind      KernelKind
	l2Norm    float64
	kernelVar float64
	order     int
}

func (k baseKernel) Kind() KernelKind { return k.kind }

func (k baseKernel) L2Norm() float64 { return k.l2Norm }

func (k baseKernel) Moments(n int) float64 {
	if n == 0 {
		return 1
	}
	if n%2 == 1 {
		return 0
	}
	if n == 2 {
		return k.kernelVar
	}
	return math.NaN()
}

// NormalReferenceConstant is the constant C of the normal reference rule
// h = C * sigma * n^(-1/5) that minimises AMISE for this kernel when the
// data are normal. It is about 1.06 for the gaussian kernel.
func (k baseKernel) NormalReferenceConstant() float64 {
	nu := k.order
	numerator := math.Pow(math.Pi, 0.5) * math.Pow(factorial(nu), 3) * k.l2Norm
	denom := 2.0 * float64(nu) * factorial(2*nu) * math.Pow(k.Moments(nu), 2)
	return 2 * math.Pow(numerator/denom, 1.0/float64(2*nu+1))
}

func (baseKernel) sealed() {}

type compactKernel struct {
	baseKernel
}

func (compactKernel) Support() (float64, float64) { return -1, 1 }

// cumulative clamps W to 0 and 1 outside [-1, 1] and evaluates inner inside.
func (compactKernel) cumulative(u float64, inner func(float64) float64) float64 {
	if u <= -1 {
		return 0
	}
	if u >= 1 {
		return 1
	}
	return inner(u)
}

type UniformKernel struct {
	compactKernel
}

func NewUniformKernel() *UniformKernel {
	return &UniformKernel{compactKernel{baseKernel{
		kind:      Uniform,
		l2Norm:    0.5,
		kernelVar: 1.0 / 3,
		order:     2,
	}}}
}

func (k *UniformKernel) Shape(u float64) float64 {
	if math.Abs(u) > 1 {
		return 0
	}
	return 0.5
}

func (k *UniformKernel) Cumulative(u float64) float64 {
	return k.cumulative(u, func(u float64) float64 {
		return 0.5 * (u + 1)
	})
}

type TriangularKernel struct {
	compactKernel
}

func NewTriangularKernel() *TriangularKernel {
	return &TriangularKernel{compactKernel{baseKernel{
		kind:      Triangular,
		l2Norm:    2.0 / 3,
		kernelVar: 1.0 / 6,
		order:     2,
	}}}
}

func (k *TriangularKernel) Shape(u float64) float64 {
	a := math.Abs(u)
	if a > 1 {
		return 0
	}
	return 1 - a
}

func (k *TriangularKernel) Cumulative(u float64) float64 {
	return k.cumulative(u, func(u float64) float64 {
		if u <= 0 {
			return 0.5 * (1 + u) * (1 + u)
		}
		return 1 - 0.5*(1-u)*(1-u)
	})
}

type EpanechnikovKernel struct {
	compactKernel
}

func NewEpanechnikovKernel() *EpanechnikovKernel {
	return &EpanechnikovKernel{compactKernel{baseKernel{
		kind:      Epanechnikov,
		l2Norm:    3.0 / 5,
		kernelVar: 1.0 / 5,
		order:     2,
	}}}
}

func (k *EpanechnikovKernel) Shape(u float64) float64 {
	if math.Abs(u) > 1 {
		return 0
	}
	return 0.75 * (1 - u*u)
}

func (k *EpanechnikovKernel) Cumulative(u float64) float64 {
	return k.cumulative(u, func(u float64) float64 {
		return (2 + 3*u - u*u*u) / 4
	})
}

// QuarticKernel is also known as the biweight kernel.
type QuarticKernel struct {
	compactKernel
}

func NewQuarticKernel() *QuarticKernel {
	return &QuarticKernel{compactKernel{baseKernel{
		kind:      Quartic,
		l2Norm:    5.0 / 7,
		kernelVar: 1.0 / 7,
		order:     2,
	}}}
}

func (k *QuarticKernel) Shape(u float64) float64 {
	if math.Abs(u) > 1 {
		return 0
	}
	v := 1 - u*u
	return 15.0 / 16 * v * v
}

func (k *QuarticKernel) Cumulative(u float64) float64 {
	return k.cumulative(u, func(u float64) float64 {
		u3 := u * u * u
		u5 := u3 * u * u
		return 0.5 + 15.0/16*(u-2*u3/3+u5/5)
	})
}

type TriweightKernel struct {
	compactKernel
}

func NewTriweightKernel() *TriweightKernel {
	return &TriweightKernel{compactKernel{baseKernel{
		kind:      Triweight,
		l2Norm:    350.0 / 429,
		kernelVar: 1.0 / 9,
		order:     2,
	}}}
}

func (k *TriweightKernel) Shape(u float64) float64 {
	if math.Abs(u) > 1 {
		return 0
	}
	v := 1 - u*u
	return 35.0 / 32 * v * v * v
}

func (k *TriweightKernel) Cumulative(u float64) float64 {
	return k.cumulative(u, func(u float64) float64 {
		u3 := u * u * u
		u5 := u3 * u * u
		u7 := u5 * u * u
		return 0.5 + 35.0/32*(u-u3+3*u5/5-u7/7)
	})
}

type GaussianKernel struct {
	baseKernel
}

func NewGaussianKernel() *GaussianKernel {
	return &GaussianKernel{baseKernel{
		kind:      Gaussian,
		l2Norm:    1.0 / (2.0 * math.Sqrt(math.Pi)),
		kernelVar: 1.0,
		order:     2,
	}}
}

func (k *GaussianKernel) Support() (float64, float64) {
	return math.Inf(-1), math.Inf(1)
}

func (k *GaussianKernel) Shape(u float64) float64 {
	return 0.3989422804014327 * math.Exp(-u*u/2.0)
}

func (k *GaussianKernel) Cumulative(u float64) float64 {
	return distuv.UnitNormal.CDF(u)
}

type CosineKernel struct {
	compactKernel
}

func NewCosineKernel() *CosineKernel {
	return &CosineKernel{compactKernel{baseKernel{
		kind:      Cosine,
		l2Norm:    math.Pi * math.Pi / 16,
		kernelVar: 1 - 8/(math.Pi*math.Pi),
		order:     2,
	}}}
}

func (k *CosineKernel) Shape(u float64) float64 {
	if math.Abs(u) > 1 {
		return 0
	}
	return math.Pi / 4 * math.Cos(math.Pi*u/2)
}

func (k *CosineKernel) Cumulative(u float64) float64 {
	return k.cumulative(u, func(u float64) float64 {
		return 0.5 + 0.5*math.Sin(math.Pi*u/2)
	})
}
