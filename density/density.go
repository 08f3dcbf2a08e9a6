// Package density defines the query interfaces shared by the estimators and
// a parametric normal density used as a reference distribution.
package density

// Cumulative is anything that can be asked for a cumulative probability.
type Cumulative interface {
	// Cdf returns P(X <= x). Non-finite x is rejected with an error.
	Cdf(x float64) (float64, error)
}

// Density pairs a probability density with its cumulative form.
type Density interface {
	Cumulative
	Density(x float64) (float64, error)
}
