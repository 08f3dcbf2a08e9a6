package common

import "errors"

var (
	// ErrorInvalidValue is returned for inputs outside an operation's domain:
	// empty or too small samples, non-finite values, non-positive bandwidths,
	// confidence levels outside (0, 1).
	ErrorInvalidValue = errors.New("invalid value")

	// ErrorDegenerateSample is returned when a sample has zero spread and a
	// bandwidth cannot be derived from it.
	ErrorDegenerateSample = errors.New("degenerate sample")
)
