package shared

import "errors"

var (
	// ErrInvalidInput indicates a malformed or empty numeric sequence was
	// passed to one of the estimation primitives.
	ErrInvalidInput = errors.New("invalid input")
	// ErrMissingColumn indicates a required price field is absent from a series.
	ErrMissingColumn = errors.New("missing column")
	// ErrInsufficientData indicates a series or sequence is too short for the
	// requested computation.
	ErrInsufficientData = errors.New("insufficient data")
)
