package report

import "errors"

var (
	// ErrExtraction indicates the model response could not be turned
	// into a usable report specification.
	ErrExtraction = errors.New("report specification could not be extracted")
)
