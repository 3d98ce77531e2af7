package core

import "errors"

var (
	// ErrNoImage reports a run requested with no original image loaded.
	ErrNoImage = errors.New("no image loaded")

	// ErrMalformedPipeline reports an import payload that is not an ordered
	// sequence of step-like records.
	ErrMalformedPipeline = errors.New("malformed pipeline data")
)
