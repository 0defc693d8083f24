package place

import "errors"

// Sentinel failures of the placement routines. All are returned before any
// output file is touched.
var (
	// ErrMissingCoordinates reports a source catalog without a recognized
	// coordinate column pair.
	ErrMissingCoordinates = errors.New("no coordinate columns")

	// ErrMissingReferenceImage reports sky coordinates that cannot be
	// used without a reference image conversion.
	ErrMissingReferenceImage = errors.New("no reference image")

	// ErrEmptyFilteredCatalog reports a boundary filter that removed
	// every candidate anchor star.
	ErrEmptyFilteredCatalog = errors.New("empty filtered catalog")

	// ErrSamplingExhausted reports a rejection loop that hit its retry
	// budget without finding an acceptable position.
	ErrSamplingExhausted = errors.New("position sampling exhausted")
)
