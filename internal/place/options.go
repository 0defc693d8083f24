package place

import (
	"math/rand"
	"time"

	"github.com/litescript/ls-astfield/internal/wcs"
)

// DefaultMaxDrawAttempts bounds the rejection retry loop per output row.
const DefaultMaxDrawAttempts = 1000

// Options configure map-driven placement.
type Options struct {
	// Nrealize is the number of artificial-star realizations per star and
	// bin. Zero means 1.
	Nrealize int

	// Ref converts sampled sky positions to reference-image pixels. Nil
	// keeps sky coordinates in the output.
	Ref wcs.Converter

	// RNG drives every random draw. Nil means a time-seeded generator;
	// inject a fixed-seed generator for reproducible runs.
	RNG *rand.Rand

	// MaxDrawAttempts bounds the per-row retry loop when off-image
	// positions are rejected. Zero means DefaultMaxDrawAttempts.
	MaxDrawAttempts int

	// OutPath, when non-empty, is overwritten with the assembled table
	// after placement succeeds.
	OutPath string

	// Progress, when set, is called after each bin completes.
	Progress func(Progress)
}

// Progress reports placement state after a completed bin.
type Progress struct {
	Bin       int // 0-based index of the bin just completed
	Bins      int // surviving bin count
	RowsDone  int
	RowsTotal int
}

func (o Options) withDefaults() Options {
	if o.Nrealize < 1 {
		o.Nrealize = 1
	}
	if o.RNG == nil {
		o.RNG = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.MaxDrawAttempts < 1 {
		o.MaxDrawAttempts = DefaultMaxDrawAttempts
	}
	return o
}
