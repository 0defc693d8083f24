package skymap

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// ErrInvalidRange reports a metric range or bin count that cannot produce
// equal-width bins.
var ErrInvalidRange = errors.New("invalid bin range")

// LinearBins returns nBins+1 boundaries spanning the value range widened by
// 1% of |min| below and 1% of |max| above, keeping values off Digitize's
// out-of-range labels 0 and nBins+1. The upper widening vanishes when the
// maximum is exactly 0; tiles holding that maximum then digitize to nBins+1
// and drop out of every bin set.
func LinearBins(values []float64, nBins int) ([]float64, error) {
	if nBins < 1 {
		return nil, fmt.Errorf("skymap: %d bins: %w", nBins, ErrInvalidRange)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("skymap: no metric values: %w", ErrInvalidRange)
	}

	lo, hi := floats.Min(values), floats.Max(values)
	if lo == hi {
		return nil, fmt.Errorf("skymap: degenerate metric range [%g, %g]: %w",
			lo, hi, ErrInvalidRange)
	}
	lo -= 0.01 * math.Abs(lo)
	hi += 0.01 * math.Abs(hi)

	bounds := make([]float64, nBins+1)
	step := (hi - lo) / float64(nBins)
	for i := range bounds {
		bounds[i] = lo + float64(i)*step
	}
	bounds[nBins] = hi
	return bounds, nil
}

// Digitize assigns each value a 1-based bin label: label i means
// bounds[i-1] <= v < bounds[i]. A value below the first boundary gets 0
// and one at or above the last gets len(bounds); with boundaries from
// LinearBins that happens only at a maximum of exactly 0.
func Digitize(values, bounds []float64) []int {
	labels := make([]int, len(values))
	for i, v := range values {
		labels[i] = sort.Search(len(bounds), func(j int) bool { return bounds[j] > v })
	}
	return labels
}

// TileSet is one surviving bin: its 1-based label and the indices of the
// tiles assigned to it.
type TileSet struct {
	Label int
	Tiles []int
}

// GroupTiles groups tile indices by bin label in ascending label order,
// dropping labels no tile received. A set's position in the result is the
// bin index placement output reports.
func GroupTiles(labels []int, nBins int) []TileSet {
	sets := make([]TileSet, 0, nBins)
	for label := 1; label <= nBins; label++ {
		var tiles []int
		for i, l := range labels {
			if l == label {
				tiles = append(tiles, i)
			}
		}
		if len(tiles) > 0 {
			sets = append(sets, TileSet{Label: label, Tiles: tiles})
		}
	}
	return sets
}
