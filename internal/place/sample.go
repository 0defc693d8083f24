// Package place implements artificial star placement: map-driven
// placement that spreads replicated input stars across metric-binned sky
// tiles, and neighbor-offset placement that rings artificial stars around
// real catalog sources.
package place

import (
	"fmt"

	"github.com/litescript/ls-astfield/internal/skymap"
	"github.com/litescript/ls-astfield/internal/table"
)

// PerBackground places replicated stars across tiles binned by sky
// background level. Draws converting to negative pixel coordinates are
// rejected and redrawn.
func PerBackground(stars *table.Table, m *skymap.Map, nBins int, opts Options) (*table.Table, error) {
	return spread(stars, m, nBins, opts, true)
}

// PerSourceDensity places replicated stars across tiles binned by source
// density. Every draw is kept; no rejection applies.
func PerSourceDensity(stars *table.Table, m *skymap.Map, nBins int, opts Options) (*table.Table, error) {
	return spread(stars, m, nBins, opts, false)
}

// spread is the shared map-driven pipeline: bin the map metric, group
// tiles, replicate the star table per surviving bin, and draw one position
// per output row.
func spread(stars *table.Table, m *skymap.Map, nBins int, opts Options, reject bool) (*table.Table, error) {
	opts = opts.withDefaults()

	bounds, err := skymap.LinearBins(m.Values(), nBins)
	if err != nil {
		return nil, err
	}
	sets := skymap.GroupTiles(skymap.Digitize(m.Values(), bounds), nBins)

	rowsPerBin := stars.NumRows() * opts.Nrealize
	total := rowsPerBin * len(sets)

	coord1 := make([]float64, 0, total)
	coord2 := make([]float64, 0, total)
	binIdx := make([]float64, 0, total)

	for i, set := range sets {
		for r := 0; r < rowsPerBin; r++ {
			c1, c2, err := samplePosition(m, set, opts, reject)
			if err != nil {
				return nil, err
			}
			coord1 = append(coord1, c1)
			coord2 = append(coord2, c2)
			binIdx = append(binIdx, float64(i))
		}
		if opts.Progress != nil {
			opts.Progress(Progress{
				Bin:       i,
				Bins:      len(sets),
				RowsDone:  (i + 1) * rowsPerBin,
				RowsTotal: total,
			})
		}
	}

	out, err := assembleMapOutput(Replicate(stars, opts.Nrealize, len(sets)),
		coord1, coord2, binIdx, opts.Ref != nil)
	if err != nil {
		return nil, err
	}

	if opts.OutPath != "" {
		if err := table.WriteFile(opts.OutPath, out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// samplePosition draws one position for a row of the given bin: a uniform
// point in the bounding box of a uniformly chosen tile, converted to
// pixels when a reference image is configured. With rejection on,
// negative pixel coordinates trigger a redraw up to the attempt budget.
func samplePosition(m *skymap.Map, set skymap.TileSet, opts Options, reject bool) (float64, float64, error) {
	for attempt := 0; attempt < opts.MaxDrawAttempts; attempt++ {
		tile := m.Tiles[set.Tiles[opts.RNG.Intn(len(set.Tiles))]]
		ra := tile.RAMin + opts.RNG.Float64()*(tile.RAMax-tile.RAMin)
		dec := tile.DecMin + opts.RNG.Float64()*(tile.DecMax-tile.DecMin)

		if opts.Ref == nil {
			return ra, dec, nil
		}
		x, y := opts.Ref.SkyToPixel(ra, dec)
		if !reject || (x >= 0 && y >= 0) {
			return x, y, nil
		}
	}
	return 0, 0, fmt.Errorf("place: no on-image position in bin label %d after %d draws: %w",
		set.Label, opts.MaxDrawAttempts, ErrSamplingExhausted)
}
