// Package skymap models the tiled survey footprint that drives artificial
// star placement: rectangular tiles on the sky annotated with a scalar
// metric, plus the equal-width metric binning that groups tiles.
package skymap

import (
	"fmt"
	"strings"

	"github.com/litescript/ls-astfield/internal/table"
)

// Metric names the per-tile scalar column a map is binned by.
type Metric string

// Supported map metrics.
const (
	MetricBackground    Metric = "median_bg"  // median sky background level
	MetricSourceDensity Metric = "sourcedens" // detected sources per unit area
)

// Tile is one rectangular cell of the survey footprint.
type Tile struct {
	RAMin  float64 // deg
	RAMax  float64 // deg
	DecMin float64 // deg
	DecMax float64 // deg
	Metric float64 // value of the map metric in this tile
}

// Map is a tiled footprint with one metric value per tile.
type Map struct {
	Metric Metric
	Tiles  []Tile
}

// boundColumns are the tile bounding-box columns every map table carries.
var boundColumns = []string{"min_ra", "max_ra", "min_dec", "max_dec"}

// FromTable builds a map from a tile table. The table must carry the four
// bounding-box columns and the metric column.
func FromTable(t *table.Table, metric Metric) (*Map, error) {
	var missing []string
	for _, name := range append(append([]string{}, boundColumns...), string(metric)) {
		if !t.Has(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("skymap: map table missing columns: %s",
			strings.Join(missing, ", "))
	}

	raMin, _ := t.Col("min_ra")
	raMax, _ := t.Col("max_ra")
	decMin, _ := t.Col("min_dec")
	decMax, _ := t.Col("max_dec")
	vals, _ := t.Col(string(metric))

	m := &Map{Metric: metric, Tiles: make([]Tile, t.NumRows())}
	for i := range m.Tiles {
		m.Tiles[i] = Tile{
			RAMin:  raMin[i],
			RAMax:  raMax[i],
			DecMin: decMin[i],
			DecMax: decMax[i],
			Metric: vals[i],
		}
	}
	return m, nil
}

// Values returns the metric values in tile order.
func (m *Map) Values() []float64 {
	vals := make([]float64, len(m.Tiles))
	for i, tile := range m.Tiles {
		vals[i] = tile.Metric
	}
	return vals
}
