package skymap

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MetricSummary describes the distribution of a map's metric values.
type MetricSummary struct {
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Summarize computes distribution statistics of the map metric.
func Summarize(m *Map) MetricSummary {
	vals := m.Values()
	if len(vals) == 0 {
		return MetricSummary{}
	}

	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	s := MetricSummary{
		Min:    floats.Min(vals),
		Q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Max:    floats.Max(vals),
		Mean:   stat.Mean(vals, nil),
	}
	// stat.StdDev is NaN for a single value; report a lone tile as zero spread.
	if len(vals) > 1 {
		s.StdDev = stat.StdDev(vals, nil)
	}
	return s
}

// WriteSummary writes a text table of the map distribution and the
// surviving bins to the given writer.
func WriteSummary(w io.Writer, m *Map, bounds []float64, sets []TileSet) {
	s := Summarize(m)

	fmt.Fprintf(w, "Map metric %s over %d tiles\n", m.Metric, len(m.Tiles))
	fmt.Fprintf(w, "  min %.5g  q1 %.5g  median %.5g  q3 %.5g  max %.5g  mean %.5g  sd %.5g\n",
		s.Min, s.Q1, s.Median, s.Q3, s.Max, s.Mean, s.StdDev)
	fmt.Fprintln(w, strings.Repeat("─", 52))

	if len(sets) == 0 {
		fmt.Fprintln(w, "No occupied bins")
		return
	}

	fmt.Fprintf(w, "%-4s %-6s %13s %13s %7s\n", "bin", "label", "lower", "upper", "tiles")
	fmt.Fprintln(w, strings.Repeat("─", 52))
	for i, set := range sets {
		fmt.Fprintf(w, "%-4d %-6d %13.6g %13.6g %7d\n",
			i, set.Label, bounds[set.Label-1], bounds[set.Label], len(set.Tiles))
	}
	fmt.Fprintf(w, "\nTotal: %d occupied of %d bins\n", len(sets), len(bounds)-1)
}
