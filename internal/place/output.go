package place

import (
	"github.com/litescript/ls-astfield/internal/table"
)

// assembleMapOutput builds the map-driven output table: zeros, ones, the
// coordinate pair, the bin index, then every input column. Columns from
// the third onward get 5-decimal formatting.
func assembleMapOutput(rep *table.Table, c1, c2, bins []float64, pixel bool) (*table.Table, error) {
	name1, name2 := "RA", "DEC"
	if pixel {
		name1, name2 = "X", "Y"
	}

	n := len(c1)
	cols := []table.Column{
		{Name: "zeros", Data: make([]float64, n), Format: "%d"},
		{Name: "ones", Data: ones(n), Format: "%d"},
		{Name: name1, Data: c1, Format: "%.5f"},
		{Name: name2, Data: c2, Format: "%.5f"},
		{Name: "bin_index", Data: bins, Format: "%.5f"},
	}
	for i := 0; i < rep.NumCols(); i++ {
		c := rep.Column(i)
		c.Format = "%.5f"
		cols = append(cols, c)
	}
	return table.New(cols...)
}

func ones(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}
