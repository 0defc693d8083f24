package place

import "github.com/litescript/ls-astfield/internal/table"

// Replicate duplicates a star table for nbins bins with nrealize
// realizations per star. Rows come out bin-major: each bin holds the full
// star list in input order, and each star's realizations are adjacent.
func Replicate(t *table.Table, nrealize, nbins int) *table.Table {
	out := &table.Table{}
	for i := 0; i < t.NumCols(); i++ {
		c := t.Column(i)
		rep := table.Column{
			Name:   c.Name,
			Data:   replicateColumn(c.Data, nrealize, nbins),
			Format: c.Format,
		}
		// lengths match by construction
		_ = out.Append(rep)
	}
	return out
}

func replicateColumn(data []float64, nrealize, nbins int) []float64 {
	out := make([]float64, 0, len(data)*nrealize*nbins)
	for k := 0; k < nbins; k++ {
		for _, v := range data {
			for r := 0; r < nrealize; r++ {
				out = append(out, v)
			}
		}
	}
	return out
}
