package place

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/litescript/ls-astfield/internal/table"
	"github.com/litescript/ls-astfield/internal/wcs"
)

// AnnulusWidth is the radial width in pixels of the annulus artificial
// stars occupy around their anchor star.
const AnnulusWidth = 3.0

// NearCatalogStars places one artificial star per AST row in an annulus
// of [separation, separation+AnnulusWidth) pixels around a randomly chosen
// catalog star. Catalog stars within that reach of the catalog's own
// coordinate extent are excluded as anchors. The result is the AST table
// with zeros, ones, X and Y columns prepended.
func NearCatalogStars(catalog, asts *table.Table, separation float64, ref wcs.Converter, rng *rand.Rand) (*table.Table, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	xs, ys, err := catalogPixels(catalog, ref)
	if err != nil {
		return nil, err
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("place: catalog has no rows: %w", ErrEmptyFilteredCatalog)
	}

	// Anchors must sit strictly inside the catalog extent by the full
	// annulus reach on every side.
	margin := separation + AnnulusWidth
	minX, maxX := floats.Min(xs), floats.Max(xs)
	minY, maxY := floats.Min(ys), floats.Max(ys)

	var ax, ay []float64
	for i := range xs {
		if xs[i] > minX+margin && xs[i] < maxX-margin &&
			ys[i] > minY+margin && ys[i] < maxY-margin {
			ax = append(ax, xs[i])
			ay = append(ay, ys[i])
		}
	}
	if len(ax) == 0 {
		return nil, fmt.Errorf("place: separation %g leaves no usable anchors: %w",
			separation, ErrEmptyFilteredCatalog)
	}

	n := asts.NumRows()
	outX := make([]float64, n)
	outY := make([]float64, n)
	for i := 0; i < n; i++ {
		a := rng.Intn(len(ax))
		r := separation + rng.Float64()*AnnulusWidth
		theta := rng.Float64() * 2 * math.Pi
		outX[i] = ax[a] + r*math.Cos(theta)
		outY[i] = ay[a] + r*math.Sin(theta)
	}

	cols := []table.Column{
		{Name: "zeros", Data: make([]float64, n), Format: "%d"},
		{Name: "ones", Data: ones(n), Format: "%d"},
		{Name: "X", Data: outX, Format: "%.2f"},
		{Name: "Y", Data: outY, Format: "%.2f"},
	}
	for i := 0; i < asts.NumCols(); i++ {
		cols = append(cols, asts.Column(i))
	}
	return table.New(cols...)
}

// RewriteASTFile reads the AST magnitude table at path, places each row
// near a catalog star, and overwrites the file with positions prepended.
func RewriteASTFile(path string, catalog *table.Table, separation float64, ref wcs.Converter, rng *rand.Rand) (*table.Table, error) {
	asts, err := table.ReadFile(path)
	if err != nil {
		return nil, err
	}
	out, err := NearCatalogStars(catalog, asts, separation, ref, rng)
	if err != nil {
		return nil, err
	}
	if err := table.WriteFile(path, out); err != nil {
		return nil, err
	}
	return out, nil
}

// catalogPixels extracts pixel coordinates from a source catalog. Column
// pairs are checked in order: X/Y, x/y, RA/DEC, ra/dec. Sky coordinate
// pairs require a reference image conversion.
func catalogPixels(catalog *table.Table, ref wcs.Converter) ([]float64, []float64, error) {
	for _, pair := range [][2]string{{"X", "Y"}, {"x", "y"}} {
		xs, ok := catalog.Col(pair[0])
		if !ok {
			continue
		}
		ys, ok := catalog.Col(pair[1])
		if !ok {
			return nil, nil, fmt.Errorf("place: catalog has %s but no %s: %w",
				pair[0], pair[1], ErrMissingCoordinates)
		}
		return xs, ys, nil
	}

	for _, pair := range [][2]string{{"RA", "DEC"}, {"ra", "dec"}} {
		ras, ok := catalog.Col(pair[0])
		if !ok {
			continue
		}
		decs, ok := catalog.Col(pair[1])
		if !ok {
			return nil, nil, fmt.Errorf("place: catalog has %s but no %s: %w",
				pair[0], pair[1], ErrMissingCoordinates)
		}
		if ref == nil {
			return nil, nil, fmt.Errorf("place: catalog has only sky coordinates: %w",
				ErrMissingReferenceImage)
		}
		xs := make([]float64, len(ras))
		ys := make([]float64, len(ras))
		for i := range ras {
			xs[i], ys[i] = ref.SkyToPixel(ras[i], decs[i])
		}
		return xs, ys, nil
	}

	return nil, nil, fmt.Errorf("place: no X/x or RA/ra columns in catalog: %w",
		ErrMissingCoordinates)
}
