package place

import (
	"errors"
	"math"
	"math/rand"
	"os"
	"strings"
	"testing"

	"github.com/litescript/ls-astfield/internal/table"
)

// cornerCatalog spans a [0,100] square with corner and edge stars that
// define the extent and a single interior star at (50, 50). With any
// separation under 42 the interior star is the only eligible anchor.
func cornerCatalog(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New(
		table.Column{Name: "X", Data: []float64{0, 100, 50, 50, 50}},
		table.Column{Name: "Y", Data: []float64{50, 50, 0, 100, 50}},
		table.Column{Name: "F475W", Data: []float64{20, 21, 22, 23, 24}},
	)
	if err != nil {
		t.Fatalf("building catalog: %v", err)
	}
	return tbl
}

func testASTs(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New(
		table.Column{Name: "F475W", Data: []float64{24.5, 25.5, 26.5, 27.5}},
		table.Column{Name: "F814W", Data: []float64{23.5, 24.5, 25.5, 26.5}},
	)
	if err != nil {
		t.Fatalf("building AST table: %v", err)
	}
	return tbl
}

func TestNearCatalogStars_AnnulusRadius(t *testing.T) {
	const separation = 5.0

	out, err := NearCatalogStars(cornerCatalog(t), testASTs(t), separation, nil,
		rand.New(rand.NewSource(11)))
	if err != nil {
		t.Fatalf("NearCatalogStars: %v", err)
	}

	xs, _ := out.Col("X")
	ys, _ := out.Col("Y")
	for i := range xs {
		// (50, 50) is the only anchor that survives the boundary filter.
		d := math.Hypot(xs[i]-50, ys[i]-50)
		if d < separation || d >= separation+AnnulusWidth {
			t.Errorf("row %d at distance %v, want within [%v, %v)",
				i, d, separation, separation+AnnulusWidth)
		}
	}
}

func TestNearCatalogStars_ExtentStarsNeverAnchor(t *testing.T) {
	// The star at the exact minimum X extent must fail the strict filter,
	// so no AST can appear within the annulus of (0, 50).
	out, err := NearCatalogStars(cornerCatalog(t), testASTs(t), 5, nil,
		rand.New(rand.NewSource(23)))
	if err != nil {
		t.Fatalf("NearCatalogStars: %v", err)
	}

	xs, _ := out.Col("X")
	ys, _ := out.Col("Y")
	for i := range xs {
		if math.Hypot(xs[i]-0, ys[i]-50) <= 8 {
			t.Errorf("row %d at (%v, %v) rings the extent star", i, xs[i], ys[i])
		}
	}
}

func TestNearCatalogStars_CoordinateColumns(t *testing.T) {
	tests := []struct {
		name    string
		cols    []table.Column
		wantErr error
	}{
		{
			name: "lowercase pixels",
			cols: []table.Column{
				{Name: "x", Data: []float64{0, 100, 50, 50, 50}},
				{Name: "y", Data: []float64{50, 50, 0, 100, 50}},
			},
		},
		{
			name: "pixels win over sky",
			cols: []table.Column{
				{Name: "X", Data: []float64{0, 100, 50, 50, 50}},
				{Name: "Y", Data: []float64{50, 50, 0, 100, 50}},
				{Name: "ra", Data: []float64{1, 2, 3, 4, 5}},
				{Name: "dec", Data: []float64{1, 2, 3, 4, 5}},
			},
		},
		{
			name: "sky without reference image",
			cols: []table.Column{
				{Name: "RA", Data: []float64{0, 10, 5, 5, 5}},
				{Name: "DEC", Data: []float64{5, 5, 0, 10, 5}},
			},
			wantErr: ErrMissingReferenceImage,
		},
		{
			name: "no coordinates",
			cols: []table.Column{
				{Name: "F475W", Data: []float64{20, 21, 22, 23, 24}},
			},
			wantErr: ErrMissingCoordinates,
		},
		{
			name: "partner column missing",
			cols: []table.Column{
				{Name: "X", Data: []float64{0, 100, 50, 50, 50}},
			},
			wantErr: ErrMissingCoordinates,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			catalog, err := table.New(tt.cols...)
			if err != nil {
				t.Fatalf("building catalog: %v", err)
			}

			_, err = NearCatalogStars(catalog, testASTs(t), 5, nil,
				rand.New(rand.NewSource(1)))
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("NearCatalogStars: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNearCatalogStars_SkyWithReference(t *testing.T) {
	catalog, _ := table.New(
		table.Column{Name: "RA", Data: []float64{0, 10, 5, 5, 5}},
		table.Column{Name: "DEC", Data: []float64{5, 5, 0, 10, 5}},
	)
	conv := scaleConverter{scale: 10, ra0: 0, dec0: 0}

	out, err := NearCatalogStars(catalog, testASTs(t), 5, conv,
		rand.New(rand.NewSource(17)))
	if err != nil {
		t.Fatalf("NearCatalogStars: %v", err)
	}

	// Catalog converts to the same [0,100] square; (50, 50) anchors all.
	xs, _ := out.Col("X")
	ys, _ := out.Col("Y")
	for i := range xs {
		d := math.Hypot(xs[i]-50, ys[i]-50)
		if d < 5 || d >= 8 {
			t.Errorf("row %d at distance %v, want within [5, 8)", i, d)
		}
	}
}

func TestNearCatalogStars_EmptyFilter(t *testing.T) {
	_, err := NearCatalogStars(cornerCatalog(t), testASTs(t), 1000, nil,
		rand.New(rand.NewSource(2)))
	if !errors.Is(err, ErrEmptyFilteredCatalog) {
		t.Errorf("err = %v, want ErrEmptyFilteredCatalog", err)
	}
}

func TestNearCatalogStars_OutputColumns(t *testing.T) {
	out, err := NearCatalogStars(cornerCatalog(t), testASTs(t), 5, nil,
		rand.New(rand.NewSource(4)))
	if err != nil {
		t.Fatalf("NearCatalogStars: %v", err)
	}

	want := []string{"zeros", "ones", "X", "Y", "F475W", "F814W"}
	got := out.Names()
	if len(got) != len(want) {
		t.Fatalf("columns = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("columns = %v, want %v", got, want)
		}
	}

	mags, _ := out.Col("F475W")
	if mags[2] != 26.5 {
		t.Errorf("F475W[2] = %v, want 26.5 (input preserved)", mags[2])
	}
	zeros, _ := out.Col("zeros")
	onesCol, _ := out.Col("ones")
	for i := range zeros {
		if zeros[i] != 0 || onesCol[i] != 1 {
			t.Errorf("row %d flags = (%v, %v), want (0, 1)", i, zeros[i], onesCol[i])
		}
	}
}

func TestRewriteASTFile(t *testing.T) {
	path := t.TempDir() + "/asts.txt"
	if err := table.WriteFile(path, testASTs(t)); err != nil {
		t.Fatalf("seeding AST file: %v", err)
	}

	_, err := RewriteASTFile(path, cornerCatalog(t), 5, nil, rand.New(rand.NewSource(6)))
	if err != nil {
		t.Fatalf("RewriteASTFile: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading rewritten file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")

	if lines[0] != "zeros ones X Y F475W F814W" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 1+4 {
		t.Fatalf("got %d lines, want 5", len(lines))
	}

	// Positions carry 2 decimal places, magnitudes their plain values.
	fields := strings.Fields(lines[1])
	for _, f := range fields[2:4] {
		dot := strings.Index(f, ".")
		if dot < 0 || len(f)-dot-1 != 2 {
			t.Errorf("position %q should have 2 decimal places", f)
		}
	}
	if fields[4] != "24.5" {
		t.Errorf("magnitude field = %q, want 24.5", fields[4])
	}
}
