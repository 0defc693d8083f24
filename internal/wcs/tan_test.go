package wcs

import (
	"math"
	"strings"
	"testing"
)

const testHeader = `SIMPLE  = T
CTYPE1  = 'RA---TAN' / projection type
CTYPE2  = 'DEC--TAN'
CRVAL1  = 10.68470833 / tangent point RA
CRVAL2  = -73.45291667
CRPIX1  = 2048.0
CRPIX2  = 1024.0
CD1_1   = -1.38889e-5
CD1_2   = 0.0
CD2_1   = 0.0
CD2_2   = 1.38889e-5
END
`

func testTan(t *testing.T) *Tan {
	t.Helper()

	h, err := ParseHeader(strings.NewReader(testHeader))
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	conv, err := FromHeader(h)
	if err != nil {
		t.Fatalf("FromHeader: %v", err)
	}
	return conv
}

func TestParseHeader(t *testing.T) {
	h, err := ParseHeader(strings.NewReader(testHeader))
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}

	if h["CTYPE1"] != "RA---TAN" {
		t.Errorf("CTYPE1 = %q, want RA---TAN", h["CTYPE1"])
	}
	crval1, err := h.Float("CRVAL1")
	if err != nil || crval1 != 10.68470833 {
		t.Errorf("CRVAL1 = %v (%v), want 10.68470833", crval1, err)
	}
	if _, err := h.Float("NAXIS"); err == nil {
		t.Error("Float(NAXIS) should fail, card absent")
	}
}

func TestParseHeader_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no equals", "CRVAL1 10.5\n"},
		{"unterminated string", "CTYPE1 = 'RA---TAN\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseHeader(strings.NewReader(tt.input)); err == nil {
				t.Error("ParseHeader should fail")
			}
		})
	}
}

func TestTan_ReferencePixel(t *testing.T) {
	conv := testTan(t)

	// The tangent point must land on the reference pixel, 0-indexed.
	x, y := conv.SkyToPixel(10.68470833, -73.45291667)
	if math.Abs(x-2047) > 1e-6 || math.Abs(y-1023) > 1e-6 {
		t.Errorf("tangent point maps to (%v, %v), want (2047, 1023)", x, y)
	}

	ra, dec := conv.PixelToSky(2047, 1023)
	if math.Abs(ra-10.68470833) > 1e-9 || math.Abs(dec+73.45291667) > 1e-9 {
		t.Errorf("reference pixel maps to (%v, %v), want tangent point", ra, dec)
	}
}

func TestTan_RoundTrip(t *testing.T) {
	conv := testTan(t)

	tests := []struct {
		name string
		x, y float64
	}{
		{"near reference", 2100, 1100},
		{"origin", 0, 0},
		{"far corner", 4095, 2047},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ra, dec := conv.PixelToSky(tt.x, tt.y)
			x, y := conv.SkyToPixel(ra, dec)
			if math.Abs(x-tt.x) > 1e-6 || math.Abs(y-tt.y) > 1e-6 {
				t.Errorf("round trip (%v, %v) -> (%v, %v) -> (%v, %v)",
					tt.x, tt.y, ra, dec, x, y)
			}
		})
	}
}

func TestTan_FarSideNaN(t *testing.T) {
	conv := testTan(t)

	tests := []struct {
		name    string
		ra, dec float64
	}{
		{"antipode", 190.68470833, 73.45291667},
		{"opposite hemisphere", 10.68470833, 73.45291667},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := conv.SkyToPixel(tt.ra, tt.dec)
			if !math.IsNaN(x) || !math.IsNaN(y) {
				t.Errorf("SkyToPixel(%v, %v) = (%v, %v), want NaN", tt.ra, tt.dec, x, y)
			}
		})
	}
}

func TestFromHeader_CDELTFallback(t *testing.T) {
	h := Header{
		"CRVAL1": "150.0", "CRVAL2": "2.5",
		"CRPIX1": "500.5", "CRPIX2": "500.5",
		"CDELT1": "-0.0002", "CDELT2": "0.0002",
	}

	conv, err := FromHeader(h)
	if err != nil {
		t.Fatalf("FromHeader: %v", err)
	}

	ra, dec := conv.PixelToSky(499.5, 499.5)
	if math.Abs(ra-150) > 1e-9 || math.Abs(dec-2.5) > 1e-9 {
		t.Errorf("reference pixel maps to (%v, %v), want (150, 2.5)", ra, dec)
	}
}

func TestFromHeader_Errors(t *testing.T) {
	tests := []struct {
		name string
		h    Header
	}{
		{"missing CRVAL2", Header{
			"CRVAL1": "10", "CRPIX1": "1", "CRPIX2": "1", "CDELT1": "1", "CDELT2": "1",
		}},
		{"no scale cards", Header{
			"CRVAL1": "10", "CRVAL2": "-70", "CRPIX1": "1", "CRPIX2": "1",
		}},
		{"singular CD", Header{
			"CRVAL1": "10", "CRVAL2": "-70", "CRPIX1": "1", "CRPIX2": "1",
			"CD1_1": "1e-5", "CD1_2": "1e-5", "CD2_1": "1e-5", "CD2_2": "1e-5",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromHeader(tt.h); err == nil {
				t.Error("FromHeader should fail")
			}
		})
	}
}
