package wcs

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Tan is a gnomonic (TAN) sky projection built from reference-image header
// cards. Positions 90 degrees or more from the tangent point are not
// projectable and come back NaN.
type Tan struct {
	ra0, dec0        float64 // tangent point, rad
	sinDec0, cosDec0 float64
	px0, py0         float64    // reference pixel, 0-indexed
	cd               *mat.Dense // pixel offsets to intermediate degrees
	cdInv            *mat.Dense // intermediate degrees to pixel offsets
}

// FromHeader builds the projection from CRVAL1/2, CRPIX1/2 and either the
// CD matrix cards or CDELT1/2.
func FromHeader(h Header) (*Tan, error) {
	crval1, err := h.Float("CRVAL1")
	if err != nil {
		return nil, err
	}
	crval2, err := h.Float("CRVAL2")
	if err != nil {
		return nil, err
	}
	crpix1, err := h.Float("CRPIX1")
	if err != nil {
		return nil, err
	}
	crpix2, err := h.Float("CRPIX2")
	if err != nil {
		return nil, err
	}

	var cd *mat.Dense
	if _, ok := h["CD1_1"]; ok {
		cd11, err := h.Float("CD1_1")
		if err != nil {
			return nil, err
		}
		cd12, err := h.floatOr("CD1_2", 0)
		if err != nil {
			return nil, err
		}
		cd21, err := h.floatOr("CD2_1", 0)
		if err != nil {
			return nil, err
		}
		cd22, err := h.floatOr("CD2_2", 0)
		if err != nil {
			return nil, err
		}
		cd = mat.NewDense(2, 2, []float64{cd11, cd12, cd21, cd22})
	} else {
		cdelt1, err := h.Float("CDELT1")
		if err != nil {
			return nil, err
		}
		cdelt2, err := h.Float("CDELT2")
		if err != nil {
			return nil, err
		}
		cd = mat.NewDense(2, 2, []float64{cdelt1, 0, 0, cdelt2})
	}

	var inv mat.Dense
	if err := inv.Inverse(cd); err != nil {
		return nil, fmt.Errorf("wcs: CD matrix is singular: %w", err)
	}

	dec0 := degToRad(crval2)
	return &Tan{
		ra0:     degToRad(crval1),
		dec0:    dec0,
		sinDec0: math.Sin(dec0),
		cosDec0: math.Cos(dec0),
		px0:     crpix1 - 1, // FITS reference pixels are 1-indexed
		py0:     crpix2 - 1,
		cd:      cd,
		cdInv:   &inv,
	}, nil
}

// SkyToPixel converts sky degrees to 0-indexed pixel coordinates.
func (t *Tan) SkyToPixel(ra, dec float64) (x, y float64) {
	raR, decR := degToRad(ra), degToRad(dec)
	dRA := raR - t.ra0
	sinDec, cosDec := math.Sin(decR), math.Cos(decR)
	cosDRA := math.Cos(dRA)

	f := sinDec*t.sinDec0 + cosDec*t.cosDec0*cosDRA
	if f <= 0 { // 90 degrees or more from the tangent point
		return math.NaN(), math.NaN()
	}
	xi := cosDec * math.Sin(dRA) / f
	eta := (sinDec*t.cosDec0 - cosDec*t.sinDec0*cosDRA) / f

	sky := mat.NewVecDense(2, []float64{radToDeg(xi), radToDeg(eta)})
	var off mat.VecDense
	off.MulVec(t.cdInv, sky)
	return t.px0 + off.AtVec(0), t.py0 + off.AtVec(1)
}

// PixelToSky converts 0-indexed pixel coordinates to sky degrees, with RA
// normalized to [0, 360).
func (t *Tan) PixelToSky(x, y float64) (ra, dec float64) {
	off := mat.NewVecDense(2, []float64{x - t.px0, y - t.py0})
	var sky mat.VecDense
	sky.MulVec(t.cd, off)
	xi, eta := degToRad(sky.AtVec(0)), degToRad(sky.AtVec(1))

	d := t.cosDec0 - eta*t.sinDec0
	dRA := math.Atan2(xi, d)
	decR := math.Atan(math.Cos(dRA) * (t.sinDec0 + eta*t.cosDec0) / d)

	ra = math.Mod(radToDeg(t.ra0+dRA)+360, 360)
	return ra, radToDeg(decR)
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }

func radToDeg(r float64) float64 { return r * 180 / math.Pi }
