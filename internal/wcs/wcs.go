// Package wcs converts between sky and pixel coordinates of a reference
// image. The placement pipeline treats the conversion as a black box; the
// one implementation here is a gnomonic (TAN) solution built from
// flattened header cards.
package wcs

// Converter converts between sky coordinates in degrees and 0-indexed
// pixel coordinates of a reference image.
type Converter interface {
	SkyToPixel(ra, dec float64) (x, y float64)
	PixelToSky(x, y float64) (ra, dec float64)
}
