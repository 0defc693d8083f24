package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-astfield/internal/table"
)

// Glyphs and colors cycled per bin in the field preview.
var (
	binGlyphs = []rune{'✶', '✸', '◆', '✦', '●', '▲', '■', '·'}
	binColors = []lipgloss.Color{"117", "213", "229", "84", "203", "99", "45", "190"}
)

// FieldPreviewModel renders placed artificial stars on a character grid,
// one glyph and color per bin.
type FieldPreviewModel struct {
	width  int
	height int

	xs, ys []float64
	bins   []float64
	pixel  bool
	nbins  int
}

// NewFieldPreviewModel creates an empty field preview.
func NewFieldPreviewModel() FieldPreviewModel {
	return FieldPreviewModel{}
}

// SetSize updates the viewport size.
func (m FieldPreviewModel) SetSize(width, height int) FieldPreviewModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData loads positions from a placement output table. Pixel columns
// win over sky columns; a missing bin_index column plots everything with
// one glyph.
func (m FieldPreviewModel) UpdateData(t *table.Table) FieldPreviewModel {
	if xs, ok := t.Col("X"); ok {
		ys, _ := t.Col("Y")
		m.xs, m.ys, m.pixel = xs, ys, true
	} else if ras, ok := t.Col("RA"); ok {
		decs, _ := t.Col("DEC")
		m.xs, m.ys, m.pixel = ras, decs, false
	}

	m.bins = nil
	m.nbins = 1
	if bins, ok := t.Col("bin_index"); ok {
		m.bins = bins
		for _, b := range bins {
			if int(b)+1 > m.nbins {
				m.nbins = int(b) + 1
			}
		}
	}
	return m
}

// View renders the preview canvas with a legend line.
func (m FieldPreviewModel) View() string {
	if len(m.xs) == 0 {
		return ""
	}
	width, height := m.width, m.height
	if width < 20 {
		width = 20
	}
	if height < 6 {
		height = 6
	}

	minX, maxX := minMax(m.xs)
	minY, maxY := minMax(m.ys)
	if maxX == minX || maxY == minY {
		return ""
	}

	canvas := make([][]rune, height)
	colors := make([][]lipgloss.Color, height)
	for y := 0; y < height; y++ {
		canvas[y] = make([]rune, width)
		colors[y] = make([]lipgloss.Color, width)
		for x := 0; x < width; x++ {
			canvas[y][x] = ' '
			colors[y][x] = "236"
		}
	}

	for i := range m.xs {
		px := int((m.xs[i] - minX) / (maxX - minX) * float64(width-1))
		// Flip so larger Y/Dec sits at the top of the canvas
		py := height - 1 - int((m.ys[i]-minY)/(maxY-minY)*float64(height-1))
		if px < 0 || px >= width || py < 0 || py >= height {
			continue
		}
		bin := 0
		if m.bins != nil {
			bin = int(m.bins[i])
		}
		canvas[py][px] = binGlyphs[bin%len(binGlyphs)]
		colors[py][px] = binColors[bin%len(binColors)]
	}

	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(m.legend(minX, maxX, minY, maxY)))
	b.WriteString("\n")
	for y := 0; y < height; y++ {
		b.WriteString("  ")
		for x := 0; x < width; x++ {
			style := lipgloss.NewStyle().Foreground(colors[y][x])
			b.WriteString(style.Render(string(canvas[y][x])))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m FieldPreviewModel) legend(minX, maxX, minY, maxY float64) string {
	axes := "RA/DEC"
	if m.pixel {
		axes = "X/Y"
	}
	return fmt.Sprintf("%d stars in %d bins · %s [%.4g, %.4g] × [%.4g, %.4g]",
		len(m.xs), m.nbins, axes, minX, maxX, minY, maxY)
}

func minMax(vals []float64) (float64, float64) {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
