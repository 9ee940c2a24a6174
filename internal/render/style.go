// Package render draws fixed-size pages as a display list of rectangles,
// lines, ellipses and text, and lays out bordered tables on them.
//
// Coordinates use a bottom-left origin in points (1/72 inch). Nothing in
// this package holds global mutable state: a Theme is passed by value, a
// Metrics is read-only after loading, and each Page belongs to one render.
package render

// Color is an RGB color with components in [0, 1].
type Color struct {
	R, G, B float64
}

// RGB255 returns the color scaled to 0..255 integer components.
func (c Color) RGB255() (r, g, b int) {
	return to255(c.R), to255(c.G), to255(c.B)
}

func to255(v float64) int {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return int(v*255 + 0.5)
}

// Palette is the set of colors a receipt is drawn with.
type Palette struct {
	Primary    Color // borders, grid lines, header text, banner
	HeaderFill Color // table header rows and emphasis rows
	StripeFill Color // odd body rows
	Ink        Color // body text
	OnPrimary  Color // text on the banner
	Logo       Color // logo placeholder outline
}

// Theme holds every layout constant a render needs.
type Theme struct {
	Palette Palette

	Margin           float64 // page border inset
	HeaderHeight     float64 // banner height
	RowHeight        float64 // table row height
	TableBorderWidth float64
	OuterBorderWidth float64
	FontSize         float64 // table text size
	CellInset        float64 // left/right text inset inside a cell
	BaselineInset    float64 // text baseline distance above a row's bottom edge
	SectionGap       float64 // vertical gap between stacked tables
}

// DefaultTheme returns the blue receipt theme.
func DefaultTheme() Theme {
	return Theme{
		Palette: Palette{
			Primary:    Color{0.18, 0.36, 0.7},
			HeaderFill: Color{0.93, 0.96, 1},
			StripeFill: Color{0.97, 0.98, 1},
			Ink:        Color{0, 0, 0},
			OnPrimary:  Color{1, 1, 1},
			Logo:       Color{0.8, 0.2, 0.2},
		},
		Margin:           20,
		HeaderHeight:     40,
		RowHeight:        20,
		TableBorderWidth: 0.8,
		OuterBorderWidth: 2,
		FontSize:         10,
		CellInset:        5,
		BaselineInset:    6,
		SectionGap:       15,
	}
}
