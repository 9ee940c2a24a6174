package render

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSpec is returned for a table whose geometry cannot be drawn:
// no columns, a non-positive width or row height, or a row whose cell
// count does not match the columns.
var ErrInvalidSpec = errors.New("invalid table spec")

// Align is the horizontal placement of text inside a cell.
type Align int

const (
	// AlignDefault defers to the column's alignment, which is left when unset.
	AlignDefault Align = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// Column describes one table column.
type Column struct {
	Width  float64
	Header string
	Align  Align // body cell alignment
}

// Cell is one body cell.
type Cell struct {
	Text  string
	Align Align
}

// Row is one body row.
//
// An Emphasis row is tinted like the header and set in bold primary ink.
// A Span row ignores column boundaries: its first cell is a bold label and
// its optional second cell is the value printed right after it.
type Row struct {
	Cells    []Cell
	Emphasis bool
	Span     bool
}

// TextRow builds a plain row from cell strings.
func TextRow(values ...string) Row {
	cells := make([]Cell, len(values))
	for i, v := range values {
		cells[i] = Cell{Text: v}
	}
	return Row{Cells: cells}
}

// TableSpec describes a table anchored at its top-left corner.
type TableSpec struct {
	Origin    Point
	Columns   []Column
	RowHeight float64
	Rows      []Row
	// Striped tints odd (0-based) plain body rows.
	Striped bool
}

// Width is the sum of the column widths.
func (s TableSpec) Width() float64 {
	var w float64
	for _, c := range s.Columns {
		w += c.Width
	}
	return w
}

// Height covers the header row plus every body row.
func (s TableSpec) Height() float64 {
	return s.RowHeight * float64(1+len(s.Rows))
}

// Validate checks the spec's geometry.
func (s TableSpec) Validate() error {
	if len(s.Columns) == 0 {
		return fmt.Errorf("%w: no columns", ErrInvalidSpec)
	}
	if !(s.RowHeight > 0) || math.IsInf(s.RowHeight, 0) {
		return fmt.Errorf("%w: row height %v", ErrInvalidSpec, s.RowHeight)
	}
	for i, c := range s.Columns {
		if !(c.Width > 0) || math.IsInf(c.Width, 0) {
			return fmt.Errorf("%w: column %d width %v", ErrInvalidSpec, i, c.Width)
		}
	}
	for i, r := range s.Rows {
		switch {
		case r.Span && (len(r.Cells) < 1 || len(r.Cells) > 2):
			return fmt.Errorf("%w: span row %d has %d cells, want 1 or 2", ErrInvalidSpec, i, len(r.Cells))
		case !r.Span && len(r.Cells) != len(s.Columns):
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidSpec, i, len(r.Cells), len(s.Columns))
		}
	}
	return nil
}

// CellRef locates a cell. Row is -1 for the header row.
type CellRef struct {
	Row    int
	Column int
}

// Bounds is the area a drawn table occupies.
type Bounds struct {
	X, Top        float64
	Width, Height float64
	// Overflow lists cells whose text is wider than the cell. Such text is
	// drawn as-is, running past the grid line.
	Overflow []CellRef
}

// Bottom is the y-coordinate of the table's bottom edge.
func (b Bounds) Bottom() float64 {
	return b.Top - b.Height
}

// Canvas pairs a page with the metrics and theme used to draw on it.
type Canvas struct {
	Page    *Page
	Metrics *Metrics
	Theme   Theme
}

// NewCanvas returns a canvas over a fresh A4 page.
func NewCanvas(m *Metrics, th Theme) *Canvas {
	return &Canvas{Page: NewPage(), Metrics: m, Theme: th}
}

// TextWidth measures text with the canvas metrics.
func (c *Canvas) TextWidth(text string, face Face, size float64) float64 {
	return c.Metrics.MeasureTextWidth(text, face, size)
}

// TextCentered draws text horizontally centered on cx.
func (c *Canvas) TextCentered(cx, y float64, text string, face Face, size float64, col Color) {
	c.Page.Text(cx-c.TextWidth(text, face, size)/2, y, text, face, size, col)
}

// DrawTable draws a bordered table with a tinted header row and returns the
// area it covers. Nothing is drawn when the spec is invalid.
func (c *Canvas) DrawTable(spec TableSpec) (Bounds, error) {
	if err := spec.Validate(); err != nil {
		return Bounds{}, err
	}
	th := c.Theme
	pal := th.Palette
	x0, top, rh := spec.Origin.X, spec.Origin.Y, spec.RowHeight
	w, h := spec.Width(), spec.Height()
	b := Bounds{X: x0, Top: top, Width: w, Height: h}

	// Fills go down first so the grid stays visible on top of them.
	c.Page.FillRect(x0, top-rh, w, rh, pal.HeaderFill)
	for i, row := range spec.Rows {
		rowBottom := top - rh*float64(i+2)
		switch {
		case row.Emphasis:
			c.Page.FillRect(x0, rowBottom, w, rh, pal.HeaderFill)
		case spec.Striped && !row.Span && i%2 == 1:
			c.Page.FillRect(x0, rowBottom, w, rh, pal.StripeFill)
		}
	}

	c.Page.StrokeRect(x0, top-h, w, h, pal.Primary, th.TableBorderWidth)
	x := x0
	c.Page.Line(x, top, x, top-h, pal.Primary, th.TableBorderWidth)
	for _, col := range spec.Columns {
		x += col.Width
		c.Page.Line(x, top, x, top-h, pal.Primary, th.TableBorderWidth)
	}
	for r := 0; r <= len(spec.Rows)+1; r++ {
		y := top - rh*float64(r)
		c.Page.Line(x0, y, x0+w, y, pal.Primary, th.TableBorderWidth)
	}

	x = x0
	for j, col := range spec.Columns {
		tw := c.TextWidth(col.Header, FaceBold, th.FontSize)
		if tw > col.Width {
			b.Overflow = append(b.Overflow, CellRef{Row: -1, Column: j})
		}
		c.Page.Text(x+col.Width/2-tw/2, top-rh+th.BaselineInset, col.Header, FaceBold, th.FontSize, pal.Primary)
		x += col.Width
	}

	for i, row := range spec.Rows {
		baseline := top - rh*float64(i+2) + th.BaselineInset
		if row.Span {
			if c.drawSpanRow(x0, w, baseline, row) {
				b.Overflow = append(b.Overflow, CellRef{Row: i, Column: 0})
			}
			continue
		}
		face, ink := FaceRegular, pal.Ink
		if row.Emphasis {
			face, ink = FaceBold, pal.Primary
		}
		x = x0
		for j, col := range spec.Columns {
			cell := row.Cells[j]
			align := cell.Align
			if align == AlignDefault {
				align = col.Align
			}
			tw := c.TextWidth(cell.Text, face, th.FontSize)
			tx, fits := c.placeText(x, col.Width, tw, align)
			if !fits {
				b.Overflow = append(b.Overflow, CellRef{Row: i, Column: j})
			}
			c.Page.Text(tx, baseline, cell.Text, face, th.FontSize, ink)
			x += col.Width
		}
	}
	return b, nil
}

// placeText returns the x where text of width tw starts inside a cell, and
// whether it fits between the cell's insets.
func (c *Canvas) placeText(x, width, tw float64, align Align) (float64, bool) {
	inset := c.Theme.CellInset
	switch align {
	case AlignCenter:
		return x + width/2 - tw/2, tw <= width
	case AlignRight:
		return x + width - inset - tw, tw <= width-2*inset
	default:
		return x + inset, tw <= width-2*inset
	}
}

// drawSpanRow draws a label/value pair across the full table width and
// reports whether it runs past the right inset.
func (c *Canvas) drawSpanRow(x0, width, baseline float64, row Row) bool {
	th := c.Theme
	label := row.Cells[0].Text
	x := x0 + th.CellInset
	c.Page.Text(x, baseline, label, FaceBold, th.FontSize, th.Palette.Primary)
	end := x + c.TextWidth(label, FaceBold, th.FontSize)
	if len(row.Cells) == 2 {
		x = end + th.CellInset
		value := row.Cells[1].Text
		c.Page.Text(x, baseline, value, FaceRegular, th.FontSize, th.Palette.Primary)
		end = x + c.TextWidth(value, FaceRegular, th.FontSize)
	}
	return end > x0+width-th.CellInset
}
