package render

// A4 page size in points.
const (
	PageWidth  = 595
	PageHeight = 842
)

// Point is a position in page space (bottom-left origin).
type Point struct {
	X, Y float64
}

// Op is one drawing operation on a page.
type Op interface {
	isOp()
}

// RectOp draws an axis-aligned rectangle whose bottom-left corner is (X, Y).
// A nil Fill draws no fill; a nil Stroke draws no border.
type RectOp struct {
	X, Y, W, H float64
	Fill       *Color
	Stroke     *Color
	LineWidth  float64
}

// LineOp draws a straight segment.
type LineOp struct {
	X1, Y1, X2, Y2 float64
	Color          Color
	LineWidth      float64
}

// EllipseOp strokes an ellipse centered at (X, Y).
type EllipseOp struct {
	X, Y, RX, RY float64
	Stroke       Color
	LineWidth    float64
}

// TextOp draws a single line of text with its baseline starting at (X, Y).
type TextOp struct {
	X, Y  float64
	Text  string
	Face  Face
	Size  float64
	Color Color
}

func (RectOp) isOp()    {}
func (LineOp) isOp()    {}
func (EllipseOp) isOp() {}
func (TextOp) isOp()    {}

// Page is a single fixed-size page recorded as an ordered display list.
// A Page is not safe for concurrent mutation; each render builds its own.
type Page struct {
	Width  float64
	Height float64
	ops    []Op
}

// NewPage returns an empty A4 page.
func NewPage() *Page {
	return &Page{Width: PageWidth, Height: PageHeight}
}

// Ops returns the recorded operations in drawing order.
func (p *Page) Ops() []Op {
	out := make([]Op, len(p.ops))
	copy(out, p.ops)
	return out
}

// Texts returns every text op in drawing order.
func (p *Page) Texts() []TextOp {
	var out []TextOp
	for _, op := range p.ops {
		if t, ok := op.(TextOp); ok {
			out = append(out, t)
		}
	}
	return out
}

// FillRect records a filled rectangle with no border.
func (p *Page) FillRect(x, y, w, h float64, fill Color) {
	p.ops = append(p.ops, RectOp{X: x, Y: y, W: w, H: h, Fill: &fill})
}

// StrokeRect records an unfilled rectangle border.
func (p *Page) StrokeRect(x, y, w, h float64, stroke Color, lineWidth float64) {
	p.ops = append(p.ops, RectOp{X: x, Y: y, W: w, H: h, Stroke: &stroke, LineWidth: lineWidth})
}

// Line records a line segment.
func (p *Page) Line(x1, y1, x2, y2 float64, c Color, lineWidth float64) {
	p.ops = append(p.ops, LineOp{X1: x1, Y1: y1, X2: x2, Y2: y2, Color: c, LineWidth: lineWidth})
}

// Ellipse records a stroked ellipse.
func (p *Page) Ellipse(x, y, rx, ry float64, stroke Color, lineWidth float64) {
	p.ops = append(p.ops, EllipseOp{X: x, Y: y, RX: rx, RY: ry, Stroke: stroke, LineWidth: lineWidth})
}

// Text records a text run. Empty strings are skipped.
func (p *Page) Text(x, y float64, text string, face Face, size float64, c Color) {
	if text == "" {
		return
	}
	p.ops = append(p.ops, TextOp{X: x, Y: y, Text: text, Face: face, Size: size, Color: c})
}
