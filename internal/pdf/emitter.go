// Package pdf serializes rendered pages to PDF bytes.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/mmynk/feereceipt/internal/render"
)

// ErrEmptyPage is returned for a page without a positive size.
var ErrEmptyPage = errors.New("page has no size")

// fixedEpoch stamps documents when no creation time is given, so that
// equal pages produce equal bytes.
var fixedEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// Options controls document-level output.
type Options struct {
	// Compress deflates page content streams.
	Compress bool
	// CreatedAt is written as the creation and modification date.
	// The zero value writes a fixed date.
	CreatedAt time.Time
	Title     string
	Producer  string
}

// Emitter turns pages into finished single-page PDF documents.
// It is stateless between calls and safe for concurrent use.
type Emitter struct {
	opts Options
}

// NewEmitter creates an emitter with the given options.
func NewEmitter(opts Options) *Emitter {
	if opts.CreatedAt.IsZero() {
		opts.CreatedAt = fixedEpoch
	}
	if opts.Producer == "" {
		opts.Producer = "feereceipt"
	}
	return &Emitter{opts: opts}
}

// Emit replays the page's display list onto a new document and returns
// the document bytes.
func (e *Emitter) Emit(page *render.Page) ([]byte, error) {
	if page == nil || !(page.Width > 0) || !(page.Height > 0) {
		return nil, ErrEmptyPage
	}

	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: page.Width, Ht: page.Height},
	})
	doc.SetCompression(e.opts.Compress)
	doc.SetCreationDate(e.opts.CreatedAt)
	doc.SetModificationDate(e.opts.CreatedAt)
	doc.SetCatalogSort(true)
	doc.SetProducer(e.opts.Producer, true)
	if e.opts.Title != "" {
		doc.SetTitle(e.opts.Title, true)
	}
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()

	w := writer{doc: doc, height: page.Height}
	for _, op := range page.Ops() {
		w.draw(op)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// writer maps bottom-left page coordinates onto fpdf's top-left ones.
type writer struct {
	doc    *fpdf.Fpdf
	height float64
}

func (w writer) y(y float64) float64 {
	return w.height - y
}

func (w writer) draw(op render.Op) {
	switch o := op.(type) {
	case render.RectOp:
		style := ""
		if o.Fill != nil {
			w.doc.SetFillColor(o.Fill.RGB255())
			style += "F"
		}
		if o.Stroke != nil {
			w.doc.SetDrawColor(o.Stroke.RGB255())
			w.doc.SetLineWidth(o.LineWidth)
			style += "D"
		}
		if style == "" {
			return
		}
		w.doc.Rect(o.X, w.y(o.Y+o.H), o.W, o.H, style)
	case render.LineOp:
		w.doc.SetDrawColor(o.Color.RGB255())
		w.doc.SetLineWidth(o.LineWidth)
		w.doc.Line(o.X1, w.y(o.Y1), o.X2, w.y(o.Y2))
	case render.EllipseOp:
		w.doc.SetDrawColor(o.Stroke.RGB255())
		w.doc.SetLineWidth(o.LineWidth)
		w.doc.Ellipse(o.X, w.y(o.Y), o.RX, o.RY, 0, "D")
	case render.TextOp:
		w.doc.SetFont(o.Face.Family(), o.Face.Style(), o.Size)
		w.doc.SetTextColor(o.Color.RGB255())
		w.doc.Text(o.X, w.y(o.Y), render.EncodeText(o.Text))
	}
}
