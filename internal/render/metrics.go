package render

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// ErrFontMetricsUnavailable is returned when the standard font metrics
// cannot be loaded. Centering depends on them, so rendering cannot proceed.
var ErrFontMetricsUnavailable = errors.New("font metrics unavailable")

// Face is one of the two standard faces a page can use.
type Face int

const (
	FaceRegular Face = iota
	FaceBold
)

// Family returns the PDF core font family of the face.
func (f Face) Family() string {
	return "Helvetica"
}

// Style returns the PDF font style string of the face.
func (f Face) Style() string {
	if f == FaceBold {
		return "B"
	}
	return ""
}

func (f Face) String() string {
	if f == FaceBold {
		return "Helvetica-Bold"
	}
	return "Helvetica"
}

// metricsSize is the font size used to sample glyph widths. At 1000pt the
// sampled width equals the glyph width in font units.
const metricsSize = 1000

// Metrics holds per-glyph advance widths for the standard faces, indexed by
// cp1252 byte. It is immutable once loaded and safe for concurrent use.
type Metrics struct {
	widths [2][256]float64
}

var defaultMetrics = sync.OnceValues(LoadMetrics)

// DefaultMetrics returns the process-wide metrics, loading them on first use.
func DefaultMetrics() (*Metrics, error) {
	return defaultMetrics()
}

// LoadMetrics samples glyph widths for Helvetica and Helvetica-Bold from
// the core font definitions bundled with fpdf.
func LoadMetrics() (*Metrics, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	m := &Metrics{}
	for _, face := range []Face{FaceRegular, FaceBold} {
		pdf.SetFont(face.Family(), face.Style(), metricsSize)
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrFontMetricsUnavailable, face, err)
		}
		for b := 1; b < 256; b++ {
			m.widths[face][b] = pdf.GetStringWidth(string([]byte{byte(b)}))
		}
		if m.widths[face]['M'] == 0 {
			return nil, fmt.Errorf("%w: %s has no glyph widths", ErrFontMetricsUnavailable, face)
		}
	}
	return m, nil
}

// MeasureTextWidth returns the advance width of text set in face at size.
func (m *Metrics) MeasureTextWidth(text string, face Face, size float64) float64 {
	if text == "" {
		return 0
	}
	table := &m.widths[FaceRegular]
	if face == FaceBold {
		table = &m.widths[FaceBold]
	}
	var units float64
	for _, b := range []byte(EncodeText(text)) {
		units += table[b]
	}
	return units * size / metricsSize
}

// EncodeText converts UTF-8 text to the cp1252 bytes the core fonts are
// indexed by. Runes outside cp1252 become the encoding's replacement byte.
func EncodeText(text string) string {
	enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
	out, err := enc.String(text)
	if err != nil {
		return text
	}
	return out
}
