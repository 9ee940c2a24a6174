// Package receipt lays out a fee receipt on a single page.
package receipt

import (
	"fmt"
	"strconv"

	"github.com/mmynk/feereceipt/internal/models"
	"github.com/mmynk/feereceipt/internal/render"
)

// School is the letterhead printed in the banner and footer.
type School struct {
	Name    string
	Address string
	Phone   string
	Contact string // footer line
}

// DefaultSchool returns the letterhead the receipts were first designed for.
func DefaultSchool() School {
	return School{
		Name:    "JOYFUL KINGDOM OF MONTESSORRI",
		Address: "Kamatchiamman Nager, Chikkarayapuram, Kovur EB, Chennai – 69",
		Phone:   "Ph : 7904821929 / 9176562749",
		Contact: "For queries: joyfulkingdomschool@gmail.com | www.joyfulkingdom.com",
	}
}

// Fixed placements, in points, relative to the page margin or the cursor.
const (
	tableIndent    = 10  // tables and dividers start this far inside the border
	dividerGap     = 15  // banner to divider
	dividerWidth   = 1.5 // section divider stroke
	titleDrop      = 20  // divider to title baseline
	titleSize      = 18
	titleGap       = 20 // title baseline to first table
	logoInset      = 35
	logoRadius     = 16
	logoLineWidth  = 1.2
	nameSize       = 16
	letterheadSize = 10
	phoneOffset    = 180 // phone starts this far left of the right margin
	signatureLine  = 25  // divider to signature underline
	signatureLabel = 40  // divider to signature label baseline
	signatureLeft  = 20
	signatureRight = 200
	signatureLen   = 160
	footerSize     = 8
	footerRise     = 15
)

// Composer renders receipt records. It holds no per-render state and may
// be shared between goroutines.
type Composer struct {
	theme   render.Theme
	metrics *render.Metrics
	school  School
}

// NewComposer creates a composer drawing with the given metrics and theme.
func NewComposer(metrics *render.Metrics, theme render.Theme, school School) *Composer {
	return &Composer{theme: theme, metrics: metrics, school: school}
}

// Render lays out rec on a new page. Blank fields render as blank cells;
// fee items past models.MaxFeeRows are left off.
func (c *Composer) Render(rec *models.ReceiptRecord) (*render.Page, error) {
	if c.metrics == nil {
		return nil, render.ErrFontMetricsUnavailable
	}
	if rec == nil {
		rec = &models.ReceiptRecord{}
	}

	cv := render.NewCanvas(c.metrics, c.theme)
	y := c.drawLetterhead(cv)
	y = c.drawTitle(cv, y)

	y, err := c.drawTable(cv, "student", studentTable(rec), y)
	if err != nil {
		return nil, err
	}
	if y, err = c.drawTable(cv, "payment", paymentTable(rec), y); err != nil {
		return nil, err
	}
	if y, err = c.drawTable(cv, "fees", feesTable(rec), y); err != nil {
		return nil, err
	}
	if y, err = c.drawTable(cv, "denominations", denominationTable(rec), y); err != nil {
		return nil, err
	}

	c.drawSignatures(cv, y)
	c.drawFooter(cv)
	return cv.Page, nil
}

// drawLetterhead draws the page border and banner and returns the banner's
// bottom edge.
func (c *Composer) drawLetterhead(cv *render.Canvas) float64 {
	th := c.theme
	pal := th.Palette
	p := cv.Page
	m := th.Margin

	p.StrokeRect(m, m, p.Width-2*m, p.Height-2*m, pal.Primary, th.OuterBorderWidth)

	bannerTop := p.Height - m
	bannerBottom := bannerTop - th.HeaderHeight
	p.FillRect(m, bannerBottom, p.Width-2*m, th.HeaderHeight, pal.Primary)

	logoX := m + logoInset
	p.Ellipse(logoX, bannerBottom+th.HeaderHeight/2, logoRadius, logoRadius, pal.Logo, logoLineWidth)

	textX := logoX + logoRadius + 15
	p.Text(textX, bannerTop-23, c.school.Name, render.FaceBold, nameSize, pal.OnPrimary)
	p.Text(textX, bannerTop-38, c.school.Address, render.FaceRegular, letterheadSize, pal.OnPrimary)
	p.Text(p.Width-m-phoneOffset, bannerTop-38, c.school.Phone, render.FaceRegular, letterheadSize, pal.OnPrimary)
	return bannerBottom
}

// drawTitle draws the divider and the centered title below y and returns
// where the first table starts.
func (c *Composer) drawTitle(cv *render.Canvas, y float64) float64 {
	pal := c.theme.Palette
	dividerY := y - dividerGap
	c.divider(cv, dividerY)
	titleY := dividerY - titleDrop
	cv.TextCentered(cv.Page.Width/2, titleY, "RECEIPT", render.FaceBold, titleSize, pal.Primary)
	return titleY - titleGap
}

func (c *Composer) divider(cv *render.Canvas, y float64) {
	m := c.theme.Margin
	cv.Page.Line(m+tableIndent, y, cv.Page.Width-m-tableIndent, y, c.theme.Palette.Primary, dividerWidth)
}

// drawTable places spec with its top edge at y and returns the cursor for
// the next element.
func (c *Composer) drawTable(cv *render.Canvas, name string, spec render.TableSpec, y float64) (float64, error) {
	spec.Origin = render.Point{X: c.theme.Margin + tableIndent, Y: y}
	spec.RowHeight = c.theme.RowHeight
	b, err := cv.DrawTable(spec)
	if err != nil {
		return 0, fmt.Errorf("%s table: %w", name, err)
	}
	return b.Bottom() - c.theme.SectionGap, nil
}

func (c *Composer) drawSignatures(cv *render.Canvas, y float64) {
	th := c.theme
	p := cv.Page
	c.divider(cv, y)

	left := th.Margin + signatureLeft
	right := p.Width - th.Margin - signatureRight
	for _, sig := range []struct {
		x     float64
		label string
	}{
		{left, "Signature of the Official"},
		{right, "Signature of Depositor"},
	} {
		p.Line(sig.x, y-signatureLine, sig.x+signatureLen, y-signatureLine, th.Palette.Primary, th.TableBorderWidth)
		p.Text(sig.x, y-signatureLabel, sig.label, render.FaceBold, th.FontSize, th.Palette.Ink)
	}
}

func (c *Composer) drawFooter(cv *render.Canvas) {
	th := c.theme
	cv.Page.Text(th.Margin+tableIndent, th.Margin+footerRise, c.school.Contact, render.FaceRegular, footerSize, th.Palette.Primary)
}

func studentTable(rec *models.ReceiptRecord) render.TableSpec {
	return render.TableSpec{
		Columns: []render.Column{
			{Width: 100, Header: "NAME"},
			{Width: 80, Header: "NUMBER"},
			{Width: 80, Header: "TERM"},
			{Width: 80, Header: "CLASS"},
			{Width: 135, Header: "DATE"},
		},
		Rows: []render.Row{
			render.TextRow(rec.StudentName, rec.Number, rec.Term, rec.ClassName, rec.Date),
		},
	}
}

func paymentTable(rec *models.ReceiptRecord) render.TableSpec {
	return render.TableSpec{
		Columns: []render.Column{
			{Width: 165, Header: "By cash / cheque / D.D No.", Align: render.AlignCenter},
			{Width: 170, Header: "Drawn", Align: render.AlignCenter},
			{Width: 170, Header: "Branch", Align: render.AlignCenter},
		},
		Rows: []render.Row{
			render.TextRow(string(rec.PaymentMethod), rec.Drawn, rec.Branch),
		},
	}
}

func feesTable(rec *models.ReceiptRecord) render.TableSpec {
	visible := rec.VisibleFees()
	rows := make([]render.Row, 0, len(visible)+2)
	for _, fee := range visible {
		rows = append(rows, render.TextRow(fee.Label, fee.Amount))
	}
	rows = append(rows,
		render.Row{
			Cells:    []render.Cell{{Text: "Total Amount:", Align: render.AlignRight}, {Text: rec.TotalAmount}},
			Emphasis: true,
		},
		render.Row{
			Cells: []render.Cell{{Text: "Amount in Words:"}, {Text: rec.AmountInWords}},
			Span:  true,
		},
	)
	return render.TableSpec{
		Columns: []render.Column{
			{Width: 395, Header: "Fees"},
			{Width: 120, Header: "Amount"},
		},
		Rows:    rows,
		Striped: true,
	}
}

func denominationTable(rec *models.ReceiptRecord) render.TableSpec {
	rows := make([]render.Row, 0, len(models.Denominations))
	for _, value := range models.Denominations {
		d, _ := rec.Denomination(value)
		rows = append(rows, render.TextRow(strconv.Itoa(value), d.Count, d.Amount))
	}
	return render.TableSpec{
		Columns: []render.Column{
			{Width: 115, Header: "Denomination"},
			{Width: 115, Header: "Count"},
			{Width: 115, Header: "Amount"},
		},
		Rows:    rows,
		Striped: true,
	}
}
