package services

import (
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	pdfGrey     = &props.Color{Red: 100, Green: 100, Blue: 100}
	pdfDark     = &props.Color{Red: 33, Green: 37, Blue: 41}
	pdfWhite    = &props.Color{Red: 255, Green: 255, Blue: 255}
	pdfStripe   = &props.Color{Red: 248, Green: 249, Blue: 250}
	pdfSummary  = &props.Color{Red: 245, Green: 245, Blue: 245}
	pdfSection  = props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Left, Color: pdfGrey}
	pdfValue    = props.Text{Size: 8, Align: align.Left}
	pdfBoldText = props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Left}
)

// GenerateQuotationPDF lays out a priced quotation as an A4 PDF. The PDF is
// built from the same document data as the HTML preview, so both show
// identical figures.
func GenerateQuotationPDF(q Quotation, doc *AssembledDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addQuoteHeader(m, q)
	addQuoteParties(m, q, doc.Data)
	addQuoteEquipment(m, doc)
	addQuoteCharges(m, doc.Data)
	addQuoteTotals(m, doc.Data)
	addQuoteTerms(m, q)
	addQuoteSignatures(m, q.Company.Name)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate quotation PDF: %w", err)
	}
	return out.GetBytes(), nil
}

func addQuoteHeader(m core.Maroto, q Quotation) {
	m.AddRows(
		row.New(10).Add(
			col.New(7).Add(text.New(q.Company.Name, props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Left})),
			col.New(5).Add(text.New("QUOTATION", props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Right, Color: pdfDark})),
		),
	)

	contact := joinNonEmpty([]string{q.Company.Address, q.Company.Phone, q.Company.Email}, " | ")
	m.AddRows(
		row.New(8).Add(
			col.New(7).Add(text.New(contact, props.Text{Size: 8, Align: align.Left, Color: pdfGrey})),
			col.New(5).Add(text.New(fmt.Sprintf("Ref: %s", q.Number), props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right})),
		),
	)
	if q.Company.GSTIN != "" {
		m.AddRows(row.New(5).Add(
			col.New(12).Add(text.New("GSTIN: "+q.Company.GSTIN, props.Text{Size: 7, Align: align.Left, Color: pdfGrey})),
		))
	}
	m.AddRows(row.New(3))
}

func addQuoteParties(m core.Maroto, q Quotation, data DocumentData) {
	right := props.Text{Size: 8, Align: align.Right}
	rightLabel := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Right, Color: pdfGrey}

	m.AddRows(row.New(6).Add(
		col.New(6).Add(text.New("TO", pdfSection)),
		col.New(6).Add(text.New("JOB DETAILS", rightLabel)),
	))

	customer := q.Customer.Company
	if customer == "" {
		customer = q.Customer.Name
	}
	lookup := func(path string) string {
		v, _ := data.Lookup(path)
		return v
	}
	left := []string{
		customer,
		q.Customer.Address,
		fmtField("Kind Attn", q.Customer.ContactPerson),
		joinNonEmpty([]string{q.Customer.Phone, q.Customer.Email}, " | "),
		fmtField("GSTIN", q.Customer.GSTIN),
	}
	meta := [][2]string{
		{"Date:", q.Date},
		{"Valid Until:", q.ValidUntil},
		{"Site:", q.SiteLocation},
		{"Duration:", fmt.Sprintf("%s days x %s hrs", lookup("quotation.days"), lookup("quotation.workingHours"))},
		{"Tier:", lookup("quotation.tierLabel")},
	}

	n := len(left)
	if len(meta) > n {
		n = len(meta)
	}
	for i := 0; i < n; i++ {
		var l string
		style := pdfValue
		if i < len(left) {
			l = left[i]
		}
		if i == 0 {
			style = pdfBoldText
		}
		var ml, mv string
		if i < len(meta) {
			ml, mv = meta[i][0], meta[i][1]
		}
		if l == "" && mv == "" {
			continue
		}
		m.AddRows(row.New(6).Add(
			col.New(6).Add(text.New(l, style)),
			col.New(3).Add(text.New(ml, rightLabel)),
			col.New(3).Add(text.New(mv, right)),
		))
	}
	m.AddRows(row.New(3))
}

func addQuoteEquipment(m core.Maroto, doc *AssembledDocument) {
	head := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Center, Color: pdfWhite}
	headLeft := head
	headLeft.Align = align.Left
	headCell := &props.Cell{BackgroundColor: pdfDark}

	m.AddRows(row.New(8).Add(
		col.New(1).Add(text.New("S.No", head)).WithStyle(headCell),
		col.New(4).Add(text.New("Equipment", headLeft)).WithStyle(headCell),
		col.New(2).Add(text.New("Capacity", head)).WithStyle(headCell),
		col.New(1).Add(text.New("Qty", head)).WithStyle(headCell),
		col.New(2).Add(text.New("Rate", head)).WithStyle(headCell),
		col.New(2).Add(text.New("Amount", head)).WithStyle(headCell),
	))

	items, _ := doc.Data["items"].(map[string]any)
	for i := range doc.Totals.Lines {
		r, _ := items[fmt.Sprint(i)].(map[string]any)
		cell := func(key string) string {
			s, _ := r[key].(string)
			return s
		}

		center := props.Text{Size: 7, Align: align.Center}
		left := props.Text{Size: 7, Align: align.Left}
		rightAl := props.Text{Size: 7, Align: align.Right}

		cols := []core.Col{
			col.New(1).Add(text.New(cell("serial"), center)),
			col.New(4).Add(text.New(strings.TrimSpace(cell("name")+" ("+cell("tierLabel")+")"), left)),
			col.New(2).Add(text.New(cell("capacity"), center)),
			col.New(1).Add(text.New(cell("quantity"), center)),
			col.New(2).Add(text.New(cell("rate")+cell("rateUnit"), rightAl)),
			col.New(2).Add(text.New(cell("workingCost"), rightAl)),
		}
		if i%2 == 1 {
			stripe := &props.Cell{BackgroundColor: pdfStripe}
			for j, c := range cols {
				cols[j] = c.WithStyle(stripe)
			}
		}
		m.AddRows(row.New(7).Add(cols...))
	}
	m.AddRows(row.New(2))
}

func addQuoteCharges(m core.Maroto, data DocumentData) {
	rows := []struct{ label, path string }{
		{"Mobilisation / Demobilisation", "charges.mobDemob"},
		{"Food", "charges.food"},
		{"Accommodation", "charges.accommodation"},
		{"Extra Charges", "charges.extra"},
	}
	m.AddRows(row.New(6).Add(col.New(12).Add(text.New("OTHER CHARGES", pdfSection))))
	for _, r := range rows {
		v, _ := data.Lookup(r.path)
		m.AddRows(row.New(6).Add(
			col.New(9).Add(text.New(r.label, pdfValue)),
			col.New(3).Add(text.New(v, props.Text{Size: 8, Align: align.Right})),
		))
	}
	m.AddRows(row.New(3))
}

func addQuoteTotals(m core.Maroto, data DocumentData) {
	label := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Right}
	value := props.Text{Size: 8, Align: align.Right}
	cell := &props.Cell{BackgroundColor: pdfSummary}

	v := func(path string) string {
		s, _ := data.Lookup(path)
		return s
	}

	rows := []struct{ label, path string }{
		{"Risk Factor x" + v("totals.riskMultiplier"), "totals.subtotal"},
		{"GST @ " + v("totals.taxRate"), "totals.tax"},
		{"Total", "totals.total"},
		{"Discount", "totals.discount"},
		{"Round Off", "totals.roundOff"},
	}
	for _, r := range rows {
		m.AddRows(row.New(7).Add(
			col.New(9).Add(text.New(r.label, label)).WithStyle(cell),
			col.New(3).Add(text.New(v(r.path), value)).WithStyle(cell),
		))
	}

	grand := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right, Color: pdfWhite}
	grandCell := &props.Cell{BackgroundColor: pdfDark}
	m.AddRows(row.New(8).Add(
		col.New(9).Add(text.New("Amount Payable", grand)).WithStyle(grandCell),
		col.New(3).Add(text.New(v("totals.payable"), grand)).WithStyle(grandCell),
	))

	m.AddRows(row.New(8).Add(
		col.New(12).Add(text.New("Amount in Words: "+v("totals.amountInWords"), props.Text{
			Size: 8, Style: fontstyle.BoldItalic, Align: align.Left,
		})),
	))
	m.AddRows(row.New(3))
}

func addQuoteTerms(m core.Maroto, q Quotation) {
	if q.Terms == "" && q.Company.BankDetails == "" {
		return
	}
	if q.Terms != "" {
		m.AddRows(row.New(7).Add(col.New(12).Add(text.New("TERMS & CONDITIONS", pdfSection))))
		m.AddRows(row.New(14).Add(col.New(12).Add(text.New(q.Terms, pdfValue))))
	}
	if q.Company.BankDetails != "" {
		m.AddRows(row.New(7).Add(col.New(12).Add(text.New("BANK DETAILS", pdfSection))))
		m.AddRows(row.New(10).Add(col.New(12).Add(text.New(q.Company.BankDetails, pdfValue))))
	}
	m.AddRows(row.New(3))
}

func addQuoteSignatures(m core.Maroto, company string) {
	m.AddRows(row.New(10))

	line := props.Text{Size: 8, Align: align.Center, Color: pdfGrey}
	m.AddRows(row.New(6).Add(
		col.New(6).Add(text.New("____________________________", line)),
		col.New(6).Add(text.New("____________________________", line)),
	))

	label := props.Text{Size: 7, Style: fontstyle.Bold, Align: align.Center, Color: pdfGrey}
	m.AddRows(row.New(7).Add(
		col.New(6).Add(text.New("Customer Acceptance", label)),
		col.New(6).Add(text.New("For "+company, label)),
	))
}

// joinNonEmpty joins non-empty strings with the given separator.
func joinNonEmpty(parts []string, sep string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, sep)
}

// fmtField returns "label: value" if value is non-empty, otherwise empty string.
func fmtField(label, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf("%s: %s", label, value)
}
