package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateQuotationExcel writes the cost sheet behind a quotation: one row
// per equipment line followed by every aggregation step. Amounts are written
// as numbers, unrounded, so the sheet can be audited against the PDF.
func GenerateQuotationExcel(q Quotation, doc *AssembledDocument) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Cost Sheet"
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}
	lastCol := columns[len(columns)-1]
	widths := []float64{6, 34, 12, 16, 8, 14, 14, 14, 18}
	for i, c := range columns {
		if err := f.SetColWidth(sheetName, c, c, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", c, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	bodyStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create body style: %w", err)
	}
	// Lines without a usable rate are highlighted for the operator.
	manualStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10, Color: "#B91C1C"},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#FEE2E2"}, Pattern: 1},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create manual rate style: %w", err)
	}
	labelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create label style: %w", err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 11},
		NumFmt: 4, // #,##0.00
	})
	if err != nil {
		return nil, fmt.Errorf("create amount style: %w", err)
	}

	// ── Header Rows ─────────────────────────────────────────────────────

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	title := "Quotation " + q.Number
	if q.Number == "" {
		title = "Quotation (draft)"
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(title))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	customer := q.Customer.Company
	if customer == "" {
		customer = q.Customer.Name
	}
	in := q.Inputs.WithDefaults()
	f.SetCellValue(sheetName, "A2", sanitizeExcelCell("Customer: "+customer))
	f.SetCellValue(sheetName, "A3", fmt.Sprintf("Duration: %d days x %d hrs/day", in.NumberOfDays, in.WorkingHoursPerDay))

	// ── Line Rows ───────────────────────────────────────────────────────

	headers := []string{"#", "Equipment", "Capacity", "Tier", "Qty", "Base Rate", "Rate / hr", "Line / hr", "Working Cost"}
	for i, h := range headers {
		f.SetCellValue(sheetName, columns[i]+"5", h)
	}
	f.SetCellStyle(sheetName, "A5", lastCol+"5", headerStyle)

	row := 6
	for _, l := range doc.Totals.Lines {
		r := fmt.Sprint(row)
		name := l.Name
		if name == "" {
			name = l.EquipmentRef
		}
		tier := l.Tier.Label()
		if l.FellBack {
			tier += " (via " + string(l.RateTier) + ")"
		}
		f.SetCellValue(sheetName, "A"+r, l.Index+1)
		f.SetCellValue(sheetName, "B"+r, sanitizeExcelCell(name))
		f.SetCellValue(sheetName, "C"+r, sanitizeExcelCell(l.Capacity))
		f.SetCellValue(sheetName, "D"+r, tier)
		f.SetCellValue(sheetName, "E"+r, l.Quantity)
		f.SetCellValue(sheetName, "F"+r, l.BaseRate)
		f.SetCellValue(sheetName, "G"+r, l.HourlyRate)
		f.SetCellValue(sheetName, "H"+r, l.LineHourlyTotal)
		f.SetCellValue(sheetName, "I"+r, l.WorkingCost)

		style := bodyStyle
		if l.NeedsManualRate {
			style = manualStyle
		}
		f.SetCellStyle(sheetName, "A"+r, lastCol+r, style)
		row++
	}

	// ── Aggregation Steps ───────────────────────────────────────────────

	row++
	b := doc.Totals
	steps := []struct {
		label string
		value float64
	}{
		{"Base Rate / hr", b.BaseRatePerHour},
		{"Total Rent", b.TotalRent},
		{"Mob / Demob", b.MobDemobCost},
		{"Food", b.FoodCost},
		{"Accommodation", b.AccomCost},
		{"Extra Charges", b.ExtraCharge},
		{"Risk Multiplier", b.RiskMultiplier},
		{"Subtotal", b.Subtotal},
		{fmt.Sprintf("GST (%g%%)", b.TaxRate*100), b.TaxAmount},
		{"Total", b.TotalCost},
		{"Discount", doc.Payable.Discount},
		{"Round Off", doc.Payable.RoundOff},
		{"Payable", doc.Payable.Payable},
	}
	for _, s := range steps {
		r := fmt.Sprint(row)
		f.SetCellValue(sheetName, "H"+r, s.label)
		f.SetCellStyle(sheetName, "H"+r, "H"+r, labelStyle)
		f.SetCellValue(sheetName, "I"+r, s.value)
		f.SetCellStyle(sheetName, "I"+r, "I"+r, amountStyle)
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

// thinBorders returns a slice of excelize.Border for thin borders on all four sides.
func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
