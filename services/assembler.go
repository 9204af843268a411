package services

import (
	"fmt"
	"strings"
)

// AssembledDocument is the rendered quotation plus its diagnostics.
type AssembledDocument struct {
	HTML            string         `json:"html"`
	Totals          *CostBreakdown `json:"totals"`
	Payable         PayableSummary `json:"payable"`
	MissingTokens   []string       `json:"missingTokens"`
	ManualRateLines []int          `json:"manualRateLines"`
	Data            DocumentData   `json:"-"`
}

// Assemble prices the quotation and merges it into tpl. It reads the rate
// table but never modifies it or the quotation, so the same inputs always
// produce the same HTML. Validation errors are returned before any rendering.
func Assemble(table RateTable, q Quotation, tpl Template) (*AssembledDocument, error) {
	return DefaultPricingConfig().Assemble(table, q, tpl)
}

// Assemble is the configurable form of the package-level Assemble.
func (c PricingConfig) Assemble(table RateTable, q Quotation, tpl Template) (*AssembledDocument, error) {
	content, rowTemplate, err := tpl.resolve()
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidTemplate, tpl.ID, err)
	}

	if err := q.validateCharges(); err != nil {
		return nil, err
	}
	costs, err := c.ComputeCosts(table, q.Lines, q.pricingInputs())
	if err != nil {
		return nil, err
	}

	data := BuildDocumentData(q, costs)
	rows, rowMissing := expandRows(rowTemplate, data, len(costs.Lines))
	data.Set("items.table", rows)

	result := Merge(content, data)
	return &AssembledDocument{
		HTML:            result.HTML,
		Totals:          costs,
		Payable:         ApplyDiscount(costs, q.Discount),
		MissingTokens:   appendUnique(rowMissing, result.MissingTokens),
		ManualRateLines: costs.ManualRateLines(),
		Data:            data,
	}, nil
}

// expandRows merges the row fragment once per item, exposing the row as both
// item.* and equipment.* on top of the full document data.
func expandRows(rowTemplate string, data DocumentData, count int) (string, []string) {
	items, _ := data["items"].(map[string]any)
	var b strings.Builder
	var missing []string
	for i := 0; i < count; i++ {
		row := items[fmt.Sprint(i)]
		scoped := make(DocumentData, len(data)+2)
		for k, v := range data {
			scoped[k] = v
		}
		scoped["item"] = row
		scoped["equipment"] = row
		res := Merge(rowTemplate, scoped)
		b.WriteString(res.HTML)
		missing = appendUnique(missing, res.MissingTokens)
	}
	return b.String(), missing
}

func appendUnique(dst []string, src []string) []string {
	if dst == nil {
		dst = []string{}
	}
	seen := make(map[string]bool, len(dst))
	for _, s := range dst {
		seen[s] = true
	}
	for _, s := range src {
		if !seen[s] {
			seen[s] = true
			dst = append(dst, s)
		}
	}
	return dst
}
