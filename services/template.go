package services

import (
	"fmt"
	"strings"
)

// Template is a quotation layout. Content holds HTML with {{tokens}};
// RowTemplate is the fragment repeated once per equipment line and inserted
// at {{items.table}}. Elements is the structured form saved by the visual
// builder and is rendered into Content when Content is empty.
type Template struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Content     string    `json:"content"`
	RowTemplate string    `json:"rowTemplate,omitempty"`
	Elements    []Element `json:"elements,omitempty"`
}

// DefaultRowTemplate is the equipment table row used when a template does not
// define its own.
const DefaultRowTemplate = `<tr>` +
	`<td class="c">{{item.serial}}</td>` +
	`<td>{{item.name}}<div class="muted">{{item.tierLabel}}</div></td>` +
	`<td class="c">{{item.capacity}}</td>` +
	`<td class="c">{{item.jobType}}</td>` +
	`<td class="c">{{item.quantity}}</td>` +
	`<td class="r">{{item.rate}}{{item.rateUnit}}</td>` +
	`<td class="c">{{item.jobDuration}}</td>` +
	`<td class="r">{{item.workingCost}}</td>` +
	`</tr>`

// Section is one block of the standard quotation layout.
type Section string

const (
	SectionStyles    Section = "styles"
	SectionHeader    Section = "header"
	SectionMeta      Section = "meta"
	SectionClient    Section = "client"
	SectionEquipment Section = "equipment"
	SectionCharges   Section = "charges"
	SectionTotals    Section = "totals"
	SectionTerms     Section = "terms"
	SectionSignature Section = "signature"
)

// DefaultSections is the section order of the standard quotation.
var DefaultSections = []Section{
	SectionStyles,
	SectionHeader,
	SectionMeta,
	SectionClient,
	SectionEquipment,
	SectionCharges,
	SectionTotals,
	SectionTerms,
	SectionSignature,
}

var sectionMarkup = map[Section]string{
	SectionStyles: `<style>
body{font-family:Arial,Helvetica,sans-serif;font-size:12px;color:#212529}
table{width:100%;border-collapse:collapse}
th,td{border:1px solid #dee2e6;padding:4px 6px}
th{background:#212529;color:#fff}
.c{text-align:center}.r{text-align:right}.muted{color:#6c757d;font-size:10px}
</style>`,
	SectionHeader: `<div class="header">
<h1>{{company.name}}</h1>
<div class="muted">{{company.address}} | {{company.phone}} | {{company.email}}</div>
<div class="muted">GSTIN: {{company.gstin}}</div>
<h2>QUOTATION</h2>
</div>`,
	SectionMeta: `<table class="meta">
<tr><td>Quotation No: {{quotation.number}}</td><td>Date: {{quotation.date}}</td><td>Valid Until: {{quotation.validUntil}}</td></tr>
</table>`,
	SectionClient: `<div class="client">
<strong>To,</strong><br>
{{customer.name}}<br>
{{customer.company}}<br>
{{customer.address}}<br>
Contact: {{customer.contactPerson}} {{customer.phone}}<br>
Site: {{quotation.siteLocation}}
</div>`,
	SectionEquipment: `<table class="items">
<thead><tr><th>S.No</th><th>Equipment</th><th>Capacity</th><th>Job Type</th><th>Qty</th><th>Rate</th><th>Duration</th><th>Working Cost</th></tr></thead>
<tbody>{{items.table}}</tbody>
</table>`,
	SectionCharges: `<table class="charges">
<tr><td>Mobilization</td><td class="r">{{charges.mobilization}}</td></tr>
<tr><td>Demobilization</td><td class="r">{{charges.demobilization}}</td></tr>
<tr><td>Food &amp; Accommodation</td><td class="r">{{charges.foodAccommodation}}</td></tr>
<tr><td>Rigger</td><td class="r">{{charges.rigger}}</td></tr>
<tr><td>Helper</td><td class="r">{{charges.helper}}</td></tr>
<tr><td>Incidental</td><td class="r">{{charges.incidental}}</td></tr>
</table>`,
	SectionTotals: `<table class="totals">
<tr><td>Subtotal (risk: {{quotation.riskFactor}})</td><td class="r">{{totals.subtotal}}</td></tr>
<tr><td>GST @ {{totals.taxRate}}</td><td class="r">{{totals.tax}}</td></tr>
<tr><td>Total</td><td class="r">{{totals.total}}</td></tr>
<tr><td>Discount</td><td class="r">{{totals.discount}}</td></tr>
<tr><td><strong>Amount Payable</strong></td><td class="r"><strong>{{totals.payable}}</strong></td></tr>
</table>
<p><em>Amount in Words: {{totals.amountInWords}}</em></p>`,
	SectionTerms: `<div class="terms">
<strong>Terms &amp; Conditions</strong>
<p>{{quotation.terms}}</p>
</div>`,
	SectionSignature: `<div class="signature">
<p>For {{company.name}}</p>
<br><br>
<p>Authorized Signatory</p>
</div>`,
}

// BuildTemplate assembles a template from an ordered section list.
func BuildTemplate(id, name string, sections []Section) (Template, error) {
	var b strings.Builder
	for _, s := range sections {
		markup, ok := sectionMarkup[s]
		if !ok {
			return Template{}, fmt.Errorf("unknown template section %q", s)
		}
		b.WriteString(markup)
		b.WriteString("\n")
	}
	return Template{
		ID:          id,
		Name:        name,
		Content:     b.String(),
		RowTemplate: DefaultRowTemplate,
	}, nil
}

// DefaultTemplate returns the standard quotation layout.
func DefaultTemplate() Template {
	tpl, err := BuildTemplate("default", "Standard Quotation", DefaultSections)
	if err != nil {
		// DefaultSections only lists known sections.
		panic(err)
	}
	return tpl
}

// resolve returns the markup and row fragment the template renders with.
func (t Template) resolve() (content, row string, err error) {
	content, row = t.Content, t.RowTemplate
	if strings.TrimSpace(content) == "" && len(t.Elements) > 0 {
		content, row, err = RenderElements(t.Elements)
		if err != nil {
			return "", "", err
		}
		if t.RowTemplate != "" {
			row = t.RowTemplate
		}
	}
	if strings.TrimSpace(content) == "" {
		def := DefaultTemplate()
		content = def.Content
		if row == "" {
			row = def.RowTemplate
		}
	}
	if row == "" {
		row = DefaultRowTemplate
	}
	return content, row, nil
}

// TemplateTokens lists the distinct placeholders used by the template and its
// row fragment, in order of first appearance. The items.table slot is left
// out since the assembler fills it.
func TemplateTokens(t Template) ([]string, error) {
	content, row, err := t.resolve()
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidTemplate, t.ID, err)
	}
	all := appendUnique(Tokens(content), Tokens(row))
	out := all[:0]
	for _, tok := range all {
		if tok != "items.table" {
			out = append(out, tok)
		}
	}
	return out, nil
}
