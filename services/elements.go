package services

import (
	"fmt"
	"slices"
	"strings"
)

// ElementType identifies the payload carried by an Element.
type ElementType string

const (
	ElementHeader    ElementType = "header"
	ElementText      ElementType = "text"
	ElementTable     ElementType = "table"
	ElementTotals    ElementType = "totals"
	ElementTerms     ElementType = "terms"
	ElementSignature ElementType = "signature"
	ElementSpacer    ElementType = "spacer"
	ElementImage     ElementType = "image"
)

type HeaderContent struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle,omitempty"`
	ShowLogo bool   `json:"showLogo,omitempty"`
}

type TextContent struct {
	Text  string `json:"text"`
	Align string `json:"align,omitempty"`
	Bold  bool   `json:"bold,omitempty"`
}

// TableColumn maps a column heading to an item field (e.g. "name", "rate").
type TableColumn struct {
	Label string `json:"label"`
	Field string `json:"field"`
	Align string `json:"align,omitempty"`
}

type TableContent struct {
	Columns []TableColumn `json:"columns"`
}

// TotalsContent lists the totals.* fields to show, in order.
type TotalsContent struct {
	Rows []TableColumn `json:"rows"`
}

type TermsContent struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}

type SignatureContent struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

type SpacerContent struct {
	Height int `json:"height"`
}

type ImageContent struct {
	Src   string `json:"src"`
	Alt   string `json:"alt,omitempty"`
	Width int    `json:"width,omitempty"`
}

// Element is one block placed by the visual template builder. Exactly one
// payload, the one matching Type, is set.
type Element struct {
	ID        string            `json:"id"`
	Type      ElementType       `json:"elementType"`
	Header    *HeaderContent    `json:"header,omitempty"`
	Text      *TextContent      `json:"text,omitempty"`
	Table     *TableContent     `json:"table,omitempty"`
	Totals    *TotalsContent    `json:"totals,omitempty"`
	Terms     *TermsContent     `json:"terms,omitempty"`
	Signature *SignatureContent `json:"signature,omitempty"`
	Spacer    *SpacerContent    `json:"spacer,omitempty"`
	Image     *ImageContent     `json:"image,omitempty"`
}

// elementTypes fixes the order payloads are checked in.
var elementTypes = []ElementType{
	ElementHeader, ElementText, ElementTable, ElementTotals,
	ElementTerms, ElementSignature, ElementSpacer, ElementImage,
}

func (e Element) hasPayload(t ElementType) bool {
	switch t {
	case ElementHeader:
		return e.Header != nil
	case ElementText:
		return e.Text != nil
	case ElementTable:
		return e.Table != nil
	case ElementTotals:
		return e.Totals != nil
	case ElementTerms:
		return e.Terms != nil
	case ElementSignature:
		return e.Signature != nil
	case ElementSpacer:
		return e.Spacer != nil
	case ElementImage:
		return e.Image != nil
	}
	return false
}

// Validate checks that the element carries exactly the payload named by Type.
// Stray payloads are reported in elementTypes order.
func (e Element) Validate() error {
	if !slices.Contains(elementTypes, e.Type) {
		return fmt.Errorf("element %q: unknown element type %q", e.ID, e.Type)
	}
	if !e.hasPayload(e.Type) {
		return fmt.Errorf("element %q: missing %s content", e.ID, e.Type)
	}
	for _, typ := range elementTypes {
		if typ != e.Type && e.hasPayload(typ) {
			return fmt.Errorf("element %q: unexpected %s content on %s element", e.ID, typ, e.Type)
		}
	}
	return nil
}

// RenderElements converts builder elements into template markup and the
// equipment row fragment. The row fragment comes from the first table
// element; without one the default row is used.
func RenderElements(elements []Element) (content, row string, err error) {
	var b strings.Builder
	for _, el := range elements {
		if err := el.Validate(); err != nil {
			return "", "", err
		}
		switch el.Type {
		case ElementHeader:
			h := el.Header
			b.WriteString(`<div class="header">`)
			if h.ShowLogo {
				b.WriteString(`<img class="logo" src="{{company.logoUrl}}" alt="{{company.name}}">`)
			}
			fmt.Fprintf(&b, "<h1>%s</h1>", h.Title)
			if h.Subtitle != "" {
				fmt.Fprintf(&b, `<div class="muted">%s</div>`, h.Subtitle)
			}
			b.WriteString("</div>\n")
		case ElementText:
			t := el.Text
			text := t.Text
			if t.Bold {
				text = "<strong>" + text + "</strong>"
			}
			fmt.Fprintf(&b, `<p style="text-align:%s">%s</p>`+"\n", alignOrDefault(t.Align, "left"), text)
		case ElementTable:
			b.WriteString(`<table class="items"><thead><tr>`)
			var r strings.Builder
			r.WriteString("<tr>")
			for _, c := range el.Table.Columns {
				fmt.Fprintf(&b, "<th>%s</th>", c.Label)
				fmt.Fprintf(&r, `<td style="text-align:%s">{{item.%s}}</td>`, alignOrDefault(c.Align, "left"), c.Field)
			}
			r.WriteString("</tr>")
			b.WriteString("</tr></thead><tbody>{{items.table}}</tbody></table>\n")
			if row == "" {
				row = r.String()
			}
		case ElementTotals:
			b.WriteString(`<table class="totals">`)
			for _, r := range el.Totals.Rows {
				fmt.Fprintf(&b, `<tr><td>%s</td><td style="text-align:right">{{totals.%s}}</td></tr>`, r.Label, r.Field)
			}
			b.WriteString("</table>\n")
		case ElementTerms:
			fmt.Fprintf(&b, `<div class="terms"><strong>%s</strong><ol>`, el.Terms.Title)
			for _, item := range el.Terms.Items {
				fmt.Fprintf(&b, "<li>%s</li>", item)
			}
			b.WriteString("</ol></div>\n")
		case ElementSignature:
			fmt.Fprintf(&b, `<table class="signature"><tr><td>%s</td><td style="text-align:right">%s</td></tr></table>`+"\n",
				el.Signature.Left, el.Signature.Right)
		case ElementSpacer:
			fmt.Fprintf(&b, `<div style="height:%dpx"></div>`+"\n", el.Spacer.Height)
		case ElementImage:
			img := el.Image
			if img.Width > 0 {
				fmt.Fprintf(&b, `<img src="%s" alt="%s" width="%d">`+"\n", img.Src, img.Alt, img.Width)
			} else {
				fmt.Fprintf(&b, `<img src="%s" alt="%s">`+"\n", img.Src, img.Alt)
			}
		}
	}
	if row == "" {
		row = DefaultRowTemplate
	}
	return b.String(), row, nil
}

func alignOrDefault(align, def string) string {
	switch align {
	case "left", "center", "right":
		return align
	}
	return def
}
