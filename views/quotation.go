// Package views holds the HTML components served by the quotation handlers.
package views

import (
	"fmt"
	"net/url"

	"github.com/a-h/templ"
)

// PreviewData is what the preview page shows around the merged document.
type PreviewData struct {
	QuotationID     string
	Number          string
	TemplateID      string
	Templates       []TemplateOption
	HTML            string
	MissingTokens   []string
	ManualRateLines []ManualRateLine
	Payable         string
}

// TemplateOption is one entry of the template switcher.
type TemplateOption struct {
	ID   string
	Name string
}

// ManualRateLine names a line that needs an operator-entered rate.
type ManualRateLine struct {
	Serial int
	Name   string
}

// ImportRowError is one row-level problem shown after an upload.
type ImportRowError struct {
	Row     int
	Field   string
	Message string
}

func quotationPath(id string) string {
	return "/quotations/" + url.PathEscape(id)
}

func previewPath(id string) string {
	return quotationPath(id) + "/preview"
}

func printURL(d PreviewData) templ.SafeURL {
	u := quotationPath(d.QuotationID) + "/print-dialog"
	if d.TemplateID != "" {
		u += "?template=" + url.QueryEscape(d.TemplateID)
	}
	return templ.URL(u)
}

func exportURL(id, kind string) templ.SafeURL {
	return templ.URL(quotationPath(id) + "/export/" + kind)
}

func manualRateMessage(l ManualRateLine) string {
	return fmt.Sprintf("Line %d: %s has no usable rate. Enter a rate override.", l.Serial, l.Name)
}

func placeholder(token string) string {
	return "{{" + token + "}}"
}
