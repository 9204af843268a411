package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"cranequote/services"
)

// sanitizeFilename removes characters that are unsafe for filenames.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = strings.ReplaceAll(s, "\\", "-")
	s = strings.ReplaceAll(s, ":", "-")
	return s
}

func quotationFilename(aq *assembledQuotation, ext string) string {
	base := aq.Quotation.Number
	if base == "" {
		base = "Quotation_" + aq.Quotation.ID
	}
	return fmt.Sprintf("%s.%s", sanitizeFilename(base), ext)
}

// HandleQuotationExportPDF returns a handler that generates and downloads a
// PDF for a quotation.
func HandleQuotationExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return e.String(http.StatusBadRequest, "Missing quotation ID")
		}

		aq, err := assembleQuotation(app, id, "")
		if err != nil {
			return respondAssembleError(e, "quotation_export", err)
		}

		pdfBytes, err := services.GenerateQuotationPDF(aq.Quotation, aq.Doc)
		if err != nil {
			log.Printf("quotation_export: failed to generate PDF: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate PDF")
		}

		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, quotationFilename(aq, "pdf")))
		e.Response.Write(pdfBytes)
		return nil
	}
}

// HandleQuotationExportExcel returns a handler that downloads the cost sheet
// behind a quotation.
func HandleQuotationExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return e.String(http.StatusBadRequest, "Missing quotation ID")
		}

		aq, err := assembleQuotation(app, id, "")
		if err != nil {
			return respondAssembleError(e, "quotation_export", err)
		}

		xlsxBytes, err := services.GenerateQuotationExcel(aq.Quotation, aq.Doc)
		if err != nil {
			log.Printf("quotation_export: failed to generate Excel: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate Excel file")
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, quotationFilename(aq, "xlsx")))
		e.Response.Write(xlsxBytes)
		return nil
	}
}
