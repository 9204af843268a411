package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"cranequote/services"
	"cranequote/views"
)

// assembledQuotation bundles everything a quotation handler renders from.
type assembledQuotation struct {
	Quotation services.Quotation
	Template  services.Template
	Doc       *services.AssembledDocument
}

// assembleQuotation loads a stored quotation and renders it with the template
// named by templateID, else the quotation's own template, else the default.
func assembleQuotation(app *pocketbase.PocketBase, id, templateID string) (*assembledQuotation, error) {
	q, err := services.LoadQuotation(app, id)
	if err != nil {
		return nil, err
	}
	if templateID == "" {
		templateID = q.TemplateID
	}
	tpl, err := services.LoadTemplate(app, templateID)
	if err != nil {
		return nil, err
	}
	table, err := services.LoadRateTable(app)
	if err != nil {
		return nil, err
	}
	doc, err := services.Assemble(table, q, tpl)
	if err != nil {
		return nil, err
	}
	return &assembledQuotation{Quotation: q, Template: tpl, Doc: doc}, nil
}

// assembleErrorStatus maps an assembly error to its HTTP status.
func assembleErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidTemplate):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// respondAssembleError reports invalid input and broken templates as toasts,
// a missing quotation or template as 404 and anything else as 500.
func respondAssembleError(e *core.RequestEvent, component string, err error) error {
	log.Printf("%s: %v", component, err)
	switch status := assembleErrorStatus(err); status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrorToast(e, status, err.Error())
	case http.StatusNotFound:
		return e.String(status, "Quotation or template not found")
	default:
		return e.String(status, "Could not render quotation")
	}
}

// HandleQuotationPreview returns a handler that renders the merged quotation
// with its missing placeholders and manual-rate warnings.
func HandleQuotationPreview(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return e.String(http.StatusBadRequest, "Missing quotation ID")
		}

		aq, err := assembleQuotation(app, id, e.Request.URL.Query().Get("template"))
		if err != nil {
			return respondAssembleError(e, "quotation_preview", err)
		}

		data := views.PreviewData{
			QuotationID:   id,
			Number:        aq.Quotation.Number,
			TemplateID:    aq.Template.ID,
			Templates:     templateOptions(app),
			HTML:          aq.Doc.HTML,
			MissingTokens: aq.Doc.MissingTokens,
			Payable:       services.FormatINRRounded(aq.Doc.Payable.Payable),
		}
		for _, idx := range aq.Doc.ManualRateLines {
			l := aq.Doc.Totals.Lines[idx]
			name := l.Name
			if name == "" {
				name = l.EquipmentRef
			}
			data.ManualRateLines = append(data.ManualRateLines, views.ManualRateLine{Serial: idx + 1, Name: name})
		}

		var component templ.Component
		if e.Request.Header.Get("HX-Request") == "true" {
			component = views.QuotationPreviewContent(data)
		} else {
			component = views.QuotationPreviewPage(data)
		}
		return component.Render(e.Request.Context(), e.Response)
	}
}

// HandleQuotationPrint returns a handler that serves the merged document
// byte for byte, for an external HTML-to-PDF renderer.
func HandleQuotationPrint(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return e.String(http.StatusBadRequest, "Missing quotation ID")
		}
		aq, err := assembleQuotation(app, id, e.Request.URL.Query().Get("template"))
		if err != nil {
			return respondAssembleError(e, "quotation_print", err)
		}
		return e.HTML(http.StatusOK, aq.Doc.HTML)
	}
}

// HandleQuotationBrowserPrint returns a handler that wraps the merged
// document in a page that opens the browser's print dialog.
func HandleQuotationBrowserPrint(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return e.String(http.StatusBadRequest, "Missing quotation ID")
		}
		aq, err := assembleQuotation(app, id, e.Request.URL.Query().Get("template"))
		if err != nil {
			return respondAssembleError(e, "quotation_print", err)
		}
		return views.QuotationPrintPage(aq.Quotation.Number, aq.Doc.HTML).Render(e.Request.Context(), e.Response)
	}
}

// HandleQuotationTotals returns the cost breakdown and payable summary as JSON.
func HandleQuotationTotals(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		if id == "" {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "missing quotation ID"})
		}
		aq, err := assembleQuotation(app, id, "")
		if err != nil {
			status := assembleErrorStatus(err)
			if status == http.StatusInternalServerError {
				log.Printf("quotation_totals: %v", err)
				return e.JSON(status, map[string]string{"error": "could not price quotation"})
			}
			return e.JSON(status, errorBody(err))
		}
		return e.JSON(http.StatusOK, map[string]any{
			"totals":          aq.Doc.Totals,
			"payable":         aq.Doc.Payable,
			"manualRateLines": aq.Doc.ManualRateLines,
		})
	}
}

// HandleQuotationAssignNumber returns a handler that stamps the next
// fiscal-year quotation number on a draft that has none.
func HandleQuotationAssignNumber(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		rec, err := app.FindRecordById("quotations", id)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Quotation not found")
		}

		changed, err := services.AssignQuotationNumber(app, rec, time.Now())
		if err != nil {
			log.Printf("quotation_number: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Could not generate quotation number")
		}
		if changed {
			if err := app.Save(rec); err != nil {
				log.Printf("quotation_number: save %s: %v", id, err)
				return ErrorToast(e, http.StatusInternalServerError, "Could not save quotation number")
			}
			SetToast(e, "success", "Quotation number "+rec.GetString("quotation_number")+" assigned")
		}
		return e.JSON(http.StatusOK, map[string]string{"number": rec.GetString("quotation_number")})
	}
}

func templateOptions(app *pocketbase.PocketBase) []views.TemplateOption {
	records, err := app.FindRecordsByFilter("quotation_templates", "1=1", "name", 0, 0, nil)
	if err != nil {
		log.Printf("quotation_preview: could not list templates: %v", err)
		return nil
	}
	opts := make([]views.TemplateOption, 0, len(records))
	for _, r := range records {
		opts = append(opts, views.TemplateOption{ID: r.Id, Name: r.GetString("name")})
	}
	return opts
}

// errorBody renders an error as JSON, including per-field messages for
// validation failures.
func errorBody(err error) map[string]any {
	body := map[string]any{"error": err.Error()}
	var inv *services.InvalidInputError
	if errors.As(err, &inv) {
		fields := map[string]string{}
		for k, v := range inv.Fields {
			fields[k] = v
		}
		if inv.Field != "" {
			fields[inv.Field] = inv.Reason
		}
		if len(fields) > 0 {
			body["fields"] = fields
		}
	}
	return body
}
