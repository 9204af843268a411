package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"cranequote/services"
)

// quoteRequest is the body of POST /api/quote. Template takes precedence over
// TemplateID; with neither the default template is used.
type quoteRequest struct {
	Quotation  services.Quotation `json:"quotation"`
	TemplateID string             `json:"templateId"`
	Template   *services.Template `json:"template"`
}

// HandleQuoteAPI prices and renders an unsaved quotation against the stored
// rate table. Nothing is persisted.
func HandleQuoteAPI(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var req quoteRequest
		if err := json.NewDecoder(e.Request.Body).Decode(&req); err != nil {
			return e.JSON(http.StatusBadRequest, map[string]string{"error": "invalid JSON body: " + err.Error()})
		}

		tpl := services.DefaultTemplate()
		switch {
		case req.Template != nil:
			tpl = *req.Template
		case req.TemplateID != "":
			loaded, err := services.LoadTemplate(app, req.TemplateID)
			if err != nil {
				if errors.Is(err, services.ErrNotFound) {
					return e.JSON(http.StatusNotFound, map[string]string{"error": "template not found"})
				}
				log.Printf("quote_api: %v", err)
				return e.JSON(assembleErrorStatus(err), map[string]string{"error": err.Error()})
			}
			tpl = loaded
		}

		if req.Quotation.Company.Name == "" {
			req.Quotation.Company = services.LoadCompany(app)
		}

		table, err := services.LoadRateTable(app)
		if err != nil {
			log.Printf("quote_api: %v", err)
			return e.JSON(http.StatusInternalServerError, map[string]string{"error": "could not load rates"})
		}

		doc, err := services.Assemble(table, req.Quotation, tpl)
		if err != nil {
			status := assembleErrorStatus(err)
			if status == http.StatusInternalServerError {
				log.Printf("quote_api: %v", err)
				return e.JSON(status, map[string]string{"error": "could not price quotation"})
			}
			return e.JSON(status, errorBody(err))
		}
		return e.JSON(http.StatusOK, doc)
	}
}
