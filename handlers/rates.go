package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"cranequote/services"
	"cranequote/views"
)

// HandleRateTemplateDownload serves an empty equipment rate sheet.
func HandleRateTemplateDownload() func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, err := services.GenerateRateTemplate()
		if err != nil {
			log.Printf("rates: failed to generate template: %v", err)
			return e.String(http.StatusInternalServerError, "Failed to generate template")
		}
		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", `attachment; filename="equipment_rates_template.xlsx"`)
		e.Response.Write(data)
		return nil
	}
}

// HandleRateImport validates an uploaded rate sheet and, when every row is
// valid, upserts it into the equipment collection.
func HandleRateImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		file, header, err := e.Request.FormFile("file")
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Please choose a .csv or .xlsx file")
		}
		defer file.Close()

		result, err := services.ParseRateSheet(file, header.Filename)
		if err != nil {
			log.Printf("rates: parse %q: %v", header.Filename, err)
			return ErrorToast(e, http.StatusBadRequest, err.Error())
		}

		status := http.StatusOK
		if len(result.Errors) == 0 {
			if err := services.ImportRates(app, result); err != nil {
				log.Printf("rates: import failed: %v", err)
				return ErrorToast(e, http.StatusInternalServerError, "Import failed")
			}
			SetToast(e, "success", "Equipment rates imported")
		} else {
			status = http.StatusUnprocessableEntity
			SetToast(e, "error", "Rate sheet has errors")
		}

		errs := make([]views.ImportRowError, 0, len(result.Errors))
		for _, ie := range result.Errors {
			errs = append(errs, views.ImportRowError{Row: ie.Row, Field: ie.Field, Message: ie.Message})
		}
		e.Response.WriteHeader(status)
		return views.RateImportSummary(result.TotalRows, result.Created, result.Updated, errs).
			Render(e.Request.Context(), e.Response)
	}
}
