package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"cranequote/services"
)

// HandleTemplateTokens lists the placeholders a template uses, in order of
// first appearance, including those inside the equipment row.
func HandleTemplateTokens(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.PathValue("id")
		tpl, err := services.LoadTemplate(app, id)
		if err != nil {
			log.Printf("templates: %v", err)
			if errors.Is(err, services.ErrNotFound) {
				return e.JSON(http.StatusNotFound, map[string]string{"error": "template not found"})
			}
			return e.JSON(assembleErrorStatus(err), map[string]string{"error": err.Error()})
		}
		tokens, err := services.TemplateTokens(tpl)
		if err != nil {
			return e.JSON(http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		}
		return e.JSON(http.StatusOK, map[string]any{
			"id":     tpl.ID,
			"name":   tpl.Name,
			"tokens": tokens,
		})
	}
}
