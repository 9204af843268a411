package main

import (
	"log"
	"net/http"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"cranequote/collections"
	"cranequote/commands"
	"cranequote/handlers"
)

func main() {
	app := pocketbase.New()

	app.RootCmd.AddCommand(commands.NewQuoteCommand())

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.MigrateUnnumberedQuotations(app); err != nil {
			log.Printf("Warning: quotation numbering migration failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		// ── Quotations ───────────────────────────────────────────
		se.Router.GET("/quotations/{id}/preview", handlers.HandleQuotationPreview(app))
		se.Router.GET("/quotations/{id}/print", handlers.HandleQuotationPrint(app))
		se.Router.GET("/quotations/{id}/print-dialog", handlers.HandleQuotationBrowserPrint(app))
		se.Router.GET("/quotations/{id}/totals", handlers.HandleQuotationTotals(app))
		se.Router.POST("/quotations/{id}/number", handlers.HandleQuotationAssignNumber(app))
		se.Router.GET("/quotations/{id}/export/pdf", handlers.HandleQuotationExportPDF(app))
		se.Router.GET("/quotations/{id}/export/excel", handlers.HandleQuotationExportExcel(app))

		// ── Stateless pricing ────────────────────────────────────
		se.Router.POST("/api/quote", handlers.HandleQuoteAPI(app))

		// ── Equipment rates ──────────────────────────────────────
		se.Router.GET("/equipment/rates/template", handlers.HandleRateTemplateDownload())
		se.Router.POST("/equipment/rates/import", handlers.HandleRateImport(app))

		// ── Templates ────────────────────────────────────────────
		se.Router.GET("/templates/{id}/tokens", handlers.HandleTemplateTokens(app))

		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/_/")
		})

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
