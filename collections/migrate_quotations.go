package collections

import (
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase"

	"cranequote/services"
)

// MigrateUnnumberedQuotations gives every quotation without a number the next
// number of the fiscal year it was dated in, oldest first.
// Safe to call on every startup -- returns early if nothing to migrate.
func MigrateUnnumberedQuotations(app *pocketbase.PocketBase) error {
	quotationsCol, err := app.FindCollectionByNameOrId("quotations")
	if err != nil {
		return fmt.Errorf("migrate: could not find quotations collection: %w", err)
	}

	unnumbered, err := app.FindRecordsByFilter(
		quotationsCol,
		"quotation_number = ''",
		"created",
		0,
		0,
		nil,
	)
	if err != nil {
		return fmt.Errorf("migrate: could not query unnumbered quotations: %w", err)
	}

	if len(unnumbered) == 0 {
		return nil
	}

	log.Printf("migrate: found %d quotation(s) without a number -- assigning...\n", len(unnumbered))

	for _, q := range unnumbered {
		dated := q.GetDateTime("created").Time()
		if d, err := time.Parse("2006-01-02", q.GetString("quotation_date")); err == nil {
			dated = d
		}

		if _, err := services.AssignQuotationNumber(app, q, dated); err != nil {
			log.Printf("migrate: failed to number quotation %s: %v\n", q.Id, err)
			continue
		}
		if err := app.Save(q); err != nil {
			log.Printf("migrate: failed to save quotation %s: %v\n", q.Id, err)
			continue
		}

		log.Printf("migrate: quotation %s -> %s\n", q.Id, q.GetString("quotation_number"))
	}

	log.Println("migrate: quotation numbering complete.")
	return nil
}
