// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"cranequote/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestEquipment creates an equipment record with the given hourly
// micro/small and monthly/yearly rates.
func CreateTestEquipment(t *testing.T, app *pocketbase.PocketBase, name string, micro, small, monthly, yearly float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("equipment")
	if err != nil {
		t.Fatalf("failed to find equipment collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("capacity", "50 Ton")
	record.Set("category", "mobile_crane")
	record.Set("micro_rate", micro)
	record.Set("small_rate", small)
	record.Set("monthly_rate", monthly)
	record.Set("yearly_rate", yearly)
	record.Set("status", "available")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test equipment: %v", err)
	}

	return record
}

// CreateTestQuotation creates a quotation for a customer with the given
// rental duration, 8-hour days, client-provided food and accommodation and
// medium risk.
func CreateTestQuotation(t *testing.T, app *pocketbase.PocketBase, customer string, days int) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotations")
	if err != nil {
		t.Fatalf("failed to find quotations collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("customer_name", customer)
	record.Set("customer_company", customer+" Pvt Ltd")
	record.Set("number_of_days", days)
	record.Set("working_hours", 8)
	record.Set("site_distance_km", 0)
	record.Set("food_mode", "client")
	record.Set("accommodation_mode", "client")
	record.Set("risk_factor", "medium")
	record.Set("status", "draft")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quotation: %v", err)
	}

	return record
}

// CreateTestQuotationLine adds an equipment line to a quotation. A negative
// override leaves the line without a rate override.
func CreateTestQuotationLine(t *testing.T, app *pocketbase.PocketBase, quotationID, equipmentID string, sortOrder, qty int, override float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotation_lines")
	if err != nil {
		t.Fatalf("failed to find quotation_lines collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("quotation", quotationID)
	record.Set("equipment", equipmentID)
	record.Set("sort_order", sortOrder)
	record.Set("quantity", qty)
	if override >= 0 {
		record.Set("has_rate_override", true)
		record.Set("rate_override", override)
	}

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quotation line: %v", err)
	}

	return record
}

// CreateTestTemplate creates a quotation template with the given markup.
func CreateTestTemplate(t *testing.T, app *pocketbase.PocketBase, name, content string, isDefault bool) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotation_templates")
	if err != nil {
		t.Fatalf("failed to find quotation_templates collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("content", content)
	record.Set("is_default", isDefault)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test template: %v", err)
	}

	return record
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
