package collections

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"cranequote/services"
)

// ── Definition structs ───────────────────────────────────────────────────

type equipmentDef struct {
	name        string
	capacity    string
	category    string
	microRate   float64
	smallRate   float64
	monthlyRate float64
	yearlyRate  float64
}

type lineDef struct {
	equipment string // equipment name, resolved after insert
	tier      string
	quantity  int
}

var seedFleet = []equipmentDef{
	{"ACE 14XW Pick & Carry", "14 Ton", "pick_and_carry", 1200, 1050, 210000, 2300000},
	{"Escorts F15", "15 Ton", "pick_and_carry", 1100, 950, 185000, 0},
	{"Tadano GR-300EX", "30 Ton", "mobile_crane", 2500, 2200, 450000, 4800000},
	{"Liebherr LTM 1100-4.2", "100 Ton", "mobile_crane", 9000, 8000, 1750000, 19000000},
	{"Kobelco CKE900G", "90 Ton", "crawler_crane", 0, 7500, 1600000, 17500000},
	{"Potain MC 85", "5 Ton", "tower_crane", 0, 0, 350000, 3800000},
}

const seedTerms = "1. GST @ 18% extra as applicable. " +
	"2. Minimum billing of 8 hours per day, 26 working days per month. " +
	"3. Road permits and site clearances in client scope. " +
	"4. Payment: 50% advance, balance within 15 days of invoice."

// Seed inserts a crane fleet, the default quotation template, a company
// profile and one draft quotation. Safe to call on every startup -- returns
// early if any equipment records already exist.
func Seed(app *pocketbase.PocketBase) error {
	// ── idempotency: skip if equipment already exists ─────────────────
	equipmentCol, err := app.FindCollectionByNameOrId("equipment")
	if err != nil {
		return fmt.Errorf("seed: could not find equipment collection: %w", err)
	}
	existing, err := app.FindAllRecords(equipmentCol)
	if err != nil {
		return fmt.Errorf("seed: could not query equipment: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: equipment collection is empty – inserting seed data …")

	companyCol, err := app.FindCollectionByNameOrId("company_settings")
	if err != nil {
		return fmt.Errorf("seed: could not find company_settings collection: %w", err)
	}
	templatesCol, err := app.FindCollectionByNameOrId("quotation_templates")
	if err != nil {
		return fmt.Errorf("seed: could not find quotation_templates collection: %w", err)
	}
	quotationsCol, err := app.FindCollectionByNameOrId("quotations")
	if err != nil {
		return fmt.Errorf("seed: could not find quotations collection: %w", err)
	}
	linesCol, err := app.FindCollectionByNameOrId("quotation_lines")
	if err != nil {
		return fmt.Errorf("seed: could not find quotation_lines collection: %w", err)
	}

	// ── equipment ────────────────────────────────────────────────────
	equipmentIDs := make(map[string]string, len(seedFleet))
	for _, d := range seedFleet {
		rec := core.NewRecord(equipmentCol)
		rec.Set("name", d.name)
		rec.Set("capacity", d.capacity)
		rec.Set("category", d.category)
		rec.Set("micro_rate", d.microRate)
		rec.Set("small_rate", d.smallRate)
		rec.Set("monthly_rate", d.monthlyRate)
		rec.Set("yearly_rate", d.yearlyRate)
		rec.Set("status", "available")
		if err := app.Save(rec); err != nil {
			return fmt.Errorf("seed: could not save equipment %q: %w", d.name, err)
		}
		equipmentIDs[d.name] = rec.Id
	}

	// ── company profile ──────────────────────────────────────────────
	company := core.NewRecord(companyCol)
	company.Set("name", "ASP CRANES")
	company.Set("address", "Plot 12, MIDC Bhosari, Pune, Maharashtra 411026")
	company.Set("phone", "+91 20 2712 0000")
	company.Set("email", "sales@aspcranes.com")
	company.Set("website", "www.aspcranes.com")
	company.Set("gstin", "27AABCA1234F1Z5")
	if err := app.Save(company); err != nil {
		return fmt.Errorf("seed: could not save company settings: %w", err)
	}

	// ── default template ─────────────────────────────────────────────
	def := services.DefaultTemplate()
	tpl := core.NewRecord(templatesCol)
	tpl.Set("name", def.Name)
	tpl.Set("content", def.Content)
	tpl.Set("row_template", def.RowTemplate)
	tpl.Set("is_default", true)
	if err := app.Save(tpl); err != nil {
		return fmt.Errorf("seed: could not save default template: %w", err)
	}

	compact, err := compactTemplate(templatesCol)
	if err != nil {
		return err
	}
	if err := app.Save(compact); err != nil {
		return fmt.Errorf("seed: could not save compact template: %w", err)
	}

	// ── sample quotation ─────────────────────────────────────────────
	q := core.NewRecord(quotationsCol)
	q.Set("quotation_number", "ASP-Q-25-26-001")
	q.Set("quotation_date", "2025-11-03")
	q.Set("valid_until", "2025-12-03")
	q.Set("customer_name", "Rahul Deshmukh")
	q.Set("customer_company", "Deshmukh Infra Projects Pvt Ltd")
	q.Set("contact_person", "Rahul Deshmukh")
	q.Set("customer_address", "Survey No. 45, Chakan Industrial Area, Pune 410501")
	q.Set("customer_phone", "9822012345")
	q.Set("customer_email", "rahul@deshmukhinfra.in")
	q.Set("site_location", "Chakan Phase II, Pune")
	q.Set("job_type", "Structural steel erection")
	q.Set("number_of_days", 20)
	q.Set("working_hours", 8)
	q.Set("site_distance_km", 45)
	q.Set("food_mode", "client")
	q.Set("accommodation_mode", "provider")
	q.Set("risk_factor", "medium")
	q.Set("rigger_charge", 12000)
	q.Set("helper_charge", 8000)
	q.Set("terms", seedTerms)
	q.Set("template", tpl.Id)
	q.Set("status", "draft")
	if err := app.Save(q); err != nil {
		return fmt.Errorf("seed: could not save sample quotation: %w", err)
	}

	lines := []lineDef{
		{"Tadano GR-300EX", "", 1},
		{"ACE 14XW Pick & Carry", "", 2},
	}
	for i, l := range lines {
		rec := core.NewRecord(linesCol)
		rec.Set("quotation", q.Id)
		rec.Set("equipment", equipmentIDs[l.equipment])
		rec.Set("sort_order", i+1)
		rec.Set("tier", l.tier)
		rec.Set("quantity", l.quantity)
		if err := app.Save(rec); err != nil {
			return fmt.Errorf("seed: could not save quotation line %d: %w", i+1, err)
		}
	}

	log.Println("seed: done.")
	return nil
}

// compactTemplate builds a one-page template from builder elements.
func compactTemplate(col *core.Collection) (*core.Record, error) {
	elements := []services.Element{
		{ID: "hdr", Type: services.ElementHeader, Header: &services.HeaderContent{
			Title: "{{company.name}}", Subtitle: "Quotation {{quotation.number}} dated {{quotation.date}}", ShowLogo: true,
		}},
		{ID: "to", Type: services.ElementText, Text: &services.TextContent{
			Text: "Kind Attn: {{client.contactPerson}}, {{client.company}}",
		}},
		{ID: "items", Type: services.ElementTable, Table: &services.TableContent{Columns: []services.TableColumn{
			{Label: "Equipment", Field: "name"},
			{Label: "Capacity", Field: "capacity", Align: "center"},
			{Label: "Qty", Field: "quantity", Align: "center"},
			{Label: "Rate", Field: "rate", Align: "right"},
			{Label: "Amount", Field: "workingCost", Align: "right"},
		}}},
		{ID: "totals", Type: services.ElementTotals, Totals: &services.TotalsContent{Rows: []services.TableColumn{
			{Label: "Subtotal", Field: "subtotal"},
			{Label: "GST", Field: "tax"},
			{Label: "Total", Field: "total"},
		}}},
		{ID: "sign", Type: services.ElementSignature, Signature: &services.SignatureContent{
			Left: "Customer Acceptance", Right: "For {{company.name}}",
		}},
	}
	raw, err := json.Marshal(elements)
	if err != nil {
		return nil, fmt.Errorf("seed: could not encode template elements: %w", err)
	}
	rec := core.NewRecord(col)
	rec.Set("name", "Compact Quotation")
	rec.Set("elements", string(raw))
	rec.Set("is_default", false)
	return rec, nil
}
