package services_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pocketbase/pocketbase/core"

	"cranequote/services"
	"cranequote/testhelpers"
)

func TestLoadRateTable(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	eq := testhelpers.CreateTestEquipment(t, app, "Tadano GR-500", 600, 500, 0, 0)
	testhelpers.CreateTestEquipment(t, app, "ACE 14XW", 1200, 1050, 210000, 2300000)

	table, err := services.LoadRateTable(app)
	if err != nil {
		t.Fatalf("LoadRateTable() error: %v", err)
	}
	if len(table) != 2 {
		t.Fatalf("len(table) = %d, want 2", len(table))
	}
	got, ok := table.Lookup(eq.Id)
	if !ok {
		t.Fatal("equipment should be keyed by record ID")
	}
	if got.Name != "Tadano GR-500" || got.Capacity != "50 Ton" {
		t.Errorf("equipment = %+v", got)
	}
	want := services.BaseRates{Micro: 600, Small: 500}
	if got.BaseRates != want {
		t.Errorf("BaseRates = %+v, want %+v", got.BaseRates, want)
	}
}

func TestLoadCompany_DefaultsWhenUnset(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	got := services.LoadCompany(app)
	if got != services.DefaultCompany() {
		t.Errorf("LoadCompany() = %+v, want default", got)
	}
}

func TestLoadCompany_ReturnsConfiguredProfile(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	col, err := app.FindCollectionByNameOrId("company_settings")
	if err != nil {
		t.Fatalf("failed to find company_settings collection: %v", err)
	}
	rec := core.NewRecord(col)
	rec.Set("name", "Configured Cranes Pvt Ltd")
	rec.Set("gstin", "27AAACC0000C1Z1")
	rec.Set("bank_details", "HDFC Bank, A/c 001122")
	if err := app.Save(rec); err != nil {
		t.Fatalf("failed to save company settings: %v", err)
	}

	got := services.LoadCompany(app)
	if got.Name != "Configured Cranes Pvt Ltd" {
		t.Errorf("Name = %q, want configured name", got.Name)
	}
	if got.GSTIN != "27AAACC0000C1Z1" || got.BankDetails != "HDFC Bank, A/c 001122" {
		t.Errorf("LoadCompany() = %+v", got)
	}
}

func TestLoadQuotation(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	eq1 := testhelpers.CreateTestEquipment(t, app, "Tadano GR-500", 600, 500, 0, 0)
	eq2 := testhelpers.CreateTestEquipment(t, app, "ACE 14XW", 1200, 1050, 0, 0)
	q := testhelpers.CreateTestQuotation(t, app, "Deshmukh Infra", 20)
	q.Set("accommodation_mode", "provider")
	q.Set("risk_factor", "very_high")
	q.Set("rigger_charge", 12000)
	q.Set("discount", 500)
	if err := app.Save(q); err != nil {
		t.Fatalf("failed to update quotation: %v", err)
	}
	// Saved out of order to check sort_order is honoured.
	testhelpers.CreateTestQuotationLine(t, app, q.Id, eq2.Id, 2, 1, 900)
	testhelpers.CreateTestQuotationLine(t, app, q.Id, eq1.Id, 1, 2, -1)

	got, err := services.LoadQuotation(app, q.Id)
	if err != nil {
		t.Fatalf("LoadQuotation() error: %v", err)
	}
	if got.Customer.Company != "Deshmukh Infra Pvt Ltd" {
		t.Errorf("Customer.Company = %q", got.Customer.Company)
	}
	if got.Inputs.NumberOfDays != 20 || got.Inputs.WorkingHoursPerDay != 8 {
		t.Errorf("Inputs = %+v", got.Inputs)
	}
	if got.Inputs.AccommodationResourceMode != services.ResourceProvider {
		t.Errorf("AccommodationResourceMode = %q, want provider", got.Inputs.AccommodationResourceMode)
	}
	if got.Inputs.RiskFactor != services.RiskVeryHigh {
		t.Errorf("RiskFactor = %q, want very_high", got.Inputs.RiskFactor)
	}
	if got.Charges.Rigger != 12000 || got.Discount != 500 {
		t.Errorf("Charges = %+v, Discount = %v", got.Charges, got.Discount)
	}
	if got.Company.Name != services.DefaultCompany().Name {
		t.Errorf("Company.Name = %q, want default", got.Company.Name)
	}

	if len(got.Lines) != 2 {
		t.Fatalf("len(Lines) = %d, want 2", len(got.Lines))
	}
	first, second := got.Lines[0], got.Lines[1]
	if first.EquipmentRef != eq1.Id || first.Quantity != 2 || first.RateOverride != nil {
		t.Errorf("first line = %+v", first)
	}
	if second.EquipmentRef != eq2.Id || second.RateOverride == nil || *second.RateOverride != 900 {
		t.Errorf("second line = %+v", second)
	}
}

func TestLoadQuotation_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	_, err := services.LoadQuotation(app, "doesnotexist123")
	if !errors.Is(err, services.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestLoadTemplate(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	t.Run("builtin_default_when_none_flagged", func(t *testing.T) {
		tpl, err := services.LoadTemplate(app, "")
		if err != nil {
			t.Fatalf("LoadTemplate() error: %v", err)
		}
		if tpl.Content != services.DefaultTemplate().Content {
			t.Error("expected the built-in default template")
		}
	})

	flagged := testhelpers.CreateTestTemplate(t, app, "House Style", "<p>{{company.name}}</p>", true)
	other := testhelpers.CreateTestTemplate(t, app, "Other", "<p>{{customer.name}}</p>", false)

	t.Run("flagged_default", func(t *testing.T) {
		tpl, err := services.LoadTemplate(app, "")
		if err != nil {
			t.Fatalf("LoadTemplate() error: %v", err)
		}
		if tpl.ID != flagged.Id {
			t.Errorf("ID = %q, want %q", tpl.ID, flagged.Id)
		}
	})

	t.Run("by_id", func(t *testing.T) {
		tpl, err := services.LoadTemplate(app, other.Id)
		if err != nil {
			t.Fatalf("LoadTemplate() error: %v", err)
		}
		if tpl.Name != "Other" || tpl.Content != "<p>{{customer.name}}</p>" {
			t.Errorf("template = %+v", tpl)
		}
	})

	t.Run("unknown_id", func(t *testing.T) {
		if _, err := services.LoadTemplate(app, "doesnotexist123"); !errors.Is(err, services.ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("elements", func(t *testing.T) {
		rec := testhelpers.CreateTestTemplate(t, app, "Builder", "", false)
		rec.Set("elements", `[{"id":"t1","elementType":"text","text":{"text":"{{customer.name}}"}}]`)
		if err := app.Save(rec); err != nil {
			t.Fatalf("failed to save elements: %v", err)
		}
		tpl, err := services.LoadTemplate(app, rec.Id)
		if err != nil {
			t.Fatalf("LoadTemplate() error: %v", err)
		}
		if len(tpl.Elements) != 1 || tpl.Elements[0].Text == nil {
			t.Fatalf("Elements = %+v", tpl.Elements)
		}
		tokens, err := services.TemplateTokens(tpl)
		if err != nil {
			t.Fatalf("TemplateTokens() error: %v", err)
		}
		if len(tokens) == 0 || tokens[0] != "customer.name" {
			t.Errorf("tokens = %v", tokens)
		}
	})
}

func TestGenerateQuotationNumber(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	now := time.Date(2025, time.November, 3, 10, 0, 0, 0, time.UTC)

	first, err := services.GenerateQuotationNumber(app, now)
	if err != nil {
		t.Fatalf("GenerateQuotationNumber() error: %v", err)
	}
	if first != "ASP-Q-25-26-001" {
		t.Errorf("first number = %q, want ASP-Q-25-26-001", first)
	}

	q := testhelpers.CreateTestQuotation(t, app, "Deshmukh Infra", 5)
	q.Set("quotation_number", first)
	if err := app.Save(q); err != nil {
		t.Fatalf("failed to save numbered quotation: %v", err)
	}

	next, err := services.GenerateQuotationNumber(app, now)
	if err != nil {
		t.Fatalf("GenerateQuotationNumber() error: %v", err)
	}
	if next != "ASP-Q-25-26-002" {
		t.Errorf("next number = %q, want ASP-Q-25-26-002", next)
	}

	newYear, err := services.GenerateQuotationNumber(app, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GenerateQuotationNumber() error: %v", err)
	}
	if newYear != "ASP-Q-26-27-001" {
		t.Errorf("new fiscal year number = %q, want ASP-Q-26-27-001", newYear)
	}
}

func TestAssignQuotationNumber(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	now := time.Date(2025, time.November, 3, 10, 0, 0, 0, time.UTC)
	q := testhelpers.CreateTestQuotation(t, app, "Deshmukh Infra", 5)

	changed, err := services.AssignQuotationNumber(app, q, now)
	if err != nil {
		t.Fatalf("AssignQuotationNumber() error: %v", err)
	}
	if !changed {
		t.Fatal("expected the record to change")
	}
	if got := q.GetString("quotation_number"); got != "ASP-Q-25-26-001" {
		t.Errorf("quotation_number = %q", got)
	}
	if got := q.GetString("quotation_date"); got != "2025-11-03" {
		t.Errorf("quotation_date = %q, want 2025-11-03", got)
	}

	changed, err = services.AssignQuotationNumber(app, q, now)
	if err != nil || changed {
		t.Errorf("second call changed = %v, err = %v; want unchanged", changed, err)
	}
}

func TestImportRates(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	existing := testhelpers.CreateTestEquipment(t, app, "Tadano GR-500", 600, 500, 0, 0)

	csv := "Equipment Name,Category,Micro Rate (per hr),Small Rate (per hr),Monthly Rate\n" +
		"tadano gr-500,,650,550,120000\n" +
		"Escorts F15,pick_and_carry,1100,950,185000\n"
	res, err := services.ParseRateSheet(strings.NewReader(csv), "rates.csv")
	if err != nil {
		t.Fatalf("ParseRateSheet() error: %v", err)
	}
	if err := services.ImportRates(app, res); err != nil {
		t.Fatalf("ImportRates() error: %v", err)
	}
	if res.Created != 1 || res.Updated != 1 {
		t.Errorf("Created = %d, Updated = %d, want 1 and 1", res.Created, res.Updated)
	}

	updated, err := app.FindRecordById("equipment", existing.Id)
	if err != nil {
		t.Fatalf("failed to reload equipment: %v", err)
	}
	if updated.GetFloat("micro_rate") != 650 || updated.GetFloat("monthly_rate") != 120000 {
		t.Errorf("rates not updated: micro %v monthly %v", updated.GetFloat("micro_rate"), updated.GetFloat("monthly_rate"))
	}
	if updated.GetString("capacity") != "50 Ton" {
		t.Errorf("blank capacity should not clear the stored value, got %q", updated.GetString("capacity"))
	}

	table, err := services.LoadRateTable(app)
	if err != nil {
		t.Fatalf("LoadRateTable() error: %v", err)
	}
	if len(table) != 2 {
		t.Errorf("len(table) = %d, want 2", len(table))
	}
}

func TestImportRates_RefusesSheetWithErrors(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	csv := "Equipment Name,Micro Rate (per hr)\nGood Crane,100\nBad Crane,-1\n"
	res, err := services.ParseRateSheet(strings.NewReader(csv), "rates.csv")
	if err != nil {
		t.Fatalf("ParseRateSheet() error: %v", err)
	}
	if err := services.ImportRates(app, res); err == nil {
		t.Fatal("expected ImportRates to refuse a sheet with errors")
	}
	table, _ := services.LoadRateTable(app)
	if len(table) != 0 {
		t.Errorf("len(table) = %d, want nothing imported", len(table))
	}
}
