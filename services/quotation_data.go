package services

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// LoadRateTable reads every equipment record into a RateTable keyed by record ID.
func LoadRateTable(app *pocketbase.PocketBase) (RateTable, error) {
	records, err := app.FindRecordsByFilter("equipment", "1=1", "name", 0, 0, nil)
	if err != nil {
		return nil, fmt.Errorf("load equipment: %w", err)
	}
	items := make([]EquipmentRate, 0, len(records))
	for _, r := range records {
		items = append(items, equipmentFromRecord(r))
	}
	return NewRateTable(items), nil
}

func equipmentFromRecord(r *core.Record) EquipmentRate {
	return EquipmentRate{
		ID:       r.Id,
		Name:     r.GetString("name"),
		Capacity: r.GetString("capacity"),
		BaseRates: BaseRates{
			Micro:   r.GetFloat("micro_rate"),
			Small:   r.GetFloat("small_rate"),
			Monthly: r.GetFloat("monthly_rate"),
			Yearly:  r.GetFloat("yearly_rate"),
		},
	}
}

// LoadCompany returns the first company_settings record, or DefaultCompany
// when none has been configured.
func LoadCompany(app *pocketbase.PocketBase) Company {
	records, err := app.FindRecordsByFilter("company_settings", "1=1", "created", 1, 0, nil)
	if err != nil || len(records) == 0 {
		if err != nil {
			log.Printf("quotation_data: could not load company settings: %v", err)
		}
		return DefaultCompany()
	}
	r := records[0]
	return Company{
		Name:        r.GetString("name"),
		Address:     r.GetString("address"),
		Phone:       r.GetString("phone"),
		Email:       r.GetString("email"),
		Website:     r.GetString("website"),
		GSTIN:       r.GetString("gstin"),
		LogoURL:     r.GetString("logo_url"),
		BankDetails: r.GetString("bank_details"),
	}
}

// LoadQuotation builds a Quotation from its record, its ordered lines and the
// company profile.
func LoadQuotation(app *pocketbase.PocketBase, id string) (Quotation, error) {
	rec, err := app.FindRecordById("quotations", id)
	if err != nil {
		return Quotation{}, recordError("quotation", id, err)
	}

	q := Quotation{
		ID:           rec.Id,
		Number:       rec.GetString("quotation_number"),
		Date:         rec.GetString("quotation_date"),
		ValidUntil:   rec.GetString("valid_until"),
		Terms:        rec.GetString("terms"),
		JobType:      rec.GetString("job_type"),
		SiteLocation: rec.GetString("site_location"),
		Notes:        rec.GetString("notes"),
		Customer: Customer{
			Name:          rec.GetString("customer_name"),
			Company:       rec.GetString("customer_company"),
			ContactPerson: rec.GetString("contact_person"),
			Address:       rec.GetString("customer_address"),
			Phone:         rec.GetString("customer_phone"),
			Email:         rec.GetString("customer_email"),
			GSTIN:         rec.GetString("customer_gstin"),
		},
		Company: LoadCompany(app),
		Inputs: PricingInputs{
			NumberOfDays:              rec.GetInt("number_of_days"),
			WorkingHoursPerDay:        rec.GetInt("working_hours"),
			SiteDistanceKm:            rec.GetFloat("site_distance_km"),
			FoodResourceMode:          ParseResourceMode(rec.GetString("food_mode")),
			AccommodationResourceMode: ParseResourceMode(rec.GetString("accommodation_mode")),
			RiskFactor:                ParseRiskFactor(rec.GetString("risk_factor")),
			ExtraCharge:               rec.GetFloat("extra_charge"),
		},
		Charges: ExtraCharges{
			Rigger:     rec.GetFloat("rigger_charge"),
			Helper:     rec.GetFloat("helper_charge"),
			Incidental: rec.GetFloat("incidental_charge"),
		},
		Discount:   rec.GetFloat("discount"),
		TemplateID: rec.GetString("template"),
	}

	lines, err := app.FindRecordsByFilter(
		"quotation_lines",
		"quotation = {:id}",
		"sort_order",
		0,
		0,
		map[string]any{"id": id},
	)
	if err != nil {
		return Quotation{}, fmt.Errorf("load lines for quotation %s: %w", id, err)
	}
	for _, l := range lines {
		line := SelectedLine{
			EquipmentRef: l.GetString("equipment"),
			Tier:         Tier(l.GetString("tier")),
			Quantity:     l.GetInt("quantity"),
		}
		if l.GetBool("has_rate_override") {
			v := l.GetFloat("rate_override")
			line.RateOverride = &v
		}
		q.Lines = append(q.Lines, line)
	}
	return q, nil
}

// LoadTemplate returns the template with the given ID. An empty ID selects
// the template flagged is_default, falling back to DefaultTemplate.
func LoadTemplate(app *pocketbase.PocketBase, id string) (Template, error) {
	var rec *core.Record
	if id != "" {
		r, err := app.FindRecordById("quotation_templates", id)
		if err != nil {
			return Template{}, recordError("template", id, err)
		}
		rec = r
	} else {
		records, err := app.FindRecordsByFilter("quotation_templates", "is_default = true", "created", 1, 0, nil)
		if err != nil || len(records) == 0 {
			return DefaultTemplate(), nil
		}
		rec = records[0]
	}

	tpl := Template{
		ID:          rec.Id,
		Name:        rec.GetString("name"),
		Content:     rec.GetString("content"),
		RowTemplate: rec.GetString("row_template"),
	}
	if raw := rec.GetString("elements"); raw != "" && raw != "null" {
		if err := rec.UnmarshalJSONField("elements", &tpl.Elements); err != nil {
			return Template{}, fmt.Errorf("%w %s: elements: %w", ErrInvalidTemplate, rec.Id, err)
		}
	}
	return tpl, nil
}

// recordError maps a missing record to ErrNotFound and wraps anything else.
func recordError(kind, id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return fmt.Errorf("load %s %s: %w", kind, id, err)
}

// AssignQuotationNumber stamps the next quotation number on rec if it has
// none. It reports whether the record was changed.
func AssignQuotationNumber(app *pocketbase.PocketBase, rec *core.Record, now time.Time) (bool, error) {
	if rec.GetString("quotation_number") != "" {
		return false, nil
	}
	number, err := GenerateQuotationNumber(app, now)
	if err != nil {
		return false, err
	}
	rec.Set("quotation_number", number)
	if rec.GetString("quotation_date") == "" {
		rec.Set("quotation_date", now.Format("2006-01-02"))
	}
	return true, nil
}
