package services

import (
	"fmt"
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Customer is the quotation recipient.
type Customer struct {
	Name          string `json:"name"`
	Company       string `json:"company"`
	ContactPerson string `json:"contactPerson"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	GSTIN         string `json:"gstin"`
}

// Company is the rental provider issuing the quotation.
type Company struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Website     string `json:"website"`
	GSTIN       string `json:"gstin"`
	LogoURL     string `json:"logoUrl"`
	BankDetails string `json:"bankDetails"`
}

// DefaultCompany is used when no company profile has been configured.
func DefaultCompany() Company {
	return Company{
		Name:    "ASP CRANES",
		Address: "Pune, Maharashtra",
		Email:   "sales@aspcranes.com",
	}
}

// ExtraCharges itemises the operator's manual add-on. When the quotation's
// ExtraCharge input is zero, the itemised total is used instead.
type ExtraCharges struct {
	Rigger     float64 `json:"rigger"`
	Helper     float64 `json:"helper"`
	Incidental float64 `json:"incidental"`
}

// Total sums the itemised charges.
func (c ExtraCharges) Total() float64 {
	return c.Rigger + c.Helper + c.Incidental
}

// Validate rejects negative itemised charges.
func (c ExtraCharges) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Rigger, validation.Min(0.0).Error("must be zero or greater")),
		validation.Field(&c.Helper, validation.Min(0.0).Error("must be zero or greater")),
		validation.Field(&c.Incidental, validation.Min(0.0).Error("must be zero or greater")),
	)
}

// Quotation is everything the assembler needs to price and render a quote.
type Quotation struct {
	ID           string         `json:"id"`
	Number       string         `json:"number"`
	Date         string         `json:"date"`
	ValidUntil   string         `json:"validUntil"`
	Terms        string         `json:"terms"`
	JobType      string         `json:"jobType"`
	SiteLocation string         `json:"siteLocation"`
	Notes        string         `json:"notes"`
	Customer     Customer       `json:"customer"`
	Company      Company        `json:"company"`
	Lines        []SelectedLine `json:"selectedMachines"`
	Inputs       PricingInputs  `json:"inputs"`
	Charges      ExtraCharges   `json:"charges"`
	Discount     float64        `json:"discount"`
	TemplateID   string         `json:"templateId,omitempty"`
}

// validateCharges checks the itemised charges and the discount, which the
// cost aggregator never sees individually.
func (q Quotation) validateCharges() error {
	if err := fromValidation("charges.", q.Charges.Validate()); err != nil {
		return err
	}
	if err := validation.Validate(q.Discount, validation.Min(0.0).Error("must be zero or greater")); err != nil {
		return &InvalidInputError{Field: "discount", Reason: err.Error()}
	}
	return nil
}

// pricingInputs returns the inputs with itemised charges folded in.
func (q Quotation) pricingInputs() PricingInputs {
	in := q.Inputs
	if in.ExtraCharge == 0 {
		in.ExtraCharge = q.Charges.Total()
	}
	return in
}

// BuildDocumentData turns a quotation and its computed costs into the
// render-ready structure. Empty text fields are left out so that tokens
// referring to them are reported as missing.
func BuildDocumentData(q Quotation, costs *CostBreakdown) DocumentData {
	d := DocumentData{}
	in := q.Inputs.WithDefaults()

	setText(d, "company.name", q.Company.Name)
	setText(d, "company.address", q.Company.Address)
	setText(d, "company.phone", q.Company.Phone)
	setText(d, "company.email", q.Company.Email)
	setText(d, "company.website", q.Company.Website)
	setText(d, "company.gstin", q.Company.GSTIN)
	setText(d, "company.logoUrl", q.Company.LogoURL)
	setText(d, "company.bankDetails", q.Company.BankDetails)

	for _, prefix := range []string{"customer", "client"} {
		setText(d, prefix+".name", q.Customer.Name)
		setText(d, prefix+".company", q.Customer.Company)
		setText(d, prefix+".contactPerson", q.Customer.ContactPerson)
		setText(d, prefix+".address", q.Customer.Address)
		setText(d, prefix+".phone", q.Customer.Phone)
		setText(d, prefix+".email", q.Customer.Email)
		setText(d, prefix+".gstin", q.Customer.GSTIN)
	}

	setText(d, "quotation.number", q.Number)
	setText(d, "quotation.date", q.Date)
	setText(d, "quotation.validUntil", q.ValidUntil)
	setText(d, "quotation.terms", q.Terms)
	setText(d, "quotation.jobType", q.JobType)
	setText(d, "quotation.siteLocation", q.SiteLocation)
	setText(d, "quotation.notes", q.Notes)
	d.Set("quotation.days", strconv.Itoa(in.NumberOfDays))
	d.Set("quotation.workingHours", strconv.Itoa(in.WorkingHoursPerDay))
	d.Set("quotation.siteDistance", fmt.Sprintf("%s km", formatQty(in.SiteDistanceKm)))
	d.Set("quotation.riskFactor", riskLabel(in.RiskFactor))
	d.Set("quotation.foodMode", resourceLabel(in.FoodResourceMode))
	d.Set("quotation.accommodationMode", resourceLabel(in.AccommodationResourceMode))
	if tier, err := ResolveTier(in.NumberOfDays); err == nil {
		d.Set("quotation.tier", string(tier))
		d.Set("quotation.tierLabel", tier.Label())
	}

	items := map[string]any{}
	for i, line := range costs.Lines {
		row := itemRow(q, in, line, costs)
		items[strconv.Itoa(i)] = row
		if i == 0 {
			d["equipment"] = row
		}
	}
	items["count"] = strconv.Itoa(len(costs.Lines))
	d["items"] = items

	half := costs.MobDemobCost / 2
	d.Set("charges.mobDemob", FormatINRRounded(costs.MobDemobCost))
	d.Set("charges.mobilization", FormatINRRounded(half))
	d.Set("charges.demobilization", FormatINRRounded(half))
	d.Set("charges.food", FormatINRRounded(costs.FoodCost))
	d.Set("charges.accommodation", FormatINRRounded(costs.AccomCost))
	d.Set("charges.foodAccommodation", FormatINRRounded(costs.FoodAccomCost))
	d.Set("charges.rigger", FormatINRRounded(q.Charges.Rigger))
	d.Set("charges.helper", FormatINRRounded(q.Charges.Helper))
	d.Set("charges.incidental", FormatINRRounded(q.Charges.Incidental))
	d.Set("charges.extra", FormatINRRounded(costs.ExtraCharge))

	payable := ApplyDiscount(costs, q.Discount)
	d.Set("totals.baseRatePerHour", FormatINR(costs.BaseRatePerHour))
	d.Set("totals.totalRent", FormatINRRounded(costs.TotalRent))
	d.Set("totals.riskMultiplier", strconv.FormatFloat(costs.RiskMultiplier, 'f', -1, 64))
	d.Set("totals.subtotal", FormatINRRounded(costs.Subtotal))
	d.Set("totals.taxRate", fmt.Sprintf("%s%%", strconv.FormatFloat(costs.TaxRate*100, 'f', -1, 64)))
	d.Set("totals.tax", FormatINRRounded(costs.TaxAmount))
	d.Set("totals.total", FormatINRRounded(costs.TotalCost))
	d.Set("totals.discount", FormatINRRounded(payable.Discount))
	d.Set("totals.roundOff", FormatINR(payable.RoundOff))
	d.Set("totals.payable", FormatINRRounded(payable.Payable))
	d.Set("totals.amountInWords", AmountToWords(payable.Payable))
	return d
}

func itemRow(q Quotation, in PricingInputs, line LineCost, costs *CostBreakdown) map[string]any {
	row := map[string]any{
		"serial":      strconv.Itoa(line.Index + 1),
		"quantity":    strconv.Itoa(line.Quantity),
		"tier":        string(line.Tier),
		"tierLabel":   line.Tier.Label(),
		"rateUnit":    rateUnit(line.RateTier),
		"hourlyRate":  FormatINR(line.HourlyRate),
		"workingCost": FormatINRRounded(line.WorkingCost),
		"jobDuration": fmt.Sprintf("%d days x %d hrs", in.NumberOfDays, in.WorkingHoursPerDay),
		"mobDemob":    FormatINRRounded(costs.MobDemobCost),
	}
	if line.NeedsManualRate {
		row["rate"] = "Rate on request"
		row["rateUnit"] = ""
	} else {
		row["rate"] = FormatINR(line.BaseRate)
	}
	if line.Name != "" {
		row["name"] = line.Name
	} else if line.EquipmentRef != "" {
		row["name"] = line.EquipmentRef
	}
	if line.Capacity != "" {
		row["capacity"] = line.Capacity
	}
	if q.JobType != "" {
		row["jobType"] = q.JobType
	}
	return row
}

func setText(d DocumentData, path, value string) {
	if value == "" {
		return
	}
	d.Set(path, value)
}

func rateUnit(t Tier) string {
	switch t {
	case TierMonthly:
		return "/month"
	case TierYearly:
		return "/year"
	}
	return "/hr"
}

func riskLabel(r RiskFactor) string {
	switch ParseRiskFactor(string(r)) {
	case RiskLow:
		return "Low"
	case RiskHigh:
		return "High"
	case RiskVeryHigh:
		return "Very High"
	}
	return "Medium"
}

func resourceLabel(m ResourceMode) string {
	switch ParseResourceMode(string(m)) {
	case ResourceClient:
		return "Client Provided"
	case ResourceProvider:
		return "Provided by Us"
	}
	return "To Be Decided"
}
