package services

import (
	"math"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultWorkingHoursPerDay applies when PricingInputs leaves the field at zero.
const DefaultWorkingHoursPerDay = 8

// PricingConfig holds the business constants of the cost aggregation.
// They are fixed for numeric parity with existing quotations.
type PricingConfig struct {
	TaxRate             float64
	MobDemobFloor       float64
	MobDemobPerKm       float64
	FoodPerDay          float64
	AccommodationPerDay float64
	WorkingDaysPerMonth float64
	WorkingDaysPerYear  float64
	// TierMultiplier scales the summed equipment hourly rate. Always 1 today.
	TierMultiplier float64
}

// DefaultPricingConfig returns the constants used for every quotation.
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		TaxRate:             0.18,
		MobDemobFloor:       15000,
		MobDemobPerKm:       200,
		FoodPerDay:          2500,
		AccommodationPerDay: 4000,
		WorkingDaysPerMonth: 26,
		WorkingDaysPerYear:  312,
		TierMultiplier:      1,
	}
}

// ResourceMode records who provides food or accommodation for the crew.
type ResourceMode string

const (
	ResourceClient    ResourceMode = "client"
	ResourceProvider  ResourceMode = "provider"
	ResourceUndecided ResourceMode = "undecided"
)

// ParseResourceMode accepts the short and the "-provided" spellings.
// Anything unrecognised is treated as undecided.
func ParseResourceMode(s string) ResourceMode {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.TrimSuffix(norm, "-provided")
	norm = strings.TrimSuffix(norm, "_provided")
	switch norm {
	case "client", "customer":
		return ResourceClient
	case "provider", "company", "asp":
		return ResourceProvider
	}
	return ResourceUndecided
}

// RiskFactor is the assessed job risk category.
type RiskFactor string

const (
	RiskLow      RiskFactor = "low"
	RiskMedium   RiskFactor = "medium"
	RiskHigh     RiskFactor = "high"
	RiskVeryHigh RiskFactor = "very_high"
)

// ParseRiskFactor normalises user input; hyphens and spaces become underscores.
func ParseRiskFactor(s string) RiskFactor {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	return RiskFactor(norm)
}

// Multiplier returns the subtotal multiplier for the risk factor.
// Unrecognised values default to 1.0.
func (r RiskFactor) Multiplier() float64 {
	switch ParseRiskFactor(string(r)) {
	case RiskLow:
		return 0.95
	case RiskHigh:
		return 1.1
	case RiskVeryHigh:
		return 1.2
	default:
		return 1.0
	}
}

// SelectedLine is one equipment item chosen on a quotation. An empty Tier
// means the tier follows the rental duration.
type SelectedLine struct {
	EquipmentRef string   `json:"equipmentRef"`
	Tier         Tier     `json:"tier,omitempty"`
	Quantity     int      `json:"quantity"`
	RateOverride *float64 `json:"rateOverride,omitempty"`
}

// Validate checks quantity and override bounds.
func (l SelectedLine) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Quantity, validation.Required.Error("must be a positive integer"), validation.Min(1)),
		validation.Field(&l.RateOverride, validation.Min(0.0).Error("must be zero or greater")),
	)
}

// PricingInputs are the job-level factors of a quotation.
type PricingInputs struct {
	NumberOfDays              int          `json:"numberOfDays"`
	WorkingHoursPerDay        int          `json:"workingHoursPerDay"`
	SiteDistanceKm            float64      `json:"siteDistanceKm"`
	FoodResourceMode          ResourceMode `json:"foodResourceMode"`
	AccommodationResourceMode ResourceMode `json:"accommodationResourceMode"`
	RiskFactor                RiskFactor   `json:"riskFactor"`
	ExtraCharge               float64      `json:"extraCharge"`
}

// WithDefaults fills in the default working hours.
func (in PricingInputs) WithDefaults() PricingInputs {
	if in.WorkingHoursPerDay == 0 {
		in.WorkingHoursPerDay = DefaultWorkingHoursPerDay
	}
	return in
}

// Validate rejects a non-positive duration and negative numbers. It does not
// clamp anything.
func (in PricingInputs) Validate() error {
	if in.NumberOfDays <= 0 {
		return &durationError{days: in.NumberOfDays}
	}
	err := validation.ValidateStruct(&in,
		validation.Field(&in.WorkingHoursPerDay, validation.Min(0).Error("must be zero or greater")),
		validation.Field(&in.SiteDistanceKm, validation.Min(0.0).Error("must be zero or greater")),
		validation.Field(&in.ExtraCharge, validation.Min(0.0).Error("must be zero or greater")),
	)
	return fromValidation("", err)
}

// LineCost is the priced view of one selected line.
type LineCost struct {
	Index        int     `json:"index"`
	EquipmentRef string  `json:"equipmentRef"`
	Name         string  `json:"name"`
	Capacity     string  `json:"capacity"`
	Tier         Tier    `json:"tier"`
	RateTier     Tier    `json:"rateTier"`
	Quantity     int     `json:"quantity"`
	BaseRate     float64 `json:"baseRate"`
	HourlyRate   float64 `json:"hourlyRate"`
	// LineHourlyTotal is HourlyRate * Quantity.
	LineHourlyTotal float64 `json:"lineHourlyTotal"`
	// WorkingCost is LineHourlyTotal over the whole rental period.
	WorkingCost     float64 `json:"workingCost"`
	Overridden      bool    `json:"overridden"`
	FellBack        bool    `json:"fellBack"`
	NeedsManualRate bool    `json:"needsManualRate"`
}

// CostBreakdown is derived from the selected lines and pricing inputs. It is
// recomputed whenever inputs change and never rounded.
type CostBreakdown struct {
	BaseRatePerHour float64    `json:"baseRatePerHour"`
	TotalRent       float64    `json:"totalRent"`
	MobDemobCost    float64    `json:"mobDemobCost"`
	FoodCost        float64    `json:"foodCost"`
	AccomCost       float64    `json:"accomCost"`
	FoodAccomCost   float64    `json:"foodAccomCost"`
	ExtraCharge     float64    `json:"extraCharge"`
	RiskMultiplier  float64    `json:"riskMultiplier"`
	Subtotal        float64    `json:"subtotal"`
	TaxRate         float64    `json:"taxRate"`
	TaxAmount       float64    `json:"taxAmount"`
	TotalCost       float64    `json:"totalCost"`
	Lines           []LineCost `json:"lines"`
}

// ManualRateLines returns the indexes of lines that need an operator rate.
func (b *CostBreakdown) ManualRateLines() []int {
	var idx []int
	for _, l := range b.Lines {
		if l.NeedsManualRate {
			idx = append(idx, l.Index)
		}
	}
	return idx
}

// ComputeCosts prices the lines with the default configuration.
func ComputeCosts(table RateTable, lines []SelectedLine, inputs PricingInputs) (*CostBreakdown, error) {
	return DefaultPricingConfig().ComputeCosts(table, lines, inputs)
}

// ComputeCosts aggregates equipment rent, mobilisation, crew resources, extra
// charges and risk into a subtotal and applies tax. Steps run in a fixed order
// and the risk multiplier applies to the whole pre-tax sum.
func (c PricingConfig) ComputeCosts(table RateTable, lines []SelectedLine, inputs PricingInputs) (*CostBreakdown, error) {
	inputs = inputs.WithDefaults()
	if err := inputs.Validate(); err != nil {
		return nil, err
	}

	priced := make([]LineCost, 0, len(lines))
	var equipmentHourlyTotal float64
	for i, line := range lines {
		if err := line.Validate(); err != nil {
			return nil, fromValidation(lineFieldPrefix(i), err)
		}
		tier, err := SelectTier(line.Tier, inputs.NumberOfDays)
		if err != nil {
			return nil, err
		}
		rate := c.resolveLineRate(line, tier, table, inputs.WorkingHoursPerDay)
		lineHourly := rate.HourlyRate * float64(line.Quantity)
		equipmentHourlyTotal += lineHourly

		eq, _ := table.Lookup(line.EquipmentRef)
		priced = append(priced, LineCost{
			Index:           i,
			EquipmentRef:    line.EquipmentRef,
			Name:            eq.Name,
			Capacity:        eq.Capacity,
			Tier:            tier,
			RateTier:        rate.Tier,
			Quantity:        line.Quantity,
			BaseRate:        rate.BaseRate,
			HourlyRate:      rate.HourlyRate,
			LineHourlyTotal: lineHourly,
			WorkingCost:     lineHourly * float64(inputs.WorkingHoursPerDay) * float64(inputs.NumberOfDays),
			Overridden:      rate.Overridden,
			FellBack:        rate.FellBack,
			NeedsManualRate: rate.NeedsManualRate,
		})
	}

	days := float64(inputs.NumberOfDays)
	b := &CostBreakdown{Lines: priced, ExtraCharge: inputs.ExtraCharge, TaxRate: c.TaxRate}
	b.BaseRatePerHour = equipmentHourlyTotal * c.TierMultiplier
	b.TotalRent = b.BaseRatePerHour * float64(inputs.WorkingHoursPerDay) * days
	b.MobDemobCost = math.Max(c.MobDemobFloor, inputs.SiteDistanceKm*c.MobDemobPerKm)
	if ParseResourceMode(string(inputs.FoodResourceMode)) == ResourceProvider {
		b.FoodCost = c.FoodPerDay * days
	}
	if ParseResourceMode(string(inputs.AccommodationResourceMode)) == ResourceProvider {
		b.AccomCost = c.AccommodationPerDay * days
	}
	b.FoodAccomCost = b.FoodCost + b.AccomCost
	b.RiskMultiplier = inputs.RiskFactor.Multiplier()
	b.Subtotal = (b.TotalRent + b.MobDemobCost + b.FoodAccomCost + inputs.ExtraCharge) * b.RiskMultiplier
	b.TaxAmount = b.Subtotal * c.TaxRate
	b.TotalCost = b.Subtotal + b.TaxAmount
	return b, nil
}

// PayableSummary holds presentation-only figures derived from a breakdown.
type PayableSummary struct {
	Discount float64 `json:"discount"`
	RoundOff float64 `json:"roundOff"`
	Payable  float64 `json:"payable"`
}

// ApplyDiscount subtracts an after-tax discount and rounds the result to the
// nearest rupee. TotalCost itself is never modified.
func ApplyDiscount(b *CostBreakdown, discount float64) PayableSummary {
	if discount < 0 {
		discount = 0
	}
	net := b.TotalCost - discount
	roundOff := calcRoundOff(net)
	return PayableSummary{
		Discount: discount,
		RoundOff: roundOff,
		Payable:  net + roundOff,
	}
}

// calcRoundOff rounds to nearest rupee with ±0.50 threshold.
func calcRoundOff(amount float64) float64 {
	return math.Round(amount) - amount
}
