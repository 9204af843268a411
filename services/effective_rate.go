package services

// RateResult is the outcome of resolving one line's rate.
type RateResult struct {
	// Tier the rate was read from. Differs from the requested tier when the
	// lookup fell back to another tier.
	Tier Tier
	// BaseRate is in the tier's native unit (hourly, monthly or yearly).
	BaseRate   float64
	HourlyRate float64

	FellBack        bool
	Overridden      bool
	NeedsManualRate bool
}

// NormalizeToHourly converts a rate stored in the tier's native unit into an
// hourly rate. Micro and small rates are already hourly.
func NormalizeToHourly(rate float64, tier Tier, workingHoursPerDay int) float64 {
	return DefaultPricingConfig().normalize(rate, tier, workingHoursPerDay)
}

func (c PricingConfig) normalize(rate float64, tier Tier, workingHoursPerDay int) float64 {
	if workingHoursPerDay <= 0 {
		workingHoursPerDay = DefaultWorkingHoursPerDay
	}
	switch tier {
	case TierMonthly:
		return rate / (c.WorkingDaysPerMonth * float64(workingHoursPerDay))
	case TierYearly:
		return rate / (c.WorkingDaysPerYear * float64(workingHoursPerDay))
	default:
		return rate
	}
}

// EffectiveHourlyRate returns the hourly rate for the selected tier. A missing
// or zero rate falls back to the first non-zero rate in TierOrder, converted
// with that tier's unit convention. When every tier is zero the result is 0
// and NeedsManualRate is set.
func EffectiveHourlyRate(rates BaseRates, tier Tier, workingHoursPerDay int) RateResult {
	return DefaultPricingConfig().effectiveHourlyRate(rates, tier, workingHoursPerDay)
}

func (c PricingConfig) effectiveHourlyRate(rates BaseRates, tier Tier, workingHoursPerDay int) RateResult {
	if rate := rates.Rate(tier); rate > 0 {
		return RateResult{
			Tier:       tier,
			BaseRate:   rate,
			HourlyRate: c.normalize(rate, tier, workingHoursPerDay),
		}
	}
	for _, t := range TierOrder {
		if rate := rates.Rate(t); rate > 0 {
			return RateResult{
				Tier:       t,
				BaseRate:   rate,
				HourlyRate: c.normalize(rate, t, workingHoursPerDay),
				FellBack:   true,
			}
		}
	}
	return RateResult{Tier: tier, NeedsManualRate: true}
}

// ResolveLineRate resolves the rate of one selected line against the rate
// table. A rate override replaces the lookup entirely; it is kept as-is in
// BaseRate (the tier's native unit) and converted for HourlyRate.
func ResolveLineRate(line SelectedLine, tier Tier, table RateTable, workingHoursPerDay int) RateResult {
	return DefaultPricingConfig().resolveLineRate(line, tier, table, workingHoursPerDay)
}

func (c PricingConfig) resolveLineRate(line SelectedLine, tier Tier, table RateTable, workingHoursPerDay int) RateResult {
	if line.RateOverride != nil {
		rate := *line.RateOverride
		return RateResult{
			Tier:            tier,
			BaseRate:        rate,
			HourlyRate:      c.normalize(rate, tier, workingHoursPerDay),
			Overridden:      true,
			NeedsManualRate: rate == 0,
		}
	}
	eq, ok := table.Lookup(line.EquipmentRef)
	if !ok {
		return RateResult{Tier: tier, NeedsManualRate: true}
	}
	return c.effectiveHourlyRate(eq.BaseRates, tier, workingHoursPerDay)
}
