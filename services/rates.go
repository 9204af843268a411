// Package services provides the quotation pricing engine, document merge and
// export generators for crane rental quotations.
package services

import (
	"fmt"
	"strings"
)

// Tier is a duration-based pricing bucket.
type Tier string

const (
	TierMicro   Tier = "micro"
	TierSmall   Tier = "small"
	TierMonthly Tier = "monthly"
	TierYearly  Tier = "yearly"
)

// TierOrder is the order used when falling back to another tier's rate.
var TierOrder = []Tier{TierMicro, TierSmall, TierMonthly, TierYearly}

// Valid reports whether t is one of the four known tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierMicro, TierSmall, TierMonthly, TierYearly:
		return true
	}
	return false
}

// Label returns the customer-facing name of the tier.
func (t Tier) Label() string {
	switch t {
	case TierMicro:
		return "Micro (1-10 days)"
	case TierSmall:
		return "Small (11-25 days)"
	case TierMonthly:
		return "Monthly (26-365 days)"
	case TierYearly:
		return "Yearly (366+ days)"
	}
	return string(t)
}

// ParseTier converts user or spreadsheet input into a Tier.
// An empty string yields an empty Tier and no error (no override).
func ParseTier(s string) (Tier, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.TrimSuffix(norm, "_rate")
	switch norm {
	case "":
		return "", nil
	case "micro":
		return TierMicro, nil
	case "small":
		return TierSmall, nil
	case "monthly", "month":
		return TierMonthly, nil
	case "yearly", "year", "annual":
		return TierYearly, nil
	}
	return "", &InvalidInputError{Field: "tier", Reason: fmt.Sprintf("unknown tier %q", s)}
}

// BaseRates holds the stored rate for each tier. A zero value means the
// equipment is not offered at that tier. Micro and small rates are hourly,
// monthly and yearly rates are per month and per year.
type BaseRates struct {
	Micro   float64 `json:"micro"`
	Small   float64 `json:"small"`
	Monthly float64 `json:"monthly"`
	Yearly  float64 `json:"yearly"`
}

// Rate returns the stored rate for the given tier.
func (r BaseRates) Rate(t Tier) float64 {
	switch t {
	case TierMicro:
		return r.Micro
	case TierSmall:
		return r.Small
	case TierMonthly:
		return r.Monthly
	case TierYearly:
		return r.Yearly
	}
	return 0
}

// IsEmpty reports whether no tier carries a positive rate.
func (r BaseRates) IsEmpty() bool {
	for _, t := range TierOrder {
		if r.Rate(t) > 0 {
			return false
		}
	}
	return true
}

// EquipmentRate is the read-only reference record for one equipment item.
type EquipmentRate struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Capacity  string    `json:"capacity"`
	BaseRates BaseRates `json:"baseRates"`
}

// RateTable maps equipment IDs to their rates.
type RateTable map[string]EquipmentRate

// NewRateTable builds a RateTable from a list of equipment rates.
// Later entries with the same ID replace earlier ones.
func NewRateTable(items []EquipmentRate) RateTable {
	table := make(RateTable, len(items))
	for _, item := range items {
		table[item.ID] = item
	}
	return table
}

// Lookup returns the equipment rate for id.
func (t RateTable) Lookup(id string) (EquipmentRate, bool) {
	if t == nil {
		return EquipmentRate{}, false
	}
	eq, ok := t[id]
	return eq, ok
}
