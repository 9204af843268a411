package services

import "fmt"

// Day-range boundaries for automatic tier selection (inclusive upper bounds).
const (
	microMaxDays   = 10
	smallMaxDays   = 25
	monthlyMaxDays = 365
)

// ResolveTier maps a rental duration in days to its pricing tier:
// 1-10 micro, 11-25 small, 26-365 monthly, 366+ yearly.
func ResolveTier(days int) (Tier, error) {
	switch {
	case days <= 0:
		return "", &durationError{days: days}
	case days <= microMaxDays:
		return TierMicro, nil
	case days <= smallMaxDays:
		return TierSmall, nil
	case days <= monthlyMaxDays:
		return TierMonthly, nil
	default:
		return TierYearly, nil
	}
}

// SelectTier returns the tier a line is priced at. An explicit override always
// wins; the duration-based suggestion only applies when no override is set.
// The day count is still validated so an override cannot mask a bad duration.
func SelectTier(override Tier, days int) (Tier, error) {
	suggested, err := ResolveTier(days)
	if err != nil {
		return "", err
	}
	if override == "" {
		return suggested, nil
	}
	if !override.Valid() {
		return "", &InvalidInputError{Field: "tier", Reason: fmt.Sprintf("unknown tier %q", override)}
	}
	return override, nil
}
