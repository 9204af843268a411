package services

import (
	"math"
	"strings"
)

// AmountToWords spells a rupee amount in Indian English, rounded to the
// nearest rupee. 112100 → "One Lakh Twelve Thousand One Hundred Rupees Only/-"
func AmountToWords(amount float64) string {
	rupees := int64(math.Round(amount))
	if rupees == 0 {
		return "Zero Rupees Only/-"
	}
	if rupees < 0 {
		return "Minus " + spellIndian(-rupees) + " Rupees Only/-"
	}
	return spellIndian(rupees) + " Rupees Only/-"
}

// indianScales are the place values used in the lakh/crore system, largest first.
var indianScales = []struct {
	value    int64
	singular string
	plural   string
}{
	{10000000, "Crore", "Crores"},
	{100000, "Lakh", "Lakhs"},
	{1000, "Thousand", "Thousand"},
}

func spellIndian(n int64) string {
	var parts []string

	for _, s := range indianScales {
		if n < s.value {
			continue
		}
		count := n / s.value
		n %= s.value
		unit := s.plural
		if count == 1 {
			unit = s.singular
		}
		// Counts above 99 crore recurse, e.g. "One Hundred and Five Crores".
		if count >= 100 {
			parts = append(parts, spellIndian(count)+" "+unit)
		} else {
			parts = append(parts, spellUnder100(count)+" "+unit)
		}
	}

	if n >= 100 {
		parts = append(parts, onesWords[n/100]+" Hundred")
		n %= 100
	}

	if n > 0 {
		if len(parts) > 0 {
			parts = append(parts, "and "+spellUnder100(n))
		} else {
			parts = append(parts, spellUnder100(n))
		}
	}

	return strings.Join(parts, " ")
}

func spellUnder100(n int64) string {
	if n < 20 {
		return onesWords[n]
	}
	w := tensWords[n/10]
	if n%10 != 0 {
		w += " " + onesWords[n%10]
	}
	return w
}

var onesWords = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tensWords = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}
