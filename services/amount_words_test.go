package services

import "testing"

func TestAmountToWords(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		expect string
	}{
		{"zero", 0, "Zero Rupees Only/-"},
		{"single_digit", 5, "Five Rupees Only/-"},
		{"teens", 15, "Fifteen Rupees Only/-"},
		{"tens", 40, "Forty Rupees Only/-"},
		{"hundred_and", 150, "One Hundred and Fifty Rupees Only/-"},
		{"thousands", 5000, "Five Thousand Rupees Only/-"},
		{"one_lakh", 100000, "One Lakh Rupees Only/-"},
		{"quotation_total", 112100, "One Lakh Twelve Thousand One Hundred Rupees Only/-"},
		{"lakhs", 913183, "Nine Lakhs Thirteen Thousand One Hundred and Eighty Three Rupees Only/-"},
		{"one_crore", 12345678, "One Crore Twenty Three Lakhs Forty Five Thousand Six Hundred and Seventy Eight Rupees Only/-"},
		{"hundreds_of_crores", 1050000000, "One Hundred and Five Crores Rupees Only/-"},
		{"rounds_paise", 99.6, "One Hundred Rupees Only/-"},
		{"negative", -250, "Minus Two Hundred and Fifty Rupees Only/-"},
		{"negative_rounds_to_zero", -0.3, "Zero Rupees Only/-"},
		{"negative_rounds_away", -0.6, "Minus One Rupees Only/-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AmountToWords(tt.amount)
			if got != tt.expect {
				t.Errorf("AmountToWords(%v) = %q, want %q", tt.amount, got, tt.expect)
			}
		})
	}
}
