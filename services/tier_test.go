package services

import (
	"errors"
	"testing"
)

func TestResolveTier(t *testing.T) {
	tests := []struct {
		name string
		days int
		want Tier
	}{
		{"one_day", 1, TierMicro},
		{"micro_upper", 10, TierMicro},
		{"small_lower", 11, TierSmall},
		{"small_upper", 25, TierSmall},
		{"monthly_lower", 26, TierMonthly},
		{"monthly_upper", 365, TierMonthly},
		{"yearly_lower", 366, TierYearly},
		{"two_years", 730, TierYearly},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveTier(tt.days)
			if err != nil {
				t.Fatalf("ResolveTier(%d) error: %v", tt.days, err)
			}
			if got != tt.want {
				t.Errorf("ResolveTier(%d) = %q, want %q", tt.days, got, tt.want)
			}
		})
	}
}

func TestResolveTier_InvalidDuration(t *testing.T) {
	for _, days := range []int{0, -1, -30} {
		_, err := ResolveTier(days)
		if !errors.Is(err, ErrInvalidDuration) {
			t.Errorf("ResolveTier(%d) error = %v, want ErrInvalidDuration", days, err)
		}
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("ResolveTier(%d) error should also match ErrInvalidInput", days)
		}
	}
}

func TestSelectTier(t *testing.T) {
	tests := []struct {
		name     string
		override Tier
		days     int
		want     Tier
		wantErr  error
	}{
		{"no_override_follows_days", "", 20, TierSmall, nil},
		{"override_wins", TierMonthly, 5, TierMonthly, nil},
		{"override_same_as_suggested", TierSmall, 20, TierSmall, nil},
		{"override_cannot_mask_bad_days", TierMicro, 0, "", ErrInvalidDuration},
		{"unknown_override", Tier("weekly"), 5, "", ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectTier(tt.override, tt.days)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("SelectTier() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SelectTier() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("SelectTier(%q, %d) = %q, want %q", tt.override, tt.days, got, tt.want)
			}
		})
	}
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		in      string
		want    Tier
		wantErr bool
	}{
		{"", "", false},
		{"Micro", TierMicro, false},
		{" small ", TierSmall, false},
		{"monthly_rate", TierMonthly, false},
		{"month", TierMonthly, false},
		{"annual", TierYearly, false},
		{"weekly", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTier(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTier(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseTier(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
