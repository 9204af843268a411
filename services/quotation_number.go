package services

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase"
)

// GetFiscalYear returns the Indian fiscal year string for a given date.
// Indian fiscal year runs April to March.
// Jan 2026 → "25-26", May 2026 → "26-27"
func GetFiscalYear(t time.Time) string {
	startYear := t.Year()
	if t.Month() < time.April {
		startYear--
	}
	return fmt.Sprintf("%02d-%02d", startYear%100, (startYear+1)%100)
}

const quotationNumberPrefix = "ASP-Q"

func formatQuotationNumber(fiscalYear string, sequence int) string {
	return fmt.Sprintf("%s-%s-%03d", quotationNumberPrefix, fiscalYear, sequence)
}

// GenerateQuotationNumber returns the next quotation number for the fiscal
// year containing now.
// Format: ASP-Q-{fiscal_year}-{sequence}, sequence 3-digit zero-padded and
// restarting every April.
func GenerateQuotationNumber(app *pocketbase.PocketBase, now time.Time) (string, error) {
	fiscalYear := GetFiscalYear(now)
	prefix := fmt.Sprintf("%s-%s-", quotationNumberPrefix, fiscalYear)

	existing, err := app.FindRecordsByFilter(
		"quotations",
		"quotation_number ~ {:prefix}",
		"",
		0,
		0,
		map[string]any{"prefix": prefix + "%"},
	)
	if err != nil {
		return "", fmt.Errorf("count quotations for %s: %w", fiscalYear, err)
	}

	return formatQuotationNumber(fiscalYear, len(existing)+1), nil
}
