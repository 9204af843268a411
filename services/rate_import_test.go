package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

const rateCSVHeader = "Equipment Name,Capacity,Category,Micro Rate (per hr),Small Rate (per hr),Monthly Rate,Yearly Rate\n"

func TestGenerateRateTemplate(t *testing.T) {
	data, err := GenerateRateTemplate()
	if err != nil {
		t.Fatalf("GenerateRateTemplate() error: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to open generated template: %v", err)
	}
	defer f.Close()

	if name := f.GetSheetName(0); name != "Rates" {
		t.Errorf("sheet name = %q, want Rates", name)
	}
	a1, _ := f.GetCellValue("Rates", "A1")
	if a1 != "Equipment Name *" {
		t.Errorf("A1 = %q, want required marker", a1)
	}
	g1, _ := f.GetCellValue("Rates", "G1")
	if g1 != "Yearly Rate" {
		t.Errorf("G1 = %q, want Yearly Rate", g1)
	}
	dvs, err := f.GetDataValidations("Rates")
	if err != nil {
		t.Fatalf("GetDataValidations() error: %v", err)
	}
	if len(dvs) != 1 {
		t.Errorf("data validations = %d, want 1 category drop list", len(dvs))
	}
}

func TestParseRateSheet_TemplateRoundTrip(t *testing.T) {
	data, err := GenerateRateTemplate()
	if err != nil {
		t.Fatalf("GenerateRateTemplate() error: %v", err)
	}

	res, err := ParseRateSheet(bytes.NewReader(data), "rates.xlsx")
	if err != nil {
		t.Fatalf("ParseRateSheet() error: %v", err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("Errors = %v, want none", res.Errors)
	}
	if res.TotalRows != 1 || len(res.Rows) != 1 {
		t.Fatalf("TotalRows = %d, Rows = %d, want 1 each", res.TotalRows, len(res.Rows))
	}
	row := res.Rows[0]
	if row.Name != "Tadano GR-300EX" || row.Category != "mobile_crane" {
		t.Errorf("row = %+v", row)
	}
	want := BaseRates{Micro: 2500, Small: 2200, Monthly: 450000, Yearly: 4800000}
	if row.Rates != want {
		t.Errorf("Rates = %+v, want %+v", row.Rates, want)
	}
}

func TestParseRateSheet_CSV(t *testing.T) {
	csv := rateCSVHeader +
		"ACE 14XW,14 Ton,Pick_And_Carry,1200,1050,\"₹2,10,000\",\n" +
		",,,,,,\n" +
		"Potain MC 85,5 Ton,tower_crane,,,350000,3800000\n"

	res, err := ParseRateSheet(strings.NewReader(csv), "fleet.CSV")
	if err != nil {
		t.Fatalf("ParseRateSheet() error: %v", err)
	}
	if res.TotalRows != 2 {
		t.Errorf("TotalRows = %d, want 2 (blank row skipped)", res.TotalRows)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("Errors = %v, want none", res.Errors)
	}
	ace := res.Rows[0]
	if ace.Category != "pick_and_carry" {
		t.Errorf("category = %q, want lower-cased pick_and_carry", ace.Category)
	}
	if ace.Rates.Monthly != 210000 || ace.Rates.Yearly != 0 {
		t.Errorf("ACE rates = %+v", ace.Rates)
	}
	if res.Rows[1].Row != 4 {
		t.Errorf("Potain row = %d, want sheet row 4", res.Rows[1].Row)
	}
}

func TestParseRateSheet_KeyHeaders(t *testing.T) {
	csv := "name,micro_rate\nEscorts F15,1100\n"
	res, err := ParseRateSheet(strings.NewReader(csv), "rates.csv")
	if err != nil {
		t.Fatalf("ParseRateSheet() error: %v", err)
	}
	if len(res.Rows) != 1 || res.Rows[0].Rates.Micro != 1100 {
		t.Errorf("Rows = %+v", res.Rows)
	}
}

func TestParseRateSheet_RowErrors(t *testing.T) {
	csv := rateCSVHeader +
		"ACE 14XW,14 Ton,pick_and_carry,1200,1050,210000,\n" +
		",10 Ton,,500,,,\n" +
		"Barge Crane,,barge,abc,-5,,\n" +
		"ace 14xw,14 Ton,,1300,,,\n"

	res, err := ParseRateSheet(strings.NewReader(csv), "rates.csv")
	if err != nil {
		t.Fatalf("ParseRateSheet() error: %v", err)
	}
	if len(res.Rows) != 1 {
		t.Errorf("valid rows = %d, want 1", len(res.Rows))
	}

	want := []ImportError{
		{Row: 3, Field: "name", Message: "is required"},
		{Row: 4, Field: "category"},
		{Row: 4, Field: "micro_rate", Message: "must be a number"},
		{Row: 4, Field: "small_rate", Message: "must be zero or greater"},
		{Row: 5, Field: "name", Message: "duplicate of row 2"},
	}
	if len(res.Errors) != len(want) {
		t.Fatalf("Errors = %+v, want %d entries", res.Errors, len(want))
	}
	for i, w := range want {
		got := res.Errors[i]
		if got.Row != w.Row || got.Field != w.Field {
			t.Errorf("error %d = %+v, want row %d field %s", i, got, w.Row, w.Field)
		}
		if w.Message != "" && got.Message != w.Message {
			t.Errorf("error %d message = %q, want %q", i, got.Message, w.Message)
		}
	}
}

func TestParseRateSheet_FileErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		fileName string
		wantErr  string
	}{
		{"unsupported_type", "x", "rates.pdf", "unsupported file type"},
		{"header_only", rateCSVHeader, "rates.csv", "at least one data row"},
		{"no_name_column", "Capacity,Micro Rate (per hr)\n14 Ton,1200\n", "rates.csv", "Equipment Name"},
		{"not_xlsx", "plain text", "rates.xlsx", "failed to open Excel file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRateSheet(strings.NewReader(tt.body), tt.fileName)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestReadRateTable(t *testing.T) {
	csv := rateCSVHeader + "Tadano GR-500,50 Ton,mobile_crane,600,500,,\n"
	table, err := ReadRateTable(strings.NewReader(csv), "rates.csv")
	if err != nil {
		t.Fatalf("ReadRateTable() error: %v", err)
	}
	eq, ok := table.Lookup("Tadano GR-500")
	if !ok {
		t.Fatal("equipment should be keyed by name")
	}
	if eq.Capacity != "50 Ton" || eq.BaseRates.Small != 500 {
		t.Errorf("equipment = %+v", eq)
	}

	_, err = ReadRateTable(strings.NewReader(rateCSVHeader+"Bad,,,-1,,,\n"), "rates.csv")
	if err == nil || !strings.Contains(err.Error(), "row 2") {
		t.Errorf("error = %v, want row 2 failure", err)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"1200", 1200, false},
		{"₹1,25,000", 125000, false},
		{" 2 500.50 ", 2500.5, false},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := parseAmount(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseAmount(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseAmount(%q) = %f, want %f", tt.in, got, tt.want)
		}
	}
}
