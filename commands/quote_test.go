package commands

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cranequote/services"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

const quotationJSON = `{
  "number": "ASP-Q-25-26-007",
  "customer": {"name": "Rahul", "company": "Deshmukh Infra"},
  "selectedMachines": [{"equipmentRef": "Crane A", "quantity": 1}],
  "inputs": {"numberOfDays": 20, "workingHoursPerDay": 8, "siteDistanceKm": 0,
             "foodResourceMode": "client", "accommodationResourceMode": "client",
             "riskFactor": "medium"}
}`

func TestQuoteCommand_HTMLFromCSVRates(t *testing.T) {
	dir := t.TempDir()
	qPath := writeFile(t, dir, "q.json", quotationJSON)
	rPath := writeFile(t, dir, "rates.csv", "Equipment Name *,Capacity,Small Rate (per hr)\nCrane A,30 Ton,500\n")
	tPath := writeFile(t, dir, "t.html", "<p>{{quotation.number}} {{totals.subtotal}} {{client.company}}</p>")

	cmd := NewQuoteCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--quotation", qPath, "--rates", rPath, "--template", tPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	// 500/hr * 8 * 20 = 80000 rent, + 15000 mob floor = 95000
	want := "<p>ASP-Q-25-26-007 ₹95,000 Deshmukh Infra</p>"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestQuoteCommand_JSONOutputFile(t *testing.T) {
	dir := t.TempDir()
	qPath := writeFile(t, dir, "q.json", quotationJSON)
	rPath := writeFile(t, dir, "rates.json",
		`[{"id": "Crane A", "name": "Crane A", "baseRates": {"small": 500}}]`)
	outPath := filepath.Join(dir, "doc.json")

	cmd := NewQuoteCommand()
	cmd.SetArgs([]string{"--quotation", qPath, "--rates", rPath, "--out", outPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var doc struct {
		Totals services.CostBreakdown `json:"totals"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if math.Abs(doc.Totals.TotalCost-112100) > 1e-6 {
		t.Errorf("TotalCost = %v, want 112100", doc.Totals.TotalCost)
	}
}

func TestQuoteCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	rPath := writeFile(t, dir, "rates.json", `[]`)

	tests := []struct {
		name      string
		quotation string
		args      []string
		wantErr   string
	}{
		{
			name:      "zero_days",
			quotation: `{"selectedMachines": [], "inputs": {"numberOfDays": 0}}`,
			wantErr:   "invalid duration",
		},
		{
			name:      "negative_tax_rate",
			quotation: `{"selectedMachines": [], "inputs": {"numberOfDays": 3}}`,
			args:      []string{"--tax-rate=-0.18"},
			wantErr:   "invalid --tax-rate",
		},
		{
			name:      "tax_rate_as_percent",
			quotation: `{"selectedMachines": [], "inputs": {"numberOfDays": 3}}`,
			args:      []string{"--tax-rate", "18"},
			wantErr:   "between 0 and 1",
		},
		{
			name:      "unknown_format",
			quotation: `{"selectedMachines": [], "inputs": {"numberOfDays": 3}}`,
			args:      []string{"--format", "docx"},
			wantErr:   `unknown format "docx"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qPath := writeFile(t, dir, tt.name+".json", tt.quotation)
			cmd := NewQuoteCommand()
			cmd.SetOut(&bytes.Buffer{})
			cmd.SetErr(&bytes.Buffer{})
			cmd.SetArgs(append([]string{"--quotation", qPath, "--rates", rPath}, tt.args...))
			err := cmd.Execute()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestQuoteCommand_RequiresFlags(t *testing.T) {
	cmd := NewQuoteCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})
	if err := cmd.Execute(); err == nil {
		t.Fatal("expected error for missing required flags")
	}
}

func TestQuoteCommand_WarnsOnStderr(t *testing.T) {
	dir := t.TempDir()
	qPath := writeFile(t, dir, "q.json", quotationJSON)
	rPath := writeFile(t, dir, "rates.csv", "Equipment Name,Capacity\nCrane A,30 Ton\n")
	tPath := writeFile(t, dir, "t.html", "<p>{{customer.gstin}}</p>")

	cmd := NewQuoteCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs([]string{"--quotation", qPath, "--rates", rPath, "--template", tPath})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	for _, want := range []string{
		"warning: unfilled placeholder {{customer.gstin}}",
		"warning: line 1 needs a manual rate",
	} {
		if !strings.Contains(errOut.String(), want) {
			t.Errorf("stderr missing %q, got %q", want, errOut.String())
		}
	}
	if out.String() != "<p></p>" {
		t.Errorf("output = %q, want <p></p>", out.String())
	}
}
