package services

import (
	"reflect"
	"testing"
)

func mergeFixture() DocumentData {
	d := DocumentData{}
	d.Set("customer.name", "Deshmukh Infra")
	d.Set("company.name", "ASP CRANES")
	d.Set("totals.total", "₹1,12,100")
	d.Set("quotation.days", 20)
	d.Set("items", map[string]any{
		"0":     map[string]any{"name": "Tadano GR-500"},
		"count": "1",
	})
	d.Set("tags", []string{"urgent", "night-shift"})
	return d
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name        string
		template    string
		wantHTML    string
		wantMissing []string
	}{
		{"plain", "<p>{{customer.name}}</p>", "<p>Deshmukh Infra</p>", []string{}},
		{"inner_whitespace", "{{ company.name }}", "ASP CRANES", []string{}},
		{"non_string_value", "{{quotation.days}} days", "20 days", []string{}},
		{"item_by_index", "{{items.0.name}}", "Tadano GR-500", []string{}},
		{"slice_index", "{{tags.1}}", "night-shift", []string{}},
		{"no_tokens", "<p>static</p>", "<p>static</p>", []string{}},
		{"missing_renders_empty", "[{{customer.gstin}}]", "[]", []string{"customer.gstin"}},
		{"missing_reported_once_in_order", "{{b.x}} {{a.y}} {{b.x}}", "  ", []string{"b.x", "a.y"}},
		{"container_is_missing", "{{items}}", "", []string{"items"}},
		{"index_out_of_range", "{{items.3.name}}", "", []string{"items.3.name"}},
		{"unclosed_left_alone", "{{customer.name", "{{customer.name", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.template, mergeFixture())
			if got.HTML != tt.wantHTML {
				t.Errorf("HTML = %q, want %q", got.HTML, tt.wantHTML)
			}
			if !reflect.DeepEqual(got.MissingTokens, tt.wantMissing) {
				t.Errorf("MissingTokens = %v, want %v", got.MissingTokens, tt.wantMissing)
			}
		})
	}
}

func TestMerge_ValuesAreNotRescanned(t *testing.T) {
	d := DocumentData{}
	d.Set("customer.name", "{{company.secret}}")

	got := Merge("{{customer.name}}", d)
	if got.HTML != "{{company.secret}}" {
		t.Errorf("HTML = %q, want the literal value", got.HTML)
	}
	if len(got.MissingTokens) != 0 {
		t.Errorf("MissingTokens = %v, want none", got.MissingTokens)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	data := mergeFixture()
	first := Merge("<h1>{{company.name}}</h1><p>{{totals.total}}</p>", data)
	second := Merge(first.HTML, data)
	if first.HTML != second.HTML {
		t.Errorf("second merge changed output: %q vs %q", first.HTML, second.HTML)
	}
}

func TestDocumentDataSet_MergesIntoExistingMaps(t *testing.T) {
	d := DocumentData{}
	d.Set("company.name", "ASP CRANES")
	d.Set("company.gstin", "27AABCA1234F1Z5")

	if v, ok := d.Lookup("company.name"); !ok || v != "ASP CRANES" {
		t.Errorf("company.name = %q, %v", v, ok)
	}
	if v, ok := d.Lookup("company.gstin"); !ok || v != "27AABCA1234F1Z5" {
		t.Errorf("company.gstin = %q, %v", v, ok)
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("{{a.b}} {{ c }} {{a.b}} {{items.table}}")
	want := []string{"a.b", "c", "items.table"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens() = %v, want %v", got, want)
	}
}
