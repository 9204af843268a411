package services

import (
	"strings"
	"testing"
)

func TestDefaultTemplate(t *testing.T) {
	tpl := DefaultTemplate()
	if tpl.RowTemplate != DefaultRowTemplate {
		t.Error("default template should use the default row")
	}
	for _, want := range []string{"{{company.name}}", "{{items.table}}", "{{totals.payable}}", "{{totals.amountInWords}}"} {
		if !strings.Contains(tpl.Content, want) {
			t.Errorf("default content missing %s", want)
		}
	}
}

func TestBuildTemplate(t *testing.T) {
	t.Run("section_order", func(t *testing.T) {
		tpl, err := BuildTemplate("t1", "Short", []Section{SectionTotals, SectionHeader})
		if err != nil {
			t.Fatalf("BuildTemplate() error: %v", err)
		}
		totals := strings.Index(tpl.Content, "totals.subtotal")
		header := strings.Index(tpl.Content, "<h1>")
		if totals < 0 || header < 0 || totals > header {
			t.Errorf("sections out of order: totals at %d, header at %d", totals, header)
		}
	})

	t.Run("unknown_section", func(t *testing.T) {
		_, err := BuildTemplate("t2", "Bad", []Section{"footer"})
		if err == nil {
			t.Error("expected error for unknown section")
		}
	})
}

func TestTemplateResolve(t *testing.T) {
	tests := []struct {
		name        string
		tpl         Template
		wantContent string
		wantRow     string
	}{
		{
			name:        "content_and_row",
			tpl:         Template{Content: "<p>{{a}}</p>", RowTemplate: "<tr>{{item.name}}</tr>"},
			wantContent: "<p>{{a}}</p>",
			wantRow:     "<tr>{{item.name}}</tr>",
		},
		{
			name:        "content_without_row",
			tpl:         Template{Content: "<p>{{a}}</p>"},
			wantContent: "<p>{{a}}</p>",
			wantRow:     DefaultRowTemplate,
		},
		{
			name:        "empty_falls_back_to_default",
			tpl:         Template{Content: "  "},
			wantContent: DefaultTemplate().Content,
			wantRow:     DefaultRowTemplate,
		},
		{
			name: "elements_rendered",
			tpl: Template{Elements: []Element{
				{ID: "t", Type: ElementText, Text: &TextContent{Text: "{{customer.name}}"}},
			}},
			wantContent: `<p style="text-align:left">{{customer.name}}</p>` + "\n",
			wantRow:     DefaultRowTemplate,
		},
		{
			name: "row_template_beats_element_row",
			tpl: Template{
				RowTemplate: "<tr>custom</tr>",
				Elements: []Element{
					{ID: "tbl", Type: ElementTable, Table: &TableContent{Columns: []TableColumn{{Label: "Name", Field: "name"}}}},
				},
			},
			wantRow: "<tr>custom</tr>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content, row, err := tt.tpl.resolve()
			if err != nil {
				t.Fatalf("resolve() error: %v", err)
			}
			if tt.wantContent != "" && content != tt.wantContent {
				t.Errorf("content = %q, want %q", content, tt.wantContent)
			}
			if row != tt.wantRow {
				t.Errorf("row = %q, want %q", row, tt.wantRow)
			}
		})
	}
}

func TestTemplateTokens(t *testing.T) {
	tpl := Template{
		Content:     "<h1>{{company.name}}</h1><table>{{items.table}}</table><p>{{totals.total}}</p>",
		RowTemplate: "<tr><td>{{item.serial}}</td><td>{{item.name}}</td><td>{{company.name}}</td></tr>",
	}
	got, err := TemplateTokens(tpl)
	if err != nil {
		t.Fatalf("TemplateTokens() error: %v", err)
	}
	want := []string{"company.name", "totals.total", "item.serial", "item.name"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("TemplateTokens() = %v, want %v", got, want)
	}
}
