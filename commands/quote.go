// Package commands holds the CLI subcommands registered on the app's root command.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/cobra"

	"cranequote/services"
)

type quoteOptions struct {
	quotationPath string
	ratesPath     string
	templatePath  string
	outPath       string
	format        string
	taxRate       float64
}

// NewQuoteCommand returns the "quote" command, which prices a quotation file
// against a rate sheet without touching the database.
func NewQuoteCommand() *cobra.Command {
	opts := &quoteOptions{}
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price and render a quotation from files",
		Long: "Reads a quotation JSON file and an equipment rate sheet (.xlsx, .csv or .json), " +
			"computes the cost breakdown and writes the merged document.",
		Example: "  app quote --quotation q.json --rates rates.xlsx --out q.html\n" +
			"  app quote --quotation q.json --rates rates.json --format json",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.quotationPath, "quotation", "", "quotation JSON file (required)")
	f.StringVar(&opts.ratesPath, "rates", "", "equipment rate sheet: .xlsx, .csv or .json (required)")
	f.StringVar(&opts.templatePath, "template", "", "template file: .html markup or .json template (default: standard layout)")
	f.StringVarP(&opts.outPath, "out", "o", "", "output file (default: stdout)")
	f.StringVar(&opts.format, "format", "", "html, json, pdf or xlsx (default: from --out extension, else html)")
	f.Float64Var(&opts.taxRate, "tax-rate", services.DefaultPricingConfig().TaxRate, "tax rate as a fraction")
	_ = cmd.MarkFlagRequired("quotation")
	_ = cmd.MarkFlagRequired("rates")
	return cmd
}

func runQuote(stdout, stderr io.Writer, opts *quoteOptions) error {
	if err := validation.Validate(opts.taxRate,
		validation.Min(0.0), validation.Max(1.0).Error("must be a fraction between 0 and 1")); err != nil {
		return fmt.Errorf("invalid --tax-rate %v: %w", opts.taxRate, err)
	}

	var q services.Quotation
	if err := readJSON(opts.quotationPath, &q); err != nil {
		return fmt.Errorf("read quotation: %w", err)
	}
	if q.Company.Name == "" {
		q.Company = services.DefaultCompany()
	}

	table, err := readRates(opts.ratesPath)
	if err != nil {
		return fmt.Errorf("read rates: %w", err)
	}

	tpl, err := readTemplate(opts.templatePath)
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}

	cfg := services.DefaultPricingConfig()
	cfg.TaxRate = opts.taxRate
	doc, err := cfg.Assemble(table, q, tpl)
	if err != nil {
		return err
	}

	format := opts.format
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.outPath)), ".")
		if format == "" || format == "htm" {
			format = "html"
		}
	}

	var out []byte
	switch format {
	case "html":
		out = []byte(doc.HTML)
	case "json":
		out, err = json.MarshalIndent(doc, "", "  ")
	case "pdf":
		out, err = services.GenerateQuotationPDF(q, doc)
	case "xlsx":
		out, err = services.GenerateQuotationExcel(q, doc)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return err
	}

	for _, tok := range doc.MissingTokens {
		fmt.Fprintf(stderr, "warning: unfilled placeholder {{%s}}\n", tok)
	}
	for _, idx := range doc.ManualRateLines {
		fmt.Fprintf(stderr, "warning: line %d needs a manual rate\n", idx+1)
	}

	if opts.outPath == "" {
		_, err = stdout.Write(out)
		return err
	}
	return os.WriteFile(opts.outPath, out, 0o644)
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// readRates loads a rate table keyed by equipment ID (JSON) or name (sheets).
func readRates(path string) (services.RateTable, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var items []services.EquipmentRate
		if err := readJSON(path, &items); err != nil {
			return nil, err
		}
		return services.NewRateTable(items), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return services.ReadRateTable(f, path)
}

func readTemplate(path string) (services.Template, error) {
	if path == "" {
		return services.DefaultTemplate(), nil
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		var tpl services.Template
		if err := readJSON(path, &tpl); err != nil {
			return services.Template{}, err
		}
		return tpl, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return services.Template{}, err
	}
	return services.Template{ID: filepath.Base(path), Name: filepath.Base(path), Content: string(data)}, nil
}
