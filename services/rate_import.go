package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

// RateSheetColumn describes one column of the equipment rate sheet.
type RateSheetColumn struct {
	Key      string
	Label    string
	Required bool
	Example  string
}

// EquipmentCategories are the allowed values of the equipment category column.
var EquipmentCategories = []string{"mobile_crane", "crawler_crane", "tower_crane", "pick_and_carry", "aerial_platform", "other"}

// RateSheetColumns lists the rate sheet columns in template order.
func RateSheetColumns() []RateSheetColumn {
	return []RateSheetColumn{
		{Key: "name", Label: "Equipment Name", Required: true, Example: "Tadano GR-300EX"},
		{Key: "capacity", Label: "Capacity", Example: "30 Ton"},
		{Key: "category", Label: "Category", Example: "mobile_crane"},
		{Key: "micro_rate", Label: "Micro Rate (per hr)", Example: "2500"},
		{Key: "small_rate", Label: "Small Rate (per hr)", Example: "2200"},
		{Key: "monthly_rate", Label: "Monthly Rate", Example: "450000"},
		{Key: "yearly_rate", Label: "Yearly Rate", Example: "4800000"},
	}
}

var rateKeys = []string{"micro_rate", "small_rate", "monthly_rate", "yearly_rate"}

// RateRow is one parsed rate sheet row.
type RateRow struct {
	Row      int
	Name     string
	Capacity string
	Category string
	Rates    BaseRates
}

// ImportError is a single field-level problem on one row.
type ImportError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RateImportResult is returned after parsing an uploaded rate sheet.
type RateImportResult struct {
	TotalRows int           `json:"total_rows"`
	Rows      []RateRow     `json:"-"`
	Errors    []ImportError `json:"errors"`
	Created   int           `json:"created"`
	Updated   int           `json:"updated"`
}

// GenerateRateTemplate creates a downloadable .xlsx rate sheet with the
// expected headers and one example row.
func GenerateRateTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Rates"
	f.SetSheetName(f.GetSheetName(0), sheetName)

	requiredStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#1D4ED8"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})
	optionalStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#6B7280"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
		Border:    thinBorders(),
	})

	fields := RateSheetColumns()
	cols := columnLetters(len(fields))
	for i, field := range fields {
		label := field.Label
		style := optionalStyle
		if field.Required {
			label += " *"
			style = requiredStyle
		}
		f.SetCellValue(sheetName, cols[i]+"1", label)
		f.SetCellStyle(sheetName, cols[i]+"1", cols[i]+"1", style)
		f.SetCellValue(sheetName, cols[i]+"2", field.Example)
		f.SetColWidth(sheetName, cols[i], cols[i], 22)
	}

	dv := excelize.NewDataValidation(true)
	dv.Sqref = fmt.Sprintf("%s2:%s1000", cols[2], cols[2])
	if err := dv.SetDropList(EquipmentCategories); err == nil {
		f.AddDataValidation(sheetName, dv)
	}
	f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write rate template: %w", err)
	}
	return buf.Bytes(), nil
}

// ParseRateSheet reads a CSV or xlsx rate sheet and validates every row.
// Rows with errors are reported and left out of Rows.
func ParseRateSheet(file io.Reader, fileName string) (*RateImportResult, error) {
	var headers []string
	var dataRows [][]string
	var err error

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		headers, dataRows, err = parseCSV(file)
	case ".xlsx":
		headers, dataRows, err = parseExcel(file)
	default:
		return nil, fmt.Errorf("unsupported file type %q: upload .csv or .xlsx", filepath.Ext(fileName))
	}
	if err != nil {
		return nil, err
	}

	mapped, _ := mapHeadersToColumns(headers, RateSheetColumns())
	hasName := false
	for _, k := range mapped {
		if k == "name" {
			hasName = true
		}
	}
	if !hasName {
		return nil, fmt.Errorf("missing required column %q", "Equipment Name")
	}

	result := &RateImportResult{}
	seen := make(map[string]int)
	for i, cells := range dataRows {
		rowNum := i + 2 // header is row 1
		data := make(map[string]string, len(mapped))
		blank := true
		for j, key := range mapped {
			if key == "" || j >= len(cells) {
				continue
			}
			v := strings.TrimSpace(cells[j])
			data[key] = v
			if v != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		result.TotalRows++

		row, errs := validateRateRow(rowNum, data)
		key := strings.ToLower(row.Name)
		if prev, dup := seen[key]; dup && row.Name != "" {
			errs = append(errs, ImportError{Row: rowNum, Field: "name", Message: fmt.Sprintf("duplicate of row %d", prev)})
		}
		seen[key] = rowNum
		if len(errs) > 0 {
			result.Errors = append(result.Errors, errs...)
			continue
		}
		result.Rows = append(result.Rows, row)
	}
	return result, nil
}

func validateRateRow(rowNum int, data map[string]string) (RateRow, []ImportError) {
	row := RateRow{
		Row:      rowNum,
		Name:     data["name"],
		Capacity: data["capacity"],
		Category: strings.ToLower(data["category"]),
	}
	var errs []ImportError

	err := validation.Errors{
		"name":     validation.Validate(row.Name, validation.Required.Error("is required"), validation.Length(1, 120)),
		"category": validation.Validate(row.Category, validation.In(toAny(EquipmentCategories)...).Error("must be one of "+strings.Join(EquipmentCategories, ", "))),
	}.Filter()
	if ve, ok := err.(validation.Errors); ok {
		for _, field := range []string{"name", "category"} {
			if fe, bad := ve[field]; bad {
				errs = append(errs, ImportError{Row: rowNum, Field: field, Message: fe.Error()})
			}
		}
	}

	values := make(map[string]float64, len(rateKeys))
	for _, k := range rateKeys {
		raw := data[k]
		if raw == "" {
			continue
		}
		v, err := parseAmount(raw)
		if err != nil {
			errs = append(errs, ImportError{Row: rowNum, Field: k, Message: "must be a number"})
			continue
		}
		if v < 0 {
			errs = append(errs, ImportError{Row: rowNum, Field: k, Message: "must be zero or greater"})
			continue
		}
		values[k] = v
	}
	row.Rates = BaseRates{
		Micro:   values["micro_rate"],
		Small:   values["small_rate"],
		Monthly: values["monthly_rate"],
		Yearly:  values["yearly_rate"],
	}
	return row, errs
}

// parseAmount accepts plain numbers as well as "₹1,25,000" style values.
func parseAmount(s string) (float64, error) {
	s = strings.NewReplacer("₹", "", ",", "", " ", "").Replace(s)
	return cast.ToFloat64E(s)
}

// ImportRates upserts parsed rows into the equipment collection, matching
// existing equipment by name (case-insensitive). The whole import runs in one
// transaction.
func ImportRates(app *pocketbase.PocketBase, result *RateImportResult) error {
	if len(result.Errors) > 0 {
		return fmt.Errorf("rate sheet has %d error(s); nothing imported", len(result.Errors))
	}

	return app.RunInTransaction(func(txApp core.App) error {
		col, err := txApp.FindCollectionByNameOrId("equipment")
		if err != nil {
			return fmt.Errorf("could not find equipment collection: %w", err)
		}
		existing, err := txApp.FindAllRecords(col)
		if err != nil {
			return fmt.Errorf("could not query equipment: %w", err)
		}
		byName := make(map[string]*core.Record, len(existing))
		for _, r := range existing {
			byName[strings.ToLower(r.GetString("name"))] = r
		}

		for _, row := range result.Rows {
			rec, found := byName[strings.ToLower(row.Name)]
			if !found {
				rec = core.NewRecord(col)
				rec.Set("status", "available")
			}
			rec.Set("name", row.Name)
			if row.Capacity != "" {
				rec.Set("capacity", row.Capacity)
			}
			if row.Category != "" {
				rec.Set("category", row.Category)
			}
			rec.Set("micro_rate", row.Rates.Micro)
			rec.Set("small_rate", row.Rates.Small)
			rec.Set("monthly_rate", row.Rates.Monthly)
			rec.Set("yearly_rate", row.Rates.Yearly)
			if err := txApp.Save(rec); err != nil {
				return fmt.Errorf("row %d: save %q: %w", row.Row, row.Name, err)
			}
			if found {
				result.Updated++
			} else {
				result.Created++
				byName[strings.ToLower(row.Name)] = rec
			}
		}
		return nil
	})
}

// ReadRateTable parses a rate sheet straight into a RateTable keyed by
// equipment name, for use outside the app (e.g. the quote command).
func ReadRateTable(file io.Reader, fileName string) (RateTable, error) {
	res, err := ParseRateSheet(file, fileName)
	if err != nil {
		return nil, err
	}
	if len(res.Errors) > 0 {
		e := res.Errors[0]
		return nil, fmt.Errorf("rate sheet row %d, %s: %s (%d error(s) total)", e.Row, e.Field, e.Message, len(res.Errors))
	}
	items := make([]EquipmentRate, 0, len(res.Rows))
	for _, r := range res.Rows {
		items = append(items, EquipmentRate{ID: r.Name, Name: r.Name, Capacity: r.Capacity, BaseRates: r.Rates})
	}
	return NewRateTable(items), nil
}

// parseCSV reads a CSV file and returns headers + data rows.
func parseCSV(file io.Reader) ([]string, [][]string, error) {
	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(allRows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return allRows[0], allRows[1:], nil
}

// parseExcel reads an xlsx file and returns headers + data rows from the first sheet.
func parseExcel(file io.Reader) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, nil, fmt.Errorf("file must contain a header row and at least one data row")
	}
	return rows[0], rows[1:], nil
}

// mapHeadersToColumns maps uploaded column headers to column keys.
// Returns ordered list of keys (one per column) and any unrecognized columns.
func mapHeadersToColumns(headers []string, columns []RateSheetColumn) ([]string, []string) {
	labelToKey := make(map[string]string, len(columns)*2)
	for _, c := range columns {
		labelToKey[strings.ToLower(c.Label)] = c.Key
		labelToKey[c.Key] = c.Key
	}

	mapped := make([]string, len(headers))
	var unrecognized []string
	for i, h := range headers {
		norm := strings.ToLower(strings.TrimSpace(h))
		// Strip trailing " *" that the template adds for required columns
		norm = strings.TrimSpace(strings.TrimSuffix(norm, " *"))
		if key, ok := labelToKey[norm]; ok {
			mapped[i] = key
		} else {
			unrecognized = append(unrecognized, h)
		}
	}
	return mapped, unrecognized
}

// columnLetters returns Excel column letters for n columns: A, B, ... Z, AA, AB ...
func columnLetters(n int) []string {
	cols := make([]string, n)
	for i := 0; i < n; i++ {
		name, _ := excelize.ColumnNumberToName(i + 1)
		cols[i] = name
	}
	return cols
}

func toAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
