package report

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/orgaudit/modules/orgaudit/services"
)

const summarySheet = "Summary"

var sheetNames = map[services.SectionName]string{
	services.SectionReportingLine: "Reporting line",
	services.SectionOverpaid:      "Overpaid",
	services.SectionUnderpaid:     "Underpaid",
}

// ExportXLSX writes a workbook with a summary sheet and one sheet per
// section to path.
func ExportXLSX(path string, r services.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return errors.Wrap(err, "rename default sheet")
	}
	summary := [][]any{
		{"run_id", r.RunID.String()},
		{"generated_at", r.GeneratedAt.Format("2006-01-02T15:04:05Z07:00")},
		{"source", r.Source},
		{"employees", r.Employees},
		{"max_reporting_depth", r.Thresholds.MaxReportingDepth},
		{"big_ratio", r.Thresholds.BigRatio},
		{"small_ratio", r.Thresholds.SmallRatio},
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return err
	}

	for _, s := range r.Sections {
		name := sheetName(s.Name)
		if _, err := f.NewSheet(name); err != nil {
			return errors.Wrapf(err, "new sheet %q", name)
		}
		if err := writeRows(f, name, sectionRows(s)); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}

func sheetName(n services.SectionName) string {
	if s, ok := sheetNames[n]; ok {
		return s
	}
	return string(n)
}

func sectionRows(s services.Section) [][]any {
	valueCol := "amount"
	if s.Name == services.SectionReportingLine {
		valueCol = "reporting_line"
	}
	rows := [][]any{{"id", "first_name", "last_name", "manager_id", valueCol}}
	if !s.Available {
		return append(rows, []any{NoData, s.Reason})
	}
	for _, e := range s.Entries {
		var manager any
		if e.Employee.ManagerID != nil {
			manager = *e.Employee.ManagerID
		}
		var value any = FormatAmount(e.Value)
		if s.Name == services.SectionReportingLine {
			value = int(e.Value)
		}
		rows = append(rows, []any{e.Employee.ID, e.Employee.FirstName, e.Employee.LastName, manager, value})
	}
	return rows
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return errors.Wrapf(err, "write %s!%s", sheet, cell)
		}
	}
	return nil
}
