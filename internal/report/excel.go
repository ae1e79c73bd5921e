package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

var summaryHeaders = []string{"Table", "Rows Checked", "Findings"}

var findingHeaders = []string{"Table", "Column", "Row ID", "Concept ID", "Expected Domain", "Actual Domain"}

// ToXLSX renders the report as an Excel workbook: a Summary sheet rolled up
// per table and a Findings sheet with one row per observation.
func (r *Report) ToXLSX() (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeSummarySheet(f, r); err != nil {
		f.Close()
		return nil, err
	}
	if err := writeFindingsSheet(f, r); err != nil {
		f.Close()
		return nil, err
	}
	f.DeleteSheet("Sheet1")
	return f, nil
}

// WriteXLSX writes the workbook to a file.
func (r *Report) WriteXLSX(path string) error {
	f, err := r.ToXLSX()
	if err != nil {
		return err
	}
	defer f.Close()
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write report workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, r *Report) error {
	const sheet = "Summary"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	f.SetActiveSheet(index)

	meta := [][2]any{
		{"Run ID", r.RunID},
		{"Database", r.Database},
		{"Started", r.StartedAt.Format("2006-01-02 15:04:05")},
		{"Finished", r.FinishedAt.Format("2006-01-02 15:04:05")},
		{"Total Findings", r.TotalFindings()},
	}
	for i, kv := range meta {
		if err := setRow(f, sheet, i+1, kv[0], kv[1]); err != nil {
			return err
		}
	}

	headerRow := len(meta) + 2
	if err := setRow(f, sheet, headerRow, anySlice(summaryHeaders)...); err != nil {
		return err
	}
	for i, s := range r.Summaries {
		if err := setRow(f, sheet, headerRow+1+i, s.Table, s.RowsChecked, s.Findings); err != nil {
			return err
		}
	}
	return nil
}

func writeFindingsSheet(f *excelize.File, r *Report) error {
	const sheet = "Findings"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create findings sheet: %w", err)
	}

	if err := setRow(f, sheet, 1, anySlice(findingHeaders)...); err != nil {
		return err
	}
	for i, fd := range r.Findings {
		err := setRow(f, sheet, i+2,
			fd.Table, fd.Column, fd.RowID, fd.ConceptID, fd.Expected, fd.Actual)
		if err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values ...any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set cell %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func anySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
