package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Tiliavir/collection-log-advisor/internal/estimate"
	"github.com/Tiliavir/collection-log-advisor/internal/timecalc"
)

const sheetName = "Completion times"

// WriteXLSX writes the rows as a single-sheet workbook.
func WriteXLSX(w io.Writer, rows []estimate.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if err := writeHeader(f); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, r := range rows {
		row := []interface{}{
			r.Activity,
			r.CompletionsPerHour,
			timecalc.FormatDays(r.Time),
			r.FastestName,
			timecalc.FormatDays(r.FastestTime),
			r.Obtained,
			r.Total,
			r.Disabled,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	for col := 1; col <= len(header); col++ {
		name, _ := excelize.ColumnNumberToName(col)
		if err := f.SetColWidth(sheetName, name, name, 20); err != nil {
			return fmt.Errorf("sizing columns: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File) error {
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return err
	}
	for col, h := range header {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheetName, cell, cell, style); err != nil {
			return err
		}
	}
	return f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}
