package finance

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Export row format shared by the CSV and XLSX exports:
// date, category, description, type, amount, studio_share, artist_share.
var exportHeader = []string{
	"date", "category", "description", "type", "amount", "studio_share", "artist_share",
}

func exportRecord(row TransactionRow) []string {
	return []string{
		row.Date.Format("2006-01-02"),
		row.Category,
		row.Description,
		row.Type,
		row.Amount.StringFixed(2),
		row.StudioShare.StringFixed(2),
		row.ArtistShare.StringFixed(2),
	}
}

// WriteCSV streams the export rows. Rounding happens here, at presentation,
// never during aggregation.
func WriteCSV(w io.Writer, rows []TransactionRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(exportRecord(row)); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// BuildWorkbook renders the same rows as an XLSX sheet.
func BuildWorkbook(rows []TransactionRow) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Transactions"

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for col, name := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return nil, err
		}
	}

	for i, row := range rows {
		for col, value := range exportRecord(row) {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}

// ExportFilename names a download for the selected period.
func ExportFilename(ext string) string {
	return fmt.Sprintf("financials_export.%s", ext)
}
