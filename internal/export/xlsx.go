package export

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/leadscout/leadscout/internal/model"
)

// EncodeXLSX writes records as a single-sheet workbook with the same column
// order as the CSV export. Cells go through the same sanitizer so a sheet
// later re-saved as CSV stays injection-safe.
func EncodeXLSX(w io.Writer, records []model.BusinessRecord) error {
	if len(records) == 0 {
		return ErrNoRecords
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Leads")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	headerRow := sheet.AddRow()
	for _, col := range header {
		headerRow.AddCell().SetString(col)
	}

	for i := range records {
		row := sheet.AddRow()
		for _, cell := range recordCells(&records[i]) {
			row.AddCell().SetString(sanitizeCell(cell))
		}
	}

	if err := file.Write(w); err != nil {
		return eris.Wrap(err, "export: write workbook")
	}
	return nil
}
