package admin

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ExportFilename is the suggested name for the spreadsheet export.
const ExportFilename = "contact_submissions.xlsx"

// exportSheet names the single worksheet in the export.
const exportSheet = "Submissions"

// exportDateLayout renders submission dates in the spreadsheet.
const exportDateLayout = "2006-01-02 15:04:05"

var exportHeader = []interface{}{"Name", "Email", "Phone", "Message", "Date"}

// ExportXLSX writes the visible submissions, in the active sort order, as an
// Excel workbook.
func (d *Dashboard) ExportXLSX(w io.Writer) error {
	rows := d.Rows()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return fmt.Errorf("failed to name worksheet: %w", err)
	}

	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, c := range rows {
		phone := c.Phone
		if phone == "" {
			phone = "N/A"
		}

		date := c.Date
		if t, ok := parseDate(c.Date); ok {
			date = t.UTC().Format(exportDateLayout)
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{c.Name, c.Email, phone, c.Message, date}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	d.logger.Info().Int("rows", len(rows)).Msg("submissions exported")

	return nil
}
