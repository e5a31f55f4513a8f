package export

import (
	"fmt"
	"io"

	"spendo/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	FileName  = "Spando_expenses.xlsx"
	SheetName = "Expenses"

	timestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Headers are the exported columns. The record id is not exported.
var Headers = []string{"title", "type", "date", "category", "amount", "description", "createdAt", "updatedAt"}

// WriteXLSX writes one row per record, in the given order, after a header row.
func WriteXLSX(w io.Writer, records []*models.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(Headers))
	for i, h := range Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			r.Title,
			string(r.Type),
			r.Date.UTC().Format(timestampLayout),
			r.Category,
			r.Amount,
			r.Description,
			r.CreatedAt.UTC().Format(timestampLayout),
			r.UpdatedAt.UTC().Format(timestampLayout),
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
