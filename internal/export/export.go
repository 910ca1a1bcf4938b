// Package export writes receipt lists to XLSX workbooks.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/opalaxis/beamsolopex-companion/internal/receipts"
	"github.com/opalaxis/beamsolopex-companion/pkg/models"
	"github.com/xuri/excelize/v2"
)

const (
	SheetReceipts  = "Receipts"
	SheetLocations = "Locations"
)

var ErrGenerate = errors.New("failed to generate workbook")

var (
	receiptHeader = []string{
		"ID", "Receipt date", "Asset", "Received by", "Locations", "Quantity",
		"Unit cost", "Total value", "Currency", "Remarks",
	}
	locationHeader = []string{
		"Receipt ID", "Location", "Quantity", "Licence plate", "Manufacture date",
		"Condition", "Operational status", "Serial numbers", "Tag numbers", "Remarks",
	}
)

// Write renders list as a workbook with one row per receipt on the Receipts
// sheet and one row per receipt location on the Locations sheet.
func Write(w io.Writer, list []models.AssetReceipt, refs receipts.References) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetReceipts); err != nil {
		return fmt.Errorf("%w: %v", ErrGenerate, err)
	}
	if _, err := f.NewSheet(SheetLocations); err != nil {
		return fmt.Errorf("%w: %v", ErrGenerate, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGenerate, err)
	}

	sheets := []struct {
		name   string
		header []string
	}{
		{SheetReceipts, receiptHeader},
		{SheetLocations, locationHeader},
	}
	for _, s := range sheets {
		if err := writeRow(f, s.name, 1, toCells(s.header)); err != nil {
			return err
		}
		last, _ := excelize.ColumnNumberToName(len(s.header))
		if err := f.SetCellStyle(s.name, "A1", last+"1", headerStyle); err != nil {
			return fmt.Errorf("%w: %v", ErrGenerate, err)
		}
		if err := f.SetColWidth(s.name, "A", last, 18); err != nil {
			return fmt.Errorf("%w: %v", ErrGenerate, err)
		}
	}

	locationRow := 2
	for i, r := range list {
		s := receipts.Summarize(r, refs)

		names := make([]string, 0, len(s.Locations))
		for _, line := range s.Locations {
			names = append(names, line.Location)
			row := []interface{}{
				s.ID, line.Location, line.Quantity, line.LicencePlate, line.ManufactureDate,
				line.Condition, line.OperationalStatus,
				strings.Join(line.SerialNumbers, ", "), strings.Join(line.TagNumbers, ", "),
				line.Remarks,
			}
			if err := writeRow(f, SheetLocations, locationRow, row); err != nil {
				return err
			}
			locationRow++
		}

		row := []interface{}{
			s.ID, s.ReceiptDate, s.Asset, s.ReceivedBy, strings.Join(names, ", "),
			s.TotalQuantity, amount(s.UnitCost.Valid, s.UnitCost.Decimal.InexactFloat64()),
			amount(s.TotalValue.Valid, s.TotalValue.Decimal.InexactFloat64()),
			s.Currency, s.Remarks,
		}
		if err := writeRow(f, SheetReceipts, i+2, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("%w: %v", ErrGenerate, err)
	}
	return nil
}

// WriteFile is Write into a newly created file at path.
func WriteFile(path string, list []models.AssetReceipt, refs receipts.References) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(out, list, refs); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGenerate, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("%w: %v", ErrGenerate, err)
	}
	return nil
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

// amount leaves the cell empty for assets without a unit cost.
func amount(valid bool, value float64) interface{} {
	if !valid {
		return ""
	}
	return value
}
