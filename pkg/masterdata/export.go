package masterdata

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	SheetCatalogs = "Catalogs"
	SheetRanges   = "Nutrient Ranges"
	SheetBands    = "N-Tester Mappings"
)

// WriteWorkbook renders doc as an XLSX workbook. Its range and band sheets
// read back through ReadRecords with SheetRanges and SheetBands.
func WriteWorkbook(w io.Writer, doc *Document) error {
	x := excelize.NewFile()
	defer x.Close()

	if err := x.SetSheetName("Sheet1", SheetCatalogs); err != nil {
		return err
	}
	if err := setRow(x, SheetCatalogs, 1, "Crop", "Plant Part", "Cultivation Type"); err != nil {
		return err
	}
	for i, lists := 0, [][]string{doc.Crops, doc.PlantParts, doc.CultivationTypes}; i < len(lists); i++ {
		for j, name := range lists[i] {
			ref, err := excelize.CoordinatesToCellName(i+1, j+2)
			if err != nil {
				return err
			}
			if err := x.SetCellValue(SheetCatalogs, ref, name); err != nil {
				return err
			}
		}
	}

	if _, err := x.NewSheet(SheetRanges); err != nil {
		return err
	}
	row := 1
	if err := setRow(x, SheetRanges, row, "Crop", "Plant Part", "Nutrient", "Low Grade", "High Grade", "Unit"); err != nil {
		return err
	}
	for _, t := range doc.NutrientRanges {
		for _, r := range t.Ranges {
			row++
			if err := setRow(x, SheetRanges, row, t.Crop, t.PlantPart, r.Nutrient, r.LowGrade, r.HighGrade, string(r.Unit)); err != nil {
				return err
			}
		}
	}

	if _, err := x.NewSheet(SheetBands); err != nil {
		return err
	}
	row = 1
	if err := setRow(x, SheetBands, row, "Crop", "Cultivation Type", "Min Reading", "Max Reading", "N Top-up (kg N/ha)"); err != nil {
		return err
	}
	for _, t := range doc.BandTables {
		for _, b := range t.Bands {
			row++
			if err := setRow(x, SheetBands, row, t.Crop, t.CultivationType, b.MinReading, b.MaxReading, b.TopUp); err != nil {
				return err
			}
		}
	}

	if err := x.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(x *excelize.File, sheet string, row int, values ...interface{}) error {
	ref, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return x.SetSheetRow(sheet, ref, &values)
}
