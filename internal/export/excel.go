package export

import (
	"github.com/xuri/excelize/v2"

	"roomreviews/internal/domain"
)

const sheetName = "Reviews"

func writeExcel(results []domain.RoomResult, path string) error {
	rows := Flatten(results)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	header := make([]any, 0, len(headerStrings()))
	for _, h := range headerStrings() {
		header = append(header, h)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		cells := row.cells()
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}
