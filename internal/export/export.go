// Package export writes a day view to an Excel workbook.
package export

import (
	"fmt"
	"os"
	"path/filepath"

	"mapache/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Agenda"

var headers = []string{"Hora", "Cliente", "Teléfono", "Barbero", "Servicio", "Costo"}

// DayView writes the appointments of date to <dir>/agenda_<date>.xlsx in
// the order given and returns the file path.
func DayView(dir, date string, appointments []models.Appointment) (string, error) {
	if _, err := models.ParseDate(date); err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	_ = f.SetCellValue(sheetName, "A1", "Agenda del "+date)
	_ = f.MergeCell(sheetName, "A1", "F1")
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, h)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	row := 3
	var total float64
	for _, a := range appointments {
		values := []interface{}{a.Time, a.Client.Name, a.Client.Phone, a.Barber.Name, a.Service.Description, a.Service.Cost}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
		total += a.Service.Cost
		row++
	}

	totalLabel, _ := excelize.CoordinatesToCellName(5, row)
	totalCell, _ := excelize.CoordinatesToCellName(6, row)
	_ = f.SetCellValue(sheetName, totalLabel, "Total")
	_ = f.SetCellValue(sheetName, totalCell, total)

	_ = f.SetColWidth(sheetName, "A", "A", 12)
	_ = f.SetColWidth(sheetName, "B", "E", 22)
	_ = f.SetColWidth(sheetName, "F", "F", 10)

	filePath := filepath.Join(dir, fmt.Sprintf("agenda_%s.xlsx", date))
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}
	return filePath, nil
}
