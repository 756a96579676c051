package service

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/charerimana/agrisense/internal/domain"
)

// ReadingsExportHeader columns of the readings export sheet.
var ReadingsExportHeader = []string{
	"Recorded At",
	"Temperature (°C)",
	"In Range",
}

// GenerateReadingsExport builds an xlsx workbook with one row per reading,
// for download from the dashboard.
func GenerateReadingsExport(farmName string, readings []*domain.SensorReading) ([]byte, error) {
	f := excelize.NewFile()

	sheetName := "Readings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := f.SetCellValue(sheetName, "A1", farmName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write title: %w", err)
	}

	for col, header := range ReadingsExportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 2)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for row, r := range readings {
		values := []any{
			r.RecordedAt.Local().Format(time.DateTime),
			r.Temperature,
			r.IsValid,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+3)
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				f.Close()
				return nil, fmt.Errorf("failed to write row %d: %w", row+1, err)
			}
		}
	}

	_ = f.SetColWidth(sheetName, "A", "C", 22)

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}
