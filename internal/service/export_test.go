package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/charerimana/agrisense/internal/domain"
)

func TestGenerateReadingsExport(t *testing.T) {
	sensorID := uuid.NewString()
	recorded := time.Date(2025, 6, 1, 8, 30, 0, 0, time.Local)
	readings := []*domain.SensorReading{
		{ID: 1, SensorID: sensorID, Temperature: 22.5, RecordedAt: recorded, IsValid: true},
		{ID: 2, SensorID: sensorID, Temperature: 45.5, RecordedAt: recorded.Add(time.Hour), IsValid: false},
	}

	raw, err := GenerateReadingsExport("Musanze Farm", readings)
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Readings"}, f.GetSheetList())

	title, err := f.GetCellValue("Readings", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Musanze Farm", title)

	for col, want := range ReadingsExportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 2)
		got, err := f.GetCellValue("Readings", cell)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	when, err := f.GetCellValue("Readings", "A3")
	require.NoError(t, err)
	assert.Equal(t, recorded.Format(time.DateTime), when)
	temp, err := f.GetCellValue("Readings", "B4")
	require.NoError(t, err)
	assert.Equal(t, "45.5", temp)
	valid, err := f.GetCellValue("Readings", "C4")
	require.NoError(t, err)
	assert.Equal(t, "FALSE", valid)
}

func TestGenerateReadingsExport_NoReadings(t *testing.T) {
	raw, err := GenerateReadingsExport("Empty Farm", nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Readings")
	require.NoError(t, err)
	require.Len(t, rows, 2, "title and header rows only")
}
