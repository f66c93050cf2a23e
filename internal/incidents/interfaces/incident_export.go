package interfaces

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	incidents "nautilus-one/internal/incidents/domain"
)

// BuildIncidentCSV renders the incident log as CSV.
func BuildIncidentCSV(entries []incidents.Entry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"id", "timestamp", "vessel_id", "module", "level", "severity", "message"}); err != nil {
		return nil, err
	}
	for _, entry := range entries {
		record := []string{
			entry.ID,
			entry.Timestamp.Format(time.RFC3339),
			entry.VesselID,
			entry.Module,
			entry.Level,
			entry.Severity,
			entry.Message,
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildIncidentPDF renders a minimal PDF report of the incident log.
func BuildIncidentPDF(entries []incidents.Entry) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Incident Log")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", time.Now().UTC().Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Entries: %d", len(entries)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(35, 6, "Timestamp", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Module", "1", 0, "C", false, 0, "")
	pdf.CellFormat(25, 6, "Level", "1", 0, "C", false, 0, "")
	pdf.CellFormat(22, 6, "Severity", "1", 0, "C", false, 0, "")
	pdf.CellFormat(160, 6, "Message", "1", 0, "L", false, 0, "")
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, entry := range entries {
		pdf.CellFormat(35, 6, entry.Timestamp.Format("2006-01-02 15:04:05"), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, entry.Module, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 6, entry.Level, "1", 0, "C", false, 0, "")
		pdf.CellFormat(22, 6, entry.Severity, "1", 0, "C", false, 0, "")
		pdf.CellFormat(160, 6, entry.Message, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildIncidentXLSX renders the incident log as a workbook.
func BuildIncidentXLSX(entries []incidents.Entry) ([]byte, error) {
	f := excelize.NewFile()
	sheet := "incidents"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Timestamp", "Vessel", "Module", "Level", "Severity", "Message"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(sheet, cell, header)
	}
	for i, entry := range entries {
		row := i + 2
		_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), entry.ID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), entry.Timestamp.Format(time.RFC3339))
		_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), entry.VesselID)
		_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), entry.Module)
		_ = f.SetCellValue(sheet, fmt.Sprintf("E%d", row), entry.Level)
		_ = f.SetCellValue(sheet, fmt.Sprintf("F%d", row), entry.Severity)
		_ = f.SetCellValue(sheet, fmt.Sprintf("G%d", row), entry.Message)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
