// Package excel writes the visit history workbook.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/example/fieldreport/internal/core/visit"
	"github.com/example/fieldreport/internal/ports/secondary"
)

// Sheet names.
const (
	SheetVisits       = "Visitas"
	SheetByClient     = "Por cliente"
	SheetByTechnician = "Por técnico"
)

var visitHeaders = []string{"ID", "Fecha", "Cliente", "Técnico", "Estado", "Atendidos", "Usuarios", "Fotos", "PDF", "Observaciones"}

var visitWidths = []float64{6, 20, 20, 22, 11, 11, 10, 8, 50, 50}

// Exporter implements secondary.HistoryExporter with excelize.
type Exporter struct{}

// NewExporter creates a new workbook exporter.
func NewExporter() *Exporter { return &Exporter{} }

// Export writes one row per visit plus per-client and per-technician totals.
func (e *Exporter) Export(path string, visits []*secondary.VisitRecord, byClient, byTechnician []*secondary.GroupCount) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetVisits)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#0583F2"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeHeader(f, SheetVisits, visitHeaders, visitWidths, header); err != nil {
		return err
	}
	for i, v := range visits {
		attended := 0
		for _, u := range v.UserEntries {
			if u.Attended {
				attended++
			}
		}
		row := []any{
			v.ID, v.Timestamp, v.ClientName, v.TechnicianName, estado(v),
			attended, len(v.UserEntries), len(v.PhotoPaths), v.PDFPath, v.Notes,
		}
		if err := writeRow(f, SheetVisits, i+2, row); err != nil {
			return err
		}
	}
	if err := freezeHeader(f, SheetVisits); err != nil {
		return err
	}

	for _, s := range []struct {
		name   string
		label  string
		counts []*secondary.GroupCount
	}{
		{SheetByClient, "Cliente", byClient},
		{SheetByTechnician, "Técnico", byTechnician},
	} {
		if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("failed to create sheet: %w", err)
		}
		if err := writeHeader(f, s.name, []string{s.label, "Visitas"}, []float64{30, 10}, header); err != nil {
			return err
		}
		for i, c := range s.counts {
			if err := writeRow(f, s.name, i+2, []any{c.Name, c.Count}); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func estado(v *secondary.VisitRecord) string {
	if v.DeliveryState == visit.StateSent {
		return "Enviado"
	}
	return "Pendiente"
}

func writeHeader(f *excelize.File, sheet string, headers []string, widths []float64, style int) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to set header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("failed to set header style: %w", err)
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to convert column number: %w", err)
		}
		if i < len(widths) {
			if err := f.SetColWidth(sheet, col, col, widths[i]); err != nil {
				return fmt.Errorf("failed to set column width: %w", err)
			}
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return fmt.Errorf("failed to convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("failed to set cell %s: %w", cell, err)
		}
	}
	return nil
}

func freezeHeader(f *excelize.File, sheet string) error {
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}
	return nil
}

var _ secondary.HistoryExporter = (*Exporter)(nil)
