package animals

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"dairy-herd-manager/internal/domain/lifecycle"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Herd"

// ExportHeader son las columnas del registro de rodeo exportado.
var ExportHeader = []string{
	"Tag",
	"Name",
	"Sex",
	"Breed",
	"Birth Date",
	"Age (months)",
	"Source",
	"Production Status",
	"Health Status",
	"Expected Calving",
	"Last Calving",
	"Weight (kg)",
	"Lifecycle",
}

var exportColumnWidths = []float64{16, 18, 8, 16, 12, 12, 16, 18, 18, 16, 14, 12, 10}

// ExportXLSX genera el libro con todos los animales de la granja (activos y dados de baja).
func (s *Service) ExportXLSX(ctx context.Context, farmID string) ([]byte, error) {
	items, err := s.repo.List(ctx, farmID, ListFilter{})
	if err != nil {
		return nil, err
	}
	return buildHerdWorkbook(items, s.now())
}

func buildHerdWorkbook(items []Animal, asOf time.Time) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for col, h := range ExportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return nil, fmt.Errorf("set header %s: %w", cell, err)
		}
	}
	last, _ := excelize.ColumnNumberToName(len(ExportHeader))
	if err := f.SetCellStyle(exportSheet, "A1", last+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("set header style: %w", err)
	}
	for i, w := range exportColumnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(exportSheet, col, col, w); err != nil {
			return nil, err
		}
	}

	for i, a := range items {
		row := []any{
			a.TagNumber,
			a.Name,
			string(a.Sex),
			a.Breed,
			formatDate(a.BirthDate),
			ageCell(a.BirthDate, asOf),
			string(a.Source),
			string(a.ProductionStatus),
			string(a.HealthStatus),
			formatDate(a.ExpectedCalvingDate),
			formatDate(a.LastCalvingDate),
			floatCell(a.WeightKg),
			string(a.Lifecycle),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func ageCell(birth *time.Time, asOf time.Time) any {
	if birth == nil {
		return ""
	}
	return lifecycle.AgeInMonths(*birth, asOf)
}

func floatCell(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}
