// Package excel arma el workbook de exportación del stocktake: una pestaña
// por sección (contados, no contados, pendientes) con las mismas columnas.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/tu-usuario/asset-registry/internal/domain/entity"
)

var reportHeaders = []string{
	"AssetNo", "Description", "Location", "StatusCode",
	"CountMethod", "NoteText", "CountedBy", "CountedAt",
}

// StocktakeWorkbookBuilder implementa stocktake.WorkbookBuilder con excelize.
type StocktakeWorkbookBuilder struct{}

// NewStocktakeWorkbookBuilder construye el exportador.
func NewStocktakeWorkbookBuilder() *StocktakeWorkbookBuilder {
	return &StocktakeWorkbookBuilder{}
}

// Build genera el xlsx de tres pestañas y devuelve sus bytes.
func (b *StocktakeWorkbookBuilder) Build(plantID string, year int, counted, notCounted, pending []entity.StocktakeReportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sections := []struct {
		name string
		rows []entity.StocktakeReportRow
	}{
		{"Contados", counted},
		{"No contados", notCounted},
		{"Pendientes", pending},
	}

	for i, sec := range sections {
		if i == 0 {
			// excelize crea "Sheet1" por defecto; la renombramos.
			if err := f.SetSheetName("Sheet1", sec.name); err != nil {
				return nil, fmt.Errorf("excel: renombrar hoja: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sec.name); err != nil {
				return nil, fmt.Errorf("excel: crear hoja %q: %w", sec.name, err)
			}
		}
		if err := writeSheet(f, sec.name, sec.rows); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: serializar workbook stocktake %d planta %s: %w", year, plantID, err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, rows []entity.StocktakeReportRow) error {
	for c, h := range reportHeaders {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return fmt.Errorf("excel: celda de cabecera: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("excel: escribir cabecera %q: %w", h, err)
		}
	}

	for r, row := range rows {
		countedAt := ""
		if row.CountedAt != nil {
			countedAt = row.CountedAt.UTC().Format("2006-01-02 15:04:05")
		}
		values := []any{
			row.AssetNo, row.Description, row.Location, row.StatusCode,
			row.CountMethod, row.NoteText, row.CountedBy, countedAt,
		}
		for c, v := range values {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return fmt.Errorf("excel: celda de dato: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("excel: escribir fila %d de %q: %w", r+2, sheet, err)
			}
		}
	}
	return nil
}
