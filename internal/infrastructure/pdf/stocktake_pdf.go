// Package pdf genera el resumen imprimible del stocktake anual: totales por
// estado de conteo de una planta, pensado para firmarse al cierre del año.
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/tu-usuario/asset-registry/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// statusLabels etiquetas legibles para los códigos canónicos de estado.
var statusLabels = map[string]string{
	"COUNTED":     "Contados",
	"NOT_COUNTED": "No contados",
	"PENDING":     "Pendientes",
	"OTHER":       "Otros",
}

// MarotoSummaryBuilder implementa stocktake.SummaryPDFBuilder usando Maroto v2.
type MarotoSummaryBuilder struct{}

// NewMarotoSummaryBuilder construye el generador.
func NewMarotoSummaryBuilder() *MarotoSummaryBuilder { return &MarotoSummaryBuilder{} }

// Build genera el PDF de resumen y devuelve sus bytes.
func (g *MarotoSummaryBuilder) Build(plantID string, year int, summary []entity.StocktakeSummary) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Inventario Físico %d", year), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(plantID, year))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	total := 0
	for _, s := range summary {
		total += s.Total
		m.AddRows(summaryRow(s))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(total))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar resumen de stocktake: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título del reporte (izq) y planta + fecha de corte (der).
func headerRow(plantID string, year int) core.Row {
	corte := time.Now().UTC().Format("02/01/2006 15:04 UTC")
	return row.New(16).Add(
		col.New(7).Add(
			text.New(fmt.Sprintf("INVENTARIO FÍSICO %d", year), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Resumen por estado de conteo", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Planta: "+plantID, props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Corte: "+corte, props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera Estado | Total.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Estado", 8, align.Left),
		h("Activos", 4, align.Right),
	)
}

// summaryRow: una fila por estado de conteo.
func summaryRow(s entity.StocktakeSummary) core.Row {
	label := s.StatusCode
	if pretty, ok := statusLabels[s.StatusCode]; ok {
		label = fmt.Sprintf("%s (%s)", pretty, s.StatusCode)
	}
	return row.New(7).Add(
		col.New(8).Add(text.New(label, props.Text{
			Size: 9, Align: align.Left, Top: 1, Left: 1,
		})),
		col.New(4).Add(text.New(fmt.Sprintf("%d", s.Total), props.Text{
			Size: 9, Align: align.Right, Top: 1, Right: 1,
		})),
	)
}

// totalRow: gran total al pie de la tabla.
func totalRow(total int) core.Row {
	return row.New(9).Add(
		col.New(8).Add(text.New("TOTAL", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Left,
			Color: colorPrimary, Top: 1, Left: 1,
		})),
		col.New(4).Add(text.New(fmt.Sprintf("%d", total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Top: 1, Right: 1,
		})),
	)
}
