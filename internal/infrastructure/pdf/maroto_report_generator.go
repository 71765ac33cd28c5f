// Package pdf implementa la generación del acta de conteo de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + NIT  │  Nombre del conteo + Estado        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: fechas, avance, responsables                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Sector | Producto | Esperado | Contado | Diferencia  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: ítems contados / ítems con diferencia              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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

	appcounting "github.com/cloudbpo/conteo-api/internal/application/counting"
	"github.com/cloudbpo/conteo-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator implementa counting.ReportGenerator usando Maroto v2.
type MarotoReportGenerator struct{}

var _ appcounting.ReportGenerator = (*MarotoReportGenerator)(nil)

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateCountingReport genera el acta en PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateCountingReport(
	_ context.Context,
	counting *entity.Counting,
	company *entity.Company,
	products map[string]*entity.Product,
	sectors map[string]*entity.Sector,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Acta de Conteo de Inventario", true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(counting, company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(counting))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableItemRows(counting, products, sectors) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(counting))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar acta: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// statusLabel traduce el estado interno a la etiqueta impresa en el acta.
func statusLabel(status string) string {
	switch status {
	case entity.CountingStatusDraft:
		return "BORRADOR"
	case entity.CountingStatusPending:
		return "PENDIENTE"
	case entity.CountingStatusInProgress:
		return "EN PROGRESO"
	case entity.CountingStatusCompleted:
		return "COMPLETADO"
	case entity.CountingStatusApproved:
		return "APROBADO"
	default:
		return status
	}
}

// headerRow: empresa + NIT (izq) y nombre del conteo + estado (der).
func headerRow(counting *entity.Counting, company *entity.Company) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+nonEmpty(company.TaxID, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("ACTA DE CONTEO DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(counting.Name, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Estado: "+statusLabel(counting.Status), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// summaryRow: fechas y avance del conteo.
func summaryRow(counting *entity.Counting) core.Row {
	fecha := counting.CreatedAt.Format("02/01/2006")
	completado := "—"
	if counting.CompletedAt != nil {
		completado = counting.CompletedAt.Format("02/01/2006 15:04")
	}
	aprobado := "—"
	if counting.ApprovedAt != nil {
		aprobado = counting.ApprovedAt.Format("02/01/2006 15:04")
	}

	return row.New(14).Add(
		col.New(12).Add(
			text.New("RESUMEN", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Creado: %s   |   Completado: %s   |   Aprobado: %s",
				fecha, completado, aprobado,
			), props.Text{Size: 8, Top: 6, Color: colorGray}),
			text.New(fmt.Sprintf("Ítems: %d   |   Contados: %d   |   Avance: %.1f%%",
				len(counting.Items), counting.CountedItems(), counting.CompletionPercent(),
			), props.Text{Size: 8, Top: 11, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de ítems.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Sector", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Esperado", 2, align.Right),
		h("Contado", 2, align.Right),
		h("Diferencia", 2, align.Right),
	)
}

// tableItemRows: una fila por ítem del conteo. Las diferencias distintas de
// cero se imprimen en rojo.
func tableItemRows(counting *entity.Counting, products map[string]*entity.Product, sectors map[string]*entity.Sector) []core.Row {
	result := make([]core.Row, 0, len(counting.Items))
	for _, it := range counting.Items {
		productName := it.ProductID
		if p := products[it.ProductID]; p != nil {
			productName = p.Name
		}
		sectorName := it.SectorID
		if s := sectors[it.SectorID]; s != nil {
			sectorName = s.Name
		}

		contado := "—"
		diferencia := "—"
		diffColor := colorGray
		if diff, ok := it.Difference(); ok {
			contado = it.CountedQty.String()
			diferencia = diff.String()
			if !diff.IsZero() {
				diffColor = colorRed
			}
		}

		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				sectorName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				productName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				it.ExpectedQty.String(),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				contado,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				diferencia,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: diffColor},
			)),
		))
	}
	return result
}

// totalsRow: resumen de ítems contados y con diferencia.
func totalsRow(counting *entity.Counting) core.Row {
	conDiferencia := 0
	for _, it := range counting.Items {
		if diff, ok := it.Difference(); ok && !diff.IsZero() {
			conDiferencia++
		}
	}

	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}

	return row.New(18).Add(
		col.New(4), // espacio izquierdo
		col.New(4).Add(
			label("Ítems contados:"),
			label("Ítems con diferencia:"),
		),
		col.New(4).Add(
			value(fmt.Sprintf("%d de %d", counting.CountedItems(), len(counting.Items))),
			value(fmt.Sprintf("%d", conDiferencia)),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
