// Package pdf genera el reporte de cambios de precio pendientes para
// gerencia: un documento A4 con los cambios agrupados por proveedor y el
// impacto agregado de cada grupo.
package pdf

import (
	"context"
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

	"github.com/jhoicas/Aprobaciones-api/internal/application/dto"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorUp      = &props.Color{Red: 170, Green: 40, Blue: 40}
	colorDown    = &props.Color{Red: 30, Green: 120, Blue: 60}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// PriceReportGenerator genera el reporte de cambios pendientes usando Maroto v2.
type PriceReportGenerator struct{}

// NewPriceReportGenerator construye el generador.
func NewPriceReportGenerator() *PriceReportGenerator { return &PriceReportGenerator{} }

// GeneratePendingReport genera el PDF y devuelve sus bytes.
func (g *PriceReportGenerator) GeneratePendingReport(_ context.Context, groups []*dto.VendorGroupResponse) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Cambios de precio pendientes", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(groups))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	if len(groups) == 0 {
		m.AddRows(row.New(12).Add(
			col.New(12).Add(text.New("Sin cambios pendientes de revisión.", props.Text{
				Size: 10, Top: 3, Color: colorGray,
			})),
		))
	}
	for _, group := range groups {
		m.AddRows(vendorHeaderRow(group))
		m.AddRows(tableHeaderRow())
		for _, change := range group.Changes {
			m.AddRows(changeRow(change))
		}
		m.AddRows(line.NewRow(2))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(groups []*dto.VendorGroupResponse) core.Row {
	total := 0
	for _, g := range groups {
		total += g.Count
	}
	return row.New(16).Add(
		col.New(8).Add(
			text.New("REPORTE DE CAMBIOS DE PRECIO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%d cambios pendientes en %d proveedores", total, len(groups)), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+time.Now().Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 3, Color: colorGray,
			}),
		),
	)
}

func vendorHeaderRow(group *dto.VendorGroupResponse) core.Row {
	impact := group.TotalImpact
	impactColor := colorUp
	if impact.IsNegative() {
		impactColor = colorDown
	}
	return row.New(10).Add(
		col.New(8).Add(
			text.New(group.VendorName, props.Text{
				Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(4).Add(
			text.New(fmt.Sprintf("Impacto: $%s", impact.StringFixed(2)), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 2, Color: impactColor,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := func(s string, size int) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorGray, Top: 1,
		}))
	}
	return row.New(6).Add(
		header("Producto", 5),
		header("Anterior", 2),
		header("Nuevo", 2),
		header("Dif.", 1),
		header("%", 2),
	)
}

func changeRow(change *dto.PriceChangeResponse) core.Row {
	diffColor := colorUp
	if change.PriceDifference.IsNegative() {
		diffColor = colorDown
	}
	cell := func(s string, size int, color *props.Color) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Top: 1, Color: color}))
	}
	return row.New(6).Add(
		cell(change.ItemDescription, 5, nil),
		cell("$"+change.PreviousPrice.StringFixed(2), 2, nil),
		cell("$"+change.NewPrice.StringFixed(2), 2, nil),
		cell(change.PriceDifference.StringFixed(2), 1, diffColor),
		cell(change.PercentChange.StringFixed(2)+"%", 2, diffColor),
	)
}
