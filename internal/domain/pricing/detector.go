// Package pricing compara una factura recién aprobada contra el ledger de
// precios de su proveedor y emite los cambios detectados.
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/workflow"
)

// Diferencias menores a esto se consideran ruido de redondeo, no un cambio.
var tolerance = decimal.NewFromFloat(0.001)

var hundred = decimal.NewFromInt(100)

// NormalizeDescription es la clave de empate entre ítems de facturas
// distintas: espacios recortados, minúsculas. Debe coincidir con la
// normalización usada al construir el lookup del ledger.
func NormalizeDescription(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Detect compara los ítems de current contra las filas del ledger de la
// factura previa del mismo proveedor. previous puede ser nil (primera factura
// del proveedor): el resultado es cero cambios, no un error.
//
// Ítems sin precio parseado se ignoran. Ítems sin fila previa equivalente son
// productos nuevos, no cambios. La diferencia y el porcentaje se redondean a
// dos decimales; si el precio previo es exactamente cero el porcentaje es 0.
func Detect(current, previous *entity.Invoice, previousRows []*entity.PriceHistory) []*entity.PriceChange {
	if previous == nil || len(previousRows) == 0 {
		return nil
	}

	prior := make(map[string]*entity.PriceHistory, len(previousRows))
	for _, row := range previousRows {
		prior[NormalizeDescription(row.ItemDescription)] = row
	}

	var changes []*entity.PriceChange
	for _, item := range current.Items {
		if item.UnitPrice == nil {
			continue
		}
		row, ok := prior[NormalizeDescription(item.Description)]
		if !ok || row.UnitPrice == nil {
			continue // producto nuevo para este proveedor
		}

		diff := item.UnitPrice.Sub(*row.UnitPrice)
		if diff.Abs().LessThan(tolerance) {
			continue
		}

		percent := decimal.Zero
		if !row.UnitPrice.IsZero() {
			percent = diff.Div(*row.UnitPrice).Mul(hundred).Round(2)
		}

		changes = append(changes, &entity.PriceChange{
			InvoiceID:           current.ID,
			PreviousInvoiceID:   previous.ID,
			VendorName:          current.VendorName,
			ItemDescription:     item.Description,
			ItemSKU:             item.SKU,
			Department:          current.Department,
			PreviousPrice:       *row.UnitPrice,
			NewPrice:            *item.UnitPrice,
			PriceDifference:     diff.Round(2),
			PercentChange:       percent,
			PreviousInvoiceDate: previous.InvoiceDate,
			NewInvoiceDate:      current.InvoiceDate,
			ReviewStatus:        workflow.ReviewPending,
		})
	}
	return changes
}
