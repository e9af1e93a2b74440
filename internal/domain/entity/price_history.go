package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceHistory es un registro del ledger de precios: una fila por ítem de
// factura, escrita exactamente una vez al aprobarse la factura (o al importar
// histórico pre-aprobado). Solo-añadir: nunca se actualiza; se borra únicamente
// en cascada al eliminar la factura que lo originó.
//
// Clave de empate para el detector: (vendor_name, descripción normalizada).
type PriceHistory struct {
	ID        string
	CreatedAt time.Time

	InvoiceID string // referencia débil a la factura origen

	VendorName      string
	ItemDescription string
	ItemSKU         string

	UnitPrice *decimal.Decimal
	Quantity  *decimal.Decimal
	Unit      string
	LineTotal *decimal.Decimal

	InvoiceDate string
	Department  string
}
