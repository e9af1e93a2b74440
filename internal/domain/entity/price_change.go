package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceChange es una diferencia de precio detectada entre una factura recién
// aprobada y la factura comparable más reciente del mismo proveedor. La revisa
// gerencia en la etapa 4.
type PriceChange struct {
	ID        string
	CreatedAt time.Time

	InvoiceID         string // factura que disparó la detección
	PreviousInvoiceID string // factura previa contra la que se comparó

	VendorName      string
	ItemDescription string
	ItemSKU         string
	Department      string

	PreviousPrice   decimal.Decimal
	NewPrice        decimal.Decimal
	PriceDifference decimal.Decimal // nuevo − anterior (positivo = subida)
	PercentChange   decimal.Decimal // ej. 11.8 para +11.8%

	PreviousInvoiceDate string
	NewInvoiceDate      string

	ReviewStatus string // pending | acknowledged | escalated
	ReviewedBy   string
	ReviewedAt   *time.Time
	ReviewNotes  string
}
