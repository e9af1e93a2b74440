package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

// PriceChangeResponse un cambio de precio detectado.
type PriceChangeResponse struct {
	ID                  string          `json:"id"`
	CreatedAt           time.Time       `json:"created_at"`
	InvoiceID           string          `json:"invoice_id"`
	PreviousInvoiceID   string          `json:"previous_invoice_id"`
	VendorName          string          `json:"vendor_name"`
	ItemDescription     string          `json:"item_description"`
	ItemSKU             string          `json:"item_sku,omitempty"`
	Department          string          `json:"department,omitempty"`
	PreviousPrice       decimal.Decimal `json:"previous_price"`
	NewPrice            decimal.Decimal `json:"new_price"`
	PriceDifference     decimal.Decimal `json:"price_difference"`
	PercentChange       decimal.Decimal `json:"percent_change"`
	PreviousInvoiceDate string          `json:"previous_invoice_date,omitempty"`
	NewInvoiceDate      string          `json:"new_invoice_date,omitempty"`
	ReviewStatus        string          `json:"review_status"`
	ReviewedBy          string          `json:"reviewed_by,omitempty"`
	ReviewedAt          *time.Time      `json:"reviewed_at,omitempty"`
	ReviewNotes         string          `json:"review_notes,omitempty"`
}

// VendorGroupResponse cambios pendientes agrupados por proveedor, con el
// impacto agregado (suma de diferencias) para priorizar la revisión.
type VendorGroupResponse struct {
	VendorName  string                 `json:"vendor_name"`
	Count       int                    `json:"count"`
	TotalImpact decimal.Decimal        `json:"total_impact"`
	Changes     []*PriceChangeResponse `json:"changes"`
}

// PriceChangeListResponse historial paginado de cambios revisados.
type PriceChangeListResponse struct {
	Items []*PriceChangeResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// NewPriceChangeResponse convierte la entidad a su proyección de respuesta.
func NewPriceChangeResponse(c *entity.PriceChange) *PriceChangeResponse {
	return &PriceChangeResponse{
		ID:                  c.ID,
		CreatedAt:           c.CreatedAt,
		InvoiceID:           c.InvoiceID,
		PreviousInvoiceID:   c.PreviousInvoiceID,
		VendorName:          c.VendorName,
		ItemDescription:     c.ItemDescription,
		ItemSKU:             c.ItemSKU,
		Department:          c.Department,
		PreviousPrice:       c.PreviousPrice,
		NewPrice:            c.NewPrice,
		PriceDifference:     c.PriceDifference,
		PercentChange:       c.PercentChange,
		PreviousInvoiceDate: c.PreviousInvoiceDate,
		NewInvoiceDate:      c.NewInvoiceDate,
		ReviewStatus:        c.ReviewStatus,
		ReviewedBy:          c.ReviewedBy,
		ReviewedAt:          c.ReviewedAt,
		ReviewNotes:         c.ReviewNotes,
	}
}
