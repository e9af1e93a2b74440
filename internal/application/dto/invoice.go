package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

// LineItemPayload línea de factura en requests y respuestas.
type LineItemPayload struct {
	Position    int              `json:"position"`
	Description string           `json:"description"`
	SKU         string           `json:"sku,omitempty"`
	Unit        string           `json:"unit,omitempty"`
	Quantity    *decimal.Decimal `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	LineTotal   *decimal.Decimal `json:"line_total"`
	TaxAmount   *decimal.Decimal `json:"tax_amount"`
}

// CreateInvoiceRequest alta manual de una factura (sin OCR).
type CreateInvoiceRequest struct {
	VendorName      string            `json:"vendor_name" validate:"required"`
	InvoiceNumber   string            `json:"invoice_number"`
	InvoiceDate     string            `json:"invoice_date"`
	DueDate         string            `json:"due_date"`
	Currency        string            `json:"currency"`
	Subtotal        *decimal.Decimal  `json:"subtotal"`
	TaxTotal        *decimal.Decimal  `json:"tax_total"`
	Total           *decimal.Decimal  `json:"total"`
	GST             *decimal.Decimal  `json:"gst_amount"`
	PST             *decimal.Decimal  `json:"pst_amount"`
	HST             *decimal.Decimal  `json:"hst_amount"`
	QST             *decimal.Decimal  `json:"qst_amount"`
	TaxNotes        string            `json:"tax_notes"`
	CustomerName    string            `json:"customer_name"`
	CustomerAddress string            `json:"customer_address"`
	VendorAddress   string            `json:"vendor_address"`
	Items           []LineItemPayload `json:"items"`
}

// InvoiceResponse proyección completa de la factura; es lo que devuelven
// todas las operaciones del flujo.
type InvoiceResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Source    string    `json:"source"`
	Filename  string    `json:"filename,omitempty"`

	VendorName    string           `json:"vendor_name"`
	InvoiceNumber string           `json:"invoice_number"`
	InvoiceDate   string           `json:"invoice_date"`
	DueDate       string           `json:"due_date,omitempty"`
	Currency      string           `json:"currency,omitempty"`
	Subtotal      *decimal.Decimal `json:"subtotal"`
	TaxTotal      *decimal.Decimal `json:"tax_total"`
	Total         *decimal.Decimal `json:"total"`

	GST      *decimal.Decimal `json:"gst_amount"`
	PST      *decimal.Decimal `json:"pst_amount"`
	HST      *decimal.Decimal `json:"hst_amount"`
	QST      *decimal.Decimal `json:"qst_amount"`
	TaxNotes string           `json:"tax_notes,omitempty"`

	CustomerName    string `json:"customer_name,omitempty"`
	CustomerAddress string `json:"customer_address,omitempty"`
	VendorAddress   string `json:"vendor_address,omitempty"`

	Items []LineItemPayload `json:"items"`

	Stage   int    `json:"stage"`
	Status  string `json:"status"`
	Version int64  `json:"version"`

	GLAccount      string     `json:"gl_account,omitempty"`
	CostCenter     string     `json:"cost_center,omitempty"`
	Department     string     `json:"department,omitempty"`
	PONumber       string     `json:"po_number,omitempty"`
	ReceiptNumber  string     `json:"receipt_number,omitempty"`
	Precoder       string     `json:"precoder,omitempty"`
	PrecodingDate  *time.Time `json:"precoding_date,omitempty"`
	PrecodingNotes string     `json:"precoding_notes,omitempty"`

	DeptReviewer    string     `json:"dept_reviewer,omitempty"`
	DeptAssignedAt  *time.Time `json:"dept_assigned_at,omitempty"`
	DeptReviewedAt  *time.Time `json:"dept_reviewed_at,omitempty"`
	DeptReviewNotes string     `json:"dept_review_notes,omitempty"`
	DeptDecision    string     `json:"dept_decision,omitempty"`

	PriceChangesDetected bool `json:"price_changes_detected"`
	PriceChangeCount     int  `json:"price_change_count"`

	LastUpdated   time.Time `json:"last_updated"`
	LastUpdatedBy string    `json:"last_updated_by,omitempty"`
}

// InvoiceListResponse listado paginado de facturas.
type InvoiceListResponse struct {
	Items []*InvoiceResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// NewInvoiceResponse convierte la entidad a su proyección de respuesta.
func NewInvoiceResponse(inv *entity.Invoice) *InvoiceResponse {
	items := make([]LineItemPayload, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, LineItemPayload{
			Position:    it.Position,
			Description: it.Description,
			SKU:         it.SKU,
			Unit:        it.Unit,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
			TaxAmount:   it.TaxAmount,
		})
	}
	return &InvoiceResponse{
		ID:                   inv.ID,
		CreatedAt:            inv.CreatedAt,
		Source:               inv.Source,
		Filename:             inv.Filename,
		VendorName:           inv.VendorName,
		InvoiceNumber:        inv.InvoiceNumber,
		InvoiceDate:          inv.InvoiceDate,
		DueDate:              inv.DueDate,
		Currency:             inv.Currency,
		Subtotal:             inv.Subtotal,
		TaxTotal:             inv.TaxTotal,
		Total:                inv.Total,
		GST:                  inv.GST,
		PST:                  inv.PST,
		HST:                  inv.HST,
		QST:                  inv.QST,
		TaxNotes:             inv.TaxNotes,
		CustomerName:         inv.CustomerName,
		CustomerAddress:      inv.CustomerAddress,
		VendorAddress:        inv.VendorAddress,
		Items:                items,
		Stage:                inv.State.Stage(),
		Status:               inv.State.Status(),
		Version:              inv.Version,
		GLAccount:            inv.GLAccount,
		CostCenter:           inv.CostCenter,
		Department:           inv.Department,
		PONumber:             inv.PONumber,
		ReceiptNumber:        inv.ReceiptNumber,
		Precoder:             inv.Precoder,
		PrecodingDate:        inv.PrecodingDate,
		PrecodingNotes:       inv.PrecodingNotes,
		DeptReviewer:         inv.DeptReviewer,
		DeptAssignedAt:       inv.DeptAssignedAt,
		DeptReviewedAt:       inv.DeptReviewedAt,
		DeptReviewNotes:      inv.DeptReviewNotes,
		DeptDecision:         inv.DeptDecision,
		PriceChangesDetected: inv.PriceChangesDetected,
		PriceChangeCount:     inv.PriceChangeCount,
		LastUpdated:          inv.LastUpdated,
		LastUpdatedBy:        inv.LastUpdatedBy,
	}
}
