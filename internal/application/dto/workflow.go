package dto

import "github.com/shopspring/decimal"

// CompleteCodingRequest campos de codificación contable + corrección de
// impuestos. Los impuestos se escriben tal cual (sin revalidar rangos).
type CompleteCodingRequest struct {
	GLAccount      string `json:"gl_account" validate:"required"`
	CostCenter     string `json:"cost_center"`
	Department     string `json:"department" validate:"required"`
	PONumber       string `json:"po_number"`
	ReceiptNumber  string `json:"receipt_number"`
	PrecodingNotes string `json:"precoding_notes"`

	GST      *decimal.Decimal `json:"gst_amount"`
	PST      *decimal.Decimal `json:"pst_amount"`
	HST      *decimal.Decimal `json:"hst_amount"`
	QST      *decimal.Decimal `json:"qst_amount"`
	TaxNotes string           `json:"tax_notes"`
}

// ApproveRequest aprobación departamental.
type ApproveRequest struct {
	Notes string `json:"notes"`
}

// RejectRequest rechazo departamental; las notas explican el motivo.
type RejectRequest struct {
	Notes string `json:"notes" validate:"required"`
}

// ResolveChangeRequest resolución de un cambio de precio individual.
type ResolveChangeRequest struct {
	Decision string `json:"decision" validate:"required,oneof=acknowledged escalated"`
	Notes    string `json:"notes"`
}

// BulkResolveRequest resolución masiva de los cambios pendientes de una factura.
type BulkResolveRequest struct {
	Decision string `json:"decision" validate:"required,oneof=acknowledged escalated"`
	Notes    string `json:"notes"`
}
