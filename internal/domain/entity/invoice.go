package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/workflow"
)

// Origen de una factura.
const (
	SourceOCR    = "ocr"    // capturada desde PDF vía análisis de documentos
	SourceManual = "manual" // digitada a mano
	SourceImport = "import" // importación masiva de histórico (pre-aprobada)
)

// Invoice es la factura de proveedor que avanza por el flujo de aprobación.
// Los montos usan decimal; los campos numéricos opcionales son punteros
// (nil = no detectado por el OCR), parseados una sola vez en la ingesta.
type Invoice struct {
	ID        string
	CreatedAt time.Time
	Source    string // ocr | manual | import
	Filename  string

	// Datos de origen (tal como los entrega el colaborador de análisis)
	VendorName    string
	InvoiceNumber string
	InvoiceDate   string // texto libre, tal cual viene del documento
	DueDate       string
	Currency      string
	Subtotal      *decimal.Decimal
	TaxTotal      *decimal.Decimal
	Total         *decimal.Decimal

	// Desglose de impuestos canadienses. GST/PST concurren; HST los excluye en
	// la práctica aunque no se fuerza. Todos editables durante la codificación.
	GST      *decimal.Decimal
	PST      *decimal.Decimal
	HST      *decimal.Decimal
	QST      *decimal.Decimal
	TaxNotes string

	CustomerName    string
	CustomerAddress string
	VendorAddress   string
	RawText         string // texto reconocido completo (entrada del clasificador)

	// Ítems: secuencia ordenada, propiedad de la factura (se crean y borran
	// con ella). Inmutables a partir de la revisión departamental.
	Items []LineItem

	// Posición en el flujo + contador de versión para concurrencia optimista.
	State   workflow.State
	Version int64

	// Codificación (etapa 2)
	GLAccount      string
	CostCenter     string
	Department     string
	PONumber       string
	ReceiptNumber  string
	Precoder       string
	PrecodingDate  *time.Time
	PrecodingNotes string

	// Revisión departamental (etapa 3)
	DeptReviewer    string
	DeptAssignedAt  *time.Time
	DeptReviewedAt  *time.Time
	DeptReviewNotes string
	DeptDecision    string // pending | approved | rejected

	// Resumen de revisión de precios (etapa 4)
	PriceChangesDetected bool
	PriceChangeCount     int

	// Auditoría
	LastUpdated   time.Time
	LastUpdatedBy string
}

// LineItem es una línea de la factura. No tiene identidad propia: vive y
// muere con su factura.
type LineItem struct {
	Position    int
	Description string
	SKU         string
	Unit        string
	Quantity    *decimal.Decimal
	UnitPrice   *decimal.Decimal
	LineTotal   *decimal.Decimal
	TaxAmount   *decimal.Decimal
}
