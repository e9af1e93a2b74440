package capture

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
)

// AnalyzedItem línea reconocida por el colaborador de análisis de documentos.
// Cualquier campo puede venir vacío o nil si no fue detectado.
type AnalyzedItem struct {
	Description string
	SKU         string
	Unit        string
	Date        string
	Quantity    *decimal.Decimal
	UnitPrice   *decimal.Decimal
	LineTotal   *decimal.Decimal
	TaxAmount   *decimal.Decimal
}

// AnalyzedInvoice registro normalizado que entrega el análisis de documentos.
type AnalyzedInvoice struct {
	VendorName      string
	InvoiceNumber   string
	InvoiceDate     string
	DueDate         string
	Currency        string
	Subtotal        *decimal.Decimal
	TaxTotal        *decimal.Decimal
	Total           *decimal.Decimal
	CustomerName    string
	CustomerAddress string
	VendorAddress   string
	RawText         string
	Items           []AnalyzedItem
}

// DocumentAnalyzer es el colaborador de análisis de documentos (OCR). Su
// fallo se reporta como error de servicio externo, nunca como error del flujo.
type DocumentAnalyzer interface {
	Analyze(ctx context.Context, filename string, content []byte) (*AnalyzedInvoice, error)
}

// TxRunner ejecuta una función dentro de una transacción con los repos del
// flujo; cabecera e ítems se escriben en la misma unidad de trabajo.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		historyRepo repository.PriceHistoryRepository,
		changeRepo repository.PriceChangeRepository,
	) error) error
}
