package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Aprobaciones-api/internal/application/dto"
	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/tax"
	wf "github.com/jhoicas/Aprobaciones-api/internal/domain/workflow"
)

// CaptureUseCase crea facturas nuevas: desde PDF vía el colaborador de
// análisis de documentos, o digitadas a mano.
type CaptureUseCase struct {
	analyzer DocumentAnalyzer
	txRunner TxRunner
}

// NewCaptureUseCase construye el caso de uso.
func NewCaptureUseCase(analyzer DocumentAnalyzer, txRunner TxRunner) *CaptureUseCase {
	return &CaptureUseCase{analyzer: analyzer, txRunner: txRunner}
}

// CaptureFromPDF analiza el documento, clasifica los impuestos a partir del
// texto reconocido y persiste la factura en estado captured. Si el análisis
// falla no se crea ningún registro.
func (uc *CaptureUseCase) CaptureFromPDF(ctx context.Context, filename string, content []byte, actor string) (*dto.InvoiceResponse, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: documento vacío", domain.ErrInvalidInput)
	}

	analyzed, err := uc.analyzer.Analyze(ctx, filename, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrExternalService, err)
	}

	now := time.Now()
	inv := &entity.Invoice{
		Source:          entity.SourceOCR,
		Filename:        filename,
		VendorName:      analyzed.VendorName,
		InvoiceNumber:   analyzed.InvoiceNumber,
		InvoiceDate:     analyzed.InvoiceDate,
		DueDate:         analyzed.DueDate,
		Currency:        analyzed.Currency,
		Subtotal:        analyzed.Subtotal,
		TaxTotal:        analyzed.TaxTotal,
		Total:           analyzed.Total,
		CustomerName:    analyzed.CustomerName,
		CustomerAddress: analyzed.CustomerAddress,
		VendorAddress:   analyzed.VendorAddress,
		RawText:         analyzed.RawText,
		State:           wf.StateCaptured,
		LastUpdated:     now,
		LastUpdatedBy:   actor,
	}
	for i, it := range analyzed.Items {
		inv.Items = append(inv.Items, entity.LineItem{
			Position:    i,
			Description: it.Description,
			SKU:         it.SKU,
			Unit:        it.Unit,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
			TaxAmount:   it.TaxAmount,
		})
	}

	// Clasificación heurística de impuestos; la codificación la corrige.
	if analyzed.TaxTotal != nil && !analyzed.TaxTotal.IsZero() {
		breakdown := tax.Classify(*analyzed.TaxTotal, analyzed.Subtotal, analyzed.RawText)
		inv.GST = breakdown.GST
		inv.PST = breakdown.PST
		inv.HST = breakdown.HST
		inv.TaxNotes = breakdown.Notes
	}

	err = uc.txRunner.Run(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		_ repository.PriceHistoryRepository,
		_ repository.PriceChangeRepository,
	) error {
		return invoiceRepo.Create(inv)
	})
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	return dto.NewInvoiceResponse(inv), nil
}

// CreateManual crea una factura digitada a mano. Los impuestos llegan ya
// desglosados por el usuario: no se clasifica.
func (uc *CaptureUseCase) CreateManual(ctx context.Context, in dto.CreateInvoiceRequest, actor string) (*dto.InvoiceResponse, error) {
	if in.VendorName == "" {
		return nil, fmt.Errorf("%w: vendor_name es obligatorio", domain.ErrInvalidInput)
	}

	now := time.Now()
	inv := &entity.Invoice{
		Source:          entity.SourceManual,
		VendorName:      in.VendorName,
		InvoiceNumber:   in.InvoiceNumber,
		InvoiceDate:     in.InvoiceDate,
		DueDate:         in.DueDate,
		Currency:        in.Currency,
		Subtotal:        in.Subtotal,
		TaxTotal:        in.TaxTotal,
		Total:           in.Total,
		GST:             in.GST,
		PST:             in.PST,
		HST:             in.HST,
		QST:             in.QST,
		TaxNotes:        in.TaxNotes,
		CustomerName:    in.CustomerName,
		CustomerAddress: in.CustomerAddress,
		VendorAddress:   in.VendorAddress,
		State:           wf.StateCaptured,
		LastUpdated:     now,
		LastUpdatedBy:   actor,
	}
	for i, it := range in.Items {
		inv.Items = append(inv.Items, entity.LineItem{
			Position:    i,
			Description: it.Description,
			SKU:         it.SKU,
			Unit:        it.Unit,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
			TaxAmount:   it.TaxAmount,
		})
	}

	err := uc.txRunner.Run(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		_ repository.PriceHistoryRepository,
		_ repository.PriceChangeRepository,
	) error {
		return invoiceRepo.Create(inv)
	})
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	return dto.NewInvoiceResponse(inv), nil
}
