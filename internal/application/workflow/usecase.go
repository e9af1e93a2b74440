package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Aprobaciones-api/internal/application/dto"
	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/department"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/pricing"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
	wf "github.com/jhoicas/Aprobaciones-api/internal/domain/workflow"
)

// ApprovalUseCase orquesta el flujo de aprobación: codificación, revisión
// departamental (aprobar/rechazar), detección de cambios de precio y su
// resolución. Las validaciones son de solo lectura y ocurren fuera de la
// transacción; las mutaciones van dentro.
type ApprovalUseCase struct {
	txRunner    TxRunner
	invoiceRepo repository.InvoiceRepository
	historyRepo repository.PriceHistoryRepository
	changeRepo  repository.PriceChangeRepository
	resolver    *department.Resolver
}

// NewApprovalUseCase construye el caso de uso.
func NewApprovalUseCase(
	txRunner TxRunner,
	invoiceRepo repository.InvoiceRepository,
	historyRepo repository.PriceHistoryRepository,
	changeRepo repository.PriceChangeRepository,
	resolver *department.Resolver,
) *ApprovalUseCase {
	return &ApprovalUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		historyRepo: historyRepo,
		changeRepo:  changeRepo,
		resolver:    resolver,
	}
}

// CompleteCoding escribe los campos de codificación e impuestos tal cual
// vienen, resuelve el revisor del departamento y pasa la factura a revisión
// departamental con decisión pendiente.
func (uc *ApprovalUseCase) CompleteCoding(ctx context.Context, invoiceID, precoder string, in dto.CompleteCodingRequest) (*dto.InvoiceResponse, error) {
	if in.GLAccount == "" || in.Department == "" {
		return nil, fmt.Errorf("%w: gl_account y department son obligatorios", domain.ErrInvalidInput)
	}

	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if !inv.State.CanTransitionTo(wf.StateDeptReview) {
		return nil, fmt.Errorf("%w: la factura está en %s", domain.ErrConflict, inv.State)
	}

	reviewer, err := uc.resolver.Resolve(in.Department)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	inv.GLAccount = in.GLAccount
	inv.CostCenter = in.CostCenter
	inv.Department = in.Department
	inv.PONumber = in.PONumber
	inv.ReceiptNumber = in.ReceiptNumber
	inv.Precoder = precoder
	inv.PrecodingDate = &now
	inv.PrecodingNotes = in.PrecodingNotes
	// Impuestos verbatim: la codificación es la corrección humana del
	// clasificador, no se revalida.
	inv.GST = in.GST
	inv.PST = in.PST
	inv.HST = in.HST
	inv.QST = in.QST
	inv.TaxNotes = in.TaxNotes

	inv.State = wf.StateDeptReview
	inv.DeptReviewer = reviewer
	inv.DeptAssignedAt = &now
	inv.DeptReviewedAt = nil
	inv.DeptReviewNotes = ""
	inv.DeptDecision = wf.DecisionPending
	inv.LastUpdated = now
	inv.LastUpdatedBy = precoder

	if err := uc.invoiceRepo.UpdateWorkflow(inv); err != nil {
		return nil, fmt.Errorf("update invoice: %w", err)
	}
	return dto.NewInvoiceResponse(inv), nil
}

// Approve registra la decisión del revisor asignado y, en una sola
// transacción, escribe una fila de ledger por cada ítem y corre el detector
// contra la factura previa del proveedor. Con N>0 cambios la factura pasa a
// price_review; con cero queda approved.
func (uc *ApprovalUseCase) Approve(ctx context.Context, invoiceID, reviewer, notes string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.State != wf.StateDeptReview || inv.DeptDecision != wf.DecisionPending {
		return nil, fmt.Errorf("%w: la factura no está pendiente de revisión departamental", domain.ErrConflict)
	}
	if inv.DeptReviewer != reviewer {
		return nil, fmt.Errorf("%w: la revisión está asignada a %s", domain.ErrForbidden, inv.DeptReviewer)
	}

	now := time.Now()
	inv.DeptDecision = wf.DecisionApproved
	inv.DeptReviewedAt = &now
	inv.DeptReviewNotes = notes
	inv.LastUpdated = now
	inv.LastUpdatedBy = reviewer

	err = uc.txRunner.Run(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		historyRepo repository.PriceHistoryRepository,
		changeRepo repository.PriceChangeRepository,
	) error {
		// 1) Ledger: una fila por ítem, escrita exactamente una vez.
		for _, item := range inv.Items {
			row := &entity.PriceHistory{
				InvoiceID:       inv.ID,
				VendorName:      inv.VendorName,
				ItemDescription: item.Description,
				ItemSKU:         item.SKU,
				UnitPrice:       item.UnitPrice,
				Quantity:        item.Quantity,
				Unit:            item.Unit,
				LineTotal:       item.LineTotal,
				InvoiceDate:     inv.InvoiceDate,
				Department:      inv.Department,
			}
			if err := historyRepo.Create(row); err != nil {
				return fmt.Errorf("append price history: %w", err)
			}
		}

		// 2) Detección contra la factura previa del proveedor. Sin previa
		// no es un error: cero cambios.
		prev, err := invoiceRepo.FindPreviousApproved(inv.VendorName, inv.ID)
		if err != nil {
			return fmt.Errorf("find previous invoice: %w", err)
		}
		var prevRows []*entity.PriceHistory
		if prev != nil {
			prevRows, err = historyRepo.ListByInvoice(prev.ID)
			if err != nil {
				return fmt.Errorf("list previous ledger rows: %w", err)
			}
		}
		changes := pricing.Detect(inv, prev, prevRows)
		for _, change := range changes {
			if err := changeRepo.Create(change); err != nil {
				return fmt.Errorf("create price change: %w", err)
			}
		}

		// 3) Enrutamiento por conteo, no por booleano.
		if len(changes) > 0 {
			inv.State = wf.StatePriceReview
			inv.PriceChangesDetected = true
			inv.PriceChangeCount = len(changes)
		} else {
			inv.State = wf.StateApproved
			inv.PriceChangesDetected = false
			inv.PriceChangeCount = 0
		}
		return invoiceRepo.UpdateWorkflow(inv)
	})
	if err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv), nil
}

// Reject registra la decisión de rechazo y devuelve la factura a
// codificación. Los campos de codificación previos se conservan hasta que
// una nueva codificación los sobreescriba.
func (uc *ApprovalUseCase) Reject(ctx context.Context, invoiceID, reviewer, notes string) (*dto.InvoiceResponse, error) {
	if notes == "" {
		return nil, fmt.Errorf("%w: el rechazo requiere notas", domain.ErrInvalidInput)
	}

	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.State != wf.StateDeptReview || inv.DeptDecision != wf.DecisionPending {
		return nil, fmt.Errorf("%w: la factura no está pendiente de revisión departamental", domain.ErrConflict)
	}
	if inv.DeptReviewer != reviewer {
		return nil, fmt.Errorf("%w: la revisión está asignada a %s", domain.ErrForbidden, inv.DeptReviewer)
	}

	now := time.Now()
	inv.DeptDecision = wf.DecisionRejected
	inv.DeptReviewedAt = &now
	inv.DeptReviewNotes = notes
	inv.State = wf.StateCoding
	inv.LastUpdated = now
	inv.LastUpdatedBy = reviewer

	if err := uc.invoiceRepo.UpdateWorkflow(inv); err != nil {
		return nil, fmt.Errorf("update invoice: %w", err)
	}
	return dto.NewInvoiceResponse(inv), nil
}

// ResolvePriceChange resuelve un cambio de precio individual. Si con esto no
// quedan pendientes para la factura, la factura se fuerza a complete.
func (uc *ApprovalUseCase) ResolvePriceChange(ctx context.Context, changeID, reviewer, decision, notes string) (*dto.InvoiceResponse, error) {
	if decision != wf.ReviewAcknowledged && decision != wf.ReviewEscalated {
		return nil, fmt.Errorf("%w: decisión %q no reconocida", domain.ErrInvalidInput, decision)
	}

	change, err := uc.changeRepo.GetByID(changeID)
	if err != nil {
		return nil, fmt.Errorf("get price change: %w", err)
	}
	if change == nil {
		return nil, domain.ErrNotFound
	}
	if change.ReviewStatus != wf.ReviewPending {
		return nil, fmt.Errorf("%w: el cambio ya fue revisado", domain.ErrConflict)
	}

	var inv *entity.Invoice
	err = uc.txRunner.Run(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		_ repository.PriceHistoryRepository,
		changeRepo repository.PriceChangeRepository,
	) error {
		now := time.Now()
		change.ReviewStatus = decision
		change.ReviewedBy = reviewer
		change.ReviewedAt = &now
		change.ReviewNotes = notes
		if err := changeRepo.UpdateReview(change); err != nil {
			return fmt.Errorf("update price change: %w", err)
		}

		inv, err = invoiceRepo.GetByID(change.InvoiceID)
		if err != nil {
			return fmt.Errorf("get invoice: %w", err)
		}
		if inv == nil {
			return domain.ErrNotFound
		}

		pending, err := changeRepo.CountPendingByInvoice(change.InvoiceID)
		if err != nil {
			return fmt.Errorf("count pending changes: %w", err)
		}
		if pending > 0 || inv.State != wf.StatePriceReview {
			return nil
		}
		inv.State = wf.StateComplete
		inv.LastUpdated = now
		inv.LastUpdatedBy = reviewer
		return invoiceRepo.UpdateWorkflow(inv)
	})
	if err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv), nil
}

// ResolvePriceChangesBulk aplica la misma decisión a todos los cambios
// pendientes de una factura en una sola unidad de trabajo y la marca
// complete. Falla si no hay pendientes.
func (uc *ApprovalUseCase) ResolvePriceChangesBulk(ctx context.Context, invoiceID, reviewer, decision, notes string) (*dto.InvoiceResponse, error) {
	if decision != wf.ReviewAcknowledged && decision != wf.ReviewEscalated {
		return nil, fmt.Errorf("%w: decisión %q no reconocida", domain.ErrInvalidInput, decision)
	}

	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}

	err = uc.txRunner.Run(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		_ repository.PriceHistoryRepository,
		changeRepo repository.PriceChangeRepository,
	) error {
		pending, err := changeRepo.ListPendingByInvoice(invoiceID)
		if err != nil {
			return fmt.Errorf("list pending changes: %w", err)
		}
		if len(pending) == 0 {
			return fmt.Errorf("%w: la factura no tiene cambios pendientes", domain.ErrNotFound)
		}

		now := time.Now()
		for _, change := range pending {
			change.ReviewStatus = decision
			change.ReviewedBy = reviewer
			change.ReviewedAt = &now
			change.ReviewNotes = notes
			if err := changeRepo.UpdateReview(change); err != nil {
				return fmt.Errorf("update price change: %w", err)
			}
		}

		inv.State = wf.StateComplete
		inv.LastUpdated = now
		inv.LastUpdatedBy = reviewer
		return invoiceRepo.UpdateWorkflow(inv)
	})
	if err != nil {
		return nil, err
	}
	return dto.NewInvoiceResponse(inv), nil
}

// Delete elimina la factura en cascada: cambios de precio que la referencian
// por cualquiera de los dos lados, filas de ledger e ítems.
func (uc *ApprovalUseCase) Delete(ctx context.Context, invoiceID string) error {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return fmt.Errorf("get invoice: %w", err)
	}
	if inv == nil {
		return domain.ErrNotFound
	}

	return uc.txRunner.Run(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		historyRepo repository.PriceHistoryRepository,
		changeRepo repository.PriceChangeRepository,
	) error {
		if err := changeRepo.DeleteByInvoice(invoiceID); err != nil {
			return fmt.Errorf("delete price changes: %w", err)
		}
		if err := historyRepo.DeleteByInvoice(invoiceID); err != nil {
			return fmt.Errorf("delete ledger rows: %w", err)
		}
		if err := invoiceRepo.Delete(invoiceID); err != nil {
			return fmt.Errorf("delete invoice: %w", err)
		}
		return nil
	})
}
