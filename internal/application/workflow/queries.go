package workflow

import (
	"context"
	"fmt"

	"github.com/jhoicas/Aprobaciones-api/internal/application/dto"
	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
)

// GetInvoice devuelve la proyección completa de una factura.
func (uc *ApprovalUseCase) GetInvoice(ctx context.Context, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return dto.NewInvoiceResponse(inv), nil
}

// ListInvoices listado paginado con filtros opcionales por status y proveedor.
func (uc *ApprovalUseCase) ListInvoices(ctx context.Context, status, vendor string, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	page.DefaultPage()
	invoices, total, err := uc.invoiceRepo.List(repository.InvoiceFilter{
		Status: status,
		Vendor: vendor,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	items := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		items = append(items, dto.NewInvoiceResponse(inv))
	}
	return &dto.InvoiceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// ListPendingCoding facturas esperando codificación (etapas 1 y 2), más
// antiguas primero.
func (uc *ApprovalUseCase) ListPendingCoding(ctx context.Context) ([]*dto.InvoiceResponse, error) {
	invoices, err := uc.invoiceRepo.ListPendingCoding()
	if err != nil {
		return nil, fmt.Errorf("list pending coding: %w", err)
	}
	items := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		items = append(items, dto.NewInvoiceResponse(inv))
	}
	return items, nil
}

// ListDeptQueue cola de revisión departamental del revisor.
func (uc *ApprovalUseCase) ListDeptQueue(ctx context.Context, reviewer string) ([]*dto.InvoiceResponse, error) {
	invoices, err := uc.invoiceRepo.ListDeptQueue(reviewer)
	if err != nil {
		return nil, fmt.Errorf("list dept queue: %w", err)
	}
	items := make([]*dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		items = append(items, dto.NewInvoiceResponse(inv))
	}
	return items, nil
}

// ListPendingPriceChanges cambios pendientes agrupados por proveedor con el
// impacto agregado. Los grupos conservan el orden de los cambios (más nuevos
// primero).
func (uc *ApprovalUseCase) ListPendingPriceChanges(ctx context.Context) ([]*dto.VendorGroupResponse, error) {
	pending, err := uc.changeRepo.ListPending()
	if err != nil {
		return nil, fmt.Errorf("list pending changes: %w", err)
	}

	byVendor := make(map[string]*dto.VendorGroupResponse)
	var groups []*dto.VendorGroupResponse
	for _, change := range pending {
		group, ok := byVendor[change.VendorName]
		if !ok {
			group = &dto.VendorGroupResponse{VendorName: change.VendorName}
			byVendor[change.VendorName] = group
			groups = append(groups, group)
		}
		group.Count++
		group.TotalImpact = group.TotalImpact.Add(change.PriceDifference)
		group.Changes = append(group.Changes, dto.NewPriceChangeResponse(change))
	}
	return groups, nil
}

// ListPriceChangeHistory historial de cambios ya revisados; vendor vacío
// devuelve todos.
func (uc *ApprovalUseCase) ListPriceChangeHistory(ctx context.Context, vendor string, page dto.PageRequest) (*dto.PriceChangeListResponse, error) {
	page.DefaultPage()
	changes, total, err := uc.changeRepo.ListHistory(vendor, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list change history: %w", err)
	}
	items := make([]*dto.PriceChangeResponse, 0, len(changes))
	for _, change := range changes {
		items = append(items, dto.NewPriceChangeResponse(change))
	}
	return &dto.PriceChangeListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}
