package repository

import "github.com/jhoicas/Aprobaciones-api/internal/domain/entity"

// PriceHistoryRepository define el puerto del ledger de precios. Solo-añadir:
// no hay Update; las filas se borran únicamente en cascada con su factura.
type PriceHistoryRepository interface {
	Create(row *entity.PriceHistory) error
	ListByInvoice(invoiceID string) ([]*entity.PriceHistory, error)
	ListByVendor(vendorName string, limit int) ([]*entity.PriceHistory, error)
	DeleteByInvoice(invoiceID string) error
}
