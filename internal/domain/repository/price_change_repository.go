package repository

import "github.com/jhoicas/Aprobaciones-api/internal/domain/entity"

// PriceChangeRepository define el puerto de persistencia para los cambios de
// precio detectados.
type PriceChangeRepository interface {
	Create(change *entity.PriceChange) error
	GetByID(id string) (*entity.PriceChange, error)
	// UpdateReview persiste review_status, reviewed_by, reviewed_at y notas.
	UpdateReview(change *entity.PriceChange) error
	// ListPending devuelve todos los cambios pendientes, más nuevos primero.
	ListPending() ([]*entity.PriceChange, error)
	ListPendingByInvoice(invoiceID string) ([]*entity.PriceChange, error)
	CountPendingByInvoice(invoiceID string) (int, error)
	// ListHistory devuelve cambios ya revisados; vendorName vacío = todos.
	ListHistory(vendorName string, limit, offset int) ([]*entity.PriceChange, int, error)
	// DeleteByInvoice borra los cambios que referencian la factura como
	// disparadora o como comparada (cascada de eliminación).
	DeleteByInvoice(invoiceID string) error
}
