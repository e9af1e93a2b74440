package repository

import "github.com/jhoicas/Aprobaciones-api/internal/domain/entity"

// InvoiceFilter filtros opcionales de listado. Cadenas vacías = sin filtro.
type InvoiceFilter struct {
	Status string
	Vendor string
	Limit  int
	Offset int
}

// InvoiceRepository define el puerto de persistencia para Invoice y sus ítems.
// Los ítems viven y mueren con la factura: se crean en Create y se borran en
// cascada en Delete.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	List(filter InvoiceFilter) ([]*entity.Invoice, int, error)
	// ListPendingCoding devuelve las facturas en captura o codificación,
	// más antiguas primero.
	ListPendingCoding() ([]*entity.Invoice, error)
	// ListDeptQueue devuelve las facturas en revisión departamental asignadas
	// al revisor, con decisión pendiente.
	ListDeptQueue(reviewer string) ([]*entity.Invoice, error)
	// FindPreviousApproved devuelve la factura más reciente del proveedor
	// (excluyendo excludeID) cuyo status sea approved, price_review o
	// complete; nil si no existe.
	FindPreviousApproved(vendorName, excludeID string) (*entity.Invoice, error)
	// UpdateWorkflow persiste todos los campos mutables de la factura con
	// chequeo optimista: la fila solo se escribe si version coincide con
	// invoice.Version, e incrementa la versión. Devuelve domain.ErrConflict
	// si otro proceso ganó la carrera.
	UpdateWorkflow(invoice *entity.Invoice) error
	Delete(id string) error
}
