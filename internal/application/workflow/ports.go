package workflow

import (
	"context"

	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye los
// repos del flujo de aprobación. Si fn retorna error se hace rollback
// completo: ninguna escritura parcial sobrevive.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		historyRepo repository.PriceHistoryRepository,
		changeRepo repository.PriceChangeRepository,
	) error) error
}
