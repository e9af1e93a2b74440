package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
)

var _ repository.PriceHistoryRepository = (*PriceHistoryRepo)(nil)

// PriceHistoryRepo implementación del ledger de precios. Solo INSERT, SELECT
// y el DELETE de cascada: el ledger no tiene camino de actualización.
type PriceHistoryRepo struct {
	q Querier
}

// NewPriceHistoryRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPriceHistoryRepository(q Querier) *PriceHistoryRepo {
	return &PriceHistoryRepo{q: q}
}

// Create añade una fila al ledger.
func (r *PriceHistoryRepo) Create(row *entity.PriceHistory) error {
	if row.ID == "" {
		row.ID = uuid.New().String()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO price_history (id, created_at, invoice_id, vendor_name, item_description, item_sku,
		                           unit_price, quantity, unit, line_total, invoice_date, department)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		row.ID, row.CreatedAt, row.InvoiceID, row.VendorName, row.ItemDescription, row.ItemSKU,
		row.UnitPrice, row.Quantity, row.Unit, row.LineTotal, row.InvoiceDate, row.Department,
	)
	if err != nil {
		return fmt.Errorf("insert price history: %w", err)
	}
	return nil
}

// ListByInvoice filas del ledger de una factura, en orden de inserción.
func (r *PriceHistoryRepo) ListByInvoice(invoiceID string) ([]*entity.PriceHistory, error) {
	query := `
		SELECT id, created_at, invoice_id, vendor_name, item_description, item_sku,
		       unit_price, quantity, unit, line_total, invoice_date, department
		FROM price_history WHERE invoice_id = $1 ORDER BY created_at ASC`
	return r.queryRows(query, invoiceID)
}

// ListByVendor filas del ledger de un proveedor, más nuevas primero.
func (r *PriceHistoryRepo) ListByVendor(vendorName string, limit int) ([]*entity.PriceHistory, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, created_at, invoice_id, vendor_name, item_description, item_sku,
		       unit_price, quantity, unit, line_total, invoice_date, department
		FROM price_history WHERE vendor_name = $1 ORDER BY created_at DESC LIMIT $2`
	return r.queryRows(query, vendorName, limit)
}

// DeleteByInvoice borra las filas del ledger de una factura (cascada de eliminación).
func (r *PriceHistoryRepo) DeleteByInvoice(invoiceID string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM price_history WHERE invoice_id = $1`, invoiceID); err != nil {
		return fmt.Errorf("delete price history: %w", err)
	}
	return nil
}

func (r *PriceHistoryRepo) queryRows(query string, args ...any) ([]*entity.PriceHistory, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query price history: %w", err)
	}
	defer rows.Close()

	var out []*entity.PriceHistory
	for rows.Next() {
		var row entity.PriceHistory
		if err := rows.Scan(&row.ID, &row.CreatedAt, &row.InvoiceID, &row.VendorName,
			&row.ItemDescription, &row.ItemSKU, &row.UnitPrice, &row.Quantity,
			&row.Unit, &row.LineTotal, &row.InvoiceDate, &row.Department); err != nil {
			return nil, fmt.Errorf("scan price history: %w", err)
		}
		out = append(out, &row)
	}
	return out, rows.Err()
}
