package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
)

var _ repository.PriceChangeRepository = (*PriceChangeRepo)(nil)

// PriceChangeRepo implementación de PriceChangeRepository (usable con pool o tx).
type PriceChangeRepo struct {
	q Querier
}

// NewPriceChangeRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPriceChangeRepository(q Querier) *PriceChangeRepo {
	return &PriceChangeRepo{q: q}
}

const changeColumns = `
	id, created_at, invoice_id, previous_invoice_id, vendor_name, item_description, item_sku, department,
	previous_price, new_price, price_difference, percent_change,
	previous_invoice_date, new_invoice_date,
	review_status, reviewed_by, reviewed_at, review_notes`

// Create persiste un cambio detectado.
func (r *PriceChangeRepo) Create(change *entity.PriceChange) error {
	if change.ID == "" {
		change.ID = uuid.New().String()
	}
	if change.CreatedAt.IsZero() {
		change.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO price_changes (` + changeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(context.Background(), query,
		change.ID, change.CreatedAt, change.InvoiceID, change.PreviousInvoiceID,
		change.VendorName, change.ItemDescription, change.ItemSKU, change.Department,
		change.PreviousPrice, change.NewPrice, change.PriceDifference, change.PercentChange,
		change.PreviousInvoiceDate, change.NewInvoiceDate,
		change.ReviewStatus, change.ReviewedBy, change.ReviewedAt, change.ReviewNotes,
	)
	if err != nil {
		return fmt.Errorf("insert price change: %w", err)
	}
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *PriceChangeRepo) GetByID(id string) (*entity.PriceChange, error) {
	query := `SELECT ` + changeColumns + ` FROM price_changes WHERE id = $1`
	change, err := scanChange(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get price change: %w", err)
	}
	return change, nil
}

// UpdateReview persiste el sub-estado de revisión del cambio.
func (r *PriceChangeRepo) UpdateReview(change *entity.PriceChange) error {
	query := `
		UPDATE price_changes
		SET review_status = $2, reviewed_by = $3, reviewed_at = $4, review_notes = $5
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		change.ID, change.ReviewStatus, change.ReviewedBy, change.ReviewedAt, change.ReviewNotes,
	)
	if err != nil {
		return fmt.Errorf("update price change: %w", err)
	}
	return nil
}

// ListPending todos los cambios pendientes, más nuevos primero.
func (r *PriceChangeRepo) ListPending() ([]*entity.PriceChange, error) {
	query := `SELECT ` + changeColumns + ` FROM price_changes
		WHERE review_status = 'pending' ORDER BY created_at DESC`
	return r.queryChanges(query)
}

// ListPendingByInvoice cambios pendientes de una factura.
func (r *PriceChangeRepo) ListPendingByInvoice(invoiceID string) ([]*entity.PriceChange, error) {
	query := `SELECT ` + changeColumns + ` FROM price_changes
		WHERE invoice_id = $1 AND review_status = 'pending' ORDER BY created_at ASC`
	return r.queryChanges(query, invoiceID)
}

// CountPendingByInvoice conteo de pendientes de una factura.
func (r *PriceChangeRepo) CountPendingByInvoice(invoiceID string) (int, error) {
	var count int
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM price_changes WHERE invoice_id = $1 AND review_status = 'pending'`,
		invoiceID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending changes: %w", err)
	}
	return count, nil
}

// ListHistory cambios ya revisados, más nuevos primero; vendorName vacío = todos.
func (r *PriceChangeRepo) ListHistory(vendorName string, limit, offset int) ([]*entity.PriceChange, int, error) {
	where := ` WHERE review_status <> 'pending'`
	var args []any
	if vendorName != "" {
		args = append(args, vendorName)
		where += ` AND vendor_name = $` + strconv.Itoa(len(args))
	}

	var total int
	if err := r.q.QueryRow(context.Background(), `SELECT count(*) FROM price_changes`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count change history: %w", err)
	}

	args = append(args, limit, offset)
	query := `SELECT ` + changeColumns + ` FROM price_changes` + where +
		` ORDER BY reviewed_at DESC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	changes, err := r.queryChanges(query, args...)
	if err != nil {
		return nil, 0, err
	}
	return changes, total, nil
}

// DeleteByInvoice borra los cambios que referencian la factura por cualquiera
// de los dos lados (disparadora o comparada).
func (r *PriceChangeRepo) DeleteByInvoice(invoiceID string) error {
	_, err := r.q.Exec(context.Background(),
		`DELETE FROM price_changes WHERE invoice_id = $1 OR previous_invoice_id = $1`, invoiceID)
	if err != nil {
		return fmt.Errorf("delete price changes: %w", err)
	}
	return nil
}

func (r *PriceChangeRepo) queryChanges(query string, args ...any) ([]*entity.PriceChange, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query price changes: %w", err)
	}
	defer rows.Close()

	var out []*entity.PriceChange
	for rows.Next() {
		change, err := scanChange(rows)
		if err != nil {
			return nil, fmt.Errorf("scan price change: %w", err)
		}
		out = append(out, change)
	}
	return out, rows.Err()
}

func scanChange(row pgx.Row) (*entity.PriceChange, error) {
	var c entity.PriceChange
	err := row.Scan(
		&c.ID, &c.CreatedAt, &c.InvoiceID, &c.PreviousInvoiceID,
		&c.VendorName, &c.ItemDescription, &c.ItemSKU, &c.Department,
		&c.PreviousPrice, &c.NewPrice, &c.PriceDifference, &c.PercentChange,
		&c.PreviousInvoiceDate, &c.NewInvoiceDate,
		&c.ReviewStatus, &c.ReviewedBy, &c.ReviewedAt, &c.ReviewNotes,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
