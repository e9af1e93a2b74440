package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
	wf "github.com/jhoicas/Aprobaciones-api/internal/domain/workflow"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `
	id, created_at, source, filename,
	vendor_name, invoice_number, invoice_date, due_date, currency,
	subtotal, tax_total, total,
	gst_amount, pst_amount, hst_amount, qst_amount, tax_notes,
	customer_name, customer_address, vendor_address, raw_text,
	stage, status, version,
	gl_account, cost_center, department, po_number, receipt_number,
	precoder, precoding_date, precoding_notes,
	dept_reviewer, dept_assigned_at, dept_reviewed_at, dept_review_notes, dept_decision,
	price_changes_detected, price_change_count,
	last_updated, last_updated_by`

// Create persiste la cabecera y los ítems. Llamar dentro de una transacción
// para que cabecera e ítems sean atómicos.
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	if invoice.ID == "" {
		invoice.ID = uuid.New().String()
	}
	if invoice.CreatedAt.IsZero() {
		invoice.CreatedAt = time.Now()
	}
	query := `
		INSERT INTO invoices (` + strings.TrimSpace(invoiceColumns) + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
		        $18, $19, $20, $21, $22, $23, 0, $24, $25, $26, $27, $28, $29, $30, $31,
		        $32, $33, $34, $35, $36, $37, $38, $39, $40)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.CreatedAt, invoice.Source, invoice.Filename,
		invoice.VendorName, invoice.InvoiceNumber, invoice.InvoiceDate, invoice.DueDate, invoice.Currency,
		invoice.Subtotal, invoice.TaxTotal, invoice.Total,
		invoice.GST, invoice.PST, invoice.HST, invoice.QST, invoice.TaxNotes,
		invoice.CustomerName, invoice.CustomerAddress, invoice.VendorAddress, invoice.RawText,
		invoice.State.Stage(), invoice.State.Status(),
		invoice.GLAccount, invoice.CostCenter, invoice.Department, invoice.PONumber, invoice.ReceiptNumber,
		invoice.Precoder, invoice.PrecodingDate, invoice.PrecodingNotes,
		invoice.DeptReviewer, invoice.DeptAssignedAt, invoice.DeptReviewedAt, invoice.DeptReviewNotes, invoice.DeptDecision,
		invoice.PriceChangesDetected, invoice.PriceChangeCount,
		invoice.LastUpdated, invoice.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: factura duplicada", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	invoice.Version = 0

	for _, item := range invoice.Items {
		if err := r.createItem(invoice.ID, item); err != nil {
			return err
		}
	}
	return nil
}

func (r *InvoiceRepo) createItem(invoiceID string, item entity.LineItem) error {
	query := `
		INSERT INTO invoice_items (id, invoice_id, position, description, sku, unit, quantity, unit_price, line_total, tax_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		uuid.New().String(), invoiceID, item.Position, item.Description, item.SKU, item.Unit,
		item.Quantity, item.UnitPrice, item.LineTotal, item.TaxAmount,
	)
	if err != nil {
		return fmt.Errorf("insert invoice item: %w", err)
	}
	return nil
}

// GetByID obtiene la factura completa (con ítems) por ID. Devuelve (nil, nil) si no existe.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	row := r.q.QueryRow(context.Background(), query, id)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	items, err := r.listItems(id)
	if err != nil {
		return nil, err
	}
	inv.Items = items
	return inv, nil
}

func (r *InvoiceRepo) listItems(invoiceID string) ([]entity.LineItem, error) {
	query := `
		SELECT position, description, sku, unit, quantity, unit_price, line_total, tax_amount
		FROM invoice_items WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice items: %w", err)
	}
	defer rows.Close()

	var items []entity.LineItem
	for rows.Next() {
		var item entity.LineItem
		if err := rows.Scan(&item.Position, &item.Description, &item.SKU, &item.Unit,
			&item.Quantity, &item.UnitPrice, &item.LineTotal, &item.TaxAmount); err != nil {
			return nil, fmt.Errorf("scan invoice item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// List listado paginado; status y vendor vacíos no filtran. El total es el
// conteo sin paginar, para la respuesta de página.
func (r *InvoiceRepo) List(filter repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	var conds []string
	var args []any
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, "status = $"+strconv.Itoa(len(args)))
	}
	if filter.Vendor != "" {
		args = append(args, filter.Vendor)
		conds = append(conds, "vendor_name = $"+strconv.Itoa(len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.q.QueryRow(context.Background(), "SELECT count(*) FROM invoices"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count invoices: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset)
	query := `SELECT ` + invoiceColumns + ` FROM invoices` + where +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))
	invoices, err := r.queryInvoices(query, args...)
	if err != nil {
		return nil, 0, err
	}
	return invoices, total, nil
}

// ListPendingCoding facturas en captura o codificación, más antiguas primero.
func (r *InvoiceRepo) ListPendingCoding() ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE status IN ('captured', 'coding')
		ORDER BY created_at ASC`
	return r.queryInvoices(query)
}

// ListDeptQueue facturas en revisión departamental del revisor, pendientes.
func (r *InvoiceRepo) ListDeptQueue(reviewer string) ([]*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE status = 'dept_review' AND dept_reviewer = $1 AND dept_decision = 'pending'
		ORDER BY dept_assigned_at ASC`
	return r.queryInvoices(query, reviewer)
}

// FindPreviousApproved la factura más reciente del proveedor con status
// aprobado/price_review/complete, excluyendo excludeID. (nil, nil) si no hay.
func (r *InvoiceRepo) FindPreviousApproved(vendorName, excludeID string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices
		WHERE vendor_name = $1 AND id <> $2
		  AND status IN ('approved', 'price_review', 'complete')
		ORDER BY created_at DESC
		LIMIT 1`
	row := r.q.QueryRow(context.Background(), query, vendorName, excludeID)
	inv, err := scanInvoice(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find previous invoice: %w", err)
	}
	return inv, nil
}

// UpdateWorkflow escribe todos los campos mutables con chequeo optimista de
// versión. Los ítems no se tocan: son inmutables desde la revisión.
func (r *InvoiceRepo) UpdateWorkflow(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices
		SET gst_amount = $3, pst_amount = $4, hst_amount = $5, qst_amount = $6, tax_notes = $7,
		    stage = $8, status = $9,
		    gl_account = $10, cost_center = $11, department = $12, po_number = $13, receipt_number = $14,
		    precoder = $15, precoding_date = $16, precoding_notes = $17,
		    dept_reviewer = $18, dept_assigned_at = $19, dept_reviewed_at = $20,
		    dept_review_notes = $21, dept_decision = $22,
		    price_changes_detected = $23, price_change_count = $24,
		    last_updated = $25, last_updated_by = $26,
		    version = version + 1
		WHERE id = $1 AND version = $2`
	tag, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.Version,
		invoice.GST, invoice.PST, invoice.HST, invoice.QST, invoice.TaxNotes,
		invoice.State.Stage(), invoice.State.Status(),
		invoice.GLAccount, invoice.CostCenter, invoice.Department, invoice.PONumber, invoice.ReceiptNumber,
		invoice.Precoder, invoice.PrecodingDate, invoice.PrecodingNotes,
		invoice.DeptReviewer, invoice.DeptAssignedAt, invoice.DeptReviewedAt,
		invoice.DeptReviewNotes, invoice.DeptDecision,
		invoice.PriceChangesDetected, invoice.PriceChangeCount,
		invoice.LastUpdated, invoice.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// La fila existe (validada por el caso de uso); cero filas significa
		// que otro proceso incrementó la versión primero.
		return fmt.Errorf("%w: la factura fue modificada por otro proceso", domain.ErrConflict)
	}
	invoice.Version++
	return nil
}

// Delete borra la factura y sus ítems. Las filas de ledger y los cambios de
// precio los borra el caso de uso en la misma transacción.
func (r *InvoiceRepo) Delete(id string) error {
	if _, err := r.q.Exec(context.Background(), `DELETE FROM invoice_items WHERE invoice_id = $1`, id); err != nil {
		return fmt.Errorf("delete invoice items: %w", err)
	}
	if _, err := r.q.Exec(context.Background(), `DELETE FROM invoices WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) queryInvoices(query string, args ...any) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	defer rows.Close()

	var invoices []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, inv := range invoices {
		items, err := r.listItems(inv.ID)
		if err != nil {
			return nil, err
		}
		inv.Items = items
	}
	return invoices, nil
}

// scanInvoice reconstruye la entidad desde una fila; el par (stage, status)
// persistido se valida contra la máquina de estados.
func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var stage int
	var status string
	err := row.Scan(
		&inv.ID, &inv.CreatedAt, &inv.Source, &inv.Filename,
		&inv.VendorName, &inv.InvoiceNumber, &inv.InvoiceDate, &inv.DueDate, &inv.Currency,
		&inv.Subtotal, &inv.TaxTotal, &inv.Total,
		&inv.GST, &inv.PST, &inv.HST, &inv.QST, &inv.TaxNotes,
		&inv.CustomerName, &inv.CustomerAddress, &inv.VendorAddress, &inv.RawText,
		&stage, &status, &inv.Version,
		&inv.GLAccount, &inv.CostCenter, &inv.Department, &inv.PONumber, &inv.ReceiptNumber,
		&inv.Precoder, &inv.PrecodingDate, &inv.PrecodingNotes,
		&inv.DeptReviewer, &inv.DeptAssignedAt, &inv.DeptReviewedAt, &inv.DeptReviewNotes, &inv.DeptDecision,
		&inv.PriceChangesDetected, &inv.PriceChangeCount,
		&inv.LastUpdated, &inv.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	state, err := wf.Parse(stage, status)
	if err != nil {
		return nil, fmt.Errorf("invoice %s: %w", inv.ID, err)
	}
	inv.State = state
	return &inv, nil
}
