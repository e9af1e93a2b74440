package workflow

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Aprobaciones-api/internal/application/dto"
	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/department"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
	wf "github.com/jhoicas/Aprobaciones-api/internal/domain/workflow"
)

// ──────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────

type fakeInvoiceRepo struct {
	invoices map[string]*entity.Invoice
	seq      int
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{invoices: make(map[string]*entity.Invoice)}
}

func (r *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	if inv.ID == "" {
		r.seq++
		inv.ID = "inv-" + strconv.Itoa(r.seq)
	}
	cp := *inv
	r.invoices[inv.ID] = &cp
	return nil
}

// GetByID devuelve una copia, como haría una fila leída de la base.
func (r *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	inv, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r *fakeInvoiceRepo) List(filter repository.InvoiceFilter) ([]*entity.Invoice, int, error) {
	var out []*entity.Invoice
	for _, inv := range r.invoices {
		if filter.Status != "" && inv.State.Status() != filter.Status {
			continue
		}
		if filter.Vendor != "" && inv.VendorName != filter.Vendor {
			continue
		}
		cp := *inv
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (r *fakeInvoiceRepo) ListPendingCoding() ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.invoices {
		if inv.State == wf.StateCaptured || inv.State == wf.StateCoding {
			cp := *inv
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeInvoiceRepo) ListDeptQueue(reviewer string) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.invoices {
		if inv.State == wf.StateDeptReview && inv.DeptReviewer == reviewer && inv.DeptDecision == wf.DecisionPending {
			cp := *inv
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeInvoiceRepo) FindPreviousApproved(vendorName, excludeID string) (*entity.Invoice, error) {
	var best *entity.Invoice
	for _, inv := range r.invoices {
		if inv.ID == excludeID || inv.VendorName != vendorName {
			continue
		}
		switch inv.State {
		case wf.StateApproved, wf.StatePriceReview, wf.StateComplete:
		default:
			continue
		}
		if best == nil || inv.CreatedAt.After(best.CreatedAt) {
			best = inv
		}
	}
	if best == nil {
		return nil, nil
	}
	cp := *best
	return &cp, nil
}

func (r *fakeInvoiceRepo) UpdateWorkflow(inv *entity.Invoice) error {
	stored, ok := r.invoices[inv.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if stored.Version != inv.Version {
		return domain.ErrConflict
	}
	cp := *inv
	cp.Version++
	r.invoices[inv.ID] = &cp
	inv.Version = cp.Version
	return nil
}

func (r *fakeInvoiceRepo) Delete(id string) error {
	delete(r.invoices, id)
	return nil
}

type fakeHistoryRepo struct {
	rows []*entity.PriceHistory
	seq  int
}

func (r *fakeHistoryRepo) Create(row *entity.PriceHistory) error {
	r.seq++
	if row.ID == "" {
		row.ID = "ph-" + strconv.Itoa(r.seq)
	}
	r.rows = append(r.rows, row)
	return nil
}

func (r *fakeHistoryRepo) ListByInvoice(invoiceID string) ([]*entity.PriceHistory, error) {
	var out []*entity.PriceHistory
	for _, row := range r.rows {
		if row.InvoiceID == invoiceID {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeHistoryRepo) ListByVendor(vendorName string, limit int) ([]*entity.PriceHistory, error) {
	var out []*entity.PriceHistory
	for _, row := range r.rows {
		if row.VendorName == vendorName {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *fakeHistoryRepo) DeleteByInvoice(invoiceID string) error {
	kept := r.rows[:0]
	for _, row := range r.rows {
		if row.InvoiceID != invoiceID {
			kept = append(kept, row)
		}
	}
	r.rows = kept
	return nil
}

type fakeChangeRepo struct {
	changes map[string]*entity.PriceChange
	order   []string
	seq     int
}

func newFakeChangeRepo() *fakeChangeRepo {
	return &fakeChangeRepo{changes: make(map[string]*entity.PriceChange)}
}

func (r *fakeChangeRepo) Create(change *entity.PriceChange) error {
	r.seq++
	if change.ID == "" {
		change.ID = "pc-" + strconv.Itoa(r.seq)
	}
	cp := *change
	r.changes[change.ID] = &cp
	r.order = append(r.order, change.ID)
	return nil
}

func (r *fakeChangeRepo) GetByID(id string) (*entity.PriceChange, error) {
	change, ok := r.changes[id]
	if !ok {
		return nil, nil
	}
	cp := *change
	return &cp, nil
}

func (r *fakeChangeRepo) UpdateReview(change *entity.PriceChange) error {
	stored, ok := r.changes[change.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.ReviewStatus = change.ReviewStatus
	stored.ReviewedBy = change.ReviewedBy
	stored.ReviewedAt = change.ReviewedAt
	stored.ReviewNotes = change.ReviewNotes
	return nil
}

func (r *fakeChangeRepo) ListPending() ([]*entity.PriceChange, error) {
	var out []*entity.PriceChange
	for _, id := range r.order {
		if c := r.changes[id]; c.ReviewStatus == wf.ReviewPending {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeChangeRepo) ListPendingByInvoice(invoiceID string) ([]*entity.PriceChange, error) {
	var out []*entity.PriceChange
	for _, id := range r.order {
		if c := r.changes[id]; c.InvoiceID == invoiceID && c.ReviewStatus == wf.ReviewPending {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeChangeRepo) CountPendingByInvoice(invoiceID string) (int, error) {
	pending, _ := r.ListPendingByInvoice(invoiceID)
	return len(pending), nil
}

func (r *fakeChangeRepo) ListHistory(vendorName string, limit, offset int) ([]*entity.PriceChange, int, error) {
	var out []*entity.PriceChange
	for _, id := range r.order {
		c := r.changes[id]
		if c.ReviewStatus == wf.ReviewPending {
			continue
		}
		if vendorName != "" && c.VendorName != vendorName {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (r *fakeChangeRepo) DeleteByInvoice(invoiceID string) error {
	for id, c := range r.changes {
		if c.InvoiceID == invoiceID || c.PreviousInvoiceID == invoiceID {
			delete(r.changes, id)
		}
	}
	kept := r.order[:0]
	for _, id := range r.order {
		if _, ok := r.changes[id]; ok {
			kept = append(kept, id)
		}
	}
	r.order = kept
	return nil
}

// fakeTxRunner ejecuta el callback con los mismos repos en memoria. No simula
// rollback: los tests de atomicidad viven en la capa postgres.
type fakeTxRunner struct {
	invoiceRepo *fakeInvoiceRepo
	historyRepo *fakeHistoryRepo
	changeRepo  *fakeChangeRepo
}

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	repository.InvoiceRepository,
	repository.PriceHistoryRepository,
	repository.PriceChangeRepository,
) error) error {
	return fn(r.invoiceRepo, r.historyRepo, r.changeRepo)
}

// ──────────────────────────────────────────────
// Armado
// ──────────────────────────────────────────────

type fixture struct {
	uc          *ApprovalUseCase
	invoiceRepo *fakeInvoiceRepo
	historyRepo *fakeHistoryRepo
	changeRepo  *fakeChangeRepo
}

func newFixture() *fixture {
	invoiceRepo := newFakeInvoiceRepo()
	historyRepo := &fakeHistoryRepo{}
	changeRepo := newFakeChangeRepo()
	runner := &fakeTxRunner{invoiceRepo: invoiceRepo, historyRepo: historyRepo, changeRepo: changeRepo}
	uc := NewApprovalUseCase(runner, invoiceRepo, historyRepo, changeRepo, department.NewResolver(nil))
	return &fixture{uc: uc, invoiceRepo: invoiceRepo, historyRepo: historyRepo, changeRepo: changeRepo}
}

func dec(s string) *decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func (f *fixture) seedInvoice(t *testing.T, vendor, date string, state wf.State, items ...entity.LineItem) *entity.Invoice {
	t.Helper()
	inv := &entity.Invoice{
		Source:      entity.SourceManual,
		VendorName:  vendor,
		InvoiceDate: date,
		State:       state,
		Items:       items,
	}
	if state == wf.StateDeptReview {
		inv.DeptReviewer = "ktaylor"
		inv.DeptDecision = wf.DecisionPending
		inv.Department = "grocery"
	}
	require.NoError(t, f.invoiceRepo.Create(inv))
	return inv
}

func item(desc, price string) entity.LineItem {
	return entity.LineItem{Description: desc, UnitPrice: dec(price), Quantity: dec("1")}
}

var ctx = context.Background()

// ──────────────────────────────────────────────
// CompleteCoding
// ──────────────────────────────────────────────

func TestCompleteCoding_AsignaRevisorYTransiciona(t *testing.T) {
	f := newFixture()
	inv := f.seedInvoice(t, "Acme", "2024-01-01", wf.StateCaptured, item("Widget", "10.00"))

	out, err := f.uc.CompleteCoding(ctx, inv.ID, "jlopez", dto.CompleteCodingRequest{
		GLAccount:  "5010",
		Department: "grocery",
		GST:        dec("5.00"),
		PST:        dec("8.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, out.Stage)
	assert.Equal(t, "dept_review", out.Status)
	assert.Equal(t, "ktaylor", out.DeptReviewer, "grocery se asigna a su revisor")
	assert.Equal(t, "pending", out.DeptDecision)
	assert.Equal(t, "jlopez", out.Precoder)
	require.NotNil(t, out.PrecodingDate)
	require.NotNil(t, out.GST)
	assert.True(t, out.GST.Equal(*dec("5.00")), "los impuestos se escriben verbatim")
}

func TestCompleteCoding_DepartamentoInvalidoNoMuta(t *testing.T) {
	f := newFixture()
	inv := f.seedInvoice(t, "Acme", "2024-01-01", wf.StateCaptured)

	_, err := f.uc.CompleteCoding(ctx, inv.ID, "jlopez", dto.CompleteCodingRequest{
		GLAccount:  "5010",
		Department: "seafood",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	stored, _ := f.invoiceRepo.GetByID(inv.ID)
	assert.Equal(t, wf.StateCaptured, stored.State, "una validación fallida no muta nada")
	assert.Empty(t, stored.GLAccount)
}

func TestCompleteCoding_CamposObligatorios(t *testing.T) {
	f := newFixture()
	inv := f.seedInvoice(t, "Acme", "2024-01-01", wf.StateCaptured)

	_, err := f.uc.CompleteCoding(ctx, inv.ID, "jlopez", dto.CompleteCodingRequest{Department: "grocery"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestCompleteCoding_FacturaInexistente(t *testing.T) {
	f := newFixture()

	_, err := f.uc.CompleteCoding(ctx, "nope", "jlopez", dto.CompleteCodingRequest{
		GLAccount: "5010", Department: "grocery",
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCompleteCoding_EstadoTerminalConflicto(t *testing.T) {
	f := newFixture()
	inv := f.seedInvoice(t, "Acme", "2024-01-01", wf.StateComplete)

	_, err := f.uc.CompleteCoding(ctx, inv.ID, "jlopez", dto.CompleteCodingRequest{
		GLAccount: "5010", Department: "grocery",
	})
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestCompleteCoding_RecodificarTrasRechazo(t *testing.T) {
	f := newFixture()
	inv := f.seedInvoice(t, "Acme", "2024-01-01", wf.StateCoding)

	out, err := f.uc.CompleteCoding(ctx, inv.ID, "jlopez", dto.CompleteCodingRequest{
		GLAccount: "5020", Department: "dairy",
	})
	require.NoError(t, err)
	assert.Equal(t, "dept_review", out.Status)
	assert.Equal(t, "mhermani", out.DeptReviewer)
}

// ──────────────────────────────────────────────
// Approve
// ──────────────────────────────────────────────

func TestApprove_SinPredecesorQuedaApproved(t *testing.T) {
	f := newFixture()
	inv := f.seedInvoice(t, "Acme", "2024-01-01", wf.StateDeptReview, item("Widget", "10.00"))

	out, err := f.uc.Approve(ctx, inv.ID, "ktaylor", "ok")
	require.NoError(t, err)

	assert.Equal(t, "approved", out.Status)
	assert.Equal(t, 3, out.Stage, "aprobar sin cambios no avanza la etapa")
	assert.False(t, out.PriceChangesDetected)
	assert.Equal(t, 0, out.PriceChangeCount)
	assert.Equal(t, "approved", out.DeptDecision)

	rows, _ := f.historyRepo.ListByInvoice(inv.ID)
	assert.Len(t, rows, 1, "una fila de ledger por ítem")
	assert.Equal(t, "Acme", rows[0].VendorName)
}

func TestApprove_ConCambioVaAPriceReview(t *testing.T) {
	f := newFixture()
	// Factura previa ya aprobada con su fila de ledger.
	prev := f.seedInvoice(t, "Acme", "2024-01-01", wf.StateApproved)
	require.NoError(t, f.historyRepo.Create(&entity.PriceHistory{
		InvoiceID: prev.ID, VendorName: "Acme", ItemDescription: "Widget", UnitPrice: dec("10.00"),
	}))

	inv := f.seedInvoice(t, "Acme", "2024-02-01", wf.StateDeptReview, item("Widget", "11.50"))

	out, err := f.uc.Approve(ctx, inv.ID, "ktaylor", "")
	require.NoError(t, err)

	assert.Equal(t, "price_review", out.Status)
	assert.Equal(t, 4, out.Stage)
	assert.True(t, out.PriceChangesDetected)
	assert.Equal(t, 1, out.PriceChangeCount)

	pending, _ := f.changeRepo.ListPendingByInvoice(inv.ID)
	require.Len(t, pending, 1)
	assert.True(t, pending[0].PreviousPrice.Equal(*dec("10.00")))
	assert.True(t, pending[0].NewPrice.Equal(*dec("11.50")))
	assert.Equal(t, prev.ID, pending[0].PreviousInvoiceID)
}

func TestApprove_RevisorNoAsignadoNoMuta(t *testing.T) {
	f := newFixture()
	inv := f.seedInvoice(t, "Acme", "2024-01-01", wf.StateDeptReview, item("Widget", "10.00"))

	_, err := f.uc.Approve(ctx, inv.ID, "mhermani", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrForbidden))

	stored, _ := f.invoiceRepo.GetByID(inv.ID)
	assert.Equal(t, wf.StateDeptReview, stored.State)
	assert.Equal(t, wf.DecisionPending, stored.DeptDecision)
	rows, _ := f.historyRepo.ListByInvoice(inv.ID)
	assert.Empty(t, rows, "una aprobación rechazada por autorización no escribe ledger")
}

func TestApprove_YaDecididaConflicto(t *testing.T) {
	f := newFixture()
	inv := f.seedInvoice(t, "Acme", "2024-01-01", wf.StateDeptReview, item("Widget", "10.00"))

	_, err := f.uc.Approve(ctx, inv.ID, "ktaylor", "")
	require.NoError(t, err)

	_, err = f.uc.Approve(ctx, inv.ID, "ktaylor", "")
	assert.True(t, errors.Is(err, domain.ErrConflict), "aprobar dos veces es un conflicto de estado")
}

func TestApprove_FacturaInexistente(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Approve(ctx, "nope", "ktaylor", "")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

// ──────────────────────────────────────────────
// Reject
// ──────────────────────────────────────────────

func TestReject_DevuelveACodificacionConservandoCampos(t *testing.T) {
	f := newFixture()
	inv := f.seedInvoice(t, "Acme", "2024-01-01", wf.StateDeptReview, item("Widget", "10.00"))
	// Simular que ya venía codificada.
	stored, _ := f.invoiceRepo.GetByID(inv.ID)
	stored.GLAccount = "5010"
	require.NoError(t, f.invoiceRepo.UpdateWorkflow(stored))

	out, err := f.uc.Reject(ctx, inv.ID, "ktaylor", "total no cuadra con la orden de compra")
	require.NoError(t, err)

	assert.Equal(t, "coding", out.Status)
	assert.Equal(t, 2, out.Stage)
	assert.Equal(t, "rejected", out.DeptDecision)
	assert.Equal(t, "total no cuadra con la orden de compra", out.DeptReviewNotes)
	assert.Equal(t, "5010", out.GLAccount, "los campos de codificación previos se conservan")
}

func TestReject_RequiereNotas(t *testing.T) {
	f := newFixture()
	inv := f.seedInvoice(t, "Acme", "2024-01-01", wf.StateDeptReview)

	_, err := f.uc.Reject(ctx, inv.ID, "ktaylor", "")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestReject_RevisorNoAsignado(t *testing.T) {
	f := newFixture()
	inv := f.seedInvoice(t, "Acme", "2024-01-01", wf.StateDeptReview)

	_, err := f.uc.Reject(ctx, inv.ID, "mhermani", "no es mi factura")
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

// ──────────────────────────────────────────────
// Resolución de cambios de precio
// ──────────────────────────────────────────────

// approveWithChanges deja una factura en price_review con n cambios pendientes.
func (f *fixture) approveWithChanges(t *testing.T, n int) *entity.Invoice {
	t.Helper()
	prev := f.seedInvoice(t, "Acme", "2024-01-01", wf.StateApproved)
	items := make([]entity.LineItem, 0, n)
	for i := 0; i < n; i++ {
		desc := "Item " + strconv.Itoa(i)
		require.NoError(t, f.historyRepo.Create(&entity.PriceHistory{
			InvoiceID: prev.ID, VendorName: "Acme", ItemDescription: desc, UnitPrice: dec("10.00"),
		}))
		items = append(items, item(desc, "12.00"))
	}
	inv := f.seedInvoice(t, "Acme", "2024-02-01", wf.StateDeptReview, items...)
	out, err := f.uc.Approve(ctx, inv.ID, "ktaylor", "")
	require.NoError(t, err)
	require.Equal(t, n, out.PriceChangeCount)
	stored, _ := f.invoiceRepo.GetByID(inv.ID)
	return stored
}

func TestResolvePriceChange_UltimoPendienteCompletaFactura(t *testing.T) {
	f := newFixture()
	inv := f.approveWithChanges(t, 1)
	pending, _ := f.changeRepo.ListPendingByInvoice(inv.ID)
	require.Len(t, pending, 1)

	out, err := f.uc.ResolvePriceChange(ctx, pending[0].ID, "gerente1", wf.ReviewAcknowledged, "ok")
	require.NoError(t, err)

	assert.Equal(t, "complete", out.Status)
	assert.Equal(t, 4, out.Stage)

	change, _ := f.changeRepo.GetByID(pending[0].ID)
	assert.Equal(t, wf.ReviewAcknowledged, change.ReviewStatus)
	assert.Equal(t, "gerente1", change.ReviewedBy)
	require.NotNil(t, change.ReviewedAt)
}

func TestResolvePriceChange_QuedanPendientesNoCompleta(t *testing.T) {
	f := newFixture()
	inv := f.approveWithChanges(t, 2)
	pending, _ := f.changeRepo.ListPendingByInvoice(inv.ID)
	require.Len(t, pending, 2)

	out, err := f.uc.ResolvePriceChange(ctx, pending[0].ID, "gerente1", wf.ReviewEscalated, "subida fuerte")
	require.NoError(t, err)

	assert.Equal(t, "price_review", out.Status, "con pendientes restantes la factura no se completa")
}

func TestResolvePriceChange_DecisionInvalida(t *testing.T) {
	f := newFixture()

	_, err := f.uc.ResolvePriceChange(ctx, "pc-1", "gerente1", "aprobado", "")
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestResolvePriceChange_YaRevisadoConflicto(t *testing.T) {
	f := newFixture()
	inv := f.approveWithChanges(t, 1)
	pending, _ := f.changeRepo.ListPendingByInvoice(inv.ID)

	_, err := f.uc.ResolvePriceChange(ctx, pending[0].ID, "gerente1", wf.ReviewAcknowledged, "")
	require.NoError(t, err)

	_, err = f.uc.ResolvePriceChange(ctx, pending[0].ID, "gerente1", wf.ReviewAcknowledged, "")
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestResolveBulk_ActualizaTodosYCompleta(t *testing.T) {
	f := newFixture()
	inv := f.approveWithChanges(t, 3)

	out, err := f.uc.ResolvePriceChangesBulk(ctx, inv.ID, "gerente1", wf.ReviewAcknowledged, "revisado en lote")
	require.NoError(t, err)

	assert.Equal(t, "complete", out.Status)
	remaining, _ := f.changeRepo.CountPendingByInvoice(inv.ID)
	assert.Zero(t, remaining)

	history, total, _ := f.changeRepo.ListHistory("Acme", 20, 0)
	assert.Equal(t, 3, total)
	for _, c := range history {
		assert.Equal(t, wf.ReviewAcknowledged, c.ReviewStatus)
		assert.Equal(t, "revisado en lote", c.ReviewNotes)
	}
}

func TestResolveBulk_SinPendientesFalla(t *testing.T) {
	f := newFixture()
	inv := f.seedInvoice(t, "Acme", "2024-01-01", wf.StateApproved)

	_, err := f.uc.ResolvePriceChangesBulk(ctx, inv.ID, "gerente1", wf.ReviewAcknowledged, "")
	assert.True(t, errors.Is(err, domain.ErrNotFound), "bulk sobre cero pendientes es not-found")
}

// ──────────────────────────────────────────────
// Delete
// ──────────────────────────────────────────────

func TestDelete_CascadaLedgerYCambios(t *testing.T) {
	f := newFixture()
	inv := f.approveWithChanges(t, 2)

	require.NoError(t, f.uc.Delete(ctx, inv.ID))

	stored, _ := f.invoiceRepo.GetByID(inv.ID)
	assert.Nil(t, stored)
	rows, _ := f.historyRepo.ListByInvoice(inv.ID)
	assert.Empty(t, rows)
	remaining, _ := f.changeRepo.CountPendingByInvoice(inv.ID)
	assert.Zero(t, remaining)
}

func TestDelete_BorraCambiosDondeEsLaComparada(t *testing.T) {
	f := newFixture()
	inv := f.approveWithChanges(t, 1)
	pending, _ := f.changeRepo.ListPendingByInvoice(inv.ID)
	require.Len(t, pending, 1)
	prevID := pending[0].PreviousInvoiceID

	// Borrar la factura previa también borra los cambios que la referencian.
	require.NoError(t, f.uc.Delete(ctx, prevID))

	remaining, _ := f.changeRepo.CountPendingByInvoice(inv.ID)
	assert.Zero(t, remaining)
}

// ──────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────

func TestListDeptQueue_SoloDelRevisor(t *testing.T) {
	f := newFixture()
	f.seedInvoice(t, "Acme", "2024-01-01", wf.StateDeptReview)
	otra := f.seedInvoice(t, "Beta", "2024-01-02", wf.StateDeptReview)
	stored, _ := f.invoiceRepo.GetByID(otra.ID)
	stored.DeptReviewer = "mhermani"
	require.NoError(t, f.invoiceRepo.UpdateWorkflow(stored))

	queue, err := f.uc.ListDeptQueue(ctx, "ktaylor")
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, "Acme", queue[0].VendorName)
}

func TestListPendingPriceChanges_AgrupaPorProveedorConImpacto(t *testing.T) {
	f := newFixture()
	f.approveWithChanges(t, 2) // Acme: dos cambios de +2.00

	groups, err := f.uc.ListPendingPriceChanges(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	g := groups[0]
	assert.Equal(t, "Acme", g.VendorName)
	assert.Equal(t, 2, g.Count)
	assert.True(t, g.TotalImpact.Equal(*dec("4.00")), "impacto agregado fue %s", g.TotalImpact)
	assert.Len(t, g.Changes, 2)
}

func TestListPendingCoding_EtapasUnoYDos(t *testing.T) {
	f := newFixture()
	f.seedInvoice(t, "Acme", "2024-01-01", wf.StateCaptured)
	f.seedInvoice(t, "Beta", "2024-01-02", wf.StateCoding)
	f.seedInvoice(t, "Gamma", "2024-01-03", wf.StateDeptReview)

	pending, err := f.uc.ListPendingCoding(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}
