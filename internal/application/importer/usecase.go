// Package importer carga histórico de facturas desde CSV. Cada factura
// importada se trata como ya aprobada y siembra el ledger de precios de
// inmediato, para que las facturas vivas posteriores tengan contra qué
// compararse.
package importer

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/Aprobaciones-api/internal/application/dto"
	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
	wf "github.com/jhoicas/Aprobaciones-api/internal/domain/workflow"
)

// Columnas esperadas en el CSV. El orden no importa; se resuelven por nombre.
const (
	colVendor      = "vendor_name"
	colNumber      = "invoice_number"
	colDate        = "invoice_date"
	colDepartment  = "department"
	colDescription = "item_description"
	colSKU         = "item_sku"
	colQuantity    = "quantity"
	colUnit        = "unit"
	colUnitPrice   = "unit_price"
	colLineTotal   = "line_total"
)

// TxRunner ejecuta una función dentro de una transacción con los repos del
// flujo. La importación completa es una sola unidad de trabajo.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		invoiceRepo repository.InvoiceRepository,
		historyRepo repository.PriceHistoryRepository,
		changeRepo repository.PriceChangeRepository,
	) error) error
}

// ImportUseCase agrupa filas del CSV por (proveedor, número de factura) y
// crea una factura pre-aprobada por grupo, con sus filas de ledger.
type ImportUseCase struct {
	txRunner TxRunner
}

// NewImportUseCase construye el caso de uso.
func NewImportUseCase(txRunner TxRunner) *ImportUseCase {
	return &ImportUseCase{txRunner: txRunner}
}

type csvRow struct {
	vendor      string
	number      string
	date        string
	department  string
	description string
	sku         string
	unit        string
	quantity    *decimal.Decimal
	unitPrice   *decimal.Decimal
	lineTotal   *decimal.Decimal
}

type invoiceGroup struct {
	vendor string
	number string
	date   string
	dept   string
	rows   []csvRow
}

// ImportCSV lee el archivo completo, agrupa y persiste. Los grupos se crean
// ordenados por fecha de factura ascendente para que el "más reciente" del
// detector quede cronológicamente correcto.
func (uc *ImportUseCase) ImportCSV(ctx context.Context, r io.Reader, actor string) (*dto.ImportSummaryResponse, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	// Los exports viejos vienen en Windows-1252; si no es UTF-8 válido se
	// decodifica antes de parsear.
	if !utf8.Valid(raw) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: codificación no reconocida", domain.ErrInvalidInput)
		}
		raw = decoded
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: csv sin encabezado", domain.ErrInvalidInput)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{colVendor, colNumber, colDate, colDescription} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: falta la columna %q", domain.ErrInvalidInput, required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	groups := make(map[string]*invoiceGroup)
	var order []string
	skipped := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		row := csvRow{
			vendor:      field(record, colVendor),
			number:      field(record, colNumber),
			date:        field(record, colDate),
			department:  field(record, colDepartment),
			description: field(record, colDescription),
			sku:         field(record, colSKU),
			unit:        field(record, colUnit),
			quantity:    parseAmount(field(record, colQuantity)),
			unitPrice:   parseAmount(field(record, colUnitPrice)),
			lineTotal:   parseAmount(field(record, colLineTotal)),
		}
		if row.vendor == "" || row.description == "" {
			skipped++
			continue
		}
		key := row.vendor + "\x00" + row.number
		group, ok := groups[key]
		if !ok {
			group = &invoiceGroup{vendor: row.vendor, number: row.number, date: row.date, dept: row.department}
			groups[key] = group
			order = append(order, key)
		}
		group.rows = append(group.rows, row)
	}

	sorted := make([]*invoiceGroup, 0, len(order))
	for _, key := range order {
		sorted = append(sorted, groups[key])
	}
	// Fechas no parseables van al final, conservando el orden del archivo.
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, oki := parseDate(sorted[i].date)
		tj, okj := parseDate(sorted[j].date)
		if oki && okj {
			return ti.Before(tj)
		}
		return oki && !okj
	})

	summary := &dto.ImportSummaryResponse{SkippedRows: skipped}
	vendors := make(map[string]struct{})

	err = uc.txRunner.Run(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		historyRepo repository.PriceHistoryRepository,
		_ repository.PriceChangeRepository,
	) error {
		for _, group := range sorted {
			now := time.Now()
			inv := &entity.Invoice{
				Source:        entity.SourceImport,
				VendorName:    group.vendor,
				InvoiceNumber: group.number,
				InvoiceDate:   group.date,
				Department:    group.dept,
				State:         wf.StateApproved,
				DeptDecision:  wf.DecisionApproved,
				LastUpdated:   now,
				LastUpdatedBy: actor,
			}
			for i, row := range group.rows {
				inv.Items = append(inv.Items, entity.LineItem{
					Position:    i,
					Description: row.description,
					SKU:         row.sku,
					Unit:        row.unit,
					Quantity:    row.quantity,
					UnitPrice:   row.unitPrice,
					LineTotal:   row.lineTotal,
				})
			}
			if err := invoiceRepo.Create(inv); err != nil {
				return fmt.Errorf("create imported invoice %s/%s: %w", group.vendor, group.number, err)
			}
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
					return fmt.Errorf("seed price history: %w", err)
				}
				summary.LedgerRows++
			}
			summary.Invoices++
			vendors[group.vendor] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	summary.Vendors = len(vendors)
	return summary, nil
}

// parseAmount tolera símbolos de moneda y separadores de miles.
func parseAmount(s string) *decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(s, "$", ""), ",", ""))
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"02-Jan-2006",
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
