package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Aprobaciones-api/internal/application/dto"
	appworkflow "github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/infrastructure/pdf"
)

// PriceChangeHandler maneja la revisión de cambios de precio (protegido).
type PriceChangeHandler struct {
	uc        *appworkflow.ApprovalUseCase
	reportGen *pdf.PriceReportGenerator
}

// NewPriceChangeHandler construye el handler.
func NewPriceChangeHandler(uc *appworkflow.ApprovalUseCase, reportGen *pdf.PriceReportGenerator) *PriceChangeHandler {
	return &PriceChangeHandler{uc: uc, reportGen: reportGen}
}

// Pending godoc
// @Summary      Cambios de precio pendientes agrupados por proveedor
// @Tags         price-changes
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.VendorGroupResponse
// @Router       /api/price-changes/pending [get]
func (h *PriceChangeHandler) Pending(c *fiber.Ctx) error {
	out, err := h.uc.ListPendingPriceChanges(c.Context())
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de cambios de precio ya revisados
// @Tags         price-changes
// @Security     Bearer
// @Produce      json
// @Param        vendor  query  string  false  "filtrar por proveedor"
// @Param        limit   query  int     false  "máx. resultados (default 20)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.PriceChangeListResponse
// @Router       /api/price-changes/history [get]
func (h *PriceChangeHandler) History(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	out, err := h.uc.ListPriceChangeHistory(c.Context(), c.Query("vendor"), page)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Resolve godoc
// @Summary      Resolver un cambio de precio individual
// @Description  Cuando es el último pendiente de la factura, la factura pasa a complete.
// @Tags         price-changes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID del cambio de precio"
// @Param        body  body  dto.ResolveChangeRequest  true  "decision: acknowledged|escalated"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/price-changes/{id}/resolve [post]
func (h *PriceChangeHandler) Resolve(c *fiber.Ctx) error {
	var in dto.ResolveChangeRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.ResolvePriceChange(c.Context(), c.Params("id"), GetUserName(c), in.Decision, in.Notes)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// BulkResolve godoc
// @Summary      Resolver todos los cambios pendientes de una factura
// @Tags         price-changes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la factura"
// @Param        body  body  dto.BulkResolveRequest  true  "decision: acknowledged|escalated"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/price-changes/invoice/{id}/resolve [post]
func (h *PriceChangeHandler) BulkResolve(c *fiber.Ctx) error {
	var in dto.BulkResolveRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.ResolvePriceChangesBulk(c.Context(), c.Params("id"), GetUserName(c), in.Decision, in.Notes)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte PDF de cambios de precio pendientes
// @Tags         price-changes
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/price-changes/report [get]
func (h *PriceChangeHandler) Report(c *fiber.Ctx) error {
	groups, err := h.uc.ListPendingPriceChanges(c.Context())
	if err != nil {
		return respondDomainError(c, err)
	}
	doc, err := h.reportGen.GeneratePendingReport(c.Context(), groups)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "no se pudo generar el reporte"})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="cambios_precio_pendientes.pdf"`)
	return c.Send(doc)
}
