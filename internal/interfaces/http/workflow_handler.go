package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Aprobaciones-api/internal/application/dto"
	appworkflow "github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
)

// WorkflowHandler maneja las transiciones del flujo de aprobación (protegido).
type WorkflowHandler struct {
	uc *appworkflow.ApprovalUseCase
}

// NewWorkflowHandler construye el handler.
func NewWorkflowHandler(uc *appworkflow.ApprovalUseCase) *WorkflowHandler {
	return &WorkflowHandler{uc: uc}
}

// PendingCoding godoc
// @Summary      Facturas pendientes de codificación
// @Tags         workflow
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.InvoiceResponse
// @Router       /api/workflow/pending-coding [get]
func (h *WorkflowHandler) PendingCoding(c *fiber.Ctx) error {
	out, err := h.uc.ListPendingCoding(c.Context())
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// CompleteCoding godoc
// @Summary      Completar codificación y pasar a revisión departamental
// @Tags         workflow
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la factura"
// @Param        body  body  dto.CompleteCodingRequest  true  "campos de codificación e impuestos"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/workflow/{id}/coding [post]
func (h *WorkflowHandler) CompleteCoding(c *fiber.Ctx) error {
	var in dto.CompleteCodingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CompleteCoding(c.Context(), c.Params("id"), GetUserName(c), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// DeptQueue godoc
// @Summary      Cola de revisión departamental del usuario autenticado
// @Tags         workflow
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.InvoiceResponse
// @Router       /api/workflow/dept-queue [get]
func (h *WorkflowHandler) DeptQueue(c *fiber.Ctx) error {
	out, err := h.uc.ListDeptQueue(c.Context(), GetUserName(c))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar factura (escribe ledger y corre el detector de precios)
// @Tags         workflow
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la factura"
// @Param        body  body  dto.ApproveRequest  false "notas"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/workflow/{id}/approve [post]
func (h *WorkflowHandler) Approve(c *fiber.Ctx) error {
	var in dto.ApproveRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}
	out, err := h.uc.Approve(c.Context(), c.Params("id"), GetUserName(c), in.Notes)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rechazar factura y devolverla a codificación
// @Tags         workflow
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID de la factura"
// @Param        body  body  dto.RejectRequest  true  "motivo del rechazo"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/workflow/{id}/reject [post]
func (h *WorkflowHandler) Reject(c *fiber.Ctx) error {
	var in dto.RejectRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Reject(c.Context(), c.Params("id"), GetUserName(c), in.Notes)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}
