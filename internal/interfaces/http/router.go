package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Aprobaciones-api/internal/application/auth"
	"github.com/jhoicas/Aprobaciones-api/internal/application/capture"
	"github.com/jhoicas/Aprobaciones-api/internal/application/importer"
	appworkflow "github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/infrastructure/pdf"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CaptureUC  *capture.CaptureUseCase
	ApprovalUC *appworkflow.ApprovalUseCase
	ImportUC   *importer.ImportUseCase
	AuthUC     *auth.AuthUseCase
	ReportGen  *pdf.PriceReportGenerator
	JWTSecret  string
	AppName    string

	// AzureConfigured se refleja en /health para diagnóstico de despliegue.
	AzureConfigured bool
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":           "ok",
			"service":          deps.AppName,
			"azure_configured": deps.AzureConfigured,
		})
	})

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Invoices (protegido)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.CaptureUC, deps.ApprovalUC)
	invoices.Post("/upload", RequireRole(entity.RoleAdmin, entity.RoleCodificador), invoiceHandler.Upload)
	invoices.Post("/", RequireRole(entity.RoleAdmin, entity.RoleCodificador), invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Delete("/:id", RequireRole(entity.RoleAdmin), invoiceHandler.Delete)

	// Workflow (protegido; cada transición tiene su rol)
	wf := protected.Group("/workflow")
	workflowHandler := NewWorkflowHandler(deps.ApprovalUC)
	wf.Get("/pending-coding", RequireRole(entity.RoleAdmin, entity.RoleCodificador), workflowHandler.PendingCoding)
	wf.Post("/:id/coding", RequireRole(entity.RoleAdmin, entity.RoleCodificador), workflowHandler.CompleteCoding)
	wf.Get("/dept-queue", RequireRole(entity.RoleAdmin, entity.RoleRevisor), workflowHandler.DeptQueue)
	wf.Post("/:id/approve", RequireRole(entity.RoleAdmin, entity.RoleRevisor), workflowHandler.Approve)
	wf.Post("/:id/reject", RequireRole(entity.RoleAdmin, entity.RoleRevisor), workflowHandler.Reject)

	// Price changes (protegido, revisión gerencial)
	changes := protected.Group("/price-changes", RequireRole(entity.RoleAdmin, entity.RoleGerente))
	priceChangeHandler := NewPriceChangeHandler(deps.ApprovalUC, deps.ReportGen)
	changes.Get("/pending", priceChangeHandler.Pending)
	changes.Get("/history", priceChangeHandler.History)
	changes.Get("/report", priceChangeHandler.Report)
	changes.Post("/:id/resolve", priceChangeHandler.Resolve)
	changes.Post("/invoice/:id/resolve", priceChangeHandler.BulkResolve)

	// Imports (protegido, solo admin)
	imports := protected.Group("/imports", RequireRole(entity.RoleAdmin))
	importHandler := NewImportHandler(deps.ImportUC)
	imports.Post("/csv", importHandler.ImportCSV)
}
