package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-obra/internal/application/auth"
	"github.com/jhoicas/almacen-obra/internal/application/contractor"
	"github.com/jhoicas/almacen-obra/internal/application/extract"
	"github.com/jhoicas/almacen-obra/internal/application/store"
	"github.com/jhoicas/almacen-obra/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	IntakeUC     *store.IntakeUseCase
	IssueUC      *store.IssueUseCase
	SummaryUC    *store.SummaryUseCase
	ContractorUC *contractor.UseCase
	MaterialsUC  *contractor.MaterialsUseCase
	ExtractUC    *extract.UseCase
	AuthUC       *auth.AuthUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Solo admin y almacenista escriben en el almacén; el ingeniero consulta.
	canWrite := RequireRole(entity.RoleAdmin, entity.RoleAlmacenista)

	// Almacén (protegido)
	storeGroup := protected.Group("/store")
	storeHandler := NewStoreHandler(deps.IntakeUC, deps.IssueUC, deps.SummaryUC)
	storeGroup.Post("/supplies", canWrite, storeHandler.RegisterSupply)
	storeGroup.Get("/supplies", storeHandler.ListSupplies)
	storeGroup.Post("/purchases", canWrite, storeHandler.RegisterPurchase)
	storeGroup.Get("/purchases", storeHandler.ListPurchases)
	storeGroup.Post("/returns", canWrite, storeHandler.RegisterReturn)
	storeGroup.Delete("/lots/:id", canWrite, storeHandler.DeleteLot)
	storeGroup.Post("/issues", canWrite, storeHandler.Issue)
	storeGroup.Get("/issues/plan", storeHandler.PlanIssue)
	storeGroup.Get("/availability", storeHandler.Availability)
	storeGroup.Get("/ledger", storeHandler.Ledger)
	storeGroup.Get("/summary", storeHandler.Summary)
	storeGroup.Get("/summary/export", storeHandler.ExportSummary)

	// Contratistas (protegido)
	contractors := protected.Group("/contractors")
	contractorHandler := NewContractorHandler(deps.ContractorUC, deps.MaterialsUC)
	contractors.Post("/", canWrite, contractorHandler.Create)
	contractors.Get("/", contractorHandler.List)
	contractors.Get("/:id", contractorHandler.GetByID)
	contractors.Put("/:id", canWrite, contractorHandler.Update)
	contractors.Delete("/:id", canWrite, contractorHandler.Delete)
	contractors.Get("/:id/issues", contractorHandler.Issues)
	contractors.Get("/:id/deductions", contractorHandler.Deductions)
	contractors.Get("/:id/materials", contractorHandler.ListMaterials)
	contractors.Post("/:id/materials", canWrite, contractorHandler.RestoreMaterial)
	contractors.Post("/:id/materials/deduct", canWrite, contractorHandler.DeductMaterial)
	contractors.Delete("/:id/materials/:materialId", canWrite, contractorHandler.RemoveMaterial)

	// Cortes (protegido)
	extracts := protected.Group("/extracts")
	extractHandler := NewExtractHandler(deps.ExtractUC)
	extracts.Post("/", canWrite, extractHandler.Create)
	extracts.Get("/", extractHandler.List)
	extracts.Get("/:id", extractHandler.GetByID)
	extracts.Delete("/:id", canWrite, extractHandler.Delete)
	extracts.Get("/:id/pdf", extractHandler.RenderPDF)
	extracts.Patch("/:id/work-items/:itemId", canWrite, extractHandler.UpdateWorkItem)
	extracts.Delete("/:id/work-items/:itemId", canWrite, extractHandler.DeleteWorkItem)
}
