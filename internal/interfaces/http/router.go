package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cloudbpo/conteo-api/internal/application/auth"
	appcounting "github.com/cloudbpo/conteo-api/internal/application/counting"
	"github.com/cloudbpo/conteo-api/internal/application/usecase"
	"github.com/cloudbpo/conteo-api/internal/domain/authz"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	CompanyUC      *usecase.CompanyUseCase
	ProductUC      *usecase.ProductUseCase
	SectorUC       *usecase.SectorUseCase
	UserUC         *usecase.UserUseCase
	MessageUC      *usecase.MessageUseCase
	NotificationUC *usecase.NotificationUseCase
	CountingUC     *appcounting.CountingUseCase
	ApproveUC      *appcounting.ApproveUseCase
	ReportUC       *appcounting.ReportUseCase
	EntryUC        *appcounting.EntryUseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Enlace público de captura: el share token en la URL es la credencial,
	// sin AuthMiddleware a propósito.
	public := api.Group("/public/countings")
	publicHandler := NewPublicHandler(deps.EntryUC)
	public.Get("/:ref", publicHandler.Resolve)
	public.Put("/:ref/items/:itemId", publicHandler.CountItem)
	public.Post("/:ref/finalize", publicHandler.Finalize)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Companies (protegido; la creación inicial del tenant es administrativa)
	companies := protected.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Post("/", RequirePermission(authz.ActionCompanyManage), companyHandler.Create)
	companies.Get("/", RequirePermission(authz.ActionCompanyManage), companyHandler.List)
	companies.Get("/:id", companyHandler.GetByID)

	// Countings (protegido)
	countings := protected.Group("/countings")
	countingHandler := NewCountingHandler(deps.CountingUC, deps.ApproveUC, deps.ReportUC)
	countings.Post("/", RequirePermission(authz.ActionCountingCreate), countingHandler.Create)
	countings.Get("/", RequirePermission(authz.ActionCountingView), countingHandler.List)
	countings.Get("/:id", RequirePermission(authz.ActionCountingView), countingHandler.GetByID)
	countings.Post("/:id/approve", RequirePermission(authz.ActionCountingApprove), countingHandler.Approve)
	countings.Get("/:id/report", RequirePermission(authz.ActionCountingView), countingHandler.Report)
	countings.Get("/:id/movements", RequirePermission(authz.ActionMovementView), countingHandler.Movements)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", RequirePermission(authz.ActionProductManage), productHandler.Create)
	products.Get("/", RequirePermission(authz.ActionProductView), productHandler.List)
	products.Get("/:id", RequirePermission(authz.ActionProductView), productHandler.GetByID)
	products.Put("/:id", RequirePermission(authz.ActionProductManage), productHandler.Update)
	products.Delete("/:id", RequirePermission(authz.ActionProductManage), productHandler.Delete)

	// Sectors (protegido)
	sectors := protected.Group("/sectors")
	sectorHandler := NewSectorHandler(deps.SectorUC)
	sectors.Post("/", RequirePermission(authz.ActionSectorManage), sectorHandler.Create)
	sectors.Get("/", RequirePermission(authz.ActionProductView), sectorHandler.List)
	sectors.Get("/:id", RequirePermission(authz.ActionProductView), sectorHandler.GetByID)
	sectors.Put("/:id", RequirePermission(authz.ActionSectorManage), sectorHandler.Update)
	sectors.Delete("/:id", RequirePermission(authz.ActionSectorManage), sectorHandler.Delete)
	sectors.Get("/:id/products", RequirePermission(authz.ActionProductView), sectorHandler.ListProducts)
	sectors.Post("/:id/products", RequirePermission(authz.ActionSectorManage), sectorHandler.AssignProduct)
	sectors.Delete("/:id/products/:productId", RequirePermission(authz.ActionSectorManage), sectorHandler.UnassignProduct)

	// Users (protegido, solo admin)
	users := protected.Group("/users", RequirePermission(authz.ActionUserManage))
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Put("/:id", userHandler.Update)

	// Messages (protegido)
	messages := protected.Group("/messages", RequirePermission(authz.ActionMessageSend))
	messageHandler := NewMessageHandler(deps.MessageUC)
	messages.Post("/", messageHandler.Send)
	messages.Get("/", messageHandler.Inbox)
	messages.Post("/:id/read", messageHandler.MarkRead)

	// Notifications (protegido)
	notifications := protected.Group("/notifications")
	notificationHandler := NewNotificationHandler(deps.NotificationUC)
	notifications.Get("/", notificationHandler.List)
	notifications.Post("/:id/read", notificationHandler.MarkRead)
}
