package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/crm-motorenting/internal/application/auth"
	"github.com/jhoicas/crm-motorenting/internal/application/customers"
	"github.com/jhoicas/crm-motorenting/internal/application/usecase"
	"github.com/jhoicas/crm-motorenting/internal/domain/access"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	CustomerUC   *customers.UseCase
	UserUC       *usecase.UserUseCase
	StateUC      *usecase.StateUseCase
	MotivationUC *usecase.MotivationUseCase
	Policy       *access.Policy
	Metrics      *Metrics
	JWTSecret    string
	ServiceName  string
	// Ping comprueba la base de datos en /health; nil = sin comprobación.
	Ping func(ctx context.Context) error
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps.ServiceName, deps.Ping))
	if deps.Metrics != nil {
		app.Get("/metrics", deps.Metrics.Handler())
	}

	api := app.Group("/api")
	authMW := AuthMiddleware(deps.JWTSecret)
	require := func(op access.Operation) fiber.Handler { return RequireOperation(deps.Policy, op) }

	// Auth: login público, el resto con Bearer Token
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/register", authMW, require(access.OpManageUsers), authHandler.Register)
	authGroup.Get("/me", authMW, authHandler.Me)
	authGroup.Patch("/me", authMW, authHandler.UpdateMe)
	authGroup.Patch("/me/password", authMW, authHandler.ChangePassword)

	// Customers: las rutas fijas van antes de /:id
	customerHandler := NewCustomerHandler(deps.CustomerUC, deps.Metrics)
	cg := api.Group("/customers", authMW)
	cg.Get("/", customerHandler.List)
	cg.Get("/delivered", customerHandler.ListDelivered)
	cg.Get("/delivered/export", require(access.OpExportCustomers), customerHandler.ExportDelivered)
	cg.Post("/", customerHandler.Create)
	cg.Post("/import", require(access.OpImportCustomers), customerHandler.Import)
	cg.Post("/assign-multiple", require(access.OpBulkReassign), customerHandler.AssignMultiple)
	cg.Get("/:id", customerHandler.GetByID)
	cg.Put("/:id", customerHandler.Update)
	cg.Delete("/:id", customerHandler.Delete)
	cg.Post("/:id/comments", customerHandler.AddComment)
	cg.Post("/:id/assign/:advisorId", require(access.OpReassignCustomer), customerHandler.Assign)

	// Users
	userHandler := NewUserHandler(deps.UserUC)
	ug := api.Group("/users", authMW)
	ug.Get("/", require(access.OpListUsers), userHandler.List)
	ug.Post("/", require(access.OpManageUsers), userHandler.Create)
	ug.Post("/upload-avatar", userHandler.UploadAvatar)
	ug.Get("/:id", userHandler.GetByID)
	ug.Put("/:id", userHandler.Update)
	ug.Delete("/:id", require(access.OpManageUsers), userHandler.Delete)
	ug.Patch("/:id/toggle-role", require(access.OpManageUsers), userHandler.ToggleRole)

	// States
	stateHandler := NewStateHandler(deps.StateUC)
	sg := api.Group("/states", authMW)
	sg.Get("/", stateHandler.List)
	sg.Get("/:id", stateHandler.GetByID)

	// Motivation
	motivationHandler := NewMotivationHandler(deps.MotivationUC)
	mg := api.Group("/motivation", authMW)
	mg.Get("/", motivationHandler.Latest)
	mg.Post("/", require(access.OpManageMotivation), motivationHandler.Create)
	mg.Put("/:id", require(access.OpManageMotivation), motivationHandler.Update)
	mg.Delete("/:id", require(access.OpManageMotivation), motivationHandler.Delete)
}

// healthHandler 200 si la base responde, 503 si no.
func healthHandler(service string, ping func(ctx context.Context) error) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				c.Locals(localError, err)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "service": service})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": service})
	}
}
