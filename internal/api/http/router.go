package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/quocphungccq1911h/mobi/internal/api/http/handlers"
	"github.com/quocphungccq1911h/mobi/internal/auth"
	"github.com/quocphungccq1911h/mobi/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Products       *handlers.ProductsHandler
	AuthMiddleware *auth.Middleware
}

// route binds one operation to its handler and access rule.
type route struct {
	method  string
	path    string
	rule    auth.Rule
	handler fiber.Handler
}

// routeTable is the static operation-to-policy mapping, built once at
// startup and immutable afterward.
func routeTable(cfg RouteConfig) []route {
	ownerID := auth.PathParam("id")

	return []route{
		{fiber.MethodGet, "/health/live", auth.Public(), cfg.Health.Live},
		{fiber.MethodGet, "/health/ready", auth.Public(), cfg.Health.Ready},

		{fiber.MethodPost, "/api/auth/signup", auth.Public(), cfg.Auth.Signup},
		{fiber.MethodPost, "/api/auth/signin", auth.Public(), cfg.Auth.Signin},

		{fiber.MethodPost, "/api/users/forgot-password", auth.Public(), cfg.Users.ForgotPassword},
		{fiber.MethodPost, "/api/users/reset-password", auth.Public(), cfg.Users.ResetPassword},
		{fiber.MethodPost, "/api/users/change-password", auth.AuthenticatedAny(), cfg.Users.ChangePassword},
		{fiber.MethodGet, "/api/users", auth.RequireRole(domain.RoleAdmin), cfg.Users.List},
		{fiber.MethodGet, "/api/users/:id", auth.RequireRoleOrSelf(domain.RoleAdmin, ownerID), cfg.Users.Get},
		{fiber.MethodPut, "/api/users/:id", auth.RequireRoleOrSelf(domain.RoleAdmin, ownerID), cfg.Users.Update},
		{fiber.MethodDelete, "/api/users/:id", auth.RequireRole(domain.RoleAdmin), cfg.Users.Delete},

		{fiber.MethodGet, "/api/products", auth.Public(), cfg.Products.List},
		{fiber.MethodGet, "/api/products/:id", auth.Public(), cfg.Products.Get},
		{fiber.MethodPost, "/api/products", auth.RequireRole(domain.RoleAdmin), cfg.Products.Create},
		{fiber.MethodPut, "/api/products/:id", auth.RequireRole(domain.RoleAdmin), cfg.Products.Update},
		{fiber.MethodDelete, "/api/products/:id", auth.RequireRole(domain.RoleAdmin), cfg.Products.Delete},
	}
}

// RegisterRoutes wires HTTP routes. Authentication runs once per request;
// each route's declared rule is enforced before its handler.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.AuthMiddleware.Authenticate)

	for _, r := range routeTable(cfg) {
		app.Add(r.method, r.path, auth.Guard(r.rule), r.handler)
	}
}
