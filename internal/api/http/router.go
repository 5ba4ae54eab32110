package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/admin-console/internal/api/http/handlers"
	"github.com/spec-kit/admin-console/internal/authz"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Clients   *handlers.ClientsHandler
	Users     *handlers.UsersHandler
	Payments  *handlers.PaymentsHandler
	Finance   *handlers.FinanceHandler
	Wordpress *handlers.WordpressHandler
	Gate      *authz.Gate
	Registry  *prometheus.Registry
}

// RegisterRoutes wires HTTP routes. Every dashboard route is gated on the
// permission keys its page requires; auth flows and health stay public.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Registry != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Registry, promhttp.HandlerOpts{})))
	}

	app.Post("/login", cfg.Auth.Login)
	app.Post("/register", cfg.Auth.Register)
	app.Post("/verify-email", cfg.Auth.VerifyEmail)
	app.Post("/resend-verification", cfg.Auth.ResendVerification)
	app.Post("/logout", cfg.Auth.Logout)

	api := app.Group("/api")
	api.Get("/session", cfg.Auth.Session)

	crm := api.Group("/crm", cfg.Gate.Require("crm"))
	crm.Get("/dashboard", cfg.Clients.Dashboard)
	crm.Get("/stats", cfg.Clients.Stats)
	crm.Post("/customers", cfg.Clients.CreateCustomer)
	crm.Put("/customers/:id", cfg.Clients.UpdateCustomer)
	crm.Delete("/customers/:id", cfg.Clients.DeleteCustomer)

	sales := api.Group("/sales", cfg.Gate.Require("ceo", "crm"))
	sales.Post("/", cfg.Clients.CreateSale)
	sales.Put("/:id", cfg.Clients.UpdateSale)
	sales.Delete("/:id", cfg.Clients.DeleteSale)

	ceo := api.Group("", cfg.Gate.Require("ceo"))
	ceo.Get("/dashboard", cfg.Users.Dashboard)
	ceo.Post("/users", cfg.Users.Create)
	ceo.Put("/users/:id", cfg.Users.Update)
	ceo.Delete("/users/:id", cfg.Users.Delete)
	ceo.Get("/users/:id/permissions", cfg.Users.Permissions)
	ceo.Put("/users/:id/permissions", cfg.Users.UpdatePermissions)
	ceo.Get("/payments", cfg.Payments.List)
	ceo.Post("/payments", cfg.Payments.Create)
	ceo.Put("/payments/:id", cfg.Payments.Update)
	ceo.Delete("/payments/:id", cfg.Payments.Delete)
	ceo.Post("/payments/:id/toggle", cfg.Payments.Toggle)

	finance := api.Group("/finance", cfg.Gate.Require("finance_list"))
	finance.Get("/dashboard", cfg.Finance.Dashboard)
	finance.Get("/exchange-rate", cfg.Finance.ExchangeRate)

	wp := api.Group("/wordpress", cfg.Gate.Require("wordpress"))
	wp.Get("/projects", cfg.Wordpress.List)
	wp.Post("/projects", cfg.Wordpress.Create)
	wp.Put("/projects/:id", cfg.Wordpress.Update)
	wp.Delete("/projects/:id", cfg.Wordpress.Delete)
}
