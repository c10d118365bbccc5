package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/inventory-service/internal/api/http/handlers"
	"github.com/spec-kit/inventory-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Products *handlers.ProductsHandler
	Catalog  *handlers.CatalogHandler
	Pages    *handlers.PagesHandler
	Gate     *auth.AccessGate
}

// RegisterRoutes wires HTTP routes. The access gate runs before every route
// handler; route handlers never re-verify tokens.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Use(cfg.Gate.Handle)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/signup", cfg.Auth.Signup)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", cfg.Auth.Me)
	authGroup.Post("/logout", cfg.Auth.Logout)

	api.Get("/products", cfg.Products.List)
	api.Post("/products", cfg.Products.Create)
	api.Get("/products/:id", cfg.Products.Get)
	api.Put("/products/:id", cfg.Products.Update)
	api.Delete("/products/:id", cfg.Products.Delete)

	api.Post("/import-fakestore", cfg.Catalog.Import)

	app.Get("/", cfg.Pages.Home)
	app.Get("/login", cfg.Pages.Login)
	app.Get("/signup", cfg.Pages.Signup)

	dashboard := app.Group("/dashboard")
	dashboard.Get("/products", cfg.Pages.Products)
	dashboard.Get("/products/new", cfg.Pages.NewProduct)
	dashboard.Get("/products/:id", cfg.Pages.ProductDetail)
	dashboard.Use(cfg.Pages.NotFound)
}
