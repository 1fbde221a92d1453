package main

import (
	"context"
	"fmt"
	"sort"

	"catalog/internal/handlers"
	"catalog/internal/models"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"
)

// newApp assembles the Fiber app: middleware, greeting, health and product
// routes.
func newApp(productService *services.ProductService, log *zerolog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "catalog",
		ErrorHandler:          handlers.ErrorHandler,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString("Hello, world.")
	})

	handlers.NewHealthHandler(productService).RegisterRoutes(app)
	handlers.NewProductHandler(productService, log).RegisterRoutes(app)

	return app
}

// logRoutes prints the listening address and the product routes.
func logRoutes(app *fiber.App, addr string, log *zerolog.Logger) {
	log.Info().Msgf("Products API listening at http://localhost%s", addr)

	var routes []string
	for _, r := range app.GetRoutes(true) {
		if r.Method == fiber.MethodHead {
			continue
		}
		routes = append(routes, fmt.Sprintf("%s %s", r.Method, r.Path))
	}
	sort.Strings(routes)
	log.Info().Strs("routes", routes).Msg("Available routes")
}

// seedProducts creates a few demo products through the service so they pass
// the same validation as client requests.
func seedProducts(ctx context.Context, s *services.ProductService, log *zerolog.Logger) {
	inputs := []map[string]any{
		{"name": "Laptop", "description": "High performance laptop", "price": 1200.00, "category": "Electronics", "inStock": true},
		{"name": "Keyboard", "description": "Mechanical keyboard", "price": 75.00, "category": "Electronics", "inStock": true},
		{"name": "Pen", "description": "Blue ink pen", "price": 1.5, "category": "Office", "inStock": false},
	}

	for _, fields := range inputs {
		product, err := s.CreateProduct(ctx, models.NewProductInput(fields))
		if err != nil {
			log.Error().Err(err).Interface("product", fields["name"]).Msg("Error seeding product")
			continue
		}
		log.Info().Str("id", product.ID).Str("name", product.Name).Msg("Seeded product")
	}
}
