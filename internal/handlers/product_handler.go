package handlers

import (
	"bytes"
	"errors"
	"strings"

	"catalog/internal/models"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service *services.ProductService
	log     *zerolog.Logger
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService, log *zerolog.Logger) *ProductHandler {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &ProductHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("", h.HandleGetProducts)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts retrieves all products in store order.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	h.log.Info().Msg("GET /products - Fetching all products")

	products, err := h.service.GetAllProducts(c.UserContext())
	if err != nil {
		h.log.Error().Err(err).Msg("Error fetching products")
		return errorResponse(c, fiber.StatusInternalServerError, "Error fetching products", err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	productID := c.Params("id")
	h.log.Info().Str("id", productID).Msg("GET /products/:id - Fetching product by ID")

	product, err := h.service.GetProductByID(c.UserContext(), productID)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			return notFound(c)
		}
		h.log.Error().Err(err).Str("id", productID).Msg("Error fetching product")
		return errorResponse(c, fiber.StatusInternalServerError, "Error fetching product", err)
	}
	return c.JSON(product)
}

// HandleCreateProduct validates the body and creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	fields, err := parseBody(c)
	if err != nil {
		h.log.Warn().Err(err).Msg("Error parsing request body")
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	h.log.Info().Interface("body", fields).Msg("POST /products - Creating new product")

	product, err := h.service.CreateProduct(c.UserContext(), models.NewProductInput(fields))
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			h.log.Info().Strs("fields", verr.Fields).Msg("Rejected product payload")
			return errorResponse(c, fiber.StatusBadRequest, verr.Error(), nil)
		}
		h.log.Error().Err(err).Msg("Error creating product")
		return errorResponse(c, fiber.StatusInternalServerError, "Error creating product", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product created successfully",
		"product": product,
	})
}

// HandleUpdateProduct merges any subset of fields into an existing product.
// The body is not validated here.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	fields, err := parseBody(c)
	if err != nil {
		h.log.Warn().Err(err).Str("id", productID).Msg("Error parsing request body")
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	h.log.Info().Str("id", productID).Interface("body", fields).Msg("PUT /products/:id - Updating product")

	product, err := h.service.UpdateProduct(c.UserContext(), productID, models.ProductPatch(fields))
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			return notFound(c)
		}
		h.log.Error().Err(err).Str("id", productID).Msg("Error updating product")
		return errorResponse(c, fiber.StatusInternalServerError, "Error updating product", err)
	}

	return c.JSON(fiber.Map{
		"message": "Product updated successfully",
		"product": product,
	})
}

// HandleDeleteProduct permanently removes a product.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	productID := c.Params("id")
	h.log.Info().Str("id", productID).Msg("DELETE /products/:id - Deleting product by ID")

	if err := h.service.DeleteProduct(c.UserContext(), productID); err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			return notFound(c)
		}
		h.log.Error().Err(err).Str("id", productID).Msg("Error deleting product")
		return errorResponse(c, fiber.StatusInternalServerError, "Error deleting product", err)
	}

	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}

// parseBody decodes a JSON object body. A body that is empty or not sent as
// JSON reads as an empty object.
func parseBody(c *fiber.Ctx) (map[string]any, error) {
	fields := map[string]any{}
	body := c.Body()
	contentType := strings.ToLower(c.Get(fiber.HeaderContentType))
	if len(bytes.TrimSpace(body)) == 0 || !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
		return fields, nil
	}
	if err := c.App().Config().JSONDecoder(body, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func notFound(c *fiber.Ctx) error {
	return errorResponse(c, fiber.StatusNotFound, "Product not found", nil)
}

// errorResponse writes the error envelope {message, error?}.
func errorResponse(c *fiber.Ctx, status int, message string, err error) error {
	body := fiber.Map{"message": message}
	if err != nil {
		body["error"] = err.Error()
	}
	return c.Status(status).JSON(body)
}

// ErrorHandler renders errors that escape a handler (unknown routes,
// recovered panics) as the error envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{"message": err.Error()})
}
