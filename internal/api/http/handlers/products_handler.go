package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/quocphungccq1911h/mobi/internal/api/dto"
	"github.com/quocphungccq1911h/mobi/internal/domain"
	"github.com/quocphungccq1911h/mobi/internal/service"
	"github.com/quocphungccq1911h/mobi/pkg/util/errorutil"
)

// ProductsHandler exposes catalog CRUD. Reads are public; writes are
// admin-gated in the route table.
type ProductsHandler struct {
	products *service.ProductService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(productService *service.ProductService) *ProductsHandler {
	return &ProductsHandler{products: productService}
}

// List handles GET /api/products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	products, err := h.products.List(c.UserContext())
	if err != nil {
		return errorutil.MapError(err)
	}
	return c.JSON(dto.NewProductResponses(products))
}

// Get handles GET /api/products/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	product, err := h.products.Get(c.UserContext(), id)
	if err != nil {
		return errorutil.MapError(err)
	}
	return c.JSON(dto.NewProductResponse(product))
}

// Create handles POST /api/products.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	req, err := parseProduct(c)
	if err != nil {
		return err
	}

	product := &domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}
	if err := h.products.Create(c.UserContext(), product); err != nil {
		return errorutil.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(dto.NewProductResponse(product))
}

// Update handles PUT /api/products/:id.
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	req, err := parseProduct(c)
	if err != nil {
		return err
	}

	product := &domain.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
	}
	if err := h.products.Update(c.UserContext(), product); err != nil {
		return errorutil.MapError(err)
	}
	return c.JSON(dto.NewProductResponse(product))
}

// Delete handles DELETE /api/products/:id.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.products.Delete(c.UserContext(), id); err != nil {
		return errorutil.MapError(err)
	}
	return c.JSON(dto.MessageResponse{Message: "Product deleted successfully!"})
}

func parseProduct(c *fiber.Ctx) (*dto.ProductRequest, error) {
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return nil, errorutil.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" {
		return nil, errorutil.NewValidationError("name is required", nil)
	}
	if req.Price < 0 {
		return nil, errorutil.NewValidationError("price must not be negative", nil)
	}
	return &req, nil
}
