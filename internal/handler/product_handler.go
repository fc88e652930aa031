package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sgmi/production-backend/internal/domain"
)

type ProductService interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
}

type ProductHandler struct {
	service ProductService
}

func NewProductHandler(service ProductService) (*ProductHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("product service is required")
	}
	return &ProductHandler{service: service}, nil
}

// RegisterProductRoutes mounts the catalog endpoints. Creation is
// restricted to managers and directors.
func RegisterProductRoutes(router fiber.Router, service ProductService, requireAuth fiber.Handler) error {
	h, err := NewProductHandler(service)
	if err != nil {
		return err
	}

	group := router.Group("/products", requireAuth)
	group.Get("/", h.List)
	group.Post("/", RequireRoles(domain.RoleManager, domain.RoleDirector), h.Create)

	return nil
}

type createProductRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Unit string `json:"unit"`
}

type productResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Unit      string    `json:"unit"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var req createProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	productType, err := domain.ParseProductTypeFromString(req.Type)
	if err != nil {
		return err
	}

	product, err := h.service.Create(c.Context(), &domain.Product{
		Name: req.Name,
		Type: productType,
		Unit: req.Unit,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(toProductResponse(product))
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.service.List(c.Context())
	if err != nil {
		return err
	}

	responses := make([]productResponse, 0, len(products))
	for i := range products {
		responses = append(responses, toProductResponse(&products[i]))
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": responses})
}

func toProductResponse(p *domain.Product) productResponse {
	if p == nil {
		return productResponse{}
	}
	return productResponse{
		ID:        p.ID,
		Name:      p.Name,
		Type:      p.Type.String(),
		Unit:      p.Unit,
		CreatedAt: p.CreatedAt,
	}
}
