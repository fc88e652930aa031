package handler

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sgmi/production-backend/internal/domain"
	"github.com/sgmi/production-backend/internal/repository"
)

type ReportService interface {
	DailyProduction(ctx context.Context, from time.Time, to time.Time) ([]repository.DailyProductionRow, error)
}

// DirectorHandler serves the aggregate reports behind the director
// role guard.
type DirectorHandler struct {
	reports ReportService
}

func NewDirectorHandler(reports ReportService) (*DirectorHandler, error) {
	if reports == nil {
		return nil, fmt.Errorf("report service is required")
	}
	return &DirectorHandler{reports: reports}, nil
}

func RegisterDirectorRoutes(router fiber.Router, reports ReportService, requireAuth fiber.Handler) error {
	h, err := NewDirectorHandler(reports)
	if err != nil {
		return err
	}

	group := router.Group("/reports", requireAuth, RequireRoles(domain.RoleDirector, domain.RoleManager))
	group.Get("/daily", h.DailyProduction)

	return nil
}

type dailyProductionItem struct {
	PlannedDate      time.Time `json:"plannedDate"`
	ProductID        string    `json:"productId"`
	ProductName      string    `json:"productName"`
	TotalBatches     int       `json:"totalBatches"`
	CompletedBatches int       `json:"completedBatches"`
	EstimatedKg      float64   `json:"estimatedKg"`
}

func (h *DirectorHandler) DailyProduction(c *fiber.Ctx) error {
	from, err := parseDate(c.Query("from"), "from")
	if err != nil {
		return err
	}
	to, err := parseDate(c.Query("to"), "to")
	if err != nil {
		return err
	}

	rows, err := h.reports.DailyProduction(c.Context(), from, to)
	if err != nil {
		return err
	}

	items := make([]dailyProductionItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, dailyProductionItem{
			PlannedDate:      row.PlannedDate,
			ProductID:        row.ProductID,
			ProductName:      row.ProductName,
			TotalBatches:     row.TotalBatches,
			CompletedBatches: row.CompletedBatches,
			EstimatedKg:      row.EstimatedKg,
		})
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": items})
}
