package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sgmi/production-backend/internal/domain"
	"github.com/sgmi/production-backend/internal/repository"
	"github.com/sgmi/production-backend/internal/service"
)

type PlanService interface {
	Create(ctx context.Context, plan *domain.ProductionPlan) (*domain.ProductionPlan, error)
	GetByID(ctx context.Context, id string) (*domain.ProductionPlan, error)
	List(ctx context.Context, filter repository.PlanFilter) ([]domain.ProductionPlan, error)
	UpdateStatus(ctx context.Context, id string, status domain.PlanStatus) error
}

type BatchService interface {
	Create(ctx context.Context, input service.CreateBatchInput) (*domain.Batch, error)
	PerformAction(ctx context.Context, batchID string, action domain.BatchAction) error
	GetStatus(ctx context.Context, batchID string) (*domain.Batch, error)
	ListByPlan(ctx context.Context, planID string) ([]domain.Batch, error)
	CreateRetroactive(ctx context.Context, input service.RetroactiveBatchInput) (*domain.Batch, error)
}

type EntryService interface {
	Create(ctx context.Context, entry *domain.ProductionEntry) (*domain.ProductionEntry, error)
	List(ctx context.Context, filter repository.EntryFilter) ([]domain.ProductionEntry, error)
}

// ProductionHandler serves the plan, batch and entry endpoints used by
// the production floor.
type ProductionHandler struct {
	plans   PlanService
	batches BatchService
	entries EntryService
}

func NewProductionHandler(plans PlanService, batches BatchService, entries EntryService) (*ProductionHandler, error) {
	if plans == nil || batches == nil || entries == nil {
		return nil, fmt.Errorf("production handler requires plan, batch and entry services")
	}
	return &ProductionHandler{plans: plans, batches: batches, entries: entries}, nil
}

func RegisterProductionRoutes(router fiber.Router, plans PlanService, batches BatchService, entries EntryService, requireAuth fiber.Handler) error {
	h, err := NewProductionHandler(plans, batches, entries)
	if err != nil {
		return err
	}

	managers := RequireRoles(domain.RoleManager, domain.RoleDirector)

	planGroup := router.Group("/plans", requireAuth)
	planGroup.Post("/", managers, h.CreatePlan)
	planGroup.Get("/", h.ListPlans)
	planGroup.Get("/:id", h.GetPlan)
	planGroup.Patch("/:id/status", managers, h.UpdatePlanStatus)
	planGroup.Get("/:id/batches", h.ListPlanBatches)

	batchGroup := router.Group("/batches", requireAuth)
	batchGroup.Post("/", h.CreateBatch)
	batchGroup.Post("/retroactive", h.CreateRetroactiveBatch)
	batchGroup.Get("/:id", h.GetBatch)
	batchGroup.Post("/:id/actions", h.PerformBatchAction)

	entryGroup := router.Group("/entries", requireAuth)
	entryGroup.Post("/", h.CreateEntry)
	entryGroup.Get("/", h.ListEntries)

	return nil
}

type createPlanRequest struct {
	ProductID       string  `json:"productId"`
	PlannedQuantity float64 `json:"plannedQuantity"`
	PlannedDate     string  `json:"plannedDate"`
	Shift           *string `json:"shift,omitempty"`
}

type updatePlanStatusRequest struct {
	Status string `json:"status"`
}

type planResponse struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"productId"`
	PlannedQuantity float64   `json:"plannedQuantity"`
	PlannedDate     time.Time `json:"plannedDate"`
	Shift           *string   `json:"shift,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

type createBatchRequest struct {
	ProductionPlanID string   `json:"productionPlanId"`
	BatchNumber      int      `json:"batchNumber"`
	EstimatedKg      *float64 `json:"estimatedKg,omitempty"`
	BatchCount       *int     `json:"batchCount,omitempty"`
}

type batchActionRequest struct {
	Action string `json:"action"`
}

type retroactiveBatchRequest struct {
	ProductName     string `json:"productName"`
	Shift           string `json:"shift"`
	PlannedDate     string `json:"plannedDate"`
	BatchCount      int    `json:"batchCount"`
	DurationMinutes int    `json:"durationMinutes"`
}

type batchResponse struct {
	ID                   string     `json:"id"`
	ProductionPlanID     string     `json:"productionPlanId"`
	BatchNumber          int        `json:"batchNumber"`
	Status               string     `json:"status"`
	StartTime            *time.Time `json:"startTime,omitempty"`
	EndTime              *time.Time `json:"endTime,omitempty"`
	PauseDurationMinutes int        `json:"pauseDurationMinutes"`
	EstimatedKg          float64    `json:"estimatedKg"`
	CreatedAt            time.Time  `json:"createdAt"`
}

type createEntryRequest struct {
	ProductID       string  `json:"productId"`
	Quantity        float64 `json:"quantity"`
	Shift           string  `json:"shift"`
	DurationMinutes *int    `json:"durationMinutes,omitempty"`
}

type entryResponse struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"productId"`
	Quantity        float64   `json:"quantity"`
	Shift           string    `json:"shift"`
	DurationMinutes *int      `json:"durationMinutes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (h *ProductionHandler) CreatePlan(c *fiber.Ctx) error {
	var req createPlanRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	plannedDate, err := parseDate(req.PlannedDate, "plannedDate")
	if err != nil {
		return err
	}

	plan := &domain.ProductionPlan{
		ProductID:       req.ProductID,
		PlannedQuantity: req.PlannedQuantity,
		PlannedDate:     plannedDate,
	}
	if req.Shift != nil {
		shift, err := domain.ParseShiftFromString(*req.Shift)
		if err != nil {
			return err
		}
		plan.Shift = &shift
	}

	created, err := h.plans.Create(c.Context(), plan)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toPlanResponse(created))
}

func (h *ProductionHandler) ListPlans(c *fiber.Ctx) error {
	filter, err := parsePlanFilter(c)
	if err != nil {
		return err
	}

	plans, err := h.plans.List(c.Context(), filter)
	if err != nil {
		return err
	}

	responses := make([]planResponse, 0, len(plans))
	for i := range plans {
		responses = append(responses, toPlanResponse(&plans[i]))
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": responses})
}

func (h *ProductionHandler) GetPlan(c *fiber.Ctx) error {
	plan, err := h.plans.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(toPlanResponse(plan))
}

func (h *ProductionHandler) UpdatePlanStatus(c *fiber.Ctx) error {
	var req updatePlanStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	status, err := domain.ParsePlanStatusFromString(req.Status)
	if err != nil {
		return err
	}

	id := c.Params("id")
	if err := h.plans.UpdateStatus(c.Context(), id, status); err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"planId": id,
		"status": status.String(),
	})
}

func (h *ProductionHandler) ListPlanBatches(c *fiber.Ctx) error {
	batches, err := h.batches.ListByPlan(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	responses := make([]batchResponse, 0, len(batches))
	for i := range batches {
		responses = append(responses, toBatchResponse(&batches[i]))
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": responses})
}

func (h *ProductionHandler) CreateBatch(c *fiber.Ctx) error {
	var req createBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	batch, err := h.batches.Create(c.Context(), service.CreateBatchInput{
		ProductionPlanID: req.ProductionPlanID,
		BatchNumber:      req.BatchNumber,
		EstimatedKg:      req.EstimatedKg,
		BatchCount:       req.BatchCount,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toBatchResponse(batch))
}

func (h *ProductionHandler) PerformBatchAction(c *fiber.Ctx) error {
	var req batchActionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	action, err := domain.ParseBatchActionFromString(req.Action)
	if err != nil {
		return err
	}

	id := c.Params("id")
	if err := h.batches.PerformAction(c.Context(), id, action); err != nil {
		return err
	}

	batch, err := h.batches.GetStatus(c.Context(), id)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(toBatchResponse(batch))
}

func (h *ProductionHandler) GetBatch(c *fiber.Ctx) error {
	batch, err := h.batches.GetStatus(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(toBatchResponse(batch))
}

func (h *ProductionHandler) CreateRetroactiveBatch(c *fiber.Ctx) error {
	var req retroactiveBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	shift, err := domain.ParseShiftFromString(req.Shift)
	if err != nil {
		return err
	}
	plannedDate, err := parseDate(req.PlannedDate, "plannedDate")
	if err != nil {
		return err
	}

	batch, err := h.batches.CreateRetroactive(c.Context(), service.RetroactiveBatchInput{
		ProductName:     req.ProductName,
		Shift:           shift,
		PlannedDate:     plannedDate,
		BatchCount:      req.BatchCount,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toBatchResponse(batch))
}

func (h *ProductionHandler) CreateEntry(c *fiber.Ctx) error {
	var req createEntryRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	shift, err := domain.ParseShiftFromString(req.Shift)
	if err != nil {
		return err
	}

	entry, err := h.entries.Create(c.Context(), &domain.ProductionEntry{
		ProductID:       req.ProductID,
		Quantity:        req.Quantity,
		Shift:           shift,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(toEntryResponse(entry))
}

func (h *ProductionHandler) ListEntries(c *fiber.Ctx) error {
	filter, err := parseEntryFilter(c)
	if err != nil {
		return err
	}

	entries, err := h.entries.List(c.Context(), filter)
	if err != nil {
		return err
	}

	responses := make([]entryResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, toEntryResponse(&entries[i]))
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"data": responses})
}

func parsePlanFilter(c *fiber.Ctx) (repository.PlanFilter, error) {
	var filter repository.PlanFilter

	from, err := parseOptionalDate(c.Query("from"), "from")
	if err != nil {
		return repository.PlanFilter{}, err
	}
	to, err := parseOptionalDate(c.Query("to"), "to")
	if err != nil {
		return repository.PlanFilter{}, err
	}
	filter.From = from
	filter.To = to

	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, err := domain.ParsePlanStatusFromString(raw)
		if err != nil {
			return repository.PlanFilter{}, err
		}
		filter.Status = &status
	}

	return filter, nil
}

func parseEntryFilter(c *fiber.Ctx) (repository.EntryFilter, error) {
	var filter repository.EntryFilter

	from, err := parseOptionalDate(c.Query("from"), "from")
	if err != nil {
		return repository.EntryFilter{}, err
	}
	to, err := parseOptionalDate(c.Query("to"), "to")
	if err != nil {
		return repository.EntryFilter{}, err
	}
	filter.From = from
	filter.To = to

	if productID := strings.TrimSpace(c.Query("productId")); productID != "" {
		filter.ProductID = &productID
	}

	return filter, nil
}

// parseDate accepts RFC3339 or a bare calendar date.
func parseDate(value string, field string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("%w: %s is required", domain.ErrValidation, field)
	}

	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", trimmed); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %s must be RFC3339 or YYYY-MM-DD", domain.ErrValidation, field)
}

func parseOptionalDate(value string, field string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := parseDate(value, field)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func toPlanResponse(p *domain.ProductionPlan) planResponse {
	if p == nil {
		return planResponse{}
	}
	resp := planResponse{
		ID:              p.ID,
		ProductID:       p.ProductID,
		PlannedQuantity: p.PlannedQuantity,
		PlannedDate:     p.PlannedDate,
		Status:          p.Status.String(),
		CreatedAt:       p.CreatedAt,
	}
	if p.Shift != nil {
		shift := p.Shift.String()
		resp.Shift = &shift
	}
	return resp
}

func toBatchResponse(b *domain.Batch) batchResponse {
	if b == nil {
		return batchResponse{}
	}
	return batchResponse{
		ID:                   b.ID,
		ProductionPlanID:     b.ProductionPlanID,
		BatchNumber:          b.BatchNumber,
		Status:               b.Status.String(),
		StartTime:            b.StartTime,
		EndTime:              b.EndTime,
		PauseDurationMinutes: b.PauseDurationMinutes,
		EstimatedKg:          b.EstimatedKg,
		CreatedAt:            b.CreatedAt,
	}
}

func toEntryResponse(e *domain.ProductionEntry) entryResponse {
	if e == nil {
		return entryResponse{}
	}
	return entryResponse{
		ID:              e.ID,
		ProductID:       e.ProductID,
		Quantity:        e.Quantity,
		Shift:           e.Shift.String(),
		DurationMinutes: e.DurationMinutes,
		CreatedAt:       e.CreatedAt,
	}
}
