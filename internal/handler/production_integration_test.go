package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sgmi/production-backend/internal/auth"
	"github.com/sgmi/production-backend/internal/domain"
	"github.com/sgmi/production-backend/internal/repository"
	"github.com/sgmi/production-backend/internal/service"
	"github.com/sgmi/production-backend/internal/transport"
	"go.uber.org/zap"
)

const testSecret = "integration-secret"

type stubPlanService struct {
	createFn       func(ctx context.Context, plan *domain.ProductionPlan) (*domain.ProductionPlan, error)
	getByIDFn      func(ctx context.Context, id string) (*domain.ProductionPlan, error)
	listFn         func(ctx context.Context, filter repository.PlanFilter) ([]domain.ProductionPlan, error)
	updateStatusFn func(ctx context.Context, id string, status domain.PlanStatus) error
}

func (s *stubPlanService) Create(ctx context.Context, plan *domain.ProductionPlan) (*domain.ProductionPlan, error) {
	return s.createFn(ctx, plan)
}

func (s *stubPlanService) GetByID(ctx context.Context, id string) (*domain.ProductionPlan, error) {
	if s.getByIDFn == nil {
		return nil, domain.ErrPlanNotFound
	}
	return s.getByIDFn(ctx, id)
}

func (s *stubPlanService) List(ctx context.Context, filter repository.PlanFilter) ([]domain.ProductionPlan, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, filter)
}

func (s *stubPlanService) UpdateStatus(ctx context.Context, id string, status domain.PlanStatus) error {
	if s.updateStatusFn == nil {
		return nil
	}
	return s.updateStatusFn(ctx, id, status)
}

type stubBatchService struct {
	createFn        func(ctx context.Context, input service.CreateBatchInput) (*domain.Batch, error)
	performActionFn func(ctx context.Context, batchID string, action domain.BatchAction) error
	getStatusFn     func(ctx context.Context, batchID string) (*domain.Batch, error)
	listByPlanFn    func(ctx context.Context, planID string) ([]domain.Batch, error)
	retroactiveFn   func(ctx context.Context, input service.RetroactiveBatchInput) (*domain.Batch, error)
}

func (s *stubBatchService) Create(ctx context.Context, input service.CreateBatchInput) (*domain.Batch, error) {
	return s.createFn(ctx, input)
}

func (s *stubBatchService) PerformAction(ctx context.Context, batchID string, action domain.BatchAction) error {
	if s.performActionFn == nil {
		return nil
	}
	return s.performActionFn(ctx, batchID, action)
}

func (s *stubBatchService) GetStatus(ctx context.Context, batchID string) (*domain.Batch, error) {
	if s.getStatusFn == nil {
		return &domain.Batch{ID: batchID, Status: domain.BatchStatusPlanned}, nil
	}
	return s.getStatusFn(ctx, batchID)
}

func (s *stubBatchService) ListByPlan(ctx context.Context, planID string) ([]domain.Batch, error) {
	if s.listByPlanFn == nil {
		return nil, nil
	}
	return s.listByPlanFn(ctx, planID)
}

func (s *stubBatchService) CreateRetroactive(ctx context.Context, input service.RetroactiveBatchInput) (*domain.Batch, error) {
	if s.retroactiveFn == nil {
		return nil, domain.ErrNotFound
	}
	return s.retroactiveFn(ctx, input)
}

type stubEntryService struct {
	createFn func(ctx context.Context, entry *domain.ProductionEntry) (*domain.ProductionEntry, error)
	listFn   func(ctx context.Context, filter repository.EntryFilter) ([]domain.ProductionEntry, error)
}

func (s *stubEntryService) Create(ctx context.Context, entry *domain.ProductionEntry) (*domain.ProductionEntry, error) {
	if s.createFn == nil {
		entry.ID = "e-1"
		return entry, nil
	}
	return s.createFn(ctx, entry)
}

func (s *stubEntryService) List(ctx context.Context, filter repository.EntryFilter) ([]domain.ProductionEntry, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, filter)
}

func newProductionTestApp(t *testing.T, plans PlanService, batches BatchService, entries EntryService) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{ErrorHandler: transport.ErrorHandler(zap.NewNop())})
	if err := RegisterProductionRoutes(app.Group("/api/v1"), plans, batches, entries, RequireAuth(testSecret)); err != nil {
		t.Fatalf("RegisterProductionRoutes() error = %v", err)
	}
	return app
}

func bearerToken(t *testing.T, role domain.Role) string {
	t.Helper()

	token, err := auth.NewAccessToken(testSecret, "user-1", role, time.Minute)
	if err != nil {
		t.Fatalf("NewAccessToken() error = %v", err)
	}
	return "Bearer " + token
}

func performRequest(t *testing.T, app *fiber.App, method string, target string, body string, authHeader string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if authHeader != "" {
		req.Header.Set(fiber.HeaderAuthorization, authHeader)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body error = %v", err)
	}
	return resp, payload
}

func TestProductionIntegration_CreateBatch(t *testing.T) {
	t.Parallel()

	batches := &stubBatchService{
		createFn: func(ctx context.Context, input service.CreateBatchInput) (*domain.Batch, error) {
			if input.ProductionPlanID != "plan-1" || input.BatchNumber != 3 {
				t.Fatalf("input = %+v", input)
			}
			return &domain.Batch{
				ID:               "b-1",
				ProductionPlanID: input.ProductionPlanID,
				BatchNumber:      input.BatchNumber,
				Status:           domain.BatchStatusPlanned,
				EstimatedKg:      120,
			}, nil
		},
	}
	app := newProductionTestApp(t, &stubPlanService{}, batches, &stubEntryService{})

	resp, body := performRequest(t, app, http.MethodPost, "/api/v1/batches/",
		`{"productionPlanId":"plan-1","batchNumber":3}`, bearerToken(t, domain.RoleOperator))
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", resp.StatusCode, string(body))
	}

	var created map[string]any
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if created["id"] != "b-1" || created["status"] != "PLANNED" {
		t.Fatalf("body = %v", created)
	}
}

func TestProductionIntegration_CreateBatchConflictAndMissingPlan(t *testing.T) {
	t.Parallel()

	batches := &stubBatchService{
		createFn: func(ctx context.Context, input service.CreateBatchInput) (*domain.Batch, error) {
			if input.ProductionPlanID == "missing" {
				return nil, domain.ErrPlanNotFound
			}
			return nil, domain.ErrDuplicateBatchNumber
		},
	}
	app := newProductionTestApp(t, &stubPlanService{}, batches, &stubEntryService{})

	resp, _ := performRequest(t, app, http.MethodPost, "/api/v1/batches/",
		`{"productionPlanId":"plan-1","batchNumber":3}`, bearerToken(t, domain.RoleOperator))
	if resp.StatusCode != fiber.StatusConflict {
		t.Fatalf("status = %d, want 409 for duplicate batch number", resp.StatusCode)
	}

	resp, _ = performRequest(t, app, http.MethodPost, "/api/v1/batches/",
		`{"productionPlanId":"missing","batchNumber":3}`, bearerToken(t, domain.RoleOperator))
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404 for missing plan", resp.StatusCode)
	}
}

func TestProductionIntegration_BatchActionInvalidTransition(t *testing.T) {
	t.Parallel()

	batches := &stubBatchService{
		createFn: func(ctx context.Context, input service.CreateBatchInput) (*domain.Batch, error) {
			return nil, domain.ErrValidation
		},
		performActionFn: func(ctx context.Context, batchID string, action domain.BatchAction) error {
			return domain.ErrInvalidTransition
		},
	}
	app := newProductionTestApp(t, &stubPlanService{}, batches, &stubEntryService{})

	resp, _ := performRequest(t, app, http.MethodPost, "/api/v1/batches/b-1/actions",
		`{"action":"complete"}`, bearerToken(t, domain.RoleOperator))
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for invalid transition", resp.StatusCode)
	}

	resp, _ = performRequest(t, app, http.MethodPost, "/api/v1/batches/b-1/actions",
		`{"action":"launch"}`, bearerToken(t, domain.RoleOperator))
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for unknown action name", resp.StatusCode)
	}
}

func TestProductionIntegration_AuthRequired(t *testing.T) {
	t.Parallel()

	app := newProductionTestApp(t, &stubPlanService{}, &stubBatchService{}, &stubEntryService{})

	resp, _ := performRequest(t, app, http.MethodGet, "/api/v1/plans/", "", "")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 without a token", resp.StatusCode)
	}

	resp, _ = performRequest(t, app, http.MethodGet, "/api/v1/plans/", "", "Bearer not-a-token")
	if resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 with a garbage token", resp.StatusCode)
	}
}

func TestProductionIntegration_PlanCreationRoleGuard(t *testing.T) {
	t.Parallel()

	plans := &stubPlanService{
		createFn: func(ctx context.Context, plan *domain.ProductionPlan) (*domain.ProductionPlan, error) {
			plan.ID = "plan-1"
			plan.Status = domain.PlanStatusPending
			return plan, nil
		},
	}
	app := newProductionTestApp(t, plans, &stubBatchService{}, &stubEntryService{})

	body := `{"productId":"prod-1","plannedQuantity":500,"plannedDate":"2026-02-11","shift":"MORNING"}`

	resp, _ := performRequest(t, app, http.MethodPost, "/api/v1/plans/", body, bearerToken(t, domain.RoleOperator))
	if resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("status = %d, want 403 for operator plan creation", resp.StatusCode)
	}

	resp, respBody := performRequest(t, app, http.MethodPost, "/api/v1/plans/", body, bearerToken(t, domain.RoleManager))
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201 for manager, body=%s", resp.StatusCode, string(respBody))
	}
}

func TestProductionIntegration_CreateEntry(t *testing.T) {
	t.Parallel()

	app := newProductionTestApp(t, &stubPlanService{}, &stubBatchService{}, &stubEntryService{})

	resp, body := performRequest(t, app, http.MethodPost, "/api/v1/entries/",
		`{"productId":"prod-1","quantity":240,"shift":"AFTERNOON","durationMinutes":45}`,
		bearerToken(t, domain.RoleOperator))
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", resp.StatusCode, string(body))
	}

	resp, _ = performRequest(t, app, http.MethodPost, "/api/v1/entries/",
		`{"productId":"prod-1","quantity":240,"shift":"LUNCH"}`, bearerToken(t, domain.RoleOperator))
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for unknown shift", resp.StatusCode)
	}
}
