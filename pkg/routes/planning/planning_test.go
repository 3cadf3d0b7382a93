package planning

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hideyanjp01-maker/workbench/internal/repositories/planningproduct"
	planningsvc "github.com/hideyanjp01-maker/workbench/internal/services/planning"
	"github.com/hideyanjp01-maker/workbench/pkg/middleware"
	"github.com/hideyanjp01-maker/workbench/pkg/models"
)

type memorySnapshots struct {
	doc planningproduct.StateDocument
}

func (m *memorySnapshots) Load(_ context.Context) (planningproduct.StateDocument, error) {
	if m.doc.Version == 0 {
		return planningproduct.NewStateDocument(), nil
	}
	return m.doc, nil
}

func (m *memorySnapshots) Save(_ context.Context, doc planningproduct.StateDocument) error {
	m.doc = doc
	return nil
}

type fakeCatalog struct{}

func (fakeCatalog) GetProduct(_ context.Context, _ string) (*models.Product, error) {
	return nil, nil
}
func (fakeCatalog) ListProducts(_ context.Context) ([]models.Product, error) {
	return nil, nil
}
func (fakeCatalog) ListProductsByStage(_ context.Context, _ models.Stage) ([]models.Product, error) {
	return nil, nil
}
func (fakeCatalog) ListMetricsByStage(_ context.Context, _ models.Stage) ([]models.Metric, error) {
	return nil, nil
}
func (fakeCatalog) UpsertProduct(_ context.Context, p *models.Product) (*models.Product, error) {
	return p, nil
}

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})

	repo := planningproduct.NewRepository(&memorySnapshots{}, logger)
	service := planningsvc.NewService(repo, fakeCatalog{}, nil, logger)

	e := echo.New()
	e.HTTPErrorHandler = middleware.Error(logger)
	e.Use(middleware.Context())
	e.Use(middleware.TestAuth())

	handler := NewHandler(service, logger)
	handler.Register(e.Group("/api/v1/planning"))
	return e
}

func doRequest(e *echo.Echo, method, path, role, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if role != "" {
		req.Header.Set(middleware.HeaderRole, role)
		req.Header.Set(middleware.HeaderUserID, "user-"+role)
	}

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func pushIdea(t *testing.T, e *echo.Echo, id string) {
	t.Helper()
	body := fmt.Sprintf(`{"id": %q, "title": "Sparkling Tea", "score": 82}`, id)
	rec := doRequest(e, http.MethodPost, "/api/v1/planning", "", body)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())
}

func TestPushValidation(t *testing.T) {
	e := newTestServer(t)

	rec := doRequest(e, http.MethodPost, "/api/v1/planning", "", `{"title": "no id"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApproveRequiresBrandOwner(t *testing.T) {
	e := newTestServer(t)
	pushIdea(t, e, "idea-1")

	rec := doRequest(e, http.MethodPost, "/api/v1/planning/idea-1/approve", "content", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(e, http.MethodPost, "/api/v1/planning/idea-1/approve", "", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(e, http.MethodPost, "/api/v1/planning/idea-1/approve", "brand-owner", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var record models.PlanningProduct
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, models.BrandOwnerApproved, record.PlanningStageStatus.BrandOwnerDecision)
}

func TestRejectRequiresReason(t *testing.T) {
	e := newTestServer(t)
	pushIdea(t, e, "idea-1")

	rec := doRequest(e, http.MethodPost, "/api/v1/planning/idea-1/reject", "brand-owner", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(e, http.MethodPost, "/api/v1/planning/idea-1/reject", "brand-owner", `{"reason": "offseason"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var record models.PlanningProduct
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, "offseason", record.RejectReason)
}

func TestConfirmGate(t *testing.T) {
	e := newTestServer(t)
	pushIdea(t, e, "idea-1")

	// sign-off before brand approval is a conflict
	rec := doRequest(e, http.MethodPost, "/api/v1/planning/idea-1/confirm", "ecommerce-owner", "")
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	rec = doRequest(e, http.MethodPost, "/api/v1/planning/idea-1/approve", "brand-owner", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(e, http.MethodPut, "/api/v1/planning/idea-1/targets", "ecommerce-owner", `{"target_gmv": 800000}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doRequest(e, http.MethodPost, "/api/v1/planning/idea-1/confirm", "ecommerce-owner", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var record models.PlanningProduct
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, models.EcommerceOwnerConfirmed, record.PlanningStageStatus.EcommerceOwnerDecision)
	assert.Equal(t, float64(800000), record.EcommerceTargets.TargetGMV)

	// double confirm is a conflict
	rec = doRequest(e, http.MethodPost, "/api/v1/planning/idea-1/confirm", "ecommerce-owner", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetUnknownIs404(t *testing.T) {
	e := newTestServer(t)

	rec := doRequest(e, http.MethodGet, "/api/v1/planning/ghost", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQueues(t *testing.T) {
	e := newTestServer(t)
	pushIdea(t, e, "idea-1")
	pushIdea(t, e, "idea-2")

	rec := doRequest(e, http.MethodGet, "/api/v1/planning/queues/approval", "brand-owner", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var queue []models.PlanningProduct
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &queue))
	assert.Len(t, queue, 2)

	rec = doRequest(e, http.MethodPost, "/api/v1/planning/idea-1/approve", "brand-owner", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(e, http.MethodGet, "/api/v1/planning/queues/sign-off", "ecommerce-owner", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &queue))
	require.Len(t, queue, 1)
	assert.Equal(t, "idea-1", queue[0].ID)
}
