package ideas

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hideyanjp01-maker/workbench/internal/repositories/planningproduct"
	"github.com/hideyanjp01-maker/workbench/internal/services/planning"
	"github.com/hideyanjp01-maker/workbench/pkg/kafka"
	"github.com/hideyanjp01-maker/workbench/pkg/models"
)

type fakePlanner struct {
	pushed []models.Idea
	fail   bool
}

func (f *fakePlanner) Push(_ context.Context, idea models.Idea) (models.PlanningProduct, error) {
	if f.fail {
		return models.PlanningProduct{}, httperror.NewHTTPError(http.StatusInternalServerError, "state store unavailable")
	}
	f.pushed = append(f.pushed, idea)
	return models.NewPlanningProduct(idea), nil
}

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestHandlePushesIdea(t *testing.T) {
	planner := &fakePlanner{}
	handler := NewHandler(planner, noopLogger())

	ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	err := handler.Handle(context.Background(), &kafka.ReceivedMessage{
		Topic: "workbench.ideas.curated",
		Idea: &kafka.IdeaEvent{
			ID:    "idea-1",
			Title: "Sparkling Tea",
			Score: 86.5,
			Evidence: []kafka.Quote{
				{Source: "xiaohongshu", Quote: "looking for a zero sugar option", URL: "https://example.com/post/1"},
			},
			Timestamp: ts,
		},
	})
	require.NoError(t, err)

	require.Len(t, planner.pushed, 1)
	idea := planner.pushed[0]
	assert.Equal(t, "idea-1", idea.ID)
	assert.Equal(t, "Sparkling Tea", idea.Title)
	assert.Equal(t, 86.5, idea.Score)
	require.Len(t, idea.EvidenceSamples, 1)
	assert.Equal(t, "xiaohongshu", idea.EvidenceSamples[0].Source)
	assert.Equal(t, ts, idea.CreatedTS)

	processed, failed := handler.Stats()
	assert.Equal(t, int64(1), processed)
	assert.Equal(t, int64(0), failed)
}

func TestHandleMissingPayload(t *testing.T) {
	handler := NewHandler(&fakePlanner{}, noopLogger())

	err := handler.Handle(context.Background(), &kafka.ReceivedMessage{Topic: "workbench.ideas.curated"})
	require.Error(t, err)

	_, failed := handler.Stats()
	assert.Equal(t, int64(1), failed)
}

func TestHandlePushFailure(t *testing.T) {
	handler := NewHandler(&fakePlanner{fail: true}, noopLogger())

	err := handler.Handle(context.Background(), &kafka.ReceivedMessage{
		Idea: &kafka.IdeaEvent{ID: "idea-2", Title: "Oat Latte"},
	})
	require.Error(t, err)

	processed, failed := handler.Stats()
	assert.Equal(t, int64(0), processed)
	assert.Equal(t, int64(1), failed)
}

type memorySnapshots struct {
	doc *planningproduct.StateDocument
}

func (m *memorySnapshots) Load(_ context.Context) (planningproduct.StateDocument, error) {
	if m.doc == nil {
		return planningproduct.NewStateDocument(), nil
	}
	return *m.doc, nil
}

func (m *memorySnapshots) Save(_ context.Context, doc planningproduct.StateDocument) error {
	m.doc = &doc
	return nil
}

type stubCatalog struct{}

func (stubCatalog) GetProduct(_ context.Context, _ string) (*models.Product, error) {
	return nil, nil
}
func (stubCatalog) ListProducts(_ context.Context) ([]models.Product, error) {
	return nil, nil
}
func (stubCatalog) ListProductsByStage(_ context.Context, _ models.Stage) ([]models.Product, error) {
	return nil, nil
}
func (stubCatalog) ListMetricsByStage(_ context.Context, _ models.Stage) ([]models.Metric, error) {
	return nil, nil
}
func (stubCatalog) UpsertProduct(_ context.Context, p *models.Product) (*models.Product, error) {
	return p, nil
}

// The consumer and the HTTP API share one planning service over one state
// document; interleaved writes from both sides must all survive in the
// persisted document.
func TestConsumerAndAPIShareOneStore(t *testing.T) {
	logger := noopLogger()
	snapshots := &memorySnapshots{}
	repo := planningproduct.NewRepository(snapshots, logger)
	service := planning.NewService(repo, stubCatalog{}, nil, logger)
	handler := NewHandler(service, logger)
	ctx := context.Background()

	// API side pushes and approves idea-1
	_, err := service.Push(ctx, models.Idea{ID: "idea-1", Title: "Sparkling Tea"})
	require.NoError(t, err)
	_, err = service.Approve(ctx, "idea-1")
	require.NoError(t, err)

	// consumer delivers idea-2
	err = handler.Handle(ctx, &kafka.ReceivedMessage{
		Idea: &kafka.IdeaEvent{ID: "idea-2", Title: "Oat Latte"},
	})
	require.NoError(t, err)

	// API side pushes idea-3
	_, err = service.Push(ctx, models.Idea{ID: "idea-3", Title: "Cold Brew"})
	require.NoError(t, err)

	records, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// the consumer's record is visible on the API side
	record, err := service.Get(ctx, "idea-2")
	require.NoError(t, err)
	assert.Equal(t, "Oat Latte", record.Title)

	// and every record made it into the persisted document
	require.NotNil(t, snapshots.doc)
	ids := map[string]bool{}
	for _, p := range snapshots.doc.State.PlanningProducts {
		ids[p.ID] = true
	}
	assert.Equal(t, map[string]bool{"idea-1": true, "idea-2": true, "idea-3": true}, ids)

	// idea-1's approval survived the interleaving too
	approved, err := service.Get(ctx, "idea-1")
	require.NoError(t, err)
	assert.Equal(t, models.BrandOwnerApproved, approved.PlanningStageStatus.BrandOwnerDecision)
}
