package planningproduct

import (
	"context"
	"fmt"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wberrors "github.com/hideyanjp01-maker/workbench/pkg/errors"
	"github.com/hideyanjp01-maker/workbench/pkg/models"
)

type memorySnapshots struct {
	doc      *StateDocument
	saves    int
	failSave bool
}

func (m *memorySnapshots) Load(_ context.Context) (StateDocument, error) {
	if m.doc == nil {
		return NewStateDocument(), nil
	}
	return *m.doc, nil
}

func (m *memorySnapshots) Save(_ context.Context, doc StateDocument) error {
	if m.failSave {
		return fmt.Errorf("snapshot store unavailable")
	}
	m.saves++
	m.doc = &doc
	return nil
}

func newTestRepository(snapshots Snapshots) *Repository {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	return NewRepository(snapshots, logger)
}

func testIdea(id string) models.Idea {
	return models.Idea{
		ID:    id,
		Title: "0-sugar sparkling tea",
		Score: 87,
		EvidenceSamples: []models.EvidenceSample{
			{Source: "weibo", Quote: "looking for 0 sugar drinks"},
		},
	}
}

func TestPushCreatesRecordWithDefaults(t *testing.T) {
	snapshots := &memorySnapshots{}
	repo := newTestRepository(snapshots)

	record, created, err := repo.Push(context.Background(), testIdea("idea-1"))
	require.NoError(t, err)
	assert.True(t, created)

	assert.Equal(t, "idea-1", record.ID)
	assert.Equal(t, models.PlanningStatusPending, record.Status)
	assert.Equal(t, models.BrandOwnerPending, record.PlanningStageStatus.BrandOwnerDecision)
	assert.Equal(t, models.EcommerceOwnerPending, record.PlanningStageStatus.EcommerceOwnerDecision)
	assert.NotZero(t, record.EcommerceTargets.TargetGMV)
	assert.NotEmpty(t, record.EcommerceTargets.PlatformShare)
	assert.NotEmpty(t, record.ThreeMonthTargets)
	assert.Equal(t, 1, snapshots.saves)
}

func TestPushIsIdempotent(t *testing.T) {
	repo := newTestRepository(&memorySnapshots{})
	ctx := context.Background()

	first, created, err := repo.Push(ctx, testIdea("idea-1"))
	require.NoError(t, err)
	require.True(t, created)

	_, err = repo.Approve(ctx, "idea-1")
	require.NoError(t, err)

	// a second push must not create a record or reset the decision
	again, created, err := repo.Push(ctx, testIdea("idea-1"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, models.BrandOwnerApproved, again.PlanningStageStatus.BrandOwnerDecision)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestApproveIsMonotonic(t *testing.T) {
	repo := newTestRepository(&memorySnapshots{})
	ctx := context.Background()

	_, _, err := repo.Push(ctx, testIdea("idea-1"))
	require.NoError(t, err)

	record, err := repo.Approve(ctx, "idea-1")
	require.NoError(t, err)
	assert.Equal(t, models.PlanningStatusApproved, record.Status)
	require.NotNil(t, record.DecidedTS)

	_, err = repo.Approve(ctx, "idea-1")
	require.Error(t, err)
	assert.True(t, wberrors.IsTransitionError(err))

	_, err = repo.Reject(ctx, "idea-1", "changed our mind")
	require.Error(t, err)
	assert.True(t, wberrors.IsTransitionError(err))
}

func TestRejectIsTerminal(t *testing.T) {
	repo := newTestRepository(&memorySnapshots{})
	ctx := context.Background()

	_, _, err := repo.Push(ctx, testIdea("idea-1"))
	require.NoError(t, err)

	record, err := repo.Reject(ctx, "idea-1", "no margin headroom")
	require.NoError(t, err)
	assert.Equal(t, models.PlanningStatusRejected, record.Status)
	assert.Equal(t, "no margin headroom", record.RejectReason)

	_, err = repo.Approve(ctx, "idea-1")
	require.Error(t, err)
	assert.True(t, wberrors.IsTransitionError(err))

	// rejected records stay listed
	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestConfirmRequiresBrandApproval(t *testing.T) {
	repo := newTestRepository(&memorySnapshots{})
	ctx := context.Background()

	_, _, err := repo.Push(ctx, testIdea("idea-1"))
	require.NoError(t, err)

	_, err = repo.ConfirmTargets(ctx, "idea-1")
	require.Error(t, err)
	assert.True(t, wberrors.IsTransitionError(err))

	_, err = repo.Approve(ctx, "idea-1")
	require.NoError(t, err)

	record, err := repo.ConfirmTargets(ctx, "idea-1")
	require.NoError(t, err)
	assert.Equal(t, models.EcommerceOwnerConfirmed, record.PlanningStageStatus.EcommerceOwnerDecision)
	require.NotNil(t, record.ConfirmedTS)

	_, err = repo.ConfirmTargets(ctx, "idea-1")
	require.Error(t, err)
	assert.True(t, wberrors.IsTransitionError(err))
}

func TestUnknownIDReturnsNotFound(t *testing.T) {
	repo := newTestRepository(&memorySnapshots{})
	ctx := context.Background()

	_, err := repo.Approve(ctx, "ghost")
	require.Error(t, err)
	assert.True(t, wberrors.IsNotFound(err))

	_, err = repo.Get(ctx, "ghost")
	require.Error(t, err)
	assert.True(t, wberrors.IsNotFound(err))

	_, err = repo.UpdateTargets(ctx, "ghost", TargetsPatch{})
	require.Error(t, err)
	assert.True(t, wberrors.IsNotFound(err))
}

func TestUpdateTargetsMergesPatch(t *testing.T) {
	repo := newTestRepository(&memorySnapshots{})
	ctx := context.Background()

	_, _, err := repo.Push(ctx, testIdea("idea-1"))
	require.NoError(t, err)

	gmv := 2000000.0
	record, err := repo.UpdateTargets(ctx, "idea-1", TargetsPatch{
		TargetGMV:     &gmv,
		PlatformShare: map[string]float64{"douyin": 50, "pdd": 10},
	})
	require.NoError(t, err)

	assert.Equal(t, 2000000.0, record.EcommerceTargets.TargetGMV)
	// untouched fields survive the merge
	assert.Equal(t, 200000.0, record.EcommerceTargets.Budget)
	// platform shares merge key-wise
	assert.Equal(t, 50.0, record.EcommerceTargets.PlatformShare["douyin"])
	assert.Equal(t, 35.0, record.EcommerceTargets.PlatformShare["tmall"])
	assert.Equal(t, 10.0, record.EcommerceTargets.PlatformShare["pdd"])
}

func TestPendingQueues(t *testing.T) {
	repo := newTestRepository(&memorySnapshots{})
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, _, err := repo.Push(ctx, testIdea(id))
		require.NoError(t, err)
	}

	_, err := repo.Approve(ctx, "a")
	require.NoError(t, err)
	_, err = repo.Reject(ctx, "b", "weak evidence")
	require.NoError(t, err)

	pending, err := repo.PendingProducts(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "c", pending[0].ID)

	signoff, err := repo.EcommercePendingProducts(ctx)
	require.NoError(t, err)
	require.Len(t, signoff, 1)
	assert.Equal(t, "a", signoff[0].ID)

	_, err = repo.ConfirmTargets(ctx, "a")
	require.NoError(t, err)

	signoff, err = repo.EcommercePendingProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, signoff)
}

func TestFailedSaveKeepsPreviousState(t *testing.T) {
	snapshots := &memorySnapshots{}
	repo := newTestRepository(snapshots)
	ctx := context.Background()

	_, _, err := repo.Push(ctx, testIdea("idea-1"))
	require.NoError(t, err)

	snapshots.failSave = true
	_, err = repo.Approve(ctx, "idea-1")
	require.Error(t, err)

	snapshots.failSave = false
	record, err := repo.Get(ctx, "idea-1")
	require.NoError(t, err)
	assert.Equal(t, models.BrandOwnerPending, record.PlanningStageStatus.BrandOwnerDecision)
}

func TestLoadMigratesLegacyDocument(t *testing.T) {
	raw := []byte(`{
		"state": {
			"planning_products": [
				{"id": "old-1", "title": "legacy approved", "status": "approved"},
				{"id": "old-2", "title": "legacy rejected", "status": "rejected"},
				{"id": "old-3", "title": "legacy pending", "status": "pending"}
			]
		},
		"version": 1
	}`)

	doc, err := ParseStateDocument(raw)
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, doc.Version)

	snapshots := &memorySnapshots{doc: &doc}
	repo := newTestRepository(snapshots)
	ctx := context.Background()

	// an approved legacy record lands in the sign-off queue, not past it
	signoff, err := repo.EcommercePendingProducts(ctx)
	require.NoError(t, err)
	require.Len(t, signoff, 1)
	assert.Equal(t, "old-1", signoff[0].ID)

	rejected, err := repo.Get(ctx, "old-2")
	require.NoError(t, err)
	assert.Equal(t, models.BrandOwnerRejected, rejected.PlanningStageStatus.BrandOwnerDecision)
	_, err = repo.Approve(ctx, "old-2")
	require.Error(t, err)

	pending, err := repo.PendingProducts(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "old-3", pending[0].ID)
}

func TestParseBackfillsMissingStageStatusAtCurrentVersion(t *testing.T) {
	raw := []byte(`{
		"state": {
			"planning_products": [
				{"id": "x-1", "title": "edited approved", "status": "approved"},
				{"id": "x-2", "title": "intact", "status": "pending",
				 "planning_stage_status": {"brand_owner_decision": "approved", "ecommerce_owner_decision": "confirmed"}}
			]
		},
		"version": 2
	}`)

	doc, err := ParseStateDocument(raw)
	require.NoError(t, err)

	// a current-version record without the composite state is still
	// backfilled from its legacy tag
	edited := doc.State.PlanningProducts[0]
	assert.Equal(t, models.BrandOwnerApproved, edited.PlanningStageStatus.BrandOwnerDecision)
	assert.Equal(t, models.EcommerceOwnerPending, edited.PlanningStageStatus.EcommerceOwnerDecision)

	doc.Normalize()
	assert.Equal(t, models.PlanningStatusApproved, doc.State.PlanningProducts[0].Status)

	// records that already carry the composite state are untouched
	intact := doc.State.PlanningProducts[1]
	assert.Equal(t, models.EcommerceOwnerConfirmed, intact.PlanningStageStatus.EcommerceOwnerDecision)
}
