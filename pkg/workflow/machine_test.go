package workflow

import (
	"testing"

	"github.com/hideyanjp01-maker/workbench/pkg/errors"
	"github.com/hideyanjp01-maker/workbench/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApproveFromPending(t *testing.T) {
	s, err := Approve(models.NewPlanningStageStatus())
	require.NoError(t, err)
	assert.Equal(t, models.BrandOwnerApproved, s.BrandOwnerDecision)
	assert.Equal(t, models.EcommerceOwnerPending, s.EcommerceOwnerDecision)
}

func TestApproveIsMonotonic(t *testing.T) {
	approved, err := Approve(models.NewPlanningStageStatus())
	require.NoError(t, err)

	// No operation can take a decided record back to pending.
	_, err = Approve(approved)
	assert.True(t, errors.IsTransitionError(err))

	rejected, err := Reject(models.NewPlanningStageStatus())
	require.NoError(t, err)

	_, err = Approve(rejected)
	assert.True(t, errors.IsTransitionError(err))
	_, err = Reject(rejected)
	assert.True(t, errors.IsTransitionError(err))
	assert.Equal(t, models.BrandOwnerRejected, rejected.BrandOwnerDecision)
}

func TestConfirmRequiresBrandApproval(t *testing.T) {
	// Gate: confirming from (pending,pending) is not a legal transition.
	_, err := Confirm(models.NewPlanningStageStatus())
	require.True(t, errors.IsTransitionError(err))

	rejected, _ := Reject(models.NewPlanningStageStatus())
	_, err = Confirm(rejected)
	require.True(t, errors.IsTransitionError(err))

	approved, _ := Approve(models.NewPlanningStageStatus())
	confirmed, err := Confirm(approved)
	require.NoError(t, err)
	assert.Equal(t, models.EcommerceOwnerConfirmed, confirmed.EcommerceOwnerDecision)

	// Confirming twice is also rejected.
	_, err = Confirm(confirmed)
	assert.True(t, errors.IsTransitionError(err))
}

func TestDeriveStatus(t *testing.T) {
	assert.Equal(t, models.PlanningStatusPending, DeriveStatus(models.NewPlanningStageStatus()))

	approved, _ := Approve(models.NewPlanningStageStatus())
	assert.Equal(t, models.PlanningStatusApproved, DeriveStatus(approved))

	rejected, _ := Reject(models.NewPlanningStageStatus())
	assert.Equal(t, models.PlanningStatusRejected, DeriveStatus(rejected))

	confirmed, _ := Confirm(approved)
	assert.Equal(t, models.PlanningStatusApproved, DeriveStatus(confirmed))
}

func TestQueuePredicates(t *testing.T) {
	start := models.NewPlanningStageStatus()
	assert.True(t, IsBrandOwnerPending(start))
	assert.False(t, IsEcommercePending(start))

	approved, _ := Approve(start)
	assert.False(t, IsBrandOwnerPending(approved))
	assert.True(t, IsEcommercePending(approved))

	confirmed, _ := Confirm(approved)
	assert.False(t, IsEcommercePending(confirmed))

	rejected, _ := Reject(start)
	assert.False(t, IsBrandOwnerPending(rejected))
	assert.False(t, IsEcommercePending(rejected))
}
