// Package workflow holds the two-party approval state machine for planning
// products. Reachable composite states:
//
//	(pending,pending) -> (approved,pending) -> (approved,confirmed)
//	(pending,pending) -> (rejected,pending)   [terminal]
//
// Transition functions are pure; callers persist the returned state.
package workflow

import (
	"github.com/hideyanjp01-maker/workbench/pkg/errors"
	"github.com/hideyanjp01-maker/workbench/pkg/models"
)

const (
	OpApprove = "approve"
	OpReject  = "reject"
	OpConfirm = "confirm"
)

// Approve moves the brand-owner decision from pending to approved.
func Approve(s models.PlanningStageStatus) (models.PlanningStageStatus, error) {
	if s.BrandOwnerDecision != models.BrandOwnerPending {
		return s, errors.NewTransitionErrorf(OpApprove, "brand owner decision is already %s", s.BrandOwnerDecision)
	}
	s.BrandOwnerDecision = models.BrandOwnerApproved
	return s, nil
}

// Reject moves the brand-owner decision from pending to rejected. Rejected
// is terminal for the brand-owner stage.
func Reject(s models.PlanningStageStatus) (models.PlanningStageStatus, error) {
	if s.BrandOwnerDecision != models.BrandOwnerPending {
		return s, errors.NewTransitionErrorf(OpReject, "brand owner decision is already %s", s.BrandOwnerDecision)
	}
	s.BrandOwnerDecision = models.BrandOwnerRejected
	return s, nil
}

// Confirm moves the e-commerce sign-off to confirmed. The brand-owner gate
// is enforced here rather than at the call site.
func Confirm(s models.PlanningStageStatus) (models.PlanningStageStatus, error) {
	if s.BrandOwnerDecision != models.BrandOwnerApproved {
		return s, errors.NewTransitionErrorf(OpConfirm, "brand owner decision is %s, must be approved", s.BrandOwnerDecision)
	}
	if s.EcommerceOwnerDecision != models.EcommerceOwnerPending {
		return s, errors.NewTransitionErrorf(OpConfirm, "e-commerce owner decision is already %s", s.EcommerceOwnerDecision)
	}
	s.EcommerceOwnerDecision = models.EcommerceOwnerConfirmed
	return s, nil
}

// DeriveStatus re-derives the legacy status tag from the composite state so
// the two can never drift apart.
func DeriveStatus(s models.PlanningStageStatus) models.PlanningStatus {
	switch s.BrandOwnerDecision {
	case models.BrandOwnerApproved:
		return models.PlanningStatusApproved
	case models.BrandOwnerRejected:
		return models.PlanningStatusRejected
	default:
		return models.PlanningStatusPending
	}
}

// IsBrandOwnerPending reports whether the record still awaits the first
// approval stage.
func IsBrandOwnerPending(s models.PlanningStageStatus) bool {
	return s.BrandOwnerDecision == models.BrandOwnerPending
}

// IsEcommercePending reports whether the record sits in the second-stage
// queue: brand approved, sign-off still pending.
func IsEcommercePending(s models.PlanningStageStatus) bool {
	return s.BrandOwnerDecision == models.BrandOwnerApproved &&
		s.EcommerceOwnerDecision == models.EcommerceOwnerPending
}
