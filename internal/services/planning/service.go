// Package planning is the service layer over the planning workflow store:
// validation, launch-to-catalog on confirmation, and lifecycle events.
package planning

import (
	"context"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/hideyanjp01-maker/workbench/internal/repositories/catalog"
	"github.com/hideyanjp01-maker/workbench/internal/repositories/planningproduct"
	"github.com/hideyanjp01-maker/workbench/pkg/kafka"
	"github.com/hideyanjp01-maker/workbench/pkg/models"
	"github.com/hideyanjp01-maker/workbench/pkg/tracing"
	"github.com/hideyanjp01-maker/workbench/pkg/wbcontext"
)

// EventPublisher publishes planning lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, event *kafka.WorkflowEvent) error
}

type Service struct {
	logger  ectologger.Logger
	repo    planningproduct.PlanningProductRepository
	catalog catalog.CatalogRepository
	events  EventPublisher
}

func NewService(repo planningproduct.PlanningProductRepository, cat catalog.CatalogRepository, events EventPublisher, logger ectologger.Logger) *Service {
	return &Service{
		logger:  logger,
		repo:    repo,
		catalog: cat,
		events:  events,
	}
}

// Push enters an idea into the planning workflow. Pushing an idea that is
// already in planning returns the existing record unchanged.
func (s *Service) Push(ctx context.Context, idea models.Idea) (models.PlanningProduct, error) {
	ctx, span := tracing.StartSpan(ctx, "planning.Push")
	defer span.End()

	if idea.ID == "" {
		return models.PlanningProduct{}, httperror.NewHTTPError(http.StatusBadRequest, "idea id is required")
	}
	if idea.Title == "" {
		return models.PlanningProduct{}, httperror.NewHTTPError(http.StatusBadRequest, "idea title is required")
	}

	record, created, err := s.repo.Push(ctx, idea)
	if err != nil {
		return models.PlanningProduct{}, err
	}

	if created {
		s.publish(ctx, kafka.EventPlanningPushed, record, "")
	}
	return record, nil
}

// Approve records the brand owner's approval.
func (s *Service) Approve(ctx context.Context, id string) (models.PlanningProduct, error) {
	ctx, span := tracing.StartSpan(ctx, "planning.Approve")
	defer span.End()

	record, err := s.repo.Approve(ctx, id)
	if err != nil {
		return models.PlanningProduct{}, err
	}

	s.publish(ctx, kafka.EventPlanningApproved, record, "")
	return record, nil
}

// Reject records the brand owner's rejection. A reason is required.
func (s *Service) Reject(ctx context.Context, id, reason string) (models.PlanningProduct, error) {
	ctx, span := tracing.StartSpan(ctx, "planning.Reject")
	defer span.End()

	if reason == "" {
		return models.PlanningProduct{}, httperror.NewHTTPError(http.StatusBadRequest, "reject reason is required")
	}

	record, err := s.repo.Reject(ctx, id, reason)
	if err != nil {
		return models.PlanningProduct{}, err
	}

	s.publish(ctx, kafka.EventPlanningRejected, record, reason)
	return record, nil
}

// UpdateTargets merges a patch into the record's commercial target sheet.
func (s *Service) UpdateTargets(ctx context.Context, id string, patch planningproduct.TargetsPatch) (models.PlanningProduct, error) {
	ctx, span := tracing.StartSpan(ctx, "planning.UpdateTargets")
	defer span.End()

	record, err := s.repo.UpdateTargets(ctx, id, patch)
	if err != nil {
		return models.PlanningProduct{}, err
	}

	s.publish(ctx, kafka.EventPlanningTargetsUpdated, record, "")
	return record, nil
}

// ConfirmTargets records the e-commerce owner's sign-off and launches the
// product into the cold start stage of the catalog.
func (s *Service) ConfirmTargets(ctx context.Context, id string) (models.PlanningProduct, error) {
	ctx, span := tracing.StartSpan(ctx, "planning.ConfirmTargets")
	defer span.End()

	record, err := s.repo.ConfirmTargets(ctx, id)
	if err != nil {
		return models.PlanningProduct{}, err
	}

	product := launchProduct(record)
	if _, err := s.catalog.UpsertProduct(ctx, &product); err != nil {
		// the workflow state is already confirmed; surface the failed launch
		s.logger.WithContext(ctx).WithError(err).WithField("id", id).Error("Failed to launch confirmed product into catalog")
		return models.PlanningProduct{}, err
	}

	s.publish(ctx, kafka.EventPlanningConfirmed, record, "")
	return record, nil
}

// Get returns one planning record.
func (s *Service) Get(ctx context.Context, id string) (models.PlanningProduct, error) {
	ctx, span := tracing.StartSpan(ctx, "planning.Get")
	defer span.End()

	return s.repo.Get(ctx, id)
}

// List returns every planning record.
func (s *Service) List(ctx context.Context) ([]models.PlanningProduct, error) {
	ctx, span := tracing.StartSpan(ctx, "planning.List")
	defer span.End()

	return s.repo.List(ctx)
}

// PendingProducts returns the brand-owner approval queue.
func (s *Service) PendingProducts(ctx context.Context) ([]models.PlanningProduct, error) {
	ctx, span := tracing.StartSpan(ctx, "planning.PendingProducts")
	defer span.End()

	return s.repo.PendingProducts(ctx)
}

// EcommercePendingProducts returns the sign-off queue.
func (s *Service) EcommercePendingProducts(ctx context.Context) ([]models.PlanningProduct, error) {
	ctx, span := tracing.StartSpan(ctx, "planning.EcommercePendingProducts")
	defer span.End()

	return s.repo.EcommercePendingProducts(ctx)
}

// publish sends a lifecycle event. Event delivery is best effort: failures
// are logged, never returned, because the state mutation already committed.
func (s *Service) publish(ctx context.Context, eventType string, record models.PlanningProduct, reason string) {
	if s.events == nil {
		return
	}

	event := &kafka.WorkflowEvent{
		Type:      eventType,
		ProductID: record.ID,
		Title:     record.Title,
		Actor:     wbcontext.GetUserID(ctx),
		Role:      wbcontext.GetRole(ctx),
		Reason:    reason,
		Timestamp: time.Now().UTC(),
		TraceID:   tracing.GetTraceID(ctx),
		SpanID:    tracing.GetSpanID(ctx),
	}

	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"type":       eventType,
			"product_id": record.ID,
		}).Error("Failed to publish planning event")
	}
}

// launchProduct maps a confirmed planning record onto a cold start catalog
// entry seeded with its first-month targets.
func launchProduct(record models.PlanningProduct) models.Product {
	targets := map[string]float64{
		"gmv":    record.EcommerceTargets.TargetGMV,
		"budget": record.EcommerceTargets.Budget,
		"roi":    record.EcommerceTargets.ROIFloor,
		"aov":    record.EcommerceTargets.AOV,
	}
	if len(record.ThreeMonthTargets) > 0 {
		targets["first_month_gmv"] = record.ThreeMonthTargets[0].GMV
	}
	if record.EcommerceTargets.ColdStartTargets.FirstMonthGMV > 0 {
		targets["first_month_gmv"] = record.EcommerceTargets.ColdStartTargets.FirstMonthGMV
	}

	return models.Product{
		ID:             record.ID,
		Name:           record.Title,
		Category:       "new-product",
		Stage:          models.StageColdStart,
		TargetMetrics:  targets,
		CurrentMetrics: map[string]float64{},
	}
}
