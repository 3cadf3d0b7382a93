package planningproduct

import (
	"context"
	"sync"
	"time"

	"github.com/Gobusters/ectologger"

	"github.com/hideyanjp01-maker/workbench/pkg/errors"
	"github.com/hideyanjp01-maker/workbench/pkg/models"
	"github.com/hideyanjp01-maker/workbench/pkg/tracing"
	"github.com/hideyanjp01-maker/workbench/pkg/workflow"
)

const recordKind = "planning product"

// TargetsPatch is a partial update to the commercial target sheet. Nil
// fields are left untouched; PlatformShare entries merge key-wise into the
// existing map.
type TargetsPatch struct {
	TargetGMV     *float64                 `json:"target_gmv,omitempty" validate:"omitempty,gte=0"`
	Budget        *float64                 `json:"budget,omitempty" validate:"omitempty,gte=0"`
	ROIFloor      *float64                 `json:"roi_floor,omitempty" validate:"omitempty,gte=0"`
	AOV           *float64                 `json:"aov,omitempty" validate:"omitempty,gte=0"`
	PlatformShare map[string]float64       `json:"platform_share,omitempty" validate:"omitempty,dive,gte=0,lte=100"`
	LaunchDate    *time.Time               `json:"launch_date,omitempty"`
	ColdStart     *models.ColdStartTargets `json:"cold_start_targets,omitempty"`
}

// PlanningProductRepository defines the workflow store operations.
type PlanningProductRepository interface {
	Push(ctx context.Context, idea models.Idea) (models.PlanningProduct, bool, error)
	Approve(ctx context.Context, id string) (models.PlanningProduct, error)
	Reject(ctx context.Context, id, reason string) (models.PlanningProduct, error)
	UpdateTargets(ctx context.Context, id string, patch TargetsPatch) (models.PlanningProduct, error)
	ConfirmTargets(ctx context.Context, id string) (models.PlanningProduct, error)
	Get(ctx context.Context, id string) (models.PlanningProduct, error)
	List(ctx context.Context) ([]models.PlanningProduct, error)
	PendingProducts(ctx context.Context) ([]models.PlanningProduct, error)
	EcommercePendingProducts(ctx context.Context) ([]models.PlanningProduct, error)
}

// Repository holds the planning state in memory and writes the whole
// document through to the snapshot store on every mutation. A mutex
// serializes mutations so concurrent transitions on one record cannot
// interleave.
type Repository struct {
	mu        sync.Mutex
	snapshots Snapshots
	logger    ectologger.Logger
	loaded    bool
	doc       StateDocument
}

// NewRepository creates the workflow store. The snapshot is loaded lazily
// on first use. Every writer for a given snapshot key must go through the
// same instance: each instance rewrites the whole document from its own
// copy, so a second instance would overwrite the first's records.
func NewRepository(snapshots Snapshots, logger ectologger.Logger) *Repository {
	return &Repository{
		snapshots: snapshots,
		logger:    logger,
	}
}

// ensureLoaded loads and migrates the persisted document once. Callers
// must hold the mutex.
func (r *Repository) ensureLoaded(ctx context.Context) error {
	if r.loaded {
		return nil
	}

	doc, err := r.snapshots.Load(ctx)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to load planning state document")
		return err
	}
	doc.Normalize()

	r.doc = doc
	r.loaded = true
	r.logger.WithContext(ctx).WithFields(map[string]any{
		"products": len(doc.State.PlanningProducts),
		"version":  doc.Version,
	}).Info("Loaded planning state document")
	return nil
}

// save writes the whole document through. A failed save keeps the previous
// in-memory state so the store and the snapshot cannot diverge.
func (r *Repository) save(ctx context.Context, doc StateDocument) error {
	if err := r.snapshots.Save(ctx, doc); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to save planning state document")
		return err
	}
	r.doc = doc
	return nil
}

func (r *Repository) find(id string) (int, bool) {
	for i := range r.doc.State.PlanningProducts {
		if r.doc.State.PlanningProducts[i].ID == id {
			return i, true
		}
	}
	return 0, false
}

// Push inserts an idea into the workflow with synthesized defaults. A
// duplicate id is an idempotent no-op that returns the existing record;
// the bool reports whether a record was created.
func (r *Repository) Push(ctx context.Context, idea models.Idea) (models.PlanningProduct, bool, error) {
	ctx, span := tracing.StartSpan(ctx, "PlanningProductRepository.Push")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return models.PlanningProduct{}, false, err
	}

	if i, ok := r.find(idea.ID); ok {
		r.logger.WithContext(ctx).WithField("id", idea.ID).Debug("Idea already in planning, returning existing record")
		return r.doc.State.PlanningProducts[i], false, nil
	}

	record := models.NewPlanningProduct(idea)

	doc := r.doc
	doc.State.PlanningProducts = append(append([]models.PlanningProduct{}, doc.State.PlanningProducts...), record)
	if err := r.save(ctx, doc); err != nil {
		return models.PlanningProduct{}, false, err
	}

	r.logger.WithContext(ctx).WithFields(map[string]any{
		"id":    record.ID,
		"title": record.Title,
	}).Info("Idea pushed to planning")
	return record, true, nil
}

// Approve moves a record through the brand-owner approval.
func (r *Repository) Approve(ctx context.Context, id string) (models.PlanningProduct, error) {
	ctx, span := tracing.StartSpan(ctx, "PlanningProductRepository.Approve")
	defer span.End()

	return r.transition(ctx, id, func(p *models.PlanningProduct) error {
		next, err := workflow.Approve(p.PlanningStageStatus)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		p.PlanningStageStatus = next
		p.DecidedTS = &now
		return nil
	})
}

// Reject moves a record into the terminal rejected state, recording the
// reason.
func (r *Repository) Reject(ctx context.Context, id, reason string) (models.PlanningProduct, error) {
	ctx, span := tracing.StartSpan(ctx, "PlanningProductRepository.Reject")
	defer span.End()

	return r.transition(ctx, id, func(p *models.PlanningProduct) error {
		next, err := workflow.Reject(p.PlanningStageStatus)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		p.PlanningStageStatus = next
		p.RejectReason = reason
		p.DecidedTS = &now
		return nil
	})
}

// UpdateTargets shallow-merges a patch into the record's target sheet.
// Patching does not require any particular workflow state; the sheet stays
// editable until confirmation.
func (r *Repository) UpdateTargets(ctx context.Context, id string, patch TargetsPatch) (models.PlanningProduct, error) {
	ctx, span := tracing.StartSpan(ctx, "PlanningProductRepository.UpdateTargets")
	defer span.End()

	return r.transition(ctx, id, func(p *models.PlanningProduct) error {
		t := &p.EcommerceTargets
		if patch.TargetGMV != nil {
			t.TargetGMV = *patch.TargetGMV
		}
		if patch.Budget != nil {
			t.Budget = *patch.Budget
		}
		if patch.ROIFloor != nil {
			t.ROIFloor = *patch.ROIFloor
		}
		if patch.AOV != nil {
			t.AOV = *patch.AOV
		}
		if len(patch.PlatformShare) > 0 {
			if t.PlatformShare == nil {
				t.PlatformShare = map[string]float64{}
			} else {
				merged := make(map[string]float64, len(t.PlatformShare))
				for k, v := range t.PlatformShare {
					merged[k] = v
				}
				t.PlatformShare = merged
			}
			for k, v := range patch.PlatformShare {
				t.PlatformShare[k] = v
			}
		}
		if patch.LaunchDate != nil {
			t.LaunchDate = patch.LaunchDate
		}
		if patch.ColdStart != nil {
			t.ColdStartTargets = *patch.ColdStart
		}
		return nil
	})
}

// ConfirmTargets records the e-commerce owner's sign-off. The brand-owner
// gate is enforced by the state machine.
func (r *Repository) ConfirmTargets(ctx context.Context, id string) (models.PlanningProduct, error) {
	ctx, span := tracing.StartSpan(ctx, "PlanningProductRepository.ConfirmTargets")
	defer span.End()

	return r.transition(ctx, id, func(p *models.PlanningProduct) error {
		next, err := workflow.Confirm(p.PlanningStageStatus)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		p.PlanningStageStatus = next
		p.ConfirmedTS = &now
		return nil
	})
}

// transition applies a mutation to one record and writes the document
// through, rolling nothing back: the copy is discarded on error.
func (r *Repository) transition(ctx context.Context, id string, mutate func(*models.PlanningProduct) error) (models.PlanningProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return models.PlanningProduct{}, err
	}

	i, ok := r.find(id)
	if !ok {
		return models.PlanningProduct{}, errors.NewNotFoundError(recordKind, id)
	}

	doc := r.doc
	doc.State.PlanningProducts = append([]models.PlanningProduct{}, doc.State.PlanningProducts...)

	record := doc.State.PlanningProducts[i]
	if err := mutate(&record); err != nil {
		if terr, ok := err.(*errors.TransitionError); ok {
			terr.AddProduct(id)
		}
		return models.PlanningProduct{}, err
	}
	record.Status = workflow.DeriveStatus(record.PlanningStageStatus)
	doc.State.PlanningProducts[i] = record

	if err := r.save(ctx, doc); err != nil {
		return models.PlanningProduct{}, err
	}

	return record, nil
}

// Get returns one record by id.
func (r *Repository) Get(ctx context.Context, id string) (models.PlanningProduct, error) {
	ctx, span := tracing.StartSpan(ctx, "PlanningProductRepository.Get")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return models.PlanningProduct{}, err
	}

	i, ok := r.find(id)
	if !ok {
		return models.PlanningProduct{}, errors.NewNotFoundError(recordKind, id)
	}
	return r.doc.State.PlanningProducts[i], nil
}

// List returns every record in insertion order.
func (r *Repository) List(ctx context.Context) ([]models.PlanningProduct, error) {
	ctx, span := tracing.StartSpan(ctx, "PlanningProductRepository.List")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	return append([]models.PlanningProduct{}, r.doc.State.PlanningProducts...), nil
}

// PendingProducts returns the brand-owner approval queue.
func (r *Repository) PendingProducts(ctx context.Context) ([]models.PlanningProduct, error) {
	ctx, span := tracing.StartSpan(ctx, "PlanningProductRepository.PendingProducts")
	defer span.End()

	return r.filter(ctx, func(p models.PlanningProduct) bool {
		return workflow.IsBrandOwnerPending(p.PlanningStageStatus)
	})
}

// EcommercePendingProducts returns the sign-off queue: brand approved,
// e-commerce confirmation still pending.
func (r *Repository) EcommercePendingProducts(ctx context.Context) ([]models.PlanningProduct, error) {
	ctx, span := tracing.StartSpan(ctx, "PlanningProductRepository.EcommercePendingProducts")
	defer span.End()

	return r.filter(ctx, func(p models.PlanningProduct) bool {
		return workflow.IsEcommercePending(p.PlanningStageStatus)
	})
}

func (r *Repository) filter(ctx context.Context, keep func(models.PlanningProduct) bool) ([]models.PlanningProduct, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	out := make([]models.PlanningProduct, 0)
	for _, p := range r.doc.State.PlanningProducts {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out, nil
}
