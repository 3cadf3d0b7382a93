// Package planningproduct is the workflow store for ideas moving through
// the two-party planning approval. State lives in a single versioned JSON
// document under a fixed Redis key; every mutation rewrites the document.
package planningproduct

import (
	"encoding/json"

	"github.com/hideyanjp01-maker/workbench/pkg/models"
	"github.com/hideyanjp01-maker/workbench/pkg/workflow"
)

// SchemaVersion is the current version of the persisted state document.
// Version 1 documents predate the composite planning_stage_status and only
// carry the coarse status tag.
const SchemaVersion = 2

// State is the inner payload of the persisted document.
type State struct {
	PlanningProducts []models.PlanningProduct `json:"planning_products"`
}

// StateDocument is the persisted envelope: the state plus its schema
// version.
type StateDocument struct {
	State   State `json:"state"`
	Version int   `json:"version"`
}

// NewStateDocument returns an empty current-version document.
func NewStateDocument() StateDocument {
	return StateDocument{Version: SchemaVersion}
}

// ParseStateDocument decodes and migrates a raw persisted document.
func ParseStateDocument(data []byte) (StateDocument, error) {
	var doc StateDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return StateDocument{}, err
	}
	doc.Migrate()
	return doc, nil
}

// Encode serializes the document for persistence.
func (d *StateDocument) Encode() ([]byte, error) {
	return json.Marshal(d)
}

// Migrate upgrades older documents in place. Records that predate the
// composite planning_stage_status carry only the legacy status tag; the
// composite state is backfilled from it regardless of the document version,
// so a hand-edited or partially written record cannot lose its decision.
// Approved records land in the e-commerce sign-off queue, not past it.
func (d *StateDocument) Migrate() {
	for i := range d.State.PlanningProducts {
		p := &d.State.PlanningProducts[i]
		if p.PlanningStageStatus != (models.PlanningStageStatus{}) {
			continue
		}

		p.PlanningStageStatus = models.NewPlanningStageStatus()
		switch p.Status {
		case models.PlanningStatusApproved:
			p.PlanningStageStatus.BrandOwnerDecision = models.BrandOwnerApproved
		case models.PlanningStatusRejected:
			p.PlanningStageStatus.BrandOwnerDecision = models.BrandOwnerRejected
		}
	}

	d.Version = SchemaVersion
}

// Normalize re-derives the legacy status tag on every record so the two
// representations cannot drift.
func (d *StateDocument) Normalize() {
	for i := range d.State.PlanningProducts {
		p := &d.State.PlanningProducts[i]
		p.Status = workflow.DeriveStatus(p.PlanningStageStatus)
	}
}
