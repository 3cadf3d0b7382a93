package models

import "time"

// PlanningStatus is the coarse lifecycle tag kept for older consumers of the
// persisted document. The authoritative state lives in PlanningStageStatus;
// this tag is re-derived on every transition and on document load.
type PlanningStatus string

const (
	PlanningStatusPending  PlanningStatus = "pending"
	PlanningStatusApproved PlanningStatus = "approved"
	PlanningStatusRejected PlanningStatus = "rejected"
)

// BrandOwnerDecision is the first-stage approval decision.
type BrandOwnerDecision string

const (
	BrandOwnerPending  BrandOwnerDecision = "pending"
	BrandOwnerApproved BrandOwnerDecision = "approved"
	BrandOwnerRejected BrandOwnerDecision = "rejected"
)

// EcommerceOwnerDecision is the second-stage sign-off.
type EcommerceOwnerDecision string

const (
	EcommerceOwnerPending   EcommerceOwnerDecision = "pending"
	EcommerceOwnerConfirmed EcommerceOwnerDecision = "confirmed"
)

// PlanningStageStatus is the composite two-party approval state.
type PlanningStageStatus struct {
	BrandOwnerDecision     BrandOwnerDecision     `json:"brand_owner_decision"`
	EcommerceOwnerDecision EcommerceOwnerDecision `json:"ecommerce_owner_decision"`
}

// NewPlanningStageStatus returns the initial pending/pending state.
func NewPlanningStageStatus() PlanningStageStatus {
	return PlanningStageStatus{
		BrandOwnerDecision:     BrandOwnerPending,
		EcommerceOwnerDecision: EcommerceOwnerPending,
	}
}

// ColdStartTargets are the launch-window targets edited alongside the
// commercial targets.
type ColdStartTargets struct {
	FirstMonthGMV float64 `json:"first_month_gmv"`
	SampleCount   int     `json:"sample_count"`
	LiveSessions  int     `json:"live_sessions"`
}

// EcommerceTargets is the commercial target sheet the e-commerce owner edits
// before confirming launch readiness. Platform shares are independent
// percentages keyed by platform name; no sum-to-100 rule is enforced.
type EcommerceTargets struct {
	TargetGMV        float64            `json:"target_gmv"`
	Budget           float64            `json:"budget"`
	ROIFloor         float64            `json:"roi_floor"`
	AOV              float64            `json:"aov"`
	PlatformShare    map[string]float64 `json:"platform_share"`
	LaunchDate       *time.Time         `json:"launch_date,omitempty"`
	ColdStartTargets ColdStartTargets   `json:"cold_start_targets"`
}

// TrialReport is a display-only payload synthesized when the idea enters the
// workflow.
type TrialReport struct {
	SampleCount  int      `json:"sample_count"`
	PositiveRate float64  `json:"positive_rate"`
	TopFeedback  []string `json:"top_feedback"`
}

// MonthlyTarget is one month of the three-month ramp plan.
type MonthlyTarget struct {
	Month           int     `json:"month"`
	GMV             float64 `json:"gmv"`
	ROI             float64 `json:"roi"`
	NewCustomerRate float64 `json:"new_customer_rate"`
}

// ScoreDimension is one weighted axis of the idea scoring breakdown.
type ScoreDimension struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Score  float64 `json:"score"`
}

// PlanningProduct is an idea that has entered the approval workflow.
// Records are never deleted; rejected records stay terminal.
type PlanningProduct struct {
	ID                  string              `json:"id"`
	Title               string              `json:"title"`
	Score               float64             `json:"score"`
	EvidenceSamples     []EvidenceSample    `json:"evidence_samples"`
	Status              PlanningStatus      `json:"status"`
	PlanningStageStatus PlanningStageStatus `json:"planning_stage_status"`
	RejectReason        string              `json:"reject_reason,omitempty"`
	EcommerceTargets    EcommerceTargets    `json:"ecommerce_targets"`

	// Display-only payloads, immutable after creation.
	TrialReport       TrialReport      `json:"trial_report"`
	ThreeMonthTargets []MonthlyTarget  `json:"three_month_targets"`
	ScoringSystem     []ScoreDimension `json:"scoring_system"`

	CreatedTS   time.Time  `json:"created_at"`
	DecidedTS   *time.Time `json:"decided_at,omitempty"`
	ConfirmedTS *time.Time `json:"confirmed_at,omitempty"`
}

// NewPlanningProduct builds a workflow record from an idea, synthesizing the
// default target sheet and the display payloads from the idea's score.
func NewPlanningProduct(idea Idea) PlanningProduct {
	score := idea.Score
	if score <= 0 {
		score = 60
	}

	created := idea.CreatedTS
	if created.IsZero() {
		created = time.Now().UTC()
	}

	return PlanningProduct{
		ID:                  idea.ID,
		Title:               idea.Title,
		Score:               idea.Score,
		EvidenceSamples:     idea.EvidenceSamples,
		Status:              PlanningStatusPending,
		PlanningStageStatus: NewPlanningStageStatus(),
		EcommerceTargets: EcommerceTargets{
			TargetGMV: 1000000,
			Budget:    200000,
			ROIFloor:  1.5,
			AOV:       99,
			PlatformShare: map[string]float64{
				"douyin": 40,
				"tmall":  35,
				"jd":     25,
			},
		},
		TrialReport: TrialReport{
			SampleCount:  200,
			PositiveRate: score / 100 * 0.9,
			TopFeedback:  []string{"packaging", "texture", "price"},
		},
		ThreeMonthTargets: []MonthlyTarget{
			{Month: 1, GMV: 300000, ROI: 1.2, NewCustomerRate: 0.8},
			{Month: 2, GMV: 600000, ROI: 1.5, NewCustomerRate: 0.6},
			{Month: 3, GMV: 1000000, ROI: 1.8, NewCustomerRate: 0.5},
		},
		ScoringSystem: []ScoreDimension{
			{Name: "market size", Weight: 0.3, Score: score},
			{Name: "trend momentum", Weight: 0.3, Score: score * 0.95},
			{Name: "margin headroom", Weight: 0.2, Score: score * 0.9},
			{Name: "supply readiness", Weight: 0.2, Score: score * 0.85},
		},
		CreatedTS: created,
	}
}
