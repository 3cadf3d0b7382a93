package models

import "time"

// EvidenceSample is one piece of market evidence attached to an idea.
type EvidenceSample struct {
	Source string `json:"source" validate:"required"`
	Quote  string `json:"quote"`
	URL    string `json:"url,omitempty"`
}

// Idea is a candidate product concept surfaced by the insight stage. Pushing
// an idea into the planning workflow turns it into a PlanningProduct.
type Idea struct {
	ID              string           `json:"id" validate:"required"`
	Title           string           `json:"title" validate:"required"`
	Score           float64          `json:"score" validate:"gte=0,lte=100"`
	EvidenceSamples []EvidenceSample `json:"evidence_samples"`
	CreatedTS       time.Time        `json:"created_at"`
}
