package models

import "time"

// Product is a catalog entry rendered on the role dashboards. Target and
// current metric values are keyed by metric key (gmv, roi, ctr, ...).
type Product struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Category       string             `json:"category"`
	Stage          Stage              `json:"stage"`
	TargetMetrics  map[string]float64 `json:"target_metrics"`
	CurrentMetrics map[string]float64 `json:"current_metrics"`
	CreatedTS      time.Time          `json:"created_at"`
	UpdatedTS      time.Time          `json:"updated_at"`
}

// MetricTrend is the direction tag attached to a dashboard metric.
type MetricTrend string

const (
	TrendUp   MetricTrend = "up"
	TrendDown MetricTrend = "down"
	TrendFlat MetricTrend = "flat"
)

// Metric is a standalone dashboard metric (id and name are both usable as
// lookup keys during section rendering).
type Metric struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Value float64     `json:"value"`
	Unit  string      `json:"unit"`
	Trend MetricTrend `json:"trend"`
	Stage Stage       `json:"stage"`
}
