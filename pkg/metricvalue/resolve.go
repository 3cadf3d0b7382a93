// Package metricvalue implements the shared metric resolution and display
// formatting used by every section renderer.
package metricvalue

import (
	"math"

	"github.com/hideyanjp01-maker/workbench/pkg/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// NoData is the placeholder shown when a metric cannot be resolved.
const NoData = "—"

// Query describes how to resolve one metric value for display.
type Query struct {
	// MetricKey is the primary lookup key. For aggregate queries it names a
	// field of each product's current metrics; otherwise it matches a
	// metric's id or name.
	MetricKey string
	// FallbackKey is retried when the primary lookup misses.
	FallbackKey string
	// Aggregate sums the keyed field across all products instead of looking
	// up a standalone metric.
	Aggregate bool
}

// Resolve returns the metric value for q, or nil when there is no data.
// Aggregate queries treat a zero sum as "no data" rather than a true zero;
// that conflation is part of the display contract.
func Resolve(products []models.Product, metrics []models.Metric, q Query) *float64 {
	if q.Aggregate {
		sum := 0.0
		for _, p := range products {
			v, ok := p.CurrentMetrics[q.MetricKey]
			if !ok || math.IsNaN(v) {
				continue
			}
			sum += v
		}
		if sum == 0 {
			return nil
		}
		return &sum
	}

	if v, ok := lookup(metrics, q.MetricKey); ok {
		return v
	}
	if q.FallbackKey != "" {
		if v, ok := lookup(metrics, q.FallbackKey); ok {
			return v
		}
	}
	return nil
}

func lookup(metrics []models.Metric, key string) (*float64, bool) {
	if key == "" {
		return nil, false
	}
	for _, m := range metrics {
		if m.ID == key || m.Name == key {
			v := m.Value
			return &v, true
		}
	}
	return nil, false
}

var printer = message.NewPrinter(language.English)

// Format renders a resolved value for display. A nil value renders as the
// em-dash placeholder. The unit 元 formats as a grouped integer amount, %
// keeps one decimal place, and any other unit is appended literally.
func Format(v *float64, unit string) string {
	if v == nil {
		return NoData
	}

	switch unit {
	case "元":
		return printer.Sprintf("%d", int64(math.Round(*v))) + "元"
	case "%":
		return printer.Sprintf("%.1f", *v) + "%"
	default:
		if *v == math.Trunc(*v) {
			return printer.Sprintf("%d", int64(*v)) + unit
		}
		return printer.Sprintf("%.2f", *v) + unit
	}
}
