package metricvalue

import (
	"testing"

	"github.com/hideyanjp01-maker/workbench/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveAggregate(t *testing.T) {
	products := []models.Product{
		{ID: "p1", CurrentMetrics: map[string]float64{"gmv": 1200, "roi": 1.2}},
		{ID: "p2", CurrentMetrics: map[string]float64{"gmv": 800}},
		{ID: "p3", CurrentMetrics: map[string]float64{}},
	}

	v := Resolve(products, nil, Query{MetricKey: "gmv", Aggregate: true})
	require.NotNil(t, v)
	assert.Equal(t, 2000.0, *v)
}

func TestResolveAggregateZeroSumIsNoData(t *testing.T) {
	products := []models.Product{
		{ID: "p1", CurrentMetrics: map[string]float64{"x": 0}},
		{ID: "p2", CurrentMetrics: map[string]float64{"x": 0}},
	}

	// A zero sum means "no data", not a true zero.
	v := Resolve(products, nil, Query{MetricKey: "x", Aggregate: true})
	assert.Nil(t, v)
}

func TestResolveLookupByIDAndName(t *testing.T) {
	metrics := []models.Metric{
		{ID: "m-ctr", Name: "ctr", Value: 3.4, Unit: "%"},
		{ID: "m-gmv", Name: "gmv", Value: 125000, Unit: "元"},
	}

	byID := Resolve(nil, metrics, Query{MetricKey: "m-gmv"})
	require.NotNil(t, byID)
	assert.Equal(t, 125000.0, *byID)

	byName := Resolve(nil, metrics, Query{MetricKey: "ctr"})
	require.NotNil(t, byName)
	assert.Equal(t, 3.4, *byName)
}

func TestResolveFallbackKey(t *testing.T) {
	metrics := []models.Metric{
		{ID: "m-roi", Name: "roi", Value: 1.8},
	}

	v := Resolve(nil, metrics, Query{MetricKey: "roas", FallbackKey: "roi"})
	require.NotNil(t, v)
	assert.Equal(t, 1.8, *v)

	missing := Resolve(nil, metrics, Query{MetricKey: "roas", FallbackKey: "cpm"})
	assert.Nil(t, missing)
}

func TestFormat(t *testing.T) {
	yuan := 1234567.4
	pct := 12.34
	count := 42.0
	frac := 1.856

	assert.Equal(t, NoData, Format(nil, "元"))
	assert.Equal(t, "1,234,567元", Format(&yuan, "元"))
	assert.Equal(t, "12.3%", Format(&pct, "%"))
	assert.Equal(t, "42单", Format(&count, "单"))
	assert.Equal(t, "1.86x", Format(&frac, "x"))
}
