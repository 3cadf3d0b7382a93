package dispatch

import (
	"context"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/hideyanjp01-maker/workbench/pkg/models"
	"github.com/hideyanjp01-maker/workbench/pkg/sections"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	return NewEngine(ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {}))
}

func testData() Data {
	return Data{
		Products: []models.Product{
			{
				ID:             "p1",
				Name:           "Sparkling Tea",
				Category:       "beverage",
				Stage:          models.StageColdStart,
				TargetMetrics:  map[string]float64{"gmv": 100000},
				CurrentMetrics: map[string]float64{"gmv": 64000, "orders": 1200},
			},
			{
				ID:             "p2",
				Name:           "Collagen Jelly",
				Category:       "health",
				Stage:          models.StageScaleUp,
				TargetMetrics:  map[string]float64{"gmv": 500000},
				CurrentMetrics: map[string]float64{"gmv": 210000, "orders": 4100},
			},
		},
		Metrics: []models.Metric{
			{ID: "m-ctr", Name: "ctr", Value: 3.2, Unit: "%", Trend: models.TrendUp},
		},
	}
}

func TestRenderPairsTargetProgressWithWeeklyReport(t *testing.T) {
	cfgs := []sections.SectionConfig{
		{Type: sections.SectionTargetProgress, Title: "Goals", Goals: []sections.GoalConfig{
			{Label: "GMV", TargetKey: "gmv", CurrentKey: "gmv", Unit: "元"},
		}},
		{Type: sections.SectionAIWeeklyReport, Title: "Digest", Highlights: []string{"on track"}},
		{Type: sections.SectionKPICards, Title: "KPIs", Cards: []sections.CardConfig{
			{Label: "Orders", MetricKey: "orders", Aggregate: true},
		}},
	}

	units := newTestEngine().Render(context.Background(), cfgs, testData(), Options{})
	require.Len(t, units, 2)

	composite := units[0]
	assert.Equal(t, UnitComposite, composite.Kind)
	assert.Equal(t, []string{"target-progress", "ai-weekly-report"}, composite.Types)

	body, ok := composite.Body.(CompositeBody)
	require.True(t, ok)
	assert.Equal(t, "target-progress", body.Left.Type)
	assert.Equal(t, "ai-weekly-report", body.Right.Type)

	// The companion never renders independently.
	assert.Equal(t, UnitSection, units[1].Kind)
	assert.Equal(t, "kpi-cards", units[1].Type)
}

func TestRenderPairsPacingWithInsightSummary(t *testing.T) {
	cfgs := []sections.SectionConfig{
		{Type: sections.SectionPacing, Pacing: &sections.PacingConfig{
			Label: "GMV pacing", CurrentKey: "gmv", TargetKey: "gmv", Unit: "元",
		}},
		{Type: sections.SectionAIInsightSummary, Highlights: []string{"spend ahead of plan"}},
	}

	units := newTestEngine().Render(context.Background(), cfgs, testData(), Options{})
	require.Len(t, units, 1)
	assert.Equal(t, UnitComposite, units[0].Kind)
	assert.Equal(t, []string{"pacing", "ai-insight-summary"}, units[0].Types)
}

func TestRenderPairingIsGreedyAndLocal(t *testing.T) {
	// target-progress, target-progress, ai-weekly-report: the first pairable
	// adjacency wins; index 0 stays a plain section because its neighbor is
	// not a companion type.
	cfgs := []sections.SectionConfig{
		{Type: sections.SectionTargetProgress},
		{Type: sections.SectionTargetProgress},
		{Type: sections.SectionAIWeeklyReport},
	}

	units := newTestEngine().Render(context.Background(), cfgs, testData(), Options{})
	require.Len(t, units, 2)
	assert.Equal(t, UnitSection, units[0].Kind)
	assert.Equal(t, UnitComposite, units[1].Kind)
}

func TestRenderUnknownTypeFallsBack(t *testing.T) {
	cfgs := []sections.SectionConfig{
		{Type: sections.SectionType("totally-unknown"), Title: "???"},
	}

	units := newTestEngine().Render(context.Background(), cfgs, testData(), Options{})
	require.Len(t, units, 1)
	assert.Equal(t, UnitPlaceholder, units[0].Kind)
	assert.Equal(t, "totally-unknown", units[0].Type)
}

func TestRenderEmptySections(t *testing.T) {
	units := newTestEngine().Render(context.Background(), nil, testData(), Options{})
	require.Len(t, units, 1)
	assert.Equal(t, UnitEmpty, units[0].Kind)
}

func TestRenderRequireProducts(t *testing.T) {
	cfgs := []sections.SectionConfig{{Type: sections.SectionKPICards}}

	units := newTestEngine().Render(context.Background(), cfgs, Data{}, Options{RequireProducts: true})
	require.Len(t, units, 1)
	assert.Equal(t, UnitEmpty, units[0].Kind)

	// Without the option an empty catalog still renders the section shell.
	units = newTestEngine().Render(context.Background(), cfgs, Data{}, Options{})
	require.Len(t, units, 1)
	assert.Equal(t, UnitSection, units[0].Kind)
}

func TestRenderKPICards(t *testing.T) {
	cfgs := []sections.SectionConfig{
		{Type: sections.SectionKPICards, Cards: []sections.CardConfig{
			{Label: "Total GMV", MetricKey: "gmv", Aggregate: true, Unit: "元"},
			{Label: "CTR", MetricKey: "ctr", Unit: "%"},
			{Label: "CPM", MetricKey: "cpm", FallbackKey: "cpc"},
		}},
	}

	units := newTestEngine().Render(context.Background(), cfgs, testData(), Options{})
	require.Len(t, units, 1)

	body, ok := units[0].Body.(KPICardsBody)
	require.True(t, ok)
	require.Len(t, body.Cards, 3)
	assert.Equal(t, "274,000元", body.Cards[0].Display)
	assert.Equal(t, "3.2%", body.Cards[1].Display)
	assert.Equal(t, "—", body.Cards[2].Display)
	assert.Nil(t, body.Cards[2].Value)
}

func TestRenderFunnelConversionRates(t *testing.T) {
	data := Data{Products: []models.Product{
		{ID: "p1", CurrentMetrics: map[string]float64{"views": 1000, "clicks": 250, "orders": 50}},
	}}
	cfgs := []sections.SectionConfig{
		{Type: sections.SectionFunnelChart, Steps: []sections.FunnelStepConfig{
			{Label: "Views", MetricKey: "views"},
			{Label: "Clicks", MetricKey: "clicks"},
			{Label: "Orders", MetricKey: "orders"},
		}},
	}

	units := newTestEngine().Render(context.Background(), cfgs, data, Options{})
	body := units[0].Body.(FunnelBody)
	require.Len(t, body.Steps, 3)
	assert.Nil(t, body.Steps[0].Rate)
	require.NotNil(t, body.Steps[1].Rate)
	assert.InDelta(t, 25.0, *body.Steps[1].Rate, 0.001)
	require.NotNil(t, body.Steps[2].Rate)
	assert.InDelta(t, 20.0, *body.Steps[2].Rate, 0.001)
}

func TestRenderKanbanGroupsByStage(t *testing.T) {
	cfgs := []sections.SectionConfig{
		{Type: sections.SectionKanbanBoard, Columns: []sections.KanbanColumnConfig{
			{Label: "Cold start", Stage: "coldstart"},
			{Label: "Scale up", Stage: "scaleup"},
			{Label: "Insight", Stage: "insight"},
		}},
	}

	units := newTestEngine().Render(context.Background(), cfgs, testData(), Options{})
	body := units[0].Body.(KanbanBody)
	require.Len(t, body.Columns, 3)
	require.Len(t, body.Columns[0].Cards, 1)
	assert.Equal(t, "p1", body.Columns[0].Cards[0].ProductID)
	require.Len(t, body.Columns[1].Cards, 1)
	assert.Equal(t, "p2", body.Columns[1].Cards[0].ProductID)
	assert.Empty(t, body.Columns[2].Cards)
}

func TestRenderTable(t *testing.T) {
	cfgs := []sections.SectionConfig{
		{Type: sections.SectionDataTable, Table: &sections.TableConfig{
			Columns: []string{"name", "stage", "orders", "refunds"},
		}},
	}

	units := newTestEngine().Render(context.Background(), cfgs, testData(), Options{})
	body := units[0].Body.(TableBody)
	require.Len(t, body.Rows, 2)
	assert.Equal(t, []string{"Sparkling Tea", "coldstart", "1,200", "—"}, body.Rows[0])
}
