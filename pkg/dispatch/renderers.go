package dispatch

import (
	"github.com/hideyanjp01-maker/workbench/pkg/metricvalue"
	"github.com/hideyanjp01-maker/workbench/pkg/models"
	"github.com/hideyanjp01-maker/workbench/pkg/sections"
)

// CardView is one rendered KPI card.
type CardView struct {
	Label   string   `json:"label"`
	Value   *float64 `json:"value"`
	Display string   `json:"display"`
	Unit    string   `json:"unit,omitempty"`
}

// KPICardsBody holds the rendered cards of a kpi-cards section.
type KPICardsBody struct {
	Cards []CardView `json:"cards"`
}

func renderKPICards(cfg sections.SectionConfig, data Data) KPICardsBody {
	cards := make([]CardView, 0, len(cfg.Cards))
	for _, c := range cfg.Cards {
		v := metricvalue.Resolve(data.Products, data.Metrics, metricvalue.Query{
			MetricKey:   c.MetricKey,
			FallbackKey: c.FallbackKey,
			Aggregate:   c.Aggregate,
		})
		cards = append(cards, CardView{
			Label:   c.Label,
			Value:   v,
			Display: metricvalue.Format(v, c.Unit),
			Unit:    c.Unit,
		})
	}
	return KPICardsBody{Cards: cards}
}

// FunnelStepView is one rendered funnel step. Rate is the conversion from
// the previous step, nil on the first step or when either value is missing.
type FunnelStepView struct {
	Label   string   `json:"label"`
	Value   *float64 `json:"value"`
	Display string   `json:"display"`
	Rate    *float64 `json:"rate,omitempty"`
}

// FunnelBody holds the rendered steps of a funnel-chart section.
type FunnelBody struct {
	Steps []FunnelStepView `json:"steps"`
}

func renderFunnel(cfg sections.SectionConfig, data Data) FunnelBody {
	steps := make([]FunnelStepView, 0, len(cfg.Steps))
	var prev *float64
	for _, s := range cfg.Steps {
		v := metricvalue.Resolve(data.Products, data.Metrics, metricvalue.Query{
			MetricKey: s.MetricKey,
			Aggregate: true,
		})
		step := FunnelStepView{
			Label:   s.Label,
			Value:   v,
			Display: metricvalue.Format(v, ""),
		}
		if v != nil && prev != nil && *prev > 0 {
			rate := *v / *prev * 100
			step.Rate = &rate
		}
		steps = append(steps, step)
		prev = v
	}
	return FunnelBody{Steps: steps}
}

// GoalView is one rendered target-vs-current row.
type GoalView struct {
	Label          string   `json:"label"`
	Target         *float64 `json:"target"`
	Current        *float64 `json:"current"`
	TargetDisplay  string   `json:"target_display"`
	CurrentDisplay string   `json:"current_display"`
	Percent        *float64 `json:"percent,omitempty"`
}

// TargetProgressBody holds the rendered rows of a target-progress section.
type TargetProgressBody struct {
	Goals []GoalView `json:"goals"`
}

func sumField(products []models.Product, pick func(models.Product) map[string]float64, key string) *float64 {
	sum := 0.0
	for _, p := range products {
		sum += pick(p)[key]
	}
	if sum == 0 {
		return nil
	}
	return &sum
}

func renderTargetProgress(cfg sections.SectionConfig, data Data) TargetProgressBody {
	goals := make([]GoalView, 0, len(cfg.Goals))
	for _, g := range cfg.Goals {
		target := sumField(data.Products, func(p models.Product) map[string]float64 { return p.TargetMetrics }, g.TargetKey)
		current := sumField(data.Products, func(p models.Product) map[string]float64 { return p.CurrentMetrics }, g.CurrentKey)

		goal := GoalView{
			Label:          g.Label,
			Target:         target,
			Current:        current,
			TargetDisplay:  metricvalue.Format(target, g.Unit),
			CurrentDisplay: metricvalue.Format(current, g.Unit),
		}
		if target != nil && current != nil && *target > 0 {
			pct := *current / *target * 100
			goal.Percent = &pct
		}
		goals = append(goals, goal)
	}
	return TargetProgressBody{Goals: goals}
}

// InsightBody holds the static highlight bullets of an AI summary/report
// section plus the product count they summarize.
type InsightBody struct {
	Highlights   []string `json:"highlights"`
	ProductCount int      `json:"product_count"`
}

func renderInsight(cfg sections.SectionConfig, data Data) InsightBody {
	return InsightBody{
		Highlights:   cfg.Highlights,
		ProductCount: len(data.Products),
	}
}

// KanbanCardView is one product card on a kanban column.
type KanbanCardView struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Category  string `json:"category,omitempty"`
}

// KanbanColumnView is one rendered kanban column.
type KanbanColumnView struct {
	Label string           `json:"label"`
	Stage string           `json:"stage"`
	Cards []KanbanCardView `json:"cards"`
}

// KanbanBody holds the rendered columns of a kanban-board section.
type KanbanBody struct {
	Columns []KanbanColumnView `json:"columns"`
}

func renderKanban(cfg sections.SectionConfig, data Data) KanbanBody {
	cols := make([]KanbanColumnView, 0, len(cfg.Columns))
	for _, c := range cfg.Columns {
		col := KanbanColumnView{Label: c.Label, Stage: c.Stage, Cards: []KanbanCardView{}}
		for _, p := range data.Products {
			if string(p.Stage) != c.Stage {
				continue
			}
			col.Cards = append(col.Cards, KanbanCardView{ProductID: p.ID, Name: p.Name, Category: p.Category})
		}
		cols = append(cols, col)
	}
	return KanbanBody{Columns: cols}
}

// PacingBody is the rendered pacing gauge.
type PacingBody struct {
	Label          string   `json:"label"`
	Current        *float64 `json:"current"`
	Target         *float64 `json:"target"`
	CurrentDisplay string   `json:"current_display"`
	TargetDisplay  string   `json:"target_display"`
	Percent        *float64 `json:"percent,omitempty"`
}

func renderPacing(cfg sections.SectionConfig, data Data) PacingBody {
	body := PacingBody{
		CurrentDisplay: metricvalue.NoData,
		TargetDisplay:  metricvalue.NoData,
	}
	if cfg.Pacing == nil {
		return body
	}

	current := sumField(data.Products, func(p models.Product) map[string]float64 { return p.CurrentMetrics }, cfg.Pacing.CurrentKey)
	target := sumField(data.Products, func(p models.Product) map[string]float64 { return p.TargetMetrics }, cfg.Pacing.TargetKey)

	body.Label = cfg.Pacing.Label
	body.Current = current
	body.Target = target
	body.CurrentDisplay = metricvalue.Format(current, cfg.Pacing.Unit)
	body.TargetDisplay = metricvalue.Format(target, cfg.Pacing.Unit)
	if current != nil && target != nil && *target > 0 {
		pct := *current / *target * 100
		body.Percent = &pct
	}
	return body
}

// TrendBody is the rendered trend chart header: the latest value plus the
// metric's direction tag.
type TrendBody struct {
	MetricKey  string   `json:"metric_key"`
	Value      *float64 `json:"value"`
	Display    string   `json:"display"`
	Trend      string   `json:"trend,omitempty"`
	WindowDays int      `json:"window_days,omitempty"`
}

func renderTrend(cfg sections.SectionConfig, data Data) TrendBody {
	body := TrendBody{Display: metricvalue.NoData}
	if cfg.Trend == nil {
		return body
	}

	body.MetricKey = cfg.Trend.MetricKey
	body.WindowDays = cfg.Trend.WindowDays
	body.Value = metricvalue.Resolve(data.Products, data.Metrics, metricvalue.Query{
		MetricKey:   cfg.Trend.MetricKey,
		FallbackKey: cfg.Trend.FallbackKey,
	})

	unit := ""
	for _, m := range data.Metrics {
		if m.ID == cfg.Trend.MetricKey || m.Name == cfg.Trend.MetricKey {
			unit = m.Unit
			body.Trend = string(m.Trend)
			break
		}
	}
	body.Display = metricvalue.Format(body.Value, unit)
	return body
}

// TableBody is the rendered product table. Columns name either a product
// attribute (name, category, stage) or a current-metric key.
type TableBody struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

func renderTable(cfg sections.SectionConfig, data Data) TableBody {
	body := TableBody{Rows: [][]string{}}
	if cfg.Table == nil {
		return body
	}
	body.Columns = cfg.Table.Columns

	for _, p := range data.Products {
		row := make([]string, 0, len(cfg.Table.Columns))
		for _, col := range cfg.Table.Columns {
			switch col {
			case "name":
				row = append(row, p.Name)
			case "category":
				row = append(row, p.Category)
			case "stage":
				row = append(row, string(p.Stage))
			default:
				if v, ok := p.CurrentMetrics[col]; ok {
					value := v
					row = append(row, metricvalue.Format(&value, ""))
				} else {
					row = append(row, metricvalue.NoData)
				}
			}
		}
		body.Rows = append(body.Rows, row)
	}
	return body
}
