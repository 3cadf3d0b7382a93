// Package sections defines the typed section descriptors that drive the
// role/stage dashboards, and the YAML loader that reads them at boot.
package sections

// SectionType tags one dashboard module variant.
type SectionType string

const (
	SectionKPICards         SectionType = "kpi-cards"
	SectionFunnelChart      SectionType = "funnel-chart"
	SectionTargetProgress   SectionType = "target-progress"
	SectionAIInsightSummary SectionType = "ai-insight-summary"
	SectionAIWeeklyReport   SectionType = "ai-weekly-report"
	SectionKanbanBoard      SectionType = "kanban-board"
	SectionPacing           SectionType = "pacing"
	SectionTrendChart       SectionType = "trend-chart"
	SectionDataTable        SectionType = "data-table"
)

var knownTypes = map[SectionType]bool{
	SectionKPICards:         true,
	SectionFunnelChart:      true,
	SectionTargetProgress:   true,
	SectionAIInsightSummary: true,
	SectionAIWeeklyReport:   true,
	SectionKanbanBoard:      true,
	SectionPacing:           true,
	SectionTrendChart:       true,
	SectionDataTable:        true,
}

// Known reports whether t names a section variant the renderer understands.
// Unknown types are still dispatched, as a visible placeholder.
func Known(t SectionType) bool {
	return knownTypes[t]
}

// CardConfig describes one KPI card.
type CardConfig struct {
	Label       string `yaml:"label" json:"label"`
	MetricKey   string `yaml:"metric_key" json:"metric_key"`
	FallbackKey string `yaml:"fallback_key,omitempty" json:"fallback_key,omitempty"`
	Unit        string `yaml:"unit,omitempty" json:"unit,omitempty"`
	Aggregate   bool   `yaml:"aggregate,omitempty" json:"aggregate,omitempty"`
}

// FunnelStepConfig describes one step of a conversion funnel.
type FunnelStepConfig struct {
	Label     string `yaml:"label" json:"label"`
	MetricKey string `yaml:"metric_key" json:"metric_key"`
}

// GoalConfig describes one target-vs-current progress row.
type GoalConfig struct {
	Label      string `yaml:"label" json:"label"`
	TargetKey  string `yaml:"target_key" json:"target_key"`
	CurrentKey string `yaml:"current_key" json:"current_key"`
	Unit       string `yaml:"unit,omitempty" json:"unit,omitempty"`
}

// KanbanColumnConfig describes one kanban column and the product stage it
// collects.
type KanbanColumnConfig struct {
	Label string `yaml:"label" json:"label"`
	Stage string `yaml:"stage" json:"stage"`
}

// PacingConfig describes a budget/GMV pacing gauge.
type PacingConfig struct {
	Label      string `yaml:"label" json:"label"`
	CurrentKey string `yaml:"current_key" json:"current_key"`
	TargetKey  string `yaml:"target_key" json:"target_key"`
	Unit       string `yaml:"unit,omitempty" json:"unit,omitempty"`
}

// TrendConfig describes a single-metric trend chart.
type TrendConfig struct {
	MetricKey   string `yaml:"metric_key" json:"metric_key"`
	FallbackKey string `yaml:"fallback_key,omitempty" json:"fallback_key,omitempty"`
	WindowDays  int    `yaml:"window_days,omitempty" json:"window_days,omitempty"`
}

// TableConfig describes a product data table.
type TableConfig struct {
	Columns []string `yaml:"columns" json:"columns"`
}

// SectionConfig is one entry of a role/stage dashboard layout. It is a
// tagged union over Type; only the payload fields for that variant are set.
// Array order is significant: it fixes vertical placement and feeds the
// pairing rule.
type SectionConfig struct {
	Type  SectionType `yaml:"type" json:"type"`
	Title string      `yaml:"title,omitempty" json:"title,omitempty"`

	Cards      []CardConfig         `yaml:"cards,omitempty" json:"cards,omitempty"`
	Steps      []FunnelStepConfig   `yaml:"steps,omitempty" json:"steps,omitempty"`
	Goals      []GoalConfig         `yaml:"goals,omitempty" json:"goals,omitempty"`
	Columns    []KanbanColumnConfig `yaml:"columns,omitempty" json:"columns,omitempty"`
	Highlights []string             `yaml:"highlights,omitempty" json:"highlights,omitempty"`
	Pacing     *PacingConfig        `yaml:"pacing,omitempty" json:"pacing,omitempty"`
	Trend      *TrendConfig         `yaml:"trend,omitempty" json:"trend,omitempty"`
	Table      *TableConfig         `yaml:"table,omitempty" json:"table,omitempty"`
}
