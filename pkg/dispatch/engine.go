// Package dispatch turns an ordered list of section configs plus catalog
// data into renderable units. It owns the pairing rule (merging designated
// adjacent sections into one side-by-side composite), the unknown-type
// fallback and the empty-state rules.
package dispatch

import (
	"context"

	"github.com/Gobusters/ectologger"
	"github.com/hideyanjp01-maker/workbench/pkg/models"
	"github.com/hideyanjp01-maker/workbench/pkg/sections"
	"github.com/hideyanjp01-maker/workbench/pkg/tracing"
)

// UnitKind classifies one rendered unit.
type UnitKind string

const (
	UnitSection     UnitKind = "section"
	UnitComposite   UnitKind = "composite"
	UnitPlaceholder UnitKind = "placeholder"
	UnitEmpty       UnitKind = "empty"
)

// Unit is one rendered dashboard block, in display order.
type Unit struct {
	Kind  UnitKind `json:"kind"`
	Type  string   `json:"type,omitempty"`
	Types []string `json:"types,omitempty"`
	Title string   `json:"title,omitempty"`
	Body  any      `json:"body,omitempty"`
}

// CompositeBody carries the two halves of a paired side-by-side unit.
type CompositeBody struct {
	Left  Unit `json:"left"`
	Right Unit `json:"right"`
}

// Data is the ambient catalog context every renderer reads from.
type Data struct {
	Products []models.Product
	Metrics  []models.Metric
}

// Options tunes per-call behavior.
type Options struct {
	// RequireProducts renders the empty-state unit when no products exist,
	// regardless of the section list. Used by roles whose whole page is
	// product-driven.
	RequireProducts bool
}

// companions designates which section types merge with the one before them.
// Pairing is local and greedy: one step of lookahead, evaluated in index
// order, consumed indices never revisited.
var companions = map[sections.SectionType][]sections.SectionType{
	sections.SectionTargetProgress: {sections.SectionAIWeeklyReport, sections.SectionAIInsightSummary},
	sections.SectionPacing:         {sections.SectionAIInsightSummary},
}

func pairsWith(first, second sections.SectionType) bool {
	for _, t := range companions[first] {
		if t == second {
			return true
		}
	}
	return false
}

type Engine struct {
	logger ectologger.Logger
}

func NewEngine(logger ectologger.Logger) *Engine {
	return &Engine{logger: logger}
}

// Render produces one unit per section index, order preserved, applying the
// pairing, fallback and empty-state rules. It never fails: malformed
// configs surface as placeholder units, not errors.
func (e *Engine) Render(ctx context.Context, cfgs []sections.SectionConfig, data Data, opts Options) []Unit {
	ctx, span := tracing.StartSpan(ctx, "dispatch.Render")
	defer span.End()

	if len(cfgs) == 0 {
		return []Unit{{Kind: UnitEmpty, Title: "nothing configured for this view"}}
	}
	if opts.RequireProducts && len(data.Products) == 0 {
		return []Unit{{Kind: UnitEmpty, Title: "no products in this stage yet"}}
	}

	units := make([]Unit, 0, len(cfgs))
	for i := 0; i < len(cfgs); i++ {
		cfg := cfgs[i]

		if i+1 < len(cfgs) && pairsWith(cfg.Type, cfgs[i+1].Type) {
			left := e.renderSection(ctx, cfg, data)
			right := e.renderSection(ctx, cfgs[i+1], data)
			units = append(units, Unit{
				Kind:  UnitComposite,
				Types: []string{string(cfg.Type), string(cfgs[i+1].Type)},
				Title: cfg.Title,
				Body:  CompositeBody{Left: left, Right: right},
			})
			i++ // companion consumed
			continue
		}

		units = append(units, e.renderSection(ctx, cfg, data))
	}

	return units
}

// renderSection renders one section config. Unknown types render as a
// visible placeholder carrying the literal type string.
func (e *Engine) renderSection(ctx context.Context, cfg sections.SectionConfig, data Data) Unit {
	switch cfg.Type {
	case sections.SectionKPICards:
		return sectionUnit(cfg, renderKPICards(cfg, data))
	case sections.SectionFunnelChart:
		return sectionUnit(cfg, renderFunnel(cfg, data))
	case sections.SectionTargetProgress:
		return sectionUnit(cfg, renderTargetProgress(cfg, data))
	case sections.SectionAIInsightSummary, sections.SectionAIWeeklyReport:
		return sectionUnit(cfg, renderInsight(cfg, data))
	case sections.SectionKanbanBoard:
		return sectionUnit(cfg, renderKanban(cfg, data))
	case sections.SectionPacing:
		return sectionUnit(cfg, renderPacing(cfg, data))
	case sections.SectionTrendChart:
		return sectionUnit(cfg, renderTrend(cfg, data))
	case sections.SectionDataTable:
		return sectionUnit(cfg, renderTable(cfg, data))
	default:
		e.logger.WithContext(ctx).WithFields(map[string]any{
			"type": string(cfg.Type),
		}).Warn("unknown section type, rendering placeholder")
		return Unit{
			Kind:  UnitPlaceholder,
			Type:  string(cfg.Type),
			Title: cfg.Title,
		}
	}
}

func sectionUnit(cfg sections.SectionConfig, body any) Unit {
	return Unit{
		Kind:  UnitSection,
		Type:  string(cfg.Type),
		Title: cfg.Title,
		Body:  body,
	}
}
