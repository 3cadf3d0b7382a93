// Package ideas consumes curated idea events from the insight pipeline and
// pushes them into the planning workflow.
package ideas

import (
	"context"
	"fmt"
	"sync"

	"github.com/Gobusters/ectologger"

	"github.com/hideyanjp01-maker/workbench/pkg/kafka"
	"github.com/hideyanjp01-maker/workbench/pkg/models"
	"github.com/hideyanjp01-maker/workbench/pkg/tracing"
)

// Planner is the slice of the planning service the handler needs.
type Planner interface {
	Push(ctx context.Context, idea models.Idea) (models.PlanningProduct, error)
}

// Handler turns idea events into planning candidates. Push is idempotent,
// so redelivered messages are safe.
type Handler struct {
	planner Planner
	logger  ectologger.Logger

	processed int64
	failed    int64
	mu        sync.Mutex
}

func NewHandler(planner Planner, logger ectologger.Logger) *Handler {
	return &Handler{
		planner: planner,
		logger:  logger,
	}
}

// Handle implements kafka.MessageHandler.
func (h *Handler) Handle(ctx context.Context, msg *kafka.ReceivedMessage) error {
	ctx, span := tracing.StartSpan(ctx, "ideas.Handle")
	defer span.End()

	if msg == nil || msg.Idea == nil {
		h.markFailed()
		return fmt.Errorf("message has no idea payload")
	}

	idea := toIdea(msg.Idea)

	record, err := h.planner.Push(ctx, idea)
	if err != nil {
		h.markFailed()
		h.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"idea_id": idea.ID,
			"topic":   msg.Topic,
			"offset":  msg.Offset,
		}).Error("Failed to push idea into planning")
		return err
	}

	h.markProcessed()
	h.logger.WithContext(ctx).WithFields(map[string]any{
		"idea_id":    idea.ID,
		"product_id": record.ID,
	}).Info("Pushed curated idea into planning")
	return nil
}

// Stats returns how many messages were processed and how many failed.
func (h *Handler) Stats() (processed int64, failed int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.processed, h.failed
}

func (h *Handler) markProcessed() {
	h.mu.Lock()
	h.processed++
	h.mu.Unlock()
}

func (h *Handler) markFailed() {
	h.mu.Lock()
	h.failed++
	h.mu.Unlock()
}

func toIdea(event *kafka.IdeaEvent) models.Idea {
	samples := make([]models.EvidenceSample, 0, len(event.Evidence))
	for _, q := range event.Evidence {
		samples = append(samples, models.EvidenceSample{
			Source: q.Source,
			Quote:  q.Quote,
			URL:    q.URL,
		})
	}

	return models.Idea{
		ID:              event.ID,
		Title:           event.Title,
		Score:           event.Score,
		EvidenceSamples: samples,
		CreatedTS:       event.Timestamp,
	}
}
