package kafka

import (
	"encoding/json"
	"time"
)

// Planning lifecycle event types.
const (
	EventPlanningPushed         = "planning.pushed"
	EventPlanningApproved       = "planning.approved"
	EventPlanningRejected       = "planning.rejected"
	EventPlanningTargetsUpdated = "planning.targets_updated"
	EventPlanningConfirmed      = "planning.confirmed"
)

// WorkflowEvent is published on every planning workflow mutation.
type WorkflowEvent struct {
	Type      string    `json:"type"`
	ProductID string    `json:"product_id"`
	Title     string    `json:"title,omitempty"`
	Actor     string    `json:"actor,omitempty"`
	Role      string    `json:"role,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	// Tracing
	TraceID string `json:"trace_id,omitempty"`
	SpanID  string `json:"span_id,omitempty"`
}

// ToJSON serializes the WorkflowEvent to JSON bytes.
func (e *WorkflowEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// IdeaEvent is a curated market idea produced by the upstream insight
// pipeline. Accepted ideas become planning candidates.
type IdeaEvent struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Score     float64   `json:"score"`
	Evidence  []Quote   `json:"evidence,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	TraceID string `json:"trace_id,omitempty"`
	SpanID  string `json:"span_id,omitempty"`
}

// Quote is one piece of supporting evidence on an idea.
type Quote struct {
	Source string `json:"source"`
	Quote  string `json:"quote"`
	URL    string `json:"url,omitempty"`
}

// ParseIdeaEvent parses a raw Kafka message into an IdeaEvent.
func ParseIdeaEvent(data []byte) (*IdeaEvent, error) {
	var msg IdeaEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// MessageHeaders contains Kafka message headers for filtering without
// deserializing the payload.
type MessageHeaders struct {
	EventType   string
	ProductID   string
	Role        string
	TraceParent string
	TraceState  string
}

// ToKafkaHeaders converts MessageHeaders to a slice of header key-value pairs.
func (h *MessageHeaders) ToKafkaHeaders() []Header {
	headers := make([]Header, 0, 5)

	if h.EventType != "" {
		headers = append(headers, Header{Key: "event_type", Value: []byte(h.EventType)})
	}
	if h.ProductID != "" {
		headers = append(headers, Header{Key: "product_id", Value: []byte(h.ProductID)})
	}
	if h.Role != "" {
		headers = append(headers, Header{Key: "role", Value: []byte(h.Role)})
	}
	if h.TraceParent != "" {
		headers = append(headers, Header{Key: "traceparent", Value: []byte(h.TraceParent)})
	}
	if h.TraceState != "" {
		headers = append(headers, Header{Key: "tracestate", Value: []byte(h.TraceState)})
	}

	return headers
}

// Header represents a Kafka message header.
type Header struct {
	Key   string
	Value []byte
}

// ExtractHeaders extracts MessageHeaders from Kafka headers.
func ExtractHeaders(headers []Header) MessageHeaders {
	var mh MessageHeaders
	for _, h := range headers {
		switch h.Key {
		case "event_type":
			mh.EventType = string(h.Value)
		case "product_id":
			mh.ProductID = string(h.Value)
		case "role":
			mh.Role = string(h.Value)
		case "traceparent":
			mh.TraceParent = string(h.Value)
		case "tracestate":
			mh.TraceState = string(h.Value)
		}
	}
	return mh
}
