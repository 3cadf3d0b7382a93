// Package kafka carries planning lifecycle events out and curated idea
// events in.
package kafka

import (
	"time"
)

// ConsumerConfig configures the curated-ideas consumer.
type ConsumerConfig struct {
	Brokers []string
	Topic   string
	GroupID string

	MinBytes       int
	MaxBytes       int
	MaxWait        time.Duration
	CommitInterval time.Duration

	// StartOffset applies when the group has no committed offset. Use
	// FirstOffset (-2) for the beginning or LastOffset (-1) for the end.
	StartOffset int64

	SessionTimeout    time.Duration
	HeartbeatInterval time.Duration
	RebalanceTimeout  time.Duration
}

// DefaultConsumerConfig returns a ConsumerConfig with sensible defaults.
func DefaultConsumerConfig() ConsumerConfig {
	return ConsumerConfig{
		Brokers:           []string{"localhost:9092"},
		Topic:             "workbench.ideas.curated",
		GroupID:           "workbench-consumer",
		MinBytes:          1,
		MaxBytes:          10e6, // 10MB
		MaxWait:           3 * time.Second,
		CommitInterval:    time.Second,
		StartOffset:       LastOffset,
		SessionTimeout:    30 * time.Second,
		HeartbeatInterval: 3 * time.Second,
		RebalanceTimeout:  30 * time.Second,
	}
}

// ProducerConfig configures the planning events producer.
type ProducerConfig struct {
	Brokers []string
	Topic   string

	BatchSize    int
	BatchTimeout time.Duration

	// RequiredAcks: 0 = none, 1 = leader only, -1 = all replicas.
	RequiredAcks int

	Async        bool
	MaxAttempts  int
	WriteTimeout time.Duration

	// Compression is one of none, gzip, snappy, lz4, zstd.
	Compression string
}

// DefaultProducerConfig returns a ProducerConfig with sensible defaults.
func DefaultProducerConfig() ProducerConfig {
	return ProducerConfig{
		Brokers:      []string{"localhost:9092"},
		Topic:        "workbench.planning.events",
		BatchSize:    100,
		BatchTimeout: 100 * time.Millisecond,
		RequiredAcks: 1,
		Async:        false,
		MaxAttempts:  3,
		WriteTimeout: 10 * time.Second,
		Compression:  "snappy",
	}
}

// Offset constants
const (
	FirstOffset int64 = -2
	LastOffset  int64 = -1
)
