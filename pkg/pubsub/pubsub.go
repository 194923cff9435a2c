// Package pubsub fans analysis progress out to streaming clients.
package pubsub

import (
	"context"
	"encoding/json"
)

// Well-known topics.
const (
	TopicAnalysisStatus = "analysis_status"
	TopicCatalog        = "catalog"
)

// Event represents a pub/sub event
type Event struct {
	Topic   string          `json:"topic"`   // Subscription topic (e.g., "analysis_status", "catalog")
	Type    string          `json:"type"`    // Event type (e.g., "scanning", "extracting", "ready")
	Data    json.RawMessage `json:"data"`    // Event payload
	Version int             `json:"version"` // Version number for ordering
}

// Subscription represents a client subscription to a topic
type Subscription interface {
	// Topic returns the subscription topic
	Topic() string

	// Events returns a channel for receiving events
	Events() <-chan Event

	// Close closes the subscription
	Close() error
}

// Publisher manages pub/sub subscriptions and event publishing
type Publisher interface {
	// Subscribe creates a new subscription to a topic
	// Context cancellation will close the subscription
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	// Publish sends an event to all subscribers of a topic
	Publish(topic string, eventType string, data interface{}) error

	// Close shuts down the publisher and all subscriptions
	Close() error
}

// AnalysisStatus reports pipeline progress for one run.
type AnalysisStatus struct {
	State   string `json:"state"`   // scanning, extracting, graphing, cataloging, ready, error
	Message string `json:"message"` // Human-readable status message
	Step    int    `json:"step"`    // Current step number (1-based)
	Total   int    `json:"total"`   // Total number of steps
}

// CatalogStatus reports partial or complete catalog data.
type CatalogStatus struct {
	Files    int  `json:"files"`
	Features int  `json:"features"`
	Edges    int  `json:"edges"`
	Complete bool `json:"complete"` // True when the run finished
}
