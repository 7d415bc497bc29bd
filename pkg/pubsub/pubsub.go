// Package pubsub distributes pipeline progress to web clients over
// Server-Sent Events. Topics carry replay buffers so a client connecting
// mid-run still sees the current state.
package pubsub

import (
	"context"
	"encoding/json"
)

// Topic names used by the pipeline and the web layer.
const (
	TopicRunStatus = "run_status"
	TopicGraph     = "graph"
)

// Event is one published message on a topic.
type Event struct {
	Topic   string          `json:"topic"`
	Type    string          `json:"type"` // e.g. "scanning", "building", "analyzing", "ready"
	Data    json.RawMessage `json:"data"`
	Version int             `json:"version"` // per-topic ordering
}

// Subscription is a client's attachment to a topic.
type Subscription interface {
	Topic() string
	Events() <-chan Event
	Close() error
}

// Publisher manages subscriptions and event delivery.
type Publisher interface {
	// Subscribe attaches to a topic. Context cancellation closes the
	// subscription.
	Subscribe(ctx context.Context, topic string) (Subscription, error)

	// Publish sends an event to every subscriber of a topic.
	Publish(topic string, eventType string, data interface{}) error

	Close() error
}

// RunStatus is the payload on TopicRunStatus: where the pipeline is in
// the current run.
type RunStatus struct {
	RunID   string `json:"runId"`
	Phase   string `json:"phase"` // scanning, parsing, building, augmenting, analyzing, ready, failed
	Message string `json:"message"`
	Step    int    `json:"step"`
	Total   int    `json:"total"`
}

// GraphStatus is the payload on TopicGraph: headline numbers for the
// latest graph, published when a run completes.
type GraphStatus struct {
	NodeCount  int  `json:"nodeCount"`
	EdgeCount  int  `json:"edgeCount"`
	CycleCount int  `json:"cycleCount"`
	Complete   bool `json:"complete"`
}
