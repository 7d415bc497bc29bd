package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/timsearle/swift-dependency-graph/pkg/logging"
)

// TopicConfig sets the replay behavior for a topic.
type TopicConfig struct {
	BufferSize int  // events kept for replay (0 = none)
	ReplayAll  bool // replay the whole buffer instead of just the last event
}

// SSEPublisher is the in-process Publisher backing the /api/events
// endpoint.
type SSEPublisher struct {
	mu      sync.RWMutex
	subs    map[string]map[*sseSubscription]bool
	version map[string]int
	buffer  map[string][]Event
	config  map[string]TopicConfig
	closed  bool
}

// NewSSEPublisher creates a publisher with default topic configuration:
// run status replays its whole buffer, the graph topic replays only the
// latest snapshot.
func NewSSEPublisher() *SSEPublisher {
	p := &SSEPublisher{
		subs:    make(map[string]map[*sseSubscription]bool),
		version: make(map[string]int),
		buffer:  make(map[string][]Event),
		config:  make(map[string]TopicConfig),
	}
	p.ConfigureTopic(TopicRunStatus, TopicConfig{BufferSize: 16, ReplayAll: true})
	p.ConfigureTopic(TopicGraph, TopicConfig{BufferSize: 1})
	return p
}

// ConfigureTopic overrides the replay configuration for a topic.
func (p *SSEPublisher) ConfigureTopic(topic string, config TopicConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.config[topic] = config
}

// Subscribe attaches to a topic and replays buffered events per the
// topic's configuration.
func (p *SSEPublisher) Subscribe(ctx context.Context, topic string) (Subscription, error) {
	p.mu.Lock()

	if p.closed {
		p.mu.Unlock()
		return nil, fmt.Errorf("publisher is closed")
	}

	sub := &sseSubscription{
		topic:     topic,
		events:    make(chan Event, 64), // buffered so publishers never block
		publisher: p,
	}
	if p.subs[topic] == nil {
		p.subs[topic] = make(map[*sseSubscription]bool)
	}
	p.subs[topic][sub] = true

	config := p.config[topic]
	replay := make([]Event, len(p.buffer[topic]))
	copy(replay, p.buffer[topic])
	p.mu.Unlock()

	if len(replay) > 0 {
		if !config.ReplayAll {
			replay = replay[len(replay)-1:]
		}
		for _, event := range replay {
			select {
			case sub.events <- event:
			default:
				logging.Warn("dropped replay event", "topic", topic)
			}
		}
	}

	go func() {
		<-ctx.Done()
		_ = sub.Close()
	}()

	return sub, nil
}

// Publish sends an event to every subscriber of a topic. Slow subscribers
// drop events instead of blocking the pipeline.
func (p *SSEPublisher) Publish(topic string, eventType string, data interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("publisher is closed")
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal event data: %w", err)
	}

	p.version[topic]++
	event := Event{
		Topic:   topic,
		Type:    eventType,
		Data:    jsonData,
		Version: p.version[topic],
	}

	if config := p.config[topic]; config.BufferSize > 0 {
		buffer := append(p.buffer[topic], event)
		if len(buffer) > config.BufferSize {
			buffer = buffer[len(buffer)-config.BufferSize:]
		}
		p.buffer[topic] = buffer
	}

	for sub := range p.subs[topic] {
		select {
		case sub.events <- event:
		default:
			logging.Warn("subscriber channel full, dropping event", "topic", topic, "type", eventType)
		}
	}
	return nil
}

// Close shuts down the publisher and all subscriptions.
func (p *SSEPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	for _, subs := range p.subs {
		for sub := range subs {
			close(sub.events)
		}
	}
	p.subs = make(map[string]map[*sseSubscription]bool)
	return nil
}

func (p *SSEPublisher) unsubscribe(sub *sseSubscription) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if subs := p.subs[sub.topic]; subs != nil {
		delete(subs, sub)
		if len(subs) == 0 {
			delete(p.subs, sub.topic)
		}
	}
}

type sseSubscription struct {
	topic     string
	events    chan Event
	publisher *SSEPublisher
	closed    bool
	mu        sync.Mutex
}

func (s *sseSubscription) Topic() string        { return s.topic }
func (s *sseSubscription) Events() <-chan Event { return s.events }

func (s *sseSubscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.publisher.unsubscribe(s)
	return nil
}

// WriteSSE writes an event in text/event-stream framing.
func WriteSSE(w io.Writer, event Event) error {
	jsonData, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", jsonData)
	return err
}
