package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/skoglund/feature-scan/pkg/logging"
)

// TopicConfig controls replay for late subscribers. The progress topic
// keeps only the last state; the catalog topic keeps a short history.
type TopicConfig struct {
	BufferSize int  // events retained for replay, 0 disables replay
	ReplayAll  bool // replay the whole buffer instead of only the last event
}

// topicState bundles everything the publisher tracks per topic.
type topicState struct {
	config  TopicConfig
	version int
	buffer  []Event
	subs    map[*streamSubscription]struct{}
}

// SSEPublisher fans analysis events out to streaming HTTP clients.
// Topics appear on first use; ConfigureTopic enables replay for the
// ones that need it.
type SSEPublisher struct {
	mu     sync.Mutex
	topics map[string]*topicState
	closed bool
}

// NewSSEPublisher creates an empty publisher.
func NewSSEPublisher() *SSEPublisher {
	return &SSEPublisher{topics: make(map[string]*topicState)}
}

// topic returns the state for name, creating it on first use. Callers
// hold p.mu.
func (p *SSEPublisher) topic(name string) *topicState {
	t, ok := p.topics[name]
	if !ok {
		t = &topicState{subs: make(map[*streamSubscription]struct{})}
		p.topics[name] = t
	}
	return t
}

// ConfigureTopic sets the replay behavior for a topic.
func (p *SSEPublisher) ConfigureTopic(name string, config TopicConfig) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topic(name).config = config
}

// Subscribe registers a listener on a topic. Buffered events replay
// into the subscription immediately, per the topic's config, so a
// client connecting mid-run still sees the current state. The
// subscription closes when ctx is cancelled.
func (p *SSEPublisher) Subscribe(ctx context.Context, name string) (Subscription, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, fmt.Errorf("publisher is closed")
	}

	t := p.topic(name)
	sub := &streamSubscription{
		topic:     name,
		events:    make(chan Event, 100),
		publisher: p,
	}
	t.subs[sub] = struct{}{}

	if len(t.buffer) > 0 {
		replay := t.buffer
		if !t.config.ReplayAll {
			replay = t.buffer[len(t.buffer)-1:]
		}
		// The fresh channel always has room for the replay.
		for _, event := range replay {
			sub.events <- event
		}
	}

	go func() {
		<-ctx.Done()
		sub.Close()
	}()
	return sub, nil
}

// Publish marshals data and delivers it to every subscriber of the
// topic. Slow subscribers drop events rather than stalling the
// analysis run.
func (p *SSEPublisher) Publish(name string, eventType string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", name, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return fmt.Errorf("publisher is closed")
	}

	t := p.topic(name)
	t.version++
	event := Event{Topic: name, Type: eventType, Data: payload, Version: t.version}

	if t.config.BufferSize > 0 {
		t.buffer = append(t.buffer, event)
		if len(t.buffer) > t.config.BufferSize {
			t.buffer = t.buffer[len(t.buffer)-t.config.BufferSize:]
		}
	}

	for sub := range t.subs {
		select {
		case sub.events <- event:
		default:
			logging.Warn("dropping event, subscriber channel full", "topic", name, "type", eventType)
		}
	}
	return nil
}

// Close shuts down the publisher. Every open subscription's channel
// closes, ending the streaming handlers that range over it.
func (p *SSEPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	for _, t := range p.topics {
		for sub := range t.subs {
			close(sub.events)
		}
		t.subs = make(map[*streamSubscription]struct{})
	}
	return nil
}

func (p *SSEPublisher) unsubscribe(sub *streamSubscription) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.topics[sub.topic]; ok {
		delete(t.subs, sub)
	}
}

// streamSubscription is one client's view of a topic.
type streamSubscription struct {
	topic     string
	events    chan Event
	publisher *SSEPublisher
	mu        sync.Mutex
	closed    bool
}

func (s *streamSubscription) Topic() string { return s.topic }

func (s *streamSubscription) Events() <-chan Event { return s.events }

func (s *streamSubscription) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.publisher.unsubscribe(s)
	return nil
}

// WriteSSE frames one event for a text/event-stream response. The
// event type and version map onto the SSE "event" and "id" fields, so
// clients can filter on pipeline states and detect missed events; the
// payload travels as the data line.
func WriteSSE(w io.Writer, event Event) error {
	_, err := fmt.Fprintf(w, "event: %s\nid: %d\ndata: %s\n\n", event.Type, event.Version, event.Data)
	return err
}
