// Package runevents fans pipeline progress out to websocket watchers. A
// run is registered before the pipeline starts, receives stage events
// while it executes and is closed when it finishes either way.
package runevents

import (
	"context"
	"errors"
	"sync"
)

var ErrUnknownRun = errors.New("runevents: unknown run")

// Event is one progress notification of a run.
type Event struct {
	Type    string `json:"type"`
	Stage   string `json:"stage,omitempty"`
	Message string `json:"message,omitempty"`
}

const (
	EventStageStarted   = "stage_started"
	EventStageCompleted = "stage_completed"
	EventStageFailed    = "stage_failed"
	EventRunCompleted   = "run_completed"
	EventRunFailed      = "run_failed"
)

type run struct {
	history []Event
	subs    map[chan Event]struct{}
}

// Hub tracks live runs and their subscribers. Subscribers registered
// after events were published receive the full history first.
type Hub struct {
	mu   sync.Mutex
	runs map[string]*run
}

func NewHub() *Hub {
	return &Hub{runs: map[string]*run{}}
}

// Register makes the run id known so watchers can subscribe before or
// during execution. Registering an existing id is a no-op.
func (h *Hub) Register(runID string) {
	if h == nil || runID == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.runs[runID]; !ok {
		h.runs[runID] = &run{subs: map[chan Event]struct{}{}}
	}
}

// Publish records the event and delivers it to every subscriber. Slow
// subscribers lose events rather than block the pipeline.
func (h *Hub) Publish(runID string, evt Event) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.runs[runID]
	if !ok {
		return
	}
	r.history = append(r.history, evt)
	for ch := range r.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Subscribe attaches to a registered run. The returned channel first
// replays the history, then carries live events, and closes when either
// the run or ctx ends.
func (h *Hub) Subscribe(ctx context.Context, runID string) (<-chan Event, error) {
	if h == nil {
		return nil, ErrUnknownRun
	}
	h.mu.Lock()
	r, ok := h.runs[runID]
	if !ok {
		h.mu.Unlock()
		return nil, ErrUnknownRun
	}
	ch := make(chan Event, 32)
	for _, evt := range r.history {
		ch <- evt
	}
	r.subs[ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		defer h.mu.Unlock()
		if cur, ok := h.runs[runID]; ok {
			if _, live := cur.subs[ch]; live {
				delete(cur.subs, ch)
				close(ch)
			}
		}
	}()
	return ch, nil
}

// Close publishes the final event, closes every subscriber channel and
// forgets the run.
func (h *Hub) Close(runID string, final Event) {
	if h == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.runs[runID]
	if !ok {
		return
	}
	for ch := range r.subs {
		select {
		case ch <- final:
		default:
		}
		close(ch)
	}
	delete(h.runs, runID)
}
