// Package sse implements a Server-Sent Events broker that streams note and
// folder lifecycle events to connected clients.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

// Event is a single SSE event to broadcast.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type lifecycleReq struct {
	kind string // e.g. "note.trashed", "folder.deleted"
	id   string
}

type batchReq struct {
	op       string
	affected int64
}

// Broker manages SSE client connections and broadcasts lifecycle events.
//
// Concurrency model: a single internal event loop (goroutine) owns mutable
// state (clients + the refresh throttle timestamp). Public methods talk to
// the loop through channels, so no mutexes are required.
type Broker struct {
	refreshMin time.Duration

	subscribeCh   chan chan []byte
	unsubscribeCh chan chan []byte
	lifecycleCh   chan lifecycleReq
	batchCh       chan batchReq
	sweepCh       chan int
	countReqCh    chan chan int

	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBroker creates a broker. refreshThrottle bounds how often the
// aggregate "collection.changed" hint is emitted alongside single events.
func NewBroker(refreshThrottle time.Duration) *Broker {
	if refreshThrottle <= 0 {
		refreshThrottle = 2 * time.Second
	}

	b := &Broker{
		refreshMin:    refreshThrottle,
		subscribeCh:   make(chan chan []byte),
		unsubscribeCh: make(chan chan []byte),
		lifecycleCh:   make(chan lifecycleReq, 256),
		batchCh:       make(chan batchReq, 64),
		sweepCh:       make(chan int, 16),
		countReqCh:    make(chan chan int),
		stopCh:        make(chan struct{}),
		stopped:       make(chan struct{}),
	}

	go b.run()
	return b
}

func (b *Broker) run() {
	defer close(b.stopped)

	clients := make(map[chan []byte]struct{})
	var lastRefresh time.Time

	broadcast := func(event Event) {
		payload, err := json.Marshal(event.Data)
		if err != nil {
			return
		}
		raw := []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", event.Type, payload))

		for ch := range clients {
			select {
			case ch <- raw:
			default:
				// Client buffer full; skip to avoid blocking the loop.
			}
		}
	}

	refreshHint := func() {
		now := time.Now()
		if now.Sub(lastRefresh) >= b.refreshMin {
			lastRefresh = now
			broadcast(Event{Type: "collection.changed", Data: map[string]string{}})
		}
	}

	for {
		select {
		case <-b.stopCh:
			for ch := range clients {
				close(ch)
			}
			return

		case ch := <-b.subscribeCh:
			clients[ch] = struct{}{}

		case ch := <-b.unsubscribeCh:
			if _, ok := clients[ch]; ok {
				delete(clients, ch)
				close(ch)
			}

		case req := <-b.lifecycleCh:
			broadcast(Event{Type: req.kind, Data: map[string]string{"id": req.id}})
			refreshHint()

		case req := <-b.batchCh:
			broadcast(Event{Type: "notes.batch", Data: map[string]any{
				"op":       req.op,
				"affected": req.affected,
			}})
			refreshHint()

		case n := <-b.sweepCh:
			broadcast(Event{Type: "trash.swept", Data: map[string]int{"deleted": n}})

		case resp := <-b.countReqCh:
			resp <- len(clients)
		}
	}
}

// Close gracefully stops the loop and closes all client channels.
func (b *Broker) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// Subscribe adds a new client and returns its channel.
func (b *Broker) Subscribe() chan []byte {
	ch := make(chan []byte, 64)
	if b.closed.Load() {
		close(ch)
		return ch
	}

	select {
	case b.subscribeCh <- ch:
	case <-b.stopped:
		close(ch)
	}

	return ch
}

// Unsubscribe removes a client and closes its channel.
func (b *Broker) Unsubscribe(ch chan []byte) {
	if b.closed.Load() {
		return
	}
	select {
	case b.unsubscribeCh <- ch:
	case <-b.stopped:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broker) ClientCount() int {
	if b.closed.Load() {
		return 0
	}

	resp := make(chan int, 1)
	select {
	case b.countReqCh <- resp:
	case <-b.stopped:
		return 0
	}

	select {
	case n := <-resp:
		return n
	case <-b.stopped:
		return 0
	}
}

// PublishLifecycle broadcasts a single entity lifecycle event plus a
// throttled refresh hint.
func (b *Broker) PublishLifecycle(kind, id string) {
	if b.closed.Load() {
		return
	}
	select {
	case b.lifecycleCh <- lifecycleReq{kind: kind, id: id}:
	case <-b.stopped:
	}
}

// PublishBatch broadcasts the outcome of a batch operation.
func (b *Broker) PublishBatch(op string, affected int64) {
	if b.closed.Load() {
		return
	}
	select {
	case b.batchCh <- batchReq{op: op, affected: affected}:
	case <-b.stopped:
	}
}

// PublishSweep broadcasts that the retention sweeper removed expired notes.
func (b *Broker) PublishSweep(deleted int) {
	if b.closed.Load() {
		return
	}
	select {
	case b.sweepCh <- deleted:
	case <-b.stopped:
	}
}

// ServeHTTP is the SSE endpoint handler (GET /api/events).
func (b *Broker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch := b.Subscribe()
	defer b.Unsubscribe(ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			_, _ = w.Write(msg)
			flusher.Flush()
		}
	}
}
