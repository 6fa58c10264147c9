// Package tokenstore holds the TokenStore implementations: an in-process hub,
// Redis (key + Pub/Sub) and MongoDB (document + change stream).
package tokenstore

import (
	"context"
	"sync"

	"github.com/coursestore/storefront/internal/core/ports"
)

const eventBuffer = 16

// Hub is token storage shared by the tabs of one process. Each tab gets its
// own handle from Tab so that writes carry the tab's origin.
type Hub struct {
	mu     sync.Mutex
	tokens map[string]string
	subs   map[*subscription]struct{}
}

type subscription struct {
	key string
	ch  chan ports.TokenEvent
}

type event struct {
	key string
	ev  ports.TokenEvent
}

func NewHub() *Hub {
	return &Hub{
		tokens: make(map[string]string),
		subs:   make(map[*subscription]struct{}),
	}
}

// Tab returns the store handle of one tab writing under origin.
func (h *Hub) Tab(origin, key string) *Memory {
	return &Memory{hub: h, origin: origin, key: key}
}

func (h *Hub) get(key string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.tokens[key]
}

func (h *Hub) write(key, token, origin string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if token == "" {
		delete(h.tokens, key)
	} else {
		h.tokens[key] = token
	}
	h.publish(event{key: key, ev: ports.TokenEvent{Origin: origin, Present: token != ""}})
}

// publish must be called with h.mu held. A full subscriber buffer drops the
// event: the events already queued force the same re-read.
func (h *Hub) publish(e event) {
	for sub := range h.subs {
		if sub.key != e.key {
			continue
		}
		select {
		case sub.ch <- e.ev:
		default:
		}
	}
}

func (h *Hub) subscribe(ctx context.Context, key string) <-chan ports.TokenEvent {
	sub := &subscription{key: key, ch: make(chan ports.TokenEvent, eventBuffer)}

	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.mu.Lock()
		delete(h.subs, sub)
		close(sub.ch)
		h.mu.Unlock()
	}()
	return sub.ch
}

// Memory is one tab's handle on a Hub.
type Memory struct {
	hub    *Hub
	origin string
	key    string
}

// NewMemory returns a store on a private hub, for a single tab.
func NewMemory(origin, key string) *Memory {
	return NewHub().Tab(origin, key)
}

func (m *Memory) Get(_ context.Context) (string, error) {
	return m.hub.get(m.key), nil
}

func (m *Memory) Set(_ context.Context, token string) error {
	m.hub.write(m.key, token, m.origin)
	return nil
}

func (m *Memory) Delete(_ context.Context) error {
	m.hub.write(m.key, "", m.origin)
	return nil
}

func (m *Memory) Subscribe(ctx context.Context) (<-chan ports.TokenEvent, error) {
	return m.hub.subscribe(ctx, m.key), nil
}

func (m *Memory) Ping(_ context.Context) error {
	return nil
}
