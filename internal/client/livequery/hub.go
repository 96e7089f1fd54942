// Package livequery turns local store queries into push-based streams.
//
// A writer calls Hub.Publish with the tables it changed; every active Watch
// whose query reads one of those tables re-runs its loader and pushes the full
// result to its channel. There are no diffs: each value is the complete
// current collection. Bursts of changes may coalesce into a single push, but
// the last push always reflects the latest committed state.
package livequery

import (
	"context"
	"sync"
)

// Table names a store table that queries depend on.
type Table string

const (
	Users       Table = "users"
	Notes       Table = "notes"
	Tags        Table = "tags"
	NoteTags    Table = "note_tags"
	Attachments Table = "attachments"
)

type subscription struct {
	tables map[Table]struct{}
	dirty  chan struct{}
}

// Hub fans change notifications out to subscriptions.
type Hub struct {
	mu   sync.Mutex
	next uint64
	subs map[uint64]*subscription
}

func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]*subscription)}
}

// Publish marks every subscription reading any of tables as dirty. It never
// blocks.
func (h *Hub) Publish(tables ...Table) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, s := range h.subs {
		for _, t := range tables {
			if _, ok := s.tables[t]; ok {
				select {
				case s.dirty <- struct{}{}:
				default:
				}
				break
			}
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

func (h *Hub) subscribe(tables []Table) (*subscription, func()) {
	s := &subscription{
		tables: make(map[Table]struct{}, len(tables)),
		dirty:  make(chan struct{}, 1),
	}
	for _, t := range tables {
		s.tables[t] = struct{}{}
	}

	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = s
	h.mu.Unlock()

	return s, func() {
		h.mu.Lock()
		delete(h.subs, id)
		h.mu.Unlock()
	}
}

// Watch runs load now and after every change to tables, sending each result
// on the returned channel. The channel is closed when ctx is done. Load
// errors are passed to onErr (which may be nil) and the watch keeps waiting
// for the next change.
func Watch[T any](ctx context.Context, h *Hub, load func(context.Context) (T, error), onErr func(error), tables ...Table) <-chan T {
	out := make(chan T)
	sub, unsubscribe := h.subscribe(tables)

	go func() {
		defer close(out)
		defer unsubscribe()

		for {
			v, err := load(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if onErr != nil {
					onErr(err)
				}
			} else {
				select {
				case out <- v:
				case <-ctx.Done():
					return
				}
			}

			select {
			case <-sub.dirty:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
