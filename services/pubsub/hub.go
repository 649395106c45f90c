// Package pubsub fans lobby views out to everyone watching a lobby. Publishing
// never waits on a subscriber: each subscription keeps only the newest view.
package pubsub

import (
	"Awardly/models"
	"context"
	"errors"
	"sync"
)

var ErrClosed = errors.New("subscription closed")

// Snapshot is a full view of a lobby. Revisions grow with the time the view
// was built, so an older snapshot never replaces a newer one.
type Snapshot interface {
	SnapshotRevision() int64
}

// Broadcaster hands a freshly built view to every subscriber of its lobby
type Broadcaster[T Snapshot] interface {
	Publish(ctx context.Context, lobbyID models.LobbyID, view T) error
}

// Subscription is a one-slot mailbox for a single watcher
type Subscription[T Snapshot] struct {
	LobbyID models.LobbyID

	mu      sync.Mutex
	latest  T
	pending bool
	lastRev int64
	notify  chan struct{}
	done    chan struct{}
	once    sync.Once
	hub     *Hub[T]
}

func (s *Subscription[T]) offer(view T) {
	s.mu.Lock()
	rev := view.SnapshotRevision()
	if rev < s.lastRev {
		s.mu.Unlock()
		return
	}
	s.latest, s.pending, s.lastRev = view, true, rev
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Seed delivers the initial snapshot. It is dropped when a newer view was
// already published.
func (s *Subscription[T]) Seed(view T) {
	s.offer(view)
}

// Next blocks until a view is waiting, the subscription is closed or ctx ends
func (s *Subscription[T]) Next(ctx context.Context) (T, error) {
	var zero T
	for {
		s.mu.Lock()
		if s.pending {
			view := s.latest
			s.pending = false
			s.latest = zero
			s.mu.Unlock()
			return view, nil
		}
		s.mu.Unlock()

		select {
		case <-s.notify:
		case <-s.done:
			return zero, ErrClosed
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}

// Close detaches the subscription from its hub
func (s *Subscription[T]) Close() {
	s.once.Do(func() {
		close(s.done)
		s.hub.remove(s)
	})
}

// Hub keeps subscriptions by lobby inside one process
type Hub[T Snapshot] struct {
	mu   sync.RWMutex
	subs map[models.LobbyID]map[*Subscription[T]]struct{}
}

func NewHub[T Snapshot]() *Hub[T] {
	return &Hub[T]{subs: make(map[models.LobbyID]map[*Subscription[T]]struct{})}
}

func (h *Hub[T]) Subscribe(lobbyID models.LobbyID) *Subscription[T] {
	sub := &Subscription[T]{
		LobbyID: lobbyID,
		notify:  make(chan struct{}, 1),
		done:    make(chan struct{}),
		hub:     h,
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[lobbyID]
	if !ok {
		set = make(map[*Subscription[T]]struct{})
		h.subs[lobbyID] = set
	}
	set[sub] = struct{}{}
	return sub
}

func (h *Hub[T]) remove(sub *Subscription[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set := h.subs[sub.LobbyID]
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subs, sub.LobbyID)
	}
}

// Publish delivers view to the subscribers of lobbyID in this process
func (h *Hub[T]) Publish(_ context.Context, lobbyID models.LobbyID, view T) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subs[lobbyID] {
		sub.offer(view)
	}
	return nil
}

// Subscribers counts the watchers of a lobby
func (h *Hub[T]) Subscribers(lobbyID models.LobbyID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[lobbyID])
}

var _ Broadcaster[Snapshot] = (*Hub[Snapshot])(nil)
