// Package feed implements the live expense history feed: a subscription that
// re-delivers the full current ledger of a group to a single consumer
// whenever the ledger changes, until cancelled.
package feed

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/hisaab-app/hisaab/internal/models"
)

// State describes where a subscription is in its lifecycle.
// Transitions: Unsubscribed -> Subscribing -> Active -> Cancelled,
// or Active -> Errored. Errored and Cancelled are terminal.
type State int32

const (
	StateUnsubscribed State = iota
	StateSubscribing
	StateActive
	StateErrored
	StateCancelled
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateUnsubscribed:
		return "unsubscribed"
	case StateSubscribing:
		return "subscribing"
	case StateActive:
		return "active"
	case StateErrored:
		return "errored"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Source supplies the materialized ledger for a group, newest first.
// Satisfied by storage.Store.
type Source interface {
	ListGroupExpenses(ctx context.Context, groupID string) ([]*models.Expense, error)
}

// Hub fans ledger-change notifications out to the live subscriptions.
// The expense service calls Notify after every durable append; each
// subscription then re-queries the source and delivers the full snapshot
// (never a diff) to its consumer.
type Hub struct {
	source Source

	mu   sync.Mutex
	subs map[string]map[*Handle]struct{}
}

// NewHub creates a hub reading snapshots from the given source.
func NewHub(source Source) *Hub {
	return &Hub{
		source: source,
		subs:   make(map[string]map[*Handle]struct{}),
	}
}

// Subscribe starts a feed for the group. The initial snapshot is delivered
// once the subscription goes active, and a fresh snapshot follows every
// Notify for the group. Exactly one consumer receives the deliveries;
// callbacks are never invoked concurrently.
//
// onError is called at most once, after which the feed is torn down.
// The returned handle must be cancelled when the consumer goes away,
// otherwise it keeps delivering to a torn-down view.
func (h *Hub) Subscribe(ctx context.Context, groupID string, onSnapshot func([]*models.Expense), onError func(error)) *Handle {
	handle := &Handle{
		hub:     h,
		groupID: groupID,
		kick:    make(chan struct{}, 1),
		stop:    make(chan struct{}),
	}
	handle.state.Store(int32(StateSubscribing))

	h.mu.Lock()
	if h.subs[groupID] == nil {
		h.subs[groupID] = make(map[*Handle]struct{})
	}
	h.subs[groupID][handle] = struct{}{}
	h.mu.Unlock()

	go handle.run(ctx, h.source, onSnapshot, onError)
	return handle
}

// Notify wakes every live subscription for the group. Notifications coalesce:
// a subscription that is mid-delivery picks up at most one pending wake-up,
// which is enough because every delivery reads the current full state.
func (h *Hub) Notify(groupID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for handle := range h.subs[groupID] {
		select {
		case handle.kick <- struct{}{}:
		default:
		}
	}
}

func (h *Hub) unregister(handle *Handle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set := h.subs[handle.groupID]; set != nil {
		delete(set, handle)
		if len(set) == 0 {
			delete(h.subs, handle.groupID)
		}
	}
}

// Handle is the cancel handle for one live subscription.
type Handle struct {
	hub     *Hub
	groupID string
	state   atomic.Int32
	kick    chan struct{}
	stop    chan struct{}
	once    sync.Once
}

// State returns the subscription's current lifecycle state.
func (hd *Handle) State() State {
	return State(hd.state.Load())
}

// Cancel stops the subscription. After Cancel returns the handle is off the
// hub and store mutations deliver nothing further. Idempotent.
func (hd *Handle) Cancel() {
	hd.once.Do(func() {
		// Errored feeds already unregistered themselves; keep the terminal state.
		if hd.state.CompareAndSwap(int32(StateSubscribing), int32(StateCancelled)) ||
			hd.state.CompareAndSwap(int32(StateActive), int32(StateCancelled)) {
			hd.hub.unregister(hd)
		}
		close(hd.stop)
	})
}

func (hd *Handle) run(ctx context.Context, source Source, onSnapshot func([]*models.Expense), onError func(error)) {
	deliver := func() bool {
		snapshot, err := source.ListGroupExpenses(ctx, hd.groupID)
		if err != nil {
			hd.state.Store(int32(StateErrored))
			hd.hub.unregister(hd)
			onError(err)
			return false
		}
		// A cancel that raced the query wins: never deliver after Cancel.
		select {
		case <-hd.stop:
			return false
		case <-ctx.Done():
			hd.Cancel()
			return false
		default:
		}
		onSnapshot(snapshot)
		return true
	}

	// Initial snapshot on activation.
	if !deliver() {
		return
	}
	hd.state.CompareAndSwap(int32(StateSubscribing), int32(StateActive))

	for {
		select {
		case <-hd.stop:
			return
		case <-ctx.Done():
			hd.Cancel()
			return
		case <-hd.kick:
			if !deliver() {
				return
			}
		}
	}
}
