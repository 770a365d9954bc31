package checkout

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dinithim/storefront-checkout/internal/cart"
	"github.com/dinithim/storefront-checkout/internal/session"
)

// Session bundles the live runtime for one browsing session: its cart, its
// saved-for-later list, and its checkout flow.
type Session struct {
	Cart  *cart.Store
	Saved *cart.SavedList
	Flow  *Orchestrator
}

// Registry lazily builds and caches per-session runtimes, restoring
// persisted cart lines and any in-flight order on first touch.
type Registry struct {
	logger   *slog.Logger
	resolver ProductSource
	store    session.Store
	orders   OrderGateway
	events   EventSink

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry(logger *slog.Logger, resolver ProductSource, store session.Store, orders OrderGateway, events EventSink) *Registry {
	return &Registry{
		logger:   logger,
		resolver: resolver,
		store:    store,
		orders:   orders,
		events:   events,
		sessions: make(map[string]*Session),
	}
}

func (r *Registry) Session(ctx context.Context, sessionID string) (*Session, error) {
	r.mu.Lock()
	if s, ok := r.sessions[sessionID]; ok {
		r.mu.Unlock()
		return s, nil
	}
	r.mu.Unlock()

	// build outside the lock; restoring hits the durable store
	cartStore := cart.NewStore(r.logger, sessionID, r.resolver, r.store)
	if err := cartStore.Restore(ctx); err != nil {
		return nil, err
	}
	saved := cart.NewSavedList(r.logger, sessionID, r.store)
	if err := saved.Restore(ctx); err != nil {
		return nil, err
	}
	flow := NewOrchestrator(r.logger, sessionID, cartStore, r.resolver, r.store, r.orders, r.events)
	if err := flow.Resume(ctx); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[sessionID]; ok {
		// another request won the race
		return s, nil
	}
	s := &Session{Cart: cartStore, Saved: saved, Flow: flow}
	r.sessions[sessionID] = s
	return s, nil
}

// Evict drops a session's runtime from memory; durable state stays.
func (r *Registry) Evict(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}
