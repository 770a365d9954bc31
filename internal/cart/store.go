// Package cart implements the per-session cart: stock-aware mutation,
// decimal-safe totals, and an immutable snapshot for checkout.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dinithim/storefront-checkout/internal/entities"
	"github.com/dinithim/storefront-checkout/internal/session"

	"github.com/shopspring/decimal"
)

// ProductResolver fetches live product data. Resolved stock may be stale
// relative to the true inventory; the orchestrator re-validates at order
// creation, so staleness here is tolerated.
type ProductResolver interface {
	Product(ctx context.Context, id string) (entities.Product, error)
}

// Stash persists lines across navigation. Failures are logged, never
// surfaced: the in-memory cart stays authoritative for the session.
type Stash interface {
	LoadCart(ctx context.Context, sessionID string) ([]session.Line, error)
	SaveCart(ctx context.Context, sessionID string, lines []session.Line) error
}

// AddOutcome tells the caller what AddItem did. StockExhausted is an
// expected condition the UI renders, not an error.
type AddOutcome int

const (
	Added AddOutcome = iota
	StockExhausted
)

type Store struct {
	logger    *slog.Logger
	sessionID string
	resolver  ProductResolver
	stash     Stash

	mu    sync.Mutex
	lines []session.Line
	subs  []func()
}

func NewStore(logger *slog.Logger, sessionID string, resolver ProductResolver, stash Stash) *Store {
	return &Store{
		logger:    logger.With(slog.String("component", "cart"), slog.String("session_id", sessionID)),
		sessionID: sessionID,
		resolver:  resolver,
		stash:     stash,
	}
}

// Restore loads lines persisted by a previous page view.
func (s *Store) Restore(ctx context.Context) error {
	lines, err := s.stash.LoadCart(ctx, s.sessionID)
	if err != nil {
		return fmt.Errorf("failed to restore cart: %w", err)
	}
	s.mu.Lock()
	s.lines = lines
	s.mu.Unlock()
	return nil
}

// Subscribe registers a callback fired after every mutation. The cart works
// with zero subscribers; notification is an add-on concern.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	s.mu.Unlock()
}

// AddItem puts one more unit of the product's resolved variant in the cart.
// The quantity never exceeds the variant's stock count: the add that would
// cross it reports StockExhausted and changes nothing.
func (s *Store) AddItem(ctx context.Context, product entities.Product, variantName string) (AddOutcome, error) {
	variant, err := product.ResolveVariant(variantName)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.find(product.ID, variant.Name); i >= 0 {
		if variant.Stock <= s.lines[i].Quantity {
			itemsExhausted.Inc()
			return StockExhausted, nil
		}
		s.lines[i].Quantity++
	} else {
		if variant.Stock <= 0 {
			itemsExhausted.Inc()
			return StockExhausted, nil
		}
		s.lines = append(s.lines, session.Line{
			ProductID: product.ID,
			Variant:   variant.Name,
			Quantity:  1,
		})
	}

	itemsAdded.Inc()
	s.persist(ctx)
	s.notify()
	return Added, nil
}

// RemoveItem deletes every line for the product. Removing an absent product
// is a no-op.
func (s *Store) RemoveItem(ctx context.Context, productID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.lines[:0]
	removed := false
	for _, l := range s.lines {
		if l.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	s.lines = kept

	if removed {
		s.persist(ctx)
		s.notify()
	}
}

// SetQuantity models the shopper typing a quantity: zero or less deletes the
// line, anything above the variant's stock is clamped silently.
func (s *Store) SetQuantity(ctx context.Context, productID, variantName string, quantity int) error {
	product, err := s.resolver.Product(ctx, productID)
	if err != nil {
		return err
	}
	variant, err := product.ResolveVariant(variantName)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.find(productID, variant.Name)

	if quantity <= 0 {
		if i < 0 {
			return nil
		}
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
		s.persist(ctx)
		s.notify()
		return nil
	}

	if quantity > variant.Stock {
		quantity = variant.Stock
	}
	if quantity == 0 {
		// clamped all the way down: out of stock
		if i >= 0 {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.persist(ctx)
			s.notify()
		}
		return nil
	}

	if i >= 0 {
		s.lines[i].Quantity = quantity
	} else {
		s.lines = append(s.lines, session.Line{ProductID: productID, Variant: variant.Name, Quantity: quantity})
	}
	s.persist(ctx)
	s.notify()
	return nil
}

// Clear empties the cart. Called after a successful payment confirmation or
// an explicit clear.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.lines) == 0 {
		return
	}
	s.lines = nil
	s.persist(ctx)
	s.notify()
}

// Lines returns a copy of the raw lines for display.
func (s *Store) Lines() []session.Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]session.Line, len(s.lines))
	copy(out, s.lines)
	return out
}

func (s *Store) TotalQuantity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, l := range s.lines {
		total += l.Quantity
	}
	return total
}

// TotalPrice sums unitPrice * quantity across lines with decimal arithmetic;
// no floating-point drift regardless of cart size.
func (s *Store) TotalPrice(ctx context.Context) (decimal.Decimal, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return snap.Total, nil
}

// Snapshot resolves each line's live product and variant data and freezes
// the result. Later cart mutations do not touch a taken snapshot. Lines
// whose product has disappeared from the catalog are dropped with a warning.
func (s *Store) Snapshot(ctx context.Context) (entities.CartSnapshot, error) {
	s.mu.Lock()
	lines := make([]session.Line, len(s.lines))
	copy(lines, s.lines)
	s.mu.Unlock()

	resolved := make([]entities.SnapshotLine, 0, len(lines))
	for _, l := range lines {
		product, err := s.resolver.Product(ctx, l.ProductID)
		if errors.Is(err, entities.ErrProductNotFound) {
			s.logger.Warn("dropping vanished product from snapshot", slog.String("product_id", l.ProductID))
			continue
		}
		if err != nil {
			return entities.CartSnapshot{}, fmt.Errorf("failed to resolve product %s: %w", l.ProductID, err)
		}
		variant, err := product.ResolveVariant(l.Variant)
		if err != nil {
			s.logger.Warn("dropping line with vanished variant",
				slog.String("product_id", l.ProductID), slog.String("variant", l.Variant))
			continue
		}
		resolved = append(resolved, entities.SnapshotLine{
			Product:  product,
			Variant:  variant,
			Quantity: l.Quantity,
		})
	}

	return entities.NewCartSnapshot(resolved), nil
}

// find returns the index of the (product, variant) line, or -1. Callers hold
// the mutex.
func (s *Store) find(productID, variant string) int {
	for i, l := range s.lines {
		if l.ProductID == productID && l.Variant == variant {
			return i
		}
	}
	return -1
}

func (s *Store) persist(ctx context.Context) {
	lines := make([]session.Line, len(s.lines))
	copy(lines, s.lines)
	if err := s.stash.SaveCart(ctx, s.sessionID, lines); err != nil {
		s.logger.Error("failed to persist cart", slog.Any("error", err))
	}
}

// notify runs under the store lock; subscribers must not call back into the
// store.
func (s *Store) notify() {
	for _, fn := range s.subs {
		fn()
	}
}
