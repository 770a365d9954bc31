// Package session holds the state that must outlive a single page view:
// the cart lines and the in-flight order handle, both keyed by browsing
// session.
package session

import "context"

// Line is one persisted cart line. Exactly one line exists per
// (product, variant) pair; quantity is always positive.
type Line struct {
	ProductID string
	Variant   string
	Quantity  int
}

// Store persists per-session cart lines, the saved-for-later product ids,
// and the single-slot in-flight order handle. The handle's presence is the
// sole signal that the payment step is resumable.
type Store interface {
	LoadCart(ctx context.Context, sessionID string) ([]Line, error)
	SaveCart(ctx context.Context, sessionID string, lines []Line) error

	LoadSaved(ctx context.Context, sessionID string) ([]string, error)
	SaveSaved(ctx context.Context, sessionID string, productIDs []string) error

	SetOrderID(ctx context.Context, sessionID, orderID string) error
	OrderID(ctx context.Context, sessionID string) (string, bool, error)
	ClearOrderID(ctx context.Context, sessionID string) error
}
