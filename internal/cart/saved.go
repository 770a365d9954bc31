package cart

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// SavedStash persists the saved-for-later ids, same contract as the cart
// stash: failures are logged, never surfaced.
type SavedStash interface {
	LoadSaved(ctx context.Context, sessionID string) ([]string, error)
	SaveSaved(ctx context.Context, sessionID string, productIDs []string) error
}

// SavedList holds the products a shopper set aside for later. Entries are
// bare product ids: a saved item carries no quantity or variant and is
// re-resolved against the catalog when rendered.
type SavedList struct {
	logger    *slog.Logger
	sessionID string
	stash     SavedStash

	mu  sync.Mutex
	ids []string
}

func NewSavedList(logger *slog.Logger, sessionID string, stash SavedStash) *SavedList {
	return &SavedList{
		logger:    logger.With(slog.String("component", "saved_items"), slog.String("session_id", sessionID)),
		sessionID: sessionID,
		stash:     stash,
	}
}

func (s *SavedList) Restore(ctx context.Context) error {
	ids, err := s.stash.LoadSaved(ctx, s.sessionID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.ids = ids
	s.mu.Unlock()
	return nil
}

// Toggle flips the saved state of a product and reports whether it is saved
// afterwards. Insertion order is preserved; re-saving appends at the end.
func (s *SavedList) Toggle(ctx context.Context, productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := slices.Index(s.ids, productID); i >= 0 {
		s.ids = append(s.ids[:i], s.ids[i+1:]...)
		s.persist(ctx)
		return false
	}
	s.ids = append(s.ids, productID)
	s.persist(ctx)
	return true
}

func (s *SavedList) Saved(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.ids, productID)
}

func (s *SavedList) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *SavedList) persist(ctx context.Context) {
	ids := make([]string, len(s.ids))
	copy(ids, s.ids)
	if err := s.stash.SaveSaved(ctx, s.sessionID, ids); err != nil {
		s.logger.Error("failed to persist saved items", slog.Any("error", err))
	}
}
