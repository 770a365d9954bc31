package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dinithim/storefront-checkout/pkg/trm"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// PostgresStore is the durable session store. Carts and handles survive a
// process restart, which is what lets an in-flight checkout resume after the
// shopper reloads the page.
type PostgresStore struct {
	db  *sqlx.DB
	txm trm.Manager
	qb  sq.StatementBuilderType
}

func NewPostgresStore(db *sqlx.DB, txm trm.Manager) *PostgresStore {
	return &PostgresStore{
		db:  db,
		txm: txm,
		qb:  sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

type lineRow struct {
	SessionID string `db:"session_id"`
	ProductID string `db:"product_id"`
	Variant   string `db:"variant_name"`
	Quantity  int    `db:"quantity"`
}

func (s *PostgresStore) LoadCart(ctx context.Context, sessionID string) ([]Line, error) {
	query, args := s.qb.Select("session_id", "product_id", "variant_name", "quantity").
		From("cart_lines").
		Where(sq.Eq{"session_id": sessionID}).
		OrderBy("added_at").
		MustSql()

	var rows []lineRow
	if err := s.selectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to load cart lines: %w", err)
	}

	lines := make([]Line, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, Line{ProductID: r.ProductID, Variant: r.Variant, Quantity: r.Quantity})
	}
	return lines, nil
}

// SaveCart replaces the whole cart in one transaction so a crash between
// delete and insert can never leave a half-written cart behind.
func (s *PostgresStore) SaveCart(ctx context.Context, sessionID string, lines []Line) error {
	return s.txm.Do(ctx, func(ctx context.Context) error {
		query, args := s.qb.Delete("cart_lines").
			Where(sq.Eq{"session_id": sessionID}).
			MustSql()
		if _, err := s.execContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to clear cart lines: %w", err)
		}

		if len(lines) == 0 {
			return nil
		}

		q := s.qb.Insert("cart_lines").
			Columns("session_id", "product_id", "variant_name", "quantity")
		for _, l := range lines {
			q = q.Values(sessionID, l.ProductID, l.Variant, l.Quantity)
		}
		query, args = q.MustSql()
		if _, err := s.execContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to save cart lines: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) LoadSaved(ctx context.Context, sessionID string) ([]string, error) {
	query, args := s.qb.Select("product_id").
		From("saved_items").
		Where(sq.Eq{"session_id": sessionID}).
		OrderBy("saved_at").
		MustSql()

	var ids []string
	if err := s.selectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("failed to load saved items: %w", err)
	}
	return ids, nil
}

func (s *PostgresStore) SaveSaved(ctx context.Context, sessionID string, productIDs []string) error {
	return s.txm.Do(ctx, func(ctx context.Context) error {
		query, args := s.qb.Delete("saved_items").
			Where(sq.Eq{"session_id": sessionID}).
			MustSql()
		if _, err := s.execContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to clear saved items: %w", err)
		}

		if len(productIDs) == 0 {
			return nil
		}

		q := s.qb.Insert("saved_items").
			Columns("session_id", "product_id")
		for _, id := range productIDs {
			q = q.Values(sessionID, id)
		}
		query, args = q.MustSql()
		if _, err := s.execContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to save saved items: %w", err)
		}
		return nil
	})
}

func (s *PostgresStore) SetOrderID(ctx context.Context, sessionID, orderID string) error {
	query, args := s.qb.Insert("checkout_handles").
		Columns("session_id", "order_id").
		Values(sessionID, orderID).
		Suffix("ON CONFLICT (session_id) DO UPDATE SET order_id = EXCLUDED.order_id").
		MustSql()

	if _, err := s.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to set order handle: %w", err)
	}
	return nil
}

func (s *PostgresStore) OrderID(ctx context.Context, sessionID string) (string, bool, error) {
	query, args := s.qb.Select("order_id").
		From("checkout_handles").
		Where(sq.Eq{"session_id": sessionID}).
		MustSql()

	var orderID string
	err := s.getContext(ctx, &orderID, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get order handle: %w", err)
	}
	return orderID, true, nil
}

func (s *PostgresStore) ClearOrderID(ctx context.Context, sessionID string) error {
	query, args := s.qb.Delete("checkout_handles").
		Where(sq.Eq{"session_id": sessionID}).
		MustSql()

	if _, err := s.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to clear order handle: %w", err)
	}
	return nil
}

func (s *PostgresStore) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.ExecContext(ctx, query, args...)
	}
	return s.db.ExecContext(ctx, query, args...)
}

func (s *PostgresStore) getContext(ctx context.Context, dest any, query string, args ...any) error {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.GetContext(ctx, dest, query, args...)
	}
	return s.db.GetContext(ctx, dest, query, args...)
}

func (s *PostgresStore) selectContext(ctx context.Context, dest any, query string, args ...any) error {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.SelectContext(ctx, dest, query, args...)
	}
	return s.db.SelectContext(ctx, dest, query, args...)
}
