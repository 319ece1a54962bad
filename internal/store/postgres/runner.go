package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mosaicdev/mosaic/internal/store"
)

// Runner implements store.TxRunner over a pgx connection pool. Each use case
// gets a store bundle bound to one transaction; an error from the use case
// rolls the whole transaction back.
type Runner struct {
	pool *pgxpool.Pool
}

// NewRunner creates a transaction runner over the given pool.
func NewRunner(pool *pgxpool.Pool) *Runner {
	return &Runner{pool: pool}
}

// RunInTx runs fn inside a single transaction.
func (r *Runner) RunInTx(ctx context.Context, fn func(ctx context.Context, s store.Stores) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback is safe to call after commit

	stores := store.Stores{
		Documents: NewDocumentStore(tx),
		Roles:     NewRoleStore(tx),
		Spaces:    NewSpaceStore(tx),
	}

	if err := fn(ctx, stores); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
