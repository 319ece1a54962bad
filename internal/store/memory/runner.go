package memory

import (
	"context"
	"sync"

	"github.com/mosaicdev/mosaic/internal/store"
)

// Runner implements store.TxRunner over the in-memory stores. Transactions
// are serialized with a mutex; rollback is implemented by snapshotting every
// store before the use case runs and restoring on error. Good enough for
// tests; not a real MVCC.
type Runner struct {
	mu sync.Mutex

	docs   *DocumentStore
	roles  *RoleStore
	spaces *SpaceStore

	stores store.Stores
}

// NewRunner creates a transaction runner over the given stores.
func NewRunner(docs *DocumentStore, roles *RoleStore, spaces *SpaceStore) *Runner {
	return &Runner{
		docs:   docs,
		roles:  roles,
		spaces: spaces,
		stores: store.Stores{
			Documents: docs,
			Roles:     roles,
			Spaces:    spaces,
		},
	}
}

// WithStores overrides the bundle handed to use cases, while rollback still
// covers the underlying memory stores. Used by tests to inject failing
// collaborators.
func (r *Runner) WithStores(s store.Stores) *Runner {
	r.stores = s
	return r
}

// RunInTx runs fn with snapshot/restore semantics.
func (r *Runner) RunInTx(ctx context.Context, fn func(ctx context.Context, s store.Stores) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	docSnap := r.docs.snapshot()
	roleSnap := r.roles.snapshot()
	spaceSnap := r.spaces.snapshot()

	if err := fn(ctx, r.stores); err != nil {
		r.docs.restore(docSnap)
		r.roles.restore(roleSnap)
		r.spaces.restore(spaceSnap)
		return err
	}

	return nil
}
