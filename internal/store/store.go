package store

import "context"

// Stores bundles the store set handed to a use case. When produced by a
// TxRunner every store in the bundle is bound to the same transaction.
type Stores struct {
	Documents DocumentStore
	Roles     RoleStore
	Spaces    SpaceStore
}

// TxRunner executes a use case inside one relational transaction. A non-nil
// error from fn rolls back every write made through the supplied bundle; no
// partial state is visible afterwards.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, s Stores) error) error
}
