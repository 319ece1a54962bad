package memory

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mosaicdev/mosaic/internal/store"
)

func TestRunner_RunInTx(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		docs := NewDocumentStore()
		runner := NewRunner(docs, NewRoleStore(), NewSpaceStore())
		ctx := context.Background()

		err := runner.RunInTx(ctx, func(ctx context.Context, s store.Stores) error {
			return s.Documents.Save(ctx, "/k", json.RawMessage(`"v"`))
		})
		require.NoError(t, err)

		_, err = docs.Get(ctx, "/k")
		require.NoError(t, err)
	})

	t.Run("rolls back every store on error", func(t *testing.T) {
		docs := NewDocumentStore()
		roles := NewRoleStore()
		runner := NewRunner(docs, roles, NewSpaceStore())
		ctx := context.Background()

		boom := errors.New("boom")
		err := runner.RunInTx(ctx, func(ctx context.Context, s store.Stores) error {
			if err := s.Documents.Save(ctx, "/k", json.RawMessage(`"v"`)); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		_, err = docs.Get(ctx, "/k")
		require.ErrorIs(t, err, store.ErrDocumentNotFound)
	})

	t.Run("rollback keeps pre-transaction state", func(t *testing.T) {
		docs := NewDocumentStore()
		runner := NewRunner(docs, NewRoleStore(), NewSpaceStore())
		ctx := context.Background()

		require.NoError(t, docs.Save(ctx, "/k", json.RawMessage(`"before"`)))

		boom := errors.New("boom")
		err := runner.RunInTx(ctx, func(ctx context.Context, s store.Stores) error {
			if err := s.Documents.Save(ctx, "/k", json.RawMessage(`"during"`)); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		doc, err := docs.Get(ctx, "/k")
		require.NoError(t, err)
		require.Equal(t, int64(1), doc.Version)
		require.JSONEq(t, `"before"`, string(doc.Value))
	})
}
