package memory

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mosaicdev/mosaic/internal/store"
)

func TestDocumentStore_Save(t *testing.T) {
	t.Run("first save writes version 1", func(t *testing.T) {
		st := NewDocumentStore()
		ctx := context.Background()

		err := st.Save(ctx, "/global/v1/org-1", json.RawMessage(`{"a":1}`))
		require.NoError(t, err)

		doc, err := st.Get(ctx, "/global/v1/org-1")
		require.NoError(t, err)
		require.Equal(t, int64(1), doc.Version)
		require.JSONEq(t, `{"a":1}`, string(doc.Value))
	})

	t.Run("repeated saves increment the version", func(t *testing.T) {
		st := NewDocumentStore()
		ctx := context.Background()

		require.NoError(t, st.Save(ctx, "/global/v1/org-1", json.RawMessage(`{"a":1}`)))
		require.NoError(t, st.Save(ctx, "/global/v1/org-1", json.RawMessage(`{"a":2}`)))
		require.NoError(t, st.Save(ctx, "/global/v1/org-1", json.RawMessage(`{"a":3}`)))

		doc, err := st.Get(ctx, "/global/v1/org-1")
		require.NoError(t, err)
		require.Equal(t, int64(3), doc.Version)
		require.JSONEq(t, `{"a":3}`, string(doc.Value))
	})
}

func TestDocumentStore_Get(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		st := NewDocumentStore()

		_, err := st.Get(context.Background(), "/global/v1/nope")
		require.ErrorIs(t, err, store.ErrDocumentNotFound)
	})

	t.Run("returned document is a copy", func(t *testing.T) {
		st := NewDocumentStore()
		ctx := context.Background()

		require.NoError(t, st.Save(ctx, "/global/v1/org-1", json.RawMessage(`{"a":1}`)))

		doc, err := st.Get(ctx, "/global/v1/org-1")
		require.NoError(t, err)
		doc.Version = 99

		again, err := st.Get(ctx, "/global/v1/org-1")
		require.NoError(t, err)
		require.Equal(t, int64(1), again.Version)
	})
}

func TestDocumentStore_GetPrefixed(t *testing.T) {
	st := NewDocumentStore()
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, "/template/v1/org-1/t1", json.RawMessage(`{"t":1}`)))
	require.NoError(t, st.Save(ctx, "/template/v1/org-1/t2", json.RawMessage(`{"t":2}`)))
	require.NoError(t, st.Save(ctx, "/template/v1/org-1/t2", json.RawMessage(`{"t":22}`)))
	require.NoError(t, st.Save(ctx, "/template/v1/org-2/t3", json.RawMessage(`{"t":3}`)))

	t.Run("matches only the prefix, highest versions first", func(t *testing.T) {
		docs, err := st.GetPrefixed(ctx, "/template/v1/org-1")
		require.NoError(t, err)
		require.Len(t, docs, 2)
		require.Equal(t, "/template/v1/org-1/t2", docs[0].Key)
		require.Equal(t, int64(2), docs[0].Version)
		require.Equal(t, "/template/v1/org-1/t1", docs[1].Key)
	})

	t.Run("no matches returns empty", func(t *testing.T) {
		docs, err := st.GetPrefixed(ctx, "/template/v1/org-3")
		require.NoError(t, err)
		require.Empty(t, docs)
	})
}
