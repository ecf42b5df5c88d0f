package blob_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/bugpen/bugpen/internal/blob"
	"github.com/stretchr/testify/require"
)

func TestFSStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := blob.NewFSStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "key1", strings.NewReader("hello")))

	rc, err := store.Get(ctx, "key1")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
}

func TestFSStore_Overwrite(t *testing.T) {
	ctx := context.Background()
	store, err := blob.NewFSStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "key1", strings.NewReader("first")))
	require.NoError(t, store.Put(ctx, "key1", strings.NewReader("second")))

	rc, err := store.Get(ctx, "key1")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "second", string(data))
}

func TestFSStore_GetMissing(t *testing.T) {
	store, err := blob.NewFSStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "missing")
	require.ErrorIs(t, err, blob.ErrNotFound)
}

func TestFSStore_Delete(t *testing.T) {
	ctx := context.Background()
	store, err := blob.NewFSStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "key1", strings.NewReader("bye")))
	require.NoError(t, store.Delete(ctx, "key1"))

	_, err = store.Get(ctx, "key1")
	require.ErrorIs(t, err, blob.ErrNotFound)

	require.ErrorIs(t, store.Delete(ctx, "key1"), blob.ErrNotFound)
}

func TestFSStore_KeySanitized(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := blob.NewFSStore(dir)
	require.NoError(t, err)

	// Path separators in a key must not escape the root.
	require.NoError(t, store.Put(ctx, "../escape", strings.NewReader("contained")))

	rc, err := store.Get(ctx, "escape")
	require.NoError(t, err)
	rc.Close()
}
