package snapshot_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"

	"go.appointy.com/sdlkit/snapshot"
)

func TestFixtureStoreMemory(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewFixtureStore(memblob.OpenBucket(nil))
	defer store.Close()

	// Built-in fixtures are served before the bucket is seeded.
	text, err := store.Get(ctx, snapshot.FixtureFederated)
	require.NoError(t, err)
	require.Equal(t, snapshot.FederatedSchema, text)

	_, err = store.Get(ctx, "custom")
	require.Error(t, err)

	require.NoError(t, store.Put(ctx, "custom", "\n  type Query { a: Int }  \n"))
	text, err = store.Get(ctx, "custom")
	require.NoError(t, err)
	require.Equal(t, "type Query { a: Int }\n", text)

	require.NoError(t, store.Seed(ctx))
	names, err := store.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"custom", "default", "federated"}, names)

	resolve := store.Resolver()
	text, err = resolve(ctx, snapshot.FixtureDefault)
	require.NoError(t, err)
	require.Equal(t, snapshot.DefaultSchema+"\n", text)
}

func TestFixtureStoreSeedKeepsExisting(t *testing.T) {
	ctx := context.Background()
	store := snapshot.NewFixtureStore(memblob.OpenBucket(nil))
	defer store.Close()

	require.NoError(t, store.Put(ctx, snapshot.FixtureDefault, "schema { query: Query }"))
	require.NoError(t, store.Seed(ctx))

	text, err := store.Get(ctx, snapshot.FixtureDefault)
	require.NoError(t, err)
	require.Equal(t, "schema { query: Query }\n", text)
}

func TestFixtureStoreFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	store, err := snapshot.OpenFixtureStore(ctx, "file://"+filepath.ToSlash(dir))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Put(ctx, "nightly", snapshot.DefaultSchema))
	b, err := os.ReadFile(filepath.Join(dir, "nightly.graphql"))
	require.NoError(t, err)
	require.Equal(t, snapshot.DefaultSchema+"\n", string(b))
}
