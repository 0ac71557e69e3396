package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webtop-os/webtop/internal/infrastructure/logging"
	"github.com/webtop-os/webtop/internal/shared/types"
)

func newTestLoader(t *testing.T, sharedBase string) (*Loader, *Store) {
	t.Helper()

	store := newTestStore(t)
	fetcher := NewFetcher(testContentConfig())
	loader := NewLoader(store, fetcher, sharedBase, logging.NewNop())
	return loader, store
}

// TestLoaderStoreHit tests that a stored entry short-circuits loading
func TestLoaderStoreHit(t *testing.T) {
	loader, store := newTestLoader(t, "")
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, types.BucketDocuments, "uuid-1",
		types.Entry{Name: "a.txt", Content: []byte("stored")}))

	entry, ok, err := loader.EnsureLoaded(ctx, types.BucketDocuments, "uuid-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("stored"), entry.Content)
}

// TestLoaderLocalSource tests lazy loading from a local file
func TestLoaderLocalSource(t *testing.T) {
	loader, _ := newTestLoader(t, "")
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "wallpaper.png")
	require.NoError(t, os.WriteFile(path, []byte("pixels"), 0o644))

	loader.Register("uuid-1", Source{
		Bucket: types.BucketWallpapers,
		Name:   "wallpaper.png",
		Path:   path,
	})

	entry, ok, err := loader.EnsureLoaded(ctx, types.BucketWallpapers, "uuid-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "wallpaper.png", entry.Name)
	assert.Equal(t, []byte("pixels"), entry.Content)

	// The payload is now persisted; deleting the source file does not
	// affect subsequent reads.
	require.NoError(t, os.Remove(path))
	entry, ok, err = loader.EnsureLoaded(ctx, types.BucketWallpapers, "uuid-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("pixels"), entry.Content)
}

// TestLoaderRemoteSource tests lazy loading over HTTP
func TestLoaderRemoteSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("remote bytes"))
	}))
	defer srv.Close()

	loader, _ := newTestLoader(t, "")
	ctx := context.Background()

	loader.Register("uuid-1", Source{
		Bucket: types.BucketDocuments,
		Name:   "remote.txt",
		URL:    srv.URL + "/remote.txt",
	})

	entry, ok, err := loader.EnsureLoaded(ctx, types.BucketDocuments, "uuid-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("remote bytes"), entry.Content)
}

// TestLoaderUnknownSource tests the miss path with no shared base
func TestLoaderUnknownSource(t *testing.T) {
	loader, _ := newTestLoader(t, "")

	_, ok, err := loader.EnsureLoaded(context.Background(), types.BucketDocuments, "mystery")
	assert.Error(t, err)
	assert.False(t, ok)
}

// TestLoaderSharedBaseFallback tests uuid re-fetch from the shared base
func TestLoaderSharedBaseFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/shared-uuid" {
			w.Write([]byte("shared"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	loader, _ := newTestLoader(t, srv.URL)

	entry, ok, err := loader.EnsureLoaded(context.Background(), types.BucketDocuments, "shared-uuid")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("shared"), entry.Content)
}

// TestLoaderBucketPinning tests that a source's bucket wins over the
// caller's guess
func TestLoaderBucketPinning(t *testing.T) {
	loader, store := newTestLoader(t, "")
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "dunes.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpg"), 0o644))

	loader.Register("uuid-1", Source{
		Bucket: types.BucketWallpapers,
		Name:   "dunes.jpg",
		Path:   path,
	})

	// Caller assumes images because the item type is an image tag.
	entry, ok, err := loader.EnsureLoaded(ctx, types.BucketImages, "uuid-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("jpg"), entry.Content)

	ok, err = store.Exists(ctx, types.BucketWallpapers, "uuid-1")
	require.NoError(t, err)
	assert.True(t, ok, "payload should live in the source's bucket")
}

// TestLoaderCoalescing tests that concurrent misses share one fetch
func TestLoaderCoalescing(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte("slow payload"))
	}))
	defer srv.Close()

	loader, _ := newTestLoader(t, "")
	loader.Register("uuid-1", Source{
		Bucket: types.BucketDocuments,
		Name:   "slow.txt",
		URL:    srv.URL + "/slow.txt",
	})

	const callers = 8
	var wg sync.WaitGroup
	errs := make([]error, callers)
	entries := make([]types.Entry, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry, ok, err := loader.EnsureLoaded(context.Background(), types.BucketDocuments, "uuid-1")
			if err == nil && !ok {
				err = os.ErrNotExist
			}
			entries[i] = entry
			errs[i] = err
		}(i)
	}
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, []byte("slow payload"), entries[i].Content)
	}
	assert.Equal(t, int32(1), hits.Load(), "concurrent misses should share one fetch")
}

// TestScannerScan tests asset discovery and registration
func TestScannerScan(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "wallpapers"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wallpapers", "dunes.jpg"), []byte("jpg"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o644))

	loader, _ := newTestLoader(t, "")
	scanner := NewScanner(dir, loader, logging.NewNop())

	assets, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 2)

	wallpapers := scanner.Wallpapers()
	require.Len(t, wallpapers, 1)
	assert.Equal(t, "dunes.jpg", wallpapers[0].Name)
	assert.Equal(t, types.BucketWallpapers, wallpapers[0].Bucket)

	// Registered sources resolve through the loader.
	entry, ok, err := loader.EnsureLoaded(context.Background(), types.BucketWallpapers, wallpapers[0].UUID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("jpg"), entry.Content)
}

// TestScannerMissingDir tests that a missing assets dir is not fatal
func TestScannerMissingDir(t *testing.T) {
	loader, _ := newTestLoader(t, "")
	scanner := NewScanner(filepath.Join(t.TempDir(), "nope"), loader, logging.NewNop())

	assets, err := scanner.Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, assets)
}

// TestAssetUUIDStable tests that asset uuids are deterministic
func TestAssetUUIDStable(t *testing.T) {
	a := AssetUUID("wallpapers/dunes.jpg")
	b := AssetUUID("wallpapers/dunes.jpg")
	c := AssetUUID("wallpapers/ocean.jpg")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}
