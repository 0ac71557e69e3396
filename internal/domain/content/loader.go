package content

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/webtop-os/webtop/internal/infrastructure/logging"
	"github.com/webtop-os/webtop/internal/infrastructure/monitoring"
	"github.com/webtop-os/webtop/internal/shared/types"
)

// Source locates a lazily loaded payload outside the store. Exactly one
// of Path or URL is set.
type Source struct {
	Bucket types.Bucket
	Name   string
	Path   string // local file, typically under the assets dir
	URL    string // remote location
}

// Loader fills store misses from registered sources. Bundled assets are
// registered at bootstrap but nothing is read or fetched until a miss
// needs it, so startup stays fast and the store only holds touched files.
//
// Concurrent misses for the same uuid share a single load through
// singleflight; callers re-check the store after a shared flight instead
// of trusting the flight's outcome.
type Loader struct {
	store   *Store
	fetcher *Fetcher
	base    string // optional shared re-fetch base, "" disables

	mu      sync.RWMutex
	sources map[string]Source

	flight  singleflight.Group
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewLoader creates a loader over store, fetching remote sources via fetcher
func NewLoader(store *Store, fetcher *Fetcher, sharedBase string, log *logging.Logger) *Loader {
	return &Loader{
		store:   store,
		fetcher: fetcher,
		base:    strings.TrimSuffix(sharedBase, "/"),
		sources: make(map[string]Source),
		log:     log.Component("loader"),
	}
}

// WithMetrics adds metrics tracking to the loader
func (l *Loader) WithMetrics(metrics *monitoring.Metrics) *Loader {
	l.metrics = metrics
	return l
}

// Register maps uuid to a source for lazy loading
func (l *Loader) Register(uuid string, src Source) {
	l.mu.Lock()
	l.sources[uuid] = src
	l.mu.Unlock()
}

// Lookup returns the registered source for uuid
func (l *Loader) Lookup(uuid string) (Source, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	src, ok := l.sources[uuid]
	return src, ok
}

// SourceCount returns the number of registered sources
func (l *Loader) SourceCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.sources)
}

// EnsureLoaded returns the entry for uuid, loading it from its source on a
// store miss. At most one load per uuid runs at a time; every caller reads
// the store again after the flight completes.
func (l *Loader) EnsureLoaded(ctx context.Context, bucket types.Bucket, uuid string) (types.Entry, bool, error) {
	entry, ok, err := l.store.Get(ctx, bucket, uuid)
	if err != nil || ok {
		return entry, ok, err
	}

	v, err, shared := l.flight.Do(uuid, func() (interface{}, error) {
		// A flight that finished between our miss and this callback may
		// have stored the entry already; check before loading.
		ok, err := l.store.Exists(ctx, bucket, uuid)
		if err != nil {
			return nil, err
		}
		if ok {
			return bucket, nil
		}
		return l.load(ctx, bucket, uuid)
	})
	if shared && l.metrics != nil {
		l.metrics.IncFetchCoalesced()
	}
	if err != nil {
		return types.Entry{}, false, err
	}

	// Re-read after the flight; the entry is visible iff a load stored it.
	// The flight reports which bucket it landed in: a registered source may
	// pin a different bucket than the caller assumed.
	stored, _ := v.(types.Bucket)
	if stored == "" {
		stored = bucket
	}
	return l.store.Get(ctx, stored, uuid)
}

// load resolves uuid to a source and stores its payload, returning the
// bucket that now holds it
func (l *Loader) load(ctx context.Context, bucket types.Bucket, uuid string) (types.Bucket, error) {
	src, ok := l.Lookup(uuid)
	if !ok {
		if l.base == "" {
			l.recordFetch("none", "miss")
			return "", fmt.Errorf("no source registered for %s", uuid)
		}
		// Last resort: shared content served by uuid.
		src = Source{Bucket: bucket, Name: uuid, URL: l.base + "/" + uuid}
	}

	var (
		data []byte
		err  error
		kind string
	)
	switch {
	case src.Path != "":
		kind = "local"
		data, err = os.ReadFile(src.Path)
	case src.URL != "":
		kind = "remote"
		data, err = l.fetcher.Fetch(ctx, src.URL)
	default:
		return "", fmt.Errorf("source for %s has no path or url", uuid)
	}
	if err != nil {
		l.recordFetch(kind, "error")
		l.log.Warn("lazy load failed",
			zap.String("uuid", uuid),
			zap.String("source", kind),
			zap.Error(err))
		return "", fmt.Errorf("load %s: %w", uuid, err)
	}

	name := src.Name
	if name == "" {
		name = uuid
	}
	target := src.Bucket
	if target == "" {
		target = bucket
	}

	if err := l.store.Put(ctx, target, uuid, types.Entry{Name: name, Content: data}); err != nil {
		l.recordFetch(kind, "error")
		return "", err
	}

	l.recordFetch(kind, "success")
	l.log.Info("lazy loaded content",
		zap.String("uuid", uuid),
		zap.String("bucket", string(target)),
		zap.String("source", kind),
		zap.Int("size", len(data)))
	return target, nil
}

func (l *Loader) recordFetch(source, status string) {
	if l.metrics != nil {
		l.metrics.RecordContentFetch(source, status)
	}
}
