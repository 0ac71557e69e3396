package content

import (
	"context"
	"fmt"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/webtop-os/webtop/internal/infrastructure/config"
	"github.com/webtop-os/webtop/internal/infrastructure/logging"
	"github.com/webtop-os/webtop/internal/infrastructure/monitoring"
	"github.com/webtop-os/webtop/internal/shared/types"
)

// Store persists file payloads in one redis hash per bucket, keyed by the
// owning item's uuid. The uuid never changes across rename, move, trash,
// or restore, so payloads survive every metadata operation.
//
// A read-through LRU fronts the backend for small entries. Writes go to
// redis first and invalidate the cache, so a failed write never leaves a
// stale cached copy behind.
type Store struct {
	rdb      *redis.Client
	codec    *codec
	cache    *expirable.LRU[string, types.Entry]
	cacheMax int
	log      *logging.Logger
	metrics  *monitoring.Metrics
}

// NewStore creates a content store over the given backend
func NewStore(backend *Backend, cfg config.ContentConfig, log *logging.Logger) (*Store, error) {
	c, err := newCodec(cfg.CompressMin)
	if err != nil {
		return nil, err
	}

	return &Store{
		rdb:      backend.Client,
		codec:    c,
		cache:    expirable.NewLRU[string, types.Entry](cfg.CacheEntries, nil, cfg.CacheTTL),
		cacheMax: cfg.CacheMaxBytes,
		log:      log.Component("content"),
	}, nil
}

// WithMetrics adds metrics tracking to the store
func (s *Store) WithMetrics(metrics *monitoring.Metrics) *Store {
	s.metrics = metrics
	return s
}

func cacheKey(bucket types.Bucket, uuid string) string {
	return string(bucket) + ":" + uuid
}

// Put stores an entry under (bucket, uuid), replacing any previous value.
// Errors are returned to the caller; a failed write must stay visible.
func (s *Store) Put(ctx context.Context, bucket types.Bucket, uuid string, entry types.Entry) error {
	if !bucket.Valid() {
		return fmt.Errorf("unknown bucket %q", bucket)
	}
	if uuid == "" {
		return fmt.Errorf("empty uuid")
	}

	data, err := s.codec.encode(entry)
	if err != nil {
		s.record(bucket, "put", "error")
		return fmt.Errorf("encode %s/%s: %w", bucket, uuid, err)
	}

	if err := s.rdb.HSet(ctx, keys.Bucket(bucket), uuid, data).Err(); err != nil {
		s.record(bucket, "put", "error")
		return fmt.Errorf("put %s/%s: %w", bucket, uuid, err)
	}

	s.cache.Remove(cacheKey(bucket, uuid))
	s.record(bucket, "put", "success")
	return nil
}

// Get retrieves the entry under (bucket, uuid). The second return is false
// on a clean miss; errors indicate a backend or decode failure.
func (s *Store) Get(ctx context.Context, bucket types.Bucket, uuid string) (types.Entry, bool, error) {
	ck := cacheKey(bucket, uuid)
	if entry, ok := s.cache.Get(ck); ok {
		s.cacheHit(true)
		return entry, true, nil
	}
	s.cacheHit(false)

	data, err := s.rdb.HGet(ctx, keys.Bucket(bucket), uuid).Bytes()
	if err == redis.Nil {
		return types.Entry{}, false, nil
	}
	if err != nil {
		s.record(bucket, "get", "error")
		return types.Entry{}, false, fmt.Errorf("get %s/%s: %w", bucket, uuid, err)
	}

	entry, err := s.codec.decode(data)
	if err != nil {
		s.record(bucket, "get", "error")
		return types.Entry{}, false, fmt.Errorf("get %s/%s: %w", bucket, uuid, err)
	}

	if s.cacheMax <= 0 || len(entry.Content) <= s.cacheMax {
		s.cache.Add(ck, entry)
	}
	s.record(bucket, "get", "success")
	return entry, true, nil
}

// Exists reports whether (bucket, uuid) holds an entry
func (s *Store) Exists(ctx context.Context, bucket types.Bucket, uuid string) (bool, error) {
	if _, ok := s.cache.Get(cacheKey(bucket, uuid)); ok {
		return true, nil
	}

	ok, err := s.rdb.HExists(ctx, keys.Bucket(bucket), uuid).Result()
	if err != nil {
		return false, fmt.Errorf("exists %s/%s: %w", bucket, uuid, err)
	}
	return ok, nil
}

// Delete removes the entry under (bucket, uuid). Deleting a missing entry
// is not an error.
func (s *Store) Delete(ctx context.Context, bucket types.Bucket, uuid string) error {
	if err := s.rdb.HDel(ctx, keys.Bucket(bucket), uuid).Err(); err != nil {
		s.record(bucket, "delete", "error")
		return fmt.Errorf("delete %s/%s: %w", bucket, uuid, err)
	}

	s.cache.Remove(cacheKey(bucket, uuid))
	s.record(bucket, "delete", "success")
	return nil
}

// Rename updates the display name kept alongside the content
func (s *Store) Rename(ctx context.Context, bucket types.Bucket, uuid, name string) error {
	entry, ok, err := s.Get(ctx, bucket, uuid)
	if err != nil {
		return err
	}
	if !ok {
		return nil // nothing stored for this uuid, nothing to rename
	}

	entry.Name = name
	return s.Put(ctx, bucket, uuid, entry)
}

// GetAll returns every entry in a bucket keyed by uuid. Entries that fail
// to decode are skipped with a warning rather than failing the whole read.
func (s *Store) GetAll(ctx context.Context, bucket types.Bucket) (map[string]types.Entry, error) {
	rows, err := s.rdb.HGetAll(ctx, keys.Bucket(bucket)).Result()
	if err != nil {
		s.record(bucket, "get_all", "error")
		return nil, fmt.Errorf("get all %s: %w", bucket, err)
	}

	out := make(map[string]types.Entry, len(rows))
	for uuid, raw := range rows {
		entry, err := s.codec.decode([]byte(raw))
		if err != nil {
			s.log.Warn("skipping undecodable entry",
				zap.String("bucket", string(bucket)),
				zap.String("uuid", uuid),
				zap.Error(err))
			continue
		}
		out[uuid] = entry
	}

	s.record(bucket, "get_all", "success")
	return out, nil
}

// Move relocates an entry across buckets. The copy lands in the
// destination before the source is deleted, so an interruption duplicates
// the payload instead of losing it. Moving a uuid with no stored content
// is a no-op: directories and never-saved files have no payload.
func (s *Store) Move(ctx context.Context, from, to types.Bucket, uuid string) error {
	if from == to {
		return nil
	}
	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("unknown bucket in move %q -> %q", from, to)
	}

	data, err := s.rdb.HGet(ctx, keys.Bucket(from), uuid).Bytes()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		s.record(from, "move", "error")
		return fmt.Errorf("move read %s/%s: %w", from, uuid, err)
	}

	if err := s.rdb.HSet(ctx, keys.Bucket(to), uuid, data).Err(); err != nil {
		s.record(from, "move", "error")
		return fmt.Errorf("move write %s/%s: %w", to, uuid, err)
	}
	if err := s.rdb.HDel(ctx, keys.Bucket(from), uuid).Err(); err != nil {
		s.record(from, "move", "error")
		return fmt.Errorf("move cleanup %s/%s: %w", from, uuid, err)
	}

	s.cache.Remove(cacheKey(from, uuid))
	s.cache.Remove(cacheKey(to, uuid))
	s.record(from, "move", "success")
	return nil
}

// Clear drops every entry in a bucket
func (s *Store) Clear(ctx context.Context, bucket types.Bucket) error {
	if err := s.rdb.Del(ctx, keys.Bucket(bucket)).Err(); err != nil {
		s.record(bucket, "clear", "error")
		return fmt.Errorf("clear %s: %w", bucket, err)
	}

	s.cache.Purge()
	s.record(bucket, "clear", "success")
	return nil
}

// ClearAll drops every bucket
func (s *Store) ClearAll(ctx context.Context) error {
	if err := s.rdb.Del(ctx, keys.AllBuckets()...).Err(); err != nil {
		return fmt.Errorf("clear all buckets: %w", err)
	}
	s.cache.Purge()
	return nil
}

// Count returns the number of entries in a bucket
func (s *Store) Count(ctx context.Context, bucket types.Bucket) (int, error) {
	n, err := s.rdb.HLen(ctx, keys.Bucket(bucket)).Result()
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", bucket, err)
	}
	return int(n), nil
}

// Stats returns per-bucket entry counts
func (s *Store) Stats(ctx context.Context) (types.ContentStats, error) {
	stats := types.ContentStats{Buckets: make(map[types.Bucket]int)}
	for _, bucket := range types.AllBuckets() {
		n, err := s.Count(ctx, bucket)
		if err != nil {
			return types.ContentStats{}, err
		}
		stats.Buckets[bucket] = n
		stats.Total += n
	}
	return stats, nil
}

func (s *Store) record(bucket types.Bucket, op, status string) {
	if s.metrics != nil {
		s.metrics.RecordContentOp(string(bucket), op, status)
	}
}

func (s *Store) cacheHit(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheHit(hit)
	}
}
