// Package content provides bucketed payload storage for desktop files.
//
// File bytes live apart from filesystem metadata, keyed by the owning
// item's uuid and partitioned into logical buckets (documents, images,
// trash, applets, custom-wallpapers). Metadata operations never touch
// payloads; trashing a file moves its payload between buckets while the
// uuid stays fixed.
//
// Components:
//   - Backend: redis connection, embedded miniredis by default
//   - Store: per-bucket hashes with zstd compression and an LRU read cache
//   - Loader: lazy loading of registered sources with request coalescing
//   - Fetcher: remote fetch with retries, rate limit, and circuit breaker
//   - Scanner: bundled asset discovery and source registration
//
// Loading Process:
//  1. Read the store; a hit returns immediately
//  2. Miss: join the per-uuid flight (one load runs at a time)
//  3. The flight re-checks the store, then loads from disk or network
//  4. Every caller re-reads the store after the flight completes
//
// Example Usage:
//
//	backend, err := content.NewBackend(cfg.Redis, logger)
//	store, err := content.NewStore(backend, cfg.Content, logger)
//	entry, ok, err := store.Get(ctx, types.BucketDocuments, uuid)
package content
