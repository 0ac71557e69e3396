package content

import (
	"fmt"

	"github.com/webtop-os/webtop/internal/shared/types"
)

var (
	bucketHash = "content:%s" // bucket
)

var keys = &redisKeys{}

type redisKeys struct{}

// Bucket returns the hash key holding one bucket. Fields are file uuids.
func (rk *redisKeys) Bucket(b types.Bucket) string {
	return fmt.Sprintf(bucketHash, b)
}

// AllBuckets returns the hash keys for every bucket.
func (rk *redisKeys) AllBuckets() []string {
	buckets := types.AllBuckets()
	out := make([]string, len(buckets))
	for i, b := range buckets {
		out[i] = rk.Bucket(b)
	}
	return out
}
