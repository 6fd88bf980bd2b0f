package events

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

const dedupKeyPrefix = "events:dedup:"

// Deduper decides whether an event key is being emitted for the first time.
// A local go-cache layer answers repeats within this process; Redis SETNX
// arbitrates across processes. With Redis unavailable the answer degrades to
// the local layer only, which may allow a duplicate; consumers dedup on the
// session id carried in the payload.
type Deduper struct {
	local *cache.Cache
	rdb   *redis.Client
	ttl   time.Duration
}

func NewDeduper(rdb *redis.Client, ttl time.Duration) *Deduper {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Deduper{
		local: cache.New(ttl, 10*time.Minute),
		rdb:   rdb,
		ttl:   ttl,
	}
}

// FirstEmit reports whether key has not been emitted yet, and records it.
func (d *Deduper) FirstEmit(ctx context.Context, key string) bool {
	if _, found := d.local.Get(key); found {
		return false
	}

	if d.rdb != nil {
		ok, err := d.rdb.SetNX(ctx, dedupKeyPrefix+key, 1, d.ttl).Result()
		if err == nil && !ok {
			// Another process already emitted; remember locally too.
			d.local.SetDefault(key, struct{}{})
			return false
		}
	}

	d.local.SetDefault(key, struct{}{})
	return true
}
