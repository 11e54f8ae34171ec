// Package synclock holds a short redis lease per user so two overlapping
// reconciliation sweeps skip each other instead of double-fetching. The
// external-id upsert stays safe without it; the lock only saves quota.
package synclock

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

type Locker struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(rdb *redis.Client, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Locker{rdb: rdb, ttl: ttl}
}

// Acquire takes the per-user sweep lease. When ok is false another sweep
// holds it and the caller should skip this user. The returned release
// function only deletes the key if this holder still owns it.
func (l *Locker) Acquire(ctx context.Context, userID string) (release func(), ok bool, err error) {
	if l == nil || l.rdb == nil {
		// no redis configured: run unlocked, the upsert is still idempotent
		return func() {}, true, nil
	}

	key := "sync:sweep:" + userID
	holder := uuid.NewString()

	ok, err = l.rdb.SetNX(ctx, key, holder, l.ttl).Result()
	if err != nil || !ok {
		return func() {}, false, err
	}

	release = func() {
		// best effort, compare-and-delete
		const script = `
            if redis.call("GET", KEYS[1]) == ARGV[1] then
                return redis.call("DEL", KEYS[1])
            end
            return 0
        `
		l.rdb.Eval(context.Background(), script, []string{key}, holder)
	}
	return release, true, nil
}
