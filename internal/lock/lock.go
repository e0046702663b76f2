// Package lock provides distributed named locks backed by redis. Locks guard
// the two non-idempotent platform operations (summary comment creation and
// automerge) against concurrent webhook deliveries across processes.
package lock

import (
	"context"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	goredislib "github.com/redis/go-redis/v9"

	"github.com/prbot/prbot/pkg/errors"
)

const (
	// blockingTimeout is how long Acquire waits for a contended lock before
	// giving up. Contention means another worker is doing the same work, so
	// waiting longer buys nothing.
	blockingTimeout = 100 * time.Millisecond

	// lockExpiry bounds how long a crashed holder can wedge a name
	lockExpiry = 30 * time.Second
)

// Client acquires named locks. Release is returned per-acquisition so a lock
// cannot be released by a non-holder.
type Client interface {
	// Acquire takes the named lock, waiting at most the short blocking
	// timeout. Returns ErrCodeLock when the lock is held elsewhere.
	Acquire(ctx context.Context, name string) (func() error, error)

	// Ping checks connectivity to the lock service
	Ping(ctx context.Context) error
}

// redisClient implements Client with redsync over go-redis
type redisClient struct {
	client  *goredislib.Client
	redsync *redsync.Redsync
}

// NewClient connects to the redis instance at url (redis:// form)
func NewClient(url string) (Client, error) {
	opts, err := goredislib.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigInvalid, "invalid lock service URL", err)
	}
	client := goredislib.NewClient(opts)
	pool := goredis.NewPool(client)
	return &redisClient{
		client:  client,
		redsync: redsync.New(pool),
	}, nil
}

func (c *redisClient) Acquire(ctx context.Context, name string) (func() error, error) {
	mutex := c.redsync.NewMutex(name,
		redsync.WithExpiry(lockExpiry),
		redsync.WithTries(1),
	)

	acquireCtx, cancel := context.WithTimeout(ctx, blockingTimeout)
	defer cancel()

	if err := mutex.LockContext(acquireCtx); err != nil {
		return nil, errors.Wrap(errors.ErrCodeLock, "could not acquire lock "+name, err)
	}

	release := func() error {
		_, err := mutex.UnlockContext(ctx)
		return err
	}
	return release, nil
}

func (c *redisClient) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
