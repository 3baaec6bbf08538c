package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	backend "github.com/redis/go-redis/v9"
)

// ErrClaimHeld is returned when another process already owns the claim.
var ErrClaimHeld = errors.New("router claimed by another process")

var (
	refreshScript = backend.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 0
`)
	releaseScript = backend.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)
)

// ReleaseFunc gives a claim back.
type ReleaseFunc func(ctx context.Context) error

// Locker guards a router ID so two processes never drive the same ports.
type Locker struct {
	client *backend.Client
	prefix string
}

// NewLocker creates a locker writing keys under prefix.
func NewLocker(client *backend.Client, prefix string) *Locker {
	return &Locker{
		client: client,
		prefix: prefix,
	}
}

func (l *Locker) key(name string) string {
	return l.prefix + "lock:" + name
}

// Claim takes name for ttl and keeps extending it until ctx ends or the
// claim is released. It fails fast with ErrClaimHeld when someone else owns it.
func (l *Locker) Claim(ctx context.Context, name string, ttl time.Duration) (ReleaseFunc, error) {
	key := l.key(name)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis error acquiring claim: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrClaimHeld, name)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(ttl / 3)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-ticker.C:
				// A failed refresh is retried on the next tick; the key outlives two misses.
				_ = refreshScript.Run(ctx, l.client, []string{key}, token, ttl.Milliseconds()).Err()
			}
		}
	}()

	var once sync.Once
	return func(ctx context.Context) error {
		var err error
		once.Do(func() {
			close(stop)
			<-done
			err = releaseScript.Run(ctx, l.client, []string{key}, token).Err()
		})
		return err
	}, nil
}
