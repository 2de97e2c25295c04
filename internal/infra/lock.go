package infra

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrLockOcupado is returned when another holder owns the key.
var ErrLockOcupado = errors.New("lock ocupado")

// Liberador releases a lock obtained from Locker.
type Liberador func(ctx context.Context) error

// Locker hands out short-lived distributed locks backed by redis.
type Locker struct {
	client *redislock.Client
}

func NewLocker(rdb *redis.Client) *Locker {
	return &Locker{client: redislock.New(rdb)}
}

// Obtener takes key for ttl without retrying. A held key yields ErrLockOcupado.
func (l *Locker) Obtener(ctx context.Context, key string, ttl time.Duration) (Liberador, error) {
	lock, err := l.client.Obtain(ctx, key, ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, ErrLockOcupado
	}
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) error {
		err := lock.Release(ctx)
		if errors.Is(err, redislock.ErrLockNotHeld) {
			return nil
		}
		return err
	}, nil
}
