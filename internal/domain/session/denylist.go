// internal/domain/session/denylist.go
package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked:"

type RedisDenylist struct {
	redis *redis.Client
}

func NewDenylist(rdb *redis.Client) Denylist {
	return &RedisDenylist{redis: rdb}
}

func (d *RedisDenylist) Revoke(ctx context.Context, id string, ttl time.Duration) error {
	return d.redis.Set(ctx, revokedKeyPrefix+id, "1", ttl).Err()
}

func (d *RedisDenylist) IsRevoked(ctx context.Context, id string) (bool, error) {
	_, err := d.redis.Get(ctx, revokedKeyPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
