package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

const (
	redisKeyNamespace = "yatube_page"
	redisScanCount    = 100
)

type RedisKeyParser struct {
	delimiter string
}

func (r RedisKeyParser) ValidateKey(key string) bool {
	return !strings.Contains(key, r.delimiter)
}

// EncodePageKey namespaces a page key so Invalidate can find every page this
// cache wrote and nothing else.
func (r RedisKeyParser) EncodePageKey(key string) (string, error) {
	if !r.ValidateKey(key) {
		return "", fmt.Errorf("invalid page key: %s", key)
	}
	return fmt.Sprintf("%s%s%s", redisKeyNamespace, r.delimiter, key), nil
}

func (r RedisKeyParser) DecodePageKey(redisKey string) (string, error) {
	splits := strings.Split(redisKey, r.delimiter)
	if len(splits) != 2 || splits[0] != redisKeyNamespace {
		return "", fmt.Errorf("invalid key: %s", redisKey)
	}
	return splits[1], nil
}

func (r RedisKeyParser) pattern() string {
	return redisKeyNamespace + r.delimiter + "*"
}

// RedisPageCache shares cached pages between every web server process
// connected to the same redis. Expiry is delegated to redis.
type RedisPageCache struct {
	inner     *redis.Client
	ttl       time.Duration
	keyParser RedisKeyParser
}

func NewRedisPageCache(client *redis.Client, ttl time.Duration) *RedisPageCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisPageCache{
		inner:     client,
		ttl:       ttl,
		keyParser: RedisKeyParser{delimiter: "__"},
	}
}

func (r *RedisPageCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	redisKey, err := r.keyParser.EncodePageKey(key)
	if err != nil {
		return nil, false, err
	}
	body, err := r.inner.Get(ctx, redisKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "redis get %s", redisKey)
	}
	return body, true, nil
}

func (r *RedisPageCache) Set(ctx context.Context, key string, body []byte) error {
	redisKey, err := r.keyParser.EncodePageKey(key)
	if err != nil {
		return err
	}
	return errors.Wrapf(r.inner.Set(ctx, redisKey, body, r.ttl).Err(), "redis set %s", redisKey)
}

func (r *RedisPageCache) Invalidate(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := r.inner.Scan(ctx, cursor, r.keyParser.pattern(), redisScanCount).Result()
		if err != nil {
			return errors.Wrap(err, "redis scan page keys")
		}
		if len(keys) > 0 {
			if err := r.inner.Del(ctx, keys...).Err(); err != nil {
				return errors.Wrap(err, "redis delete page keys")
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
