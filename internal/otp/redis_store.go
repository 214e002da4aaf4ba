package otp

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisPrefix = "otp:v1:"

// consumeScript deletes the key only when it still holds the expected digest.
var consumeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  redis.call("DEL", KEYS[1])
  return 1
end
return 0
`)

// RedisStore keeps codes in Redis with the key TTL set to the code's expiry.
type RedisStore struct {
	cache *redis.Client
}

func NewRedisStore(cache *redis.Client) *RedisStore {
	return &RedisStore{cache: cache}
}

func redisKey(beneficiaryID, purpose string) string {
	return redisPrefix + purpose + ":" + beneficiaryID
}

func (s *RedisStore) Save(ctx context.Context, code Code) error {
	ttl := time.Until(code.ExpiresAt)
	if ttl <= 0 {
		return s.cache.Del(ctx, redisKey(code.BeneficiaryID, code.Purpose)).Err()
	}
	return s.cache.Set(ctx, redisKey(code.BeneficiaryID, code.Purpose), code.Digest, ttl).Err()
}

func (s *RedisStore) Consume(ctx context.Context, beneficiaryID, purpose, digest string, _ time.Time) (bool, error) {
	n, err := consumeScript.Run(ctx, s.cache, []string{redisKey(beneficiaryID, purpose)}, digest).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
