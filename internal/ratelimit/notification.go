package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"

	"github.com/andeanlabs/izibridge/internal/config"
)

const (
	keyNotificationSource = "notify:source:%s"
	keyTransactionLock    = "notify:txn:%s"
)

// Only the token's owner may delete the lock key; an expired-and-reacquired
// lock must not be released by the previous holder.
const transactionUnlockScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// Limiter is the throttling surface the notification pipeline consumes.
// Implementations must be safe to call with redis absent: a disabled
// limiter allows every source and grants every lock.
type Limiter interface {
	Enabled() bool
	AllowSource(ctx context.Context, source string) (bool, error)
	TryLockTransaction(ctx context.Context, transactionID string) (token string, acquired bool, err error)
	ReleaseTransaction(ctx context.Context, transactionID string, token string) error
}

// NotificationLimiter throttles inbound payment notifications per source IP
// and holds a short-lived redis lock per transaction id while a notification
// is being reconciled. The lock keeps two simultaneous deliveries of the
// same transaction from racing through the create path.
type NotificationLimiter struct {
	enabled bool

	client *redis.Client
	bucket *TokenBucket
	unlock *redis.Script

	rate    float64
	burst   int
	lockTTL time.Duration
}

func NewNotificationLimiter(cfg config.Config) (Limiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return &NotificationLimiter{}, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.NotificationRate <= 0 || limitCfg.NotificationBurst <= 0 {
		return nil, errors.New("notification rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &NotificationLimiter{
		enabled: true,
		client:  client,
		bucket:  NewTokenBucket(client),
		unlock:  redis.NewScript(transactionUnlockScript),
		rate:    limitCfg.NotificationRate,
		burst:   limitCfg.NotificationBurst,
		lockTTL: time.Duration(limitCfg.LockTTLSeconds) * time.Second,
	}, nil
}

func (l *NotificationLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *NotificationLimiter) AllowSource(ctx context.Context, source string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyNotificationSource, strings.TrimSpace(source)), l.rate, l.burst)
}

// TryLockTransaction attempts a SetNX claim on the transaction. The token
// identifies the holder; a lock lost to TTL expiry cannot be released by a
// stale holder.
func (l *NotificationLimiter) TryLockTransaction(ctx context.Context, transactionID string) (string, bool, error) {
	transactionID = strings.TrimSpace(transactionID)
	if !l.Enabled() || transactionID == "" {
		return "", true, nil
	}

	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, fmt.Sprintf(keyTransactionLock, transactionID), token, l.lockTTL).Result()
	if err != nil {
		return "", false, err
	}
	return token, ok, nil
}

func (l *NotificationLimiter) ReleaseTransaction(ctx context.Context, transactionID string, token string) error {
	transactionID = strings.TrimSpace(transactionID)
	if !l.Enabled() || transactionID == "" || token == "" {
		return nil
	}
	return l.unlock.Run(ctx, l.client, []string{fmt.Sprintf(keyTransactionLock, transactionID)}, token).Err()
}
