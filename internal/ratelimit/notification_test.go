package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andeanlabs/izibridge/internal/config"
)

func TestNewNotificationLimiterDisabled(t *testing.T) {
	ctx := context.Background()

	limiter, err := NewNotificationLimiter(config.Config{})
	require.NoError(t, err)
	require.NotNil(t, limiter)
	assert.False(t, limiter.Enabled())

	// A disabled limiter allows everything and grants every lock.
	allowed, err := limiter.AllowSource(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, allowed)

	token, acquired, err := limiter.TryLockTransaction(ctx, "txn-1")
	require.NoError(t, err)
	assert.True(t, acquired)
	assert.Empty(t, token)

	require.NoError(t, limiter.ReleaseTransaction(ctx, "txn-1", "tok"))
}

func TestNewNotificationLimiterValidation(t *testing.T) {
	_, err := NewNotificationLimiter(config.Config{
		RateLimit: config.RateLimitConfig{Enabled: true},
	})
	assert.Error(t, err)

	_, err = NewNotificationLimiter(config.Config{
		RateLimit: config.RateLimitConfig{
			Enabled:           true,
			RedisAddr:         "localhost:6379",
			NotificationRate:  0,
			NotificationBurst: 20,
		},
	})
	assert.Error(t, err)

	_, err = NewNotificationLimiter(config.Config{
		RateLimit: config.RateLimitConfig{
			Enabled:           true,
			RedisAddr:         "localhost:6379",
			NotificationRate:  5,
			NotificationBurst: 0,
		},
	})
	assert.Error(t, err)
}

func TestNewNotificationLimiterConfigured(t *testing.T) {
	limiter, err := NewNotificationLimiter(config.Config{
		RateLimit: config.RateLimitConfig{
			Enabled:           true,
			RedisAddr:         "localhost:6379",
			NotificationRate:  5,
			NotificationBurst: 20,
			LockTTLSeconds:    30,
		},
	})
	require.NoError(t, err)
	assert.True(t, limiter.Enabled())

	// An empty transaction id grants the lock without touching redis.
	_, acquired, err := limiter.TryLockTransaction(context.Background(), "   ")
	require.NoError(t, err)
	assert.True(t, acquired)

	require.NoError(t, limiter.ReleaseTransaction(context.Background(), "txn-1", ""))
}
