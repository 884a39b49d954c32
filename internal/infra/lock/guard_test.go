package lock

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/TourGuide-AvailabilityService/pkg/logger"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "availability:inflight:g1:delete:a1", Key("g1", "delete", "a1"))
	assert.Equal(t, "availability:inflight:g1:create:-", Key("g1", "create", ""))
}

func TestLocalGuard(t *testing.T) {
	guard := NewLocalGuard()
	ctx := context.Background()

	release, err := guard.Acquire(ctx, "k1")
	require.NoError(t, err)

	_, err = guard.Acquire(ctx, "k1")
	assert.ErrorIs(t, err, ErrInFlight)

	// Другой ключ не блокируется
	releaseOther, err := guard.Acquire(ctx, "k2")
	require.NoError(t, err)
	releaseOther()

	release()
	release()

	again, err := guard.Acquire(ctx, "k1")
	require.NoError(t, err)
	again()
}

func TestRedisGuard_BackendUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	guard := NewRedisGuard(client, time.Second, logger.NewWithWriter(io.Discard, logger.LevelError))

	_, err := guard.Acquire(context.Background(), Key("g1", "create", ""))
	assert.ErrorIs(t, err, ErrBackend)
}
