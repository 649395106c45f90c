package redis

import (
	redis_utils "Awardly/services/redis/utils"
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connectOrSkip(t *testing.T) *RedisClient {
	t.Helper()
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "localhost:6379"
	}
	rc, err := InitRedis(url)
	if err != nil {
		t.Skipf("Redis not reachable at %s: %v", url, err)
	}
	t.Cleanup(func() { CloseRedis(rc) })
	return rc
}

func TestReviewCursorRoundTrip(t *testing.T) {
	rc := connectOrSkip(t)
	rc.CursorTTL = time.Minute
	ctx := context.Background()
	lobby := "test-lobby-cursor"

	t.Cleanup(func() { rc.ForgetLobby(ctx, "test-lobby-cursor") })

	_, ok, err := rc.GetCursor(ctx, "test-lobby-cursor", "viewer-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, rc.SetCursor(ctx, "test-lobby-cursor", "viewer-1", 3))
	slide, ok, err := rc.GetCursor(ctx, "test-lobby-cursor", "viewer-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, slide)

	ttl, err := rc.client.TTL(ctx, redis_utils.FormatReviewCursorKey(lobby, "viewer-1")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, rc.ForgetLobby(ctx, "test-lobby-cursor"))
	_, ok, err = rc.GetCursor(ctx, "test-lobby-cursor", "viewer-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFormatKeys(t *testing.T) {
	assert.Equal(t, "lobby:abc:viewer:v1:slide", redis_utils.FormatReviewCursorKey("abc", "v1"))
	assert.Equal(t, "lobby:abc:viewer:*:slide", redis_utils.FormatReviewCursorPattern("abc"))
}

func TestNewRedisClientRejectsBadURL(t *testing.T) {
	_, err := NewRedisClient("redis://%zz")
	assert.Error(t, err)

	rc, err := NewRedisClient("localhost:6379")
	require.NoError(t, err)
	assert.Equal(t, DefaultCursorTTL, rc.CursorTTL)
}
