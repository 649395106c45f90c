package redis

import (
	"Awardly/models"
	redis_models "Awardly/models/redis"
	redis_utils "Awardly/services/redis/utils"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultCursorTTL = 24 * time.Hour

// RedisClient handles Redis operations
type RedisClient struct {
	client *redis.Client
	ctx    context.Context
	// how long a review cursor survives without being touched
	CursorTTL time.Duration
}

// NewRedisClient accepts either a redis:// URL or a bare host:port
func NewRedisClient(url string) (*RedisClient, error) {
	var opt *redis.Options
	if strings.Contains(url, "://") {
		parsed, err := redis.ParseURL(url)
		if err != nil {
			return nil, fmt.Errorf("error parsing Redis URL: %v", err)
		}
		opt = parsed
	} else {
		opt = &redis.Options{Addr: url}
	}
	return &RedisClient{
		client:    redis.NewClient(opt),
		ctx:       context.Background(),
		CursorTTL: DefaultCursorTTL,
	}, nil
}

// Client exposes the underlying client for pub/sub
func (rc *RedisClient) Client() *redis.Client {
	return rc.client
}

// GetCursor reads the review position of a viewer
// Key format: "lobby:{id}:viewer:{viewer}:slide"
func (rc *RedisClient) GetCursor(ctx context.Context, lobbyID models.LobbyID, viewerID string) (int, bool, error) {
	key := redis_utils.FormatReviewCursorKey(lobbyID.String(), viewerID)
	data, err := rc.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("error getting review cursor: %v", err)
	}

	var cursor redis_models.ReviewCursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return 0, false, fmt.Errorf("error unmarshaling review cursor: %v", err)
	}
	return cursor.Slide, true, nil
}

// SetCursor stores the review position of a viewer, refreshing its TTL
func (rc *RedisClient) SetCursor(ctx context.Context, lobbyID models.LobbyID, viewerID string, slide int) error {
	key := redis_utils.FormatReviewCursorKey(lobbyID.String(), viewerID)
	data, err := json.Marshal(redis_models.ReviewCursor{
		LobbyID:   lobbyID.String(),
		ViewerID:  viewerID,
		Slide:     slide,
		UpdatedAt: time.Now(),
	})
	if err != nil {
		return fmt.Errorf("error marshaling review cursor: %v", err)
	}
	return rc.client.Set(ctx, key, data, rc.CursorTTL).Err()
}

// ForgetLobby drops every review cursor of a lobby
func (rc *RedisClient) ForgetLobby(ctx context.Context, lobbyID models.LobbyID) error {
	pattern := redis_utils.FormatReviewCursorPattern(lobbyID.String())
	var keys []string
	iter := rc.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("error scanning review cursors: %v", err)
	}
	return rc.CleanupKeys(ctx, keys)
}
