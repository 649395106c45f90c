package pubsub

import (
	"Awardly/logging"
	"Awardly/models"
	redis_models "Awardly/models/redis"
	redis_utils "Awardly/services/redis/utils"
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisRelay shares published views with every other instance through a
// Redis channel. Local subscribers are served directly, messages coming back
// from this same instance are ignored.
type RedisRelay[T Snapshot] struct {
	client *redis.Client
	local  *Hub[T]
	origin string
}

func NewRedisRelay[T Snapshot](client *redis.Client, local *Hub[T]) *RedisRelay[T] {
	return &RedisRelay[T]{client: client, local: local, origin: uuid.NewString()}
}

func (r *RedisRelay[T]) Publish(ctx context.Context, lobbyID models.LobbyID, view T) error {
	_ = r.local.Publish(ctx, lobbyID, view)

	raw, err := json.Marshal(view)
	if err != nil {
		return fmt.Errorf("error marshaling lobby view: %v", err)
	}
	msg, err := json.Marshal(redis_models.ViewMessage{LobbyID: lobbyID.String(), Origin: r.origin, View: raw})
	if err != nil {
		return fmt.Errorf("error marshaling relay message: %v", err)
	}
	return r.client.Publish(ctx, redis_utils.LobbyViewsChannel, msg).Err()
}

// Run forwards views published by other instances until ctx is cancelled
func (r *RedisRelay[T]) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, redis_utils.LobbyViewsChannel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("error subscribing to %s: %v", redis_utils.LobbyViewsChannel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			r.deliver(ctx, m.Payload)
		}
	}
}

func (r *RedisRelay[T]) deliver(ctx context.Context, payload string) {
	var msg redis_models.ViewMessage
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		logging.Log.WithError(err).Warn("dropping malformed relay message")
		return
	}
	if msg.Origin == r.origin {
		return
	}
	var view T
	if err := json.Unmarshal(msg.View, &view); err != nil {
		logging.Log.WithFields(logrus.Fields{"lobby_id": msg.LobbyID}).WithError(err).Warn("dropping undecodable lobby view")
		return
	}
	_ = r.local.Publish(ctx, models.LobbyID(msg.LobbyID), view)
}

var _ Broadcaster[Snapshot] = (*RedisRelay[Snapshot])(nil)
