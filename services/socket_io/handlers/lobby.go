package handlers

import (
	"Awardly/logging"
	"Awardly/models"
	"Awardly/services/ceremony"
	"Awardly/services/pubsub"
	socketio_types "Awardly/services/socket_io/types"
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// Views is where lobby views arrive inside this process
type Views interface {
	Subscribe(lobbyID models.LobbyID) *pubsub.Subscription[ceremony.LobbyView]
}

// LobbyArg reads the lobby id of an event, sent either as a bare string or
// as {"lobby_id": "..."}
func LobbyArg(args []interface{}) (models.LobbyID, bool) {
	if len(args) < 1 {
		return "", false
	}
	switch v := args[0].(type) {
	case string:
		return models.LobbyID(v), v != ""
	case map[string]interface{}:
		id, ok := v["lobby_id"].(string)
		return models.LobbyID(id), ok && id != ""
	}
	return "", false
}

// HandleSubscribeLobby starts pushing `lobby_view` events of a lobby to the
// client. The first view is the current snapshot, then one full view per
// change. Subscribing twice to the same lobby re-sends the snapshot.
func HandleSubscribeLobby(svc *ceremony.Service, views Views, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		lobbyID, ok := LobbyArg(args)
		if !ok {
			client.Emit("error", gin.H{"error": "Missing lobby id"})
			return
		}
		log := logging.Log.WithField("socket_id", client.Id()).WithField("lobby_id", lobbyID)

		snapshot, err := svc.BuildLobbyView(context.Background(), lobbyID)
		if err != nil {
			log.WithError(err).Debug("subscribe rejected")
			if errors.Is(err, ceremony.ErrNotFound) {
				client.Emit("error", gin.H{"error": "Lobby not found"})
			} else {
				client.Emit("error", gin.H{"error": "Could not load lobby"})
			}
			return
		}

		ctx, stop := context.WithCancel(context.Background())
		if !sio.AddSubscription(client.Id(), lobbyID, stop) {
			stop()
			client.Emit("lobby_view", snapshot)
			return
		}

		sub := views.Subscribe(lobbyID)
		// a view built after Subscribe wins over the snapshot taken before it
		fresh, err := svc.BuildLobbyView(ctx, lobbyID)
		if err != nil {
			fresh = snapshot
		}
		sub.Seed(fresh)

		client.Join(socket.Room(lobbyID))
		emit := func(view ceremony.LobbyView) { client.Emit("lobby_view", view) }
		release := func() {
			if sio.RemoveSubscription(client.Id(), lobbyID) {
				client.Leave(socket.Room(lobbyID))
			}
		}
		go pumpViews(ctx, sub, emit, release)
		log.Info("socket subscribed to lobby")
	}
}

// HandleUnsubscribeLobby stops the views of one lobby
func HandleUnsubscribeLobby(client *socket.Socket, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		lobbyID, ok := LobbyArg(args)
		if !ok {
			client.Emit("error", gin.H{"error": "Missing lobby id"})
			return
		}
		if sio.RemoveSubscription(client.Id(), lobbyID) {
			client.Leave(socket.Room(lobbyID))
		}
		client.Emit("unsubscribed_lobby", gin.H{"lobby_id": lobbyID})
	}
}

// pumpViews hands every view to emit until the subscription ends. A deleted
// lobby ends it for good and release frees the socket's slot.
func pumpViews(ctx context.Context, sub *pubsub.Subscription[ceremony.LobbyView],
	emit func(ceremony.LobbyView), release func()) {
	defer sub.Close()
	for {
		view, err := sub.Next(ctx)
		if err != nil {
			return
		}
		emit(view)
		if view.Deleted {
			release()
			return
		}
	}
}
