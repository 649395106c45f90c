package handlers

import (
	"Awardly/logging"
	socketio_types "Awardly/services/socket_io/types"

	"github.com/zishang520/socket.io/v2/socket"
)

// Function to handle socket.io client disconnections.
func HandleDisconnecting(client *socket.Socket, sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		left := sio.RemoveConnection(client.Id())
		for _, lobbyID := range left {
			client.Leave(socket.Room(lobbyID))
		}
		logging.Log.WithField("socket_id", client.Id()).
			WithField("lobbies", len(left)).
			Debug("socket disconnected")
	}
}
