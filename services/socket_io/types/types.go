package socketio_types

import (
	"Awardly/models"
	"context"
	"sync"

	"github.com/zishang520/socket.io/v2/socket"
)

// SocketServer is a struct that contains the socket.io server and the lobby
// subscriptions of every connected socket.
type SocketServer struct {
	Sio_server *socket.Server
	// socket id -> lobby id -> stops the view pump of that subscription
	subscriptions map[socket.SocketId]map[models.LobbyID]context.CancelFunc
	mutex         sync.RWMutex
}

func NewSocketServer() *SocketServer {
	return &SocketServer{
		subscriptions: make(map[socket.SocketId]map[models.LobbyID]context.CancelFunc),
	}
}

// AddSubscription registers stop for the pair. It returns false when the
// socket already watches the lobby, stop is then left to the caller.
func (s *SocketServer) AddSubscription(id socket.SocketId, lobbyID models.LobbyID, stop context.CancelFunc) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	lobbies, ok := s.subscriptions[id]
	if !ok {
		lobbies = make(map[models.LobbyID]context.CancelFunc)
		s.subscriptions[id] = lobbies
	}
	if _, exists := lobbies[lobbyID]; exists {
		return false
	}
	lobbies[lobbyID] = stop
	return true
}

// RemoveSubscription stops one subscription, reporting whether it existed
func (s *SocketServer) RemoveSubscription(id socket.SocketId, lobbyID models.LobbyID) bool {
	s.mutex.Lock()
	stop, ok := s.subscriptions[id][lobbyID]
	if ok {
		delete(s.subscriptions[id], lobbyID)
		if len(s.subscriptions[id]) == 0 {
			delete(s.subscriptions, id)
		}
	}
	s.mutex.Unlock()

	if ok {
		stop()
	}
	return ok
}

// RemoveConnection stops every subscription of a socket and returns the
// lobbies it was watching
func (s *SocketServer) RemoveConnection(id socket.SocketId) []models.LobbyID {
	s.mutex.Lock()
	lobbies := s.subscriptions[id]
	delete(s.subscriptions, id)
	s.mutex.Unlock()

	ids := make([]models.LobbyID, 0, len(lobbies))
	for lobbyID, stop := range lobbies {
		stop()
		ids = append(ids, lobbyID)
	}
	return ids
}

// Watching lists the lobbies a socket is subscribed to
func (s *SocketServer) Watching(id socket.SocketId) []models.LobbyID {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	ids := make([]models.LobbyID, 0, len(s.subscriptions[id]))
	for lobbyID := range s.subscriptions[id] {
		ids = append(ids, lobbyID)
	}
	return ids
}
