// Package ceremony runs award ceremonies: the lobby lifecycle, the roster of
// friends and awards, the vote ledger and the views derived from them. Every
// committed write publishes a fresh lobby view.
package ceremony

import (
	"Awardly/logging"
	"Awardly/models"
	"Awardly/models/postgres"
	"Awardly/services/blob"
	"Awardly/services/presentation"
	"Awardly/services/pubsub"
	"Awardly/services/store"
	"context"

	"github.com/sirupsen/logrus"
)

// Policy holds deployment switches
type Policy struct {
	// PublicFriendJoin lets participants without an account add themselves
	// as friends while the lobby is not presenting
	PublicFriendJoin bool
}

type Service struct {
	store   store.Repository
	blobs   blob.Store
	views   pubsub.Broadcaster[LobbyView]
	cursors presentation.CursorStore
	policy  Policy
}

type Option func(*Service)

// WithBroadcaster publishes lobby views after writes
func WithBroadcaster(b pubsub.Broadcaster[LobbyView]) Option {
	return func(s *Service) { s.views = b }
}

// WithCursorStore keeps review positions somewhere shared, memory by default
func WithCursorStore(c presentation.CursorStore) Option {
	return func(s *Service) { s.cursors = c }
}

func WithPolicy(p Policy) Option {
	return func(s *Service) { s.policy = p }
}

func NewService(repo store.Repository, blobs blob.Store, opts ...Option) *Service {
	s := &Service{
		store:   repo,
		blobs:   blobs,
		cursors: presentation.NewMemoryCursorStore(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// requireOwner loads the lobby and checks principal created it
func requireOwner(ctx context.Context, repo store.Repository, principal string, lobbyID models.LobbyID) (*postgres.Lobby, error) {
	if principal == "" {
		return nil, ErrNotAuthenticated
	}
	lobby, err := repo.GetLobby(ctx, lobbyID)
	if err != nil {
		return nil, fromStore(err, "lobby")
	}
	if !lobby.IsOwnedBy(principal) {
		return nil, ErrNotAuthorized
	}
	return lobby, nil
}

// lockOwned is requireOwner holding the lobby row for the transaction
func lockOwned(ctx context.Context, tx store.Repository, principal string, lobbyID models.LobbyID) (*postgres.Lobby, error) {
	if principal == "" {
		return nil, ErrNotAuthenticated
	}
	lobby, err := tx.LockLobby(ctx, lobbyID)
	if err != nil {
		return nil, fromStore(err, "lobby")
	}
	if !lobby.IsOwnedBy(principal) {
		return nil, ErrNotAuthorized
	}
	return lobby, nil
}

func lobbyLog(lobbyID models.LobbyID) *logrus.Entry {
	return logging.Log.WithField("lobby_id", lobbyID)
}
