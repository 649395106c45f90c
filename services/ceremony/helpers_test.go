package ceremony

import (
	"Awardly/logging"
	"Awardly/models"
	"Awardly/models/postgres"
	"Awardly/services/blob"
	"Awardly/services/pubsub"
	"Awardly/services/store"
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const host = "host@example.com"

type fixture struct {
	svc   *Service
	repo  *store.MemoryStore
	blobs *blob.MemoryStore
	hub   *pubsub.Hub[LobbyView]
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	logging.Log = logrus.New()
	logging.Log.SetOutput(io.Discard)

	f := &fixture{
		repo:  store.NewMemoryStore(),
		blobs: blob.NewMemoryStore("http://blobs.test"),
		hub:   pubsub.NewHub[LobbyView](),
	}
	opts = append([]Option{WithBroadcaster(f.hub)}, opts...)
	f.svc = NewService(f.repo, f.blobs, opts...)
	return f
}

func (f *fixture) lobby(t *testing.T) *postgres.Lobby {
	t.Helper()
	lobby, err := f.svc.CreateLobby(context.Background(), host, "Office awards")
	require.NoError(t, err)
	return lobby
}

func (f *fixture) friend(t *testing.T, lobbyID models.LobbyID, name string) *postgres.Friend {
	t.Helper()
	friend, err := f.svc.AddFriend(context.Background(), host, lobbyID, name, "")
	require.NoError(t, err)
	return friend
}

func (f *fixture) award(t *testing.T, lobbyID models.LobbyID, question string) *postgres.Award {
	t.Helper()
	award, err := f.svc.AddAward(context.Background(), host, lobbyID, question)
	require.NoError(t, err)
	return award
}

func (f *fixture) openVoting(t *testing.T, lobbyID models.LobbyID) {
	t.Helper()
	open, err := f.svc.ToggleVoting(context.Background(), host, lobbyID)
	require.NoError(t, err)
	require.True(t, open)
}
