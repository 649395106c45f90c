package store

import (
	"Awardly/models"
	"Awardly/models/postgres"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedLobby(t *testing.T, s *MemoryStore, code string) *postgres.Lobby {
	t.Helper()
	lobby := &postgres.Lobby{Name: "Party", ShareCode: code, OwnerPrincipal: "host"}
	require.NoError(t, s.CreateLobby(context.Background(), lobby))
	return lobby
}

func TestMemoryShareCodeIsUnique(t *testing.T) {
	s := NewMemoryStore()
	seedLobby(t, s, "AAAAAA")

	err := s.CreateLobby(context.Background(), &postgres.Lobby{ShareCode: "AAAAAA"})
	assert.ErrorIs(t, err, ErrDuplicate)

	taken, err := s.ShareCodeExists(context.Background(), "AAAAAA")
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestMemoryUpsertVoteKeepsOneRow(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	lobby := seedLobby(t, s, "AAAAAA")

	first, err := s.UpsertVote(ctx, &postgres.Vote{LobbyID: lobby.ID, AwardID: "a", NomineeID: "x", VoterIdentity: "ana"})
	require.NoError(t, err)
	second, err := s.UpsertVote(ctx, &postgres.Vote{LobbyID: lobby.ID, AwardID: "a", NomineeID: "y", VoterIdentity: "ana"})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	votes, err := s.ListVotes(ctx, lobby.ID)
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, models.FriendID("y"), votes[0].NomineeID)
}

func TestMemoryTransactionRestoresSnapshot(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	lobby := seedLobby(t, s, "AAAAAA")
	boom := errors.New("boom")

	err := s.Transaction(ctx, func(tx Repository) error {
		require.NoError(t, tx.CreateFriend(ctx, &postgres.Friend{LobbyID: lobby.ID, Name: "Ana"}))
		_, err := tx.ToggleVoting(ctx, lobby.ID)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	friends, err := s.ListFriends(ctx, lobby.ID)
	require.NoError(t, err)
	assert.Empty(t, friends)
	got, err := s.GetLobby(ctx, lobby.ID)
	require.NoError(t, err)
	assert.False(t, got.VotingOpen)
}

func TestMemoryDeleteLobbyCascades(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	lobby := seedLobby(t, s, "AAAAAA")
	other := seedLobby(t, s, "BBBBBB")

	friend := &postgres.Friend{LobbyID: lobby.ID, Name: "Ana"}
	require.NoError(t, s.CreateFriend(ctx, friend))
	require.NoError(t, s.CreateAwards(ctx, []postgres.Award{{LobbyID: lobby.ID, Question: "Best"}, {LobbyID: other.ID, Question: "Kept"}}))
	_, err := s.UpsertVote(ctx, &postgres.Vote{LobbyID: lobby.ID, AwardID: "a", NomineeID: friend.ID, VoterIdentity: "bob"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteLobby(ctx, lobby.ID))

	awards, _ := s.ListAwards(ctx, lobby.ID)
	assert.Empty(t, awards)
	friends, _ := s.ListFriends(ctx, lobby.ID)
	assert.Empty(t, friends)
	votes, _ := s.ListVotes(ctx, lobby.ID)
	assert.Empty(t, votes)
	kept, _ := s.ListAwards(ctx, other.ID)
	assert.Len(t, kept, 1)

	assert.ErrorIs(t, s.DeleteLobby(ctx, lobby.ID), ErrNotFound)
}

func TestMemoryListsKeepCreationOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	lobby := seedLobby(t, s, "AAAAAA")
	for _, name := range []string{"Ana", "Bob", "Cai", "Dee"} {
		require.NoError(t, s.CreateFriend(ctx, &postgres.Friend{LobbyID: lobby.ID, Name: name}))
	}
	friends, err := s.ListFriends(ctx, lobby.ID)
	require.NoError(t, err)
	require.Len(t, friends, 4)
	assert.Equal(t, "Ana", friends[0].Name)
	assert.Equal(t, "Dee", friends[3].Name)

	newer := seedLobby(t, s, "CCCCCC")
	lobbies, err := s.ListLobbiesByOwner(ctx, "host")
	require.NoError(t, err)
	require.Len(t, lobbies, 2)
	assert.Equal(t, newer.ID, lobbies[0].ID)
}

func TestMemoryConcurrentToggle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	lobby := seedLobby(t, s, "AAAAAA")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.ToggleVoting(ctx, lobby.ID)
		}()
	}
	wg.Wait()

	// an even number of flips brings it back
	got, err := s.GetLobby(ctx, lobby.ID)
	require.NoError(t, err)
	assert.False(t, got.VotingOpen)
}
