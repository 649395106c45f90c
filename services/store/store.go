// Package store persists lobbies, friends, awards and votes. Repository has a
// GORM implementation for PostgreSQL and an in-memory one.
package store

import (
	"Awardly/models"
	"Awardly/models/postgres"
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// LobbyPatch updates only the non-nil flags, all in one statement
type LobbyPatch struct {
	VotingOpen           *bool
	PresentationMode     *bool
	PresentationFinished *bool
	CurrentSlide         *int
}

func (p LobbyPatch) empty() bool {
	return p.VotingOpen == nil && p.PresentationMode == nil &&
		p.PresentationFinished == nil && p.CurrentSlide == nil
}

// Repository is the storage boundary. Single methods are atomic on their own,
// multi-step writes must go through Transaction.
type Repository interface {
	// Transaction runs fn against a repository bound to one transaction.
	// Any error returned by fn rolls everything back.
	Transaction(ctx context.Context, fn func(tx Repository) error) error

	// CreateLobby fails with ErrDuplicate when the share code is taken
	CreateLobby(ctx context.Context, lobby *postgres.Lobby) error
	ShareCodeExists(ctx context.Context, code string) (bool, error)
	GetLobby(ctx context.Context, id models.LobbyID) (*postgres.Lobby, error)
	// LockLobby reads the lobby and holds its row until the transaction ends
	LockLobby(ctx context.Context, id models.LobbyID) (*postgres.Lobby, error)
	GetLobbyByShareCode(ctx context.Context, code string) (*postgres.Lobby, error)
	ListLobbiesByOwner(ctx context.Context, owner string) ([]postgres.Lobby, error)
	// ToggleVoting flips voting_open in place and returns the new value
	ToggleVoting(ctx context.Context, id models.LobbyID) (bool, error)
	UpdateLobby(ctx context.Context, id models.LobbyID, patch LobbyPatch) error
	// DeleteLobby removes the lobby with its votes, awards and friends
	DeleteLobby(ctx context.Context, id models.LobbyID) error

	CreateFriend(ctx context.Context, friend *postgres.Friend) error
	GetFriend(ctx context.Context, id models.FriendID) (*postgres.Friend, error)
	// ListFriends returns friends in creation order
	ListFriends(ctx context.Context, lobbyID models.LobbyID) ([]postgres.Friend, error)
	DeleteFriend(ctx context.Context, id models.FriendID) error
	SetFriendImage(ctx context.Context, id models.FriendID, imageRef string) error

	CreateAwards(ctx context.Context, awards []postgres.Award) error
	GetAward(ctx context.Context, id models.AwardID) (*postgres.Award, error)
	// ListAwards returns awards by order index
	ListAwards(ctx context.Context, lobbyID models.LobbyID) ([]postgres.Award, error)
	CountAwards(ctx context.Context, lobbyID models.LobbyID) (int64, error)
	// DeleteAward removes the award and the votes cast in it
	DeleteAward(ctx context.Context, id models.AwardID) error
	UpdateAwardQuestion(ctx context.Context, id models.AwardID, question string) error
	SetAwardNominees(ctx context.Context, id models.AwardID, nominees []models.FriendID) error

	// UpsertVote keeps one row per (lobby, award, voter). It returns the id of
	// the row that survives, which is stable across re-casts.
	UpsertVote(ctx context.Context, vote *postgres.Vote) (models.VoteID, error)
	ListVotes(ctx context.Context, lobbyID models.LobbyID) ([]postgres.Vote, error)
	DeleteVotes(ctx context.Context, lobbyID models.LobbyID) (int64, error)
	DeleteVotesForNominee(ctx context.Context, nomineeID models.FriendID) (int64, error)
}
