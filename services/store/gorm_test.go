package store

import (
	"Awardly/models/postgres"
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(pgdriver.New(pgdriver.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)

	return NewGormStore(db), mock
}

func TestGormGetLobby(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "lobbies" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "share_code", "owner_principal", "voting_open"}).
			AddRow("l1", "Office awards", "AB12CD", "host", true))

	lobby, err := s.GetLobby(context.Background(), "l1")
	require.NoError(t, err)
	assert.Equal(t, "AB12CD", lobby.ShareCode)
	assert.True(t, lobby.VotingOpen)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormGetLobbyNotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT \* FROM "lobbies" WHERE share_code = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetLobbyByShareCode(context.Background(), "ZZZZZZ")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormToggleVotingIsSingleStatement(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`UPDATE "lobbies" SET "voting_open"=NOT voting_open(.+)RETURNING "voting_open"`).
		WillReturnRows(sqlmock.NewRows([]string{"voting_open"}).AddRow(true))

	open, err := s.ToggleVoting(context.Background(), "l1")
	require.NoError(t, err)
	assert.True(t, open)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormCreateLobbyDuplicateShareCode(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`INSERT INTO "lobbies"`).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := s.CreateLobby(context.Background(), &postgres.Lobby{Name: "x", ShareCode: "AAAAAA", OwnerPrincipal: "host"})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUpdateLobbyMissing(t *testing.T) {
	s, mock := newMockStore(t)
	slide := 3

	mock.ExpectExec(`UPDATE "lobbies" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateLobby(context.Background(), "nope", LobbyPatch{CurrentSlide: &slide})
	assert.ErrorIs(t, err, ErrNotFound)

	// An empty patch never reaches the database
	assert.NoError(t, s.UpdateLobby(context.Background(), "nope", LobbyPatch{}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormUpsertVoteReturnsSurvivingID(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`INSERT INTO "votes" (.+) ON CONFLICT \("lobby_id","award_id","voter_identity"\) DO UPDATE SET (.+) RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("first-vote"))

	id, err := s.UpsertVote(context.Background(), &postgres.Vote{
		LobbyID:       "l1",
		AwardID:       "a1",
		NomineeID:     "f2",
		VoterIdentity: "ana",
	})
	require.NoError(t, err)
	assert.Equal(t, "first-vote", string(id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormDeleteVotes(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM "votes" WHERE lobby_id = \$1`).
		WithArgs("l1").
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := s.DeleteVotes(context.Background(), "l1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormTransactionRollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "votes" WHERE lobby_id = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := s.Transaction(context.Background(), func(tx Repository) error {
		if _, err := tx.DeleteVotes(context.Background(), "l1"); err != nil {
			return err
		}
		return ErrNotFound
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
