package store

import (
	"Awardly/models"
	"Awardly/models/postgres"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is the PostgreSQL Repository
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

func (s *GormStore) CreateLobby(ctx context.Context, lobby *postgres.Lobby) error {
	return translate(s.db.WithContext(ctx).Create(lobby).Error)
}

func (s *GormStore) ShareCodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&postgres.Lobby{}).
		Where("share_code = ?", code).
		Count(&count).Error
	return count > 0, translate(err)
}

func (s *GormStore) GetLobby(ctx context.Context, id models.LobbyID) (*postgres.Lobby, error) {
	var lobby postgres.Lobby
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&lobby).Error; err != nil {
		return nil, translate(err)
	}
	return &lobby, nil
}

func (s *GormStore) LockLobby(ctx context.Context, id models.LobbyID) (*postgres.Lobby, error) {
	var lobby postgres.Lobby
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&lobby).Error
	if err != nil {
		return nil, translate(err)
	}
	return &lobby, nil
}

func (s *GormStore) GetLobbyByShareCode(ctx context.Context, code string) (*postgres.Lobby, error) {
	var lobby postgres.Lobby
	if err := s.db.WithContext(ctx).Where("share_code = ?", code).First(&lobby).Error; err != nil {
		return nil, translate(err)
	}
	return &lobby, nil
}

func (s *GormStore) ListLobbiesByOwner(ctx context.Context, owner string) ([]postgres.Lobby, error) {
	var lobbies []postgres.Lobby
	err := s.db.WithContext(ctx).
		Where("owner_principal = ?", owner).
		Order("created_at DESC").
		Find(&lobbies).Error
	return lobbies, translate(err)
}

func (s *GormStore) ToggleVoting(ctx context.Context, id models.LobbyID) (bool, error) {
	var lobby postgres.Lobby
	res := s.db.WithContext(ctx).Model(&lobby).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "voting_open"}}}).
		Where("id = ?", id).
		Update("voting_open", gorm.Expr("NOT voting_open"))
	if res.Error != nil {
		return false, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return false, ErrNotFound
	}
	return lobby.VotingOpen, nil
}

func (s *GormStore) UpdateLobby(ctx context.Context, id models.LobbyID, patch LobbyPatch) error {
	if patch.empty() {
		return nil
	}
	updates := map[string]any{}
	if patch.VotingOpen != nil {
		updates["voting_open"] = *patch.VotingOpen
	}
	if patch.PresentationMode != nil {
		updates["presentation_mode"] = *patch.PresentationMode
	}
	if patch.PresentationFinished != nil {
		updates["presentation_finished"] = *patch.PresentationFinished
	}
	if patch.CurrentSlide != nil {
		updates["current_slide"] = *patch.CurrentSlide
	}
	res := s.db.WithContext(ctx).Model(&postgres.Lobby{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteLobby(ctx context.Context, id models.LobbyID) error {
	db := s.db.WithContext(ctx)
	if err := db.Where("lobby_id = ?", id).Delete(&postgres.Vote{}).Error; err != nil {
		return translate(err)
	}
	if err := db.Where("lobby_id = ?", id).Delete(&postgres.Award{}).Error; err != nil {
		return translate(err)
	}
	if err := db.Where("lobby_id = ?", id).Delete(&postgres.Friend{}).Error; err != nil {
		return translate(err)
	}
	res := db.Where("id = ?", id).Delete(&postgres.Lobby{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) CreateFriend(ctx context.Context, friend *postgres.Friend) error {
	return translate(s.db.WithContext(ctx).Create(friend).Error)
}

func (s *GormStore) GetFriend(ctx context.Context, id models.FriendID) (*postgres.Friend, error) {
	var friend postgres.Friend
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&friend).Error; err != nil {
		return nil, translate(err)
	}
	return &friend, nil
}

func (s *GormStore) ListFriends(ctx context.Context, lobbyID models.LobbyID) ([]postgres.Friend, error) {
	var friends []postgres.Friend
	err := s.db.WithContext(ctx).
		Where("lobby_id = ?", lobbyID).
		Order("created_at ASC").Order("id ASC").
		Find(&friends).Error
	return friends, translate(err)
}

func (s *GormStore) DeleteFriend(ctx context.Context, id models.FriendID) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&postgres.Friend{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) SetFriendImage(ctx context.Context, id models.FriendID, imageRef string) error {
	res := s.db.WithContext(ctx).Model(&postgres.Friend{}).Where("id = ?", id).Update("image_ref", imageRef)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) CreateAwards(ctx context.Context, awards []postgres.Award) error {
	if len(awards) == 0 {
		return nil
	}
	return translate(s.db.WithContext(ctx).Create(&awards).Error)
}

func (s *GormStore) GetAward(ctx context.Context, id models.AwardID) (*postgres.Award, error) {
	var award postgres.Award
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&award).Error; err != nil {
		return nil, translate(err)
	}
	return &award, nil
}

func (s *GormStore) ListAwards(ctx context.Context, lobbyID models.LobbyID) ([]postgres.Award, error) {
	var awards []postgres.Award
	err := s.db.WithContext(ctx).
		Where("lobby_id = ?", lobbyID).
		Order("order_index ASC").
		Find(&awards).Error
	return awards, translate(err)
}

func (s *GormStore) CountAwards(ctx context.Context, lobbyID models.LobbyID) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&postgres.Award{}).Where("lobby_id = ?", lobbyID).Count(&count).Error
	return count, translate(err)
}

func (s *GormStore) DeleteAward(ctx context.Context, id models.AwardID) error {
	db := s.db.WithContext(ctx)
	if err := db.Where("award_id = ?", id).Delete(&postgres.Vote{}).Error; err != nil {
		return translate(err)
	}
	res := db.Where("id = ?", id).Delete(&postgres.Award{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) UpdateAwardQuestion(ctx context.Context, id models.AwardID, question string) error {
	res := s.db.WithContext(ctx).Model(&postgres.Award{}).Where("id = ?", id).Update("question", question)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) SetAwardNominees(ctx context.Context, id models.AwardID, nominees []models.FriendID) error {
	var award postgres.Award
	if err := award.SetNominees(nominees); err != nil {
		return err
	}
	// Select forces the write even when the subset is cleared to NULL
	res := s.db.WithContext(ctx).Model(&postgres.Award{}).
		Where("id = ?", id).
		Select("nominee_ids", "updated_at").
		Updates(postgres.Award{NomineeIDs: award.NomineeIDs, UpdatedAt: time.Now()})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) UpsertVote(ctx context.Context, vote *postgres.Vote) (models.VoteID, error) {
	now := time.Now()
	row := *vote
	row.UpdatedAt = now
	err := s.db.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "lobby_id"}, {Name: "award_id"}, {Name: "voter_identity"}},
			DoUpdates: clause.Assignments(map[string]any{
				"nominee_id": row.NomineeID,
				"updated_at": now,
			}),
		},
		clause.Returning{Columns: []clause.Column{{Name: "id"}}},
	).Create(&row).Error
	if err != nil {
		return "", translate(err)
	}
	return row.ID, nil
}

func (s *GormStore) ListVotes(ctx context.Context, lobbyID models.LobbyID) ([]postgres.Vote, error) {
	var votes []postgres.Vote
	err := s.db.WithContext(ctx).
		Where("lobby_id = ?", lobbyID).
		Order("created_at ASC").
		Find(&votes).Error
	return votes, translate(err)
}

func (s *GormStore) DeleteVotes(ctx context.Context, lobbyID models.LobbyID) (int64, error) {
	res := s.db.WithContext(ctx).Where("lobby_id = ?", lobbyID).Delete(&postgres.Vote{})
	return res.RowsAffected, translate(res.Error)
}

func (s *GormStore) DeleteVotesForNominee(ctx context.Context, nomineeID models.FriendID) (int64, error) {
	res := s.db.WithContext(ctx).Where("nominee_id = ?", nomineeID).Delete(&postgres.Vote{})
	return res.RowsAffected, translate(res.Error)
}

// translate maps driver errors onto the store sentinels
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	// a row referenced by the write is gone, e.g. a nominee removed mid-vote
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23503"
}

var _ Repository = (*GormStore)(nil)
