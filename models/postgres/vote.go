package postgres

import (
	"Awardly/models"
	"time"

	"gorm.io/gorm"
)

// Vote is the current choice of one voter for one award. There is at most one
// row per (lobby, award, voter); casting again replaces the nominee.
type Vote struct {
	ID            models.VoteID   `gorm:"primaryKey;size:36;not null" json:"id"`
	LobbyID       models.LobbyID  `gorm:"size:36;not null;uniqueIndex:idx_votes_ballot,priority:1" json:"lobby_id"`
	AwardID       models.AwardID  `gorm:"size:36;not null;uniqueIndex:idx_votes_ballot,priority:2;index:idx_votes_award" json:"award_id"`
	VoterIdentity string          `gorm:"size:255;not null;uniqueIndex:idx_votes_ballot,priority:3" json:"voter_identity"`
	NomineeID     models.FriendID `gorm:"size:36;not null;index:idx_votes_nominee" json:"nominee_id"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (v *Vote) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = models.NewVoteID()
	}
	return nil
}
