package postgres

import (
	"Awardly/models"
	"time"

	"gorm.io/gorm"
)

/*
 * 'Lobby' is one award ceremony. The owner configures friends and awards,
 * opens voting and finally walks everyone through the result slides.
 */
type Lobby struct {
	ID                   models.LobbyID `gorm:"primaryKey;size:36;not null" json:"id"`
	Name                 string         `gorm:"size:200;not null" json:"name"`
	ShareCode            string         `gorm:"size:6;not null;uniqueIndex:idx_lobbies_share_code" json:"share_code"`
	OwnerPrincipal       string         `gorm:"size:255;not null;index:idx_lobbies_owner" json:"owner"`
	VotingOpen           bool           `gorm:"not null" json:"voting_open"`
	PresentationMode     bool           `gorm:"not null" json:"presentation_mode"`
	PresentationFinished bool           `gorm:"not null" json:"presentation_finished"`
	CurrentSlide         int            `gorm:"not null" json:"current_slide"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`

	// Relationships, everything below a lobby goes away with it
	Friends []Friend `gorm:"foreignKey:LobbyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Awards  []Award  `gorm:"foreignKey:LobbyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Votes   []Vote   `gorm:"foreignKey:LobbyID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (l *Lobby) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = models.NewLobbyID()
	}
	return nil
}

// IsOwnedBy reports whether principal created the lobby
func (l *Lobby) IsOwnedBy(principal string) bool {
	return principal != "" && l.OwnerPrincipal == principal
}
