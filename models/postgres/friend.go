package postgres

import (
	"Awardly/models"
	"time"

	"gorm.io/gorm"
)

// Friend is a nominee candidate. ImageRef is a blob store reference, empty when
// the friend has no picture.
type Friend struct {
	ID        models.FriendID `gorm:"primaryKey;size:36;not null" json:"id"`
	LobbyID   models.LobbyID  `gorm:"size:36;not null;index:idx_friends_lobby" json:"lobby_id"`
	Name      string          `gorm:"size:100;not null" json:"name"`
	ImageRef  string          `gorm:"size:255" json:"image_ref,omitempty"`
	CreatedAt time.Time       `json:"created_at"`

	Votes []Vote `gorm:"foreignKey:NomineeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (f *Friend) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = models.NewFriendID()
	}
	return nil
}
