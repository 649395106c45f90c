package postgres

import (
	"Awardly/models"
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Award is one voting category. An empty nominee subset means every friend of
// the lobby is eligible.
type Award struct {
	ID         models.AwardID `gorm:"primaryKey;size:36;not null" json:"id"`
	LobbyID    models.LobbyID `gorm:"size:36;not null;index:idx_awards_lobby_order,priority:1" json:"lobby_id"`
	Question   string         `gorm:"size:500;not null" json:"question"`
	OrderIndex int            `gorm:"not null;index:idx_awards_lobby_order,priority:2" json:"order"`
	NomineeIDs datatypes.JSON `gorm:"type:jsonb" json:"nominee_ids,omitempty" swaggertype:"array,string"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`

	Votes []Vote `gorm:"foreignKey:AwardID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
}

func (a *Award) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = models.NewAwardID()
	}
	return nil
}

// Nominees decodes the nominee subset. A nil result means all friends.
func (a *Award) Nominees() []models.FriendID {
	if len(a.NomineeIDs) == 0 {
		return nil
	}
	var ids []models.FriendID
	if err := json.Unmarshal(a.NomineeIDs, &ids); err != nil || len(ids) == 0 {
		return nil
	}
	return ids
}

// SetNominees stores ids as the subset, an empty slice clears it.
func (a *Award) SetNominees(ids []models.FriendID) error {
	if len(ids) == 0 {
		a.NomineeIDs = nil
		return nil
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	a.NomineeIDs = datatypes.JSON(raw)
	return nil
}

// IsEligible reports whether friendID may receive votes in this award
func (a *Award) IsEligible(friendID models.FriendID) bool {
	subset := a.Nominees()
	if subset == nil {
		return true
	}
	for _, id := range subset {
		if id == friendID {
			return true
		}
	}
	return false
}
