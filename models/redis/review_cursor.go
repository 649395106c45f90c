package redis

import (
	"encoding/json"
	"time"
)

// ReviewCursor is the private slide position of one viewer once the
// presentation has finished
type ReviewCursor struct {
	LobbyID   string    `json:"lobby_id"`
	ViewerID  string    `json:"viewer_id"`
	Slide     int       `json:"slide"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ViewMessage travels on the lobby views channel between instances
type ViewMessage struct {
	LobbyID string          `json:"lobby_id"`
	Origin  string          `json:"origin"`
	View    json.RawMessage `json:"view"`
}
