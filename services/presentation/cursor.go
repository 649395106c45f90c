package presentation

import (
	"Awardly/models"
	"context"
	"sync"
)

// CursorStore keeps the private review position of each viewer
type CursorStore interface {
	// GetCursor returns ok=false when the viewer has no position yet
	GetCursor(ctx context.Context, lobbyID models.LobbyID, viewerID string) (slide int, ok bool, err error)
	SetCursor(ctx context.Context, lobbyID models.LobbyID, viewerID string, slide int) error
}

type cursorKey struct {
	lobby  models.LobbyID
	viewer string
}

// MemoryCursorStore is a CursorStore for a single process
type MemoryCursorStore struct {
	mu      sync.RWMutex
	cursors map[cursorKey]int
}

func NewMemoryCursorStore() *MemoryCursorStore {
	return &MemoryCursorStore{cursors: make(map[cursorKey]int)}
}

func (m *MemoryCursorStore) GetCursor(_ context.Context, lobbyID models.LobbyID, viewerID string) (int, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	slide, ok := m.cursors[cursorKey{lobbyID, viewerID}]
	return slide, ok, nil
}

func (m *MemoryCursorStore) SetCursor(_ context.Context, lobbyID models.LobbyID, viewerID string, slide int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cursors[cursorKey{lobbyID, viewerID}] = slide
	return nil
}

// ForgetLobby drops all cursors of a deleted lobby
func (m *MemoryCursorStore) ForgetLobby(_ context.Context, lobbyID models.LobbyID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.cursors {
		if k.lobby == lobbyID {
			delete(m.cursors, k)
		}
	}
	return nil
}
