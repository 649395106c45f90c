package ceremony

import (
	"Awardly/models"
	"Awardly/models/postgres"
	"Awardly/services/presentation"
	"Awardly/services/tally"
	"context"
	"time"
)

// LobbyView is the full derived state of a lobby pushed to watchers after
// every change
type LobbyView struct {
	Revision    int64            `json:"revision"`
	LobbyID     models.LobbyID   `json:"lobby_id"`
	Deleted     bool             `json:"deleted,omitempty"`
	Lobby       *postgres.Lobby  `json:"lobby,omitempty"`
	Friends     []FriendView     `json:"friends"`
	Awards      []postgres.Award `json:"awards"`
	Results     []AwardResults   `json:"results"`
	Progress    []tally.Progress `json:"progress"`
	Voters      []string         `json:"voters"`
	TotalSlides int              `json:"total_slides"`
}

func (v LobbyView) SnapshotRevision() int64 { return v.Revision }

// BuildLobbyView reads the lobby and derives its view
func (s *Service) BuildLobbyView(ctx context.Context, lobbyID models.LobbyID) (LobbyView, error) {
	// taken before reading so a later revision never carries older data
	revision := time.Now().UnixNano()

	st, err := s.load(ctx, lobbyID)
	if err != nil {
		return LobbyView{}, err
	}
	return LobbyView{
		Revision:    revision,
		LobbyID:     lobbyID,
		Lobby:       st.lobby,
		Friends:     s.friendViews(ctx, st.friends),
		Awards:      st.awards,
		Results:     st.results(),
		Progress:    tally.VotingProgress(st.awards, st.votes),
		Voters:      st.voters(),
		TotalSlides: presentation.TotalSlides(len(st.awards)),
	}, nil
}

// publish pushes the current view of a lobby. Failing to publish never fails
// the write that triggered it.
func (s *Service) publish(ctx context.Context, lobbyID models.LobbyID) {
	if s.views == nil {
		return
	}
	view, err := s.BuildLobbyView(ctx, lobbyID)
	if err != nil {
		lobbyLog(lobbyID).WithError(err).Warn("could not build lobby view")
		return
	}
	if err := s.views.Publish(ctx, lobbyID, view); err != nil {
		lobbyLog(lobbyID).WithError(err).Warn("could not publish lobby view")
	}
}

func (s *Service) publishDeleted(ctx context.Context, lobbyID models.LobbyID) {
	if s.views == nil {
		return
	}
	view := LobbyView{Revision: time.Now().UnixNano(), LobbyID: lobbyID, Deleted: true}
	if err := s.views.Publish(ctx, lobbyID, view); err != nil {
		lobbyLog(lobbyID).WithError(err).Warn("could not publish lobby deletion")
	}
}
