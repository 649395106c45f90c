package ceremony

import (
	"Awardly/models"
	"Awardly/models/postgres"
	"Awardly/services/presentation"
	"Awardly/services/tally"
	"context"
)

// PresentationView shows the slide a viewer is on. Live mode follows the
// owner, review mode follows the viewer's own cursor and needs the
// presentation to be finished.
func (s *Service) PresentationView(ctx context.Context, lobbyID models.LobbyID, viewerID string, requested string) (presentation.View, error) {
	st, err := s.load(ctx, lobbyID)
	if err != nil {
		return presentation.View{}, err
	}
	mode, err := presentation.ParseMode(requested, st.lobby.PresentationFinished)
	if err != nil {
		return presentation.View{}, validation("%v", err)
	}
	deck := presentation.BuildDeck(st.awards, tally.Tally(st.awards, st.votes, st.friends))

	position := st.lobby.CurrentSlide
	if mode == presentation.ModeReview {
		position, err = s.reviewPosition(ctx, st.lobby, viewerID)
		if err != nil {
			return presentation.View{}, err
		}
	}
	return presentation.NewView(mode, position, st.lobby, deck), nil
}

// reviewPosition reads the viewer cursor, seeding it from the shared slide
func (s *Service) reviewPosition(ctx context.Context, lobby *postgres.Lobby, viewerID string) (int, error) {
	if !lobby.PresentationFinished {
		return 0, validation("review opens once the presentation is finished")
	}
	if viewerID == "" {
		return 0, validation("viewer is required for review")
	}
	slide, ok, err := s.cursors.GetCursor(ctx, lobby.ID, viewerID)
	if err != nil {
		return 0, err
	}
	if ok {
		return slide, nil
	}
	if err := s.cursors.SetCursor(ctx, lobby.ID, viewerID, lobby.CurrentSlide); err != nil {
		return 0, err
	}
	return lobby.CurrentSlide, nil
}

// MoveReviewCursor moves a viewer privately through a finished presentation
func (s *Service) MoveReviewCursor(ctx context.Context, lobbyID models.LobbyID, viewerID string, target int) (presentation.View, error) {
	if viewerID == "" {
		return presentation.View{}, validation("viewer is required for review")
	}
	st, err := s.load(ctx, lobbyID)
	if err != nil {
		return presentation.View{}, err
	}
	if !st.lobby.PresentationFinished {
		return presentation.View{}, validation("review opens once the presentation is finished")
	}
	deck := presentation.BuildDeck(st.awards, tally.Tally(st.awards, st.votes, st.friends))
	slide := presentation.Clamp(target, len(deck))
	if err := s.cursors.SetCursor(ctx, lobbyID, viewerID, slide); err != nil {
		return presentation.View{}, err
	}
	return presentation.NewView(presentation.ModeReview, slide, st.lobby, deck), nil
}
