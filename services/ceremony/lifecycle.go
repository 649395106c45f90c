package ceremony

import (
	"Awardly/logging"
	"Awardly/models"
	"Awardly/models/postgres"
	"Awardly/services/presentation"
	"Awardly/services/store"
	"Awardly/utils"
	"context"
	"errors"
	"fmt"
)

// lobbies are inserted at most this many times when the share code loses a race
const shareCodeInsertAttempts = 5

// CreateLobby opens a new lobby in setup state owned by principal
func (s *Service) CreateLobby(ctx context.Context, principal string, name string) (*postgres.Lobby, error) {
	if principal == "" {
		return nil, ErrNotAuthenticated
	}
	name, ok := utils.TrimmedNonEmpty(name)
	if !ok {
		return nil, validation("lobby name is required")
	}

	for attempt := 0; attempt < shareCodeInsertAttempts; attempt++ {
		code, err := utils.AllocateUniqueShareCode(ctx, s.store.ShareCodeExists)
		if err != nil {
			return nil, err
		}

		lobby := &postgres.Lobby{
			Name:           name,
			ShareCode:      code,
			OwnerPrincipal: principal,
		}
		err = s.store.CreateLobby(ctx, lobby)
		if errors.Is(err, store.ErrDuplicate) {
			logging.Log.WithField("share_code", code).Debug("share code taken at insert, retrying")
			continue
		}
		if err != nil {
			return nil, err
		}

		s.publish(ctx, lobby.ID)
		return lobby, nil
	}
	return nil, fmt.Errorf("%w: could not allocate a free share code", ErrConflict)
}

func (s *Service) GetLobby(ctx context.Context, lobbyID models.LobbyID) (*postgres.Lobby, error) {
	lobby, err := s.store.GetLobby(ctx, lobbyID)
	return lobby, fromStore(err, "lobby")
}

// GetLobbyByShareCode is tolerant to casing and surrounding spaces
func (s *Service) GetLobbyByShareCode(ctx context.Context, code string) (*postgres.Lobby, error) {
	code = utils.NormalizeShareCode(code)
	if !utils.IsShareCode(code) {
		return nil, fmt.Errorf("%w: lobby", ErrNotFound)
	}
	lobby, err := s.store.GetLobbyByShareCode(ctx, code)
	return lobby, fromStore(err, "lobby")
}

// GetUserLobbies lists the lobbies of principal, newest first
func (s *Service) GetUserLobbies(ctx context.Context, principal string) ([]postgres.Lobby, error) {
	if principal == "" {
		return nil, ErrNotAuthenticated
	}
	lobbies, err := s.store.ListLobbiesByOwner(ctx, principal)
	if lobbies == nil {
		lobbies = []postgres.Lobby{}
	}
	return lobbies, err
}

// ToggleVoting flips votingOpen and returns its new value
func (s *Service) ToggleVoting(ctx context.Context, principal string, lobbyID models.LobbyID) (bool, error) {
	if _, err := requireOwner(ctx, s.store, principal, lobbyID); err != nil {
		return false, err
	}
	open, err := s.store.ToggleVoting(ctx, lobbyID)
	if err != nil {
		return false, fromStore(err, "lobby")
	}
	lobbyLog(lobbyID).WithField("voting_open", open).Info("voting toggled")
	s.publish(ctx, lobbyID)
	return open, nil
}

// StartPresentation closes voting, rewinds the show to its first slide and
// forgets every review position of an earlier run
func (s *Service) StartPresentation(ctx context.Context, principal string, lobbyID models.LobbyID) error {
	if _, err := requireOwner(ctx, s.store, principal, lobbyID); err != nil {
		return err
	}
	closed, on, notFinished, first := false, true, false, 0
	err := s.store.UpdateLobby(ctx, lobbyID, store.LobbyPatch{
		VotingOpen:           &closed,
		PresentationMode:     &on,
		PresentationFinished: &notFinished,
		CurrentSlide:         &first,
	})
	if err != nil {
		return fromStore(err, "lobby")
	}
	lobbyLog(lobbyID).Info("presentation started")
	s.publish(ctx, lobbyID)

	// review positions belong to the previous run of the show
	if f, ok := s.cursors.(lobbyForgetter); ok {
		if err := f.ForgetLobby(ctx, lobbyID); err != nil {
			lobbyLog(lobbyID).WithError(err).Warn("failed to drop review cursors")
			return fmt.Errorf("presentation started but review cursors were kept: %w", err)
		}
	}
	return nil
}

// AdvanceSlide moves the live slide. The target is clamped to the deck and
// reaching the last slide marks the presentation finished for good.
func (s *Service) AdvanceSlide(ctx context.Context, principal string, lobbyID models.LobbyID, target int) (int, error) {
	var slide int
	err := s.store.Transaction(ctx, func(tx store.Repository) error {
		lobby, err := lockOwned(ctx, tx, principal, lobbyID)
		if err != nil {
			return err
		}
		if !lobby.PresentationMode {
			return validation("presentation has not started")
		}
		count, err := tx.CountAwards(ctx, lobbyID)
		if err != nil {
			return err
		}
		if count == 0 {
			return validation("lobby has no awards to present")
		}

		total := presentation.TotalSlides(int(count))
		slide = presentation.Clamp(target, total)
		patch := store.LobbyPatch{CurrentSlide: &slide}
		if presentation.IsFinalSlide(slide, total) && !lobby.PresentationFinished {
			finished := true
			patch.PresentationFinished = &finished
		}
		return fromStore(tx.UpdateLobby(ctx, lobbyID, patch), "lobby")
	})
	if err != nil {
		return 0, err
	}
	s.publish(ctx, lobbyID)
	return slide, nil
}

// ResetVotes deletes every vote of the lobby and leaves its flags alone
func (s *Service) ResetVotes(ctx context.Context, principal string, lobbyID models.LobbyID) (int64, error) {
	if _, err := requireOwner(ctx, s.store, principal, lobbyID); err != nil {
		return 0, err
	}
	deleted, err := s.store.DeleteVotes(ctx, lobbyID)
	if err != nil {
		return 0, err
	}
	lobbyLog(lobbyID).WithField("deleted", deleted).Info("votes reset")
	s.publish(ctx, lobbyID)
	return deleted, nil
}

// ClearAllVotes is ResetVotes under the name the host screen uses
func (s *Service) ClearAllVotes(ctx context.Context, principal string, lobbyID models.LobbyID) (int64, error) {
	return s.ResetVotes(ctx, principal, lobbyID)
}

type lobbyForgetter interface {
	ForgetLobby(ctx context.Context, lobbyID models.LobbyID) error
}

// DeleteLobby removes the lobby with all its rows, then its images and review
// cursors. Cleanup failures after the commit are logged and returned.
func (s *Service) DeleteLobby(ctx context.Context, principal string, lobbyID models.LobbyID) error {
	var images []string
	err := s.store.Transaction(ctx, func(tx store.Repository) error {
		if _, err := lockOwned(ctx, tx, principal, lobbyID); err != nil {
			return err
		}
		friends, err := tx.ListFriends(ctx, lobbyID)
		if err != nil {
			return err
		}
		for _, f := range friends {
			if f.ImageRef != "" {
				images = append(images, f.ImageRef)
			}
		}
		return fromStore(tx.DeleteLobby(ctx, lobbyID), "lobby")
	})
	if err != nil {
		return err
	}
	lobbyLog(lobbyID).Info("lobby deleted")
	s.publishDeleted(ctx, lobbyID)

	var cleanup []error
	for _, ref := range images {
		if err := s.blobs.Delete(ctx, ref); err != nil {
			lobbyLog(lobbyID).WithError(err).WithField("image_ref", ref).Warn("failed to delete friend image")
			cleanup = append(cleanup, err)
		}
	}
	if f, ok := s.cursors.(lobbyForgetter); ok {
		if err := f.ForgetLobby(ctx, lobbyID); err != nil {
			lobbyLog(lobbyID).WithError(err).Warn("failed to drop review cursors")
			cleanup = append(cleanup, err)
		}
	}
	if len(cleanup) > 0 {
		return fmt.Errorf("lobby deleted but cleanup failed: %w", errors.Join(cleanup...))
	}
	return nil
}
