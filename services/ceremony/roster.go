package ceremony

import (
	"Awardly/models"
	"Awardly/models/postgres"
	"Awardly/services/blob"
	"Awardly/services/presentation"
	"Awardly/services/store"
	"Awardly/utils"
	"context"
)

// FriendView is a friend with its picture resolved to a URL
type FriendView struct {
	postgres.Friend
	ImageURL string `json:"image_url,omitempty"`
}

// canEditRoster decides who may add friends or their pictures
func (s *Service) canEditRoster(principal string, lobby *postgres.Lobby) error {
	if lobby.IsOwnedBy(principal) {
		return nil
	}
	if s.policy.PublicFriendJoin && !lobby.PresentationMode {
		return nil
	}
	if principal == "" {
		return ErrNotAuthenticated
	}
	return ErrNotAuthorized
}

func (s *Service) AddFriend(ctx context.Context, principal string, lobbyID models.LobbyID, name string, imageRef string) (*postgres.Friend, error) {
	name, ok := utils.TrimmedNonEmpty(name)
	if !ok {
		return nil, validation("friend name is required")
	}
	if imageRef != "" && !blob.ValidRef(imageRef) {
		return nil, validation("invalid image reference")
	}

	lobby, err := s.store.GetLobby(ctx, lobbyID)
	if err != nil {
		return nil, fromStore(err, "lobby")
	}
	if err := s.canEditRoster(principal, lobby); err != nil {
		return nil, err
	}

	friend := &postgres.Friend{LobbyID: lobbyID, Name: name, ImageRef: imageRef}
	if err := s.store.CreateFriend(ctx, friend); err != nil {
		return nil, fromStore(err, "friend")
	}
	s.publish(ctx, lobbyID)
	return friend, nil
}

// RemoveFriend deletes the friend, the votes naming them and their id from
// every nominee subset. A subset left empty means everyone again.
func (s *Service) RemoveFriend(ctx context.Context, principal string, friendID models.FriendID) error {
	var removed *postgres.Friend
	err := s.store.Transaction(ctx, func(tx store.Repository) error {
		friend, err := tx.GetFriend(ctx, friendID)
		if err != nil {
			return fromStore(err, "friend")
		}
		if _, err := lockOwned(ctx, tx, principal, friend.LobbyID); err != nil {
			return err
		}

		awards, err := tx.ListAwards(ctx, friend.LobbyID)
		if err != nil {
			return err
		}
		for _, a := range awards {
			subset := a.Nominees()
			if subset == nil {
				continue
			}
			pruned := make([]models.FriendID, 0, len(subset))
			for _, id := range subset {
				if id != friendID {
					pruned = append(pruned, id)
				}
			}
			if len(pruned) == len(subset) {
				continue
			}
			if err := tx.SetAwardNominees(ctx, a.ID, pruned); err != nil {
				return err
			}
		}

		if _, err := tx.DeleteVotesForNominee(ctx, friendID); err != nil {
			return err
		}
		removed = friend
		return fromStore(tx.DeleteFriend(ctx, friendID), "friend")
	})
	if err != nil {
		return err
	}

	if removed.ImageRef != "" {
		if err := s.blobs.Delete(ctx, removed.ImageRef); err != nil {
			lobbyLog(removed.LobbyID).WithError(err).Warn("failed to delete friend image")
		}
	}
	s.publish(ctx, removed.LobbyID)
	return nil
}

// ListFriends returns the friends of a lobby in creation order. An unknown
// lobby simply has none.
func (s *Service) ListFriends(ctx context.Context, lobbyID models.LobbyID) ([]FriendView, error) {
	friends, err := s.store.ListFriends(ctx, lobbyID)
	if err != nil {
		return nil, err
	}
	return s.friendViews(ctx, friends), nil
}

func (s *Service) friendViews(ctx context.Context, friends []postgres.Friend) []FriendView {
	views := make([]FriendView, 0, len(friends))
	for _, f := range friends {
		view := FriendView{Friend: f}
		if f.ImageRef != "" {
			url, err := s.blobs.URL(ctx, f.ImageRef)
			if err != nil {
				lobbyLog(f.LobbyID).WithError(err).WithField("friend_id", f.ID).Warn("could not resolve image")
			}
			view.ImageURL = url
		}
		views = append(views, view)
	}
	return views
}

// AttachFriendImage replaces the picture of a friend, dropping the old blob
func (s *Service) AttachFriendImage(ctx context.Context, principal string, friendID models.FriendID, imageRef string) error {
	if !blob.ValidRef(imageRef) {
		return validation("invalid image reference")
	}
	friend, err := s.store.GetFriend(ctx, friendID)
	if err != nil {
		return fromStore(err, "friend")
	}
	lobby, err := s.store.GetLobby(ctx, friend.LobbyID)
	if err != nil {
		return fromStore(err, "lobby")
	}
	if err := s.canEditRoster(principal, lobby); err != nil {
		return err
	}

	if err := s.store.SetFriendImage(ctx, friendID, imageRef); err != nil {
		return fromStore(err, "friend")
	}
	if friend.ImageRef != "" && friend.ImageRef != imageRef {
		if err := s.blobs.Delete(ctx, friend.ImageRef); err != nil {
			lobbyLog(friend.LobbyID).WithError(err).Warn("failed to delete replaced image")
		}
	}
	s.publish(ctx, friend.LobbyID)
	return nil
}

// GenerateUploadURL hands out a presigned upload target and its reference
func (s *Service) GenerateUploadURL(ctx context.Context, principal string) (models.UploadTicket, error) {
	if principal == "" && !s.policy.PublicFriendJoin {
		return models.UploadTicket{}, ErrNotAuthenticated
	}
	uploadURL, ref, err := s.blobs.UploadURL(ctx)
	if err != nil {
		return models.UploadTicket{}, err
	}
	return models.UploadTicket{UploadURL: uploadURL, ImageRef: ref}, nil
}

func nextOrder(awards []postgres.Award) int {
	next := 0
	for _, a := range awards {
		if a.OrderIndex >= next {
			next = a.OrderIndex + 1
		}
	}
	return next
}

// AddAward appends an award after the existing ones. Duplicates are allowed.
func (s *Service) AddAward(ctx context.Context, principal string, lobbyID models.LobbyID, question string) (*postgres.Award, error) {
	question, ok := utils.TrimmedNonEmpty(question)
	if !ok {
		return nil, validation("award question is required")
	}

	var award postgres.Award
	err := s.store.Transaction(ctx, func(tx store.Repository) error {
		if _, err := lockOwned(ctx, tx, principal, lobbyID); err != nil {
			return err
		}
		existing, err := tx.ListAwards(ctx, lobbyID)
		if err != nil {
			return err
		}
		award = postgres.Award{LobbyID: lobbyID, Question: question, OrderIndex: nextOrder(existing)}
		created := []postgres.Award{award}
		if err := tx.CreateAwards(ctx, created); err != nil {
			return fromStore(err, "award")
		}
		award = created[0]
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, lobbyID)
	return &award, nil
}

// AddAwardsBulk adds every question that is not blank and not already present,
// comparing case-insensitively against the lobby and the batch itself
func (s *Service) AddAwardsBulk(ctx context.Context, principal string, lobbyID models.LobbyID, questions []string) (models.BulkResult, error) {
	var result models.BulkResult
	err := s.store.Transaction(ctx, func(tx store.Repository) error {
		result = models.BulkResult{}
		if _, err := lockOwned(ctx, tx, principal, lobbyID); err != nil {
			return err
		}
		existing, err := tx.ListAwards(ctx, lobbyID)
		if err != nil {
			return err
		}

		seen := make(map[string]struct{}, len(existing)+len(questions))
		for _, a := range existing {
			seen[utils.FoldKey(a.Question)] = struct{}{}
		}

		order := nextOrder(existing)
		var fresh []postgres.Award
		for _, q := range questions {
			q, ok := utils.TrimmedNonEmpty(q)
			if !ok {
				result.Skipped++
				continue
			}
			key := utils.FoldKey(q)
			if _, dup := seen[key]; dup {
				result.Skipped++
				continue
			}
			seen[key] = struct{}{}
			fresh = append(fresh, postgres.Award{LobbyID: lobbyID, Question: q, OrderIndex: order})
			order++
		}

		result.Added = len(fresh)
		return fromStore(tx.CreateAwards(ctx, fresh), "award")
	})
	if err != nil {
		return models.BulkResult{}, err
	}
	if result.Added > 0 {
		s.publish(ctx, lobbyID)
	}
	return result, nil
}

// ownedAward loads an award and checks principal owns its lobby, which
// stays locked for the transaction
func ownedAward(ctx context.Context, tx store.Repository, principal string, awardID models.AwardID) (*postgres.Award, *postgres.Lobby, error) {
	if principal == "" {
		return nil, nil, ErrNotAuthenticated
	}
	award, err := tx.GetAward(ctx, awardID)
	if err != nil {
		return nil, nil, fromStore(err, "award")
	}
	lobby, err := lockOwned(ctx, tx, principal, award.LobbyID)
	if err != nil {
		return nil, nil, err
	}
	return award, lobby, nil
}

// keepSlideInDeck bounds the live slide to a deck that just shrank. Landing
// on the last slide of a running presentation finishes it.
func keepSlideInDeck(ctx context.Context, tx store.Repository, lobby *postgres.Lobby) error {
	count, err := tx.CountAwards(ctx, lobby.ID)
	if err != nil {
		return err
	}
	total := presentation.TotalSlides(int(count))
	slide := presentation.Clamp(lobby.CurrentSlide, total)

	var patch store.LobbyPatch
	if slide != lobby.CurrentSlide {
		patch.CurrentSlide = &slide
	}
	if lobby.PresentationMode && !lobby.PresentationFinished && presentation.IsFinalSlide(slide, total) {
		finished := true
		patch.PresentationFinished = &finished
	}
	if patch.CurrentSlide == nil && patch.PresentationFinished == nil {
		return nil
	}
	return fromStore(tx.UpdateLobby(ctx, lobby.ID, patch), "lobby")
}

// RemoveAward deletes the award and the votes cast in it
func (s *Service) RemoveAward(ctx context.Context, principal string, awardID models.AwardID) error {
	var lobbyID models.LobbyID
	err := s.store.Transaction(ctx, func(tx store.Repository) error {
		award, lobby, err := ownedAward(ctx, tx, principal, awardID)
		if err != nil {
			return err
		}
		lobbyID = award.LobbyID
		if err := tx.DeleteAward(ctx, awardID); err != nil {
			return fromStore(err, "award")
		}
		return keepSlideInDeck(ctx, tx, lobby)
	})
	if err != nil {
		return err
	}
	s.publish(ctx, lobbyID)
	return nil
}

func (s *Service) UpdateAwardQuestion(ctx context.Context, principal string, awardID models.AwardID, question string) error {
	question, ok := utils.TrimmedNonEmpty(question)
	if !ok {
		return validation("award question is required")
	}
	var lobbyID models.LobbyID
	err := s.store.Transaction(ctx, func(tx store.Repository) error {
		award, _, err := ownedAward(ctx, tx, principal, awardID)
		if err != nil {
			return err
		}
		lobbyID = award.LobbyID
		return fromStore(tx.UpdateAwardQuestion(ctx, awardID, question), "award")
	})
	if err != nil {
		return err
	}
	s.publish(ctx, lobbyID)
	return nil
}

// SetAwardNominees restricts who can win an award. Repeated ids collapse and
// an empty list makes every friend eligible again.
func (s *Service) SetAwardNominees(ctx context.Context, principal string, awardID models.AwardID, friendIDs []models.FriendID) error {
	var lobbyID models.LobbyID
	err := s.store.Transaction(ctx, func(tx store.Repository) error {
		award, _, err := ownedAward(ctx, tx, principal, awardID)
		if err != nil {
			return err
		}
		lobbyID = award.LobbyID

		friends, err := tx.ListFriends(ctx, lobbyID)
		if err != nil {
			return err
		}
		members := make(map[models.FriendID]struct{}, len(friends))
		for _, f := range friends {
			members[f.ID] = struct{}{}
		}

		seen := make(map[models.FriendID]struct{}, len(friendIDs))
		subset := make([]models.FriendID, 0, len(friendIDs))
		for _, id := range friendIDs {
			if _, ok := members[id]; !ok {
				return validation("friend %s is not part of this lobby", id)
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			subset = append(subset, id)
		}
		return fromStore(tx.SetAwardNominees(ctx, awardID, subset), "award")
	})
	if err != nil {
		return err
	}
	s.publish(ctx, lobbyID)
	return nil
}

// ListAwards returns the awards of a lobby by order index
func (s *Service) ListAwards(ctx context.Context, lobbyID models.LobbyID) ([]postgres.Award, error) {
	awards, err := s.store.ListAwards(ctx, lobbyID)
	if awards == nil {
		awards = []postgres.Award{}
	}
	return awards, err
}

func (s *Service) GetAward(ctx context.Context, awardID models.AwardID) (*postgres.Award, error) {
	award, err := s.store.GetAward(ctx, awardID)
	if err != nil {
		return nil, fromStore(err, "award")
	}
	return award, nil
}
