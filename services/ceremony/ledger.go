package ceremony

import (
	"Awardly/models"
	"Awardly/models/postgres"
	"Awardly/utils"
	"context"
	"strings"
)

// friendVoterPrefix marks identities chosen by picking oneself from the roster
const friendVoterPrefix = "friend:"

// Ballot is one vote as submitted by a participant
type Ballot struct {
	AwardID   models.AwardID
	NomineeID models.FriendID
	// VoterIdentity is a free display name
	VoterIdentity string
	// VoterFriendID identifies the voter as one of the friends instead
	VoterFriendID models.FriendID
}

// ResolveVoter turns the two identity schemes into the opaque string the
// ledger keys on
func (s *Service) ResolveVoter(ctx context.Context, lobbyID models.LobbyID, name string, friendID models.FriendID) (string, error) {
	if friendID != "" {
		friend, err := s.store.GetFriend(ctx, friendID)
		if err != nil {
			return "", fromStore(err, "voter")
		}
		if friend.LobbyID != lobbyID {
			return "", validation("voter is not a friend of this lobby")
		}
		return friendVoterPrefix + string(friend.ID), nil
	}
	identity, ok := utils.TrimmedNonEmpty(name)
	if !ok {
		return "", validation("voter identity is required")
	}
	if strings.HasPrefix(identity, friendVoterPrefix) {
		return "", validation("voter identity may not start with %q", friendVoterPrefix)
	}
	return identity, nil
}

// CastVote records or replaces the vote of voterIdentity for one award. The
// returned id stays the same when the voter changes their mind.
func (s *Service) CastVote(ctx context.Context, lobbyID models.LobbyID, awardID models.AwardID, nomineeID models.FriendID, voterIdentity string) (models.VoteID, error) {
	identity, ok := utils.TrimmedNonEmpty(voterIdentity)
	if !ok {
		return "", validation("voter identity is required")
	}

	lobby, err := s.store.GetLobby(ctx, lobbyID)
	if err != nil {
		return "", fromStore(err, "lobby")
	}
	if !lobby.VotingOpen {
		return "", ErrVotingClosed
	}

	award, err := s.store.GetAward(ctx, awardID)
	if err != nil {
		return "", fromStore(err, "award")
	}
	if award.LobbyID != lobbyID {
		return "", fromStore(errNotInLobby, "award")
	}
	nominee, err := s.store.GetFriend(ctx, nomineeID)
	if err != nil {
		return "", fromStore(err, "nominee")
	}
	if nominee.LobbyID != lobbyID {
		return "", fromStore(errNotInLobby, "nominee")
	}
	if !award.IsEligible(nomineeID) {
		return "", validation("%s is not nominated for this award", nominee.Name)
	}

	id, err := s.store.UpsertVote(ctx, &postgres.Vote{
		LobbyID:       lobbyID,
		AwardID:       awardID,
		NomineeID:     nomineeID,
		VoterIdentity: identity,
	})
	if err != nil {
		return "", fromStore(err, "vote")
	}
	s.publish(ctx, lobbyID)
	return id, nil
}

// Cast resolves the voter of a ballot and casts it
func (s *Service) Cast(ctx context.Context, lobbyID models.LobbyID, b Ballot) (models.VoteID, error) {
	identity, err := s.ResolveVoter(ctx, lobbyID, b.VoterIdentity, b.VoterFriendID)
	if err != nil {
		return "", err
	}
	return s.CastVote(ctx, lobbyID, b.AwardID, b.NomineeID, identity)
}

// displayVoter renders a ledger identity for people
func displayVoter(identity string, names map[models.FriendID]string) string {
	id, ok := strings.CutPrefix(identity, friendVoterPrefix)
	if !ok {
		return identity
	}
	if name, ok := names[models.FriendID(id)]; ok {
		return name
	}
	return identity
}
