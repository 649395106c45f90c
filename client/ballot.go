package client

import (
	"Awardly/models"
	"Awardly/services/optimistic"
	"context"
	"sync"
)

// Ballot is what one voter has picked so far. A choice shows up in Selected
// as soon as it is made and is reverted when the server rejects it.
type Ballot struct {
	client  *Client
	lobbyID models.LobbyID
	voter   string
	// voterFriend is set when the voter picked themself from the roster
	voterFriend models.FriendID

	mu      sync.Mutex
	choices map[models.AwardID]models.FriendID
}

func NewBallot(c *Client, lobbyID models.LobbyID, voterIdentity string) *Ballot {
	return &Ballot{
		client:  c,
		lobbyID: lobbyID,
		voter:   voterIdentity,
		choices: make(map[models.AwardID]models.FriendID),
	}
}

// NewFriendBallot votes as one of the lobby's friends
func NewFriendBallot(c *Client, lobbyID models.LobbyID, self models.FriendID) *Ballot {
	b := NewBallot(c, lobbyID, "")
	b.voterFriend = self
	return b
}

// Selected is the nominee currently shown for an award
func (b *Ballot) Selected(awardID models.AwardID) (models.FriendID, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	nominee, ok := b.choices[awardID]
	return nominee, ok
}

// Choose selects nominee for an award and sends the vote
func (b *Ballot) Choose(ctx context.Context, awardID models.AwardID, nominee models.FriendID) error {
	var previous models.FriendID
	var hadPrevious bool

	return optimistic.Command{
		Apply: func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			previous, hadPrevious = b.choices[awardID]
			b.choices[awardID] = nominee
		},
		Write: func(ctx context.Context) error {
			_, err := b.client.CastVote(ctx, b.lobbyID, models.VoteCast{
				AwardID:       awardID,
				NomineeID:     nominee,
				VoterIdentity: b.voter,
				VoterFriendID: b.voterFriend,
			})
			return err
		},
		Compensate: func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			// a later choice owns the slot now
			if b.choices[awardID] != nominee {
				return
			}
			if hadPrevious {
				b.choices[awardID] = previous
			} else {
				delete(b.choices, awardID)
			}
		},
	}.Run(ctx)
}
