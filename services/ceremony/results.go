package ceremony

import (
	"Awardly/models"
	"Awardly/models/postgres"
	"Awardly/services/store"
	"Awardly/services/tally"
	"context"
	"sort"
)

// AwardResults is the ranked outcome of one award
type AwardResults struct {
	AwardID  models.AwardID `json:"award_id"`
	Question string         `json:"question"`
	Order    int            `json:"order"`
	Results  []tally.Result `json:"results"`
	Outcome  tally.Outcome  `json:"outcome"`
}

// lobbyState is everything derived views are computed from
type lobbyState struct {
	lobby   *postgres.Lobby
	friends []postgres.Friend
	awards  []postgres.Award
	votes   []postgres.Vote
}

func (s *Service) load(ctx context.Context, lobbyID models.LobbyID) (*lobbyState, error) {
	var st lobbyState
	err := s.store.Transaction(ctx, func(tx store.Repository) error {
		var err error
		if st.lobby, err = tx.GetLobby(ctx, lobbyID); err != nil {
			return fromStore(err, "lobby")
		}
		if st.friends, err = tx.ListFriends(ctx, lobbyID); err != nil {
			return err
		}
		if st.awards, err = tx.ListAwards(ctx, lobbyID); err != nil {
			return err
		}
		st.votes, err = tx.ListVotes(ctx, lobbyID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (st *lobbyState) results() []AwardResults {
	tallies := tally.Tally(st.awards, st.votes, st.friends)
	out := make([]AwardResults, 0, len(st.awards))
	for _, a := range st.awards {
		ranked := tallies[a.ID]
		out = append(out, AwardResults{
			AwardID:  a.ID,
			Question: a.Question,
			Order:    a.OrderIndex,
			Results:  ranked,
			Outcome:  tally.Summarize(ranked),
		})
	}
	return out
}

func (st *lobbyState) voters() []string {
	names := make(map[models.FriendID]string, len(st.friends))
	for _, f := range st.friends {
		names[f.ID] = f.Name
	}
	identities := tally.Voters(st.votes)
	out := make([]string, 0, len(identities))
	for _, id := range identities {
		out = append(out, displayVoter(id, names))
	}
	sort.Strings(out)
	return out
}

// GetVoteResults ranks the nominees of every award, zero votes included
func (s *Service) GetVoteResults(ctx context.Context, lobbyID models.LobbyID) ([]AwardResults, error) {
	st, err := s.load(ctx, lobbyID)
	if err != nil {
		return nil, err
	}
	return st.results(), nil
}

// GetVotingProgress counts distinct voters per award
func (s *Service) GetVotingProgress(ctx context.Context, lobbyID models.LobbyID) ([]tally.Progress, error) {
	st, err := s.load(ctx, lobbyID)
	if err != nil {
		return nil, err
	}
	return tally.VotingProgress(st.awards, st.votes), nil
}

// GetVotersWhoVoted lists everyone who cast at least one vote
func (s *Service) GetVotersWhoVoted(ctx context.Context, lobbyID models.LobbyID) ([]string, error) {
	st, err := s.load(ctx, lobbyID)
	if err != nil {
		return nil, err
	}
	return st.voters(), nil
}
