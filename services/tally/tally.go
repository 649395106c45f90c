// Package tally counts votes and detects ties. Everything here is pure and
// works on already loaded rows.
package tally

import (
	"Awardly/models"
	"Awardly/models/postgres"
	"sort"
)

// Result is the vote count of one nominee in one award
type Result struct {
	FriendID models.FriendID `json:"friend_id"`
	Name     string          `json:"name"`
	Votes    int             `json:"votes"`
}

// Outcome is what the result slide of an award shows
type Outcome struct {
	TopCount  int      `json:"top_count"`
	Winners   []Result `json:"winners"`
	RunnerUps []Result `json:"runner_ups"`
	IsTie     bool     `json:"is_tie"`
	HasWinner bool     `json:"has_winner"`
}

// Progress counts distinct voters of one award
type Progress struct {
	AwardID    models.AwardID `json:"award_id"`
	Question   string         `json:"question"`
	VoterCount int            `json:"voter_count"`
}

type ballotKey struct {
	award   models.AwardID
	nominee models.FriendID
}

// Tally ranks the nominees of every award. Eligible nominees are listed even
// with zero votes, and a friend holding votes is listed even when the subset no
// longer names them. Order among equal counts follows the friends slice but is
// not part of the contract.
func Tally(awards []postgres.Award, votes []postgres.Vote, friends []postgres.Friend) map[models.AwardID][]Result {
	counts := make(map[ballotKey]int, len(votes))
	for _, v := range votes {
		counts[ballotKey{v.AwardID, v.NomineeID}]++
	}

	out := make(map[models.AwardID][]Result, len(awards))
	for i := range awards {
		award := &awards[i]
		results := make([]Result, 0, len(friends))
		for _, f := range friends {
			n := counts[ballotKey{award.ID, f.ID}]
			if n == 0 && !award.IsEligible(f.ID) {
				continue
			}
			results = append(results, Result{FriendID: f.ID, Name: f.Name, Votes: n})
		}
		sort.SliceStable(results, func(a, b int) bool {
			return results[a].Votes > results[b].Votes
		})
		out[award.ID] = results
	}
	return out
}

// Summarize applies tie detection to ranked results. A zero-vote award has no
// winner at all.
func Summarize(results []Result) Outcome {
	var o Outcome
	for _, r := range results {
		if r.Votes > o.TopCount {
			o.TopCount = r.Votes
		}
	}
	for _, r := range results {
		switch {
		case r.Votes == 0:
		case r.Votes == o.TopCount:
			o.Winners = append(o.Winners, r)
		default:
			o.RunnerUps = append(o.RunnerUps, r)
		}
	}
	o.HasWinner = len(o.Winners) > 0
	o.IsTie = len(o.Winners) > 1
	return o
}

// VotingProgress counts distinct voter identities per award, in award order
func VotingProgress(awards []postgres.Award, votes []postgres.Vote) []Progress {
	seen := make(map[models.AwardID]map[string]struct{}, len(awards))
	for _, v := range votes {
		voters, ok := seen[v.AwardID]
		if !ok {
			voters = make(map[string]struct{})
			seen[v.AwardID] = voters
		}
		voters[v.VoterIdentity] = struct{}{}
	}

	progress := make([]Progress, 0, len(awards))
	for _, a := range awards {
		progress = append(progress, Progress{
			AwardID:    a.ID,
			Question:   a.Question,
			VoterCount: len(seen[a.ID]),
		})
	}
	return progress
}

// Voters lists every identity that cast at least one vote, sorted
func Voters(votes []postgres.Vote) []string {
	set := make(map[string]struct{})
	for _, v := range votes {
		set[v.VoterIdentity] = struct{}{}
	}
	voters := make([]string, 0, len(set))
	for name := range set {
		voters = append(voters, name)
	}
	sort.Strings(voters)
	return voters
}
