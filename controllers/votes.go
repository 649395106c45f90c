package controllers

import (
	"Awardly/middleware"
	"Awardly/models"
	"Awardly/services/ceremony"
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Casts or replaces a vote
// @Description The voter is the friend picked as voter_friend_id, else voter_identity, else the name remembered when joining
// @Tags votes
// @Accept json
// @Produce json
// @Param lobby_id path string true "Lobby id"
// @Param body body models.VoteCast true "Vote"
// @Success 200 {object} object{vote_id=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /lobbies/{lobby_id}/votes [post]
func CastVote(svc *ceremony.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body models.VoteCast
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		if body.VoterIdentity == "" && body.VoterFriendID == "" {
			body.VoterIdentity = middleware.RememberedVoter(c)
		}
		id, err := svc.Cast(c.Request.Context(), lobbyParam(c), ceremony.Ballot{
			AwardID:       body.AwardID,
			NomineeID:     body.NomineeID,
			VoterIdentity: body.VoterIdentity,
			VoterFriendID: body.VoterFriendID,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"vote_id": id})
	}
}

// @Summary Ranked results of every award
// @Tags votes
// @Produce json
// @Param lobby_id path string true "Lobby id"
// @Success 200 {array} ceremony.AwardResults
// @Failure 404 {object} object{error=string}
// @Router /lobbies/{lobby_id}/results [get]
func GetVoteResults(svc *ceremony.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		results, err := svc.GetVoteResults(c.Request.Context(), lobbyParam(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
	}
}

// @Summary How many voters answered each award
// @Tags votes
// @Produce json
// @Param lobby_id path string true "Lobby id"
// @Success 200 {array} tally.Progress
// @Failure 404 {object} object{error=string}
// @Router /lobbies/{lobby_id}/progress [get]
func GetVotingProgress(svc *ceremony.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		progress, err := svc.GetVotingProgress(c.Request.Context(), lobbyParam(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, progress)
	}
}

// @Summary Names of everyone who voted at least once
// @Tags votes
// @Produce json
// @Param lobby_id path string true "Lobby id"
// @Success 200 {array} string
// @Failure 404 {object} object{error=string}
// @Router /lobbies/{lobby_id}/voters [get]
func GetVotersWhoVoted(svc *ceremony.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		voters, err := svc.GetVotersWhoVoted(c.Request.Context(), lobbyParam(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, voters)
	}
}
