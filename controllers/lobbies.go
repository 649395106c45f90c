package controllers

import (
	"Awardly/middleware"
	"Awardly/models"
	"Awardly/services/ceremony"
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Creates a new lobby
// @Description Creates a lobby in setup state owned by the caller and returns its id and share code
// @Tags lobby
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param body body models.LobbyCreation true "Lobby name"
// @Success 201 {object} object{lobby_id=string,share_code=string}
// @Failure 400 {object} object{error=string}
// @Failure 401 {object} object{error=string}
// @Router /auth/lobbies [post]
// @Security ApiKeyAuth
func CreateLobby(svc *ceremony.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body models.LobbyCreation
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		lobby, err := svc.CreateLobby(c.Request.Context(), middleware.Principal(c), body.Name)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"lobby_id": lobby.ID, "share_code": lobby.ShareCode})
	}
}

// @Summary Lists the caller's lobbies
// @Tags lobby
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {array} postgres.Lobby
// @Failure 401 {object} object{error=string}
// @Router /auth/lobbies [get]
// @Security ApiKeyAuth
func GetUserLobbies(svc *ceremony.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		lobbies, err := svc.GetUserLobbies(c.Request.Context(), middleware.Principal(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, lobbies)
	}
}

// @Summary Gives info of a lobby
// @Description Given a lobby id, it will return its information
// @Tags lobby
// @Produce json
// @Param lobby_id path string true "Id of the lobby wanted"
// @Success 200 {object} postgres.Lobby
// @Failure 404 {object} object{error=string}
// @Router /lobbies/{lobby_id} [get]
func GetLobby(svc *ceremony.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		lobby, err := svc.GetLobby(c.Request.Context(), lobbyParam(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, lobby)
	}
}

// @Summary Finds a lobby by its share code
// @Tags lobby
// @Produce json
// @Param share_code path string true "Six character share code, any casing"
// @Success 200 {object} postgres.Lobby
// @Failure 404 {object} object{error=string}
// @Router /join/{share_code} [get]
func GetLobbyByShareCode(svc *ceremony.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		lobby, err := svc.GetLobbyByShareCode(c.Request.Context(), c.Param("share_code"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, lobby)
	}
}

// @Summary Joins a lobby as a voter
// @Description Remembers the voter name in the session, later votes without an identity use it
// @Tags lobby
// @Accept json
// @Produce json
// @Param share_code path string true "Share code"
// @Param body body models.VoterRegistration true "Voter name"
// @Success 200 {object} object{lobby_id=string,voter_name=string}
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /join/{share_code} [post]
func RememberVoter(svc *ceremony.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body models.VoterRegistration
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		lobby, err := svc.GetLobbyByShareCode(c.Request.Context(), c.Param("share_code"))
		if err != nil {
			respondError(c, err)
			return
		}
		name, err := svc.ResolveVoter(c.Request.Context(), lobby.ID, body.VoterName, "")
		if err != nil {
			respondError(c, err)
			return
		}
		if err := middleware.RememberVoter(c, name); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"lobby_id": lobby.ID, "voter_name": name})
	}
}

// @Summary Opens or closes voting
// @Tags lobby
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param lobby_id path string true "Lobby id"
// @Success 200 {object} object{voting_open=boolean}
// @Failure 401 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/lobbies/{lobby_id}/voting/toggle [post]
// @Security ApiKeyAuth
func ToggleVoting(svc *ceremony.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		open, err := svc.ToggleVoting(c.Request.Context(), middleware.Principal(c), lobbyParam(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"voting_open": open})
	}
}

// @Summary Deletes a lobby with its friends, awards and votes
// @Tags lobby
// @Param Authorization header string true "Bearer JWT token"
// @Param lobby_id path string true "Lobby id"
// @Success 204
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/lobbies/{lobby_id} [delete]
// @Security ApiKeyAuth
func DeleteLobby(svc *ceremony.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteLobby(c.Request.Context(), middleware.Principal(c), lobbyParam(c)); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary Deletes every vote of a lobby
// @Description Voting and presentation flags are left as they are
// @Tags votes
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param lobby_id path string true "Lobby id"
// @Success 200 {object} object{deleted=integer}
// @Failure 403 {object} object{error=string}
// @Router /auth/lobbies/{lobby_id}/votes [delete]
// @Security ApiKeyAuth
func ResetVotes(svc *ceremony.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		deleted, err := svc.ResetVotes(c.Request.Context(), middleware.Principal(c), lobbyParam(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"deleted": deleted})
	}
}

func lobbyParam(c *gin.Context) models.LobbyID {
	return models.LobbyID(c.Param("lobby_id"))
}
