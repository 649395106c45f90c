package controllers

import (
	"Awardly/middleware"
	"Awardly/models"
	"Awardly/services/ceremony"
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Adds a friend to a lobby
// @Description Owner only, unless public friend join is enabled and the lobby is not presenting
// @Tags friends
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer JWT token"
// @Param lobby_id path string true "Lobby id"
// @Param body body models.FriendCreation true "Friend"
// @Success 201 {object} postgres.Friend
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Router /auth/lobbies/{lobby_id}/friends [post]
// @Security ApiKeyAuth
func AddFriend(svc *ceremony.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body models.FriendCreation
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		friend, err := svc.AddFriend(c.Request.Context(), middleware.Principal(c), lobbyParam(c), body.Name, body.ImageRef)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, friend)
	}
}

// @Summary Get the friends of a lobby
// @Tags friends
// @Produce json
// @Param lobby_id path string true "Lobby id"
// @Success 200 {array} ceremony.FriendView
// @Router /lobbies/{lobby_id}/friends [get]
func ListFriends(svc *ceremony.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		friends, err := svc.ListFriends(c.Request.Context(), lobbyParam(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, friends)
	}
}

// @Summary Removes a friend
// @Description Their votes are deleted and they leave every nominee list
// @Tags friends
// @Param Authorization header string true "Bearer JWT token"
// @Param friend_id path string true "Friend id"
// @Success 204
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/friends/{friend_id} [delete]
// @Security ApiKeyAuth
func RemoveFriend(svc *ceremony.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.RemoveFriend(c.Request.Context(), middleware.Principal(c), friendParam(c)); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary Sets the picture of a friend
// @Tags friends
// @Accept json
// @Param Authorization header string true "Bearer JWT token"
// @Param friend_id path string true "Friend id"
// @Param body body models.ImageAttachment true "Image reference from an upload ticket"
// @Success 204
// @Failure 400 {object} object{error=string}
// @Router /auth/friends/{friend_id}/image [put]
// @Security ApiKeyAuth
func AttachFriendImage(svc *ceremony.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body models.ImageAttachment
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		if err := svc.AttachFriendImage(c.Request.Context(), middleware.Principal(c), friendParam(c), body.ImageRef); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary Hands out a presigned upload URL for a friend picture
// @Tags friends
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Success 200 {object} models.UploadTicket
// @Failure 401 {object} object{error=string}
// @Router /auth/uploads [post]
// @Security ApiKeyAuth
func GenerateUploadURL(svc *ceremony.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticket, err := svc.GenerateUploadURL(c.Request.Context(), middleware.Principal(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, ticket)
	}
}

// @Summary Adds an award at the end of the lobby
// @Tags awards
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param lobby_id path string true "Lobby id"
// @Param body body models.AwardCreation true "Award question"
// @Success 201 {object} postgres.Award
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Router /auth/lobbies/{lobby_id}/awards [post]
// @Security ApiKeyAuth
func AddAward(svc *ceremony.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body models.AwardCreation
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		award, err := svc.AddAward(c.Request.Context(), middleware.Principal(c), lobbyParam(c), body.Question)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, award)
	}
}

// @Summary Adds several awards
// @Description Blank questions and questions already present, ignoring case, are skipped
// @Tags awards
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param lobby_id path string true "Lobby id"
// @Param body body models.AwardsBulk true "Questions"
// @Success 200 {object} models.BulkResult
// @Failure 403 {object} object{error=string}
// @Router /auth/lobbies/{lobby_id}/awards/bulk [post]
// @Security ApiKeyAuth
func AddAwardsBulk(svc *ceremony.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body models.AwardsBulk
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		result, err := svc.AddAwardsBulk(c.Request.Context(), middleware.Principal(c), lobbyParam(c), body.Questions)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// @Summary Get the awards of a lobby in presentation order
// @Tags awards
// @Produce json
// @Param lobby_id path string true "Lobby id"
// @Success 200 {array} postgres.Award
// @Router /lobbies/{lobby_id}/awards [get]
func ListAwards(svc *ceremony.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		awards, err := svc.ListAwards(c.Request.Context(), lobbyParam(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, awards)
	}
}

// @Summary Removes an award with its votes
// @Tags awards
// @Param Authorization header string true "Bearer JWT token"
// @Param award_id path string true "Award id"
// @Success 204
// @Failure 403 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /auth/awards/{award_id} [delete]
// @Security ApiKeyAuth
func RemoveAward(svc *ceremony.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.RemoveAward(c.Request.Context(), middleware.Principal(c), awardParam(c)); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary Changes the question of an award
// @Tags awards
// @Accept json
// @Param Authorization header string true "Bearer JWT token"
// @Param award_id path string true "Award id"
// @Param body body models.AwardCreation true "New question"
// @Success 204
// @Failure 400 {object} object{error=string}
// @Router /auth/awards/{award_id} [patch]
// @Security ApiKeyAuth
func UpdateAward(svc *ceremony.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body models.AwardCreation
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		if err := svc.UpdateAwardQuestion(c.Request.Context(), middleware.Principal(c), awardParam(c), body.Question); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary Restricts who can be voted for an award
// @Description An empty list makes every friend of the lobby eligible again
// @Tags awards
// @Accept json
// @Param Authorization header string true "Bearer JWT token"
// @Param award_id path string true "Award id"
// @Param body body models.NomineeSelection true "Nominee ids"
// @Success 204
// @Failure 400 {object} object{error=string}
// @Router /auth/awards/{award_id}/nominees [put]
// @Security ApiKeyAuth
func SetAwardNominees(svc *ceremony.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body models.NomineeSelection
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		if err := svc.SetAwardNominees(c.Request.Context(), middleware.Principal(c), awardParam(c), body.NomineeIDs); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func friendParam(c *gin.Context) models.FriendID {
	return models.FriendID(c.Param("friend_id"))
}

func awardParam(c *gin.Context) models.AwardID {
	return models.AwardID(c.Param("award_id"))
}
