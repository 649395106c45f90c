package controllers

import (
	"Awardly/middleware"
	"Awardly/models"
	"Awardly/services/ceremony"
	"net/http"

	"github.com/gin-gonic/gin"
)

// @Summary Starts the presentation
// @Description Closes voting and puts the show on its first slide
// @Tags presentation
// @Param Authorization header string true "Bearer JWT token"
// @Param lobby_id path string true "Lobby id"
// @Success 204
// @Failure 403 {object} object{error=string}
// @Router /auth/lobbies/{lobby_id}/presentation/start [post]
// @Security ApiKeyAuth
func StartPresentation(svc *ceremony.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.StartPresentation(c.Request.Context(), middleware.Principal(c), lobbyParam(c)); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// @Summary Moves the live slide
// @Description The slide is clamped to the deck, reaching the last one finishes the presentation
// @Tags presentation
// @Accept json
// @Produce json
// @Param Authorization header string true "Bearer JWT token"
// @Param lobby_id path string true "Lobby id"
// @Param body body models.SlideRequest true "Target slide"
// @Success 200 {object} object{slide=integer}
// @Failure 400 {object} object{error=string}
// @Failure 403 {object} object{error=string}
// @Router /auth/lobbies/{lobby_id}/presentation/slide [post]
// @Security ApiKeyAuth
func AdvanceSlide(svc *ceremony.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body models.SlideRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		slide, err := svc.AdvanceSlide(c.Request.Context(), middleware.Principal(c), lobbyParam(c), *body.Slide)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"slide": slide})
	}
}

// @Summary What the caller sees of the presentation
// @Description mode=live follows the host, mode=review follows the caller's own cursor once the show is finished. Without mode, review is picked when finished.
// @Tags presentation
// @Produce json
// @Param lobby_id path string true "Lobby id"
// @Param mode query string false "live or review"
// @Success 200 {object} presentation.View
// @Failure 400 {object} object{error=string}
// @Failure 404 {object} object{error=string}
// @Router /lobbies/{lobby_id}/presentation [get]
func PresentationView(svc *ceremony.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svc.PresentationView(c.Request.Context(), lobbyParam(c), middleware.ViewerID(c), c.Query("mode"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

// @Summary Moves the caller's review cursor
// @Tags presentation
// @Accept json
// @Produce json
// @Param lobby_id path string true "Lobby id"
// @Param body body models.SlideRequest true "Target slide"
// @Success 200 {object} presentation.View
// @Failure 400 {object} object{error=string}
// @Router /lobbies/{lobby_id}/presentation/review [post]
func MoveReviewCursor(svc *ceremony.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body models.SlideRequest
		if err := c.ShouldBindJSON(&body); err != nil {
			badRequest(c, err)
			return
		}
		view, err := svc.MoveReviewCursor(c.Request.Context(), lobbyParam(c), middleware.ViewerID(c), *body.Slide)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}
