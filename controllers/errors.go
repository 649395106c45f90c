package controllers

import (
	"Awardly/logging"
	"Awardly/services/ceremony"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError writes the JSON error matching err
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ceremony.ErrNotAuthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, ceremony.ErrNotAuthorized):
		status = http.StatusForbidden
	case errors.Is(err, ceremony.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ceremony.ErrVotingClosed), errors.Is(err, ceremony.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, ceremony.ErrValidation):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		logging.Log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
}
