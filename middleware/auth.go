package middleware

import (
	"Awardly/logging"
	"Awardly/services/identity"
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// session keys
	principalKey = "Principal"
	viewerKey    = "Viewer"
	voterKey     = "VoterName"

	// gin context key
	principalCtxKey = "principal"
)

// AuthRequired resolves the principal from the bearer token, falling back to
// the one remembered in the session. Requests without either are rejected.
func AuthRequired(provider identity.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, provider) {
			// Abort the request with the appropriate error code
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		// Continue down the chain to handler etc
		c.Next()
	}
}

// OptionalAuth is AuthRequired for public routes: anonymous requests pass
func OptionalAuth(provider identity.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticate(c, provider)
		c.Next()
	}
}

func authenticate(c *gin.Context, provider identity.Provider) bool {
	session := sessions.Default(c)
	principal, err := provider.Authenticate(c.Request)
	switch {
	case err == nil:
		if session.Get(principalKey) != principal {
			session.Set(principalKey, principal)
			if err := session.Save(); err != nil {
				logging.Log.WithError(err).Warn("could not save session")
			}
		}
	case errors.Is(err, identity.ErrNoCredentials):
		cached, ok := session.Get(principalKey).(string)
		if !ok || cached == "" {
			return false
		}
		principal = cached
	default:
		logging.Log.WithError(err).Debug("rejected token")
		return false
	}
	c.Set(principalCtxKey, principal)
	return true
}

// Principal is the authenticated caller, empty for anonymous requests
func Principal(c *gin.Context) string {
	return c.GetString(principalCtxKey)
}

// ViewerID identifies a browser across requests for its review cursor. It is
// created on first use and lives in the session cookie.
func ViewerID(c *gin.Context) string {
	session := sessions.Default(c)
	if id, ok := session.Get(viewerKey).(string); ok && id != "" {
		return id
	}
	id := uuid.NewString()
	session.Set(viewerKey, id)
	if err := session.Save(); err != nil {
		logging.Log.WithError(err).Warn("could not save session")
	}
	return id
}

// RememberVoter keeps the voter name a participant joined with
func RememberVoter(c *gin.Context, name string) error {
	session := sessions.Default(c)
	session.Set(voterKey, name)
	return session.Save()
}

// RememberedVoter is the name stored by RememberVoter, if any
func RememberedVoter(c *gin.Context) string {
	name, _ := sessions.Default(c).Get(voterKey).(string)
	return name
}

// Logout forgets the principal remembered in the session
func Logout(c *gin.Context) {
	session := sessions.Default(c)
	user := session.Get(principalKey)
	// There is no session for the user, won't delete nothing
	if user == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session token"})
		return
	}

	session.Delete(principalKey)
	if err := session.Save(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
}
