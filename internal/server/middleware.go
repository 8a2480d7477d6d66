package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/megaplex/realestate/internal/auth"
)

const sessionKey = "session"

func setSession(c *gin.Context, sessionData *auth.SessionData) {
	c.Set(sessionKey, sessionData)
}

// GetSessionData returns the admin session attached by RequireAdminMiddleware
func GetSessionData(c *gin.Context) (*auth.SessionData, bool) {
	session, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}

	sessionData, ok := session.(*auth.SessionData)
	return sessionData, ok
}

// sessionToken returns the raw session cookie value, or "" when absent
func sessionToken(c *gin.Context, cookieName string) string {
	token, err := c.Cookie(cookieName)
	if err != nil {
		return ""
	}
	return token
}

func respondWithError(c *gin.Context, log zerolog.Logger, statusCode int, err error, message string) {
	log.Warn().Err(err).Msg(message)
	c.JSON(statusCode, gin.H{"error": message})
	c.Abort()
}

// RequireAdminMiddleware lets the request through only with a live admin session cookie
func RequireAdminMiddleware(sessions *auth.Manager, cookieName string, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionData, err := sessions.Authenticate(c.Request.Context(), sessionToken(c, cookieName))
		if err != nil {
			if errors.Is(err, auth.ErrUnauthorized) {
				respondWithError(c, log, http.StatusUnauthorized, err, "Unauthorized")
				return
			}
			log.Error().Err(err).Msg("Failed to check session")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		setSession(c, sessionData)
		c.Next()
	}
}
