package middleware

import (
	"net/http"

	"github.com/OldiBike/mototrip-planner-sub000/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionIDKey is the gin context key of the console session id.
const SessionIDKey = logger.SessionIDKey

const sessionMaxAge = 7 * 24 * 3600

// ConsoleSession attaches a console session id to every request, issuing a
// cookie on first visit. Anything that is not a UUID is replaced.
func ConsoleSession(cookieName string, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(cookieName)
		if err == nil {
			_, err = uuid.Parse(sessionID)
		}
		if err != nil {
			sessionID = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, sessionID, sessionMaxAge, "/", "", secure, true)
		}
		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

// SessionID returns the console session id set by ConsoleSession.
func SessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}
