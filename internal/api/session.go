package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/threadmind/threadmind/internal/session"
	"github.com/threadmind/threadmind/pkg/config"
)

const (
	// ctxUserID is the gin context key the middleware binds the session's
	// user id under; zero means no session.
	ctxUserID = "sessionUserID"
	// ctxSessionID is the gin context key for the raw session id.
	ctxSessionID = "sessionID"
)

// SessionMiddleware resolves the session cookie to a user id before any
// method handler runs. A missing or stale cookie is not an error; the
// request simply proceeds unauthenticated.
func SessionMiddleware(store *session.Store, cfg *config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(cfg.CookieName)
		if err != nil || sid == "" {
			c.Next()
			return
		}

		userID, ok, err := store.UserID(c.Request.Context(), sid)
		if err != nil || !ok {
			c.Next()
			return
		}

		c.Set(ctxUserID, userID)
		c.Set(ctxSessionID, sid)
		c.Next()
	}
}

// CurrentUserID returns the user id bound to the request's session, or 0.
func CurrentUserID(c *gin.Context) int64 {
	if id, ok := c.Get(ctxUserID); ok {
		return id.(int64)
	}
	return 0
}

// CurrentSessionID returns the request's session id, or "".
func CurrentSessionID(c *gin.Context) string {
	if sid, ok := c.Get(ctxSessionID); ok {
		return sid.(string)
	}
	return ""
}

// SetSessionCookie attaches a session id to the caller
func SetSessionCookie(c *gin.Context, cfg *config.SessionConfig, sid string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName, sid, int(cfg.TTL.Seconds()), "/", "", cfg.Secure, true)
}

// ClearSessionCookie expires the session cookie on the caller
func ClearSessionCookie(c *gin.Context, cfg *config.SessionConfig) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName, "", -1, "/", "", cfg.Secure, true)
}
