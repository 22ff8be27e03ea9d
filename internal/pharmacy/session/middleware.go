package session

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"eczane_backend/platform/config"
	"eczane_backend/platform/logger"
)

const contextSessionKey = "session"

// Middleware resolves the session cookie to a live session, creating one
// (and setting the cookie) for unknown or expired ids.
func Middleware(store *Store, cfg config.SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var id uuid.UUID
		if raw, err := c.Cookie(cfg.GetSessionCookieName()); err == nil {
			if parsed, perr := uuid.Parse(raw); perr == nil {
				id = parsed
			}
		}

		sess, created := store.GetOrCreate(id, c.ClientIP())
		if created {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cfg.GetSessionCookieName(), sess.ID.String(), 0, "/", "", cfg.GetSessionCookieSecure(), true)
		}

		c.Set(contextSessionKey, sess)
		ctx := context.WithValue(c.Request.Context(), logger.SessionIDKey, sess.ID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// KeepAlive holds the request's session for as long as the request runs.
// It must run after Middleware.
func KeepAlive(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess, ok := FromContext(c); ok {
			release := store.Hold(sess)
			defer release()
		}
		c.Next()
	}
}

// FromContext returns the session attached by Middleware.
func FromContext(c *gin.Context) (*Session, bool) {
	v, ok := c.Get(contextSessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := v.(*Session)
	return sess, ok
}
