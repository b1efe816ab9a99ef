package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hydroshop/storefront/internal/session"
	"hydroshop/storefront/pkg/response"
)

const ContextKeySession = "session"

// Session loads the request's session into the context. A backend failure
// aborts with 500; a bad cookie never does.
func Session(manager session.Manager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := manager.Load(c.Request)
		if err != nil {
			logger.Error("session load failed", zap.Error(err))
			response.InternalError(c, "session unavailable")
			c.Abort()
			return
		}
		c.Set(ContextKeySession, s)
		c.Next()
	}
}

// GetSession returns the session Session stored, or a fresh one.
func GetSession(c *gin.Context) *session.Session {
	if v, ok := c.Get(ContextKeySession); ok {
		if s, ok := v.(*session.Session); ok {
			return s
		}
	}
	return session.New()
}
