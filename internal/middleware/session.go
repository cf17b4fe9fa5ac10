package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/SebasM79/gestion-academica/internal/models"
	"github.com/SebasM79/gestion-academica/internal/service"
	"github.com/SebasM79/gestion-academica/internal/session"
	appErrors "github.com/SebasM79/gestion-academica/pkg/errors"
	"github.com/SebasM79/gestion-academica/pkg/response"
)

const (
	// ContextPrincipalKey is the gin context key storing the caller identity.
	ContextPrincipalKey = "principal"
	// ContextSessionIDKey is the gin context key storing the session ID.
	ContextSessionIDKey = "sessionID"
)

// Session loads the session cookie, resolves the caller to a principal and
// attaches both to the context. Requests without a valid session pass
// through anonymously; route guards decide whether that is acceptable.
func Session(store *session.Store, authService *service.AuthService, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Cookie(cookieName)
		if err != nil || cookie == "" {
			c.Next()
			return
		}

		sess, err := store.Get(c.Request.Context(), cookie)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) {
				response.Error(c, appErrors.FromError(err))
				c.Abort()
				return
			}
			c.Next()
			return
		}

		principal, err := authService.Principal(c.Request.Context(), sess.UsuarioID)
		if err != nil {
			// A stale session for a deleted or deactivated account is
			// treated as anonymous, not as a server failure.
			c.Next()
			return
		}

		c.Set(ContextPrincipalKey, principal)
		c.Set(ContextSessionIDKey, sess.ID)
		c.Next()
	}
}

// Principal returns the caller identity attached by Session, or nil.
func Principal(c *gin.Context) *models.Principal {
	value, exists := c.Get(ContextPrincipalKey)
	if !exists {
		return nil
	}
	principal, ok := value.(*models.Principal)
	if !ok {
		return nil
	}
	return principal
}

// SessionID returns the session ID attached by Session, or "".
func SessionID(c *gin.Context) string {
	value, exists := c.Get(ContextSessionIDKey)
	if !exists {
		return ""
	}
	id, _ := value.(string)
	return id
}

// RequireAuth blocks anonymous requests.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Principal(c) == nil {
			response.Error(c, appErrors.ErrNoAutenticado)
			c.Abort()
			return
		}
		c.Next()
	}
}
