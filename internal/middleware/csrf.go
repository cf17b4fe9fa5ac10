package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SebasM79/gestion-academica/internal/session"
	appErrors "github.com/SebasM79/gestion-academica/pkg/errors"
	"github.com/SebasM79/gestion-academica/pkg/response"
)

// CSRF verifies the anti-forgery token on mutating requests from
// authenticated sessions. The token travels in a header and must be signed
// for the caller's session ID, so a cookie replayed from another origin
// cannot mutate state on its own.
func CSRF(csrf *session.CSRF, headerName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		if Principal(c) == nil {
			c.Next()
			return
		}

		token := c.GetHeader(headerName)
		if token == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrProhibido, "Falta el token CSRF"))
			c.Abort()
			return
		}
		if err := csrf.Validate(token, SessionID(c)); err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrProhibido, "Token CSRF inválido"))
			c.Abort()
			return
		}
		c.Next()
	}
}
