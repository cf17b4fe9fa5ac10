package middleware

import (
	"github.com/gin-gonic/gin"

	appErrors "github.com/SebasM79/gestion-academica/pkg/errors"
	"github.com/SebasM79/gestion-academica/pkg/response"
)

// RequireAlumno allows only callers with an alumno profile.
func RequireAlumno() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := Principal(c)
		if principal == nil {
			response.Error(c, appErrors.ErrNoAutenticado)
			c.Abort()
			return
		}
		if principal.AlumnoID == "" {
			response.Error(c, appErrors.ErrProhibido)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireDocente allows only teaching staff.
func RequireDocente() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := Principal(c)
		if principal == nil {
			response.Error(c, appErrors.ErrNoAutenticado)
			c.Abort()
			return
		}
		if !principal.EsDocente() {
			response.Error(c, appErrors.ErrProhibido)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdminOrPreceptor allows account admins and administrative staff.
func RequireAdminOrPreceptor() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := Principal(c)
		if principal == nil {
			response.Error(c, appErrors.ErrNoAutenticado)
			c.Abort()
			return
		}
		if !principal.EsAdminOPreceptor() {
			response.Error(c, appErrors.ErrProhibido)
			c.Abort()
			return
		}
		c.Next()
	}
}
