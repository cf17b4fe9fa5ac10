package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/SebasM79/gestion-academica/internal/middleware"
)

// Handlers bundles the HTTP handlers the router mounts.
type Handlers struct {
	Auth     *AuthHandler
	Registro *RegistroHandler
	Catalogo *CatalogoHandler
	Alumno   *AlumnoHandler
	Docente  *DocenteHandler
	Admin    *AdminHandler
}

// RegisterRoutes mounts the API route tree under prefix. The session and
// CSRF middlewares run on the whole group; role guards gate the subtrees.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, sessionMW, csrfMW gin.HandlerFunc) {
	api := r.Group(prefix)
	api.Use(sessionMW, csrfMW)

	api.GET("/csrf", h.Auth.Csrf)
	api.POST("/login", h.Auth.Login)
	api.POST("/logout", h.Auth.Logout)
	api.POST("/usuarios/registro", h.Registro.Registrar)

	api.GET("/carreras", h.Catalogo.ListCarreras)
	api.GET("/carreras/:id/materias", h.Catalogo.MateriasDeCarrera)

	auth := api.Group("", middleware.RequireAuth())
	auth.GET("/me", h.Auth.Me)
	auth.POST("/password", h.Auth.CambiarPassword)

	alumno := api.Group("/alumnos/me", middleware.RequireAlumno())
	alumno.GET("", h.Alumno.Perfil)
	alumno.GET("/notas", h.Alumno.Notas)
	alumno.GET("/materias", h.Alumno.Materias)
	alumno.POST("/materias/:id/inscripcion", h.Alumno.Inscribir)
	alumno.DELETE("/materias/:id/inscripcion", h.Alumno.DarDeBaja)

	docente := api.Group("/docente", middleware.RequireDocente())
	docente.GET("/materias", h.Docente.Materias)
	docente.POST("/materias", h.Docente.CrearMateria)
	docente.PATCH("/materias/:id", h.Docente.ActualizarMateria)
	docente.DELETE("/materias/:id", h.Docente.EliminarMateria)
	docente.GET("/materias/:id/alumnos", h.Docente.Alumnos)
	docente.POST("/notas", h.Docente.CargarNota)

	admin := api.Group("/admin", middleware.RequireAdminOrPreceptor())
	admin.GET("/stats", h.Admin.Stats)

	admin.GET("/registros", h.Admin.ListRegistros)
	admin.PATCH("/registros/:id/aprobar", h.Admin.AprobarRegistro)
	admin.PATCH("/registros/:id/rechazar", h.Admin.RechazarRegistro)

	admin.GET("/alumnos", h.Admin.ListAlumnos)
	admin.POST("/alumnos", h.Admin.CrearAlumno)
	admin.GET("/alumnos/export", h.Admin.ExportarAlumnos)
	admin.GET("/alumnos/:id", h.Admin.GetAlumno)
	admin.PUT("/alumnos/:id", h.Admin.ActualizarAlumno)
	admin.DELETE("/alumnos/:id", h.Admin.EliminarAlumno)
	admin.GET("/alumnos/:id/notas", h.Admin.NotasDeAlumno)
	admin.GET("/alumnos/:id/notas/export", h.Admin.ExportarBoletin)

	admin.GET("/carreras", h.Admin.ListCarreras)
	admin.POST("/carreras", h.Admin.CrearCarrera)
	admin.PUT("/carreras/:id", h.Admin.ActualizarCarrera)
	admin.DELETE("/carreras/:id", h.Admin.EliminarCarrera)

	admin.GET("/materias", h.Admin.ListMaterias)
	admin.POST("/materias", h.Admin.CrearMateria)
	admin.PUT("/materias/:id", h.Admin.ActualizarMateria)
	admin.DELETE("/materias/:id", h.Admin.EliminarMateria)

	admin.GET("/inscripciones", h.Admin.ListInscripciones)
	admin.POST("/inscripciones", h.Admin.CrearInscripcion)
}
