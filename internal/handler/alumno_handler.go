package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/SebasM79/gestion-academica/internal/middleware"
	"github.com/SebasM79/gestion-academica/internal/service"
	"github.com/SebasM79/gestion-academica/pkg/response"
)

// AlumnoHandler wires the student self-service endpoints. Routes are guarded
// by RequireAlumno, so the principal always carries an alumno ID here.
type AlumnoHandler struct {
	service *service.AlumnoService
}

// NewAlumnoHandler creates a new handler.
func NewAlumnoHandler(svc *service.AlumnoService) *AlumnoHandler {
	return &AlumnoHandler{service: svc}
}

// Perfil godoc
// @Summary Own profile
// @Tags Alumno
// @Produce json
// @Success 200 {object} service.PerfilAlumno
// @Router /alumnos/me [get]
func (h *AlumnoHandler) Perfil(c *gin.Context) {
	perfil, err := h.service.Perfil(c.Request.Context(), middleware.Principal(c).AlumnoID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, perfil)
}

// Notas godoc
// @Summary Own grades
// @Tags Alumno
// @Produce json
// @Success 200 {array} models.NotaDetail
// @Router /alumnos/me/notas [get]
func (h *AlumnoHandler) Notas(c *gin.Context) {
	notas, err := h.service.MisNotas(c.Request.Context(), middleware.Principal(c).AlumnoID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, notas)
}

// Materias godoc
// @Summary Materias of the own carrera, flagged with enrollment state
// @Tags Alumno
// @Produce json
// @Success 200 {array} models.MateriaParaAlumno
// @Router /alumnos/me/materias [get]
func (h *AlumnoHandler) Materias(c *gin.Context) {
	materias, err := h.service.MisMaterias(c.Request.Context(), middleware.Principal(c).AlumnoID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, materias)
}

// Inscribir godoc
// @Summary Enroll in a materia
// @Tags Alumno
// @Produce json
// @Success 201 {object} map[string]bool
// @Failure 400 {object} response.ErrorBody
// @Router /alumnos/me/materias/{id}/inscripcion [post]
func (h *AlumnoHandler) Inscribir(c *gin.Context) {
	err := h.service.Inscribir(c.Request.Context(), middleware.Principal(c).AlumnoID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"ok": true})
}

// DarDeBaja godoc
// @Summary Withdraw from a materia
// @Tags Alumno
// @Produce json
// @Success 204
// @Failure 404 {object} response.ErrorBody
// @Router /alumnos/me/materias/{id}/inscripcion [delete]
func (h *AlumnoHandler) DarDeBaja(c *gin.Context) {
	err := h.service.DarDeBaja(c.Request.Context(), middleware.Principal(c).AlumnoID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
