package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/SebasM79/gestion-academica/internal/middleware"
	"github.com/SebasM79/gestion-academica/internal/service"
	appErrors "github.com/SebasM79/gestion-academica/pkg/errors"
	"github.com/SebasM79/gestion-academica/pkg/response"
)

// DocenteHandler wires the teaching-staff endpoints. Routes are guarded by
// RequireDocente, so the principal always carries a personal ID here.
type DocenteHandler struct {
	service *service.DocenteService
}

// NewDocenteHandler creates a new handler.
func NewDocenteHandler(svc *service.DocenteService) *DocenteHandler {
	return &DocenteHandler{service: svc}
}

// Materias godoc
// @Summary Materias assigned to the caller
// @Tags Docente
// @Produce json
// @Success 200 {array} models.MateriaConAlumnos
// @Router /docente/materias [get]
func (h *DocenteHandler) Materias(c *gin.Context) {
	materias, err := h.service.MisMaterias(c.Request.Context(), middleware.Principal(c).PersonalID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, materias)
}

// Alumnos godoc
// @Summary Roster of a materia
// @Tags Docente
// @Produce json
// @Success 200 {array} models.AlumnoConNota
// @Failure 403 {object} response.ErrorBody
// @Router /docente/materias/{id}/alumnos [get]
func (h *DocenteHandler) Alumnos(c *gin.Context) {
	alumnos, err := h.service.AlumnosDeMateria(c.Request.Context(), middleware.Principal(c).PersonalID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, alumnos)
}

type cargarNotaPayload struct {
	MateriaID string `json:"materia_id"`
	service.CargarNotaRequest
}

// CargarNota godoc
// @Summary Create or replace a grade
// @Tags Docente
// @Accept json
// @Produce json
// @Success 200 {object} models.Nota
// @Failure 400 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Router /docente/notas [post]
func (h *DocenteHandler) CargarNota(c *gin.Context) {
	var payload cargarNotaPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidacion, "Cuerpo de la petición inválido"))
		return
	}
	if payload.MateriaID == "" {
		response.Error(c, appErrors.FieldError("materia_id", "Este campo es obligatorio"))
		return
	}
	nota, err := h.service.CargarNota(c.Request.Context(), middleware.Principal(c).PersonalID, payload.MateriaID, payload.CargarNotaRequest)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, nota)
}

// CrearMateria godoc
// @Summary Create a materia assigned to the caller
// @Tags Docente
// @Accept json
// @Produce json
// @Success 201 {object} models.Materia
// @Failure 400 {object} response.ErrorBody
// @Router /docente/materias [post]
func (h *DocenteHandler) CrearMateria(c *gin.Context) {
	var req service.CrearMateriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidacion, "Cuerpo de la petición inválido"))
		return
	}
	materia, err := h.service.CrearMateria(c.Request.Context(), middleware.Principal(c).PersonalID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, materia)
}

// ActualizarMateria godoc
// @Summary Update a materia the caller teaches
// @Tags Docente
// @Accept json
// @Produce json
// @Success 200 {object} models.Materia
// @Failure 403 {object} response.ErrorBody
// @Router /docente/materias/{id} [patch]
func (h *DocenteHandler) ActualizarMateria(c *gin.Context) {
	var req service.ActualizarMateriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidacion, "Cuerpo de la petición inválido"))
		return
	}
	materia, err := h.service.ActualizarMateria(c.Request.Context(), middleware.Principal(c).PersonalID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, materia)
}

// EliminarMateria godoc
// @Summary Delete a materia the caller teaches
// @Tags Docente
// @Produce json
// @Success 204
// @Failure 403 {object} response.ErrorBody
// @Router /docente/materias/{id} [delete]
func (h *DocenteHandler) EliminarMateria(c *gin.Context) {
	if err := h.service.EliminarMateria(c.Request.Context(), middleware.Principal(c).PersonalID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
