package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/SebasM79/gestion-academica/internal/middleware"
	"github.com/SebasM79/gestion-academica/internal/service"
	appErrors "github.com/SebasM79/gestion-academica/pkg/errors"
	"github.com/SebasM79/gestion-academica/pkg/response"
)

// AdminHandler wires the administrative endpoints, guarded by
// RequireAdminOrPreceptor.
type AdminHandler struct {
	service *service.AdminService
	exports *service.ExportService
}

// NewAdminHandler creates a new handler.
func NewAdminHandler(svc *service.AdminService, exports *service.ExportService) *AdminHandler {
	return &AdminHandler{service: svc, exports: exports}
}

// Stats godoc
// @Summary Dashboard counters
// @Tags Admin
// @Produce json
// @Success 200 {object} service.Stats
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, stats)
}

// ListRegistros godoc
// @Summary List registrations
// @Tags Admin
// @Produce json
// @Param estado query string false "PENDIENTE, APROBADO or RECHAZADO"
// @Success 200 {array} models.RegistroUsuario
// @Router /admin/registros [get]
func (h *AdminHandler) ListRegistros(c *gin.Context) {
	registros, err := h.service.ListRegistros(c.Request.Context(), c.Query("estado"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, registros)
}

// AprobarRegistro godoc
// @Summary Approve a PENDIENTE registration
// @Tags Admin
// @Accept json
// @Produce json
// @Success 200 {object} models.RegistroUsuario
// @Failure 400 {object} response.ErrorBody
// @Router /admin/registros/{id}/aprobar [patch]
func (h *AdminHandler) AprobarRegistro(c *gin.Context) {
	var req service.RevisionRegistroRequest
	_ = c.ShouldBindJSON(&req)
	registro, err := h.service.AprobarRegistro(c.Request.Context(), c.Param("id"), middleware.Principal(c).PersonalID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, registro)
}

// RechazarRegistro godoc
// @Summary Reject a PENDIENTE registration
// @Tags Admin
// @Accept json
// @Produce json
// @Success 200 {object} models.RegistroUsuario
// @Failure 400 {object} response.ErrorBody
// @Router /admin/registros/{id}/rechazar [patch]
func (h *AdminHandler) RechazarRegistro(c *gin.Context) {
	var req service.RevisionRegistroRequest
	_ = c.ShouldBindJSON(&req)
	registro, err := h.service.RechazarRegistro(c.Request.Context(), c.Param("id"), middleware.Principal(c).PersonalID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, registro)
}

// ListAlumnos godoc
// @Summary List alumnos
// @Tags Admin
// @Produce json
// @Success 200 {array} models.AlumnoDetail
// @Router /admin/alumnos [get]
func (h *AdminHandler) ListAlumnos(c *gin.Context) {
	alumnos, err := h.service.ListAlumnos(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, alumnos)
}

// GetAlumno godoc
// @Summary Get one alumno
// @Tags Admin
// @Produce json
// @Success 200 {object} models.Alumno
// @Failure 404 {object} response.ErrorBody
// @Router /admin/alumnos/{id} [get]
func (h *AdminHandler) GetAlumno(c *gin.Context) {
	alumno, err := h.service.GetAlumno(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, alumno)
}

// CrearAlumno godoc
// @Summary Create an alumno profile
// @Tags Admin
// @Accept json
// @Produce json
// @Success 201 {object} models.Alumno
// @Failure 400 {object} response.ErrorBody
// @Router /admin/alumnos [post]
func (h *AdminHandler) CrearAlumno(c *gin.Context) {
	var req service.AlumnoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidacion, "Cuerpo de la petición inválido"))
		return
	}
	alumno, err := h.service.CrearAlumno(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, alumno)
}

// ActualizarAlumno godoc
// @Summary Update an alumno profile
// @Tags Admin
// @Accept json
// @Produce json
// @Success 200 {object} models.Alumno
// @Failure 404 {object} response.ErrorBody
// @Router /admin/alumnos/{id} [put]
func (h *AdminHandler) ActualizarAlumno(c *gin.Context) {
	var req service.AlumnoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidacion, "Cuerpo de la petición inválido"))
		return
	}
	alumno, err := h.service.ActualizarAlumno(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, alumno)
}

// EliminarAlumno godoc
// @Summary Delete an alumno
// @Tags Admin
// @Produce json
// @Success 204
// @Failure 404 {object} response.ErrorBody
// @Router /admin/alumnos/{id} [delete]
func (h *AdminHandler) EliminarAlumno(c *gin.Context) {
	if err := h.service.EliminarAlumno(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// NotasDeAlumno godoc
// @Summary Grades of any alumno
// @Tags Admin
// @Produce json
// @Success 200 {array} models.NotaDetail
// @Failure 404 {object} response.ErrorBody
// @Router /admin/alumnos/{id}/notas [get]
func (h *AdminHandler) NotasDeAlumno(c *gin.Context) {
	notas, err := h.service.NotasDeAlumno(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, notas)
}

// ExportarBoletin godoc
// @Summary Export the boletin of an alumno as PDF or CSV
// @Tags Admin
// @Produce application/pdf
// @Produce text/csv
// @Param formato query string false "pdf (default) or csv"
// @Success 200 {file} binary
// @Failure 404 {object} response.ErrorBody
// @Router /admin/alumnos/{id}/notas/export [get]
func (h *AdminHandler) ExportarBoletin(c *gin.Context) {
	file, err := h.exports.BoletinAlumno(c.Request.Context(), c.Param("id"), c.Query("formato"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, file.Filename))
	c.Data(200, file.ContentType, file.Content)
}

// ExportarAlumnos godoc
// @Summary Export the student roster as PDF or CSV
// @Tags Admin
// @Produce application/pdf
// @Produce text/csv
// @Param formato query string false "pdf (default) or csv"
// @Success 200 {file} binary
// @Router /admin/alumnos/export [get]
func (h *AdminHandler) ExportarAlumnos(c *gin.Context) {
	file, err := h.exports.ListadoAlumnos(c.Request.Context(), c.Query("formato"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, file.Filename))
	c.Data(200, file.ContentType, file.Content)
}

// ListCarreras godoc
// @Summary List carreras
// @Tags Admin
// @Produce json
// @Success 200 {array} models.Carrera
// @Router /admin/carreras [get]
func (h *AdminHandler) ListCarreras(c *gin.Context) {
	carreras, err := h.service.ListCarreras(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, carreras)
}

// CrearCarrera godoc
// @Summary Create a carrera
// @Tags Admin
// @Accept json
// @Produce json
// @Success 201 {object} models.Carrera
// @Failure 400 {object} response.ErrorBody
// @Router /admin/carreras [post]
func (h *AdminHandler) CrearCarrera(c *gin.Context) {
	var req service.CarreraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidacion, "Cuerpo de la petición inválido"))
		return
	}
	carrera, err := h.service.CrearCarrera(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, carrera)
}

// ActualizarCarrera godoc
// @Summary Update a carrera
// @Tags Admin
// @Accept json
// @Produce json
// @Success 200 {object} models.Carrera
// @Failure 404 {object} response.ErrorBody
// @Router /admin/carreras/{id} [put]
func (h *AdminHandler) ActualizarCarrera(c *gin.Context) {
	var req service.CarreraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidacion, "Cuerpo de la petición inválido"))
		return
	}
	carrera, err := h.service.ActualizarCarrera(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, carrera)
}

// EliminarCarrera godoc
// @Summary Delete a carrera
// @Tags Admin
// @Produce json
// @Success 204
// @Failure 400 {object} response.ErrorBody
// @Router /admin/carreras/{id} [delete]
func (h *AdminHandler) EliminarCarrera(c *gin.Context) {
	if err := h.service.EliminarCarrera(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListMaterias godoc
// @Summary List materias with enrollment counts
// @Tags Admin
// @Produce json
// @Success 200 {array} models.MateriaConAlumnos
// @Router /admin/materias [get]
func (h *AdminHandler) ListMaterias(c *gin.Context) {
	materias, err := h.service.ListMaterias(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, materias)
}

// CrearMateria godoc
// @Summary Create a materia
// @Tags Admin
// @Accept json
// @Produce json
// @Success 201 {object} models.Materia
// @Failure 400 {object} response.ErrorBody
// @Router /admin/materias [post]
func (h *AdminHandler) CrearMateria(c *gin.Context) {
	var req service.MateriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidacion, "Cuerpo de la petición inválido"))
		return
	}
	materia, err := h.service.CrearMateria(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, materia)
}

// ActualizarMateria godoc
// @Summary Update a materia
// @Tags Admin
// @Accept json
// @Produce json
// @Success 200 {object} models.Materia
// @Failure 404 {object} response.ErrorBody
// @Router /admin/materias/{id} [put]
func (h *AdminHandler) ActualizarMateria(c *gin.Context) {
	var req service.MateriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidacion, "Cuerpo de la petición inválido"))
		return
	}
	materia, err := h.service.ActualizarMateria(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, materia)
}

// EliminarMateria godoc
// @Summary Delete a materia
// @Tags Admin
// @Produce json
// @Success 204
// @Failure 404 {object} response.ErrorBody
// @Router /admin/materias/{id} [delete]
func (h *AdminHandler) EliminarMateria(c *gin.Context) {
	if err := h.service.EliminarMateria(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListInscripciones godoc
// @Summary List carrera enrollments
// @Tags Admin
// @Produce json
// @Success 200 {array} models.InscripcionCarreraDetail
// @Router /admin/inscripciones [get]
func (h *AdminHandler) ListInscripciones(c *gin.Context) {
	inscripciones, err := h.service.ListInscripcionesCarrera(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, inscripciones)
}

// CrearInscripcion godoc
// @Summary Enroll an alumno in a carrera
// @Tags Admin
// @Accept json
// @Produce json
// @Success 201 {object} models.InscripcionCarrera
// @Failure 400 {object} response.ErrorBody
// @Router /admin/inscripciones [post]
func (h *AdminHandler) CrearInscripcion(c *gin.Context) {
	var req service.InscripcionCarreraRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidacion, "Cuerpo de la petición inválido"))
		return
	}
	inscripcion, err := h.service.InscribirEnCarrera(c.Request.Context(), middleware.Principal(c).PersonalID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, inscripcion)
}
