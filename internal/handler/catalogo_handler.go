package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/SebasM79/gestion-academica/internal/service"
	"github.com/SebasM79/gestion-academica/pkg/response"
)

// CatalogoHandler wires the public catalogue endpoints.
type CatalogoHandler struct {
	service *service.CatalogoService
}

// NewCatalogoHandler creates a new handler.
func NewCatalogoHandler(svc *service.CatalogoService) *CatalogoHandler {
	return &CatalogoHandler{service: svc}
}

// ListCarreras godoc
// @Summary List carreras
// @Tags Catalogo
// @Produce json
// @Success 200 {array} models.Carrera
// @Router /carreras [get]
func (h *CatalogoHandler) ListCarreras(c *gin.Context) {
	carreras, err := h.service.ListCarreras(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, carreras)
}

// MateriasDeCarrera godoc
// @Summary List the materias of a carrera
// @Tags Catalogo
// @Produce json
// @Success 200 {array} models.MateriaDetail
// @Failure 404 {object} response.ErrorBody
// @Router /carreras/{id}/materias [get]
func (h *CatalogoHandler) MateriasDeCarrera(c *gin.Context) {
	materias, err := h.service.ListMateriasDeCarrera(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, materias)
}
