package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/SebasM79/gestion-academica/internal/service"
	appErrors "github.com/SebasM79/gestion-academica/pkg/errors"
	"github.com/SebasM79/gestion-academica/pkg/response"
)

// RegistroHandler wires the public self-registration endpoint.
type RegistroHandler struct {
	service *service.RegistroService
}

// NewRegistroHandler creates a new handler.
func NewRegistroHandler(svc *service.RegistroService) *RegistroHandler {
	return &RegistroHandler{service: svc}
}

// Registrar godoc
// @Summary Request an account
// @Description Creates a PENDIENTE registration awaiting admin approval
// @Tags Registro
// @Accept json
// @Produce json
// @Success 201 {object} models.RegistroUsuario
// @Failure 400 {object} response.ErrorBody
// @Router /usuarios/registro [post]
func (h *RegistroHandler) Registrar(c *gin.Context) {
	var req service.RegistroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidacion, "Cuerpo de la petición inválido"))
		return
	}
	registro, err := h.service.Registrar(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, registro)
}
