package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SebasM79/gestion-academica/internal/middleware"
	"github.com/SebasM79/gestion-academica/internal/service"
	"github.com/SebasM79/gestion-academica/internal/session"
	"github.com/SebasM79/gestion-academica/pkg/config"
	appErrors "github.com/SebasM79/gestion-academica/pkg/errors"
	"github.com/SebasM79/gestion-academica/pkg/response"
)

type loginPayload struct {
	DNI      string `json:"dni"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthHandler wires the session endpoints.
type AuthHandler struct {
	service *service.AuthService
	csrf    *session.CSRF
	session config.SessionConfig
	csrfCfg config.CSRFConfig
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService, csrf *session.CSRF, sessionCfg config.SessionConfig, csrfCfg config.CSRFConfig) *AuthHandler {
	return &AuthHandler{service: svc, csrf: csrf, session: sessionCfg, csrfCfg: csrfCfg}
}

// Csrf godoc
// @Summary Issue a CSRF token
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /csrf [get]
func (h *AuthHandler) Csrf(c *gin.Context) {
	token, err := h.csrf.Generate(middleware.SessionID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.SetCookie(h.csrfCfg.CookieName, token, int(h.csrfCfg.TTL.Seconds()), "/", "", h.session.CookieSecure, false)
	response.OK(c, gin.H{"csrfToken": token})
}

// Login godoc
// @Summary Authenticate with DNI and password
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidacion, "Cuerpo de la petición inválido"))
		return
	}
	username := payload.Username
	if username == "" {
		username = payload.DNI
	}

	sess, principal, err := h.service.Login(c.Request.Context(), service.LoginRequest{
		Username: username,
		Password: payload.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetCookie(h.session.CookieName, sess.ID, int(h.session.TTL.Seconds()), "/", "", h.session.CookieSecure, true)
	response.OK(c, gin.H{
		"ok":                    true,
		"rol":                   principal.Rol(),
		"debe_cambiar_password": principal.DebeCambiarPassword,
	})
}

// Logout godoc
// @Summary Close the current session
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), middleware.SessionID(c)); err != nil {
		response.Error(c, err)
		return
	}
	c.SetCookie(h.session.CookieName, "", -1, "/", "", h.session.CookieSecure, true)
	response.OK(c, gin.H{"ok": true})
}

// Me godoc
// @Summary Current user and profile
// @Tags Auth
// @Produce json
// @Success 200 {object} service.MeResponse
// @Failure 401 {object} response.ErrorBody
// @Router /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	principal := middleware.Principal(c)
	if principal == nil {
		response.Error(c, appErrors.ErrNoAutenticado)
		return
	}
	res, err := h.service.Me(c.Request.Context(), principal)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}

// CambiarPassword godoc
// @Summary Change the account password
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 400 {object} response.ErrorBody
// @Router /password [post]
func (h *AuthHandler) CambiarPassword(c *gin.Context) {
	principal := middleware.Principal(c)
	if principal == nil {
		response.Error(c, appErrors.ErrNoAutenticado)
		return
	}
	var req service.CambiarPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidacion, "Cuerpo de la petición inválido"))
		return
	}
	if err := h.service.CambiarPassword(c.Request.Context(), principal, middleware.SessionID(c), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"ok": true})
}
