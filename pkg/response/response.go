package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/SebasM79/gestion-academica/pkg/errors"
)

// ErrorBody is the failure contract: a human-readable detail plus, for
// validation failures, per-field message lists.
type ErrorBody struct {
	Detail  string              `json:"detail"`
	Errores map[string][]string `json:"errores,omitempty"`
}

// JSON sends a success response with the resource as the body.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, data)
}

// OK responds with HTTP 200.
func OK(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, data)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, ErrorBody{Detail: appErr.Message, Errores: appErr.Fields})
}
