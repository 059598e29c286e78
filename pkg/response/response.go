package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/tutorhive/tutorhive-api/pkg/errors"
)

// ErrorEnvelope is the error response contract. Validation failures expose a
// flat `errors` map keyed by payload path alongside the typed error.
type ErrorEnvelope struct {
	Error  *appErrors.Error  `json:"error"`
	Errors map[string]string `json:"errors,omitempty"`
}

// JSON sends a success payload as-is. Schedule endpoints carry their shapes
// at the top level, so there is no data wrapper.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, payload)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusCreated, payload)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, ErrorEnvelope{Error: appErr, Errors: appErr.Fields})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
