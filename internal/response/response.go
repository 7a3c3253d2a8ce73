// Package response writes the uniform envelope every endpoint returns.
package response

import (
	"github.com/gin-gonic/gin"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/apperr"
)

// Envelope is the wire shape of every response body
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// New builds a fully populated envelope. Success is derived from the status.
func New(statusCode int, data interface{}, message string) Envelope {
	return Envelope{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    statusCode < 400,
	}
}

// Success writes a 2xx envelope carrying data
func Success(c *gin.Context, statusCode int, data interface{}, message string) {
	c.JSON(statusCode, New(statusCode, data, message))
}

// Error converts err to an envelope and aborts the handler chain. Errors that
// are not *apperr.Error are reported as a generic 500.
func Error(c *gin.Context, err error) {
	appErr := apperr.From(err)
	status := appErr.Kind.Status()
	c.AbortWithStatusJSON(status, New(status, nil, appErr.Message))
}
