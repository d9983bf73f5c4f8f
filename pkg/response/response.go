package response

import (
	"github.com/gin-gonic/gin"
)

// Every response carries {status, message, data?}. Status is "success" for
// 2xx, "fail" for client-caused 4xx, "error" for server-caused 5xx.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

type Envelope struct {
	Status    string            `json:"status"`
	Message   string            `json:"message"`
	Data      any               `json:"data,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// Success writes a 2xx envelope with optional payload.
func Success(c *gin.Context, code int, data any, message string) {
	c.JSON(code, Envelope{
		Status:    StatusSuccess,
		Message:   message,
		Data:      data,
		RequestID: c.GetString("request_id"),
	})
}

// Fail writes a 4xx envelope for client-caused failures. details carries
// field-level messages when the failure is a validation result.
func Fail(c *gin.Context, code int, message string, details map[string]string) {
	c.JSON(code, Envelope{
		Status:    StatusFail,
		Message:   message,
		Details:   details,
		RequestID: c.GetString("request_id"),
	})
}

// Error writes a 5xx envelope. The message is sanitized; internals belong in
// the log, not the response.
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Envelope{
		Status:    StatusError,
		Message:   message,
		RequestID: c.GetString("request_id"),
	})
}
