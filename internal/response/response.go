package response

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Response is the envelope of every API reply. Code is set on errors only
// and is derived from the HTTP status, e.g. "unprocessable_entity".
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Code    string      `json:"code,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Success returns a success response
func Success(data interface{}) Response {
	return Response{
		Success: true,
		Message: "success",
		Data:    data,
	}
}

// Error returns an error response
func Error(statusCode int, message string) Response {
	return Response{
		Success: false,
		Message: message,
		Code:    StatusCode(statusCode),
	}
}

// StatusCode turns an HTTP status into a snake case error code.
func StatusCode(statusCode int) string {
	text := http.StatusText(statusCode)
	if text == "" {
		return "error"
	}
	return strings.ReplaceAll(strings.ToLower(text), " ", "_")
}

// JSON sends a JSON response
func JSON(c *gin.Context, statusCode int, response Response) {
	c.JSON(statusCode, response)
}

// SuccessJSON sends a success JSON response
func SuccessJSON(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, Success(data))
}

// CreatedJSON sends a 201 with a custom message
func CreatedJSON(c *gin.Context, message string, data interface{}) {
	JSON(c, http.StatusCreated, Response{Success: true, Message: message, Data: data})
}

// ErrorJSON sends an error JSON response
func ErrorJSON(c *gin.Context, statusCode int, message string) {
	JSON(c, statusCode, Error(statusCode, message))
}

// AbortJSON sends an error response and stops the handler chain
func AbortJSON(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, Error(statusCode, message))
}
