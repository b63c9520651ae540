package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Error codes shared with API clients.
const (
	CodeValidationError       = "VALIDATION_ERROR"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeSearchError           = "SEARCH_ERROR"
	CodeAdvancedSearchError   = "ADVANCED_SEARCH_ERROR"
	CodeSearchHistoryError    = "SEARCH_HISTORY_ERROR"
	CodeHistoryCleanupError   = "SEARCH_HISTORY_CLEANUP_ERROR"
)

type response struct {
	Success   bool      `json:"success"`
	Data      any       `json:"data,omitempty"`
	Error     *apiError `json:"error,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp string    `json:"timestamp"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeSuccess(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, response{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// WriteError is exported for the auth middleware, which rejects requests
// before any handler runs.
func WriteError(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, response{
		Success:   false,
		Error:     &apiError{Code: code, Message: message},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
