package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nobodylogger/worklog-search/api/handlers"
	"github.com/nobodylogger/worklog-search/auth"
	"github.com/nobodylogger/worklog-search/logger"
)

const authCookieName = "auth-token"
const requestTimeout = 15 * time.Second

func loggingMiddleware(logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger.Info("request", "method", c.Request.Method, "path", c.Request.URL.Path)
		c.Next()
	}
}

// authMiddleware verifies the request credential and stores the user id for
// handlers. The token travels in the auth cookie or a Bearer header.
func authMiddleware(verifier *auth.Verifier, logger logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if len(token) == 0 {
			c.Abort()
			handlers.WriteError(c, http.StatusUnauthorized, handlers.CodeUnauthorized, "no auth token found")
			return
		}

		user, err := verifier.Verify(token)
		if err != nil {
			logger.Warn("rejected request with invalid token", "path", c.Request.URL.Path)
			c.Abort()
			handlers.WriteError(c, http.StatusUnauthorized, handlers.CodeUnauthorized, "invalid auth token")
			return
		}

		c.Set(handlers.ContextKeyUserID, user.ID)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(authCookieName); err == nil && len(cookie) > 0 {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}

	return ""
}

// timeoutMiddleware bounds each request so adapter fan-outs are cancellable.
func timeoutMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// _CORSMiddleware starts with _ so that it is not imported outside of the server package.
func _CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Authentication, accept, origin, Cache-Control, X-Requested-With") // nolint:lll
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)

			return
		}

		c.Next()
	}
}
