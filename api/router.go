package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nobodylogger/worklog-search/api/handlers"
	"github.com/nobodylogger/worklog-search/auth"
	"github.com/nobodylogger/worklog-search/logger"
	"github.com/nobodylogger/worklog-search/services/search"
	"github.com/nobodylogger/worklog-search/validation"
)

func setupRoutes(router *gin.Engine, logger logger.Logger, searchService *search.Service, verifier *auth.Verifier, validator *validation.Validator) {
	router.GET("/health", health())

	authorized := router.Group("/", authMiddleware(verifier, logger))
	handlers.SetupSearch(authorized, logger, searchService, validator)
	handlers.SetupHistory(authorized, logger, searchService, validator)
}

func health() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	}
}

func newRouter() *gin.Engine {
	router := gin.Default()
	router.UseRawPath = true
	router.Use(_CORSMiddleware())
	router.Use(gin.Recovery())
	router.Use(timeoutMiddleware())

	return router
}
