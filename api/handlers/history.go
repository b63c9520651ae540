package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nobodylogger/worklog-search/logger"
	"github.com/nobodylogger/worklog-search/services/search"
	"github.com/nobodylogger/worklog-search/validation"
)

const (
	defaultRetentionDays = 30
	maxRetentionDays     = 365
)

type HistoryRequest struct {
	Limit int `form:"limit" json:"limit"`
}

type HistoryCleanupRequest struct {
	Days int `form:"days" json:"days"`
}

type HistoryResponse struct {
	History []search.HistoryEntry `json:"history"`
}

type HistoryCleanupResponse struct {
	DeletedCount int `json:"deletedCount"`
}

func SetupHistory(router gin.IRouter, logger logger.Logger, service *search.Service, validator *validation.Validator) {
	router.GET("/search/history", handleHistory(service, logger, validator))
	router.DELETE("/search/history", handleHistoryCleanup(service, logger, validator))
}

func handleHistory(service *search.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requestUserID(c)
		if !ok {
			c.Abort()
			WriteError(c, http.StatusUnauthorized, CodeUnauthorized, "no verified user on request")
			return
		}

		request := HistoryRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from history request", "err", err.Error())
			c.Abort()
			WriteError(c, http.StatusBadRequest, CodeValidationError, "failed to extract request parameters")
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate history request", "err", err.Error())
			c.Abort()
			WriteError(c, http.StatusBadRequest, CodeValidationError, err.Error())
			return
		}

		entries, err := service.History(userID, request.Limit)
		if err != nil {
			logger.Error("failed to fetch search history", "user_id", userID, "err", err.Error())
			c.Abort()
			WriteError(c, http.StatusInternalServerError, CodeSearchHistoryError, "failed to fetch search history")
			return
		}

		writeSuccess(c, HistoryResponse{History: entries}, "search history fetched successfully")
	}
}

func handleHistoryCleanup(service *search.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requestUserID(c)
		if !ok {
			c.Abort()
			WriteError(c, http.StatusUnauthorized, CodeUnauthorized, "no verified user on request")
			return
		}

		request := HistoryCleanupRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from history cleanup request", "err", err.Error())
			c.Abort()
			WriteError(c, http.StatusBadRequest, CodeValidationError, "failed to extract request parameters")
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate history cleanup request", "err", err.Error())
			c.Abort()
			WriteError(c, http.StatusBadRequest, CodeValidationError, err.Error())
			return
		}

		days := request.Days
		if days == 0 {
			days = defaultRetentionDays
		}
		if days > maxRetentionDays {
			c.Abort()
			WriteError(c, http.StatusBadRequest, CodeValidationError,
				fmt.Sprintf("retention days must not exceed %d", maxRetentionDays))
			return
		}

		deleted, err := service.ClearHistory(userID, days)
		if err != nil {
			logger.Error("failed to clean up search history", "user_id", userID, "err", err.Error())
			c.Abort()
			WriteError(c, http.StatusInternalServerError, CodeHistoryCleanupError, "failed to clean up search history")
			return
		}

		writeSuccess(c, HistoryCleanupResponse{DeletedCount: deleted},
			fmt.Sprintf("removed %d search history entries", deleted))
	}
}
