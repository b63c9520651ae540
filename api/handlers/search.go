package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nobodylogger/worklog-search/logger"
	"github.com/nobodylogger/worklog-search/services/search"
	"github.com/nobodylogger/worklog-search/validation"
)

// ContextKeyUserID is where the auth middleware stores the verified user id.
const ContextKeyUserID = "userID"

type SearchRequest struct {
	Query  string `form:"q" json:"q" validate:"required,valid_keywords"`
	Type   string `form:"type" json:"type"`
	Limit  int    `form:"limit" json:"limit"`
	Offset int    `form:"offset" json:"offset"`
}

type AdvancedSearchRequest struct {
	Keywords  string         `json:"keywords" validate:"omitempty,valid_keywords"`
	Filters   *FilterRequest `json:"filters"`
	Type      string         `json:"type" validate:"omitempty,oneof=all tasks projects categories tags"`
	SortBy    string         `json:"sort_by" validate:"omitempty,oneof=relevance created updated priority deadline"`
	SortOrder string         `json:"sort_order" validate:"omitempty,oneof=asc desc"`
	Limit     int            `json:"limit"`
	Offset    int            `json:"offset"`
}

type FilterRequest struct {
	Categories []int64           `json:"categories"`
	Tags       []int64           `json:"tags"`
	Projects   []int64           `json:"projects"`
	DateRange  *DateRangeRequest `json:"date_range"`
}

type DateRangeRequest struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func SetupSearch(router gin.IRouter, logger logger.Logger, service *search.Service, validator *validation.Validator) {
	router.GET("/search", handleSearch(service, logger, validator))
	router.POST("/search/advanced", handleAdvancedSearch(service, logger, validator))
}

func handleSearch(service *search.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requestUserID(c)
		if !ok {
			c.Abort()
			WriteError(c, http.StatusUnauthorized, CodeUnauthorized, "no verified user on request")
			return
		}

		request := SearchRequest{}
		if err := c.ShouldBindQuery(&request); err != nil {
			logger.Warn("could not extract expected params from search request", "err", err.Error())
			c.Abort()
			WriteError(c, http.StatusBadRequest, CodeValidationError, "failed to extract request parameters")
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate search request", "err", err.Error())
			c.Abort()
			WriteError(c, http.StatusBadRequest, CodeValidationError, err.Error())
			return
		}

		query, err := search.NormalizeSimple(search.SimpleParams{
			Query:  request.Query,
			Scope:  request.Type,
			Limit:  request.Limit,
			Offset: request.Offset,
		})
		if err != nil {
			logger.Warn("could not normalize search request", "err", err.Error())
			c.Abort()
			WriteError(c, http.StatusBadRequest, CodeValidationError, err.Error())
			return
		}

		results, err := service.Search(c.Request.Context(), userID, query)
		if err != nil {
			logger.Error("search failed", "user_id", userID, "err", err.Error())
			c.Abort()
			WriteError(c, http.StatusInternalServerError, CodeSearchError, "search failed")
			return
		}

		writeSuccess(c, results, fmt.Sprintf("found %d results", results.Total))
	}
}

func handleAdvancedSearch(service *search.Service, logger logger.Logger, validator *validation.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requestUserID(c)
		if !ok {
			c.Abort()
			WriteError(c, http.StatusUnauthorized, CodeUnauthorized, "no verified user on request")
			return
		}

		request := AdvancedSearchRequest{}
		if err := c.ShouldBindJSON(&request); err != nil {
			logger.Warn("could not extract advanced search request body", "err", err.Error())
			c.Abort()
			WriteError(c, http.StatusBadRequest, CodeValidationError, "failed to parse request body")
			return
		}

		if err := validator.Validate(request); err != nil {
			logger.Warn("could not validate advanced search request", "err", err.Error())
			c.Abort()
			WriteError(c, http.StatusBadRequest, CodeValidationError, err.Error())
			return
		}

		query, err := search.NormalizeAdvanced(advancedParams(&request))
		if err != nil {
			logger.Warn("could not normalize advanced search request", "err", err.Error())
			c.Abort()
			WriteError(c, http.StatusBadRequest, CodeValidationError, err.Error())
			return
		}

		results, err := service.Search(c.Request.Context(), userID, query)
		if err != nil {
			logger.Error("advanced search failed", "user_id", userID, "err", err.Error())
			c.Abort()
			WriteError(c, http.StatusInternalServerError, CodeAdvancedSearchError, "advanced search failed")
			return
		}

		writeSuccess(c, results, fmt.Sprintf("found %d results", results.Total))
	}
}

func advancedParams(request *AdvancedSearchRequest) search.AdvancedParams {
	params := search.AdvancedParams{
		Keywords:  request.Keywords,
		Scope:     request.Type,
		SortBy:    request.SortBy,
		SortOrder: request.SortOrder,
		Limit:     request.Limit,
		Offset:    request.Offset,
	}
	if request.Filters != nil {
		filter := &search.FilterParams{
			Categories: request.Filters.Categories,
			Tags:       request.Filters.Tags,
			Projects:   request.Filters.Projects,
		}
		if request.Filters.DateRange != nil {
			filter.DateRange = &search.DateRangeParams{
				Start: request.Filters.DateRange.Start,
				End:   request.Filters.DateRange.End,
			}
		}
		params.Filter = filter
	}
	return params
}

func requestUserID(c *gin.Context) (int64, bool) {
	value, exists := c.Get(ContextKeyUserID)
	if !exists {
		return 0, false
	}
	userID, ok := value.(int64)
	return userID, ok
}
