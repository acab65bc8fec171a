package v1

import (
	"net/http"

	"skillmates-backend/internal/delivery/http/response"
	"skillmates-backend/internal/domain"
	"skillmates-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type SearchHandler struct {
	searchUC domain.SearchUsecase
}

func NewSearchHandler(optional, protected *gin.RouterGroup, searchUC domain.SearchUsecase) {
	handler := &SearchHandler{searchUC: searchUC}

	optional.GET("/search", handler.Search)
	optional.GET("/search/quick", handler.Quick)

	recent := protected.Group("/search/recent")
	{
		recent.GET("", handler.RecentSearches)
		recent.POST("", handler.RecordSearch)
		recent.DELETE("", handler.ClearRecentSearches)
	}
}

// Quick godoc
// @Summary      Quick search
// @Description  Top ranked members for the search dropdown. Empty queries return no results.
// @Tags         search
// @Produce      json
// @Param        q    query     string  false  "Search text"
// @Success      200  {object}  response.Response{data=domain.SearchResponse}
// @Router       /search/quick [get]
func (h *SearchHandler) Quick(c *gin.Context) {
	res, err := h.searchUC.Quick(c.Request.Context(), c.Query("q"))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Search results", res)
}

// Search godoc
// @Summary      Full search
// @Description  Every ranked match, optionally filtered. Not read-only: for an authenticated caller the query is also saved to recent searches.
// @Tags         search
// @Produce      json
// @Param        q          query     string  false  "Search text"
// @Param        role       query     string  false  "learner, teacher, both or all"
// @Param        expertise  query     string  false  "beginner, intermediate, advanced, expert or all"
// @Success      200        {object}  response.Response{data=domain.SearchResponse}
// @Failure      400        {object}  response.Response
// @Router       /search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	filter := domain.SearchFilter{Role: c.Query("role"), Expertise: c.Query("expertise")}
	res, err := h.searchUC.Search(c.Request.Context(), c.Query("q"), filter)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Search results", res)
}

// RecentSearches godoc
// @Summary      Recent searches
// @Tags         search
// @Produce      json
// @Success      200  {object}  response.Response{data=[]string}
// @Router       /search/recent [get]
// @Security     BearerAuth
func (h *SearchHandler) RecentSearches(c *gin.Context) {
	list, err := h.searchUC.RecentSearches(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Recent searches", list)
}

// RecordSearch godoc
// @Summary      Record a search
// @Tags         search
// @Accept       json
// @Produce      json
// @Param        request  body      domain.RecordSearchRequest  true  "Query"
// @Success      200      {object}  response.Response{data=[]string}
// @Router       /search/recent [post]
// @Security     BearerAuth
func (h *SearchHandler) RecordSearch(c *gin.Context) {
	var req domain.RecordSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(apperror.BadRequest("Invalid request body"))
		return
	}

	list, err := h.searchUC.RecordSearch(c.Request.Context(), req.Query)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Recent searches", list)
}

// ClearRecentSearches godoc
// @Summary      Clear recent searches
// @Tags         search
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /search/recent [delete]
// @Security     BearerAuth
func (h *SearchHandler) ClearRecentSearches(c *gin.Context) {
	if err := h.searchUC.ClearRecentSearches(c.Request.Context()); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Recent searches cleared", nil)
}
