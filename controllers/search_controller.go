package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ballpark-api/services"
	"ballpark-api/utils"
)

type SearchController struct {
	search *services.SearchService
	posts  *services.PostService
}

func NewSearchController(search *services.SearchService, posts *services.PostService) *SearchController {
	return &SearchController{search: search, posts: posts}
}

// Search serves GET /api/search?q=&type=all|users|posts.
func (sc *SearchController) Search(c *gin.Context) {
	kind := services.SearchType(c.DefaultQuery("type", string(services.SearchAll)))

	result, err := sc.search.Search(c.Request.Context(), viewerID(c), c.Query("q"), kind)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type AdvancedSearchRequest struct {
	Query    string `form:"q" binding:"max=200"`
	Type     string `form:"type"`
	SortBy   string `form:"sortBy"`
	MinLikes int64  `form:"minLikes" binding:"min=0"`
	Hashtag  string `form:"hashtag" binding:"max=100"`
	Location string `form:"location" binding:"max=100"`
	Team     string `form:"favoriteTeam" binding:"max=100"`
}

// AdvancedSearch serves GET /api/search/advanced. Type defaults to posts.
func (sc *SearchController) AdvancedSearch(c *gin.Context) {
	var req AdvancedSearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	result, err := sc.search.AdvancedSearch(c.Request.Context(), viewerID(c), services.AdvancedQuery{
		Query:    req.Query,
		Type:     services.SearchType(req.Type),
		SortBy:   services.SearchSort(req.SortBy),
		MinLikes: req.MinLikes,
		Hashtag:  req.Hashtag,
		Location: req.Location,
		Team:     req.Team,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetHashtag serves GET /api/hashtag/:tag.
func (sc *SearchController) GetHashtag(c *gin.Context) {
	page, limit := utils.ParsePagination(c, 20, 50)

	result, err := sc.posts.ByHashtag(c.Request.Context(), viewerID(c), c.Param("tag"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
