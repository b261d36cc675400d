package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ballpark-api/metrics"
	"ballpark-api/models"
	"ballpark-api/services"
)

type FeedComposer interface {
	Compose(ctx context.Context, viewerID string) ([]models.FeedPost, error)
}

type TrendAnalyzer interface {
	Trending(ctx context.Context, viewerID string, now time.Time) (*models.TrendingResponse, error)
}

type UserSuggester interface {
	Suggest(ctx context.Context, viewerID string) ([]models.SuggestedUser, error)
}

type ExploreController struct {
	feed        FeedComposer
	trends      TrendAnalyzer
	suggestions UserSuggester
	now         func() time.Time
}

func NewExploreController(feed FeedComposer, trends TrendAnalyzer, suggestions UserSuggester) *ExploreController {
	return &ExploreController{
		feed:        feed,
		trends:      trends,
		suggestions: suggestions,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Explore serves GET /api/explore?type=recommended|trending|suggested.
func (ec *ExploreController) Explore(c *gin.Context) {
	kind := c.DefaultQuery("type", "recommended")
	started := time.Now()
	ctx := c.Request.Context()

	switch kind {
	case "recommended":
		posts, err := ec.feed.Compose(ctx, viewerID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		metrics.ObserveExplore(kind, started, len(posts))
		c.JSON(http.StatusOK, gin.H{"posts": posts})

	case "trending":
		trending, err := ec.trends.Trending(ctx, viewerID(c), ec.now())
		if err != nil {
			respondError(c, err)
			return
		}
		metrics.ObserveExplore(kind, started, len(trending.TrendingPosts))
		c.JSON(http.StatusOK, trending)

	case "suggested":
		users, err := ec.suggestions.Suggest(ctx, viewerID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		metrics.ObserveExplore(kind, started, len(users))
		c.JSON(http.StatusOK, gin.H{"suggested_users": users})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be recommended, trending or suggested"})
	}
}

var (
	_ FeedComposer  = (*services.FeedService)(nil)
	_ TrendAnalyzer = (*services.TrendService)(nil)
	_ UserSuggester = (*services.SuggestionService)(nil)
)
