package controllers

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ballpark-api/middleware"
)

type DuePublisher interface {
	PublishDuePosts(ctx context.Context, now time.Time) (int64, error)
}

// CronController exposes the publisher to an external scheduler.
type CronController struct {
	publisher DuePublisher
	secret    string
	now       func() time.Time
}

func NewCronController(publisher DuePublisher, secret string) *CronController {
	return &CronController{
		publisher: publisher,
		secret:    secret,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// PublishScheduled serves GET /api/cron/publish-scheduled. The caller must
// present the cron secret as a bearer token; with no secret configured every
// call is refused.
func (cc *CronController) PublishScheduled(c *gin.Context) {
	token, ok := middleware.BearerToken(c)
	if !ok || cc.secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(cc.secret)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	published, err := cc.publisher.PublishDuePosts(c.Request.Context(), cc.now())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"published": published})
}
