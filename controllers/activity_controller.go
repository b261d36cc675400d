package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ballpark-api/services"
)

type ActivityController struct {
	activity *services.ActivityService
}

func NewActivityController(activity *services.ActivityService) *ActivityController {
	return &ActivityController{activity: activity}
}

// GetActivity serves GET /api/activity for the signed-in author.
func (ac *ActivityController) GetActivity(c *gin.Context) {
	summary, err := ac.activity.Summary(c.Request.Context(), viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
