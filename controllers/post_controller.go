// File: /controllers/post_controller.go
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ballpark-api/services"
	"ballpark-api/utils"
)

type PostController struct {
	posts *services.PostService
}

func NewPostController(posts *services.PostService) *PostController {
	return &PostController{posts: posts}
}

type CreatePostRequest struct {
	Content      *string    `json:"content" binding:"omitempty,max=2000"`
	ImageURL     *string    `json:"image_url" binding:"omitempty,url,max=500"`
	VideoURL     *string    `json:"video_url" binding:"omitempty,url,max=500"`
	Hashtags     []string   `json:"hashtags" binding:"omitempty,max=30,dive,notblank,max=100"`
	Mentions     []string   `json:"mentions" binding:"omitempty,max=30,dive,notblank,max=50"`
	ScheduledFor *time.Time `json:"scheduled_for"`
}

func (r CreatePostRequest) input() services.CreatePostInput {
	return services.CreatePostInput{
		Content:      r.Content,
		ImageURL:     r.ImageURL,
		VideoURL:     r.VideoURL,
		Hashtags:     r.Hashtags,
		Mentions:     r.Mentions,
		ScheduledFor: r.ScheduledFor,
	}
}

func (pc *PostController) GetPosts(c *gin.Context) {
	page, limit := utils.ParsePagination(c, 10, 50)

	feed, err := pc.posts.Recent(c.Request.Context(), viewerID(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (pc *PostController) CreatePost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	post, err := pc.posts.Create(c.Request.Context(), viewerID(c), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (pc *PostController) GetPost(c *gin.Context) {
	post, err := pc.posts.Get(c.Request.Context(), viewerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (pc *PostController) DeletePost(c *gin.Context) {
	if err := pc.posts.Delete(c.Request.Context(), viewerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.SendMessage(c, "Post deleted successfully")
}

func (pc *PostController) ToggleLike(c *gin.Context) {
	liked, err := pc.posts.ToggleLike(c.Request.Context(), viewerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": liked})
}

func (pc *PostController) ToggleSave(c *gin.Context) {
	saved, err := pc.posts.ToggleSave(c.Request.Context(), viewerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": saved})
}

func (pc *PostController) GetSavedPosts(c *gin.Context) {
	page, limit := utils.ParsePagination(c, 10, 50)

	feed, err := pc.posts.Saved(c.Request.Context(), viewerID(c), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (pc *PostController) GetScheduledPosts(c *gin.Context) {
	posts, err := pc.posts.Scheduled(c.Request.Context(), viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (pc *PostController) CreateScheduledPost(c *gin.Context) {
	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	post, err := pc.posts.Schedule(c.Request.Context(), viewerID(c), req.input())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (pc *PostController) CancelScheduledPost(c *gin.Context) {
	if err := pc.posts.CancelScheduled(c.Request.Context(), viewerID(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.SendMessage(c, "Scheduled post deleted successfully")
}
