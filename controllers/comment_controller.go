package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ballpark-api/services"
	"ballpark-api/utils"
)

type CommentController struct {
	comments *services.CommentService
}

func NewCommentController(comments *services.CommentService) *CommentController {
	return &CommentController{comments: comments}
}

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,notblank,max=1000"`
}

func (cc *CommentController) GetComments(c *gin.Context) {
	comments, err := cc.comments.List(c.Request.Context(), viewerID(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

func (cc *CommentController) CreateComment(c *gin.Context) {
	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, err.Error())
		return
	}

	comment, err := cc.comments.Create(c.Request.Context(), viewerID(c), c.Param("id"), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}
