// File: /controllers/user_controller.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ballpark-api/services"
	"ballpark-api/utils"
)

type UserController struct {
	users *services.UserService
}

func NewUserController(users *services.UserService) *UserController {
	return &UserController{users: users}
}

func (uc *UserController) GetProfile(c *gin.Context) {
	profile, err := uc.users.Profile(c.Request.Context(), viewerID(c), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (uc *UserController) GetUserPosts(c *gin.Context) {
	page, limit := utils.ParsePagination(c, 10, 50)

	feed, err := uc.users.Posts(c.Request.Context(), viewerID(c), c.Param("username"), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (uc *UserController) ToggleFollow(c *gin.Context) {
	following, err := uc.users.ToggleFollow(c.Request.Context(), viewerID(c), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"following": following})
}

func (uc *UserController) ToggleBlock(c *gin.Context) {
	blocked, err := uc.users.ToggleBlock(c.Request.Context(), viewerID(c), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocked": blocked})
}
