package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"ballpark-api/middleware"
	"ballpark-api/services"
)

// respondError maps service errors to status codes. Anything unexpected is
// handed to the ErrorHandler middleware, which logs it and answers 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		msg := strings.TrimPrefix(err.Error(), services.ErrInvalidInput.Error()+": ")
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMessage(err)})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	default:
		_ = c.Error(err)
	}
}

// notFoundMessage turns "post: not found" into "Post not found".
func notFoundMessage(err error) string {
	what, _, ok := strings.Cut(err.Error(), ": ")
	if !ok || what == "" || strings.HasPrefix(what, "failed") {
		return "Not found"
	}
	return strings.ToUpper(what[:1]) + what[1:] + " not found"
}

func viewerID(c *gin.Context) string {
	return c.GetString(middleware.UserIDKey)
}
