// File: /routes/routes.go
package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"ballpark-api/config"
	"ballpark-api/controllers"
	"ballpark-api/database"
	"ballpark-api/middleware"
	"ballpark-api/repositories"
	"ballpark-api/services"
	"ballpark-api/utils"
)

// Services holds the wired service layer.
type Services struct {
	Feed          *services.FeedService
	Trends        *services.TrendService
	Suggestions   *services.SuggestionService
	Publisher     *services.PublisherService
	Posts         *services.PostService
	Comments      *services.CommentService
	Users         *services.UserService
	Search        *services.SearchService
	Notifications *services.NotificationService
	Activity      *services.ActivityService
}

// NewServices builds every service on top of db. publishNotifier may be nil.
func NewServices(db *gorm.DB, cfg *config.Config, publishNotifier services.PublishNotifier) *Services {
	postRepo := repositories.NewPostRepository(db)
	userRepo := repositories.NewUserRepository(db)
	socialRepo := repositories.NewSocialRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	notifications := services.NewNotificationService(notificationRepo)
	posts := services.NewPostService(postRepo, userRepo, socialRepo, notifications)

	return &Services{
		Feed:          services.NewFeedService(postRepo, userRepo, socialRepo, cfg.Explore),
		Trends:        services.NewTrendService(postRepo, cfg.Explore),
		Suggestions:   services.NewSuggestionService(userRepo, socialRepo, cfg.Explore),
		Publisher:     services.NewPublisherService(postRepo, publishNotifier),
		Posts:         posts,
		Comments:      services.NewCommentService(commentRepo, posts),
		Users:         services.NewUserService(userRepo, socialRepo, notifications, posts),
		Search:        services.NewSearchService(postRepo, userRepo, socialRepo, cfg.Explore),
		Notifications: notifications,
		Activity:      services.NewActivityService(postRepo, socialRepo),
	}
}

// SetupRoutes registers middleware and every endpoint on r. Background
// middleware work stops when ctx is done.
func SetupRoutes(ctx context.Context, r *gin.Engine, db *gorm.DB, svc *Services, cfg *config.Config) {
	utils.RegisterValidators()

	r.Use(middleware.ErrorHandler())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORSOrigins))
	r.Use(middleware.ValidateJSON())

	exploreController := controllers.NewExploreController(svc.Feed, svc.Trends, svc.Suggestions)
	cronController := controllers.NewCronController(svc.Publisher, cfg.Auth.CronSecret)
	postController := controllers.NewPostController(svc.Posts)
	commentController := controllers.NewCommentController(svc.Comments)
	userController := controllers.NewUserController(svc.Users)
	searchController := controllers.NewSearchController(svc.Search, svc.Posts)
	notificationController := controllers.NewNotificationController(svc.Notifications)
	activityController := controllers.NewActivityController(svc.Activity)

	r.GET("/ping", func(c *gin.Context) {
		status, dbStatus := http.StatusOK, "ok"
		if err := database.Ping(c.Request.Context(), db); err != nil {
			status, dbStatus = http.StatusServiceUnavailable, "unavailable"
		}
		c.JSON(status, gin.H{
			"message":  "pong",
			"database": dbStatus,
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	// Cron is authenticated by its own shared secret, not a session.
	api.GET("/cron/publish-scheduled", cronController.PublishScheduled)

	limited := api.Group("/")
	limited.Use(middleware.RateLimit(ctx, cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst))

	// Anonymous callers are served, signed-in callers get personalised results
	public := limited.Group("/")
	public.Use(middleware.OptionalAuth(cfg.Auth.JWTSecret))
	{
		public.GET("/explore", exploreController.Explore)
		public.GET("/search", searchController.Search)
		public.GET("/hashtag/:tag", searchController.GetHashtag)
		public.GET("/posts", postController.GetPosts)
		public.GET("/posts/:id", postController.GetPost)
		public.GET("/posts/:id/comments", commentController.GetComments)
		public.GET("/users/:username", userController.GetProfile)
		public.GET("/users/:username/posts", userController.GetUserPosts)
	}

	protected := limited.Group("/")
	protected.Use(middleware.RequireAuth(cfg.Auth.JWTSecret))
	{
		posts := protected.Group("/posts")
		{
			posts.POST("", postController.CreatePost)
			posts.DELETE("/:id", postController.DeletePost)
			posts.POST("/:id/like", postController.ToggleLike)
			posts.POST("/:id/save", postController.ToggleSave)
			posts.POST("/:id/comments", commentController.CreateComment)
			posts.GET("/saved", postController.GetSavedPosts)
			posts.GET("/scheduled", postController.GetScheduledPosts)
			posts.POST("/scheduled", postController.CreateScheduledPost)
			posts.DELETE("/scheduled/:id", postController.CancelScheduledPost)
		}

		protected.GET("/search/advanced", searchController.AdvancedSearch)
		protected.GET("/activity", activityController.GetActivity)

		users := protected.Group("/users")
		{
			users.POST("/:username/follow", userController.ToggleFollow)
			users.POST("/:username/block", userController.ToggleBlock)
		}

		notifications := protected.Group("/notifications")
		{
			notifications.GET("", notificationController.GetNotifications)
			notifications.PUT("/:id/read", notificationController.MarkAsRead)
			notifications.PUT("/read-all", notificationController.MarkAllAsRead)
		}
	}
}
