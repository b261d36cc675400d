package services

import (
	"context"
	"time"

	"ballpark-api/models"
	"ballpark-api/repositories"
)

// PostReader is the read side of the post store used by every listing.
type PostReader interface {
	Find(ctx context.Context, q repositories.PostQuery) ([]models.Post, error)
	Count(ctx context.Context, criteria ...repositories.Criterion) (int64, error)
	EngagementCounts(ctx context.Context, postIDs []string) (map[string]repositories.EngagementCounts, error)
	LikedBy(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)
	SavedBy(ctx context.Context, userID string, postIDs []string) (map[string]bool, error)
}

// TrendReader adds the hashtag scan used by the trend analyzer.
type TrendReader interface {
	PostReader
	HashtagSets(ctx context.Context, criteria ...repositories.Criterion) ([]models.StringSlice, error)
}

// PublishStore is what the scheduled publisher needs from the post store.
type PublishStore interface {
	FindDue(ctx context.Context, now time.Time) ([]models.Post, error)
	MarkPublished(ctx context.Context, id string, now time.Time) (bool, error)
}

type UserReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByUsernames(ctx context.Context, usernames []string) ([]models.User, error)
	Find(ctx context.Context, q repositories.UserQuery) ([]models.User, error)
	PostCounts(ctx context.Context, userIDs []string) (map[string]int64, error)
}

// FollowGraph is the read side of the follow and block tables.
type FollowGraph interface {
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
	FollowerCounts(ctx context.Context, userIDs []string) (map[string]int64, error)
	IsBlockedEitherWay(ctx context.Context, a, b string) (bool, error)
}

// PostStore is the full post store used by the post endpoints.
type PostStore interface {
	PostReader
	FindByID(ctx context.Context, id string) (*models.Post, error)
	FindScheduled(ctx context.Context, authorID string) ([]models.Post, error)
	Create(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
}

// SocialStore adds the toggles to the follow graph.
type SocialStore interface {
	FollowGraph
	IsFollowing(ctx context.Context, followerID, followingID string) (bool, error)
	HasBlocked(ctx context.Context, blockerID, blockedID string) (bool, error)
	FollowCounts(ctx context.Context, userID string) (followers, following int64, err error)
	ToggleFollow(ctx context.Context, followerID, followingID string) (bool, error)
	ToggleBlock(ctx context.Context, blockerID, blockedID string) (bool, error)
	ToggleLike(ctx context.Context, postID, userID string) (bool, error)
	ToggleSave(ctx context.Context, postID, userID string) (bool, error)
}

// ActivityStore adds the recent interaction count used by the activity
// summary.
type ActivityStore interface {
	PostReader
	InteractionsSince(ctx context.Context, authorID string, since time.Time) (likes, comments int64, err error)
}

type FollowerTracker interface {
	FollowersSince(ctx context.Context, userID string, since time.Time) (int64, error)
}

type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	ForPost(ctx context.Context, postID, viewerID string) ([]models.Comment, error)
}

// Notifier records in-app notifications.
type Notifier interface {
	Notify(ctx context.Context, p models.CreateNotificationParams) error
}

// PublishNotifier is told about every post the publisher makes live.
type PublishNotifier interface {
	PostPublished(ctx context.Context, post models.Post) error
}
