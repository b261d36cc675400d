package services

import (
	"context"
	"fmt"
	"time"

	"ballpark-api/models"
	"ballpark-api/repositories"
)

const (
	activityWindow   = 24 * time.Hour
	activityTopPosts = 5
)

// ActivityService summarises how an author's posts have been doing.
type ActivityService struct {
	posts  ActivityStore
	social FollowerTracker
	now    func() time.Time
}

func NewActivityService(posts ActivityStore, social FollowerTracker) *ActivityService {
	return &ActivityService{posts: posts, social: social, now: func() time.Time { return time.Now().UTC() }}
}

// Summary counts the likes, comments and follows userID received in the last
// day and lists the author's most liked published posts.
func (s *ActivityService) Summary(ctx context.Context, userID string) (*models.ActivitySummary, error) {
	since := s.now().Add(-activityWindow)

	likes, comments, err := s.posts.InteractionsSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count recent interactions: %w", err)
	}
	followers, err := s.social.FollowersSince(ctx, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to count new followers: %w", err)
	}

	top, err := s.posts.Find(ctx, repositories.PostQuery{
		Criteria:     []repositories.Criterion{repositories.Published{}, repositories.ByAuthor{AuthorID: userID}},
		Limit:        activityTopPosts,
		ByPopularity: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load top posts: %w", err)
	}
	annotated, err := annotate(ctx, s.posts, userID, top)
	if err != nil {
		return nil, err
	}
	for i := range annotated {
		annotated[i].Engagement = Score(annotated[i].LikesCount, annotated[i].CommentsCount)
	}

	return &models.ActivitySummary{
		RecentLikes:     likes,
		RecentComments:  comments,
		NewFollowers:    followers,
		PostsEngagement: Score(likes, comments),
		TopEngagedPosts: annotated,
	}, nil
}
