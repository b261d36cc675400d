package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"ballpark-api/logging"
	"ballpark-api/metrics"
)

// PublisherService makes scheduled posts live once their time has come.
type PublisherService struct {
	posts    PublishStore
	notifier PublishNotifier
	log      zerolog.Logger
}

// NewPublisherService builds a publisher. notifier may be nil.
func NewPublisherService(posts PublishStore, notifier PublishNotifier) *PublisherService {
	return &PublisherService{
		posts:    posts,
		notifier: notifier,
		log:      logging.With("publisher"),
	}
}

// PublishDuePosts publishes every scheduled post due at or before now and
// returns how many this call moved. A post already published by an
// overlapping sweep is not counted again.
func (s *PublisherService) PublishDuePosts(ctx context.Context, now time.Time) (published int64, err error) {
	defer func() { metrics.RecordPublishSweep(published, err) }()
	now = now.UTC()

	due, err := s.posts.FindDue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to find due posts: %w", err)
	}

	for _, post := range due {
		ok, err := s.posts.MarkPublished(ctx, post.ID, now)
		if err != nil {
			return published, fmt.Errorf("failed to publish post %s: %w", post.ID, err)
		}
		if !ok {
			continue
		}
		published++

		if s.notifier != nil {
			if nerr := s.notifier.PostPublished(ctx, post); nerr != nil {
				s.log.Warn().Err(nerr).Str("post_id", post.ID).Msg("publish notice failed")
			}
		}
	}

	if published > 0 {
		s.log.Info().Int64("published", published).Int("due", len(due)).Msg("scheduled posts published")
	}
	return published, nil
}
