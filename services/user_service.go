package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"ballpark-api/logging"
	"ballpark-api/models"
)

// UserService serves profiles and the follow and block toggles.
type UserService struct {
	users    UserReader
	social   SocialStore
	notifier Notifier
	posts    *PostService
	log      zerolog.Logger
}

func NewUserService(users UserReader, social SocialStore, notifier Notifier, posts *PostService) *UserService {
	return &UserService{
		users:    users,
		social:   social,
		notifier: notifier,
		posts:    posts,
		log:      logging.With("users"),
	}
}

// Profile returns a user's public profile. A user who blocked the viewer is
// not found; one the viewer blocked is returned with IsBlocked set.
func (s *UserService) Profile(ctx context.Context, viewerID, username string) (*models.UserProfile, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFound("user", err)
	}

	profile := &models.UserProfile{User: *user}
	if viewerID != "" && viewerID != user.ID {
		blockedBy, err := s.social.HasBlocked(ctx, user.ID, viewerID)
		if err != nil {
			return nil, fmt.Errorf("failed to check blocks: %w", err)
		}
		if blockedBy {
			return nil, fmt.Errorf("user: %w", ErrNotFound)
		}
		if profile.IsBlocked, err = s.social.HasBlocked(ctx, viewerID, user.ID); err != nil {
			return nil, fmt.Errorf("failed to check blocks: %w", err)
		}
		if profile.IsFollowing, err = s.social.IsFollowing(ctx, viewerID, user.ID); err != nil {
			return nil, fmt.Errorf("failed to check follow: %w", err)
		}
	}

	if profile.FollowersCount, profile.FollowingCount, err = s.social.FollowCounts(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to count follows: %w", err)
	}
	posts, err := s.users.PostCounts(ctx, []string{user.ID})
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}
	profile.PostsCount = posts[user.ID]
	return profile, nil
}

// Posts lists a user's published posts.
func (s *UserService) Posts(ctx context.Context, viewerID, username string, page, limit int) (*models.FeedResponse, error) {
	user, err := s.visibleUser(ctx, viewerID, username)
	if err != nil {
		return nil, err
	}
	return s.posts.ByAuthor(ctx, viewerID, user.ID, page, limit)
}

func (s *UserService) visibleUser(ctx context.Context, viewerID, username string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFound("user", err)
	}
	if viewerID != "" && viewerID != user.ID {
		blocked, err := s.social.IsBlockedEitherWay(ctx, viewerID, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check blocks: %w", err)
		}
		if blocked {
			return nil, fmt.Errorf("user: %w", ErrNotFound)
		}
	}
	return user, nil
}

// ToggleFollow follows or unfollows username and reports the new state.
func (s *UserService) ToggleFollow(ctx context.Context, followerID, username string) (bool, error) {
	target, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return false, notFound("user", err)
	}
	if target.ID == followerID {
		return false, invalid("you cannot follow yourself")
	}

	blocked, err := s.social.IsBlockedEitherWay(ctx, followerID, target.ID)
	if err != nil {
		return false, fmt.Errorf("failed to check blocks: %w", err)
	}
	if blocked {
		return false, fmt.Errorf("follow %s: %w", username, ErrForbidden)
	}

	following, err := s.social.ToggleFollow(ctx, followerID, target.ID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle follow: %w", err)
	}
	if following && s.notifier != nil {
		if err := s.notifier.Notify(ctx, models.CreateNotificationParams{
			Type:        models.NotificationTypeFollow,
			RecipientID: target.ID,
			SenderID:    followerID,
		}); err != nil {
			s.log.Warn().Err(err).Str("recipient_id", target.ID).Msg("follow notification failed")
		}
	}
	return following, nil
}

// ToggleBlock blocks or unblocks username. Blocking also drops the blocker's
// follow of that user.
func (s *UserService) ToggleBlock(ctx context.Context, blockerID, username string) (bool, error) {
	target, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return false, notFound("user", err)
	}
	if target.ID == blockerID {
		return false, invalid("you cannot block yourself")
	}

	blocked, err := s.social.ToggleBlock(ctx, blockerID, target.ID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle block: %w", err)
	}
	return blocked, nil
}
