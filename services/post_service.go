package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ballpark-api/logging"
	"ballpark-api/models"
	"ballpark-api/repositories"
	"ballpark-api/utils"
)

// CreatePostInput is what an author submits. Hashtags and Mentions are taken
// from Content when the client does not send them.
type CreatePostInput struct {
	Content      *string
	ImageURL     *string
	VideoURL     *string
	Hashtags     []string
	Mentions     []string
	ScheduledFor *time.Time
}

type PostService struct {
	posts    PostStore
	users    UserReader
	social   SocialStore
	notifier Notifier
	now      func() time.Time
	log      zerolog.Logger
}

func NewPostService(posts PostStore, users UserReader, social SocialStore, notifier Notifier) *PostService {
	return &PostService{
		posts:    posts,
		users:    users,
		social:   social,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
		log:      logging.With("posts"),
	}
}

// Recent lists published posts newest first.
func (s *PostService) Recent(ctx context.Context, viewerID string, page, limit int) (*models.FeedResponse, error) {
	return s.page(ctx, viewerID, page, limit, repositories.Published{}, repositories.VisibleTo{ViewerID: viewerID})
}

// Saved lists the posts userID bookmarked that are still visible to them.
func (s *PostService) Saved(ctx context.Context, userID string, page, limit int) (*models.FeedResponse, error) {
	return s.page(ctx, userID, page, limit,
		repositories.Published{},
		repositories.SavedBy{UserID: userID},
		repositories.VisibleTo{ViewerID: userID},
	)
}

// ByAuthor lists an author's published posts.
func (s *PostService) ByAuthor(ctx context.Context, viewerID, authorID string, page, limit int) (*models.FeedResponse, error) {
	return s.page(ctx, viewerID, page, limit,
		repositories.Published{},
		repositories.ByAuthor{AuthorID: authorID},
		repositories.VisibleTo{ViewerID: viewerID},
	)
}

// ByHashtag lists published posts tagged with tag. A leading '#' is ignored.
func (s *PostService) ByHashtag(ctx context.Context, viewerID, tag string, page, limit int) (*models.HashtagResponse, error) {
	tag = strings.TrimPrefix(strings.TrimSpace(tag), "#")
	if tag == "" {
		return nil, invalid("hashtag is required")
	}

	criteria := []repositories.Criterion{
		repositories.Published{},
		repositories.ByHashtag{Tag: tag},
		repositories.VisibleTo{ViewerID: viewerID},
	}
	feed, err := s.page(ctx, viewerID, page, limit, criteria...)
	if err != nil {
		return nil, err
	}
	total, err := s.posts.Count(ctx, criteria...)
	if err != nil {
		return nil, fmt.Errorf("failed to count hashtag posts: %w", err)
	}

	return &models.HashtagResponse{
		Tag:        tag,
		Posts:      feed.Posts,
		TotalPosts: total,
		Page:       feed.Page,
		Limit:      feed.Limit,
		HasMore:    feed.HasMore,
	}, nil
}

func (s *PostService) page(ctx context.Context, viewerID string, page, limit int, criteria ...repositories.Criterion) (*models.FeedResponse, error) {
	posts, err := s.posts.Find(ctx, repositories.PostQuery{
		Criteria: criteria,
		Limit:    limit + 1,
		Offset:   (page - 1) * limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load posts: %w", err)
	}

	hasMore := len(posts) > limit
	if hasMore {
		posts = posts[:limit]
	}
	annotated, err := annotate(ctx, s.posts, viewerID, posts)
	if err != nil {
		return nil, err
	}
	return &models.FeedResponse{Posts: annotated, Page: page, Limit: limit, HasMore: hasMore}, nil
}

// Create publishes a post immediately and notifies mentioned users.
func (s *PostService) Create(ctx context.Context, authorID string, in CreatePostInput) (*models.FeedPost, error) {
	in.ScheduledFor = nil
	post, err := s.create(ctx, authorID, in)
	if err != nil {
		return nil, err
	}

	s.notifyMentions(ctx, post)

	out, err := annotate(ctx, s.posts, authorID, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// Schedule stores a post that stays hidden until the publisher releases it.
// Mention notifications are not sent for scheduled posts.
func (s *PostService) Schedule(ctx context.Context, authorID string, in CreatePostInput) (*models.Post, error) {
	if in.ScheduledFor == nil {
		return nil, invalid("scheduled_for is required")
	}
	at := in.ScheduledFor.UTC()
	if !at.After(s.now()) {
		return nil, invalid("scheduled_for must be in the future")
	}
	in.ScheduledFor = &at
	return s.create(ctx, authorID, in)
}

func (s *PostService) create(ctx context.Context, authorID string, in CreatePostInput) (*models.Post, error) {
	content := trimmed(in.Content)
	image := trimmed(in.ImageURL)
	video := trimmed(in.VideoURL)
	if content == nil && image == nil && video == nil {
		return nil, invalid("a post needs content, an image or a video")
	}

	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, notFound("author", err)
	}

	text := ""
	if content != nil {
		text = *content
	}
	hashtags := utils.NormalizeTags(in.Hashtags, "#")
	if len(in.Hashtags) == 0 {
		hashtags = utils.ExtractHashtags(text)
	}
	mentions := utils.NormalizeTags(in.Mentions, "@")
	if len(in.Mentions) == 0 {
		mentions = utils.ExtractMentions(text)
	}

	post := &models.Post{
		ID:           uuid.New().String(),
		AuthorID:     authorID,
		Content:      content,
		ImageURL:     image,
		VideoURL:     video,
		Hashtags:     models.StringSlice(hashtags),
		Mentions:     models.StringSlice(mentions),
		ScheduledFor: in.ScheduledFor,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	post.Author = *author
	return post, nil
}

func (s *PostService) notifyMentions(ctx context.Context, post *models.Post) {
	if len(post.Mentions) == 0 {
		return
	}
	users, err := s.users.FindByUsernames(ctx, post.Mentions)
	if err != nil {
		s.log.Warn().Err(err).Str("post_id", post.ID).Msg("could not resolve mentions")
		return
	}
	for _, u := range users {
		s.notify(ctx, models.CreateNotificationParams{
			Type:        models.NotificationTypeMention,
			RecipientID: u.ID,
			SenderID:    post.AuthorID,
			PostID:      &post.ID,
		})
	}
}

// notify never fails the request that triggered it.
func (s *PostService) notify(ctx context.Context, p models.CreateNotificationParams) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, p); err != nil {
		s.log.Warn().Err(err).Str("type", string(p.Type)).Str("recipient_id", p.RecipientID).Msg("notification failed")
	}
}

// Get returns one post as viewerID sees it. Scheduled and archived posts are
// only visible to their author, and blocks hide posts in both directions.
func (s *PostService) Get(ctx context.Context, viewerID, id string) (*models.FeedPost, error) {
	post, err := s.visible(ctx, viewerID, id)
	if err != nil {
		return nil, err
	}
	out, err := annotate(ctx, s.posts, viewerID, []models.Post{*post})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

func (s *PostService) visible(ctx context.Context, viewerID, id string) (*models.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, notFound("post", err)
	}
	if post.AuthorID == viewerID {
		return post, nil
	}
	if post.IsScheduled() || post.IsArchived {
		return nil, fmt.Errorf("post: %w", ErrNotFound)
	}
	if viewerID != "" {
		blocked, err := s.social.IsBlockedEitherWay(ctx, viewerID, post.AuthorID)
		if err != nil {
			return nil, fmt.Errorf("failed to check blocks: %w", err)
		}
		if blocked {
			return nil, fmt.Errorf("post: %w", ErrNotFound)
		}
	}
	return post, nil
}

// Delete removes a post. Only its author may do so.
func (s *PostService) Delete(ctx context.Context, userID, id string) error {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return notFound("post", err)
	}
	if post.AuthorID != userID {
		return fmt.Errorf("delete post: %w", ErrForbidden)
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// Scheduled lists the author's pending posts, soonest first.
func (s *PostService) Scheduled(ctx context.Context, authorID string) ([]models.Post, error) {
	posts, err := s.posts.FindScheduled(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scheduled posts: %w", err)
	}
	if posts == nil {
		posts = []models.Post{}
	}
	return posts, nil
}

// CancelScheduled deletes a pending post. Already published posts are not
// found here.
func (s *PostService) CancelScheduled(ctx context.Context, authorID, id string) error {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return notFound("scheduled post", err)
	}
	if !post.IsScheduled() {
		return fmt.Errorf("scheduled post: %w", ErrNotFound)
	}
	if post.AuthorID != authorID {
		return fmt.Errorf("cancel scheduled post: %w", ErrForbidden)
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete scheduled post: %w", err)
	}
	return nil
}

// ToggleLike likes or unlikes a visible post and reports the new state.
func (s *PostService) ToggleLike(ctx context.Context, userID, postID string) (bool, error) {
	post, err := s.visible(ctx, userID, postID)
	if err != nil {
		return false, err
	}
	liked, err := s.social.ToggleLike(ctx, postID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle like: %w", err)
	}
	if liked {
		s.notify(ctx, models.CreateNotificationParams{
			Type:        models.NotificationTypeLike,
			RecipientID: post.AuthorID,
			SenderID:    userID,
			PostID:      &post.ID,
		})
	}
	return liked, nil
}

// ToggleSave bookmarks or un-bookmarks a visible post.
func (s *PostService) ToggleSave(ctx context.Context, userID, postID string) (bool, error) {
	if _, err := s.visible(ctx, userID, postID); err != nil {
		return false, err
	}
	saved, err := s.social.ToggleSave(ctx, postID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to toggle save: %w", err)
	}
	return saved, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
