package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ballpark-api/models"
)

type CommentService struct {
	comments CommentStore
	posts    *PostService
}

func NewCommentService(comments CommentStore, posts *PostService) *CommentService {
	return &CommentService{comments: comments, posts: posts}
}

// List returns the comments on a post the viewer can see, oldest first.
func (s *CommentService) List(ctx context.Context, viewerID, postID string) ([]models.CommentResponse, error) {
	if _, err := s.posts.visible(ctx, viewerID, postID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ForPost(ctx, postID, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	out := make([]models.CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, models.CommentResponse{Comment: c, Author: c.User.Summary()})
	}
	return out, nil
}

// Create adds a comment and notifies the post's author.
func (s *CommentService) Create(ctx context.Context, userID, postID, content string) (*models.CommentResponse, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalid("comment content is required")
	}

	post, err := s.posts.visible(ctx, userID, postID)
	if err != nil {
		return nil, err
	}
	author, err := s.posts.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound("commenter", err)
	}

	comment := models.Comment{
		ID:      uuid.New().String(),
		PostID:  postID,
		UserID:  userID,
		Content: content,
	}
	if err := s.comments.Create(ctx, &comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	s.posts.notify(ctx, models.CreateNotificationParams{
		Type:        models.NotificationTypeComment,
		RecipientID: post.AuthorID,
		SenderID:    userID,
		PostID:      &post.ID,
	})

	return &models.CommentResponse{Comment: comment, Author: author.Summary()}, nil
}
