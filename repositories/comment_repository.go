package repositories

import (
	"context"

	"gorm.io/gorm"

	"ballpark-api/models"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Omit("User").Create(comment).Error
}

// ForPost lists a post's comments oldest first, hiding authors blocked in
// either direction from viewerID.
func (r *CommentRepository) ForPost(ctx context.Context, postID, viewerID string) ([]models.Comment, error) {
	tx := r.db.WithContext(ctx).Preload("User").Where("comments.post_id = ?", postID)
	if viewerID != "" {
		tx = tx.Where("comments.user_id NOT IN (SELECT blocks.blocked_id FROM blocks WHERE blocks.blocker_id = ?)", viewerID).
			Where("comments.user_id NOT IN (SELECT blocks.blocker_id FROM blocks WHERE blocks.blocked_id = ?)", viewerID)
	}

	var comments []models.Comment
	err := tx.Order("comments.created_at ASC").Find(&comments).Error
	return comments, err
}
