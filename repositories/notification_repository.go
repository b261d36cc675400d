package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"ballpark-api/models"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Omit("Sender").Create(n).Error
}

// ExistsSince reports whether an identical notification was created after since.
func (r *NotificationRepository) ExistsSince(ctx context.Context, p models.CreateNotificationParams, since time.Time) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("type = ? AND user_id = ? AND sender_id = ? AND created_at > ?", p.Type, p.RecipientID, p.SenderID, since)
	if p.PostID != nil {
		tx = tx.Where("post_id = ?", *p.PostID)
	} else {
		tx = tx.Where("post_id IS NULL")
	}

	var n int64
	err := tx.Count(&n).Error
	return n > 0, err
}

// ForUser returns one page of the recipient's notifications, newest first.
func (r *NotificationRepository) ForUser(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error) {
	var out []models.Notification
	err := r.db.WithContext(ctx).Preload("Sender").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&out).Error
	return out, err
}

func (r *NotificationRepository) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	return n, err
}

// MarkRead marks one notification read and reports whether it belonged to userID.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id string) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Count(&n).Error; err != nil || n == 0 {
		return false, err
	}

	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true).Error
	return err == nil, err
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}
