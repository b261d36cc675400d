package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ballpark-api/models"
)

// duplicateWindow suppresses repeats of the same notification, e.g. a
// like toggled off and on again.
const duplicateWindow = time.Hour

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ExistsSince(ctx context.Context, p models.CreateNotificationParams, since time.Time) (bool, error)
	ForUser(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, userID, id string) (bool, error)
	MarkAllRead(ctx context.Context, userID string) error
}

type NotificationService struct {
	store NotificationStore
	now   func() time.Time
}

func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{store: store, now: func() time.Time { return time.Now().UTC() }}
}

// Notify records a notification. Notifying yourself and repeats within the
// duplicate window are silently dropped.
func (s *NotificationService) Notify(ctx context.Context, p models.CreateNotificationParams) error {
	if p.RecipientID == "" || p.RecipientID == p.SenderID {
		return nil
	}

	now := s.now()
	exists, err := s.store.ExistsSince(ctx, p, now.Add(-duplicateWindow))
	if err != nil {
		return fmt.Errorf("failed to check notification: %w", err)
	}
	if exists {
		return nil
	}

	n := &models.Notification{
		ID:        uuid.New().String(),
		Type:      p.Type,
		UserID:    p.RecipientID,
		SenderID:  p.SenderID,
		PostID:    p.PostID,
		CreatedAt: now,
	}
	if err := s.store.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (s *NotificationService) List(ctx context.Context, userID string, page, limit int) (*models.PaginatedNotifications, error) {
	rows, err := s.store.ForUser(ctx, userID, limit+1, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}

	unread, err := s.store.UnreadCount(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	now := s.now()
	out := make([]models.NotificationResponse, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].ToResponse(now))
	}
	return &models.PaginatedNotifications{
		Notifications: out,
		UnreadCount:   unread,
		Page:          page,
		Limit:         limit,
		HasMore:       hasMore,
	}, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	ok, err := s.store.MarkRead(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	if !ok {
		return fmt.Errorf("notification: %w", ErrNotFound)
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.store.MarkAllRead(ctx, userID); err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}
