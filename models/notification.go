package models

import (
	"fmt"
	"time"
)

type NotificationType string

const (
	NotificationTypeFollow  NotificationType = "follow"
	NotificationTypeLike    NotificationType = "like"
	NotificationTypeComment NotificationType = "comment"
	NotificationTypeMention NotificationType = "mention"
)

type Notification struct {
	ID        string           `json:"id" gorm:"primaryKey;size:191"`
	Type      NotificationType `json:"type" gorm:"not null;size:50"`
	UserID    string           `json:"user_id" gorm:"not null;size:191;index"` // recipient
	SenderID  string           `json:"sender_id" gorm:"not null;size:191"`
	PostID    *string          `json:"post_id" gorm:"size:191"`
	IsRead    bool             `json:"is_read" gorm:"not null;default:false"`
	CreatedAt time.Time        `json:"created_at"`

	Sender User `json:"-" gorm:"foreignKey:SenderID"`
}

type NotificationResponse struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Sender    AuthorSummary    `json:"sender"`
	PostID    *string          `json:"post_id,omitempty"`
	IsRead    bool             `json:"is_read"`
	CreatedAt time.Time        `json:"created_at"`
	Message   string           `json:"message"`
	TimeAgo   string           `json:"time_ago"`
}

type PaginatedNotifications struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
	HasMore       bool                   `json:"has_more"`
}

// CreateNotificationParams for creating new notifications
type CreateNotificationParams struct {
	Type        NotificationType
	RecipientID string
	SenderID    string
	PostID      *string
}

func (n *Notification) Message() string {
	switch n.Type {
	case NotificationTypeFollow:
		return "started following you"
	case NotificationTypeLike:
		return "liked your post"
	case NotificationTypeComment:
		return "commented on your post"
	case NotificationTypeMention:
		return "mentioned you in a post"
	default:
		return "interacted with your content"
	}
}

// TimeAgo renders the age of the notification relative to now.
func (n *Notification) TimeAgo(now time.Time) string {
	diff := now.Sub(n.CreatedAt)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour")
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "day")
	case diff < 30*24*time.Hour:
		return plural(int(diff.Hours()/(24*7)), "week")
	default:
		return plural(int(diff.Hours()/(24*30)), "month")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

func (n *Notification) ToResponse(now time.Time) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Sender:    n.Sender.Summary(),
		PostID:    n.PostID,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
		Message:   n.Message(),
		TimeAgo:   n.TimeAgo(now),
	}
}
