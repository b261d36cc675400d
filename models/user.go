package models

import (
	"strings"
	"time"
)

// User is a fan profile. Credentials are held by the identity provider.
type User struct {
	ID             string    `json:"id" gorm:"primaryKey;size:191"`
	Username       string    `json:"username" gorm:"uniqueIndex;not null;size:50"`
	Name           string    `json:"name" gorm:"size:255"`
	Email          string    `json:"-" gorm:"size:255"`
	Image          *string   `json:"image" gorm:"size:500"`
	Bio            *string   `json:"bio" gorm:"size:500"`
	FavoriteTeam   *string   `json:"favorite_team" gorm:"size:100;index"`
	FavoritePlayer *string   `json:"favorite_player" gorm:"size:100"`
	Location       *string   `json:"location" gorm:"size:255"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Follow struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	FollowerID  string    `json:"follower_id" gorm:"not null;size:191;uniqueIndex:uk_follows_follower_following,priority:1"`
	FollowingID string    `json:"following_id" gorm:"not null;size:191;uniqueIndex:uk_follows_follower_following,priority:2;index"`
	CreatedAt   time.Time `json:"created_at"`
}

// Block hides content in both directions between the two users.
type Block struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	BlockerID string    `json:"blocker_id" gorm:"not null;size:191;uniqueIndex:uk_blocks_blocker_blocked,priority:1"`
	BlockedID string    `json:"blocked_id" gorm:"not null;size:191;uniqueIndex:uk_blocks_blocker_blocked,priority:2;index"`
	CreatedAt time.Time `json:"created_at"`
}

// AuthorSummary is the slice of a user embedded in post payloads.
type AuthorSummary struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Name     string  `json:"name"`
	Image    *string `json:"image"`
}

func (u User) Summary() AuthorSummary {
	return AuthorSummary{ID: u.ID, Username: u.Username, Name: u.Name, Image: u.Image}
}

// Preference returns the trimmed value of a nullable preference field.
func Preference(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

// UserProfile is the public profile payload.
type UserProfile struct {
	User
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
	PostsCount     int64 `json:"posts_count"`
	IsFollowing    bool  `json:"is_following"`
	IsBlocked      bool  `json:"is_blocked"`
}

// SuggestedUser is a follow suggestion with popularity counts.
type SuggestedUser struct {
	User
	FollowersCount int64 `json:"followers_count"`
	PostsCount     int64 `json:"posts_count"`
}
