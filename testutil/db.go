// Package testutil provides a migrated in-memory database and fixtures for
// package tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/gorm"

	"ballpark-api/database"
	"ballpark-api/models"
)

var dbSeq atomic.Int64

// NewDB returns a fresh migrated in-memory SQLite database private to t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, dbSeq.Add(1))

	db, err := database.Initialize("sqlite", dsn, "silent")
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}

// Fixtures inserts rows directly, bypassing the services.
type Fixtures struct {
	t  *testing.T
	db *gorm.DB
}

func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db}
}

func (f *Fixtures) create(v interface{}) {
	f.t.Helper()
	if err := f.db.Create(v).Error; err != nil {
		f.t.Fatalf("create fixture %T: %v", v, err)
	}
}

// User creates a user whose id and username are both username.
func (f *Fixtures) User(username string, opts ...func(*models.User)) *models.User {
	f.t.Helper()
	u := &models.User{ID: username, Username: username, Name: username, Email: username + "@example.com"}
	for _, opt := range opts {
		opt(u)
	}
	f.create(u)
	return u
}

func WithTeam(team string) func(*models.User) {
	return func(u *models.User) { u.FavoriteTeam = &team }
}

func WithPlayer(player string) func(*models.User) {
	return func(u *models.User) { u.FavoritePlayer = &player }
}

func WithLocation(location string) func(*models.User) {
	return func(u *models.User) { u.Location = &location }
}

// PostSpec describes a fixture post.
type PostSpec struct {
	ID           string
	AuthorID     string
	Content      string
	Hashtags     []string
	CreatedAt    time.Time
	ScheduledFor *time.Time
	Archived     bool
}

// Post creates a post together with its hashtag index rows.
func (f *Fixtures) Post(spec PostSpec) *models.Post {
	f.t.Helper()
	content := spec.Content
	p := &models.Post{
		ID:           spec.ID,
		AuthorID:     spec.AuthorID,
		Content:      &content,
		Hashtags:     models.StringSlice(spec.Hashtags),
		Mentions:     models.StringSlice{},
		ScheduledFor: spec.ScheduledFor,
		IsArchived:   spec.Archived,
		CreatedAt:    spec.CreatedAt,
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if err := f.db.Omit("Author", "Tags").Create(p).Error; err != nil {
		f.t.Fatalf("create post %s: %v", spec.ID, err)
	}
	seen := map[string]bool{}
	for _, tag := range spec.Hashtags {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		f.create(&models.PostHashtag{PostID: p.ID, Tag: tag})
	}
	return p
}

func (f *Fixtures) Follow(followerID, followingID string) {
	f.t.Helper()
	f.create(&models.Follow{FollowerID: followerID, FollowingID: followingID})
}

func (f *Fixtures) Block(blockerID, blockedID string) {
	f.t.Helper()
	f.create(&models.Block{BlockerID: blockerID, BlockedID: blockedID})
}

func (f *Fixtures) Like(postID, userID string) {
	f.t.Helper()
	f.create(&models.Like{PostID: postID, UserID: userID})
}

func (f *Fixtures) Comment(postID, userID, content string) {
	f.t.Helper()
	f.create(&models.Comment{
		ID:      fmt.Sprintf("c-%s-%s-%d", postID, userID, dbSeq.Add(1)),
		PostID:  postID,
		UserID:  userID,
		Content: content,
	})
}
