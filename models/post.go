package models

import (
	"time"
)

type Post struct {
	ID           string      `json:"id" gorm:"primaryKey;size:191"`
	AuthorID     string      `json:"author_id" gorm:"not null;size:191;index:idx_posts_author_created,priority:1"`
	Content      *string     `json:"content" gorm:"type:text"`
	ImageURL     *string     `json:"image_url" gorm:"size:500"`
	VideoURL     *string     `json:"video_url" gorm:"size:500"`
	Hashtags     StringSlice `json:"hashtags"`
	Mentions     StringSlice `json:"mentions"`
	ScheduledFor *time.Time  `json:"scheduled_for" gorm:"index"`
	IsArchived   bool        `json:"is_archived" gorm:"not null;default:false"`
	CreatedAt    time.Time   `json:"created_at" gorm:"index;index:idx_posts_author_created,priority:2"`
	UpdatedAt    time.Time   `json:"updated_at"`

	Author User          `json:"-" gorm:"foreignKey:AuthorID"`
	Tags   []PostHashtag `json:"-" gorm:"foreignKey:PostID"`
}

// IsScheduled reports whether the post is still waiting to be published.
func (p Post) IsScheduled() bool {
	return p.ScheduledFor != nil
}

// PostHashtag indexes Post.Hashtags so "hashtag set contains" can be
// evaluated by the database.
type PostHashtag struct {
	PostID string `gorm:"primaryKey;size:191"`
	Tag    string `gorm:"primaryKey;size:191;index"`
}

type Like struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"not null;size:191;uniqueIndex:uk_likes_post_user,priority:1"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:uk_likes_post_user,priority:2"`
	CreatedAt time.Time `json:"created_at"`
}

// SavedPost is a private bookmark.
type SavedPost struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	PostID    string    `json:"post_id" gorm:"not null;size:191;uniqueIndex:uk_saved_posts_post_user,priority:1"`
	UserID    string    `json:"user_id" gorm:"not null;size:191;uniqueIndex:uk_saved_posts_post_user,priority:2;index"`
	CreatedAt time.Time `json:"created_at"`

	Post Post `json:"-" gorm:"foreignKey:PostID"`
}

// FeedPost is a post annotated for the requesting viewer.
type FeedPost struct {
	Post
	Author        AuthorSummary `json:"author"`
	LikesCount    int64         `json:"likes_count"`
	CommentsCount int64         `json:"comments_count"`
	IsLiked       bool          `json:"is_liked"`
	IsSaved       bool          `json:"is_saved"`
	Engagement    int64         `json:"engagement,omitempty"`
}

// FeedResponse is a paginated post listing.
type FeedResponse struct {
	Posts   []FeedPost `json:"posts"`
	Page    int        `json:"page"`
	Limit   int        `json:"limit"`
	HasMore bool       `json:"has_more"`
}

type TrendingHashtag struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

type TrendingResponse struct {
	TrendingHashtags []TrendingHashtag `json:"trending_hashtags"`
	TrendingPosts    []FeedPost        `json:"trending_posts"`
}

// HashtagResponse is one page of a hashtag's posts.
type HashtagResponse struct {
	Tag        string     `json:"tag"`
	Posts      []FeedPost `json:"posts"`
	TotalPosts int64      `json:"total_posts"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	HasMore    bool       `json:"has_more"`
}

// ActivitySummary is an author's last day of activity.
type ActivitySummary struct {
	RecentLikes     int64      `json:"recent_likes"`
	RecentComments  int64      `json:"recent_comments"`
	NewFollowers    int64      `json:"new_followers"`
	PostsEngagement int64      `json:"posts_engagement"`
	TopEngagedPosts []FeedPost `json:"top_engaged_posts"`
}
