package services

import (
	"sort"

	"ballpark-api/models"
)

// Score is the engagement value of a post. Comments count double.
func Score(likes, comments int64) int64 {
	return likes + 2*comments
}

// Rank sets Engagement on every post and orders them by it, highest first.
// Ties go to the newer post.
func Rank(posts []models.FeedPost) {
	for i := range posts {
		posts[i].Engagement = Score(posts[i].LikesCount, posts[i].CommentsCount)
	}
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if a.Engagement != b.Engagement {
			return a.Engagement > b.Engagement
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
}
