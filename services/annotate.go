package services

import (
	"context"
	"fmt"

	"ballpark-api/models"
)

// annotate attaches author, counts and the viewer's like/save state.
func annotate(ctx context.Context, posts PostReader, viewerID string, list []models.Post) ([]models.FeedPost, error) {
	out := make([]models.FeedPost, 0, len(list))
	if len(list) == 0 {
		return out, nil
	}

	ids := make([]string, len(list))
	for i, p := range list {
		ids[i] = p.ID
	}

	counts, err := posts.EngagementCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count engagement: %w", err)
	}
	liked, err := posts.LikedBy(ctx, viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load likes: %w", err)
	}
	saved, err := posts.SavedBy(ctx, viewerID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load saves: %w", err)
	}

	for _, p := range list {
		c := counts[p.ID]
		out = append(out, models.FeedPost{
			Post:          p,
			Author:        p.Author.Summary(),
			LikesCount:    c.Likes,
			CommentsCount: c.Comments,
			IsLiked:       liked[p.ID],
			IsSaved:       saved[p.ID],
		})
	}
	return out, nil
}
