package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"ballpark-api/config"
	"ballpark-api/models"
	"ballpark-api/repositories"
)

// TrendService reports what has been popular inside a trailing window.
type TrendService struct {
	posts TrendReader
	cfg   config.ExploreConfig
}

func NewTrendService(posts TrendReader, cfg config.ExploreConfig) *TrendService {
	return &TrendService{posts: posts, cfg: cfg}
}

// Trending counts hashtags across posts created in the window ending at now
// and ranks the most recent posts of that window by engagement. Only the
// newest TrendFetchLimit posts are ranked.
func (s *TrendService) Trending(ctx context.Context, viewerID string, now time.Time) (*models.TrendingResponse, error) {
	now = now.UTC()
	window := []repositories.Criterion{
		repositories.Published{},
		repositories.CreatedBetween{From: now.Add(-s.cfg.TrendWindow), To: now},
		repositories.VisibleTo{ViewerID: viewerID},
	}

	sets, err := s.posts.HashtagSets(ctx, window...)
	if err != nil {
		return nil, fmt.Errorf("failed to load hashtags: %w", err)
	}

	recent, err := s.posts.Find(ctx, repositories.PostQuery{Criteria: window, Limit: s.cfg.TrendFetchLimit})
	if err != nil {
		return nil, fmt.Errorf("failed to load recent posts: %w", err)
	}
	ranked, err := annotate(ctx, s.posts, viewerID, recent)
	if err != nil {
		return nil, err
	}
	Rank(ranked)
	if len(ranked) > s.cfg.TrendTopN {
		ranked = ranked[:s.cfg.TrendTopN]
	}

	return &models.TrendingResponse{
		TrendingHashtags: TopHashtags(sets, s.cfg.TrendTopN),
		TrendingPosts:    ranked,
	}, nil
}

// TopHashtags counts every occurrence of every tag and returns the n most
// frequent. Equal counts keep the order in which the tags were first seen.
func TopHashtags(sets []models.StringSlice, n int) []models.TrendingHashtag {
	counts := make(map[string]int)
	var order []string
	for _, set := range sets {
		for _, tag := range set {
			if tag == "" {
				continue
			}
			if _, ok := counts[tag]; !ok {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	out := make([]models.TrendingHashtag, 0, len(order))
	for _, tag := range order {
		out = append(out, models.TrendingHashtag{Tag: tag, Count: counts[tag]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
