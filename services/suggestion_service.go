package services

import (
	"context"
	"fmt"

	"ballpark-api/config"
	"ballpark-api/models"
	"ballpark-api/repositories"
)

type SuggestionService struct {
	users  UserReader
	social FollowGraph
	cfg    config.ExploreConfig
}

func NewSuggestionService(users UserReader, social FollowGraph, cfg config.ExploreConfig) *SuggestionService {
	return &SuggestionService{users: users, social: social, cfg: cfg}
}

// Suggest returns fans who share the viewer's team or live near them, most
// followed first. Nobody the viewer already follows or has a block with is
// included.
func (s *SuggestionService) Suggest(ctx context.Context, viewerID string) ([]models.SuggestedUser, error) {
	out := []models.SuggestedUser{}
	if viewerID == "" {
		return out, nil
	}

	viewer, err := s.users.FindByID(ctx, viewerID)
	if err != nil {
		return nil, notFound("viewer", err)
	}

	team := models.Preference(viewer.FavoriteTeam)
	location := models.Preference(viewer.Location)
	if team == "" && location == "" {
		return out, nil
	}

	following, err := s.social.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load follows: %w", err)
	}

	users, err := s.users.Find(ctx, repositories.UserQuery{
		Criteria: []repositories.Criterion{
			repositories.AnyOf{
				repositories.ByTeam{Team: team},
				repositories.ByLocation{Location: location},
			},
			repositories.ExcludeUsers{UserIDs: append(append([]string{}, following...), viewerID)},
			repositories.UsersVisibleTo{ViewerID: viewerID},
		},
		Limit:       s.cfg.SuggestLimit,
		ByFollowers: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find suggestions: %w", err)
	}

	return withUserCounts(ctx, s.users, s.social, users)
}

// withUserCounts pairs each user with their follower and post counts.
func withUserCounts(ctx context.Context, users UserReader, social FollowGraph, list []models.User) ([]models.SuggestedUser, error) {
	out := make([]models.SuggestedUser, 0, len(list))
	if len(list) == 0 {
		return out, nil
	}

	ids := make([]string, len(list))
	for i, u := range list {
		ids[i] = u.ID
	}
	followers, err := social.FollowerCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count followers: %w", err)
	}
	posts, err := users.PostCounts(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to count posts: %w", err)
	}

	for _, u := range list {
		out = append(out, models.SuggestedUser{
			User:           u,
			FollowersCount: followers[u.ID],
			PostsCount:     posts[u.ID],
		})
	}
	return out, nil
}
