package services

import (
	"context"
	"fmt"

	"ballpark-api/config"
	"ballpark-api/models"
	"ballpark-api/repositories"
	"ballpark-api/utils"
)

// FeedService composes the recommended explore feed.
type FeedService struct {
	posts  PostReader
	users  UserReader
	social FollowGraph
	cfg    config.ExploreConfig
}

func NewFeedService(posts PostReader, users UserReader, social FollowGraph, cfg config.ExploreConfig) *FeedService {
	return &FeedService{posts: posts, users: users, social: social, cfg: cfg}
}

// Compose returns the recommended posts for viewerID. Anonymous viewers get
// the most recent published posts. Signed-in viewers get posts from people
// they follow followed by posts matching their favorite team or player,
// each post at most once.
func (s *FeedService) Compose(ctx context.Context, viewerID string) ([]models.FeedPost, error) {
	if viewerID == "" {
		posts, err := s.posts.Find(ctx, repositories.PostQuery{
			Criteria: []repositories.Criterion{repositories.Published{}},
			Limit:    s.cfg.AnonymousLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load recent posts: %w", err)
		}
		return annotate(ctx, s.posts, "", posts)
	}

	viewer, err := s.users.FindByID(ctx, viewerID)
	if err != nil {
		return nil, notFound("viewer", err)
	}

	following, err := s.social.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load follows: %w", err)
	}

	var merged []models.Post
	seen := make(map[string]struct{})
	add := func(posts []models.Post) {
		for _, p := range posts {
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			merged = append(merged, p)
		}
	}

	if len(following) > 0 {
		posts, err := s.posts.Find(ctx, repositories.PostQuery{
			Criteria: []repositories.Criterion{
				repositories.Published{},
				repositories.ByFollowing{AuthorIDs: following},
				repositories.VisibleTo{ViewerID: viewerID},
			},
			Limit: s.cfg.BranchLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load followed posts: %w", err)
		}
		add(posts)
	}

	if match := preferenceMatch(viewer); match != nil {
		excluded := append(append([]string{}, following...), viewerID)
		posts, err := s.posts.Find(ctx, repositories.PostQuery{
			Criteria: []repositories.Criterion{
				repositories.Published{},
				repositories.ExcludeAuthors{AuthorIDs: excluded},
				repositories.VisibleTo{ViewerID: viewerID},
				match,
			},
			Limit: s.cfg.BranchLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load interest posts: %w", err)
		}
		add(posts)
	}

	return annotate(ctx, s.posts, viewerID, merged)
}

// preferenceMatch matches content mentioning the viewer's team or player, or
// tagged with either one written as a hashtag. Nil when neither is set.
func preferenceMatch(viewer *models.User) repositories.Criterion {
	var terms repositories.AnyOf
	for _, pref := range []string{
		models.Preference(viewer.FavoriteTeam),
		models.Preference(viewer.FavoritePlayer),
	} {
		if pref == "" {
			continue
		}
		terms = append(terms,
			repositories.ByKeyword{Term: pref},
			repositories.ByHashtag{Tag: utils.StripWhitespace(pref)},
		)
	}
	if len(terms) == 0 {
		return nil
	}
	return terms
}
