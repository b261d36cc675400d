package services

import (
	"context"
	"fmt"
	"strings"

	"ballpark-api/config"
	"ballpark-api/models"
	"ballpark-api/repositories"
)

type SearchType string

const (
	SearchAll   SearchType = "all"
	SearchUsers SearchType = "users"
	SearchPosts SearchType = "posts"
)

type SearchResult struct {
	Users []models.SuggestedUser `json:"users"`
	Posts []models.FeedPost      `json:"posts"`
}

type SearchService struct {
	posts  PostReader
	users  UserReader
	social FollowGraph
	cfg    config.ExploreConfig
}

func NewSearchService(posts PostReader, users UserReader, social FollowGraph, cfg config.ExploreConfig) *SearchService {
	return &SearchService{posts: posts, users: users, social: social, cfg: cfg}
}

// Search matches users by username or name and posts by content or exact
// hashtag. An empty query returns empty lists.
func (s *SearchService) Search(ctx context.Context, viewerID, query string, kind SearchType) (*SearchResult, error) {
	result := &SearchResult{Users: []models.SuggestedUser{}, Posts: []models.FeedPost{}}
	query = strings.TrimSpace(query)
	if query == "" {
		return result, nil
	}

	switch kind {
	case "", SearchAll, SearchUsers, SearchPosts:
	default:
		return nil, invalid("type must be all, users or posts")
	}

	if kind != SearchPosts {
		users, err := s.users.Find(ctx, repositories.UserQuery{
			Criteria: []repositories.Criterion{
				repositories.ByName{Term: query},
				repositories.UsersVisibleTo{ViewerID: viewerID},
			},
			Limit: s.cfg.SearchLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to search users: %w", err)
		}
		if result.Users, err = withUserCounts(ctx, s.users, s.social, users); err != nil {
			return nil, err
		}
	}

	if kind != SearchUsers {
		posts, err := s.posts.Find(ctx, repositories.PostQuery{
			Criteria: []repositories.Criterion{
				repositories.Published{},
				repositories.VisibleTo{ViewerID: viewerID},
				repositories.AnyOf{
					repositories.ByKeyword{Term: query},
					repositories.ByHashtag{Tag: strings.TrimPrefix(query, "#")},
				},
			},
			Limit: s.cfg.SearchLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to search posts: %w", err)
		}
		if result.Posts, err = annotate(ctx, s.posts, viewerID, posts); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// SearchSort orders advanced post results.
type SearchSort string

const (
	SortRecent  SearchSort = "recent"
	SortPopular SearchSort = "popular"
)

const advancedSearchLimit = 50

// AdvancedQuery narrows a search with filters. Hashtag and MinLikes apply to
// posts, Location and Team to users.
type AdvancedQuery struct {
	Query    string
	Type     SearchType
	SortBy   SearchSort
	MinLikes int64
	Hashtag  string
	Location string
	Team     string
}

// AdvancedSearch searches either users or posts with optional filters. Unlike
// Search, an empty query is allowed and lists everything the filters match.
func (s *SearchService) AdvancedSearch(ctx context.Context, viewerID string, q AdvancedQuery) (*SearchResult, error) {
	result := &SearchResult{Users: []models.SuggestedUser{}, Posts: []models.FeedPost{}}
	query := strings.TrimSpace(q.Query)

	switch q.SortBy {
	case "", SortRecent, SortPopular:
	default:
		return nil, invalid("sortBy must be recent or popular")
	}
	if q.MinLikes < 0 {
		return nil, invalid("minLikes must not be negative")
	}

	switch q.Type {
	case SearchUsers:
		users, err := s.users.Find(ctx, repositories.UserQuery{
			Criteria: []repositories.Criterion{
				repositories.ByName{Term: query},
				repositories.ByLocation{Location: q.Location},
				repositories.TeamContains{Team: q.Team},
				repositories.UsersVisibleTo{ViewerID: viewerID},
			},
			Limit: advancedSearchLimit,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to search users: %w", err)
		}
		if result.Users, err = withUserCounts(ctx, s.users, s.social, users); err != nil {
			return nil, err
		}
	case "", SearchPosts:
		posts, err := s.posts.Find(ctx, repositories.PostQuery{
			Criteria: []repositories.Criterion{
				repositories.Published{},
				repositories.VisibleTo{ViewerID: viewerID},
				repositories.ByKeyword{Term: query},
				repositories.ByHashtag{Tag: strings.TrimPrefix(strings.TrimSpace(q.Hashtag), "#")},
				repositories.MinLikes{N: q.MinLikes},
			},
			Limit:        advancedSearchLimit,
			ByPopularity: q.SortBy == SortPopular,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to search posts: %w", err)
		}
		if result.Posts, err = annotate(ctx, s.posts, viewerID, posts); err != nil {
			return nil, err
		}
	default:
		return nil, invalid("type must be users or posts")
	}

	return result, nil
}
