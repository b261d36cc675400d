package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"

	"ballpark-api/models"
	"ballpark-api/repositories"
)

func isNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// fakePostReader returns results[i] for the i-th Find call.
type fakePostReader struct {
	results [][]models.Post
	calls   int
	err     error
}

func (f *fakePostReader) Find(_ context.Context, _ repositories.PostQuery) ([]models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	i := f.calls
	f.calls++
	if i >= len(f.results) {
		return nil, nil
	}
	return f.results[i], nil
}

func (f *fakePostReader) Count(context.Context, ...repositories.Criterion) (int64, error) {
	return 0, nil
}

func (f *fakePostReader) EngagementCounts(context.Context, []string) (map[string]repositories.EngagementCounts, error) {
	return map[string]repositories.EngagementCounts{}, nil
}

func (f *fakePostReader) LikedBy(context.Context, string, []string) (map[string]bool, error) {
	return map[string]bool{}, nil
}

func (f *fakePostReader) SavedBy(context.Context, string, []string) (map[string]bool, error) {
	return map[string]bool{}, nil
}

type fakeUserReader struct {
	user *models.User
}

func (f *fakeUserReader) FindByID(_ context.Context, id string) (*models.User, error) {
	if f.user == nil || f.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return f.user, nil
}

func (f *fakeUserReader) FindByUsername(_ context.Context, username string) (*models.User, error) {
	if f.user == nil || f.user.Username != username {
		return nil, gorm.ErrRecordNotFound
	}
	return f.user, nil
}

func (f *fakeUserReader) FindByUsernames(context.Context, []string) ([]models.User, error) {
	return nil, nil
}

func (f *fakeUserReader) Find(context.Context, repositories.UserQuery) ([]models.User, error) {
	return nil, nil
}

func (f *fakeUserReader) PostCounts(context.Context, []string) (map[string]int64, error) {
	return map[string]int64{}, nil
}

type fakeGraph struct {
	following []string
}

func (f *fakeGraph) FollowingIDs(context.Context, string) ([]string, error) {
	return f.following, nil
}

func (f *fakeGraph) FollowerCounts(context.Context, []string) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func (f *fakeGraph) IsBlockedEitherWay(context.Context, string, string) (bool, error) {
	return false, nil
}

// fakePublishStore fails MarkPublished for the ids in failOn.
type fakePublishStore struct {
	due     []models.Post
	findErr error
	failOn  map[string]error
	marked  []string
}

func (f *fakePublishStore) FindDue(context.Context, time.Time) ([]models.Post, error) {
	return f.due, f.findErr
}

func (f *fakePublishStore) MarkPublished(_ context.Context, id string, _ time.Time) (bool, error) {
	if err := f.failOn[id]; err != nil {
		return false, err
	}
	f.marked = append(f.marked, id)
	return true, nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	posts []string
	err   error
}

func (r *recordingNotifier) PostPublished(_ context.Context, post models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts = append(r.posts, post.ID)
	return r.err
}
