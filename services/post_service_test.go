package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"ballpark-api/config"
	"ballpark-api/models"
	"ballpark-api/repositories"
	"ballpark-api/testutil"
)

type postEnv struct {
	db            *gorm.DB
	fx            *testutil.Fixtures
	posts         *PostService
	comments      *CommentService
	users         *UserService
	search        *SearchService
	suggestions   *SuggestionService
	notifications *NotificationService
}

func newPostEnv(t *testing.T) *postEnv {
	t.Helper()
	db := testutil.NewDB(t)
	postRepo := repositories.NewPostRepository(db)
	userRepo := repositories.NewUserRepository(db)
	socialRepo := repositories.NewSocialRepository(db)

	notifications := NewNotificationService(repositories.NewNotificationRepository(db))
	posts := NewPostService(postRepo, userRepo, socialRepo, notifications)
	return &postEnv{
		db:            db,
		fx:            testutil.NewFixtures(t, db),
		posts:         posts,
		comments:      NewCommentService(repositories.NewCommentRepository(db), posts),
		users:         NewUserService(userRepo, socialRepo, notifications, posts),
		search:        NewSearchService(postRepo, userRepo, socialRepo, config.DefaultExplore()),
		suggestions:   NewSuggestionService(userRepo, socialRepo, config.DefaultExplore()),
		notifications: notifications,
	}
}

func strPtr(s string) *string { return &s }

func TestCreatePostExtractsTagsAndNotifiesMentions(t *testing.T) {
	env := newPostEnv(t)
	env.fx.User("author")
	env.fx.User("buddy")
	ctx := context.Background()

	post, err := env.posts.Create(ctx, "author", CreatePostInput{
		Content: strPtr("  Game day with @buddy and @nobody #Cubs #OpeningDay #Cubs "),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !equal(post.Hashtags, []string{"Cubs", "OpeningDay"}) {
		t.Errorf("hashtags = %v", post.Hashtags)
	}
	if !equal(post.Mentions, []string{"buddy", "nobody"}) {
		t.Errorf("mentions = %v", post.Mentions)
	}
	if post.Author.Username != "author" {
		t.Errorf("author = %q", post.Author.Username)
	}

	tagged, err := env.posts.ByHashtag(ctx, "", "#Cubs", 1, 20)
	if err != nil {
		t.Fatalf("ByHashtag: %v", err)
	}
	if tagged.TotalPosts != 1 || len(tagged.Posts) != 1 {
		t.Errorf("hashtag page = %+v, want one post", tagged)
	}

	inbox, err := env.notifications.List(ctx, "buddy", 1, 20)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(inbox.Notifications) != 1 || inbox.Notifications[0].Type != models.NotificationTypeMention {
		t.Fatalf("buddy notifications = %+v, want one mention", inbox.Notifications)
	}
	if inbox.UnreadCount != 1 {
		t.Errorf("unread = %d, want 1", inbox.UnreadCount)
	}
}

func TestCreatePostRequiresBody(t *testing.T) {
	env := newPostEnv(t)
	env.fx.User("author")

	_, err := env.posts.Create(context.Background(), "author", CreatePostInput{Content: strPtr("   ")})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestSchedulePost(t *testing.T) {
	env := newPostEnv(t)
	env.fx.User("author")
	env.fx.User("reader")
	ctx := context.Background()

	past := time.Now().Add(-time.Minute)
	if _, err := env.posts.Schedule(ctx, "author", CreatePostInput{Content: strPtr("x"), ScheduledFor: &past}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("past schedule err = %v, want ErrInvalidInput", err)
	}
	if _, err := env.posts.Schedule(ctx, "author", CreatePostInput{Content: strPtr("x")}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("missing schedule err = %v, want ErrInvalidInput", err)
	}

	future := time.Now().Add(time.Hour)
	post, err := env.posts.Schedule(ctx, "author", CreatePostInput{Content: strPtr("coming soon #Cubs"), ScheduledFor: &future})
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}

	pending, err := env.posts.Scheduled(ctx, "author")
	if err != nil {
		t.Fatalf("Scheduled: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != post.ID {
		t.Fatalf("pending = %v, want [%s]", pending, post.ID)
	}

	if _, err := env.posts.Get(ctx, "reader", post.ID); !isNotFound(err) {
		t.Errorf("reader Get err = %v, want ErrNotFound", err)
	}
	if _, err := env.posts.Get(ctx, "author", post.ID); err != nil {
		t.Errorf("author Get: %v", err)
	}

	for _, viewer := range []string{"", "reader"} {
		recent, err := env.posts.Recent(ctx, viewer, 1, 10)
		if err != nil {
			t.Fatalf("Recent: %v", err)
		}
		if len(recent.Posts) != 0 {
			t.Errorf("scheduled post listed for %q", viewer)
		}
		res, err := env.search.Search(ctx, viewer, "coming", SearchPosts)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(res.Posts) != 0 {
			t.Errorf("scheduled post found by search for %q", viewer)
		}
	}
	tagged, err := env.posts.ByHashtag(ctx, "reader", "Cubs", 1, 20)
	if err != nil {
		t.Fatalf("ByHashtag: %v", err)
	}
	if tagged.TotalPosts != 0 {
		t.Errorf("scheduled post counted on hashtag page")
	}
	profile, err := env.users.Posts(ctx, "reader", "author", 1, 10)
	if err != nil {
		t.Fatalf("profile posts: %v", err)
	}
	if len(profile.Posts) != 0 {
		t.Errorf("scheduled post listed on profile")
	}

	if err := env.posts.CancelScheduled(ctx, "reader", post.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("reader cancel err = %v, want ErrForbidden", err)
	}
	if err := env.posts.CancelScheduled(ctx, "author", post.ID); err != nil {
		t.Fatalf("CancelScheduled: %v", err)
	}
	if err := env.posts.CancelScheduled(ctx, "author", post.ID); !isNotFound(err) {
		t.Errorf("second cancel err = %v, want ErrNotFound", err)
	}
}

func TestToggleLikeAndSave(t *testing.T) {
	env := newPostEnv(t)
	env.fx.User("author")
	env.fx.User("fan")
	env.fx.Post(testutil.PostSpec{ID: "p", AuthorID: "author", Content: "hi", CreatedAt: t0})
	ctx := context.Background()

	liked, err := env.posts.ToggleLike(ctx, "fan", "p")
	if err != nil || !liked {
		t.Fatalf("first like = %v, %v", liked, err)
	}
	post, err := env.posts.Get(ctx, "fan", "p")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !post.IsLiked || post.LikesCount != 1 {
		t.Errorf("after like: liked=%v count=%d", post.IsLiked, post.LikesCount)
	}

	liked, err = env.posts.ToggleLike(ctx, "fan", "p")
	if err != nil || liked {
		t.Fatalf("second like = %v, %v", liked, err)
	}
	liked, err = env.posts.ToggleLike(ctx, "fan", "p")
	if err != nil || !liked {
		t.Fatalf("third like = %v, %v", liked, err)
	}

	inbox, err := env.notifications.List(ctx, "author", 1, 20)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(inbox.Notifications) != 1 {
		t.Errorf("author got %d like notifications, want 1 within the duplicate window", len(inbox.Notifications))
	}

	saved, err := env.posts.ToggleSave(ctx, "fan", "p")
	if err != nil || !saved {
		t.Fatalf("save = %v, %v", saved, err)
	}
	list, err := env.posts.Saved(ctx, "fan", 1, 10)
	if err != nil {
		t.Fatalf("Saved: %v", err)
	}
	if len(list.Posts) != 1 || !list.Posts[0].IsSaved {
		t.Fatalf("saved list = %+v", list.Posts)
	}

	if _, err := env.posts.ToggleLike(ctx, "fan", "missing"); !isNotFound(err) {
		t.Errorf("like missing post err = %v, want ErrNotFound", err)
	}
}

func TestDeletePost(t *testing.T) {
	env := newPostEnv(t)
	env.fx.User("author")
	env.fx.User("other")
	env.fx.Post(testutil.PostSpec{ID: "p", AuthorID: "author", Content: "bye", Hashtags: []string{"x"}, CreatedAt: t0})
	env.fx.Like("p", "other")
	env.fx.Comment("p", "other", "hmm")
	ctx := context.Background()

	if err := env.posts.Delete(ctx, "other", "p"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("other delete err = %v, want ErrForbidden", err)
	}
	if err := env.posts.Delete(ctx, "author", "p"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := env.posts.Get(ctx, "author", "p"); !isNotFound(err) {
		t.Errorf("Get after delete err = %v, want ErrNotFound", err)
	}

	var likes, tags int64
	env.db.Model(&models.Like{}).Where("post_id = ?", "p").Count(&likes)
	env.db.Model(&models.PostHashtag{}).Where("post_id = ?", "p").Count(&tags)
	if likes != 0 || tags != 0 {
		t.Errorf("orphans left: %d likes, %d hashtags", likes, tags)
	}
}

func TestCommentsRespectBlocks(t *testing.T) {
	env := newPostEnv(t)
	env.fx.User("author")
	env.fx.User("fan")
	env.fx.User("troll")
	env.fx.Post(testutil.PostSpec{ID: "p", AuthorID: "author", Content: "thoughts?", CreatedAt: t0})
	env.fx.Block("author", "troll")
	ctx := context.Background()

	if _, err := env.comments.Create(ctx, "fan", "p", "  great take "); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := env.comments.Create(ctx, "fan", "p", "   "); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank comment err = %v, want ErrInvalidInput", err)
	}
	if _, err := env.comments.Create(ctx, "troll", "p", "lol"); !isNotFound(err) {
		t.Errorf("blocked comment err = %v, want ErrNotFound", err)
	}

	list, err := env.comments.List(ctx, "author", "p")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Content != "great take" || list[0].Author.Username != "fan" {
		t.Fatalf("comments = %+v", list)
	}

	post, err := env.posts.Get(ctx, "author", "p")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if post.CommentsCount != 1 {
		t.Errorf("comments_count = %d, want 1", post.CommentsCount)
	}
}
