package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"ballpark-api/models"
	"ballpark-api/testutil"
)

func TestToggleFollow(t *testing.T) {
	env := newPostEnv(t)
	env.fx.User("me")
	env.fx.User("you")
	env.fx.User("enemy")
	env.fx.Block("enemy", "me")
	ctx := context.Background()

	if _, err := env.users.ToggleFollow(ctx, "me", "me"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("self follow err = %v, want ErrInvalidInput", err)
	}
	if _, err := env.users.ToggleFollow(ctx, "me", "nobody"); !isNotFound(err) {
		t.Errorf("unknown follow err = %v, want ErrNotFound", err)
	}
	if _, err := env.users.ToggleFollow(ctx, "me", "enemy"); !errors.Is(err, ErrForbidden) {
		t.Errorf("blocked follow err = %v, want ErrForbidden", err)
	}

	following, err := env.users.ToggleFollow(ctx, "me", "you")
	if err != nil || !following {
		t.Fatalf("follow = %v, %v", following, err)
	}
	profile, err := env.users.Profile(ctx, "me", "you")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if !profile.IsFollowing || profile.FollowersCount != 1 {
		t.Errorf("profile = %+v", profile)
	}

	inbox, err := env.notifications.List(ctx, "you", 1, 10)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(inbox.Notifications) != 1 || inbox.Notifications[0].Type != models.NotificationTypeFollow {
		t.Errorf("notifications = %+v, want one follow", inbox.Notifications)
	}

	following, err = env.users.ToggleFollow(ctx, "me", "you")
	if err != nil || following {
		t.Fatalf("unfollow = %v, %v", following, err)
	}
}

func TestToggleBlockHidesContentBothWays(t *testing.T) {
	env := newPostEnv(t)
	env.fx.User("u", testutil.WithTeam("Cubs"))
	env.fx.User("v", testutil.WithTeam("Cubs"), func(u *models.User) { u.Name = "Cubs Fan" })
	env.fx.Follow("u", "v")
	env.fx.Post(testutil.PostSpec{ID: "vpost", AuthorID: "v", Content: "Cubs win", Hashtags: []string{"Cubs"}, CreatedAt: time.Now().UTC().Add(-time.Hour)})
	ctx := context.Background()

	blocked, err := env.users.ToggleBlock(ctx, "u", "v")
	if err != nil || !blocked {
		t.Fatalf("block = %v, %v", blocked, err)
	}

	var follows int64
	env.db.Model(&models.Follow{}).Where("follower_id = ? AND following_id = ?", "u", "v").Count(&follows)
	if follows != 0 {
		t.Error("blocking left the follow in place")
	}

	res, err := env.search.Search(ctx, "u", "Cubs", SearchAll)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Posts) != 0 || len(res.Users) != 0 {
		t.Errorf("blocked user visible in search: %+v", res)
	}

	// v keeps its own post but can no longer see u.
	if _, err := env.posts.Get(ctx, "v", "vpost"); err != nil {
		t.Errorf("author lost access to own post: %v", err)
	}
	if _, err := env.users.Profile(ctx, "v", "u"); !isNotFound(err) {
		t.Errorf("blocked user sees blocker profile: %v", err)
	}
	profile, err := env.users.Profile(ctx, "u", "v")
	if err != nil {
		t.Fatalf("blocker Profile: %v", err)
	}
	if !profile.IsBlocked {
		t.Error("profile.IsBlocked = false after blocking")
	}

	suggested, err := env.suggestions.Suggest(ctx, "u")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(suggested) != 0 {
		t.Errorf("blocked user suggested: %+v", suggested)
	}

	blocked, err = env.users.ToggleBlock(ctx, "u", "v")
	if err != nil || blocked {
		t.Fatalf("unblock = %v, %v", blocked, err)
	}
}

func TestSuggest(t *testing.T) {
	env := newPostEnv(t)
	env.fx.User("me", testutil.WithTeam("Chicago Cubs"), testutil.WithLocation("Chicago"))
	env.fx.User("teammate", testutil.WithTeam("Chicago Cubs"))
	env.fx.User("neighbor", testutil.WithTeam("Chicago White Sox"), testutil.WithLocation("chicago, IL"))
	env.fx.User("popular", testutil.WithTeam("Chicago Cubs"))
	env.fx.User("followed", testutil.WithTeam("Chicago Cubs"))
	env.fx.User("faraway", testutil.WithTeam("Dodgers"), testutil.WithLocation("Los Angeles"))
	env.fx.Follow("me", "followed")
	env.fx.Follow("teammate", "popular")
	env.fx.Follow("neighbor", "popular")
	env.fx.Post(testutil.PostSpec{ID: "pp", AuthorID: "popular", Content: "hi", CreatedAt: t0})

	got, err := env.suggestions.Suggest(context.Background(), "me")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}

	var names []string
	for _, u := range got {
		names = append(names, u.Username)
	}
	want := []string{"popular", "neighbor", "teammate"}
	if !equal(names, want) {
		t.Fatalf("suggestions = %v, want %v", names, want)
	}
	if got[0].FollowersCount != 2 || got[0].PostsCount != 1 {
		t.Errorf("popular counts = %d followers, %d posts", got[0].FollowersCount, got[0].PostsCount)
	}
}

func TestSuggestWithoutPreferences(t *testing.T) {
	env := newPostEnv(t)
	env.fx.User("me")
	env.fx.User("other", testutil.WithTeam("Cubs"))

	for _, viewer := range []string{"", "me"} {
		got, err := env.suggestions.Suggest(context.Background(), viewer)
		if err != nil {
			t.Fatalf("Suggest(%q): %v", viewer, err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("Suggest(%q) = %v, want empty list", viewer, got)
		}
	}
}

func TestSearch(t *testing.T) {
	env := newPostEnv(t)
	env.fx.User("cubsfan", func(u *models.User) { u.Name = "Wrigley Regular" })
	env.fx.User("other")
	env.fx.Post(testutil.PostSpec{ID: "kw", AuthorID: "other", Content: "love the ivy at wrigley", CreatedAt: t0})
	env.fx.Post(testutil.PostSpec{ID: "tag", AuthorID: "other", Content: "game day", Hashtags: []string{"wrigley"}, CreatedAt: t0.Add(time.Minute)})
	env.fx.Post(testutil.PostSpec{ID: "miss", AuthorID: "other", Content: "nothing here", CreatedAt: t0})
	ctx := context.Background()

	res, err := env.search.Search(ctx, "", "wrigley", SearchAll)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Users) != 1 || res.Users[0].Username != "cubsfan" {
		t.Errorf("users = %+v", res.Users)
	}
	if got := ids(res.Posts); !equal(got, []string{"tag", "kw"}) {
		t.Errorf("posts = %v, want [tag kw]", got)
	}

	res, err = env.search.Search(ctx, "", "#wrigley", SearchPosts)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(res.Users) != 0 || len(res.Posts) != 1 || res.Posts[0].ID != "tag" {
		t.Errorf("hashtag search = %+v", res)
	}

	res, err = env.search.Search(ctx, "", "  ", SearchAll)
	if err != nil {
		t.Fatalf("Search empty: %v", err)
	}
	if res.Users == nil || res.Posts == nil || len(res.Users)+len(res.Posts) != 0 {
		t.Errorf("empty query = %+v, want empty arrays", res)
	}

	if _, err := env.search.Search(ctx, "", "x", SearchType("everything")); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("bad type err = %v, want ErrInvalidInput", err)
	}
}
