package repositories

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm/clause"

	"ballpark-api/testutil"
)

var t0 = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestEmptyCriteria(t *testing.T) {
	if e := (ExcludeAuthors{}).expression(); e != nil {
		t.Errorf("empty ExcludeAuthors = %v, want nil", e)
	}
	if e := (VisibleTo{}).expression(); e != nil {
		t.Errorf("anonymous VisibleTo = %v, want nil", e)
	}
	for name, c := range map[string]Criterion{
		"ByFollowing":   ByFollowing{},
		"AnyOf":         AnyOf{},
		"AnyOf(blanks)": AnyOf{ByKeyword{Term: " "}, ByHashtag{}},
	} {
		e, ok := c.expression().(clause.Expr)
		if !ok || e.SQL != "1 = 0" {
			t.Errorf("%s = %#v, want match-nothing", name, c.expression())
		}
	}
	if _, ok := (AnyOf{ByTeam{Team: "Cubs"}, ByLocation{Location: "Chicago"}}).expression().(clause.OrConditions); !ok {
		t.Error("AnyOf with two members did not render an OR")
	}
}

func postIDs(t *testing.T, r *PostRepository, criteria ...Criterion) []string {
	t.Helper()
	posts, err := r.Find(context.Background(), PostQuery{Criteria: criteria})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	return ids
}

func sameIDs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestPostCriteria(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := NewPostRepository(db)

	fx.User("a")
	fx.User("b")
	fx.User("c")
	fx.Block("c", "a")
	later := t0.Add(time.Hour)
	east := time.FixedZone("UTC+5", 5*60*60)
	west := time.FixedZone("UTC-5", -5*60*60)
	fx.Post(testutil.PostSpec{ID: "a1", AuthorID: "a", Content: "Opening Day at WRIGLEY", Hashtags: []string{"Cubs"}, CreatedAt: t0})
	fx.Post(testutil.PostSpec{ID: "b1", AuthorID: "b", Content: "bullpen day", Hashtags: []string{"cubs", "MLB"}, CreatedAt: t0.Add(time.Minute)})
	fx.Post(testutil.PostSpec{ID: "c1", AuthorID: "c", Content: "rain delay", CreatedAt: t0.Add(2 * time.Minute)})
	fx.Post(testutil.PostSpec{ID: "sched", AuthorID: "a", Content: "soon", CreatedAt: t0, ScheduledFor: &later})
	fx.Post(testutil.PostSpec{ID: "old", AuthorID: "b", Content: "archived", CreatedAt: t0, Archived: true})

	tests := []struct {
		name     string
		criteria []Criterion
		want     []string
	}{
		{"published", []Criterion{Published{}}, []string{"c1", "b1", "a1"}},
		{"scheduled", []Criterion{Scheduled{}}, []string{"sched"}},
		{"due before", []Criterion{DueBy{At: t0}}, []string{}},
		{"due after", []Criterion{DueBy{At: later}}, []string{"sched"}},
		{"due before, east of utc", []Criterion{DueBy{At: t0.In(east)}}, []string{}},
		{"due after, west of utc", []Criterion{DueBy{At: later.In(west)}}, []string{"sched"}},
		{"following", []Criterion{Published{}, ByFollowing{AuthorIDs: []string{"a", "b"}}}, []string{"b1", "a1"}},
		{"following nobody", []Criterion{Published{}, ByFollowing{}}, []string{}},
		{"exclude", []Criterion{Published{}, ExcludeAuthors{AuthorIDs: []string{"b"}}}, []string{"c1", "a1"}},
		{"exclude nobody", []Criterion{Published{}, ExcludeAuthors{}}, []string{"c1", "b1", "a1"}},
		{"keyword ignores case", []Criterion{Published{}, ByKeyword{Term: "wrigley"}}, []string{"a1"}},
		{"hashtag is exact", []Criterion{Published{}, ByHashtag{Tag: "cubs"}}, []string{"b1"}},
		{"window", []Criterion{Published{}, CreatedBetween{From: t0.Add(time.Minute), To: t0.Add(time.Hour)}}, []string{"c1", "b1"}},
		{"window, west of utc", []Criterion{Published{}, CreatedBetween{From: t0.Add(time.Minute).In(west), To: t0.Add(time.Hour).In(west)}}, []string{"c1", "b1"}},
		{"visible to blocked", []Criterion{Published{}, VisibleTo{ViewerID: "a"}}, []string{"b1", "a1"}},
		{"visible to blocker", []Criterion{Published{}, VisibleTo{ViewerID: "c"}}, []string{"c1", "b1"}},
		{"any of", []Criterion{Published{}, AnyOf{ByKeyword{Term: "rain"}, ByHashtag{Tag: "MLB"}}}, []string{"c1", "b1"}},
		{"any of nothing", []Criterion{Published{}, AnyOf{}}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := postIDs(t, repo, tt.criteria...); !sameIDs(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMarkPublishedOnce(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := NewPostRepository(db)
	ctx := context.Background()

	fx.User("a")
	at := t0.Add(time.Hour)
	fx.Post(testutil.PostSpec{ID: "p", AuthorID: "a", Content: "x", CreatedAt: t0, ScheduledFor: &at})

	ok, err := repo.MarkPublished(ctx, "p", t0)
	if err != nil || ok {
		t.Fatalf("MarkPublished before due = %v, %v; want false", ok, err)
	}
	ok, err = repo.MarkPublished(ctx, "p", at)
	if err != nil || !ok {
		t.Fatalf("MarkPublished = %v, %v; want true", ok, err)
	}
	ok, err = repo.MarkPublished(ctx, "p", at)
	if err != nil || ok {
		t.Fatalf("second MarkPublished = %v, %v; want false", ok, err)
	}
	if got := postIDs(t, repo, Published{}); !sameIDs(got, []string{"p"}) {
		t.Errorf("published = %v, want [p]", got)
	}
}

func TestHashtagSetsAndCounts(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := NewPostRepository(db)
	ctx := context.Background()

	fx.User("a")
	fx.User("b")
	fx.Post(testutil.PostSpec{ID: "p1", AuthorID: "a", Content: "x", Hashtags: []string{"mlb", "cubs"}, CreatedAt: t0})
	fx.Post(testutil.PostSpec{ID: "p2", AuthorID: "a", Content: "y", CreatedAt: t0})
	fx.Like("p1", "b")
	fx.Comment("p1", "b", "nice")

	sets, err := repo.HashtagSets(ctx, Published{})
	if err != nil {
		t.Fatalf("HashtagSets: %v", err)
	}
	if len(sets) != 2 {
		t.Fatalf("got %d hashtag sets, want 2", len(sets))
	}

	counts, err := repo.EngagementCounts(ctx, []string{"p1", "p2"})
	if err != nil {
		t.Fatalf("EngagementCounts: %v", err)
	}
	if c := counts["p1"]; c.Likes != 1 || c.Comments != 1 {
		t.Errorf("p1 counts = %+v", c)
	}
	if c := counts["p2"]; c.Likes != 0 || c.Comments != 0 {
		t.Errorf("p2 counts = %+v", c)
	}

	n, err := repo.Count(ctx, Published{}, ByHashtag{Tag: "cubs"})
	if err != nil || n != 1 {
		t.Errorf("Count = %d, %v; want 1", n, err)
	}
}

func TestToggles(t *testing.T) {
	db := testutil.NewDB(t)
	fx := testutil.NewFixtures(t, db)
	repo := NewSocialRepository(db)
	ctx := context.Background()

	fx.User("a")
	fx.User("b")

	for i, want := range []bool{true, false, true} {
		got, err := repo.ToggleFollow(ctx, "a", "b")
		if err != nil {
			t.Fatalf("ToggleFollow #%d: %v", i, err)
		}
		if got != want {
			t.Errorf("ToggleFollow #%d = %v, want %v", i, got, want)
		}
	}

	blocked, err := repo.ToggleBlock(ctx, "a", "b")
	if err != nil || !blocked {
		t.Fatalf("ToggleBlock = %v, %v", blocked, err)
	}
	either, err := repo.IsBlockedEitherWay(ctx, "a", "b")
	if err != nil || !either {
		t.Errorf("IsBlockedEitherWay = %v, %v; want true", either, err)
	}
	if ids, err := repo.FollowingIDs(ctx, "a"); err != nil || len(ids) != 0 {
		t.Errorf("following after block = %v, %v; want none", ids, err)
	}
}
