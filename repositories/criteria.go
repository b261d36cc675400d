package repositories

import (
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Criterion is one filter predicate handed to a repository. The set of
// criteria is closed: only types in this package implement it.
type Criterion interface {
	// expression renders the predicate, or nil when it constrains nothing.
	expression() clause.Expression
}

// Post criteria.

// Published matches posts that are live: not scheduled and not archived.
type Published struct{}

// Scheduled matches non-archived posts still waiting for their publish time.
type Scheduled struct{}

// DueBy matches scheduled, non-archived posts whose publish time is at or
// before At.
type DueBy struct{ At time.Time }

// ByFollowing matches posts authored by any of AuthorIDs. An empty set
// matches nothing.
type ByFollowing struct{ AuthorIDs []string }

// ByAuthor matches posts by a single author.
type ByAuthor struct{ AuthorID string }

// ExcludeAuthors drops posts by any of AuthorIDs.
type ExcludeAuthors struct{ AuthorIDs []string }

// ByKeyword matches posts whose content contains Term, ignoring case.
type ByKeyword struct{ Term string }

// ByHashtag matches posts whose hashtag set contains Tag exactly.
type ByHashtag struct{ Tag string }

// CreatedBetween matches posts created in [From, To].
type CreatedBetween struct{ From, To time.Time }

// VisibleTo drops posts whose author blocked, or was blocked by, ViewerID.
// An empty ViewerID constrains nothing.
type VisibleTo struct{ ViewerID string }

// SavedBy matches posts bookmarked by UserID.
type SavedBy struct{ UserID string }

// MinLikes matches posts liked at least N times. N <= 0 constrains nothing.
type MinLikes struct{ N int64 }

// User criteria.

// ByTeam matches users with the same favorite team.
type ByTeam struct{ Team string }

// TeamContains matches users whose favorite team contains Team, ignoring
// case.
type TeamContains struct{ Team string }

// ByLocation matches users whose location contains Location, ignoring case.
type ByLocation struct{ Location string }

// ByName matches users whose username or display name contains Term.
type ByName struct{ Term string }

// ExcludeUsers drops the listed user ids.
type ExcludeUsers struct{ UserIDs []string }

// UsersVisibleTo drops users who blocked, or were blocked by, ViewerID.
type UsersVisibleTo struct{ ViewerID string }

// AnyOf matches when at least one member matches. An empty AnyOf matches
// nothing.
type AnyOf []Criterion

func (Published) expression() clause.Expression {
	return clause.Expr{SQL: "posts.scheduled_for IS NULL AND posts.is_archived = ?", Vars: []interface{}{false}}
}

func (Scheduled) expression() clause.Expression {
	return clause.Expr{SQL: "posts.scheduled_for IS NOT NULL AND posts.is_archived = ?", Vars: []interface{}{false}}
}

func (c DueBy) expression() clause.Expression {
	return clause.Expr{
		SQL:  "posts.scheduled_for IS NOT NULL AND posts.scheduled_for <= ? AND posts.is_archived = ?",
		Vars: []interface{}{c.At.UTC(), false},
	}
}

func (c ByFollowing) expression() clause.Expression {
	if len(c.AuthorIDs) == 0 {
		return matchNothing
	}
	return clause.Expr{SQL: "posts.author_id IN ?", Vars: []interface{}{c.AuthorIDs}}
}

func (c ByAuthor) expression() clause.Expression {
	return clause.Expr{SQL: "posts.author_id = ?", Vars: []interface{}{c.AuthorID}}
}

func (c ExcludeAuthors) expression() clause.Expression {
	if len(c.AuthorIDs) == 0 {
		return nil
	}
	return clause.Expr{SQL: "posts.author_id NOT IN ?", Vars: []interface{}{c.AuthorIDs}}
}

func (c ByKeyword) expression() clause.Expression {
	if strings.TrimSpace(c.Term) == "" {
		return nil
	}
	return clause.Expr{SQL: "LOWER(posts.content) LIKE ?", Vars: []interface{}{containsPattern(c.Term)}}
}

func (c ByHashtag) expression() clause.Expression {
	if c.Tag == "" {
		return nil
	}
	return clause.Expr{
		SQL:  "EXISTS (SELECT 1 FROM post_hashtags WHERE post_hashtags.post_id = posts.id AND post_hashtags.tag = ?)",
		Vars: []interface{}{c.Tag},
	}
}

func (c CreatedBetween) expression() clause.Expression {
	return clause.Expr{SQL: "posts.created_at >= ? AND posts.created_at <= ?", Vars: []interface{}{c.From.UTC(), c.To.UTC()}}
}

func (c VisibleTo) expression() clause.Expression {
	if c.ViewerID == "" {
		return nil
	}
	return clause.Expr{
		SQL: "posts.author_id NOT IN (SELECT blocks.blocked_id FROM blocks WHERE blocks.blocker_id = ?) " +
			"AND posts.author_id NOT IN (SELECT blocks.blocker_id FROM blocks WHERE blocks.blocked_id = ?)",
		Vars: []interface{}{c.ViewerID, c.ViewerID},
	}
}

func (c SavedBy) expression() clause.Expression {
	return clause.Expr{
		SQL:  "EXISTS (SELECT 1 FROM saved_posts WHERE saved_posts.post_id = posts.id AND saved_posts.user_id = ?)",
		Vars: []interface{}{c.UserID},
	}
}

func (c MinLikes) expression() clause.Expression {
	if c.N <= 0 {
		return nil
	}
	return clause.Expr{SQL: likeCountSQL + " >= ?", Vars: []interface{}{c.N}}
}

func (c TeamContains) expression() clause.Expression {
	if strings.TrimSpace(c.Team) == "" {
		return nil
	}
	return clause.Expr{SQL: "LOWER(users.favorite_team) LIKE ?", Vars: []interface{}{containsPattern(c.Team)}}
}

func (c ByTeam) expression() clause.Expression {
	if c.Team == "" {
		return nil
	}
	return clause.Expr{SQL: "users.favorite_team = ?", Vars: []interface{}{c.Team}}
}

func (c ByLocation) expression() clause.Expression {
	if strings.TrimSpace(c.Location) == "" {
		return nil
	}
	return clause.Expr{SQL: "LOWER(users.location) LIKE ?", Vars: []interface{}{containsPattern(c.Location)}}
}

func (c ByName) expression() clause.Expression {
	if strings.TrimSpace(c.Term) == "" {
		return nil
	}
	p := containsPattern(c.Term)
	return clause.Expr{SQL: "LOWER(users.username) LIKE ? OR LOWER(users.name) LIKE ?", Vars: []interface{}{p, p}}
}

func (c ExcludeUsers) expression() clause.Expression {
	if len(c.UserIDs) == 0 {
		return nil
	}
	return clause.Expr{SQL: "users.id NOT IN ?", Vars: []interface{}{c.UserIDs}}
}

func (c UsersVisibleTo) expression() clause.Expression {
	if c.ViewerID == "" {
		return nil
	}
	return clause.Expr{
		SQL: "users.id NOT IN (SELECT blocks.blocked_id FROM blocks WHERE blocks.blocker_id = ?) " +
			"AND users.id NOT IN (SELECT blocks.blocker_id FROM blocks WHERE blocks.blocked_id = ?)",
		Vars: []interface{}{c.ViewerID, c.ViewerID},
	}
}

func (a AnyOf) expression() clause.Expression {
	exprs := make([]clause.Expression, 0, len(a))
	for _, c := range a {
		if e := c.expression(); e != nil {
			exprs = append(exprs, e)
		}
	}
	switch len(exprs) {
	case 0:
		return matchNothing
	case 1:
		return exprs[0]
	default:
		return clause.OrConditions{Exprs: exprs}
	}
}

var matchNothing = clause.Expr{SQL: "1 = 0"}

const (
	likeCountSQL    = "(SELECT COUNT(*) FROM likes WHERE likes.post_id = posts.id)"
	commentCountSQL = "(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id)"
)

func containsPattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}

// applyCriteria adds every non-empty criterion to the query as an AND term.
func applyCriteria(db *gorm.DB, criteria []Criterion) *gorm.DB {
	for _, c := range criteria {
		if c == nil {
			continue
		}
		if e := c.expression(); e != nil {
			db = db.Where(e)
		}
	}
	return db
}
