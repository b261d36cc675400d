package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ballpark-api/models"
)

// PostQuery selects posts newest first, or most liked first when
// ByPopularity is set.
type PostQuery struct {
	Criteria     []Criterion
	Limit        int
	Offset       int
	ByPopularity bool
}

// EngagementCounts holds the raw interaction totals for one post.
type EngagementCounts struct {
	Likes    int64
	Comments int64
}

type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

// Find returns posts matching q ordered by created_at descending, with the
// author preloaded.
func (r *PostRepository) Find(ctx context.Context, q PostQuery) ([]models.Post, error) {
	tx := applyCriteria(r.db.WithContext(ctx).Model(&models.Post{}), q.Criteria).
		Preload("Author")
	if q.ByPopularity {
		tx = tx.Order(likeCountSQL + " DESC").Order(commentCountSQL + " DESC")
	}
	tx = tx.Order("posts.created_at DESC").
		Order("posts.id DESC")
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}

	var posts []models.Post
	if err := tx.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// FindScheduled returns an author's pending posts, soonest first.
func (r *PostRepository) FindScheduled(ctx context.Context, authorID string) ([]models.Post, error) {
	var posts []models.Post
	err := applyCriteria(r.db.WithContext(ctx).Model(&models.Post{}), []Criterion{ByAuthor{AuthorID: authorID}, Scheduled{}}).
		Order("posts.scheduled_for ASC").
		Find(&posts).Error
	return posts, err
}

// Count returns the number of posts matching criteria.
func (r *PostRepository) Count(ctx context.Context, criteria ...Criterion) (int64, error) {
	var total int64
	err := applyCriteria(r.db.WithContext(ctx).Model(&models.Post{}), criteria).Count(&total).Error
	return total, err
}

// HashtagSets returns the hashtag set of every matching post, newest post
// first.
func (r *PostRepository) HashtagSets(ctx context.Context, criteria ...Criterion) ([]models.StringSlice, error) {
	var rows []hashtagRow
	err := applyCriteria(r.db.WithContext(ctx).Model(&models.Post{}), criteria).
		Select("posts.hashtags").
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sets := make([]models.StringSlice, len(rows))
	for i, row := range rows {
		sets[i] = row.Hashtags
	}
	return sets, nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).Preload("Author").First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Create stores the post together with its hashtag index rows.
func (r *PostRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(post).Error; err != nil {
			return err
		}
		tags := uniqueTags(post.ID, post.Hashtags)
		if len(tags) == 0 {
			return nil
		}
		return tx.Create(&tags).Error
	})
}

// Delete removes a post and every row that references it.
func (r *PostRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{&models.Like{}, &models.Comment{}, &models.SavedPost{}, &models.PostHashtag{}} {
			if err := tx.Where("post_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", id).Delete(&models.Post{}).Error
	})
}

// FindDue returns posts whose publish time has arrived.
func (r *PostRepository) FindDue(ctx context.Context, now time.Time) ([]models.Post, error) {
	var posts []models.Post
	err := applyCriteria(r.db.WithContext(ctx).Model(&models.Post{}), []Criterion{DueBy{At: now}}).
		Preload("Author").
		Order("posts.scheduled_for ASC").
		Find(&posts).Error
	return posts, err
}

// MarkPublished clears scheduled_for on one post if it is still due. It
// reports false when another sweep got there first.
func (r *PostRepository) MarkPublished(ctx context.Context, id string, now time.Time) (bool, error) {
	res := applyCriteria(r.db.WithContext(ctx).Model(&models.Post{}), []Criterion{DueBy{At: now}}).
		Where("posts.id = ?", id).
		Update("scheduled_for", gorm.Expr("NULL"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// InteractionsSince counts likes and comments left on authorID's posts at or
// after since.
func (r *PostRepository) InteractionsSince(ctx context.Context, authorID string, since time.Time) (likes, comments int64, err error) {
	since = since.UTC()
	err = r.db.WithContext(ctx).Model(&models.Like{}).
		Joins("JOIN posts ON posts.id = likes.post_id").
		Where("posts.author_id = ? AND likes.created_at >= ?", authorID, since).
		Count(&likes).Error
	if err != nil {
		return 0, 0, err
	}
	err = r.db.WithContext(ctx).Model(&models.Comment{}).
		Joins("JOIN posts ON posts.id = comments.post_id").
		Where("posts.author_id = ? AND comments.created_at >= ?", authorID, since).
		Count(&comments).Error
	return likes, comments, err
}

// EngagementCounts returns like and comment totals keyed by post id. Posts
// without interactions are absent from the map.
func (r *PostRepository) EngagementCounts(ctx context.Context, postIDs []string) (map[string]EngagementCounts, error) {
	out := make(map[string]EngagementCounts, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}

	likes, err := r.countByPost(ctx, &models.Like{}, postIDs)
	if err != nil {
		return nil, err
	}
	comments, err := r.countByPost(ctx, &models.Comment{}, postIDs)
	if err != nil {
		return nil, err
	}

	for id, n := range likes {
		c := out[id]
		c.Likes = n
		out[id] = c
	}
	for id, n := range comments {
		c := out[id]
		c.Comments = n
		out[id] = c
	}
	return out, nil
}

type hashtagRow struct {
	Hashtags models.StringSlice
}

type countRow struct {
	RefID string
	Total int64
}

func (r *PostRepository) countByPost(ctx context.Context, model interface{}, postIDs []string) (map[string]int64, error) {
	var rows []countRow
	err := r.db.WithContext(ctx).Model(model).
		Select("post_id AS ref_id, COUNT(*) AS total").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.RefID] = row.Total
	}
	return counts, nil
}

// LikedBy returns the subset of postIDs the user has liked.
func (r *PostRepository) LikedBy(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	return r.markedBy(ctx, &models.Like{}, userID, postIDs)
}

// SavedBy returns the subset of postIDs the user has saved.
func (r *PostRepository) SavedBy(ctx context.Context, userID string, postIDs []string) (map[string]bool, error) {
	return r.markedBy(ctx, &models.SavedPost{}, userID, postIDs)
}

func (r *PostRepository) markedBy(ctx context.Context, model interface{}, userID string, postIDs []string) (map[string]bool, error) {
	out := make(map[string]bool)
	if userID == "" || len(postIDs) == 0 {
		return out, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).Model(model).
		Where("user_id = ? AND post_id IN ?", userID, postIDs).
		Pluck("post_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

func uniqueTags(postID string, hashtags models.StringSlice) []models.PostHashtag {
	seen := make(map[string]bool, len(hashtags))
	tags := make([]models.PostHashtag, 0, len(hashtags))
	for _, h := range hashtags {
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		tags = append(tags, models.PostHashtag{PostID: postID, Tag: h})
	}
	return tags
}
