package repositories

import (
	"context"

	"gorm.io/gorm"

	"ballpark-api/models"
)

// UserQuery selects users. With ByFollowers set the most-followed users come
// first; otherwise users are ordered by username.
type UserQuery struct {
	Criteria    []Criterion
	Limit       int
	ByFollowers bool
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByUsernames resolves mention handles; unknown handles are skipped.
func (r *UserRepository) FindByUsernames(ctx context.Context, usernames []string) ([]models.User, error) {
	if len(usernames) == 0 {
		return nil, nil
	}
	var users []models.User
	err := r.db.WithContext(ctx).Where("username IN ?", usernames).Find(&users).Error
	return users, err
}

func (r *UserRepository) Find(ctx context.Context, q UserQuery) ([]models.User, error) {
	tx := applyCriteria(r.db.WithContext(ctx).Model(&models.User{}), q.Criteria)
	if q.ByFollowers {
		tx = tx.Order("(SELECT COUNT(*) FROM follows WHERE follows.following_id = users.id) DESC")
	}
	tx = tx.Order("users.username ASC")
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var users []models.User
	if err := tx.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// PostCounts returns published post totals keyed by author id.
func (r *UserRepository) PostCounts(ctx context.Context, userIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var rows []countRow
	err := applyCriteria(r.db.WithContext(ctx).Model(&models.Post{}), []Criterion{Published{}}).
		Select("posts.author_id AS ref_id, COUNT(*) AS total").
		Where("posts.author_id IN ?", userIDs).
		Group("posts.author_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.RefID] = row.Total
	}
	return out, nil
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}
