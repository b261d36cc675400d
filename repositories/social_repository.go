package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"ballpark-api/models"
)

// SocialRepository owns the pair tables: follows, blocks, likes and saves.
// Every toggle is a delete-or-insert against a unique pair, so the unique
// index is what keeps concurrent toggles from creating duplicates.
type SocialRepository struct {
	db *gorm.DB
}

func NewSocialRepository(db *gorm.DB) *SocialRepository {
	return &SocialRepository{db: db}
}

// FollowingIDs returns the ids userID follows.
func (r *SocialRepository) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Order("id ASC").
		Pluck("following_id", &ids).Error
	return ids, err
}

func (r *SocialRepository) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&n).Error
	return n > 0, err
}

// IsBlockedEitherWay reports whether a block exists between the two users in
// either direction.
func (r *SocialRepository) IsBlockedEitherWay(ctx context.Context, a, b string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Block{}).
		Where("(blocker_id = ? AND blocked_id = ?) OR (blocker_id = ? AND blocked_id = ?)", a, b, b, a).
		Count(&n).Error
	return n > 0, err
}

// HasBlocked reports whether blockerID blocked blockedID.
func (r *SocialRepository) HasBlocked(ctx context.Context, blockerID, blockedID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Block{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&n).Error
	return n > 0, err
}

// ToggleFollow follows or unfollows and reports the resulting state.
func (r *SocialRepository) ToggleFollow(ctx context.Context, followerID, followingID string) (bool, error) {
	return r.toggle(ctx, &models.Follow{}, "follower_id = ? AND following_id = ?",
		&models.Follow{FollowerID: followerID, FollowingID: followingID}, followerID, followingID)
}

// ToggleLike likes or unlikes a post and reports the resulting state.
func (r *SocialRepository) ToggleLike(ctx context.Context, postID, userID string) (bool, error) {
	return r.toggle(ctx, &models.Like{}, "post_id = ? AND user_id = ?",
		&models.Like{PostID: postID, UserID: userID}, postID, userID)
}

// ToggleSave bookmarks or un-bookmarks a post.
func (r *SocialRepository) ToggleSave(ctx context.Context, postID, userID string) (bool, error) {
	return r.toggle(ctx, &models.SavedPost{}, "post_id = ? AND user_id = ?",
		&models.SavedPost{PostID: postID, UserID: userID}, postID, userID)
}

// ToggleBlock blocks or unblocks. Blocking also drops the blocker's follow of
// the blocked user, in the same transaction.
func (r *SocialRepository) ToggleBlock(ctx context.Context, blockerID, blockedID string) (bool, error) {
	blocked := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).Delete(&models.Block{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}

		if err := tx.Create(&models.Block{BlockerID: blockerID, BlockedID: blockedID}).Error; err != nil {
			return err
		}
		blocked = true
		return tx.Where("follower_id = ? AND following_id = ?", blockerID, blockedID).Delete(&models.Follow{}).Error
	})
	return blocked, err
}

func (r *SocialRepository) toggle(ctx context.Context, model interface{}, where string, row interface{}, args ...interface{}) (bool, error) {
	db := r.db.WithContext(ctx)

	res := db.Where(where, args...).Delete(model)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	if err := db.Create(row).Error; err != nil {
		// A concurrent request inserted the same pair first.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

// FollowCounts returns how many users follow userID and how many userID follows.
func (r *SocialRepository) FollowCounts(ctx context.Context, userID string) (followers, following int64, err error) {
	db := r.db.WithContext(ctx).Model(&models.Follow{})
	if err = db.Where("following_id = ?", userID).Count(&followers).Error; err != nil {
		return 0, 0, err
	}
	err = r.db.WithContext(ctx).Model(&models.Follow{}).Where("follower_id = ?", userID).Count(&following).Error
	return followers, following, err
}

// FollowersSince counts follows of userID created at or after since.
func (r *SocialRepository) FollowersSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("following_id = ? AND created_at >= ?", userID, since.UTC()).
		Count(&total).Error
	return total, err
}

// FollowerCounts returns follower totals keyed by user id.
func (r *SocialRepository) FollowerCounts(ctx context.Context, userIDs []string) (map[string]int64, error) {
	out := make(map[string]int64, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var rows []countRow
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Select("following_id AS ref_id, COUNT(*) AS total").
		Where("following_id IN ?", userIDs).
		Group("following_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.RefID] = row.Total
	}
	return out, nil
}
