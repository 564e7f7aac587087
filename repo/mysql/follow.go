package mysql

import (
	"context"

	"github.com/Xushengqwer/go-common/core"
	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/models/entities"
)

// FollowRepository 管理用户关注关系表。
type FollowRepository interface {
	// FollowExists 判断 follower 是否已关注 target。
	FollowExists(ctx context.Context, followerID, targetID string) (bool, error)

	// CreateFollow 插入一条关注关系。
	CreateFollow(ctx context.Context, db *gorm.DB, follow *entities.Follow) error

	// DeleteFollow 取消关注，返回删除的行数。
	DeleteFollow(ctx context.Context, db *gorm.DB, followerID, targetID string) (int64, error)
}

type followRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewFollowRepository 是 followRepository 的构造函数。
func NewFollowRepository(db *gorm.DB, logger *core.ZapLogger) FollowRepository {
	return &followRepository{db: db, logger: logger}
}

func (r *followRepository) session(ctx context.Context, db *gorm.DB) *gorm.DB {
	if db != nil {
		return db.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

func (r *followRepository) FollowExists(ctx context.Context, followerID, targetID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Follow{}).
		Where("follower_id = ? AND target_id = ?", followerID, targetID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *followRepository) CreateFollow(ctx context.Context, db *gorm.DB, follow *entities.Follow) error {
	return r.session(ctx, db).Create(follow).Error
}

func (r *followRepository) DeleteFollow(ctx context.Context, db *gorm.DB, followerID, targetID string) (int64, error) {
	result := r.session(ctx, db).
		Where("follower_id = ? AND target_id = ?", followerID, targetID).
		Delete(&entities.Follow{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
