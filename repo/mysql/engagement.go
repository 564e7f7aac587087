package mysql

import (
	"context"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/models/entities"
)

// EngagementRepository 管理收藏与举报两张互动表。
type EngagementRepository interface {
	// CollectionExists 判断用户是否已收藏指定帖子。
	CollectionExists(ctx context.Context, postID, userID string) (bool, error)

	// CreateCollection 插入一条收藏记录。
	CreateCollection(ctx context.Context, db *gorm.DB, collection *entities.Collection) error

	// DeleteCollection 取消收藏，返回删除的行数。
	DeleteCollection(ctx context.Context, db *gorm.DB, postID, userID string) (int64, error)

	// DeleteCollectionsByPostID 清理指定帖子的全部收藏记录。
	DeleteCollectionsByPostID(ctx context.Context, postID string) (int64, error)

	// CreateReport 插入一条举报记录。同一用户重复举报同一目标直接追加，不去重。
	CreateReport(ctx context.Context, report *entities.Report) error

	// DeleteReportsByTargetID 清理指向某个目标（帖子或评论）的全部举报。
	DeleteReportsByTargetID(ctx context.Context, targetID string) (int64, error)
}

type engagementRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewEngagementRepository 是 engagementRepository 的构造函数。
func NewEngagementRepository(db *gorm.DB, logger *core.ZapLogger) EngagementRepository {
	return &engagementRepository{db: db, logger: logger}
}

func (r *engagementRepository) session(ctx context.Context, db *gorm.DB) *gorm.DB {
	if db != nil {
		return db.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

func (r *engagementRepository) CollectionExists(ctx context.Context, postID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.Collection{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *engagementRepository) CreateCollection(ctx context.Context, db *gorm.DB, collection *entities.Collection) error {
	return r.session(ctx, db).Create(collection).Error
}

func (r *engagementRepository) DeleteCollection(ctx context.Context, db *gorm.DB, postID, userID string) (int64, error) {
	result := r.session(ctx, db).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&entities.Collection{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *engagementRepository) DeleteCollectionsByPostID(ctx context.Context, postID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&entities.Collection{})
	if result.Error != nil {
		r.logger.Error("清理帖子收藏记录失败", zap.Error(result.Error), zap.String("postID", postID))
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *engagementRepository) CreateReport(ctx context.Context, report *entities.Report) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *engagementRepository) DeleteReportsByTargetID(ctx context.Context, targetID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("target_id = ?", targetID).
		Delete(&entities.Report{})
	if result.Error != nil {
		r.logger.Error("清理举报记录失败", zap.Error(result.Error), zap.String("targetID", targetID))
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
