package mysql

import (
	"context"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/models/entities"
)

// ViewLogRepository 管理浏览流水表，浏览量去重的事实依据。
// 流水只增不改，按 (post_id, user_id, created_at) 组合索引查询时间窗。
type ViewLogRepository interface {
	// HasRecentView 判断用户在 since 之后是否浏览过指定帖子。
	HasRecentView(ctx context.Context, postID, userID string, since time.Time) (bool, error)

	// CreateViewLog 追加一条浏览流水。流水只增不删，窗口外的旧行自然失效。
	CreateViewLog(ctx context.Context, db *gorm.DB, log *entities.ViewLog) error
}

type viewLogRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewViewLogRepository 是 viewLogRepository 的构造函数。
func NewViewLogRepository(db *gorm.DB, logger *core.ZapLogger) ViewLogRepository {
	return &viewLogRepository{db: db, logger: logger}
}

func (r *viewLogRepository) HasRecentView(ctx context.Context, postID, userID string, since time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.ViewLog{}).
		Where("post_id = ? AND user_id = ? AND created_at >= ?", postID, userID, since).
		Count(&count).Error
	if err != nil {
		r.logger.Error("查询浏览去重窗口失败",
			zap.Error(err),
			zap.String("postID", postID),
			zap.String("userID", userID),
		)
		return false, err
	}
	return count > 0, nil
}

func (r *viewLogRepository) CreateViewLog(ctx context.Context, db *gorm.DB, log *entities.ViewLog) error {
	session := r.db
	if db != nil {
		session = db
	}
	return session.WithContext(ctx).Create(log).Error
}
