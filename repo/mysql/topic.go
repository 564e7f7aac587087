package mysql

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/models/entities"
)

// TopicRepository 管理话题表。话题记录按需惰性创建：
// 首次对某个名字做计数增减时才落库，计数从增量值起步。
type TopicRepository interface {
	// GetByName 按名字查询话题，未找到时返回 commonerrors.ErrRepoNotFound。
	GetByName(ctx context.Context, db *gorm.DB, name string) (*entities.Topic, error)

	// CreateTopic 插入一条新话题。并发下同名插入会触发唯一键冲突，由调用方重试。
	CreateTopic(ctx context.Context, db *gorm.DB, topic *entities.Topic) error

	// ListTopics 按引用计数降序分页返回话题列表。
	ListTopics(ctx context.Context, offset, limit int) ([]*entities.Topic, int64, error)
}

type topicRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewTopicRepository 是 topicRepository 的构造函数。
func NewTopicRepository(db *gorm.DB, logger *core.ZapLogger) TopicRepository {
	return &topicRepository{db: db, logger: logger}
}

func (r *topicRepository) session(ctx context.Context, db *gorm.DB) *gorm.DB {
	if db != nil {
		return db.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

func (r *topicRepository) GetByName(ctx context.Context, db *gorm.DB, name string) (*entities.Topic, error) {
	var topic entities.Topic
	err := r.session(ctx, db).Where("name = ?", name).First(&topic).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("按名字查询话题失败", zap.Error(err), zap.String("name", name))
		return nil, err
	}
	return &topic, nil
}

func (r *topicRepository) CreateTopic(ctx context.Context, db *gorm.DB, topic *entities.Topic) error {
	return r.session(ctx, db).Create(topic).Error
}

func (r *topicRepository) ListTopics(ctx context.Context, offset, limit int) ([]*entities.Topic, int64, error) {
	var topics []*entities.Topic
	var total int64

	base := r.db.WithContext(ctx).Model(&entities.Topic{})
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := base.Order("count DESC").Offset(offset).Limit(limit).Find(&topics).Error
	if err != nil {
		r.logger.Error("分页查询话题列表失败", zap.Error(err))
		return nil, 0, err
	}
	return topics, total, nil
}
