package mysql

import (
	"context"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/models/entities"
)

// PostBatchRepository 提供热帖排行相关的批量查询。
// 排行榜缓存重建与缓存失效兜底都走这里，和单条 CRUD 的 PostRepository 分开，
// 避免接口越长越杂。
type PostBatchRepository interface {
	// GetTopPostsByHotScore 按热度分降序返回前 limit 个公开帖子。
	GetTopPostsByHotScore(ctx context.Context, limit int) ([]*entities.Post, error)

	// GetPostsByIDs 按 ID 批量取帖子，结果保持与 ids 相同的顺序，缺失的 ID 跳过。
	GetPostsByIDs(ctx context.Context, ids []string) ([]*entities.Post, error)
}

type postBatchRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewPostBatchRepository 是 postBatchRepository 的构造函数。
func NewPostBatchRepository(db *gorm.DB, logger *core.ZapLogger) PostBatchRepository {
	return &postBatchRepository{db: db, logger: logger}
}

func (r *postBatchRepository) GetTopPostsByHotScore(ctx context.Context, limit int) ([]*entities.Post, error) {
	var posts []*entities.Post
	err := r.db.WithContext(ctx).
		Where("status = ?", entities.VisibilityPublic).
		Order("hot_score DESC").
		Order("id DESC").
		Limit(limit).
		Find(&posts).Error
	if err != nil {
		r.logger.Error("按热度分批量查询帖子失败", zap.Error(err), zap.Int("limit", limit))
		return nil, err
	}
	return posts, nil
}

func (r *postBatchRepository) GetPostsByIDs(ctx context.Context, ids []string) ([]*entities.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var posts []*entities.Post
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&posts).Error
	if err != nil {
		r.logger.Error("按ID批量查询帖子失败", zap.Error(err), zap.Int("count", len(ids)))
		return nil, err
	}

	// IN 查询不保证顺序，按传入顺序重排，排行榜展示依赖它。
	byID := make(map[string]*entities.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}
	ordered := make([]*entities.Post, 0, len(posts))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}
