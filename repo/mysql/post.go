package mysql

import (
	"context"
	"errors"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/models/entities"
)

// PostRepository 定义了帖子数据在 MySQL 中的持久化操作接口。
// 接口的设计旨在将数据访问逻辑与业务逻辑（服务层）解耦。
type PostRepository interface {
	// CreatePost 持久化一个新的帖子记录。
	// - 这是帖子生命周期的起点，对应用户发布帖子的操作。
	CreatePost(ctx context.Context, db *gorm.DB, post *entities.Post) error

	// GetPostByID 根据单个 ID 检索帖子信息（软删记录不可见）。
	// - 如果未找到帖子，返回 commonerrors.ErrRepoNotFound 错误。
	GetPostByID(ctx context.Context, db *gorm.DB, id string) (*entities.Post, error)

	// UpdateManagedFields 更新帖子的管理属性（可见性 / 评论开关 / 置顶）。
	// - updates 的键为数据库列名，由服务层按动作类型构造。
	// - 未命中记录（含已软删）返回 commonerrors.ErrRepoNotFound。
	UpdateManagedFields(ctx context.Context, db *gorm.DB, id string, updates map[string]interface{}) error

	// DeletePost 对指定帖子执行软删除。
	// - 软删除通过 GORM 的约定（填充 deleted_at 字段）实现，数据仍在库中可追溯。
	DeletePost(ctx context.Context, db *gorm.DB, id string) error

	// GetPostsByTimeline 按创建时间降序做游标分页，只返回公开可见的帖子。
	// - lastCreatedAt / lastPostID 同时为 nil 表示首页。
	// - 返回 (帖子列表, 下一页游标时间, 下一页游标ID, 错误)。
	GetPostsByTimeline(ctx context.Context, lastCreatedAt *time.Time, lastPostID *string, pageSize int) ([]*entities.Post, *time.Time, *string, error)
}

// postRepository 是 PostRepository 接口针对 MySQL 的具体实现。
type postRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewPostRepository 是 postRepository 的构造函数。
func NewPostRepository(db *gorm.DB, logger *core.ZapLogger) PostRepository {
	return &postRepository{
		db:     db,
		logger: logger,
	}
}

func (r *postRepository) session(ctx context.Context, db *gorm.DB) *gorm.DB {
	if db != nil {
		return db.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

// CreatePost 实现帖子的数据库插入操作。
func (r *postRepository) CreatePost(ctx context.Context, db *gorm.DB, post *entities.Post) error {
	// 使用传入的 db 对象（事务场景下即为 tx）执行数据库操作。
	// ID 由实体的 BeforeCreate 钩子分配，CreatedAt/UpdatedAt 由 GORM 填充。
	if err := r.session(ctx, db).Create(post).Error; err != nil {
		return err
	}
	return nil
}

// GetPostByID 根据 ID 获取帖子，软删除的记录被 GORM 自动过滤。
func (r *postRepository) GetPostByID(ctx context.Context, db *gorm.DB, id string) (*entities.Post, error) {
	var post entities.Post
	err := r.session(ctx, db).Where("id = ?", id).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据ID获取帖子失败", zap.Error(err), zap.String("postID", id))
		return nil, err
	}
	return &post, nil
}

// UpdateManagedFields 更新帖子的可管理字段，总是顺带刷新 updated_at。
func (r *postRepository) UpdateManagedFields(ctx context.Context, db *gorm.DB, id string, updates map[string]interface{}) error {
	if len(updates) == 0 {
		r.logger.Info("没有提供任何有效的字段来更新帖子", zap.String("postID", id))
		return nil
	}
	updates["updated_at"] = time.Now()

	result := r.session(ctx, db).
		Model(&entities.Post{}).
		Where("id = ?", id).
		Updates(updates)

	if result.Error != nil {
		r.logger.Error("更新帖子管理字段数据库操作失败",
			zap.Error(result.Error),
			zap.String("postID", id),
			zap.Any("updateData", updates),
		)
		return result.Error
	}

	if result.RowsAffected == 0 {
		r.logger.Warn("尝试更新帖子但未找到记录或记录已被删除", zap.String("postID", id))
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// DeletePost 实现帖子的软删除。
func (r *postRepository) DeletePost(ctx context.Context, db *gorm.DB, id string) error {
	result := r.session(ctx, db).Where("id = ?", id).Delete(&entities.Post{})
	if result.Error != nil {
		r.logger.Error("软删除帖子失败", zap.Error(result.Error), zap.String("postID", id))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// GetPostsByTimeline 实现按时间线的游标分页查询。
func (r *postRepository) GetPostsByTimeline(ctx context.Context, lastCreatedAt *time.Time, lastPostID *string, pageSize int) ([]*entities.Post, *time.Time, *string, error) {
	var posts []*entities.Post

	if pageSize <= 0 {
		pageSize = 20
	}

	// 只返回公开帖子，私密帖子仅作者本人可通过详情接口访问。
	query := r.db.WithContext(ctx).
		Model(&entities.Post{}).
		Where("status = ?", entities.VisibilityPublic)

	// 应用游标分页条件：时间严格更早，或同一时刻内 ID 更小。
	if lastCreatedAt != nil && lastPostID != nil {
		query = query.Where("(created_at < ? OR (created_at = ? AND id < ?))", *lastCreatedAt, *lastCreatedAt, *lastPostID)
	}

	query = query.Order("created_at DESC").Order("id DESC")

	// 查询 pageSize + 1 条记录，以判断是否还有下一页。
	err := query.Limit(pageSize + 1).Find(&posts).Error
	if err != nil {
		r.logger.Error("按时间线获取帖子列表数据库查询失败", zap.Error(err))
		return nil, nil, nil, err
	}

	var nextCreatedAt *time.Time
	var nextPostID *string
	if len(posts) > pageSize {
		lastPostInPage := posts[pageSize-1]
		nextCreatedAt = &lastPostInPage.CreatedAt
		nextPostID = &lastPostInPage.ID
		posts = posts[:pageSize]
	}

	return posts, nextCreatedAt, nextPostID, nil
}
