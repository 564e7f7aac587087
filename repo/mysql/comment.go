package mysql

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/constant"
	"github.com/Xushengqwer/community_service/models/entities"
)

// CommentRepository 定义了评论数据在 MySQL 中的持久化操作接口。
// 评论采用物理删除（楼主评论级联删除）与逻辑墓碑（楼中回复占位）两种删除形态，
// 由服务层依据评论类型选择，仓库层分别提供对应的裸操作。
type CommentRepository interface {
	// CreateComment 持久化一条新评论。
	CreateComment(ctx context.Context, db *gorm.DB, comment *entities.Comment) error

	// GetCommentByID 根据 ID 获取评论，未找到时返回 commonerrors.ErrRepoNotFound。
	GetCommentByID(ctx context.Context, db *gorm.DB, id string) (*entities.Comment, error)

	// ListReplyIDs 返回以 rootID 为根的所有回复的 ID 列表（不含根评论自身）。
	ListReplyIDs(ctx context.Context, db *gorm.DB, rootID string) ([]string, error)

	// DeleteByIDs 物理删除一批评论，返回实际删除的行数。
	DeleteByIDs(ctx context.Context, db *gorm.DB, ids []string) (int64, error)

	// Tombstone 将一条回复改写为墓碑：状态置为 deleted、正文替换为占位文案、点赞数清零。
	// 行仍保留在库中，楼层结构不塌陷。
	Tombstone(ctx context.Context, db *gorm.DB, id string) error

	// ListCommentIDsByPost 返回指定帖子下全部评论（含墓碑）的 ID 列表。
	// 帖子级联删除时用它圈定点赞清理的范围。
	ListCommentIDsByPost(ctx context.Context, db *gorm.DB, postID string) ([]string, error)

	// DeleteByPostID 物理删除指定帖子下的全部评论，返回删除的行数。
	DeleteByPostID(ctx context.Context, db *gorm.DB, postID string) (int64, error)

	// ListCommentsByPost 按创建时间升序分页返回帖子下的楼主评论。
	ListCommentsByPost(ctx context.Context, postID string, offset, limit int) ([]*entities.Comment, int64, error)
}

type commentRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewCommentRepository 是 commentRepository 的构造函数。
func NewCommentRepository(db *gorm.DB, logger *core.ZapLogger) CommentRepository {
	return &commentRepository{db: db, logger: logger}
}

func (r *commentRepository) session(ctx context.Context, db *gorm.DB) *gorm.DB {
	if db != nil {
		return db.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

func (r *commentRepository) CreateComment(ctx context.Context, db *gorm.DB, comment *entities.Comment) error {
	if err := r.session(ctx, db).Create(comment).Error; err != nil {
		return err
	}
	return nil
}

func (r *commentRepository) GetCommentByID(ctx context.Context, db *gorm.DB, id string) (*entities.Comment, error) {
	var comment entities.Comment
	err := r.session(ctx, db).Where("id = ?", id).First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据ID获取评论失败", zap.Error(err), zap.String("commentID", id))
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListReplyIDs(ctx context.Context, db *gorm.DB, rootID string) ([]string, error) {
	var ids []string
	err := r.session(ctx, db).
		Model(&entities.Comment{}).
		Where("root_id = ?", rootID).
		Pluck("id", &ids).Error
	if err != nil {
		r.logger.Error("查询楼内回复ID列表失败", zap.Error(err), zap.String("rootID", rootID))
		return nil, err
	}
	return ids, nil
}

func (r *commentRepository) DeleteByIDs(ctx context.Context, db *gorm.DB, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.session(ctx, db).Where("id IN ?", ids).Delete(&entities.Comment{})
	if result.Error != nil {
		r.logger.Error("批量删除评论失败", zap.Error(result.Error), zap.Int("count", len(ids)))
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *commentRepository) Tombstone(ctx context.Context, db *gorm.DB, id string) error {
	result := r.session(ctx, db).
		Model(&entities.Comment{}).
		Where("id = ? AND status = ?", id, entities.CommentStatusActive).
		Updates(map[string]interface{}{
			"status":     entities.CommentStatusDeleted,
			"content":    constant.DeletedCommentPlaceholder,
			"like_count": 0,
		})
	if result.Error != nil {
		r.logger.Error("回复墓碑化失败", zap.Error(result.Error), zap.String("commentID", id))
		return result.Error
	}
	if result.RowsAffected == 0 {
		// 行不存在或已是墓碑，视为未找到，由服务层决定是否容忍。
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

func (r *commentRepository) ListCommentIDsByPost(ctx context.Context, db *gorm.DB, postID string) ([]string, error) {
	var ids []string
	err := r.session(ctx, db).
		Model(&entities.Comment{}).
		Where("post_id = ?", postID).
		Pluck("id", &ids).Error
	if err != nil {
		r.logger.Error("查询帖子下评论ID列表失败", zap.Error(err), zap.String("postID", postID))
		return nil, err
	}
	return ids, nil
}

func (r *commentRepository) DeleteByPostID(ctx context.Context, db *gorm.DB, postID string) (int64, error) {
	result := r.session(ctx, db).Where("post_id = ?", postID).Delete(&entities.Comment{})
	if result.Error != nil {
		r.logger.Error("删除帖子下全部评论失败", zap.Error(result.Error), zap.String("postID", postID))
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *commentRepository) ListCommentsByPost(ctx context.Context, postID string, offset, limit int) ([]*entities.Comment, int64, error) {
	var comments []*entities.Comment
	var total int64

	base := r.db.WithContext(ctx).
		Model(&entities.Comment{}).
		Where("post_id = ? AND root_id = ''", postID)

	if err := base.Count(&total).Error; err != nil {
		r.logger.Error("统计帖子评论数失败", zap.Error(err), zap.String("postID", postID))
		return nil, 0, err
	}

	err := base.Order("created_at ASC").Offset(offset).Limit(limit).Find(&comments).Error
	if err != nil {
		r.logger.Error("分页查询帖子评论失败", zap.Error(err), zap.String("postID", postID))
		return nil, 0, err
	}
	return comments, total, nil
}
