package mysql

import (
	"context"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/models/entities"
)

// LikeRepository 管理帖子点赞与评论点赞两张关系表。
// 点赞行的批量清理（宿主被删后）是尽力而为的：失败不会回滚宿主删除，
// 残留行由定时任务的孤儿回收兜底。
type LikeRepository interface {
	// PostLikeExists 判断用户是否已点赞指定帖子。
	PostLikeExists(ctx context.Context, postID, userID string) (bool, error)

	// CreatePostLike 插入一条帖子点赞记录。
	CreatePostLike(ctx context.Context, db *gorm.DB, like *entities.PostLike) error

	// DeletePostLike 删除用户对指定帖子的点赞，返回删除的行数。
	DeletePostLike(ctx context.Context, db *gorm.DB, postID, userID string) (int64, error)

	// CommentLikeExists 判断用户是否已点赞指定评论。
	CommentLikeExists(ctx context.Context, commentID, userID string) (bool, error)

	// CreateCommentLike 插入一条评论点赞记录。
	CreateCommentLike(ctx context.Context, db *gorm.DB, like *entities.CommentLike) error

	// DeleteCommentLike 删除用户对指定评论的点赞，返回删除的行数。
	DeleteCommentLike(ctx context.Context, db *gorm.DB, commentID, userID string) (int64, error)

	// DeletePostLikesByPostID 清理指定帖子的全部点赞记录。
	DeletePostLikesByPostID(ctx context.Context, postID string) (int64, error)

	// DeleteCommentLikesByCommentIDs 清理一批评论的全部点赞记录。
	DeleteCommentLikesByCommentIDs(ctx context.Context, commentIDs []string) (int64, error)

	// DeleteOrphanPostLikes 回收宿主帖子已不存在的点赞行，单轮最多删 batchSize 行。
	DeleteOrphanPostLikes(ctx context.Context, batchSize int) (int64, error)

	// DeleteOrphanCommentLikes 回收宿主评论已不存在的点赞行，单轮最多删 batchSize 行。
	DeleteOrphanCommentLikes(ctx context.Context, batchSize int) (int64, error)
}

type likeRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewLikeRepository 是 likeRepository 的构造函数。
func NewLikeRepository(db *gorm.DB, logger *core.ZapLogger) LikeRepository {
	return &likeRepository{db: db, logger: logger}
}

func (r *likeRepository) session(ctx context.Context, db *gorm.DB) *gorm.DB {
	if db != nil {
		return db.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

func (r *likeRepository) PostLikeExists(ctx context.Context, postID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.PostLike{}).
		Where("target_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *likeRepository) CreatePostLike(ctx context.Context, db *gorm.DB, like *entities.PostLike) error {
	return r.session(ctx, db).Create(like).Error
}

func (r *likeRepository) DeletePostLike(ctx context.Context, db *gorm.DB, postID, userID string) (int64, error) {
	result := r.session(ctx, db).
		Where("target_id = ? AND user_id = ?", postID, userID).
		Delete(&entities.PostLike{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *likeRepository) CommentLikeExists(ctx context.Context, commentID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.CommentLike{}).
		Where("target_id = ? AND user_id = ?", commentID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *likeRepository) CreateCommentLike(ctx context.Context, db *gorm.DB, like *entities.CommentLike) error {
	return r.session(ctx, db).Create(like).Error
}

func (r *likeRepository) DeleteCommentLike(ctx context.Context, db *gorm.DB, commentID, userID string) (int64, error) {
	result := r.session(ctx, db).
		Where("target_id = ? AND user_id = ?", commentID, userID).
		Delete(&entities.CommentLike{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *likeRepository) DeletePostLikesByPostID(ctx context.Context, postID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("target_id = ?", postID).
		Delete(&entities.PostLike{})
	if result.Error != nil {
		r.logger.Error("清理帖子点赞记录失败", zap.Error(result.Error), zap.String("postID", postID))
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *likeRepository) DeleteCommentLikesByCommentIDs(ctx context.Context, commentIDs []string) (int64, error) {
	if len(commentIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Where("target_id IN ?", commentIDs).
		Delete(&entities.CommentLike{})
	if result.Error != nil {
		r.logger.Error("清理评论点赞记录失败", zap.Error(result.Error), zap.Int("count", len(commentIDs)))
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *likeRepository) DeleteOrphanPostLikes(ctx context.Context, batchSize int) (int64, error) {
	// 借助 LEFT JOIN 找出宿主帖子已被物理清除（或软删后超期清理）的点赞行。
	// MySQL 的 DELETE 不支持 LIMIT + JOIN 组合，先圈定主键再删。
	var ids []string
	err := r.db.WithContext(ctx).
		Table("post_likes AS pl").
		Joins("LEFT JOIN posts AS p ON p.id = pl.target_id").
		Where("p.id IS NULL").
		Limit(batchSize).
		Pluck("pl.id", &ids).Error
	if err != nil {
		r.logger.Error("扫描孤儿帖子点赞失败", zap.Error(err))
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&entities.PostLike{})
	if result.Error != nil {
		r.logger.Error("删除孤儿帖子点赞失败", zap.Error(result.Error))
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *likeRepository) DeleteOrphanCommentLikes(ctx context.Context, batchSize int) (int64, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Table("comment_likes AS cl").
		Joins("LEFT JOIN comments AS c ON c.id = cl.target_id").
		Where("c.id IS NULL").
		Limit(batchSize).
		Pluck("cl.id", &ids).Error
	if err != nil {
		r.logger.Error("扫描孤儿评论点赞失败", zap.Error(err))
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&entities.CommentLike{})
	if result.Error != nil {
		r.logger.Error("删除孤儿评论点赞失败", zap.Error(result.Error))
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
