package service

import (
	"context"
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/models/dto"
	"github.com/Xushengqwer/community_service/models/entities"
	"github.com/Xushengqwer/community_service/models/events"
	"github.com/Xushengqwer/community_service/models/vo"
	"github.com/Xushengqwer/community_service/myErrors"
	"github.com/Xushengqwer/community_service/pkg/cleanup"
	"github.com/Xushengqwer/community_service/repo/mysql"
)

// CommentService 评论的创建与两种删除策略。
//
// 删除按评论类型分流：
//   - 一级评论：物理级联。事务内删掉根评论与其全部回复，并把帖子的
//     comment_count 原子减去 (1 + 删除时的 reply_count)；事务提交后
//     尽力清理这些评论的点赞行，失败只记日志。
//   - 回复：逻辑墓碑。事务内把状态置为 deleted、正文换成占位文案、
//     点赞数清零；帖子的 comment_count 有意不减（楼层仍占位，这是
//     产品决策而非疏漏）。提交后尽力清理该回复的点赞行。
type CommentService interface {
	// CreateComment 发表评论（一级评论或楼内回复）。
	CreateComment(ctx context.Context, callerID string, req *dto.CreateCommentRequest) (*vo.CommentVO, error)

	// DeleteComment 删除评论，仅评论作者可操作。
	DeleteComment(ctx context.Context, callerID string, commentID string, req *dto.DeleteCommentRequest) (*vo.DeleteCommentResultVO, error)

	// ListComments 分页返回帖子下的一级评论。
	ListComments(ctx context.Context, postID string, offset, limit int) ([]*vo.CommentVO, int64, error)
}

type commentService struct {
	txManager   mysql.TxManager
	commentRepo mysql.CommentRepository
	postRepo    mysql.PostRepository
	counterRepo mysql.CounterRepository
	likeRepo    mysql.LikeRepository
	cleaner     *cleanup.Runner
	producer    DeleteEventProducer
	logger      *core.ZapLogger
}

// NewCommentService 是 commentService 的构造函数。
func NewCommentService(
	txManager mysql.TxManager,
	commentRepo mysql.CommentRepository,
	postRepo mysql.PostRepository,
	counterRepo mysql.CounterRepository,
	likeRepo mysql.LikeRepository,
	cleaner *cleanup.Runner,
	eventProducer DeleteEventProducer,
	logger *core.ZapLogger,
) CommentService {
	return &commentService{
		txManager:   txManager,
		commentRepo: commentRepo,
		postRepo:    postRepo,
		counterRepo: counterRepo,
		likeRepo:    likeRepo,
		cleaner:     cleaner,
		producer:    eventProducer,
		logger:      logger,
	}
}

func (s *commentService) CreateComment(ctx context.Context, callerID string, req *dto.CreateCommentRequest) (*vo.CommentVO, error) {
	// 回复必须同时给出 root 与直接父级；只给一半视为参数错误。
	if (req.RootID == "") != (req.ParentID == "") {
		return nil, myErrors.ErrInvalidArgument
	}

	post, err := s.postRepo.GetPostByID(ctx, nil, req.PostID)
	if err != nil {
		return nil, err
	}
	if !post.CommentEnabled {
		return nil, myErrors.ErrCommentsDisabled
	}

	comment := &entities.Comment{
		PostID:   req.PostID,
		RootID:   req.RootID,
		ParentID: req.ParentID,
		AuthorID: callerID,
		Content:  req.Content,
		Status:   entities.CommentStatusActive,
	}

	isReply := req.RootID != ""
	if isReply {
		root, err := s.commentRepo.GetCommentByID(ctx, nil, req.RootID)
		if err != nil {
			return nil, err
		}
		if !root.IsRoot() || root.PostID != req.PostID {
			return nil, myErrors.ErrInvalidArgument
		}
	}

	err = s.txManager.Do(ctx, func(tx *gorm.DB) error {
		if err := s.commentRepo.CreateComment(ctx, tx, comment); err != nil {
			return fmt.Errorf("创建评论记录失败: %w", err)
		}
		postLocator := mysql.CounterLocator{Field: "id", Value: req.PostID}
		if _, err := s.counterRepo.Increment(ctx, tx, "posts", postLocator, "comment_count", 1, true); err != nil {
			return fmt.Errorf("累加帖子评论数失败: %w", err)
		}
		if isReply {
			rootLocator := mysql.CounterLocator{Field: "id", Value: req.RootID}
			if _, err := s.counterRepo.Increment(ctx, tx, "comments", rootLocator, "reply_count", 1, false); err != nil {
				return fmt.Errorf("累加楼主评论回复数失败: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("发表评论事务失败",
			zap.Error(err),
			zap.String("postID", req.PostID),
			zap.String("callerID", callerID),
		)
		return nil, err
	}

	return vo.NewCommentVO(comment), nil
}

func (s *commentService) DeleteComment(ctx context.Context, callerID string, commentID string, req *dto.DeleteCommentRequest) (*vo.DeleteCommentResultVO, error) {
	comment, err := s.commentRepo.GetCommentByID(ctx, nil, commentID)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != callerID {
		s.logger.Warn("非作者尝试删除评论",
			zap.String("commentID", commentID),
			zap.String("callerID", callerID),
		)
		return nil, myErrors.ErrPermissionDenied
	}
	if comment.PostID != req.PostID {
		return nil, myErrors.ErrInvalidArgument
	}

	// 以库内的楼层结构为准；请求里的标记不一致时记日志但不采信。
	if req.IsRootComment != comment.IsRoot() {
		s.logger.Warn("删除请求的评论类型标记与存储不符，以存储为准",
			zap.String("commentID", commentID),
			zap.Bool("requestIsRoot", req.IsRootComment),
			zap.Bool("storedIsRoot", comment.IsRoot()),
		)
	}

	if comment.IsRoot() {
		return s.deleteRootComment(ctx, comment)
	}
	return s.deleteReplyComment(ctx, comment)
}

// deleteRootComment 物理级联：根评论连同全部回复一起删除。
func (s *commentService) deleteRootComment(ctx context.Context, comment *entities.Comment) (*vo.DeleteCommentResultVO, error) {
	var removedIDs []string
	var deletedCount int64

	err := s.txManager.Do(ctx, func(tx *gorm.DB) error {
		replyIDs, err := s.commentRepo.ListReplyIDs(ctx, tx, comment.ID)
		if err != nil {
			return fmt.Errorf("收集楼内回复失败: %w", err)
		}
		removedIDs = append([]string{comment.ID}, replyIDs...)

		count, err := s.commentRepo.DeleteByIDs(ctx, tx, removedIDs)
		if err != nil {
			return fmt.Errorf("删除评论文档失败: %w", err)
		}
		deletedCount = count

		// 评论数按删除时点的 reply_count 回扣，和楼层删除在同一事务内保持一致。
		decrement := -(1 + comment.ReplyCount)
		postLocator := mysql.CounterLocator{Field: "id", Value: comment.PostID}
		if _, err := s.counterRepo.Increment(ctx, tx, "posts", postLocator, "comment_count", decrement, true); err != nil {
			return fmt.Errorf("回扣帖子评论数失败: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("根评论级联删除事务失败",
			zap.Error(err),
			zap.String("commentID", comment.ID),
			zap.String("postID", comment.PostID),
		)
		return nil, err
	}

	// 提交之后的附属清理：失败只记日志，点赞残留由定时任务兜底。
	ids := removedIDs
	s.cleaner.Run(ctx, []cleanup.Task{
		{
			Name: "清理被删评论的点赞",
			Run: func(taskCtx context.Context) error {
				_, err := s.likeRepo.DeleteCommentLikesByCommentIDs(taskCtx, ids)
				return err
			},
		},
	})

	s.notifyCommentDeleted(comment, false, removedIDs)

	return &vo.DeleteCommentResultVO{DeletedCount: deletedCount}, nil
}

// deleteReplyComment 逻辑墓碑：回复只改写状态与内容，不回收楼层。
func (s *commentService) deleteReplyComment(ctx context.Context, comment *entities.Comment) (*vo.DeleteCommentResultVO, error) {
	err := s.txManager.Do(ctx, func(tx *gorm.DB) error {
		return s.commentRepo.Tombstone(ctx, tx, comment.ID)
	})
	if err != nil {
		s.logger.Error("回复墓碑化事务失败", zap.Error(err), zap.String("commentID", comment.ID))
		return nil, err
	}

	commentID := comment.ID
	s.cleaner.Run(ctx, []cleanup.Task{
		{
			Name: "清理被删回复的点赞",
			Run: func(taskCtx context.Context) error {
				_, err := s.likeRepo.DeleteCommentLikesByCommentIDs(taskCtx, []string{commentID})
				return err
			},
		},
	})

	s.notifyCommentDeleted(comment, true, nil)

	return &vo.DeleteCommentResultVO{IsLogicalDelete: true}, nil
}

// notifyCommentDeleted 异步发送评论删除事件，失败只记日志。
func (s *commentService) notifyCommentDeleted(comment *entities.Comment, logical bool, removedIDs []string) {
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), kafkaSendTimeout)
		defer cancel()
		event := events.CommentDeletedEvent{
			PostID:     comment.PostID,
			CommentID:  comment.ID,
			Logical:    logical,
			RemovedIDs: removedIDs,
		}
		if err := s.producer.SendCommentDeletedEvent(sendCtx, event); err != nil {
			s.logger.Error("发送评论删除事件失败", zap.Error(err), zap.String("commentID", comment.ID))
		}
	}()
}

func (s *commentService) ListComments(ctx context.Context, postID string, offset, limit int) ([]*vo.CommentVO, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	comments, total, err := s.commentRepo.ListCommentsByPost(ctx, postID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	vos := make([]*vo.CommentVO, 0, len(comments))
	for _, c := range comments {
		vos = append(vos, vo.NewCommentVO(c))
	}
	return vos, total, nil
}
