package service

import (
	"context"
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/models/entities"
	"github.com/Xushengqwer/community_service/myErrors"
	"github.com/Xushengqwer/community_service/repo/mysql"
)

// InteractionService 点赞、收藏、关注、举报等互动操作。
// 每种互动维持 (目标, 用户) 维度的唯一性，并在同一事务内维护
// 对应的冗余计数（帖子/评论的 like_count、collect_count、用户互关统计）。
type InteractionService interface {
	// LikePost 点赞帖子；重复点赞返回 myErrors.ErrAlreadyExists。
	LikePost(ctx context.Context, callerID, postID string) error
	// UnlikePost 取消点赞；未点赞过视为成功的空操作。
	UnlikePost(ctx context.Context, callerID, postID string) error

	// LikeComment 点赞评论；重复点赞返回 myErrors.ErrAlreadyExists。
	LikeComment(ctx context.Context, callerID, commentID string) error
	// UnlikeComment 取消评论点赞。
	UnlikeComment(ctx context.Context, callerID, commentID string) error

	// CollectPost 收藏帖子；重复收藏返回 myErrors.ErrAlreadyExists。
	CollectPost(ctx context.Context, callerID, postID string) error
	// UncollectPost 取消收藏。
	UncollectPost(ctx context.Context, callerID, postID string) error

	// FollowUser 关注目标用户；自关注返回 myErrors.ErrSelfFollow。
	FollowUser(ctx context.Context, callerID, targetID string) error
	// UnfollowUser 取消关注。
	UnfollowUser(ctx context.Context, callerID, targetID string) error

	// ReportPost 举报帖子，重复举报直接追加记录。
	ReportPost(ctx context.Context, callerID, postID, reason string) error
}

type interactionService struct {
	txManager      mysql.TxManager
	postRepo       mysql.PostRepository
	commentRepo    mysql.CommentRepository
	likeRepo       mysql.LikeRepository
	engagementRepo mysql.EngagementRepository
	followRepo     mysql.FollowRepository
	counterRepo    mysql.CounterRepository
	logger         *core.ZapLogger
}

// NewInteractionService 是 interactionService 的构造函数。
func NewInteractionService(
	txManager mysql.TxManager,
	postRepo mysql.PostRepository,
	commentRepo mysql.CommentRepository,
	likeRepo mysql.LikeRepository,
	engagementRepo mysql.EngagementRepository,
	followRepo mysql.FollowRepository,
	counterRepo mysql.CounterRepository,
	logger *core.ZapLogger,
) InteractionService {
	return &interactionService{
		txManager:      txManager,
		postRepo:       postRepo,
		commentRepo:    commentRepo,
		likeRepo:       likeRepo,
		engagementRepo: engagementRepo,
		followRepo:     followRepo,
		counterRepo:    counterRepo,
		logger:         logger,
	}
}

func (s *interactionService) LikePost(ctx context.Context, callerID, postID string) error {
	if _, err := s.postRepo.GetPostByID(ctx, nil, postID); err != nil {
		return err
	}
	exists, err := s.likeRepo.PostLikeExists(ctx, postID, callerID)
	if err != nil {
		return err
	}
	if exists {
		return myErrors.ErrAlreadyExists
	}
	return s.txManager.Do(ctx, func(tx *gorm.DB) error {
		if err := s.likeRepo.CreatePostLike(ctx, tx, &entities.PostLike{TargetID: postID, UserID: callerID}); err != nil {
			return fmt.Errorf("写入帖子点赞失败: %w", err)
		}
		locator := mysql.CounterLocator{Field: "id", Value: postID}
		if _, err := s.counterRepo.Increment(ctx, tx, "posts", locator, "like_count", 1, true); err != nil {
			return fmt.Errorf("累加帖子点赞数失败: %w", err)
		}
		return nil
	})
}

func (s *interactionService) UnlikePost(ctx context.Context, callerID, postID string) error {
	return s.txManager.Do(ctx, func(tx *gorm.DB) error {
		removed, err := s.likeRepo.DeletePostLike(ctx, tx, postID, callerID)
		if err != nil {
			return err
		}
		if removed == 0 {
			return nil
		}
		locator := mysql.CounterLocator{Field: "id", Value: postID}
		if _, err := s.counterRepo.Increment(ctx, tx, "posts", locator, "like_count", -1, true); err != nil {
			return fmt.Errorf("回扣帖子点赞数失败: %w", err)
		}
		return nil
	})
}

func (s *interactionService) LikeComment(ctx context.Context, callerID, commentID string) error {
	comment, err := s.commentRepo.GetCommentByID(ctx, nil, commentID)
	if err != nil {
		return err
	}
	// 墓碑评论不再接受点赞。
	if comment.Status == entities.CommentStatusDeleted {
		return myErrors.ErrInvalidArgument
	}
	exists, err := s.likeRepo.CommentLikeExists(ctx, commentID, callerID)
	if err != nil {
		return err
	}
	if exists {
		return myErrors.ErrAlreadyExists
	}
	return s.txManager.Do(ctx, func(tx *gorm.DB) error {
		if err := s.likeRepo.CreateCommentLike(ctx, tx, &entities.CommentLike{TargetID: commentID, UserID: callerID}); err != nil {
			return fmt.Errorf("写入评论点赞失败: %w", err)
		}
		locator := mysql.CounterLocator{Field: "id", Value: commentID}
		if _, err := s.counterRepo.Increment(ctx, tx, "comments", locator, "like_count", 1, false); err != nil {
			return fmt.Errorf("累加评论点赞数失败: %w", err)
		}
		return nil
	})
}

func (s *interactionService) UnlikeComment(ctx context.Context, callerID, commentID string) error {
	return s.txManager.Do(ctx, func(tx *gorm.DB) error {
		removed, err := s.likeRepo.DeleteCommentLike(ctx, tx, commentID, callerID)
		if err != nil {
			return err
		}
		if removed == 0 {
			return nil
		}
		locator := mysql.CounterLocator{Field: "id", Value: commentID}
		if _, err := s.counterRepo.Increment(ctx, tx, "comments", locator, "like_count", -1, false); err != nil {
			return fmt.Errorf("回扣评论点赞数失败: %w", err)
		}
		return nil
	})
}

func (s *interactionService) CollectPost(ctx context.Context, callerID, postID string) error {
	if _, err := s.postRepo.GetPostByID(ctx, nil, postID); err != nil {
		return err
	}
	exists, err := s.engagementRepo.CollectionExists(ctx, postID, callerID)
	if err != nil {
		return err
	}
	if exists {
		return myErrors.ErrAlreadyExists
	}
	return s.txManager.Do(ctx, func(tx *gorm.DB) error {
		if err := s.engagementRepo.CreateCollection(ctx, tx, &entities.Collection{PostID: postID, UserID: callerID}); err != nil {
			return fmt.Errorf("写入收藏失败: %w", err)
		}
		locator := mysql.CounterLocator{Field: "id", Value: postID}
		if _, err := s.counterRepo.Increment(ctx, tx, "posts", locator, "collect_count", 1, true); err != nil {
			return fmt.Errorf("累加收藏数失败: %w", err)
		}
		return nil
	})
}

func (s *interactionService) UncollectPost(ctx context.Context, callerID, postID string) error {
	return s.txManager.Do(ctx, func(tx *gorm.DB) error {
		removed, err := s.engagementRepo.DeleteCollection(ctx, tx, postID, callerID)
		if err != nil {
			return err
		}
		if removed == 0 {
			return nil
		}
		locator := mysql.CounterLocator{Field: "id", Value: postID}
		if _, err := s.counterRepo.Increment(ctx, tx, "posts", locator, "collect_count", -1, true); err != nil {
			return fmt.Errorf("回扣收藏数失败: %w", err)
		}
		return nil
	})
}

func (s *interactionService) FollowUser(ctx context.Context, callerID, targetID string) error {
	if callerID == targetID {
		return myErrors.ErrSelfFollow
	}
	exists, err := s.followRepo.FollowExists(ctx, callerID, targetID)
	if err != nil {
		return err
	}
	if exists {
		return myErrors.ErrAlreadyExists
	}
	return s.txManager.Do(ctx, func(tx *gorm.DB) error {
		if err := s.followRepo.CreateFollow(ctx, tx, &entities.Follow{FollowerID: callerID, TargetID: targetID}); err != nil {
			return fmt.Errorf("写入关注关系失败: %w", err)
		}
		// 用户统计按 owner_id 定位，目标加粉丝，发起方加关注。
		if _, err := s.counterRepo.Increment(ctx, tx, "users", mysql.CounterLocator{Field: "owner_id", Value: targetID}, "follower_count", 1, false); err != nil {
			return fmt.Errorf("累加粉丝数失败: %w", err)
		}
		if _, err := s.counterRepo.Increment(ctx, tx, "users", mysql.CounterLocator{Field: "owner_id", Value: callerID}, "following_count", 1, false); err != nil {
			return fmt.Errorf("累加关注数失败: %w", err)
		}
		return nil
	})
}

func (s *interactionService) UnfollowUser(ctx context.Context, callerID, targetID string) error {
	return s.txManager.Do(ctx, func(tx *gorm.DB) error {
		removed, err := s.followRepo.DeleteFollow(ctx, tx, callerID, targetID)
		if err != nil {
			return err
		}
		if removed == 0 {
			return nil
		}
		if _, err := s.counterRepo.Increment(ctx, tx, "users", mysql.CounterLocator{Field: "owner_id", Value: targetID}, "follower_count", -1, false); err != nil {
			return fmt.Errorf("回扣粉丝数失败: %w", err)
		}
		if _, err := s.counterRepo.Increment(ctx, tx, "users", mysql.CounterLocator{Field: "owner_id", Value: callerID}, "following_count", -1, false); err != nil {
			return fmt.Errorf("回扣关注数失败: %w", err)
		}
		return nil
	})
}

func (s *interactionService) ReportPost(ctx context.Context, callerID, postID, reason string) error {
	if reason == "" {
		return myErrors.ErrInvalidArgument
	}
	if _, err := s.postRepo.GetPostByID(ctx, nil, postID); err != nil {
		return err
	}
	report := &entities.Report{TargetID: postID, UserID: callerID, Reason: reason}
	if err := s.engagementRepo.CreateReport(ctx, report); err != nil {
		s.logger.Error("写入举报记录失败", zap.Error(err), zap.String("postID", postID))
		return err
	}
	return nil
}
