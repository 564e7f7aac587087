package service

import (
	"context"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/community_service/constant"
	"github.com/Xushengqwer/community_service/models/vo"
	"github.com/Xushengqwer/community_service/repo/mysql"
	redisRepo "github.com/Xushengqwer/community_service/repo/redis"
)

// HotPostService 热帖榜查询：优先走 Redis ZSet，缓存不可用或为空时
// 回退到 MySQL 按 hot_score 排序，结果里标记数据来源。
type HotPostService interface {
	GetHotPosts(ctx context.Context, limit int) (*vo.HotPostsVO, error)
}

type hotPostService struct {
	hotRankRepo   redisRepo.HotRankRepository
	postBatchRepo mysql.PostBatchRepository
	logger        *core.ZapLogger
}

// NewHotPostService 是 hotPostService 的构造函数。
func NewHotPostService(
	hotRankRepo redisRepo.HotRankRepository,
	postBatchRepo mysql.PostBatchRepository,
	logger *core.ZapLogger,
) HotPostService {
	return &hotPostService{
		hotRankRepo:   hotRankRepo,
		postBatchRepo: postBatchRepo,
		logger:        logger,
	}
}

func (s *hotPostService) GetHotPosts(ctx context.Context, limit int) (*vo.HotPostsVO, error) {
	if limit <= 0 || limit > constant.HotRankTopNDefault {
		limit = constant.HotRankTopNDefault
	}

	ids, err := s.hotRankRepo.GetTopPostIDs(ctx, limit)
	if err != nil || len(ids) == 0 {
		if err != nil {
			s.logger.Warn("热榜缓存不可用，回退 MySQL", zap.Error(err))
		}
		return s.fromMySQL(ctx, limit)
	}

	posts, err := s.postBatchRepo.GetPostsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := &vo.HotPostsVO{Posts: make([]*vo.PostVO, 0, len(posts)), Source: "redis"}
	for _, p := range posts {
		result.Posts = append(result.Posts, vo.NewPostVO(p))
	}
	return result, nil
}

func (s *hotPostService) fromMySQL(ctx context.Context, limit int) (*vo.HotPostsVO, error) {
	posts, err := s.postBatchRepo.GetTopPostsByHotScore(ctx, limit)
	if err != nil {
		return nil, err
	}
	result := &vo.HotPostsVO{Posts: make([]*vo.PostVO, 0, len(posts)), Source: "mysql"}
	for _, p := range posts {
		result.Posts = append(result.Posts, vo.NewPostVO(p))
	}
	return result, nil
}
