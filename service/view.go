package service

import (
	"context"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/community_service/constant"
	"github.com/Xushengqwer/community_service/models/entities"
	"github.com/Xushengqwer/community_service/models/vo"
	"github.com/Xushengqwer/community_service/repo/mysql"
	redisRepo "github.com/Xushengqwer/community_service/repo/redis"
)

// ViewService 浏览上报：时间窗去重后驱动浏览量与热度分。
//
// 去重是近似语义：窗口检查与流水写入不在同一事务里，同一毫秒内的
// 两次并发上报可能都通过检查而双计一次。热度只是排序启发式，
// 偶发重复可接受，作为已知缺口记录而非缺陷修复。
type ViewService interface {
	// RecordView 上报一次浏览。
	// - 帖子不存在返回 commonerrors.ErrRepoNotFound。
	// - 自浏览与窗口内重复浏览直接成功返回 recorded=false。
	// - 有效浏览写入流水后分别原子累加 view_count 与 hot_score，
	//   两次递增相互独立，不包事务（丢失其一只影响排序启发式）。
	RecordView(ctx context.Context, callerID string, postID string) (*vo.RecordViewResultVO, error)
}

type viewService struct {
	postRepo    mysql.PostRepository
	viewLogRepo mysql.ViewLogRepository
	counterRepo mysql.CounterRepository
	hotRankRepo redisRepo.HotRankRepository
	logger      *core.ZapLogger
}

// NewViewService 是 viewService 的构造函数。
func NewViewService(
	postRepo mysql.PostRepository,
	viewLogRepo mysql.ViewLogRepository,
	counterRepo mysql.CounterRepository,
	hotRankRepo redisRepo.HotRankRepository,
	logger *core.ZapLogger,
) ViewService {
	return &viewService{
		postRepo:    postRepo,
		viewLogRepo: viewLogRepo,
		counterRepo: counterRepo,
		hotRankRepo: hotRankRepo,
		logger:      logger,
	}
}

func (s *viewService) RecordView(ctx context.Context, callerID string, postID string) (*vo.RecordViewResultVO, error) {
	// 1. 主体必须存在。
	post, err := s.postRepo.GetPostByID(ctx, nil, postID)
	if err != nil {
		return nil, err
	}

	// 2. 自浏览永不计数，无论窗口状态。
	if post.OwnerID == callerID {
		return &vo.RecordViewResultVO{Recorded: false}, nil
	}

	// 3. 时间窗去重。
	windowStart := time.Now().Add(-constant.ViewDedupWindow)
	seen, err := s.viewLogRepo.HasRecentView(ctx, postID, callerID, windowStart)
	if err != nil {
		return nil, err
	}
	if seen {
		return &vo.RecordViewResultVO{Recorded: false}, nil
	}

	// 4. 先落流水，再做两次独立的原子递增。
	if err := s.viewLogRepo.CreateViewLog(ctx, nil, &entities.ViewLog{PostID: postID, UserID: callerID}); err != nil {
		s.logger.Error("写入浏览流水失败", zap.Error(err), zap.String("postID", postID))
		return nil, err
	}

	locator := mysql.CounterLocator{Field: "id", Value: postID}
	if _, err := s.counterRepo.Increment(ctx, nil, "posts", locator, "view_count", 1, true); err != nil {
		s.logger.Error("累加浏览量失败", zap.Error(err), zap.String("postID", postID))
		return nil, err
	}
	if _, err := s.counterRepo.Increment(ctx, nil, "posts", locator, "hot_score", constant.ViewHotScoreWeight, true); err != nil {
		// 热度分落后于浏览量只会轻微影响排序，不向调用方暴露。
		s.logger.Warn("累加热度分失败", zap.Error(err), zap.String("postID", postID))
	}

	// 5. 热榜缓存增量更新，尽力而为，定时重建会修正漂移。
	if err := s.hotRankRepo.IncrementScore(ctx, postID, float64(constant.ViewHotScoreWeight)); err != nil {
		s.logger.Warn("更新热榜缓存失败", zap.Error(err), zap.String("postID", postID))
	}

	return &vo.RecordViewResultVO{Recorded: true}, nil
}
