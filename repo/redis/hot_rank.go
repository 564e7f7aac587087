package redis

import (
	"context"
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Xushengqwer/community_service/constant"
)

// HotRankRepository 定义了热帖排行榜在 Redis 中的操作接口。
// 排行榜是一个 ZSet，member 为帖子 ID，score 为热度分。
// MySQL 中的 hot_score 字段是权威数据，ZSet 只是读加速层，
// 定时任务周期性地用 MySQL 的数据全量重建它。
type HotRankRepository interface {
	// IncrementScore 原子性地为指定帖子增加热度分。
	IncrementScore(ctx context.Context, postID string, delta float64) error

	// RemovePost 将帖子从排行榜中剔除（帖子被删除时调用）。
	RemovePost(ctx context.Context, postID string) error

	// GetTopPostIDs 按热度分降序返回前 limit 个帖子 ID。
	GetTopPostIDs(ctx context.Context, limit int) ([]string, error)

	// Rebuild 用给定的 ID->分数 快照原子性地重建整个排行榜。
	// 通过 pipeline 内先 DEL 再批量 ZADD 实现，避免中间状态被读到一半旧一半新。
	Rebuild(ctx context.Context, scores map[string]float64) error
}

type hotRankRepository struct {
	redisClient *redis.Client
	logger      *core.ZapLogger
}

// NewHotRankRepository 创建 HotRankRepository 实例。
func NewHotRankRepository(redisClient *redis.Client, logger *core.ZapLogger) HotRankRepository {
	return &hotRankRepository{
		redisClient: redisClient,
		logger:      logger,
	}
}

func (r *hotRankRepository) IncrementScore(ctx context.Context, postID string, delta float64) error {
	if err := r.redisClient.ZIncrBy(ctx, constant.HotRankKey, delta, postID).Err(); err != nil {
		r.logger.Error("增加热帖排行分数失败",
			zap.Error(err),
			zap.String("postID", postID),
			zap.Float64("delta", delta),
		)
		return fmt.Errorf("更新热帖排行榜失败: %w", err)
	}
	return nil
}

func (r *hotRankRepository) RemovePost(ctx context.Context, postID string) error {
	if err := r.redisClient.ZRem(ctx, constant.HotRankKey, postID).Err(); err != nil {
		r.logger.Error("从热帖排行榜剔除帖子失败", zap.Error(err), zap.String("postID", postID))
		return fmt.Errorf("剔除热帖排行榜条目失败: %w", err)
	}
	return nil
}

func (r *hotRankRepository) GetTopPostIDs(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = constant.HotRankTopNDefault
	}
	ids, err := r.redisClient.ZRevRange(ctx, constant.HotRankKey, 0, int64(limit-1)).Result()
	if err != nil {
		r.logger.Error("读取热帖排行榜失败", zap.Error(err), zap.Int("limit", limit))
		return nil, fmt.Errorf("读取热帖排行榜失败: %w", err)
	}
	return ids, nil
}

func (r *hotRankRepository) Rebuild(ctx context.Context, scores map[string]float64) error {
	pipe := r.redisClient.TxPipeline()
	pipe.Del(ctx, constant.HotRankKey)
	if len(scores) > 0 {
		members := make([]redis.Z, 0, len(scores))
		for id, score := range scores {
			members = append(members, redis.Z{Score: score, Member: id})
		}
		pipe.ZAdd(ctx, constant.HotRankKey, members...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("重建热帖排行榜失败", zap.Error(err), zap.Int("entryCount", len(scores)))
		return fmt.Errorf("重建热帖排行榜失败: %w", err)
	}
	r.logger.Info("热帖排行榜重建完成", zap.Int("entryCount", len(scores)))
	return nil
}
