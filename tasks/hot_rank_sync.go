package tasks

import (
	"context"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Xushengqwer/community_service/constant"
	"github.com/Xushengqwer/community_service/repo/mysql"
	"github.com/Xushengqwer/community_service/repo/redis"
)

// HotRankSyncTask 负责定时以 MySQL 中的 hot_score 为准重建 Redis 热榜 ZSet。
// Redis 侧的 ZIncrBy 只是实时的近似累加，重建保证两边最终一致。
type HotRankSyncTask struct {
	postBatchRepo mysql.PostBatchRepository // 按 hot_score 批量读取帖子
	hotRankRepo   redis.HotRankRepository   // 热榜 ZSet 仓库
	topN          int                       // 每次重建写入的帖子数量上限
	cron          *cron.Cron
	logger        *core.ZapLogger
}

// NewHotRankSyncTask 初始化并启动热榜重建的定时任务。
func NewHotRankSyncTask(
	postBatchRepo mysql.PostBatchRepository,
	hotRankRepo redis.HotRankRepository,
	topN int,
	logger *core.ZapLogger,
) *HotRankSyncTask {
	if topN <= 0 {
		topN = constant.HotRankTopNDefault
	}
	task := &HotRankSyncTask{
		postBatchRepo: postBatchRepo,
		hotRankRepo:   hotRankRepo,
		topN:          topN,
		cron:          cron.New(),
		logger:        logger,
	}
	task.startCronJob()
	return task
}

func (t *HotRankSyncTask) startCronJob() {
	schedule := constant.HotRankSyncInterval
	t.logger.Info("准备启动热榜重建定时任务", zap.String("schedule", schedule))

	entryID, err := t.cron.AddFunc(schedule, func() {
		startTime := time.Now()
		// 单次重建的超时：TopN 查询加一次管道写入，1 分钟足够。
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		t.rebuildHotRank(ctx)

		t.logger.Info("热榜重建任务执行完毕", zap.Duration("duration", time.Since(startTime)))
	})
	if err != nil {
		t.logger.Fatal("添加热榜重建 cron 作业失败", zap.Error(err), zap.String("schedule", schedule))
	}

	t.cron.Start()
	t.logger.Info("热榜重建定时任务已启动", zap.Uint("cronEntryID", uint(entryID)))
}

// rebuildHotRank 从 MySQL 取 hot_score TopN，整体替换 Redis 热榜。
func (t *HotRankSyncTask) rebuildHotRank(ctx context.Context) {
	posts, err := t.postBatchRepo.GetTopPostsByHotScore(ctx, t.topN)
	if err != nil {
		t.logger.Error("从 MySQL 获取热度 TopN 失败，本次重建中止", zap.Error(err))
		return
	}
	if len(posts) == 0 {
		t.logger.Info("MySQL 中没有可参与热榜的帖子，跳过本次重建")
		return
	}

	scores := make(map[string]float64, len(posts))
	for _, post := range posts {
		scores[post.ID] = float64(post.HotScore)
	}

	if err := t.hotRankRepo.Rebuild(ctx, scores); err != nil {
		t.logger.Error("重建 Redis 热榜失败", zap.Error(err), zap.Int("postCount", len(scores)))
		return
	}
	t.logger.Info("Redis 热榜重建完成", zap.Int("postCount", len(scores)))
}

// Stop 停止 cron 调度器，返回的 context 在所有在跑任务完成后关闭。
func (t *HotRankSyncTask) Stop() context.Context {
	t.logger.Info("正在停止热榜重建定时任务...")
	return t.cron.Stop()
}
