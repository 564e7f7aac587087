package tasks

import (
	"context"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Xushengqwer/community_service/constant"
	"github.com/Xushengqwer/community_service/repo/mysql"
)

const defaultOrphanLikeBatchSize = 500

// OrphanLikeGCTask 定时回收宿主已被删除的点赞行。
// 删帖/删评论时的点赞清理是尽力而为的，失败只记日志，这里负责兜底收敛。
type OrphanLikeGCTask struct {
	likeRepo  mysql.LikeRepository
	batchSize int
	cron      *cron.Cron
	logger    *core.ZapLogger
}

// NewOrphanLikeGCTask 初始化并启动孤儿点赞回收的定时任务。
func NewOrphanLikeGCTask(likeRepo mysql.LikeRepository, batchSize int, logger *core.ZapLogger) *OrphanLikeGCTask {
	if batchSize <= 0 {
		batchSize = defaultOrphanLikeBatchSize
	}
	task := &OrphanLikeGCTask{
		likeRepo:  likeRepo,
		batchSize: batchSize,
		cron:      cron.New(),
		logger:    logger,
	}
	task.startCronJob()
	return task
}

func (t *OrphanLikeGCTask) startCronJob() {
	schedule := constant.OrphanLikeGCInterval
	t.logger.Info("准备启动孤儿点赞回收定时任务", zap.String("schedule", schedule))

	entryID, err := t.cron.AddFunc(schedule, func() {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
		defer cancel()

		t.collectOrphans(ctx)

		t.logger.Info("孤儿点赞回收任务执行完毕", zap.Duration("duration", time.Since(startTime)))
	})
	if err != nil {
		t.logger.Fatal("添加孤儿点赞回收 cron 作业失败", zap.Error(err), zap.String("schedule", schedule))
	}

	t.cron.Start()
	t.logger.Info("孤儿点赞回收定时任务已启动", zap.Uint("cronEntryID", uint(entryID)))
}

// collectOrphans 各回收一批帖子点赞和评论点赞。
// 单轮只删 batchSize 行，残留的留给下一轮，避免长事务拖垮主库。
func (t *OrphanLikeGCTask) collectOrphans(ctx context.Context) {
	postRemoved, err := t.likeRepo.DeleteOrphanPostLikes(ctx, t.batchSize)
	if err != nil {
		t.logger.Error("回收孤儿帖子点赞失败", zap.Error(err))
	} else if postRemoved > 0 {
		t.logger.Info("回收孤儿帖子点赞", zap.Int64("removed", postRemoved))
	}

	commentRemoved, err := t.likeRepo.DeleteOrphanCommentLikes(ctx, t.batchSize)
	if err != nil {
		t.logger.Error("回收孤儿评论点赞失败", zap.Error(err))
	} else if commentRemoved > 0 {
		t.logger.Info("回收孤儿评论点赞", zap.Int64("removed", commentRemoved))
	}
}

// Stop 停止 cron 调度器，返回的 context 在所有在跑任务完成后关闭。
func (t *OrphanLikeGCTask) Stop() context.Context {
	t.logger.Info("正在停止孤儿点赞回收定时任务...")
	return t.cron.Stop()
}
