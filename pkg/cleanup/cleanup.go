// Package cleanup 提供“尽力而为”的批量清理执行器。
// 级联删除的附属数据清理（点赞、收藏、举报等）允许部分失败：
// 失败只记日志，不阻断也不回滚主流程，残留数据由定时任务兜底回收。
package cleanup

import (
	"context"
	"sync"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
)

// Task 是一个可独立执行的清理步骤。
type Task struct {
	// Name 用于日志标识，如 "删除评论点赞"。
	Name string
	// Run 执行清理，返回的错误只会被记录。
	Run func(ctx context.Context) error
}

// Runner 并发执行一组清理任务。
type Runner struct {
	logger *core.ZapLogger
}

// NewRunner 创建清理执行器。
func NewRunner(logger *core.ZapLogger) *Runner {
	return &Runner{logger: logger}
}

// Run 并发执行所有任务并等待全部结束，返回失败的任务数。
// 任何单个任务的失败都不会中断其他任务，也不会以错误形式向上传播。
func (r *Runner) Run(ctx context.Context, tasks []Task) int {
	if len(tasks) == 0 {
		return 0
	}

	var wg sync.WaitGroup
	var failed int64
	var mu sync.Mutex

	for _, task := range tasks {
		wg.Add(1)
		go func(t Task) {
			defer wg.Done()
			defer func() {
				// 单个清理步骤 panic 不应拖垮整个进程。
				if rec := recover(); rec != nil {
					mu.Lock()
					failed++
					mu.Unlock()
					r.logger.Error("清理任务发生 panic",
						zap.String("task", t.Name),
						zap.Any("panic", rec),
					)
				}
			}()
			if err := t.Run(ctx); err != nil {
				mu.Lock()
				failed++
				mu.Unlock()
				r.logger.Warn("清理任务执行失败，留待定时任务兜底",
					zap.String("task", t.Name),
					zap.Error(err),
				)
			}
		}(task)
	}
	wg.Wait()

	if failed > 0 {
		r.logger.Warn("部分清理任务未完成", zap.Int64("failedCount", failed), zap.Int("totalCount", len(tasks)))
	}
	return int(failed)
}
