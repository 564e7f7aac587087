package cleanup

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	commonConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRunner(t *testing.T) *Runner {
	t.Helper()
	logger, err := core.NewZapLogger(commonConfig.ZapConfig{})
	require.NoError(t, err)
	return NewRunner(logger)
}

func TestRun_EmptyTaskList(t *testing.T) {
	r := newRunner(t)
	assert.Equal(t, 0, r.Run(context.Background(), nil))
}

func TestRun_AllTasksExecute(t *testing.T) {
	r := newRunner(t)

	var executed int32
	tasks := []Task{
		{Name: "a", Run: func(context.Context) error { atomic.AddInt32(&executed, 1); return nil }},
		{Name: "b", Run: func(context.Context) error { atomic.AddInt32(&executed, 1); return nil }},
		{Name: "c", Run: func(context.Context) error { atomic.AddInt32(&executed, 1); return nil }},
	}

	failed := r.Run(context.Background(), tasks)
	assert.Equal(t, 0, failed)
	assert.Equal(t, int32(3), atomic.LoadInt32(&executed), "Run 返回前所有任务都已结束")
}

func TestRun_FailureDoesNotStopOthers(t *testing.T) {
	r := newRunner(t)

	var succeeded int32
	tasks := []Task{
		{Name: "broken", Run: func(context.Context) error { return errors.New("boom") }},
		{Name: "ok-1", Run: func(context.Context) error { atomic.AddInt32(&succeeded, 1); return nil }},
		{Name: "ok-2", Run: func(context.Context) error { atomic.AddInt32(&succeeded, 1); return nil }},
	}

	failed := r.Run(context.Background(), tasks)
	assert.Equal(t, 1, failed)
	assert.Equal(t, int32(2), atomic.LoadInt32(&succeeded))
}

func TestRun_PanicCountsAsFailure(t *testing.T) {
	r := newRunner(t)

	tasks := []Task{
		{Name: "panics", Run: func(context.Context) error { panic("unexpected state") }},
		{Name: "ok", Run: func(context.Context) error { return nil }},
	}

	failed := r.Run(context.Background(), tasks)
	assert.Equal(t, 1, failed, "单个任务 panic 不拖垮进程，计为一次失败")
}
