package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/models/dto"
	"github.com/Xushengqwer/community_service/myErrors"
	"github.com/Xushengqwer/community_service/repo/mysql"
)

func newCounterService(t *testing.T, counterRepo *fakeCounterRepo, topicRepo *fakeTopicRepo) CounterService {
	t.Helper()
	if counterRepo == nil {
		counterRepo = &fakeCounterRepo{}
	}
	if topicRepo == nil {
		topicRepo = &fakeTopicRepo{}
	}
	return NewCounterService(counterRepo, topicRepo, newTestLogger(t))
}

func TestCounterBump_RejectsZeroAmount(t *testing.T) {
	svc := newCounterService(t, nil, nil)

	_, err := svc.Bump(context.Background(), "user-1", &dto.BumpCounterRequest{
		Collection: "posts",
		DocID:      "post-1",
		Field:      "like_count",
		Amount:     0,
	})
	assert.ErrorIs(t, err, myErrors.ErrInvalidArgument)
}

func TestCounterBump_RequiresLocator(t *testing.T) {
	svc := newCounterService(t, nil, nil)

	_, err := svc.Bump(context.Background(), "user-1", &dto.BumpCounterRequest{
		Collection: "posts",
		Field:      "like_count",
		Amount:     1,
	})
	assert.ErrorIs(t, err, myErrors.ErrInvalidArgument)
}

func TestCounterBump_RejectsFieldOutsideAllowList(t *testing.T) {
	repo := &fakeCounterRepo{}
	svc := newCounterService(t, repo, nil)

	// owner_id 不是计数字段，任何调用方都不允许改。
	_, err := svc.Bump(context.Background(), "user-1", &dto.BumpCounterRequest{
		Collection: "posts",
		DocID:      "post-1",
		Field:      "owner_id",
		Amount:     1,
	})
	assert.ErrorIs(t, err, myErrors.ErrPermissionDenied)
	assert.Empty(t, repo.recorded(), "被拒绝的请求不应触达存储")
}

func TestCounterBump_RejectsUnknownCollection(t *testing.T) {
	svc := newCounterService(t, nil, nil)

	_, err := svc.Bump(context.Background(), "user-1", &dto.BumpCounterRequest{
		Collection: "reports",
		DocID:      "r-1",
		Field:      "count",
		Amount:     1,
	})
	assert.ErrorIs(t, err, myErrors.ErrPermissionDenied)
}

func TestCounterBump_RejectsLocatorFieldOutsideAllowList(t *testing.T) {
	repo := &fakeCounterRepo{}
	svc := newCounterService(t, repo, nil)

	// posts 集合没有放行任何过滤定位列，title 拼进 SQL 会是注入口。
	_, err := svc.Bump(context.Background(), "user-1", &dto.BumpCounterRequest{
		Collection: "posts",
		WhereField: "title",
		WhereValue: "abc",
		Field:      "like_count",
		Amount:     1,
	})
	assert.ErrorIs(t, err, myErrors.ErrPermissionDenied)
	assert.Empty(t, repo.recorded())
}

func TestCounterBump_UnboundedIncrementPassesThrough(t *testing.T) {
	repo := &fakeCounterRepo{}
	svc := newCounterService(t, repo, nil)

	result, err := svc.Bump(context.Background(), "user-1", &dto.BumpCounterRequest{
		Collection: "posts",
		DocID:      "post-1",
		Field:      "like_count",
		Amount:     -3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Updated)

	op, ok := repo.findOp("posts", "like_count")
	require.True(t, ok)
	assert.Equal(t, "increment", op.Kind)
	assert.Equal(t, int64(-3), op.Delta)
	assert.Equal(t, mysql.CounterLocator{Field: "id", Value: "post-1"}, op.Locator)
}

func TestCounterBump_FloorSkipsDecrementAtZero(t *testing.T) {
	repo := &fakeCounterRepo{
		getValueFn: func(string, mysql.CounterLocator, string) (int64, error) { return 0, nil },
	}
	svc := newCounterService(t, repo, nil)

	result, err := svc.Bump(context.Background(), "user-1", &dto.BumpCounterRequest{
		Collection: "comments",
		DocID:      "comment-1",
		Field:      "reply_count",
		Amount:     -1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Updated)
	assert.Empty(t, repo.recorded(), "已在地板上时不应发生写操作")
}

func TestCounterBump_FloorClampsToZeroOnUnderflow(t *testing.T) {
	repo := &fakeCounterRepo{
		getValueFn: func(string, mysql.CounterLocator, string) (int64, error) { return 2, nil },
	}
	svc := newCounterService(t, repo, nil)

	result, err := svc.Bump(context.Background(), "user-1", &dto.BumpCounterRequest{
		Collection: "comments",
		DocID:      "comment-1",
		Field:      "reply_count",
		Amount:     -5,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Updated)

	op, ok := repo.findOp("comments", "reply_count")
	require.True(t, ok)
	assert.Equal(t, "set", op.Kind)
	assert.Equal(t, int64(0), op.Delta, "减穿地板时直接归零")
}

func TestCounterBump_FloorNormalDecrement(t *testing.T) {
	repo := &fakeCounterRepo{
		getValueFn: func(string, mysql.CounterLocator, string) (int64, error) { return 5, nil },
	}
	svc := newCounterService(t, repo, nil)

	result, err := svc.Bump(context.Background(), "user-1", &dto.BumpCounterRequest{
		Collection: "comments",
		DocID:      "comment-1",
		Field:      "reply_count",
		Amount:     -2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.Updated)

	op, ok := repo.findOp("comments", "reply_count")
	require.True(t, ok)
	assert.Equal(t, "increment", op.Kind)
	assert.Equal(t, int64(-2), op.Delta)
}

func TestCounterBump_FloorDecrementOnMissingHostIsNoop(t *testing.T) {
	repo := &fakeCounterRepo{
		getValueFn: func(string, mysql.CounterLocator, string) (int64, error) {
			return 0, gorm.ErrRecordNotFound
		},
	}
	svc := newCounterService(t, repo, nil)

	result, err := svc.Bump(context.Background(), "user-1", &dto.BumpCounterRequest{
		Collection: "comments",
		DocID:      "missing",
		Field:      "reply_count",
		Amount:     -1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Updated)
}

func TestBumpTopicCount_LazyCreatesOnFirstUse(t *testing.T) {
	repo := &fakeCounterRepo{
		incrementFn: func(string, mysql.CounterLocator, string, int64) (int64, error) { return 0, nil },
	}
	topics := &fakeTopicRepo{}
	svc := newCounterService(t, repo, topics)

	err := svc.BumpTopicCount(context.Background(), "数码", 1)
	require.NoError(t, err)

	require.Len(t, topics.created, 1)
	assert.Equal(t, "数码", topics.created[0].Name)
	assert.Equal(t, int64(1), topics.created[0].Count, "首用话题计数从本次增量起步")
}

func TestBumpTopicCount_LazyCreateConflictFallsBackToIncrement(t *testing.T) {
	incrementCalls := 0
	repo := &fakeCounterRepo{
		incrementFn: func(string, mysql.CounterLocator, string, int64) (int64, error) {
			incrementCalls++
			if incrementCalls == 1 {
				// 首次增量时话题尚不存在
				return 0, nil
			}
			return 1, nil
		},
	}
	topics := &fakeTopicRepo{createErr: errors.New("Duplicate entry '数码' for key 'uniq_topic_name'")}
	svc := newCounterService(t, repo, topics)

	err := svc.BumpTopicCount(context.Background(), "数码", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, incrementCalls, "并发首创冲突后应重试一次普通增量")
}

func TestBumpTopicCount_NoLazyCreateOnDecrement(t *testing.T) {
	repo := &fakeCounterRepo{
		getValueFn: func(string, mysql.CounterLocator, string) (int64, error) { return 0, nil },
	}
	topics := &fakeTopicRepo{}
	svc := newCounterService(t, repo, topics)

	err := svc.BumpTopicCount(context.Background(), "已消失的话题", -1)
	require.NoError(t, err)
	assert.Empty(t, topics.created, "负向增量不触发懒创建")
}

func TestBumpTopicCount_EmptyNameIsNoop(t *testing.T) {
	repo := &fakeCounterRepo{}
	svc := newCounterService(t, repo, nil)

	require.NoError(t, svc.BumpTopicCount(context.Background(), "", 1))
	assert.Empty(t, repo.recorded())
}
