package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/community_service/models/entities"
	"github.com/Xushengqwer/community_service/repo/mysql"
)

type viewServiceFixture struct {
	postRepo    *fakePostRepo
	viewLogRepo *fakeViewLogRepo
	counterRepo *fakeCounterRepo
	hotRankRepo *fakeHotRankRepo
	svc         ViewService
}

func newViewFixture(t *testing.T, postRepo *fakePostRepo, viewLogRepo *fakeViewLogRepo) *viewServiceFixture {
	t.Helper()
	if postRepo == nil {
		postRepo = &fakePostRepo{
			getByID: func(id string) (*entities.Post, error) {
				return &entities.Post{ID: id, OwnerID: "owner-1"}, nil
			},
		}
	}
	if viewLogRepo == nil {
		viewLogRepo = &fakeViewLogRepo{}
	}
	counterRepo := &fakeCounterRepo{}
	hotRankRepo := &fakeHotRankRepo{}
	svc := NewViewService(postRepo, viewLogRepo, counterRepo, hotRankRepo, newTestLogger(t))
	return &viewServiceFixture{
		postRepo:    postRepo,
		viewLogRepo: viewLogRepo,
		counterRepo: counterRepo,
		hotRankRepo: hotRankRepo,
		svc:         svc,
	}
}

func TestRecordView_MissingPost(t *testing.T) {
	postRepo := &fakePostRepo{
		getByID: func(string) (*entities.Post, error) { return nil, commonerrors.ErrRepoNotFound },
	}
	f := newViewFixture(t, postRepo, nil)

	_, err := f.svc.RecordView(context.Background(), "viewer-1", "missing")
	assert.ErrorIs(t, err, commonerrors.ErrRepoNotFound)
}

func TestRecordView_SelfViewNeverCounts(t *testing.T) {
	f := newViewFixture(t, nil, nil)

	result, err := f.svc.RecordView(context.Background(), "owner-1", "post-1")
	require.NoError(t, err)
	assert.False(t, result.Recorded)
	assert.Empty(t, f.viewLogRepo.written, "自浏览不落流水")
	assert.Empty(t, f.counterRepo.recorded())
}

func TestRecordView_WindowDeduplicates(t *testing.T) {
	f := newViewFixture(t, nil, &fakeViewLogRepo{hasRecent: true})

	result, err := f.svc.RecordView(context.Background(), "viewer-1", "post-1")
	require.NoError(t, err)
	assert.False(t, result.Recorded, "窗口内重复浏览成功返回但不计数")
	assert.Empty(t, f.viewLogRepo.written)
	assert.Empty(t, f.counterRepo.recorded())
}

func TestRecordView_CountsAndBumpsHotScore(t *testing.T) {
	f := newViewFixture(t, nil, nil)

	result, err := f.svc.RecordView(context.Background(), "viewer-1", "post-1")
	require.NoError(t, err)
	assert.True(t, result.Recorded)

	require.Len(t, f.viewLogRepo.written, 1)
	assert.Equal(t, "post-1", f.viewLogRepo.written[0].PostID)
	assert.Equal(t, "viewer-1", f.viewLogRepo.written[0].UserID)

	viewOp, ok := f.counterRepo.findOp("posts", "view_count")
	require.True(t, ok)
	assert.Equal(t, int64(1), viewOp.Delta)

	hotOp, ok := f.counterRepo.findOp("posts", "hot_score")
	require.True(t, ok)
	assert.Equal(t, int64(1), hotOp.Delta)

	assert.Equal(t, float64(1), f.hotRankRepo.increments["post-1"], "热榜缓存同步加分")
}

func TestRecordView_HotScoreFailureDoesNotFailView(t *testing.T) {
	counterRepo := &fakeCounterRepo{
		incrementFn: func(_ string, _ mysql.CounterLocator, field string, _ int64) (int64, error) {
			if field == "hot_score" {
				return 0, errors.New("行锁等待超时")
			}
			return 1, nil
		},
	}
	postRepo := &fakePostRepo{
		getByID: func(id string) (*entities.Post, error) {
			return &entities.Post{ID: id, OwnerID: "owner-1"}, nil
		},
	}
	svc := NewViewService(postRepo, &fakeViewLogRepo{}, counterRepo, &fakeHotRankRepo{}, newTestLogger(t))

	result, err := svc.RecordView(context.Background(), "viewer-1", "post-1")
	require.NoError(t, err, "热度分落后只影响排序，不向调用方暴露")
	assert.True(t, result.Recorded)
}

func TestRecordView_RedisFailureDoesNotFailView(t *testing.T) {
	f := newViewFixture(t, nil, nil)
	f.hotRankRepo.incrementErr = errors.New("connection refused")

	result, err := f.svc.RecordView(context.Background(), "viewer-1", "post-1")
	require.NoError(t, err)
	assert.True(t, result.Recorded)
}
