package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/community_service/models/entities"
)

// fakePostBatchRepo 固定返回预置的帖子集合。
type fakePostBatchRepo struct {
	byScore []*entities.Post
	byIDs   func(ids []string) ([]*entities.Post, error)
}

func (f *fakePostBatchRepo) GetTopPostsByHotScore(context.Context, int) ([]*entities.Post, error) {
	return f.byScore, nil
}

func (f *fakePostBatchRepo) GetPostsByIDs(_ context.Context, ids []string) ([]*entities.Post, error) {
	if f.byIDs != nil {
		return f.byIDs(ids)
	}
	posts := make([]*entities.Post, 0, len(ids))
	for _, id := range ids {
		posts = append(posts, &entities.Post{ID: id})
	}
	return posts, nil
}

func TestGetHotPosts_ServesFromRedis(t *testing.T) {
	hotRank := &fakeHotRankRepo{topIDs: []string{"p-2", "p-1"}}
	svc := NewHotPostService(hotRank, &fakePostBatchRepo{}, newTestLogger(t))

	result, err := svc.GetHotPosts(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "redis", result.Source)
	require.Len(t, result.Posts, 2)
	assert.Equal(t, "p-2", result.Posts[0].ID, "保持热榜顺序")
}

func TestGetHotPosts_FallsBackToMySQLOnRedisError(t *testing.T) {
	hotRank := &fakeHotRankRepo{topErr: errors.New("connection refused")}
	batch := &fakePostBatchRepo{byScore: []*entities.Post{{ID: "p-7"}}}
	svc := NewHotPostService(hotRank, batch, newTestLogger(t))

	result, err := svc.GetHotPosts(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "mysql", result.Source)
	require.Len(t, result.Posts, 1)
	assert.Equal(t, "p-7", result.Posts[0].ID)
}

func TestGetHotPosts_FallsBackToMySQLOnEmptyRank(t *testing.T) {
	hotRank := &fakeHotRankRepo{}
	batch := &fakePostBatchRepo{byScore: []*entities.Post{{ID: "p-1"}}}
	svc := NewHotPostService(hotRank, batch, newTestLogger(t))

	result, err := svc.GetHotPosts(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, "mysql", result.Source, "冷启动时热榜为空，直接回源")
}
