package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/community_service/models/entities"
	"github.com/Xushengqwer/community_service/myErrors"
)

type interactionServiceFixture struct {
	likeRepo       *fakeLikeRepo
	engagementRepo *fakeEngagementRepo
	followRepo     *fakeFollowRepo
	counterRepo    *fakeCounterRepo
	svc            InteractionService
}

func newInteractionFixture(t *testing.T, commentRepo *fakeCommentRepo) *interactionServiceFixture {
	t.Helper()
	postRepo := &fakePostRepo{
		getByID: func(id string) (*entities.Post, error) {
			return &entities.Post{ID: id, OwnerID: "owner-1"}, nil
		},
	}
	if commentRepo == nil {
		commentRepo = &fakeCommentRepo{
			getByID: func(id string) (*entities.Comment, error) {
				return &entities.Comment{ID: id, PostID: "post-1", AuthorID: "someone", Status: entities.CommentStatusActive}, nil
			},
		}
	}
	likeRepo := &fakeLikeRepo{}
	engagementRepo := &fakeEngagementRepo{}
	followRepo := &fakeFollowRepo{}
	counterRepo := &fakeCounterRepo{}
	svc := NewInteractionService(
		fakeTxManager{},
		postRepo,
		commentRepo,
		likeRepo,
		engagementRepo,
		followRepo,
		counterRepo,
		newTestLogger(t),
	)
	return &interactionServiceFixture{
		likeRepo:       likeRepo,
		engagementRepo: engagementRepo,
		followRepo:     followRepo,
		counterRepo:    counterRepo,
		svc:            svc,
	}
}

func TestLikePost_BumpsLikeCount(t *testing.T) {
	f := newInteractionFixture(t, nil)

	require.NoError(t, f.svc.LikePost(context.Background(), "user-1", "post-1"))

	op, ok := f.counterRepo.findOp("posts", "like_count")
	require.True(t, ok)
	assert.Equal(t, int64(1), op.Delta)
}

func TestLikePost_DuplicateRejected(t *testing.T) {
	f := newInteractionFixture(t, nil)
	f.likeRepo.postLikeExists = true

	err := f.svc.LikePost(context.Background(), "user-1", "post-1")
	assert.ErrorIs(t, err, myErrors.ErrAlreadyExists)
	assert.Empty(t, f.counterRepo.recorded())
}

func TestUnlikePost_AbsentLikeIsSilentNoop(t *testing.T) {
	f := newInteractionFixture(t, nil)
	f.likeRepo.deletePostLikeRows = 0

	require.NoError(t, f.svc.UnlikePost(context.Background(), "user-1", "post-1"))
	assert.Empty(t, f.counterRepo.recorded(), "没删到行就不回扣计数")
}

func TestUnlikePost_DecrementsOnRealRemoval(t *testing.T) {
	f := newInteractionFixture(t, nil)
	f.likeRepo.deletePostLikeRows = 1

	require.NoError(t, f.svc.UnlikePost(context.Background(), "user-1", "post-1"))

	op, ok := f.counterRepo.findOp("posts", "like_count")
	require.True(t, ok)
	assert.Equal(t, int64(-1), op.Delta)
}

func TestLikeComment_TombstoneRejected(t *testing.T) {
	commentRepo := &fakeCommentRepo{
		getByID: func(id string) (*entities.Comment, error) {
			return &entities.Comment{ID: id, Status: entities.CommentStatusDeleted}, nil
		},
	}
	f := newInteractionFixture(t, commentRepo)

	err := f.svc.LikeComment(context.Background(), "user-1", "comment-1")
	assert.ErrorIs(t, err, myErrors.ErrInvalidArgument, "墓碑评论不再接受点赞")
}

func TestCollectPost_DuplicateRejected(t *testing.T) {
	f := newInteractionFixture(t, nil)
	f.engagementRepo.collectionExists = true

	err := f.svc.CollectPost(context.Background(), "user-1", "post-1")
	assert.ErrorIs(t, err, myErrors.ErrAlreadyExists)
}

func TestUncollectPost_DecrementsOnRealRemoval(t *testing.T) {
	f := newInteractionFixture(t, nil)
	f.engagementRepo.deleteCollectionRows = 1

	require.NoError(t, f.svc.UncollectPost(context.Background(), "user-1", "post-1"))

	op, ok := f.counterRepo.findOp("posts", "collect_count")
	require.True(t, ok)
	assert.Equal(t, int64(-1), op.Delta)
}

func TestFollowUser_SelfFollowRejected(t *testing.T) {
	f := newInteractionFixture(t, nil)

	err := f.svc.FollowUser(context.Background(), "user-1", "user-1")
	assert.ErrorIs(t, err, myErrors.ErrSelfFollow)
}

func TestFollowUser_BumpsBothUserCounters(t *testing.T) {
	f := newInteractionFixture(t, nil)

	require.NoError(t, f.svc.FollowUser(context.Background(), "user-1", "user-2"))

	var followerBump, followingBump bool
	for _, op := range f.counterRepo.recorded() {
		if op.Table != "users" {
			continue
		}
		switch op.Field {
		case "follower_count":
			followerBump = true
			assert.Equal(t, "user-2", op.Locator.Value, "粉丝数加在被关注方")
		case "following_count":
			followingBump = true
			assert.Equal(t, "user-1", op.Locator.Value, "关注数加在发起方")
		}
	}
	assert.True(t, followerBump)
	assert.True(t, followingBump)
}

func TestFollowUser_DuplicateRejected(t *testing.T) {
	f := newInteractionFixture(t, nil)
	f.followRepo.followExists = true

	err := f.svc.FollowUser(context.Background(), "user-1", "user-2")
	assert.ErrorIs(t, err, myErrors.ErrAlreadyExists)
}
