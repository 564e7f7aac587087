package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xushengqwer/community_service/models/dto"
	"github.com/Xushengqwer/community_service/models/entities"
	"github.com/Xushengqwer/community_service/myErrors"
)

type commentServiceFixture struct {
	commentRepo *fakeCommentRepo
	postRepo    *fakePostRepo
	counterRepo *fakeCounterRepo
	likeRepo    *fakeLikeRepo
	svc         CommentService
}

func newCommentFixture(t *testing.T, commentRepo *fakeCommentRepo, postRepo *fakePostRepo) *commentServiceFixture {
	t.Helper()
	if commentRepo == nil {
		commentRepo = &fakeCommentRepo{}
	}
	if postRepo == nil {
		postRepo = &fakePostRepo{
			getByID: func(id string) (*entities.Post, error) {
				return &entities.Post{ID: id, OwnerID: "owner-1", CommentEnabled: true}, nil
			},
		}
	}
	counterRepo := &fakeCounterRepo{}
	likeRepo := &fakeLikeRepo{}
	svc := NewCommentService(
		fakeTxManager{},
		commentRepo,
		postRepo,
		counterRepo,
		likeRepo,
		newTestCleaner(t),
		fakeProducer{},
		newTestLogger(t),
	)
	return &commentServiceFixture{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		counterRepo: counterRepo,
		likeRepo:    likeRepo,
		svc:         svc,
	}
}

func TestCreateComment_RejectsHalfReplyLocator(t *testing.T) {
	f := newCommentFixture(t, nil, nil)

	_, err := f.svc.CreateComment(context.Background(), "user-1", &dto.CreateCommentRequest{
		PostID:  "post-1",
		RootID:  "root-1", // 缺 ParentID
		Content: "只给了一半的楼层定位",
	})
	assert.ErrorIs(t, err, myErrors.ErrInvalidArgument)
}

func TestCreateComment_RejectsWhenCommentsDisabled(t *testing.T) {
	postRepo := &fakePostRepo{
		getByID: func(id string) (*entities.Post, error) {
			return &entities.Post{ID: id, OwnerID: "owner-1", CommentEnabled: false}, nil
		},
	}
	f := newCommentFixture(t, nil, postRepo)

	_, err := f.svc.CreateComment(context.Background(), "user-1", &dto.CreateCommentRequest{
		PostID:  "post-1",
		Content: "评论区已关闭",
	})
	assert.ErrorIs(t, err, myErrors.ErrCommentsDisabled)
}

func TestCreateComment_RootBumpsPostCommentCount(t *testing.T) {
	f := newCommentFixture(t, nil, nil)

	result, err := f.svc.CreateComment(context.Background(), "user-1", &dto.CreateCommentRequest{
		PostID:  "post-1",
		Content: "沙发",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", result.AuthorID)
	assert.Equal(t, "", result.RootID)

	op, ok := f.counterRepo.findOp("posts", "comment_count")
	require.True(t, ok)
	assert.Equal(t, int64(1), op.Delta)

	_, replyBumped := f.counterRepo.findOp("comments", "reply_count")
	assert.False(t, replyBumped, "一级评论不涉及回复数")
}

func TestCreateComment_ReplyBumpsBothCounters(t *testing.T) {
	commentRepo := &fakeCommentRepo{
		getByID: func(id string) (*entities.Comment, error) {
			return &entities.Comment{ID: id, PostID: "post-1", AuthorID: "someone", Status: entities.CommentStatusActive}, nil
		},
	}
	f := newCommentFixture(t, commentRepo, nil)

	_, err := f.svc.CreateComment(context.Background(), "user-1", &dto.CreateCommentRequest{
		PostID:   "post-1",
		RootID:   "root-1",
		ParentID: "root-1",
		Content:  "回复楼主",
	})
	require.NoError(t, err)

	postOp, ok := f.counterRepo.findOp("posts", "comment_count")
	require.True(t, ok)
	assert.Equal(t, int64(1), postOp.Delta)

	replyOp, ok := f.counterRepo.findOp("comments", "reply_count")
	require.True(t, ok)
	assert.Equal(t, int64(1), replyOp.Delta)
}

func TestCreateComment_ReplyToForeignRootRejected(t *testing.T) {
	commentRepo := &fakeCommentRepo{
		getByID: func(id string) (*entities.Comment, error) {
			// 根评论属于另一个帖子
			return &entities.Comment{ID: id, PostID: "other-post", AuthorID: "someone"}, nil
		},
	}
	f := newCommentFixture(t, commentRepo, nil)

	_, err := f.svc.CreateComment(context.Background(), "user-1", &dto.CreateCommentRequest{
		PostID:   "post-1",
		RootID:   "root-1",
		ParentID: "root-1",
		Content:  "挂错楼了",
	})
	assert.ErrorIs(t, err, myErrors.ErrInvalidArgument)
}

func TestDeleteComment_AuthorOnly(t *testing.T) {
	commentRepo := &fakeCommentRepo{
		getByID: func(id string) (*entities.Comment, error) {
			return &entities.Comment{ID: id, PostID: "post-1", AuthorID: "author-1"}, nil
		},
	}
	f := newCommentFixture(t, commentRepo, nil)

	_, err := f.svc.DeleteComment(context.Background(), "intruder", "comment-1", &dto.DeleteCommentRequest{
		PostID:        "post-1",
		IsRootComment: true,
	})
	assert.ErrorIs(t, err, myErrors.ErrPermissionDenied)
	assert.Empty(t, commentRepo.deletedIDs)
}

func TestDeleteComment_PostMismatchRejected(t *testing.T) {
	commentRepo := &fakeCommentRepo{
		getByID: func(id string) (*entities.Comment, error) {
			return &entities.Comment{ID: id, PostID: "post-1", AuthorID: "author-1"}, nil
		},
	}
	f := newCommentFixture(t, commentRepo, nil)

	_, err := f.svc.DeleteComment(context.Background(), "author-1", "comment-1", &dto.DeleteCommentRequest{
		PostID:        "other-post",
		IsRootComment: true,
	})
	assert.ErrorIs(t, err, myErrors.ErrInvalidArgument)
}

func TestDeleteComment_RootCascadesRepliesAndCounters(t *testing.T) {
	commentRepo := &fakeCommentRepo{
		getByID: func(id string) (*entities.Comment, error) {
			return &entities.Comment{ID: id, PostID: "post-1", AuthorID: "author-1", ReplyCount: 2}, nil
		},
		replyIDs: []string{"reply-1", "reply-2"},
	}
	f := newCommentFixture(t, commentRepo, nil)

	result, err := f.svc.DeleteComment(context.Background(), "author-1", "root-1", &dto.DeleteCommentRequest{
		PostID:        "post-1",
		IsRootComment: true,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.DeletedCount, "根评论连同两条回复")
	assert.False(t, result.IsLogicalDelete)
	assert.ElementsMatch(t, []string{"root-1", "reply-1", "reply-2"}, commentRepo.deletedIDs)

	op, ok := f.counterRepo.findOp("posts", "comment_count")
	require.True(t, ok)
	assert.Equal(t, int64(-3), op.Delta, "评论数按 1+reply_count 回扣")

	// 级联删除后附属点赞清理覆盖整个楼层
	assert.ElementsMatch(t, []string{"root-1", "reply-1", "reply-2"}, f.likeRepo.cleanedCommentIDs)
}

func TestDeleteComment_ReplyTombstones(t *testing.T) {
	commentRepo := &fakeCommentRepo{
		getByID: func(id string) (*entities.Comment, error) {
			return &entities.Comment{ID: id, PostID: "post-1", AuthorID: "author-1", RootID: "root-1", ParentID: "root-1"}, nil
		},
	}
	f := newCommentFixture(t, commentRepo, nil)

	result, err := f.svc.DeleteComment(context.Background(), "author-1", "reply-1", &dto.DeleteCommentRequest{
		PostID:        "post-1",
		IsRootComment: false,
	})
	require.NoError(t, err)
	assert.True(t, result.IsLogicalDelete)
	assert.Equal(t, []string{"reply-1"}, commentRepo.tombstoned)
	assert.Empty(t, commentRepo.deletedIDs, "墓碑化不做物理删除")

	_, decremented := f.counterRepo.findOp("posts", "comment_count")
	assert.False(t, decremented, "回复墓碑化不回扣帖子评论数")
}

func TestDeleteComment_StoredTypeOverridesRequestFlag(t *testing.T) {
	// 请求声称是回复，但库内是根评论：以库内楼层结构为准走级联。
	commentRepo := &fakeCommentRepo{
		getByID: func(id string) (*entities.Comment, error) {
			return &entities.Comment{ID: id, PostID: "post-1", AuthorID: "author-1"}, nil
		},
	}
	f := newCommentFixture(t, commentRepo, nil)

	result, err := f.svc.DeleteComment(context.Background(), "author-1", "root-1", &dto.DeleteCommentRequest{
		PostID:        "post-1",
		IsRootComment: false,
	})
	require.NoError(t, err)
	assert.False(t, result.IsLogicalDelete)
	assert.Contains(t, commentRepo.deletedIDs, "root-1")
}
