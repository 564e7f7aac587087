package service

import (
	"context"
	"sync"
	"testing"
	"time"

	commonConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/models/entities"
	"github.com/Xushengqwer/community_service/models/events"
	"github.com/Xushengqwer/community_service/pkg/cleanup"
	"github.com/Xushengqwer/community_service/repo/mysql"
)

func newTestLogger(t *testing.T) *core.ZapLogger {
	t.Helper()
	logger, err := core.NewZapLogger(commonConfig.ZapConfig{})
	require.NoError(t, err)
	return logger
}

// fakeTxManager 直接在当前 goroutine 执行回调，tx 句柄传 nil。
type fakeTxManager struct{}

func (fakeTxManager) Do(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

// counterOp 记录一次计数仓库调用，便于断言表/字段/增量。
type counterOp struct {
	Kind    string // increment | set
	Table   string
	Locator mysql.CounterLocator
	Field   string
	Delta   int64
}

type fakeCounterRepo struct {
	mu  sync.Mutex
	ops []counterOp

	incrementFn func(table string, locator mysql.CounterLocator, field string, delta int64) (int64, error)
	getValueFn  func(table string, locator mysql.CounterLocator, field string) (int64, error)
}

func (f *fakeCounterRepo) Increment(_ context.Context, _ *gorm.DB, table string, locator mysql.CounterLocator, field string, delta int64, _ bool) (int64, error) {
	f.mu.Lock()
	f.ops = append(f.ops, counterOp{Kind: "increment", Table: table, Locator: locator, Field: field, Delta: delta})
	f.mu.Unlock()
	if f.incrementFn != nil {
		return f.incrementFn(table, locator, field, delta)
	}
	return 1, nil
}

func (f *fakeCounterRepo) GetValue(_ context.Context, _ *gorm.DB, table string, locator mysql.CounterLocator, field string, _ bool) (int64, error) {
	if f.getValueFn != nil {
		return f.getValueFn(table, locator, field)
	}
	return 0, nil
}

func (f *fakeCounterRepo) SetValue(_ context.Context, _ *gorm.DB, table string, locator mysql.CounterLocator, field string, value int64, _ bool) (int64, error) {
	f.mu.Lock()
	f.ops = append(f.ops, counterOp{Kind: "set", Table: table, Locator: locator, Field: field, Delta: value})
	f.mu.Unlock()
	return 1, nil
}

func (f *fakeCounterRepo) recorded() []counterOp {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]counterOp(nil), f.ops...)
}

// findOp 返回第一条匹配 (table, field) 的记录。
func (f *fakeCounterRepo) findOp(table, field string) (counterOp, bool) {
	for _, op := range f.recorded() {
		if op.Table == table && op.Field == field {
			return op, true
		}
	}
	return counterOp{}, false
}

type fakeTopicRepo struct {
	mu      sync.Mutex
	created []*entities.Topic

	createErr error
	getByName func(name string) (*entities.Topic, error)
}

func (f *fakeTopicRepo) GetByName(_ context.Context, _ *gorm.DB, name string) (*entities.Topic, error) {
	if f.getByName != nil {
		return f.getByName(name)
	}
	return &entities.Topic{Name: name}, nil
}

func (f *fakeTopicRepo) CreateTopic(_ context.Context, _ *gorm.DB, topic *entities.Topic) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	f.created = append(f.created, topic)
	f.mu.Unlock()
	return nil
}

func (f *fakeTopicRepo) ListTopics(context.Context, int, int) ([]*entities.Topic, int64, error) {
	return nil, 0, nil
}

type fakePostRepo struct {
	getByID func(id string) (*entities.Post, error)

	mu         sync.Mutex
	updates    []map[string]interface{}
	deletedIDs []string
	created    []*entities.Post

	deleteErr error
}

func (f *fakePostRepo) CreatePost(_ context.Context, _ *gorm.DB, post *entities.Post) error {
	f.mu.Lock()
	f.created = append(f.created, post)
	f.mu.Unlock()
	return nil
}

func (f *fakePostRepo) GetPostByID(_ context.Context, _ *gorm.DB, id string) (*entities.Post, error) {
	return f.getByID(id)
}

func (f *fakePostRepo) UpdateManagedFields(_ context.Context, _ *gorm.DB, _ string, updates map[string]interface{}) error {
	f.mu.Lock()
	f.updates = append(f.updates, updates)
	f.mu.Unlock()
	return nil
}

func (f *fakePostRepo) DeletePost(_ context.Context, _ *gorm.DB, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	f.deletedIDs = append(f.deletedIDs, id)
	f.mu.Unlock()
	return nil
}

func (f *fakePostRepo) GetPostsByTimeline(context.Context, *time.Time, *string, int) ([]*entities.Post, *time.Time, *string, error) {
	return nil, nil, nil, nil
}

type fakeCommentRepo struct {
	getByID      func(id string) (*entities.Comment, error)
	replyIDs     []string
	idsByPost    []string
	deleteByPost int64

	mu           sync.Mutex
	deletedIDs   []string
	tombstoned   []string
	createdCount int
}

func (f *fakeCommentRepo) CreateComment(_ context.Context, _ *gorm.DB, _ *entities.Comment) error {
	f.mu.Lock()
	f.createdCount++
	f.mu.Unlock()
	return nil
}

func (f *fakeCommentRepo) GetCommentByID(_ context.Context, _ *gorm.DB, id string) (*entities.Comment, error) {
	return f.getByID(id)
}

func (f *fakeCommentRepo) ListReplyIDs(context.Context, *gorm.DB, string) ([]string, error) {
	return f.replyIDs, nil
}

func (f *fakeCommentRepo) DeleteByIDs(_ context.Context, _ *gorm.DB, ids []string) (int64, error) {
	f.mu.Lock()
	f.deletedIDs = append(f.deletedIDs, ids...)
	f.mu.Unlock()
	return int64(len(ids)), nil
}

func (f *fakeCommentRepo) Tombstone(_ context.Context, _ *gorm.DB, id string) error {
	f.mu.Lock()
	f.tombstoned = append(f.tombstoned, id)
	f.mu.Unlock()
	return nil
}

func (f *fakeCommentRepo) ListCommentIDsByPost(context.Context, *gorm.DB, string) ([]string, error) {
	return f.idsByPost, nil
}

func (f *fakeCommentRepo) DeleteByPostID(context.Context, *gorm.DB, string) (int64, error) {
	return f.deleteByPost, nil
}

func (f *fakeCommentRepo) ListCommentsByPost(context.Context, string, int, int) ([]*entities.Comment, int64, error) {
	return nil, 0, nil
}

type fakeLikeRepo struct {
	postLikeExists    bool
	commentLikeExists bool

	mu                sync.Mutex
	cleanedCommentIDs []string
	cleanedPostIDs    []string

	deletePostLikeRows    int64
	deleteCommentLikeRows int64
	cleanupErr            error
}

func (f *fakeLikeRepo) PostLikeExists(context.Context, string, string) (bool, error) {
	return f.postLikeExists, nil
}

func (f *fakeLikeRepo) CreatePostLike(context.Context, *gorm.DB, *entities.PostLike) error { return nil }

func (f *fakeLikeRepo) DeletePostLike(context.Context, *gorm.DB, string, string) (int64, error) {
	return f.deletePostLikeRows, nil
}

func (f *fakeLikeRepo) CommentLikeExists(context.Context, string, string) (bool, error) {
	return f.commentLikeExists, nil
}

func (f *fakeLikeRepo) CreateCommentLike(context.Context, *gorm.DB, *entities.CommentLike) error {
	return nil
}

func (f *fakeLikeRepo) DeleteCommentLike(context.Context, *gorm.DB, string, string) (int64, error) {
	return f.deleteCommentLikeRows, nil
}

func (f *fakeLikeRepo) DeletePostLikesByPostID(_ context.Context, postID string) (int64, error) {
	if f.cleanupErr != nil {
		return 0, f.cleanupErr
	}
	f.mu.Lock()
	f.cleanedPostIDs = append(f.cleanedPostIDs, postID)
	f.mu.Unlock()
	return 0, nil
}

func (f *fakeLikeRepo) DeleteCommentLikesByCommentIDs(_ context.Context, commentIDs []string) (int64, error) {
	if f.cleanupErr != nil {
		return 0, f.cleanupErr
	}
	f.mu.Lock()
	f.cleanedCommentIDs = append(f.cleanedCommentIDs, commentIDs...)
	f.mu.Unlock()
	return int64(len(commentIDs)), nil
}

func (f *fakeLikeRepo) DeleteOrphanPostLikes(context.Context, int) (int64, error) { return 0, nil }

func (f *fakeLikeRepo) DeleteOrphanCommentLikes(context.Context, int) (int64, error) { return 0, nil }

type fakeEngagementRepo struct {
	collectionExists bool

	mu                 sync.Mutex
	collectionsCleaned []string
	reportsCleaned     []string

	deleteCollectionRows int64
}

func (f *fakeEngagementRepo) CollectionExists(context.Context, string, string) (bool, error) {
	return f.collectionExists, nil
}

func (f *fakeEngagementRepo) CreateCollection(context.Context, *gorm.DB, *entities.Collection) error {
	return nil
}

func (f *fakeEngagementRepo) DeleteCollection(context.Context, *gorm.DB, string, string) (int64, error) {
	return f.deleteCollectionRows, nil
}

func (f *fakeEngagementRepo) DeleteCollectionsByPostID(_ context.Context, postID string) (int64, error) {
	f.mu.Lock()
	f.collectionsCleaned = append(f.collectionsCleaned, postID)
	f.mu.Unlock()
	return 0, nil
}

func (f *fakeEngagementRepo) CreateReport(context.Context, *entities.Report) error { return nil }

func (f *fakeEngagementRepo) DeleteReportsByTargetID(_ context.Context, targetID string) (int64, error) {
	f.mu.Lock()
	f.reportsCleaned = append(f.reportsCleaned, targetID)
	f.mu.Unlock()
	return 0, nil
}

type fakeFollowRepo struct {
	followExists bool
}

func (f *fakeFollowRepo) FollowExists(context.Context, string, string) (bool, error) {
	return f.followExists, nil
}

func (f *fakeFollowRepo) CreateFollow(context.Context, *gorm.DB, *entities.Follow) error { return nil }

func (f *fakeFollowRepo) DeleteFollow(context.Context, *gorm.DB, string, string) (int64, error) {
	return 1, nil
}

type fakeViewLogRepo struct {
	hasRecent bool

	mu      sync.Mutex
	written []*entities.ViewLog
}

func (f *fakeViewLogRepo) HasRecentView(context.Context, string, string, time.Time) (bool, error) {
	return f.hasRecent, nil
}

func (f *fakeViewLogRepo) CreateViewLog(_ context.Context, _ *gorm.DB, log *entities.ViewLog) error {
	f.mu.Lock()
	f.written = append(f.written, log)
	f.mu.Unlock()
	return nil
}

type fakeHotRankRepo struct {
	mu         sync.Mutex
	increments map[string]float64
	removed    []string

	incrementErr error
	topIDs       []string
	topErr       error
}

func (f *fakeHotRankRepo) IncrementScore(_ context.Context, postID string, delta float64) error {
	if f.incrementErr != nil {
		return f.incrementErr
	}
	f.mu.Lock()
	if f.increments == nil {
		f.increments = make(map[string]float64)
	}
	f.increments[postID] += delta
	f.mu.Unlock()
	return nil
}

func (f *fakeHotRankRepo) RemovePost(_ context.Context, postID string) error {
	f.mu.Lock()
	f.removed = append(f.removed, postID)
	f.mu.Unlock()
	return nil
}

func (f *fakeHotRankRepo) GetTopPostIDs(context.Context, int) ([]string, error) {
	return f.topIDs, f.topErr
}

func (f *fakeHotRankRepo) Rebuild(context.Context, map[string]float64) error { return nil }

// fakeProducer 丢弃事件；删除事件是异步尽力而为的，测试不依赖其送达。
type fakeProducer struct{}

func (fakeProducer) SendPostDeletedEvent(context.Context, string, string, int64) error { return nil }

func (fakeProducer) SendCommentDeletedEvent(context.Context, events.CommentDeletedEvent) error {
	return nil
}

func newTestCleaner(t *testing.T) *cleanup.Runner {
	t.Helper()
	return cleanup.NewRunner(newTestLogger(t))
}
