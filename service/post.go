package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/community_service/constant"
	"github.com/Xushengqwer/community_service/dependencies"
	"github.com/Xushengqwer/community_service/models/dto"
	"github.com/Xushengqwer/community_service/models/entities"
	"github.com/Xushengqwer/community_service/models/vo"
	"github.com/Xushengqwer/community_service/myErrors"
	"github.com/Xushengqwer/community_service/pkg/cleanup"
	"github.com/Xushengqwer/community_service/repo/mysql"
)

// PostService 帖子的生命周期：发布、详情、时间线、属主管理、级联删除。
//
// 删帖的一致性取舍：帖子文档本身的移除是操作成败的判据，
// 附属数据（点赞、收藏、举报、评论）的清理全部尽力而为并发执行，
// 单项失败只记日志不回滚，残留由定时任务兜底；图片物理文件与
// 下游事件在请求返回后异步处理。
type PostService interface {
	// CreatePost 发布帖子。图片为客户端已直传对象存储后的引用列表。
	CreatePost(ctx context.Context, callerID string, req *dto.CreatePostRequest) (*vo.PostVO, error)

	// GetPostByID 获取帖子详情；私密帖仅作者可见，对外表现为未找到。
	GetPostByID(ctx context.Context, callerID string, postID string) (*vo.PostVO, error)

	// Timeline 公开帖时间线，游标分页。
	Timeline(ctx context.Context, req *dto.TimelineQueryRequest) (*vo.TimelinePageVO, error)

	// ManagePost 属主管理操作：可见性 / 评论开关 / 置顶。
	ManagePost(ctx context.Context, callerID string, postID string, req *dto.ManagePostRequest) error

	// DeletePost 删除帖子及其附属数据，仅属主可操作。
	DeletePost(ctx context.Context, callerID string, postID string) (*vo.DeletePostResultVO, error)
}

type postService struct {
	postRepo       mysql.PostRepository
	commentRepo    mysql.CommentRepository
	likeRepo       mysql.LikeRepository
	engagementRepo mysql.EngagementRepository
	counterService CounterService
	cleaner        *cleanup.Runner
	producer       DeleteEventProducer
	cosClient      dependencies.COSClientInterface
	logger         *core.ZapLogger
}

// NewPostService 是 postService 的构造函数。
func NewPostService(
	postRepo mysql.PostRepository,
	commentRepo mysql.CommentRepository,
	likeRepo mysql.LikeRepository,
	engagementRepo mysql.EngagementRepository,
	counterService CounterService,
	cleaner *cleanup.Runner,
	eventProducer DeleteEventProducer,
	cosClient dependencies.COSClientInterface,
	logger *core.ZapLogger,
) PostService {
	return &postService{
		postRepo:       postRepo,
		commentRepo:    commentRepo,
		likeRepo:       likeRepo,
		engagementRepo: engagementRepo,
		counterService: counterService,
		cleaner:        cleaner,
		producer:       eventProducer,
		cosClient:      cosClient,
		logger:         logger,
	}
}

func (s *postService) CreatePost(ctx context.Context, callerID string, req *dto.CreatePostRequest) (*vo.PostVO, error) {
	tags := normalizeTags(req.Tags)
	if len(tags) > constant.MaxTopicsPerPost {
		return nil, myErrors.ErrInvalidArgument
	}

	status := entities.VisibilityPublic
	if req.Private {
		status = entities.VisibilityPrivate
	}
	commentEnabled := true
	if req.CommentEnabled != nil {
		commentEnabled = *req.CommentEnabled
	}

	post := &entities.Post{
		OwnerID:        callerID,
		Title:          req.Title,
		Content:        req.Content,
		Images:         req.Images,
		Tags:           tags,
		Status:         status,
		CommentEnabled: commentEnabled,
	}

	if err := s.postRepo.CreatePost(ctx, nil, post); err != nil {
		s.logger.Error("创建帖子失败", zap.Error(err), zap.String("callerID", callerID))
		return nil, err
	}

	// 话题引用计数只统计公开帖；调整失败不影响发帖结果。
	if status == entities.VisibilityPublic {
		s.adjustTopicCounts(ctx, tags, 1)
	}

	return vo.NewPostVO(post), nil
}

func (s *postService) GetPostByID(ctx context.Context, callerID string, postID string) (*vo.PostVO, error) {
	post, err := s.postRepo.GetPostByID(ctx, nil, postID)
	if err != nil {
		return nil, err
	}
	// 私密帖对非属主隐藏存在性。
	if post.Status == entities.VisibilityPrivate && post.OwnerID != callerID {
		return nil, commonerrors.ErrRepoNotFound
	}
	return vo.NewPostVO(post), nil
}

func (s *postService) Timeline(ctx context.Context, req *dto.TimelineQueryRequest) (*vo.TimelinePageVO, error) {
	var lastCreatedAt *time.Time
	var lastPostID *string
	if req.LastCreatedAt != nil && req.LastPostID != "" {
		t := time.UnixMilli(*req.LastCreatedAt)
		lastCreatedAt = &t
		lastPostID = &req.LastPostID
	}

	posts, nextCreatedAt, nextPostID, err := s.postRepo.GetPostsByTimeline(ctx, lastCreatedAt, lastPostID, req.PageSize)
	if err != nil {
		return nil, err
	}

	page := &vo.TimelinePageVO{Posts: make([]*vo.PostVO, 0, len(posts))}
	for _, p := range posts {
		page.Posts = append(page.Posts, vo.NewPostVO(p))
	}
	if nextCreatedAt != nil && nextPostID != nil {
		ms := nextCreatedAt.UnixMilli()
		page.NextCreatedAt = &ms
		page.NextPostID = *nextPostID
	}
	return page, nil
}

func (s *postService) ManagePost(ctx context.Context, callerID string, postID string, req *dto.ManagePostRequest) error {
	post, err := s.postRepo.GetPostByID(ctx, nil, postID)
	if err != nil {
		return err
	}
	if post.OwnerID != callerID {
		s.logger.Warn("非属主尝试管理帖子",
			zap.String("postID", postID),
			zap.String("callerID", callerID),
		)
		return myErrors.ErrPermissionDenied
	}

	// 每种动作先独立校验取值的类型与定义域，不合法的请求不触达存储。
	switch req.Action {
	case dto.ManageActionPrivacy:
		var value int
		if err := json.Unmarshal(req.Value, &value); err != nil {
			return myErrors.ErrInvalidArgument
		}
		status := entities.Visibility(value)
		if !status.Valid() {
			return myErrors.ErrInvalidArgument
		}
		if status == post.Status {
			return nil
		}
		if err := s.postRepo.UpdateManagedFields(ctx, nil, postID, map[string]interface{}{"status": status}); err != nil {
			return err
		}
		// 可见性切换要同步话题引用计数：转公开补回增量，转私密扣回。
		delta := int64(1)
		if status == entities.VisibilityPrivate {
			delta = -1
		}
		s.adjustTopicCounts(ctx, post.Tags, delta)
		return nil

	case dto.ManageActionCommentToggle:
		var value bool
		if err := json.Unmarshal(req.Value, &value); err != nil {
			return myErrors.ErrInvalidArgument
		}
		return s.postRepo.UpdateManagedFields(ctx, nil, postID, map[string]interface{}{"comment_enabled": value})

	case dto.ManageActionTop:
		var value bool
		if err := json.Unmarshal(req.Value, &value); err != nil {
			return myErrors.ErrInvalidArgument
		}
		return s.postRepo.UpdateManagedFields(ctx, nil, postID, map[string]interface{}{"pinned": value})

	default:
		return myErrors.ErrInvalidArgument
	}
}

func (s *postService) DeletePost(ctx context.Context, callerID string, postID string) (*vo.DeletePostResultVO, error) {
	post, err := s.postRepo.GetPostByID(ctx, nil, postID)
	if err != nil {
		return nil, err
	}
	if post.OwnerID != callerID {
		s.logger.Warn("非属主尝试删除帖子",
			zap.String("postID", postID),
			zap.String("callerID", callerID),
		)
		return nil, myErrors.ErrPermissionDenied
	}

	// 1. 圈定附属评论：post_id 扁平存储，单次查询即可，无需递归。
	commentIDs, err := s.commentRepo.ListCommentIDsByPost(ctx, nil, postID)
	if err != nil {
		return nil, err
	}

	// 2. 五路独立清理并发执行，彼此无依赖，任何一路失败都不阻断其余。
	var deletedComments int64
	s.cleaner.Run(ctx, []cleanup.Task{
		{
			Name: "清理帖子评论的点赞",
			Run: func(taskCtx context.Context) error {
				_, err := s.likeRepo.DeleteCommentLikesByCommentIDs(taskCtx, commentIDs)
				return err
			},
		},
		{
			Name: "清理帖子的点赞",
			Run: func(taskCtx context.Context) error {
				_, err := s.likeRepo.DeletePostLikesByPostID(taskCtx, postID)
				return err
			},
		},
		{
			Name: "清理帖子的收藏",
			Run: func(taskCtx context.Context) error {
				_, err := s.engagementRepo.DeleteCollectionsByPostID(taskCtx, postID)
				return err
			},
		},
		{
			Name: "清理帖子的举报",
			Run: func(taskCtx context.Context) error {
				_, err := s.engagementRepo.DeleteReportsByTargetID(taskCtx, postID)
				return err
			},
		},
		{
			Name: "删除帖子的全部评论",
			Run: func(taskCtx context.Context) error {
				count, err := s.commentRepo.DeleteByPostID(taskCtx, nil, postID)
				deletedComments = count
				return err
			},
		},
	})

	// 3. 清理尘埃落定后删除帖子本体，这一步的成败决定整个操作的结果。
	if err := s.postRepo.DeletePost(ctx, nil, postID); err != nil {
		s.logger.Error("删除帖子本体失败", zap.Error(err), zap.String("postID", postID))
		return nil, err
	}

	// 4. 公开帖回收话题引用计数，逐个执行并容忍单项失败。
	if post.Status == entities.VisibilityPublic {
		s.adjustTopicCounts(ctx, post.Tags, -1)
	}

	// 5. 图片物理文件与下游事件异步处理，结果不影响本次调用。
	images := append([]string(nil), post.Images...)
	go s.deleteImageObjects(images)
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), kafkaSendTimeout)
		defer cancel()
		if err := s.producer.SendPostDeletedEvent(sendCtx, postID, post.OwnerID, deletedComments); err != nil {
			s.logger.Error("发送帖子删除事件失败", zap.Error(err), zap.String("postID", postID))
		}
	}()

	return &vo.DeletePostResultVO{DeletedComments: deletedComments}, nil
}

// adjustTopicCounts 逐个调整话题引用计数，单项失败记日志后继续。
func (s *postService) adjustTopicCounts(ctx context.Context, tags []string, delta int64) {
	for _, tag := range tags {
		if err := s.counterService.BumpTopicCount(ctx, tag, delta); err != nil {
			s.logger.Warn("调整话题引用计数失败",
				zap.String("topic", tag),
				zap.Int64("delta", delta),
				zap.Error(err),
			)
		}
	}
}

// deleteImageObjects 回收帖子图片的物理文件，只处理云存储引用。
func (s *postService) deleteImageObjects(images []string) {
	deleteCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, ref := range images {
		if !strings.HasPrefix(ref, constant.CloudFilePrefix) {
			continue
		}
		objectKey := objectKeyFromCloudRef(ref)
		if objectKey == "" {
			continue
		}
		if err := s.cosClient.DeleteObject(deleteCtx, objectKey); err != nil {
			s.logger.Warn("回收帖子图片文件失败", zap.String("ref", ref), zap.Error(err))
		}
	}
}

// objectKeyFromCloudRef 把 cloud://<env>.<bucket>/<path> 形式的引用还原为对象键。
func objectKeyFromCloudRef(ref string) string {
	rest := strings.TrimPrefix(ref, constant.CloudFilePrefix)
	idx := strings.Index(rest, "/")
	if idx < 0 || idx == len(rest)-1 {
		return ""
	}
	return rest[idx+1:]
}

// normalizeTags 去空白、去重，保持首次出现的顺序。
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
