package vo

import (
	"time"

	"github.com/Xushengqwer/community_service/models/entities"
)

// PostVO 帖子视图对象，时间线/详情共用。
type PostVO struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"owner_id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Images         []string  `json:"images"`
	Tags           []string  `json:"tags"`
	Private        bool      `json:"private"`
	CommentEnabled bool      `json:"comment_enabled"`
	Pinned         bool      `json:"pinned"`
	CommentCount   int64     `json:"comment_count"`
	LikeCount      int64     `json:"like_count"`
	ViewCount      int64     `json:"view_count"`
	CollectCount   int64     `json:"collect_count"`
	HotScore       int64     `json:"hot_score"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewPostVO 由帖子实体构建视图对象。
func NewPostVO(p *entities.Post) *PostVO {
	return &PostVO{
		ID:             p.ID,
		OwnerID:        p.OwnerID,
		Title:          p.Title,
		Content:        p.Content,
		Images:         p.Images,
		Tags:           p.Tags,
		Private:        p.Status == entities.VisibilityPrivate,
		CommentEnabled: p.CommentEnabled,
		Pinned:         p.Pinned,
		CommentCount:   p.CommentCount,
		LikeCount:      p.LikeCount,
		ViewCount:      p.ViewCount,
		CollectCount:   p.CollectCount,
		HotScore:       p.HotScore,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// TimelinePageVO 时间线游标分页结果。
type TimelinePageVO struct {
	Posts         []*PostVO `json:"posts"`
	NextCreatedAt *int64    `json:"nextCreatedAt,omitempty"` // 毫秒时间戳
	NextPostID    string    `json:"nextPostId,omitempty"`
}

// HotPostsVO 热榜查询结果。
type HotPostsVO struct {
	Posts []*PostVO `json:"posts"`
	// Source 标记数据路径：redis 命中热榜缓存，mysql 表示回退全量排序
	Source string `json:"source"`
}
