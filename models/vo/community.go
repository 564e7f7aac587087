package vo

import (
	"time"

	"github.com/Xushengqwer/community_service/models/entities"
)

// DeleteCommentResultVO 删除评论的结果。
// 物理级联时 DeletedCount 为移除的评论总数（1 + 回复数）；
// 逻辑删除时 IsLogicalDelete 为 true 且 DeletedCount 为 0。
type DeleteCommentResultVO struct {
	DeletedCount    int64 `json:"deletedCount,omitempty"`
	IsLogicalDelete bool  `json:"isLogicalDelete,omitempty"`
}

// DeletePostResultVO 删除帖子的结果。
type DeletePostResultVO struct {
	DeletedComments int64 `json:"deletedComments"`
}

// RecordViewResultVO 浏览上报的结果；recorded=false 表示命中去重或自浏览。
type RecordViewResultVO struct {
	Recorded bool `json:"recorded"`
}

// BumpCounterResultVO 计数变更的结果，updated 为受影响的行数。
type BumpCounterResultVO struct {
	Updated int64 `json:"updated"`
}

// CommentVO 评论视图对象。
type CommentVO struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	RootID     string    `json:"root_id"`
	ParentID   string    `json:"parent_id"`
	AuthorID   string    `json:"author_id"`
	Content    string    `json:"content"`
	Status     string    `json:"status"`
	ReplyCount int64     `json:"reply_count"`
	LikeCount  int64     `json:"like_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewCommentVO 由评论实体构建视图对象。
func NewCommentVO(c *entities.Comment) *CommentVO {
	return &CommentVO{
		ID:         c.ID,
		PostID:     c.PostID,
		RootID:     c.RootID,
		ParentID:   c.ParentID,
		AuthorID:   c.AuthorID,
		Content:    c.Content,
		Status:     c.Status,
		ReplyCount: c.ReplyCount,
		LikeCount:  c.LikeCount,
		CreatedAt:  c.CreatedAt,
	}
}
