package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 评论状态，字符串枚举
const (
	CommentStatusActive  = "active"
	CommentStatusDeleted = "deleted"
)

// Comment 评论实体
//   - 两级结构：一级评论 (root) 的 RootID 为空串；回复的 RootID 指向其所属
//     一级评论，ParentID 指向直接父级（一级评论本身或另一条回复）。
//   - 一级评论删除走物理级联（连同全部回复）；回复删除走逻辑墓碑
//     （status=deleted + 占位内容），不回收楼层。
//   - 表名: comments；不启用软删除，物理删除即为最终状态。
type Comment struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	PostID string `gorm:"type:char(36);not null;index" json:"post_id"`

	// 一级评论为 ""；回复指向所属一级评论的 ID
	RootID string `gorm:"type:char(36);not null;default:'';index" json:"root_id"`

	// 直接父级，一级评论为 ""
	ParentID string `gorm:"type:char(36);not null;default:''" json:"parent_id"`

	AuthorID string `gorm:"type:char(36);not null;index" json:"author_id"`
	Content  string `gorm:"type:text;not null" json:"content"`

	// active | deleted（逻辑墓碑）
	Status string `gorm:"type:varchar(16);not null;default:'active'" json:"status"`

	// 仅一级评论有意义：其下回复数，随回复创建递增
	ReplyCount int64 `gorm:"type:bigint;default:0" json:"reply_count"`
	LikeCount  int64 `gorm:"type:bigint;default:0" json:"like_count"`
}

// IsRoot 判断是否为一级评论。
func (c *Comment) IsRoot() bool {
	return c.RootID == ""
}

func (c *Comment) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
