package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follow 关注关系
//   - 不变量: (follower_id, target_id) 至多一行；禁止自关注（服务层校验）。
type Follow struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	FollowerID string `gorm:"type:char(36);not null;uniqueIndex:uk_follow,priority:1" json:"follower_id"`
	TargetID   string `gorm:"type:char(36);not null;uniqueIndex:uk_follow,priority:2" json:"target_id"`
}

func (f *Follow) BeforeCreate(*gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// Collection 收藏（书签）记录，按 (post_id, user_id) 去重。
type Collection struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	PostID string `gorm:"type:char(36);not null;uniqueIndex:uk_collection,priority:1" json:"post_id"`
	UserID string `gorm:"type:char(36);not null;uniqueIndex:uk_collection,priority:2" json:"user_id"`
}

func (c *Collection) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Report 举报记录，随帖子删除被尽力清理。
type Report struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	TargetID string `gorm:"type:char(36);not null;index" json:"target_id"`
	UserID   string `gorm:"type:char(36);not null" json:"user_id"`
	Reason   string `gorm:"type:varchar(255)" json:"reason"`
}

func (r *Report) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
