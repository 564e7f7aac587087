package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostLike 帖子点赞记录
//   - 不变量: (target_id, user_id) 至多一行，由服务层在写入前检查保证，
//     数据库唯一索引兜底。
//   - 帖子被删后残留的点赞行是可容忍的孤儿，由定时清理任务回收。
type PostLike struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	TargetID string `gorm:"type:char(36);not null;uniqueIndex:uk_post_like,priority:1" json:"target_id"`
	UserID   string `gorm:"type:char(36);not null;uniqueIndex:uk_post_like,priority:2" json:"user_id"`
}

func (l *PostLike) BeforeCreate(*gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// CommentLike 评论点赞记录，形状与 PostLike 一致但独立成表。
type CommentLike struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	TargetID string `gorm:"type:char(36);not null;uniqueIndex:uk_comment_like,priority:1" json:"target_id"`
	UserID   string `gorm:"type:char(36);not null;uniqueIndex:uk_comment_like,priority:2" json:"user_id"`
}

func (l *CommentLike) BeforeCreate(*gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
