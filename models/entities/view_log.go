package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ViewLog 浏览日志
//   - 浏览去重的依据：同一 (post_id, user_id) 在去重窗口内已有记录则不再计数。
//   - 记录只增不删，窗口外的旧行自然失效（按 created_at 过滤），
//     不做显式清理。
type ViewLog struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_view_dedup,priority:3" json:"created_at"`

	PostID string `gorm:"type:char(36);not null;index:idx_view_dedup,priority:1" json:"post_id"`
	UserID string `gorm:"type:char(36);not null;index:idx_view_dedup,priority:2" json:"user_id"`
}

func (v *ViewLog) BeforeCreate(*gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
