package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Topic 话题实体
//   - 首次被公开帖引用时懒创建 (count=1)，之后只增减 count，从不物理删除。
//   - 不变量: count >= 0。递减由计数维护器按地板钳制策略执行。
type Topic struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name  string `gorm:"type:varchar(64);not null;uniqueIndex" json:"name"`
	Count int64  `gorm:"type:bigint;default:0" json:"count"`
}

func (t *Topic) BeforeCreate(*gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
