package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User 用户档案
//   - owner_id 是身份提供方下发的不透明 openid，也是计数维护器
//     对 users 表允许的定位字段。
//   - 四个统计计数均为人口型（恒 >= 0），只通过计数白名单变更。
type User struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OwnerID  string `gorm:"type:char(36);not null;uniqueIndex" json:"owner_id"`
	Nickname string `gorm:"type:varchar(64);not null" json:"nickname"`

	// 头像在对象存储中的引用
	AvatarRef string `gorm:"type:varchar(255)" json:"avatar_ref"`

	FollowerCount  int64 `gorm:"type:bigint;default:0" json:"follower_count"`
	FollowingCount int64 `gorm:"type:bigint;default:0" json:"following_count"`
	LikeCount      int64 `gorm:"type:bigint;default:0" json:"like_count"`
	ViewCount      int64 `gorm:"type:bigint;default:0" json:"view_count"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
