package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Visibility 帖子可见性，枚举：0=公开, 1=私密
type Visibility int

const (
	VisibilityPublic  Visibility = 0
	VisibilityPrivate Visibility = 1
)

// Valid 校验枚举取值是否在定义域内。
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Post 帖子实体
//   - 使用场景: 社区/集市的主内容单元，携带冗余的聚合计数
//     (comment_count / like_count / view_count / collect_count / hot_score)，
//     计数由计数维护器与级联删除维持，不做外键级联。
//   - 表名: posts
//   - 主键: 创建时由存储层分配的不透明字符串 (UUID)，对外不承诺任何结构。
type Post struct {
	ID        string         `gorm:"type:char(36);primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// 作者身份，网关透传的不透明 openid，删除/管理操作的唯一授权依据
	OwnerID string `gorm:"type:char(36);not null;index" json:"owner_id"`

	Title   string `gorm:"type:varchar(255);not null" json:"title"`
	Content string `gorm:"type:text;not null" json:"content"`

	// 图片引用列表，有序；cloud:// 前缀的引用在删帖时触发对象存储清理
	Images datatypes.JSONSlice[string] `gorm:"type:json" json:"images"`

	// 话题标签集合，最多 constant.MaxTopicsPerPost 个
	Tags datatypes.JSONSlice[string] `gorm:"type:json" json:"tags"`

	// 可见性，枚举：0=公开, 1=私密；私密帖不参与话题计数
	Status Visibility `gorm:"type:int;default:0;index" json:"status"`

	// 评论开关与置顶标记，仅属主可改
	CommentEnabled bool `gorm:"default:true" json:"comment_enabled"`
	Pinned         bool `gorm:"default:false;index" json:"pinned"`

	// 冗余聚合计数；comment_count 恒 >= 0，由级联删除在同一事务内维护
	CommentCount int64 `gorm:"type:bigint;default:0" json:"comment_count"`
	LikeCount    int64 `gorm:"type:bigint;default:0" json:"like_count"`
	ViewCount    int64 `gorm:"type:bigint;default:0" json:"view_count"`
	CollectCount int64 `gorm:"type:bigint;default:0" json:"collect_count"`

	// 热度分，浏览上报按权重累加，用于热榜排序
	HotScore int64 `gorm:"type:bigint;default:0;index" json:"hot_score"`
}

// BeforeCreate 由存储层分配不透明 ID。
func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
