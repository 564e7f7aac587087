package dto

import "encoding/json"

// CreatePostRequest 发布帖子。
// 图片为客户端已直传到对象存储后的引用列表，服务端不再经手文件内容。
type CreatePostRequest struct {
	Title          string   `json:"title" binding:"required,max=255"`
	Content        string   `json:"content" binding:"required"`
	Images         []string `json:"images" binding:"omitempty,max=9,dive,max=1023"`
	Tags           []string `json:"tags" binding:"omitempty,dive,min=1,max=64"`
	Private        bool     `json:"private"`
	CommentEnabled *bool    `json:"commentEnabled"` // 缺省为开启
}

// 帖子管理操作类型，对应三种属主开关
const (
	ManageActionPrivacy       = "privacy"
	ManageActionCommentToggle = "comment_toggle"
	ManageActionTop           = "top"
)

// ManagePostRequest 帖子管理（权限/评论开关/置顶）。
// Value 按 Action 延迟解析：privacy 期望 0/1，其余期望布尔。
// 解析失败视为参数错误，不触达存储。
type ManagePostRequest struct {
	Action string          `json:"action" binding:"required,oneof=privacy comment_toggle top"`
	Value  json.RawMessage `json:"value" binding:"required"`
}

// TimelineQueryRequest 公开帖时间线的游标分页查询。
type TimelineQueryRequest struct {
	PageSize      int    `form:"pageSize" binding:"required,min=1,max=100"`
	LastCreatedAt *int64 `form:"lastCreatedAt"` // 上一页末条的毫秒时间戳
	LastPostID    string `form:"lastPostId"`
}
