package dto

// LikeRequest 点赞/取消点赞，target 为帖子或评论 ID（由路由区分集合）。
type LikeRequest struct {
	TargetID string `json:"targetId" binding:"required"`
}

// FollowRequest 关注/取关目标用户（openid）。
type FollowRequest struct {
	TargetID string `json:"targetId" binding:"required"`
}

// CollectRequest 收藏/取消收藏帖子。
type CollectRequest struct {
	PostID string `json:"postId" binding:"required"`
}

// ReportRequest 举报帖子。
type ReportRequest struct {
	TargetID string `json:"targetId" binding:"required"`
	Reason   string `json:"reason" binding:"required,max=255"`
}
