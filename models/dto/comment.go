package dto

// CreateCommentRequest 发表评论。
// RootID/ParentID 同时为空表示一级评论；回复需二者皆非空
// （ParentID 可以指向一级评论本身或同楼的另一条回复）。
type CreateCommentRequest struct {
	PostID   string `json:"postId" binding:"required"`
	RootID   string `json:"rootId"`
	ParentID string `json:"parentId"`
	Content  string `json:"content" binding:"required,max=2000"`
}

// DeleteCommentRequest 删除评论。
// IsRootComment 决定删除策略：一级评论物理级联，回复逻辑墓碑。
type DeleteCommentRequest struct {
	PostID        string `json:"postId" binding:"required"`
	IsRootComment bool   `json:"isRootComment"`
}
