package events

import "time"

// 本服务发往 Kafka 的领域事件。下游（热榜缓存驱逐、搜索同步等）
// 按 topic 订阅，事件体保持自包含。

// PostDeletedEvent 帖子删除事件。
type PostDeletedEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	PostID    string    `json:"post_id"`
	OwnerID   string    `json:"owner_id"`
	// DeletedComments 随帖清理的评论数，仅供下游统计
	DeletedComments int64 `json:"deleted_comments"`
}

// CommentDeletedEvent 评论删除事件。
type CommentDeletedEvent struct {
	EventID   string    `json:"event_id"`
	Timestamp time.Time `json:"timestamp"`
	PostID    string    `json:"post_id"`
	CommentID string    `json:"comment_id"`
	// Logical 为 true 表示逻辑墓碑；false 表示物理级联
	Logical bool `json:"logical"`
	// RemovedIDs 物理级联时被移除的全部评论 ID（含根）
	RemovedIDs []string `json:"removed_ids,omitempty"`
}
