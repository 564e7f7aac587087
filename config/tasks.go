package config

// TasksConfig 定时任务相关配置。
type TasksConfig struct {
	// HotRankTopN 是热帖排行榜重建任务每次从 MySQL 取出并写入 Redis ZSet 的帖子数量。
	HotRankTopN int `mapstructure:"hotRankTopN" json:"hotRankTopN" yaml:"hotRankTopN"`

	// OrphanLikeBatchSize 是孤儿点赞清理任务每轮删除的最大行数。
	// 评论/帖子删除后的点赞清理是尽力而为的，失败残留的行由该任务兜底回收；
	// 分批删除避免单条 DELETE 长时间持锁。
	OrphanLikeBatchSize int `mapstructure:"orphanLikeBatchSize" json:"orphanLikeBatchSize" yaml:"orphanLikeBatchSize"`
}
