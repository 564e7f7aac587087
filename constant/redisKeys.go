package constant

// Redis Key 相关常量

const (
	// HotRankKey 是全局帖子热度榜的 Key 名称。
	// Sorted Set：成员是帖子 ID，分数是 hot_score。
	// 浏览上报时增量更新，定时任务从 MySQL 全量重建以修正漂移。
	// Redis 类型: Sorted Set
	HotRankKey = "community:hot_rank"

	// HotRankTopNDefault 热榜保留的帖子数量上限。
	HotRankTopNDefault = 200
)
