package constant

import "time"

// 服务标识，用于链路追踪与日志标记
const (
	ServiceName    = "community_service"
	ServiceVersion = "1.0.0"
)

const (
	// ViewDedupWindow 定义了浏览去重的时间窗口。
	// 同一用户对同一帖子在该窗口内的多次浏览只计一次。
	// 注意这是近似去重：窗口检查与日志写入不在同一事务中，
	// 并发的两次上报可能都通过检查，偶发的重复计数对热度启发式可接受。
	ViewDedupWindow = 30 * time.Minute

	// ViewHotScoreWeight 是单次有效浏览对帖子热度 (hot_score) 的贡献权重。
	ViewHotScoreWeight = 1
)

const (
	// DeletedCommentPlaceholder 是二级评论被逻辑删除后展示的占位内容。
	DeletedCommentPlaceholder = "该评论已由作者删除"

	// MaxTopicsPerPost 限制单个帖子最多携带的话题标签数。
	MaxTopicsPerPost = 10
)

// 定时任务 cron 表达式 (cron/v3 默认分钟级精度)
const (
	// HotRankSyncInterval 热榜缓存重建任务：每 5 分钟从 MySQL 取 Top N 重建 Redis ZSet。
	HotRankSyncInterval = "*/5 * * * *"

	// OrphanLikeGCInterval 孤儿点赞清理任务：级联删除的事务外清理允许失败，
	// 残留的点赞行由该任务每小时兜底回收。
	OrphanLikeGCInterval = "0 * * * *"
)

// CloudFilePrefix 是云存储文件引用的前缀，帖子 images 列表中
// 只有携带该前缀的引用才会在删帖时触发对象存储清理。
const CloudFilePrefix = "cloud://"
