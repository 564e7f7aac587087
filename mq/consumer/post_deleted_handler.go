package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/community_service/models/events"
	redisRepo "github.com/Xushengqwer/community_service/repo/redis"
)

// todo  未配置死信队列

// MessageHandler 定义了处理 Kafka 消息的接口
type MessageHandler interface {
	Handle(ctx context.Context, msg kafka.Message) error
}

// PostDeletedHandler 消费帖子删除事件，把被删帖子从热帖排行榜中剔除。
// 排行榜本身会被定时任务周期性重建，这里的即时剔除只是缩短脏数据窗口。
type PostDeletedHandler struct {
	logger      *core.ZapLogger
	hotRankRepo redisRepo.HotRankRepository
}

func NewPostDeletedHandler(logger *core.ZapLogger, hotRankRepo redisRepo.HotRankRepository) *PostDeletedHandler {
	return &PostDeletedHandler{
		logger:      logger,
		hotRankRepo: hotRankRepo,
	}
}

func (h *PostDeletedHandler) Handle(ctx context.Context, msg kafka.Message) error {
	h.logger.Debug("PostDeletedHandler: 开始处理 Kafka 消息", zap.String("topic", msg.Topic))

	var event events.PostDeletedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("PostDeletedHandler: 反序列化 Kafka 消息失败", zap.Error(err), zap.ByteString("value", msg.Value))
		return nil // 不重试无法解析的消息
	}

	h.logger.Info("PostDeletedHandler: 成功解析帖子删除消息",
		zap.String("event_id", event.EventID),
		zap.String("post_id", event.PostID))

	if err := h.hotRankRepo.RemovePost(ctx, event.PostID); err != nil {
		h.logger.Error("PostDeletedHandler: 剔除热榜条目失败", zap.Error(err), zap.String("post_id", event.PostID))
		return fmt.Errorf("PostDeletedHandler: 剔除热榜条目失败: %w", err)
	}

	h.logger.Info("PostDeletedHandler: 已将帖子移出热榜", zap.String("post_id", event.PostID))
	return nil
}
