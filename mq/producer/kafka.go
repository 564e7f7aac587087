package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/community_service/config"
	"github.com/Xushengqwer/community_service/models/events"
)

// KafkaProducer Kafka 消息生产者
type KafkaProducer struct {
	writer *kafka.Writer
	logger *core.ZapLogger
	topics config.Topics
}

// NewKafkaProducer 创建一个新的 Kafka 生产者实例
func NewKafkaProducer(config config.KafkaConfig, logger *core.ZapLogger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(config.Brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &KafkaProducer{
		writer: writer,
		logger: logger,
		topics: config.Topics,
	}
}

// SendEvent 发送事件到指定 Kafka 主题
func (p *KafkaProducer) SendEvent(ctx context.Context, topic string, event interface{}) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal event", zap.Error(err), zap.String("topic", topic))
		return err
	}

	p.logger.Debug("Sending Kafka message",
		zap.String("topic", topic),
		zap.ByteString("payload", eventBytes))

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Value: eventBytes,
	})

	if err != nil {
		p.logger.Error("Failed to write Kafka message", zap.Error(err), zap.String("topic", topic))
	} else {
		p.logger.Info("Successfully sent Kafka message", zap.String("topic", topic))
	}
	return err
}

// SendPostDeletedEvent 发送帖子删除事件到 Kafka
// - 意图: 帖子级联删除完成后通知下游（排行榜剔除、搜索索引清理等）
// - 输入: ctx 上下文, postID 帖子ID, ownerID 帖子作者, deletedComments 连带删除的评论数
// - 输出: error 错误信息
func (p *KafkaProducer) SendPostDeletedEvent(ctx context.Context, postID, ownerID string, deletedComments int64) error {
	event := events.PostDeletedEvent{
		EventID:         uuid.New().String(),
		Timestamp:       time.Now(),
		PostID:          postID,
		OwnerID:         ownerID,
		DeletedComments: deletedComments,
	}
	return p.SendEvent(ctx, p.topics.PostDeleted, event)
}

// SendCommentDeletedEvent 发送评论删除事件到 Kafka
// - 意图: 评论删除（物理级联或逻辑墓碑）完成后通知下游
// - 输入: ctx 上下文, event 评论删除事件载荷（EventID/Timestamp 由本方法填充）
// - 输出: error 错误信息
func (p *KafkaProducer) SendCommentDeletedEvent(ctx context.Context, event events.CommentDeletedEvent) error {
	event.EventID = uuid.New().String()
	event.Timestamp = time.Now()
	return p.SendEvent(ctx, p.topics.CommentDeleted, event)
}

// Close 关闭底层的 Kafka Writer。
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
