package service

import (
	"context"
	"time"

	"github.com/Xushengqwer/community_service/models/events"
)

// kafkaSendTimeout 异步事件投递的超时；事件发送脱离请求生命周期执行。
const kafkaSendTimeout = 5 * time.Second

// DeleteEventProducer 抽象删除事件的投递端。
// 由 mq/producer.KafkaProducer 实现，接口化便于服务层单测注入空实现。
type DeleteEventProducer interface {
	SendPostDeletedEvent(ctx context.Context, postID, ownerID string, deletedComments int64) error
	SendCommentDeletedEvent(ctx context.Context, event events.CommentDeletedEvent) error
}
