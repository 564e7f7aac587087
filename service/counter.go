package service

import (
	"context"
	"errors"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/community_service/constant"
	"github.com/Xushengqwer/community_service/models/dto"
	"github.com/Xushengqwer/community_service/models/entities"
	"github.com/Xushengqwer/community_service/models/vo"
	"github.com/Xushengqwer/community_service/myErrors"
	"github.com/Xushengqwer/community_service/repo/mysql"
)

// CounterService 计数维护器：冗余聚合计数的唯一外部修改入口。
// 白名单 (constant.CounterAllowList) 是计数变更仅有的授权检查，
// 调用方身份只记日志，不再做字段级归属校验。
type CounterService interface {
	// Bump 按白名单策略对 (集合, 字段) 执行一次计数变更。
	// - 集合/字段/定位字段不在白名单内返回 myErrors.ErrPermissionDenied。
	// - 地板钳制策略的递减走读-条件写：当前值已为 0 则跳过，
	//   减穿 0 则直接置 0。两次并发递减可能读到同一旧值，
	//   这是已接受的近似语义，不加锁修复。
	// - 返回受影响的行数；定位未命中任何记录时 updated=0，不视为错误。
	Bump(ctx context.Context, callerID string, req *dto.BumpCounterRequest) (*vo.BumpCounterResultVO, error)

	// BumpTopicCount 按名字调整话题引用计数，走地板钳制策略。
	// 正向增量且话题尚不存在时懒创建（话题首次被使用）。
	// 发帖、删帖、帖子公开/私密切换共用这条路径。
	BumpTopicCount(ctx context.Context, name string, delta int64) error
}

type counterService struct {
	counterRepo mysql.CounterRepository
	topicRepo   mysql.TopicRepository
	logger      *core.ZapLogger
}

// NewCounterService 是 counterService 的构造函数。
func NewCounterService(
	counterRepo mysql.CounterRepository,
	topicRepo mysql.TopicRepository,
	logger *core.ZapLogger,
) CounterService {
	return &counterService{
		counterRepo: counterRepo,
		topicRepo:   topicRepo,
		logger:      logger,
	}
}

func (s *counterService) Bump(ctx context.Context, callerID string, req *dto.BumpCounterRequest) (*vo.BumpCounterResultVO, error) {
	// 1. 参数检查：必须且只能提供一种定位方式，增量不可为 0。
	if req.Amount == 0 {
		return nil, myErrors.ErrInvalidArgument
	}
	if !req.UseDocID() && !req.HasWhereLocator() {
		return nil, myErrors.ErrInvalidArgument
	}

	// 2. 白名单检查，计数变更唯一的授权关卡。
	rule, ok := constant.LookupCounterRule(req.Collection, req.Field)
	if !ok {
		s.logger.Warn("计数变更被白名单拒绝",
			zap.String("callerID", callerID),
			zap.String("collection", req.Collection),
			zap.String("field", req.Field),
		)
		return nil, myErrors.ErrPermissionDenied
	}

	var locator mysql.CounterLocator
	if req.UseDocID() {
		locator = mysql.CounterLocator{Field: "id", Value: req.DocID}
	} else {
		// 过滤定位的列名会拼入 SQL，必须同样过白名单。
		if !constant.CounterLocatorAllowed(req.Collection, req.WhereField) {
			s.logger.Warn("计数定位字段被白名单拒绝",
				zap.String("callerID", callerID),
				zap.String("collection", req.Collection),
				zap.String("whereField", req.WhereField),
			)
			return nil, myErrors.ErrPermissionDenied
		}
		locator = mysql.CounterLocator{Field: req.WhereField, Value: req.WhereValue}
	}

	s.logger.Info("执行计数变更",
		zap.String("callerID", callerID),
		zap.String("collection", req.Collection),
		zap.String("field", req.Field),
		zap.Int64("amount", req.Amount),
	)

	updated, err := s.apply(ctx, req.Collection, locator, req.Field, req.Amount, rule)
	if err != nil {
		return nil, err
	}
	return &vo.BumpCounterResultVO{Updated: updated}, nil
}

// apply 按策略落地一次计数变更，返回受影响的行数。
func (s *counterService) apply(ctx context.Context, table string, locator mysql.CounterLocator, field string, amount int64, rule constant.CounterRule) (int64, error) {
	// 地板钳制只约束递减方向；正向增量与普通计数器同路。
	if rule.Policy == constant.CounterFloorZero && amount < 0 {
		current, err := s.counterRepo.GetValue(ctx, nil, table, locator, field, rule.SoftDelete)
		if err != nil {
			if errors.Is(err, commonerrors.ErrRepoNotFound) || isRecordNotFound(err) {
				// 宿主记录不存在，递减无事可做。
				return 0, nil
			}
			return 0, err
		}
		if current <= 0 {
			// 已在地板上，跳过递减。
			return 0, nil
		}
		if current+amount <= 0 {
			// 减穿地板，钳制到 0。
			return s.counterRepo.SetValue(ctx, nil, table, locator, field, 0, rule.SoftDelete)
		}
		return s.counterRepo.Increment(ctx, nil, table, locator, field, amount, rule.SoftDelete)
	}

	updated, err := s.counterRepo.Increment(ctx, nil, table, locator, field, amount, rule.SoftDelete)
	if err != nil {
		return 0, err
	}
	if updated == 0 && rule.CreateTopicOnMiss && amount > 0 && locator.Field == "name" {
		// 话题首次被使用：懒创建，计数从本次增量起步。
		name, _ := locator.Value.(string)
		topic := &entities.Topic{Name: name, Count: amount}
		if createErr := s.topicRepo.CreateTopic(ctx, nil, topic); createErr != nil {
			// 并发首创撞了唯一键，重试一次普通增量即可。
			s.logger.Warn("懒创建话题失败，改走普通增量", zap.String("name", name), zap.Error(createErr))
			return s.counterRepo.Increment(ctx, nil, table, locator, field, amount, rule.SoftDelete)
		}
		return 1, nil
	}
	return updated, nil
}

func (s *counterService) BumpTopicCount(ctx context.Context, name string, delta int64) error {
	if name == "" || delta == 0 {
		return nil
	}
	rule, ok := constant.LookupCounterRule("topics", "count")
	if !ok {
		return myErrors.ErrPermissionDenied
	}
	locator := mysql.CounterLocator{Field: "name", Value: name}
	_, err := s.apply(ctx, "topics", locator, "count", delta, rule)
	return err
}

// isRecordNotFound 识别仓库层未经映射的 GORM 未找到错误。
func isRecordNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
