package mysql

import (
	"context"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CounterLocator 描述一条计数宿主记录的定位方式。
// Field 为 "id" 时按主键定位，否则按业务唯一列（如 topics.name、users.owner_id）定位。
type CounterLocator struct {
	Field string
	Value interface{}
}

// CounterRepository 提供跨表的通用计数器读写。
// 所有增减都通过 SET field = field + ? 的原子表达式完成，避免读改写竞态；
// 封顶/兜底语义（如不降到负数）由服务层结合策略表决定，仓库层只做裸操作。
type CounterRepository interface {
	// Increment 对指定表的指定字段做原子增减，返回受影响的行数。
	// - softDelete 为 true 时额外附加 deleted_at IS NULL 条件，软删记录不参与计数。
	// - db 传入事务句柄时该操作加入事务，传 nil 时使用仓库自身连接。
	Increment(ctx context.Context, db *gorm.DB, table string, locator CounterLocator, field string, delta int64, softDelete bool) (int64, error)

	// GetValue 读取当前计数值。未命中记录返回 gorm.ErrRecordNotFound。
	GetValue(ctx context.Context, db *gorm.DB, table string, locator CounterLocator, field string, softDelete bool) (int64, error)

	// SetValue 将计数值直接置为给定值，返回受影响的行数。用于负数兜底归零。
	SetValue(ctx context.Context, db *gorm.DB, table string, locator CounterLocator, field string, value int64, softDelete bool) (int64, error)
}

type counterRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewCounterRepository 是 counterRepository 的构造函数。
func NewCounterRepository(db *gorm.DB, logger *core.ZapLogger) CounterRepository {
	return &counterRepository{db: db, logger: logger}
}

func (r *counterRepository) session(ctx context.Context, db *gorm.DB) *gorm.DB {
	if db != nil {
		return db.WithContext(ctx)
	}
	return r.db.WithContext(ctx)
}

func (r *counterRepository) Increment(ctx context.Context, db *gorm.DB, table string, locator CounterLocator, field string, delta int64, softDelete bool) (int64, error) {
	query := r.session(ctx, db).Table(table).Where(locator.Field+" = ?", locator.Value)
	if softDelete {
		query = query.Where("deleted_at IS NULL")
	}
	result := query.Update(field, gorm.Expr(field+" + ?", delta))
	if result.Error != nil {
		r.logger.Error("计数器原子增减失败",
			zap.Error(result.Error),
			zap.String("table", table),
			zap.String("field", field),
			zap.Int64("delta", delta),
			zap.Any("locatorValue", locator.Value),
		)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *counterRepository) GetValue(ctx context.Context, db *gorm.DB, table string, locator CounterLocator, field string, softDelete bool) (int64, error) {
	var value int64
	query := r.session(ctx, db).Table(table).Select(field).Where(locator.Field+" = ?", locator.Value)
	if softDelete {
		query = query.Where("deleted_at IS NULL")
	}
	if err := query.Take(&value).Error; err != nil {
		return 0, err
	}
	return value, nil
}

func (r *counterRepository) SetValue(ctx context.Context, db *gorm.DB, table string, locator CounterLocator, field string, value int64, softDelete bool) (int64, error) {
	query := r.session(ctx, db).Table(table).Where(locator.Field+" = ?", locator.Value)
	if softDelete {
		query = query.Where("deleted_at IS NULL")
	}
	result := query.Update(field, value)
	if result.Error != nil {
		r.logger.Error("计数器置值失败",
			zap.Error(result.Error),
			zap.String("table", table),
			zap.String("field", field),
			zap.Int64("value", value),
		)
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
