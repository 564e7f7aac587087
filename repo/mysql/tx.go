package mysql

import (
	"context"

	"gorm.io/gorm"
)

// TxManager 封装数据库事务的执行入口。
// 服务层通过它编排多步写操作，而不直接依赖 *gorm.DB 的事务方法，
// 便于在单元测试中用假实现替换（回调直接拿到 nil 句柄即可）。
type TxManager interface {
	// Do 在一个事务中执行 fn。fn 返回非 nil 错误时整个事务回滚。
	// 回调收到的 tx 句柄应被传递给各仓库方法，保证它们落在同一事务内。
	Do(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type gormTxManager struct {
	db *gorm.DB
}

// NewTxManager 创建基于 GORM 的事务管理器。
func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) Do(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return m.db.WithContext(ctx).Transaction(fn)
}
