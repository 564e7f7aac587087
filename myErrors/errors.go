package myErrors

import "errors"

// 核心操作的错误分类。未找到类错误沿用公共模块的 commonerrors.ErrRepoNotFound，
// 事务失败由 GORM Transaction 回滚后作为普通 error 上抛，不单独定义哨兵。

// ErrInvalidArgument 表示请求参数缺失或取值非法，在任何存储访问之前检出。
var ErrInvalidArgument = errors.New("invalid argument")

// ErrPermissionDenied 表示非属主尝试变更资源，或 (集合, 字段) 不在计数白名单内。
var ErrPermissionDenied = errors.New("permission denied")

// ErrAlreadyExists 表示 (目标, 用户) 维度的关联记录已存在（点赞、关注、收藏）。
var ErrAlreadyExists = errors.New("record already exists")

// ErrCommentsDisabled 表示帖子已关闭评论。
var ErrCommentsDisabled = errors.New("comments disabled for this post")

// ErrSelfFollow 表示用户尝试关注自己。
var ErrSelfFollow = errors.New("cannot follow yourself")
