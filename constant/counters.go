package constant

// CounterPolicy 描述一个计数字段的递减语义。
type CounterPolicy int

const (
	// CounterUnbounded 普通计数器：单条原子 UPDATE，不做预读。
	CounterUnbounded CounterPolicy = iota

	// CounterFloorZero 人口型计数器：表示某种存量（话题引用数、回复数、用户统计），
	// 递减时先读当前值，已经为 0 则跳过，减到负数则钳制为 0。
	// 读 - 条件写之间存在窄竞态窗口（两次并发递减读到同一旧值），
	// 作为已知的一致性缺口接受，不做加锁修复。
	CounterFloorZero
)

// CounterRule 是计数白名单中一个 (表, 字段) 的静态策略。
type CounterRule struct {
	Policy CounterPolicy

	// CreateTopicOnMiss 仅话题表使用：按 name 定位增量且无匹配行时，
	// 懒创建一条 count=增量 的话题记录（话题首次被使用）。
	CreateTopicOnMiss bool

	// SoftDelete 目标表启用了 GORM 软删除时置位，
	// 通用 UPDATE 需要补充 deleted_at IS NULL 条件。
	SoftDelete bool
}

// CounterTable 是单个集合（表）的白名单条目。
type CounterTable struct {
	// Fields 列出允许外部递增的字段及其策略。
	Fields map[string]CounterRule

	// LocatorFields 列出除主键外允许作为等值定位条件的字段。
	// 字段名会被拼入 SQL，绝不允许出现在该集合之外的定位字段。
	LocatorFields map[string]struct{}
}

// CounterAllowList 是计数维护器的静态白名单：只有在表中的
// (集合, 字段) 组合才允许通过 bumpCounter 修改，其余一律拒绝。
// 这是计数变更唯一的授权检查（调用方身份只记日志，不再校验字段级归属）。
var CounterAllowList = map[string]CounterTable{
	"posts": {
		Fields: map[string]CounterRule{
			"comment_count": {Policy: CounterUnbounded, SoftDelete: true},
			"like_count":    {Policy: CounterUnbounded, SoftDelete: true},
			"view_count":    {Policy: CounterUnbounded, SoftDelete: true},
			"collect_count": {Policy: CounterUnbounded, SoftDelete: true},
		},
	},
	"comments": {
		Fields: map[string]CounterRule{
			"reply_count": {Policy: CounterFloorZero},
			"like_count":  {Policy: CounterUnbounded},
		},
	},
	"topics": {
		Fields: map[string]CounterRule{
			"count": {Policy: CounterFloorZero, CreateTopicOnMiss: true},
		},
		LocatorFields: map[string]struct{}{"name": {}},
	},
	"users": {
		Fields: map[string]CounterRule{
			"follower_count":  {Policy: CounterFloorZero},
			"following_count": {Policy: CounterFloorZero},
			"like_count":      {Policy: CounterFloorZero},
			"view_count":      {Policy: CounterFloorZero},
		},
		LocatorFields: map[string]struct{}{"owner_id": {}},
	},
}

// LookupCounterRule 查询白名单，返回 (规则, 是否允许)。
func LookupCounterRule(table, field string) (CounterRule, bool) {
	t, ok := CounterAllowList[table]
	if !ok {
		return CounterRule{}, false
	}
	rule, ok := t.Fields[field]
	return rule, ok
}

// CounterLocatorAllowed 判断 whereField 是否允许用于该集合的定位。
func CounterLocatorAllowed(table, whereField string) bool {
	t, ok := CounterAllowList[table]
	if !ok {
		return false
	}
	_, ok = t.LocatorFields[whereField]
	return ok
}
