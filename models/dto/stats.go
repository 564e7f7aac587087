package dto

// BumpCounterRequest 通用计数变更。
// 定位方式二选一：DocID 直接定位，或 (WhereField, WhereValue) 等值过滤；
// 允许的集合/字段/定位字段由 constant.CounterAllowList 静态限定。
type BumpCounterRequest struct {
	Collection string `json:"collection" binding:"required"`
	DocID      string `json:"docId"`
	WhereField string `json:"whereField"`
	WhereValue string `json:"whereValue"`
	Field      string `json:"field" binding:"required"`
	Amount     int64  `json:"amount" binding:"required"`
}

// UseDocID 判断请求采用哪种定位方式。
func (r *BumpCounterRequest) UseDocID() bool {
	return r.DocID != ""
}

// HasWhereLocator 判断过滤定位参数是否齐全。
func (r *BumpCounterRequest) HasWhereLocator() bool {
	return r.WhereField != "" && r.WhereValue != ""
}
