package controller

import (
	"net/http"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/community_service/models/dto"
	"github.com/Xushengqwer/community_service/service"
)

// StatsController 聚合计数相关接口：通用计数变更与浏览上报。
type StatsController struct {
	counterService service.CounterService
	viewService    service.ViewService
}

// NewStatsController 构造函数，用于创建 StatsController 实例
func NewStatsController(counterService service.CounterService, viewService service.ViewService) *StatsController {
	return &StatsController{
		counterService: counterService,
		viewService:    viewService,
	}
}

// BumpCounter 通用计数变更
// @Summary      通用计数变更
// @Description  对白名单内的 (集合, 字段) 执行一次计数增减。定位方式为 docId 或 whereField+whereValue 二选一。
// @Tags         stats (统计)
// @Accept       json
// @Produce      json
// @Param        request body dto.BumpCounterRequest true "计数变更参数"
// @Success      200 {object} vo.BumpCounterResultVO
// @Failure      400 {object} map[string]interface{} "参数缺失或非法"
// @Failure      403 {object} map[string]interface{} "集合/字段不在白名单内"
// @Router       /api/v1/community/stats/bump [post]
func (ctrl *StatsController) BumpCounter(c *gin.Context) {
	var req dto.BumpCounterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求体: "+err.Error())
		return
	}
	caller, ok := callerID(c)
	if !ok {
		return
	}

	result, err := ctrl.counterService.Bump(c.Request.Context(), caller, &req)
	if err != nil {
		respondServiceError(c, err, "计数变更失败")
		return
	}
	response.RespondSuccess(c, result, "计数变更成功")
}

// RecordView 浏览上报
// @Summary      浏览上报
// @Description  上报一次帖子浏览。自浏览与 30 分钟窗口内的重复浏览不计数 (recorded=false)。
// @Tags         stats (统计)
// @Produce      json
// @Param        id path string true "帖子ID"
// @Success      200 {object} vo.RecordViewResultVO
// @Failure      404 {object} map[string]interface{} "帖子不存在"
// @Router       /api/v1/community/posts/{id}/view [post]
func (ctrl *StatsController) RecordView(c *gin.Context) {
	postID := c.Param("id")
	caller, ok := callerID(c)
	if !ok {
		return
	}

	result, err := ctrl.viewService.RecordView(c.Request.Context(), caller, postID)
	if err != nil {
		respondServiceError(c, err, "浏览上报失败")
		return
	}
	response.RespondSuccess(c, result, "浏览上报成功")
}

// RegisterRoutes 注册统计相关路由。
func (ctrl *StatsController) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/stats/bump", ctrl.BumpCounter)    // POST /api/v1/community/stats/bump
	group.POST("/posts/:id/view", ctrl.RecordView) // POST /api/v1/community/posts/:id/view
}
