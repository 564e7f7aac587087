package controller

import (
	"strconv"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/community_service/service"
)

// HotPostController 热帖榜查询接口。
type HotPostController struct {
	hotPostService service.HotPostService
}

// NewHotPostController 构造函数，用于创建 HotPostController 实例
func NewHotPostController(hotPostService service.HotPostService) *HotPostController {
	return &HotPostController{hotPostService: hotPostService}
}

// GetHotPosts 获取热帖榜
// @Summary      获取热帖榜
// @Description  按热度分降序返回帖子。优先读 Redis 排行榜缓存，降级时回源 MySQL。
// @Tags         posts (帖子)
// @Produce      json
// @Param        limit query int false "返回数量" default(50) maximum(200)
// @Success      200 {object} vo.HotPostsVO
// @Router       /api/v1/community/posts/hot [get]
func (ctrl *HotPostController) GetHotPosts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	result, err := ctrl.hotPostService.GetHotPosts(c.Request.Context(), limit)
	if err != nil {
		respondServiceError(c, err, "获取热帖榜失败")
		return
	}
	response.RespondSuccess(c, result, "热帖榜获取成功")
}

// RegisterRoutes 注册热帖榜路由。
func (ctrl *HotPostController) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/posts/hot", ctrl.GetHotPosts) // GET /api/v1/community/posts/hot
}
