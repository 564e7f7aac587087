package controller

import (
	"net/http"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/community_service/models/dto"
	"github.com/Xushengqwer/community_service/service"
)

// InteractionController 点赞/收藏/关注/举报接口。
type InteractionController struct {
	interactionService service.InteractionService
}

// NewInteractionController 构造函数，用于创建 InteractionController 实例
func NewInteractionController(interactionService service.InteractionService) *InteractionController {
	return &InteractionController{interactionService: interactionService}
}

// LikePost 点赞帖子
// @Summary      点赞帖子
// @Tags         interactions (互动)
// @Accept       json
// @Produce      json
// @Param        request body dto.LikeRequest true "目标帖子"
// @Success      200 {object} map[string]interface{}
// @Failure      409 {object} map[string]interface{} "重复点赞"
// @Router       /api/v1/community/likes/post [post]
func (ctrl *InteractionController) LikePost(c *gin.Context) {
	ctrl.handleTarget(c, func(caller, targetID string) error {
		return ctrl.interactionService.LikePost(c.Request.Context(), caller, targetID)
	}, "帖子点赞成功", "帖子点赞失败")
}

// UnlikePost 取消帖子点赞
// @Summary      取消帖子点赞
// @Tags         interactions (互动)
// @Accept       json
// @Produce      json
// @Param        request body dto.LikeRequest true "目标帖子"
// @Success      200 {object} map[string]interface{}
// @Router       /api/v1/community/likes/post [delete]
func (ctrl *InteractionController) UnlikePost(c *gin.Context) {
	ctrl.handleTarget(c, func(caller, targetID string) error {
		return ctrl.interactionService.UnlikePost(c.Request.Context(), caller, targetID)
	}, "取消帖子点赞成功", "取消帖子点赞失败")
}

// LikeComment 点赞评论
// @Summary      点赞评论
// @Tags         interactions (互动)
// @Accept       json
// @Produce      json
// @Param        request body dto.LikeRequest true "目标评论"
// @Success      200 {object} map[string]interface{}
// @Failure      409 {object} map[string]interface{} "重复点赞"
// @Router       /api/v1/community/likes/comment [post]
func (ctrl *InteractionController) LikeComment(c *gin.Context) {
	ctrl.handleTarget(c, func(caller, targetID string) error {
		return ctrl.interactionService.LikeComment(c.Request.Context(), caller, targetID)
	}, "评论点赞成功", "评论点赞失败")
}

// UnlikeComment 取消评论点赞
// @Summary      取消评论点赞
// @Tags         interactions (互动)
// @Accept       json
// @Produce      json
// @Param        request body dto.LikeRequest true "目标评论"
// @Success      200 {object} map[string]interface{}
// @Router       /api/v1/community/likes/comment [delete]
func (ctrl *InteractionController) UnlikeComment(c *gin.Context) {
	ctrl.handleTarget(c, func(caller, targetID string) error {
		return ctrl.interactionService.UnlikeComment(c.Request.Context(), caller, targetID)
	}, "取消评论点赞成功", "取消评论点赞失败")
}

// CollectPost 收藏帖子
// @Summary      收藏帖子
// @Tags         interactions (互动)
// @Accept       json
// @Produce      json
// @Param        request body dto.CollectRequest true "目标帖子"
// @Success      200 {object} map[string]interface{}
// @Failure      409 {object} map[string]interface{} "重复收藏"
// @Router       /api/v1/community/collections [post]
func (ctrl *InteractionController) CollectPost(c *gin.Context) {
	var req dto.CollectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求体: "+err.Error())
		return
	}
	caller, ok := callerID(c)
	if !ok {
		return
	}
	if err := ctrl.interactionService.CollectPost(c.Request.Context(), caller, req.PostID); err != nil {
		respondServiceError(c, err, "收藏帖子失败")
		return
	}
	response.RespondSuccess[any](c, nil, "帖子收藏成功")
}

// UncollectPost 取消收藏
// @Summary      取消收藏
// @Tags         interactions (互动)
// @Accept       json
// @Produce      json
// @Param        request body dto.CollectRequest true "目标帖子"
// @Success      200 {object} map[string]interface{}
// @Router       /api/v1/community/collections [delete]
func (ctrl *InteractionController) UncollectPost(c *gin.Context) {
	var req dto.CollectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求体: "+err.Error())
		return
	}
	caller, ok := callerID(c)
	if !ok {
		return
	}
	if err := ctrl.interactionService.UncollectPost(c.Request.Context(), caller, req.PostID); err != nil {
		respondServiceError(c, err, "取消收藏失败")
		return
	}
	response.RespondSuccess[any](c, nil, "取消收藏成功")
}

// FollowUser 关注用户
// @Summary      关注用户
// @Tags         interactions (互动)
// @Accept       json
// @Produce      json
// @Param        request body dto.FollowRequest true "目标用户"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} map[string]interface{} "自关注"
// @Failure      409 {object} map[string]interface{} "重复关注"
// @Router       /api/v1/community/follows [post]
func (ctrl *InteractionController) FollowUser(c *gin.Context) {
	var req dto.FollowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求体: "+err.Error())
		return
	}
	caller, ok := callerID(c)
	if !ok {
		return
	}
	if err := ctrl.interactionService.FollowUser(c.Request.Context(), caller, req.TargetID); err != nil {
		respondServiceError(c, err, "关注用户失败")
		return
	}
	response.RespondSuccess[any](c, nil, "关注成功")
}

// UnfollowUser 取消关注
// @Summary      取消关注
// @Tags         interactions (互动)
// @Accept       json
// @Produce      json
// @Param        request body dto.FollowRequest true "目标用户"
// @Success      200 {object} map[string]interface{}
// @Router       /api/v1/community/follows [delete]
func (ctrl *InteractionController) UnfollowUser(c *gin.Context) {
	var req dto.FollowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求体: "+err.Error())
		return
	}
	caller, ok := callerID(c)
	if !ok {
		return
	}
	if err := ctrl.interactionService.UnfollowUser(c.Request.Context(), caller, req.TargetID); err != nil {
		respondServiceError(c, err, "取消关注失败")
		return
	}
	response.RespondSuccess[any](c, nil, "取消关注成功")
}

// ReportPost 举报帖子
// @Summary      举报帖子
// @Tags         interactions (互动)
// @Accept       json
// @Produce      json
// @Param        request body dto.ReportRequest true "目标与理由"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]interface{} "帖子不存在"
// @Router       /api/v1/community/reports [post]
func (ctrl *InteractionController) ReportPost(c *gin.Context) {
	var req dto.ReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求体: "+err.Error())
		return
	}
	caller, ok := callerID(c)
	if !ok {
		return
	}
	if err := ctrl.interactionService.ReportPost(c.Request.Context(), caller, req.TargetID, req.Reason); err != nil {
		respondServiceError(c, err, "举报失败")
		return
	}
	response.RespondSuccess[any](c, nil, "举报已受理")
}

// handleTarget 点赞类接口的公共流程：绑定目标、取身份、执行、回包。
func (ctrl *InteractionController) handleTarget(c *gin.Context, fn func(caller, targetID string) error, okMsg, failMsg string) {
	var req dto.LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求体: "+err.Error())
		return
	}
	caller, ok := callerID(c)
	if !ok {
		return
	}
	if err := fn(caller, req.TargetID); err != nil {
		respondServiceError(c, err, failMsg)
		return
	}
	response.RespondSuccess[any](c, nil, okMsg)
}

// RegisterRoutes 注册互动相关路由。
func (ctrl *InteractionController) RegisterRoutes(group *gin.RouterGroup) {
	likes := group.Group("/likes")
	{
		likes.POST("/post", ctrl.LikePost)         // POST /api/v1/community/likes/post
		likes.DELETE("/post", ctrl.UnlikePost)     // DELETE /api/v1/community/likes/post
		likes.POST("/comment", ctrl.LikeComment)   // POST /api/v1/community/likes/comment
		likes.DELETE("/comment", ctrl.UnlikeComment) // DELETE /api/v1/community/likes/comment
	}
	group.POST("/collections", ctrl.CollectPost)     // POST /api/v1/community/collections
	group.DELETE("/collections", ctrl.UncollectPost) // DELETE /api/v1/community/collections
	group.POST("/follows", ctrl.FollowUser)          // POST /api/v1/community/follows
	group.DELETE("/follows", ctrl.UnfollowUser)      // DELETE /api/v1/community/follows
	group.POST("/reports", ctrl.ReportPost)          // POST /api/v1/community/reports
}
