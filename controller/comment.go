package controller

import (
	"net/http"
	"strconv"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/community_service/models/dto"
	"github.com/Xushengqwer/community_service/service"
)

// CommentController 定义评论控制器的结构体
type CommentController struct {
	commentService service.CommentService
}

// NewCommentController 构造函数，用于创建 CommentController 实例
func NewCommentController(commentService service.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

// CreateComment 发表评论
// @Summary      发表评论
// @Description  在帖子下发表一级评论或楼内回复。回复需同时携带 rootId 与 parentId。
// @Tags         comments (评论)
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateCommentRequest true "评论内容"
// @Success      200 {object} vo.CommentVO
// @Failure      400 {object} map[string]interface{} "无效的请求参数或帖子已关闭评论"
// @Failure      404 {object} map[string]interface{} "帖子或楼主评论不存在"
// @Router       /api/v1/community/comments [post]
func (ctrl *CommentController) CreateComment(c *gin.Context) {
	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求体: "+err.Error())
		return
	}
	caller, ok := callerID(c)
	if !ok {
		return
	}

	commentVO, err := ctrl.commentService.CreateComment(c.Request.Context(), caller, &req)
	if err != nil {
		respondServiceError(c, err, "发表评论失败")
		return
	}
	response.RespondSuccess(c, commentVO, "评论发表成功")
}

// DeleteComment 删除评论
// @Summary      删除评论
// @Description  评论作者删除自己的评论。一级评论物理级联删除整楼；回复改写为墓碑。
// @Tags         comments (评论)
// @Accept       json
// @Produce      json
// @Param        id path string true "评论ID"
// @Param        request body dto.DeleteCommentRequest true "所属帖子与评论类型标记"
// @Success      200 {object} vo.DeleteCommentResultVO
// @Failure      403 {object} map[string]interface{} "非作者操作"
// @Failure      404 {object} map[string]interface{} "评论不存在"
// @Router       /api/v1/community/comments/{id} [delete]
func (ctrl *CommentController) DeleteComment(c *gin.Context) {
	commentID := c.Param("id")
	var req dto.DeleteCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求体: "+err.Error())
		return
	}
	caller, ok := callerID(c)
	if !ok {
		return
	}

	result, err := ctrl.commentService.DeleteComment(c.Request.Context(), caller, commentID, &req)
	if err != nil {
		respondServiceError(c, err, "删除评论失败")
		return
	}
	response.RespondSuccess(c, result, "评论删除成功")
}

// ListComments 获取帖子评论列表
// @Summary      获取帖子评论列表
// @Description  分页返回帖子下的一级评论（含墓碑占位）。
// @Tags         comments (评论)
// @Produce      json
// @Param        id path string true "帖子ID"
// @Param        offset query int false "偏移量" default(0)
// @Param        limit query int false "每页数量" default(20)
// @Success      200 {object} map[string]interface{}
// @Router       /api/v1/community/posts/{id}/comments [get]
func (ctrl *CommentController) ListComments(c *gin.Context) {
	postID := c.Param("id")
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	comments, total, err := ctrl.commentService.ListComments(c.Request.Context(), postID, offset, limit)
	if err != nil {
		respondServiceError(c, err, "获取评论列表失败")
		return
	}
	response.RespondSuccess(c, gin.H{"comments": comments, "total": total}, "评论列表获取成功")
}

// RegisterRoutes 注册评论相关路由。
func (ctrl *CommentController) RegisterRoutes(group *gin.RouterGroup) {
	comments := group.Group("/comments")
	{
		comments.POST("", ctrl.CreateComment)       // POST /api/v1/community/comments
		comments.DELETE("/:id", ctrl.DeleteComment) // DELETE /api/v1/community/comments/:id
	}
	group.GET("/posts/:id/comments", ctrl.ListComments) // GET /api/v1/community/posts/:id/comments
}
