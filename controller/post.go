package controller

import (
	"net/http"

	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/community_service/models/dto"
	"github.com/Xushengqwer/community_service/service"
)

// PostController 定义帖子控制器的结构体
type PostController struct {
	postService service.PostService
}

// NewPostController 构造函数，用于创建 PostController 实例
func NewPostController(postService service.PostService) *PostController {
	return &PostController{postService: postService}
}

// CreatePost 发布帖子
// @Summary      发布帖子
// @Description  发布一篇新帖子。图片需先由客户端直传对象存储，这里只提交引用。调用方身份从请求上下文获取。
// @Tags         posts (帖子)
// @Accept       json
// @Produce      json
// @Param        request body dto.CreatePostRequest true "帖子内容"
// @Success      200 {object} vo.PostVO "创建成功，返回帖子详情"
// @Failure      400 {object} map[string]interface{} "无效的请求参数"
// @Failure      401 {object} map[string]interface{} "用户未授权"
// @Router       /api/v1/community/posts [post]
func (ctrl *PostController) CreatePost(c *gin.Context) {
	var req dto.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求体: "+err.Error())
		return
	}
	caller, ok := callerID(c)
	if !ok {
		return
	}

	postVO, err := ctrl.postService.CreatePost(c.Request.Context(), caller, &req)
	if err != nil {
		respondServiceError(c, err, "发布帖子失败")
		return
	}
	response.RespondSuccess(c, postVO, "帖子发布成功")
}

// GetPostByID 获取帖子详情
// @Summary      获取帖子详情
// @Description  按 ID 获取帖子。私密帖仅作者可见，对外表现为 404。
// @Tags         posts (帖子)
// @Produce      json
// @Param        id path string true "帖子ID"
// @Success      200 {object} vo.PostVO
// @Failure      404 {object} map[string]interface{} "帖子不存在"
// @Router       /api/v1/community/posts/{id} [get]
func (ctrl *PostController) GetPostByID(c *gin.Context) {
	postID := c.Param("id")
	caller, ok := callerID(c)
	if !ok {
		return
	}

	postVO, err := ctrl.postService.GetPostByID(c.Request.Context(), caller, postID)
	if err != nil {
		respondServiceError(c, err, "获取帖子失败")
		return
	}
	response.RespondSuccess(c, postVO, "帖子获取成功")
}

// Timeline 获取公开帖时间线 (游标分页)
// @Summary      获取帖子时间线
// @Description  按创建时间倒序返回公开帖子，游标分页。
// @Tags         posts (帖子)
// @Produce      json
// @Param        pageSize query int true "每页数量" minimum(1) maximum(100)
// @Param        lastCreatedAt query int false "上一页末条的毫秒时间戳"
// @Param        lastPostId query string false "上一页末条的帖子ID"
// @Success      200 {object} vo.TimelinePageVO
// @Failure      400 {object} map[string]interface{} "无效的查询参数"
// @Router       /api/v1/community/posts/timeline [get]
func (ctrl *PostController) Timeline(c *gin.Context) {
	var req dto.TimelineQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的查询参数: "+err.Error())
		return
	}

	page, err := ctrl.postService.Timeline(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err, "获取时间线失败")
		return
	}
	response.RespondSuccess(c, page, "时间线获取成功")
}

// ManagePost 帖子管理操作
// @Summary      帖子管理
// @Description  属主对帖子执行管理动作：privacy (0/1)、comment_toggle (bool)、top (bool)。
// @Tags         posts (帖子)
// @Accept       json
// @Produce      json
// @Param        id path string true "帖子ID"
// @Param        request body dto.ManagePostRequest true "管理动作与取值"
// @Success      200 {object} map[string]interface{} "操作成功"
// @Failure      400 {object} map[string]interface{} "不支持的动作或非法取值"
// @Failure      403 {object} map[string]interface{} "非属主操作"
// @Router       /api/v1/community/posts/{id}/manage [post]
func (ctrl *PostController) ManagePost(c *gin.Context) {
	postID := c.Param("id")
	var req dto.ManagePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, "无效的请求体: "+err.Error())
		return
	}
	caller, ok := callerID(c)
	if !ok {
		return
	}

	if err := ctrl.postService.ManagePost(c.Request.Context(), caller, postID, &req); err != nil {
		respondServiceError(c, err, "帖子管理操作失败")
		return
	}
	response.RespondSuccess[any](c, nil, "帖子管理操作成功")
}

// DeletePost 删除帖子
// @Summary      删除帖子
// @Description  属主删除帖子，连带清理评论、点赞、收藏、举报与图片文件。
// @Tags         posts (帖子)
// @Produce      json
// @Param        id path string true "帖子ID"
// @Success      200 {object} vo.DeletePostResultVO
// @Failure      403 {object} map[string]interface{} "非属主操作"
// @Failure      404 {object} map[string]interface{} "帖子不存在"
// @Router       /api/v1/community/posts/{id} [delete]
func (ctrl *PostController) DeletePost(c *gin.Context) {
	postID := c.Param("id")
	caller, ok := callerID(c)
	if !ok {
		return
	}

	result, err := ctrl.postService.DeletePost(c.Request.Context(), caller, postID)
	if err != nil {
		respondServiceError(c, err, "删除帖子失败")
		return
	}
	response.RespondSuccess(c, result, "帖子删除成功")
}

// RegisterRoutes 注册帖子相关路由。
func (ctrl *PostController) RegisterRoutes(group *gin.RouterGroup) {
	posts := group.Group("/posts")
	{
		posts.POST("", ctrl.CreatePost)             // POST /api/v1/community/posts
		posts.GET("/timeline", ctrl.Timeline)       // GET /api/v1/community/posts/timeline
		posts.GET("/:id", ctrl.GetPostByID)         // GET /api/v1/community/posts/:id
		posts.POST("/:id/manage", ctrl.ManagePost)  // POST /api/v1/community/posts/:id/manage
		posts.DELETE("/:id", ctrl.DeletePost)       // DELETE /api/v1/community/posts/:id
	}
}
