package controller

import (
	"errors"
	"net/http"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/constants"
	"github.com/Xushengqwer/go-common/response"
	"github.com/gin-gonic/gin"

	"github.com/Xushengqwer/community_service/myErrors"
)

// callerID 从请求上下文取出网关透传的调用方身份 (openid)。
// 取不到时直接写出 401 响应并返回 false。
func callerID(c *gin.Context) (string, bool) {
	userIDValue, exists := c.Get(string(constants.UserIDKey))
	if !exists {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取用户信息 (Context Key Not Found)")
		return "", false
	}
	userID, ok := userIDValue.(string)
	if !ok || userID == "" {
		response.RespondError(c, http.StatusUnauthorized, response.ErrCodeClientUnauthorized, "无法获取有效的用户 ID (Invalid UserID in Context)")
		return "", false
	}
	return userID, true
}

// respondServiceError 把服务层的错误分类映射为 HTTP 响应。
// 参数错误 400、未找到 404、越权 403、重复记录 409，其余一律 500。
func respondServiceError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, myErrors.ErrInvalidArgument),
		errors.Is(err, myErrors.ErrCommentsDisabled),
		errors.Is(err, myErrors.ErrSelfFollow):
		response.RespondError(c, http.StatusBadRequest, response.ErrCodeClientInvalidInput, err.Error())
	case errors.Is(err, commonerrors.ErrRepoNotFound):
		response.RespondError(c, http.StatusNotFound, response.ErrCodeClientResourceNotFound, fallbackMsg+": 资源不存在")
	case errors.Is(err, myErrors.ErrPermissionDenied):
		response.RespondError(c, http.StatusForbidden, response.ErrCodeClientUnauthorized, "无权执行该操作")
	case errors.Is(err, myErrors.ErrAlreadyExists):
		response.RespondError(c, http.StatusConflict, response.ErrCodeClientInvalidInput, err.Error())
	default:
		response.RespondError(c, http.StatusInternalServerError, response.ErrCodeServerInternal, fallbackMsg+": "+err.Error())
	}
}
