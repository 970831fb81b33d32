package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"examspace/internal/calendar"
	"examspace/internal/service"
	"examspace/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}

// MustGetTokenInfo 提取登出所需的 JWT ID 与过期时刻
func MustGetTokenInfo(c *gin.Context) (string, time.Time, bool) {
	jti, ok := c.Get("jwt_id")
	if !ok {
		response.Unauthorized(c, 10002, "未认证")
		return "", time.Time{}, false
	}
	expires, ok := c.Get("jwt_expires")
	if !ok {
		response.Unauthorized(c, 10002, "未认证")
		return "", time.Time{}, false
	}
	jtiStr, ok1 := jti.(string)
	expiresAt, ok2 := expires.(time.Time)
	if !ok1 || !ok2 {
		response.Unauthorized(c, 10002, "未认证")
		return "", time.Time{}, false
	}
	return jtiStr, expiresAt, true
}

// writeServiceError 业务错误到 HTTP 响应的统一映射
// 校验失败 400(10001)，例外冲突 409(13001) 并携带冲突列表，
// 预约竞争失败 409(14001)，对端错误 502(14002)
func writeServiceError(c *gin.Context, err error) {
	var verr *calendar.ValidationError
	var overlapErr *calendar.OverlapError
	var upstreamErr *service.UpstreamError

	switch {
	case errors.As(err, &verr):
		response.BadRequest(c, 10001, verr.Message)
	case errors.As(err, &overlapErr):
		response.ErrorWithDetails(c, 409, 13001, "与既有例外时段冲突", overlapErr.Conflicting)
	case errors.Is(err, service.ErrReservationConflict):
		response.Conflict(c, 14001, err.Error())
	case errors.As(err, &upstreamErr):
		response.BadGateway(c, 14002, "对端机构请求失败")
	case errors.Is(err, service.ErrIOPDisabled):
		response.Error(c, 503, 14005, "跨机构互通未启用")
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 13002, "机房不存在")
	case errors.Is(err, service.ErrExceptionNotFound):
		response.NotFound(c, 13003, "例外时段不存在")
	case errors.Is(err, service.ErrExamNotFound):
		response.NotFound(c, 14003, "考试不存在")
	case errors.Is(err, service.ErrEnrolmentNotFound):
		response.NotFound(c, 14004, "未报名该考试")
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, 11002, "用户不存在")
	default:
		response.InternalError(c)
	}
}
