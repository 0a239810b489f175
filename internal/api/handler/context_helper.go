package handler

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"quds-portal/backend/internal/api/middleware"
	"quds-portal/backend/pkg/response"
	"quds-portal/backend/pkg/validate"
)

// MustGetUserID 从 Gin 上下文中提取会话 user_id。
// 未注入时写入 401 并返回 false，调用方应直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	uid := c.GetString(middleware.CtxUserID)
	if uid == "" {
		response.Unauthorized(c, response.CodeUnauthenticated, "请先登录")
		return "", false
	}
	return uid, true
}

// MustGetRole 从 Gin 上下文中提取会话 role。
func MustGetRole(c *gin.Context) (string, bool) {
	role := c.GetString(middleware.CtxRole)
	if role == "" {
		response.Unauthorized(c, response.CodeUnauthenticated, "请先登录")
		return "", false
	}
	return role, true
}

// tokenIdentity 当前会话 Token 的 jti 与过期时间（登出吊销用）
func tokenIdentity(c *gin.Context) (string, time.Time) {
	return c.GetString(middleware.CtxTokenJTI), c.GetTime(middleware.CtxTokenExp)
}

// badBinding 统一处理请求绑定失败：请求体超限返回 413，其余返回 400 + 字段详情
func badBinding(c *gin.Context, err error) {
	if middleware.IsBodyTooLarge(err) {
		middleware.AbortBodyTooLarge(c)
		return
	}
	response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeBadParam, "参数校验失败", validate.FieldErrors(err))
}

// attachment 下载响应头；filename 按 RFC 5987 编码
func attachment(c *gin.Context, filename, contentType string, body []byte) {
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
	c.Data(http.StatusOK, contentType, body)
}
