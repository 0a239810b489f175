package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quds-portal/backend/pkg/response"
)

// BodyLimit 请求体大小上限；超限请求在 Handler 绑定时失败，
// 此处通过 IsBodyTooLarge 统一识别
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// IsBodyTooLarge 判断绑定错误是否由请求体超限引起
func IsBodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// AbortBodyTooLarge 写入 413 响应
func AbortBodyTooLarge(c *gin.Context) {
	response.Error(c, http.StatusRequestEntityTooLarge, response.CodeBodyTooLarge, "请求体过大")
	c.Abort()
}
