package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"quds-portal/backend/internal/model"
	"quds-portal/backend/pkg/jwt"
	"quds-portal/backend/pkg/response"
)

// 注入 gin.Context 的会话字段
const (
	CtxUserID   = "user_id"
	CtxRole     = "role"
	CtxTokenJTI = "token_jti"
	CtxTokenExp = "token_exp"
)

// Revocations 已吊销会话查询（Redis 黑名单）
type Revocations interface {
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

// JWTAuth 会话认证中间件
// 从 Authorization: Bearer <token> 中提取并验证会话 Token；
// revocations 为 nil 时不检查黑名单
func JWTAuth(jwtMgr *jwt.Manager, revocations Revocations, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Unauthorized(c, response.CodeUnauthenticated, "请先登录")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(token)
		if err != nil {
			response.Unauthorized(c, response.CodeUnauthenticated, "会话无效或已过期")
			c.Abort()
			return
		}

		if revocations != nil && claims.ID != "" {
			revoked, err := revocations.IsBlacklisted(c.Request.Context(), claims.ID)
			if err != nil {
				// Redis 出错时放行，会话仍受过期时间约束
				logger.Warn("查询 Token 黑名单失败", zap.Error(err))
			} else if revoked {
				response.Unauthorized(c, response.CodeUnauthenticated, "会话已注销")
				c.Abort()
				return
			}
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Set(CtxTokenJTI, claims.ID)
		if claims.ExpiresAt != nil {
			c.Set(CtxTokenExp, claims.ExpiresAt.Time)
		} else {
			c.Set(CtxTokenExp, time.Time{})
		}

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RoleAuth 角色权限中间件，须挂在 JWTAuth 之后
func RoleAuth(allowed ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := model.Role(c.GetString(CtxRole))
		if role == "" {
			response.Unauthorized(c, response.CodeUnauthenticated, "请先登录")
			c.Abort()
			return
		}

		for _, r := range allowed {
			if role == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, response.CodeForbidden, "需要管理员权限")
		c.Abort()
	}
}
