package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"quds-portal/backend/config"
	"quds-portal/backend/internal/api/handler"
	"quds-portal/backend/internal/api/middleware"
	"quds-portal/backend/internal/model"
	"quds-portal/backend/pkg/jwt"
	"quds-portal/backend/pkg/redis"
	"quds-portal/backend/pkg/validate"
)

// maxBodyBytes 分房文档上限 64KB，留出 JSON 包装余量
const maxBodyBytes = 256 << 10

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时：不检查 Token 黑名单、不限流
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := validate.Register(v); err != nil {
			return nil, fmt.Errorf("注册校验规则失败: %w", err)
		}
	}

	// 避免把 nil 指针装进接口
	var (
		revocations middleware.Revocations
		limiter     middleware.Limiter
	)
	if rdb != nil {
		revocations = rdb
		limiter = rdb
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 / 指标 ──
	r.GET("/health", healthHandler(db, rdb))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	admin := middleware.RoleAuth(model.RoleAdmin)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 登录（无需认证，按 IP 限流）
		v1.POST("/auth/login",
			middleware.RateLimit(limiter, cfg.Auth.LoginRateLimit, time.Minute, logger),
			h.Auth.Login,
		)

		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, revocations, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 月间日程
			schedule := authorized.Group("/schedule")
			{
				schedule.GET("/month", h.Schedule.Month)
				schedule.GET("/month.ics", h.Schedule.ExportICS)
				schedule.GET("/days/:date", h.Schedule.GetDay)
				schedule.PUT("/days/:date", admin, h.Schedule.UpsertDay)
			}

			// 出席登记
			attendance := authorized.Group("/attendance")
			{
				attendance.GET("/slots", h.Attendance.Slots)
				attendance.GET("/me", h.Attendance.Mine)
				attendance.PUT("/me", h.Attendance.Submit)
			}

			// 分房（公开读取）
			allocations := authorized.Group("/allocations")
			{
				allocations.GET("/current", h.Allocation.Current)
				allocations.GET("/:week_id", h.Allocation.ByWeek)
			}

			// 管理员
			adm := authorized.Group("/admin", admin)
			{
				adm.GET("/roster", h.Attendance.Roster)
				adm.GET("/roster/export", h.Attendance.ExportRoster)
				adm.POST("/allocations/template", h.Allocation.Template)
				adm.GET("/allocations/draft", h.Allocation.Draft)
				adm.PUT("/allocations/current", h.Allocation.Publish)
			}
		}
	}

	return r, nil
}

// healthHandler 数据库不可达时返回 503；Redis 仅报告状态
func healthHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"status": "ok", "db": "ok", "redis": "disabled"}
		code := http.StatusOK

		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			status["status"], status["db"] = "degraded", "unreachable"
			code = http.StatusServiceUnavailable
		}
		if rdb != nil {
			status["redis"] = "ok"
			if err := rdb.Ping(ctx); err != nil {
				status["redis"] = "unreachable"
			}
		}

		c.JSON(code, status)
	}
}
