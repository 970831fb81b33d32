package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"examspace/config"
	"examspace/internal/api/handler"
	"examspace/internal/api/middleware"
	"examspace/internal/model"
	"examspace/pkg/jwt"
	"examspace/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 机房模块
			rooms := authorized.Group("/rooms")
			{
				rooms.GET("", h.Room.List)
				rooms.GET("/:id", h.Room.Get)
				rooms.PUT("/:id/working-hours", middleware.RoleAuth(model.RoleAdmin), h.Room.UpdateWorkingHours)
				rooms.POST("/exceptions", middleware.RoleAuth(model.RoleAdmin), h.Room.CreateExceptions)
				rooms.DELETE("/:id/exceptions/:eid", middleware.RoleAuth(model.RoleAdmin), h.Room.DeleteException)
			}
			authorized.GET("/accessibility", h.Room.ListAccessibilities)

			// 槽位查询与本机构预约
			calendars := authorized.Group("/calendar")
			{
				calendars.GET("/:eid/rooms/:rid/slots", h.Calendar.ListSlots)
				calendars.POST("/reservations", h.Calendar.Reserve)
			}

			// 跨机构互通
			iop := authorized.Group("/iop")
			{
				iop.GET("/organisations", h.IOP.ListOrganisations)
				iop.GET("/calendar/:eid/:org/:roomRef/slots", h.IOP.ListSlots)
				iop.POST("/reservations", h.IOP.Reserve)
			}

			// 我的预约
			reservations := authorized.Group("/reservations")
			{
				reservations.GET("/me", h.Reservation.ListMine)
				reservations.GET("/me/ical", h.Reservation.ExportICS)
			}

			// 设置
			authorized.GET("/settings/reservation-window", h.Settings.ReservationWindow)
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
