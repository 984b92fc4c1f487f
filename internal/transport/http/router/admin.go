// internal/transport/http/router/admin.go
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"membership-hub/internal/core/auth"
	"membership-hub/internal/core/server"
	mdw "membership-hub/internal/transport/http/middleware"
)

func NewAdminEngine(l *zap.Logger, db *gorm.DB, jwter *auth.JWTer, subscriptionMonths int) *gin.Engine {
	// 管理后台也是浏览器前端，沿用同一个带 CORS 的基础引擎
	r := server.NewRouter(l)

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(30*time.Second), // 批量导入比普通请求慢，放宽一点
		mdw.Metrics(),
	)

	// 健康检查 + 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 管理端 v1（统一要求 admin 角色）
	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(jwter, "admin"))

	// ① 注册表模块（version 等运维端点）
	MountAllAdmin(admin)

	// ② 会员管理 + 批量导入 + 审计流水
	MountMemberActions(admin, db, l, subscriptionMonths)

	return r
}
