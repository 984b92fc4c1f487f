package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"membership-hub/internal/core/auth"
	"membership-hub/internal/core/cache"
	"membership-hub/internal/core/server"
	mdw "membership-hub/internal/transport/http/middleware"
)

func NewAPIEngine(l *zap.Logger, db *gorm.DB, jwter *auth.JWTer, cc *cache.Cache) *gin.Engine {
	// 基础引擎自带 zap 访问日志/恢复 + CORS（公开站点要吃浏览器跨域请求）
	r := server.NewRouter(l)

	r.Use(
		mdw.RequestID(),
		mdw.RateLimit(200, 400),
		mdw.ConcurrencyLimit(300),
		mdw.MaxBodyBytes(16<<20),
		mdw.Timeout(10*time.Second),
		mdw.Metrics(),
	)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })

	// 前缀
	api := r.Group("/api/v1")

	// 统一注册器
	MountAllAPI(api)

	// 鉴权分组（/me、/applications 必须挂这里，才能拿到 userId）
	authUser := api.Group("")
	authUser.Use(mdw.AuthJWT(jwter, ""))

	// /auth/login（公共）+ /me + /applications（鉴权）
	mountAuthActions(api, authUser, db, jwter)

	// 公开会员名录（redis 缓存）
	mountDirectoryActions(api, db, cc)

	return r
}
