package router

import (
	"net/http"
	"runtime"

	"github.com/gin-gonic/gin"

	resp "membership-hub/internal/transport/http/response"
)

// Version 构建期用 -ldflags "-X ...router.Version=v1.2.3" 注入
var Version = "dev"

// metaModule 无依赖的运维端点，走模块注册表挂到两个引擎上
type metaModule struct{}

func (metaModule) MountAPI(g *gin.RouterGroup)   { g.GET("/version", versionHandler) }
func (metaModule) MountAdmin(g *gin.RouterGroup) { g.GET("/version", versionHandler) }
func (metaModule) Priority() int                 { return 0 }

func versionHandler(c *gin.Context) {
	c.JSON(http.StatusOK, resp.OK(gin.H{
		"version": Version,
		"go":      runtime.Version(),
	}))
}

func init() { Register(metaModule{}) }
