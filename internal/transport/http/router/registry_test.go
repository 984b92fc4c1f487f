package router_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"membership-hub/internal/transport/http/router"
)

// 注册表模块在包加载时自注册，挂载后 /version 要在两个前缀下都可达
func TestRegistryMountsMetaModule(t *testing.T) {
	gin.SetMode(gin.TestMode)

	g := gin.New()
	router.MountAllAPI(g.Group("/api/v1"))
	router.MountAllAdmin(g.Group("/admin/v1"))

	for _, target := range []string{"/api/v1/version", "/admin/v1/version"} {
		r := httptest.NewRecorder()
		g.ServeHTTP(r, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusOK, r.Code, target)

		var env struct {
			Code int `json:"code"`
			Data struct {
				Version string `json:"version"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(r.Body.Bytes(), &env))
		require.Equal(t, 0, env.Code, target)
		require.Equal(t, "dev", env.Data.Version, target)
	}
}
