package router

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/dailystatus/internal/config"
	"github.com/dailystatus/internal/handler"
	"github.com/dailystatus/internal/middleware"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(cfg config.ServerConfig, gdb *gorm.DB, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
		middleware.CORS(cfg.CORS.AllowOrigins),
		middleware.BodyLimit(cfg.BodyLimit),
	)

	api := handler.NewAPI(gdb, logger)

	r.GET("/healthz", api.HealthCheck)
	r.GET("/employee-by-id/:id", api.GetEmployeeByID)
	r.POST("/submit-status", api.SubmitStatus)
	r.GET("/export/daily-status", api.ExportDailyStatus)

	// 前端构建产物：存在的文件直接返回，其余 GET 回落到 index.html
	r.NoRoute(staticFallback(cfg.StaticDir))

	return r
}

func staticFallback(dir string) gin.HandlerFunc {
	root := strings.TrimSpace(dir)
	return func(c *gin.Context) {
		if root == "" || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		// Clean 以 "/" 开头的路径，确保结果不会跳出 root
		name := filepath.Join(root, filepath.FromSlash(filepath.Clean("/"+c.Request.URL.Path)))
		if info, err := os.Stat(name); err == nil && !info.IsDir() {
			c.File(name)
			return
		}

		index := filepath.Join(root, "index.html")
		if _, err := os.Stat(index); err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.File(index)
	}
}
