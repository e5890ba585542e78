package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// healthTimeout 单次健康检查访问数据库的最长时间
const healthTimeout = 2 * time.Second

// HealthCheck 报告数据库连通性与员工目录规模。
// 目录为空时仍返回 200，但自动填充不会命中任何员工。
func (a *API) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	driver := a.db.Dialector.Name()
	unavailable := func(stage string, err error) {
		a.requestLogger(c).Warn("health check failed",
			zap.String("stage", stage),
			zap.String("driver", driver),
			zap.Error(err),
		)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "driver": driver, "stage": stage})
	}

	sqlDB, err := a.db.DB()
	if err != nil {
		unavailable("handle", err)
		return
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		unavailable("ping", err)
		return
	}

	employees, err := a.employees.Count(ctx)
	if err != nil {
		unavailable("directory", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "driver": driver, "employees": employees})
}
