package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dailystatus/internal/form"
	"github.com/dailystatus/internal/middleware"
)

// requestLogger 附带当前请求追踪 ID 的日志实例
func (a *API) requestLogger(c *gin.Context) *zap.Logger {
	if id := middleware.GetRequestID(c); id != "" {
		return a.logger.With(zap.String("request_id", id))
	}
	return a.logger
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.Error(err)
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

// parseDateQuery 解析 YYYY-MM-DD 查询参数，缺省返回零值
func parseDateQuery(c *gin.Context, key string) (time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(form.DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s", key)
	}
	return t, nil
}
