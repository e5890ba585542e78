package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDKey gin.Context 中保存追踪 ID 的键
	RequestIDKey = "request_id"
	// RequestIDHeader 请求与响应中携带追踪 ID 的头
	RequestIDHeader = "X-Request-ID"
)

const maxTraceIDLen = 64

// RequestID 为每个请求分配追踪 ID：沿用上游传入的合法 ID，否则生成 UUID。
func RequestID() gin.HandlerFunc {
	return RequestIDWithGenerator(uuid.NewString)
}

// RequestIDWithGenerator 与 RequestID 相同，但由 generate 生成新的 ID
func RequestIDWithGenerator(generate func() string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if !isTraceID(id) {
			id = generate()
		}
		c.Set(RequestIDKey, id)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// isTraceID 只接受 1-64 位的字母、数字与 - _ . : 字符，
// 上游 ID 会原样写入日志与响应头
func isTraceID(id string) bool {
	if id == "" || len(id) > maxTraceIDLen {
		return false
	}
	for i := 0; i < len(id); i++ {
		switch ch := id[i]; {
		case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		case ch == '-' || ch == '_' || ch == '.' || ch == ':':
		default:
			return false
		}
	}
	return true
}

// GetRequestID 返回当前请求的追踪 ID，未经过 RequestID 中间件时为空
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
