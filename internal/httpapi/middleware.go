package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/fieldreport/internal/ctxutil"
)

const requestIDMaxLen = 64

// RequestID reads X-Request-ID (or generates one), echoes it back and stores
// it in the request context for service logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader("X-Request-ID")
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = ctxutil.NewRequestID()
		}

		c.Header("X-Request-ID", rid)
		ctx := ctxutil.WithActor(ctxutil.WithRequestID(c.Request.Context(), rid), "http:"+c.ClientIP())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// Logger logs every request with zap once it completes.
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := append(ctxutil.Fields(c.Request.Context()),
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", time.Since(start)),
		)
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.ByType(gin.ErrorTypePrivate).String()))
		}

		switch {
		case status >= 500:
			logger.Error("request failed", fields...)
		case status >= 400:
			logger.Warn("client error", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}
