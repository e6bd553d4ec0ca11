package logger

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/DiDinar5/DutchAuction/internal/auth"
)

const RequestIDHeader = "X-Request-ID"

// AccessLog logs every /api request once it completes. Writes are logged at info
// or above, reads at debug unless they failed. The request id from the caller is
// echoed back, or generated when missing.
func AccessLog(l *zap.Logger) gin.HandlerFunc {
	if l == nil {
		l = zap.NewNop()
	}
	l = l.Named("http")
	return func(c *gin.Context) {
		reqID := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(RequestIDHeader, reqID)

		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		if !strings.HasPrefix(path, "/api/") {
			return
		}
		status := c.Writer.Status()
		lvl := levelFor(c.Request.Method, status)
		ce := l.Check(lvl, "request")
		if ce == nil {
			return
		}
		fields := []zap.Field{
			zap.String("request_id", reqID),
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		}
		if account, ok := auth.AccountFromGin(c); ok {
			fields = append(fields, zap.String("account", account))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		ce.Write(fields...)
	}
}

func levelFor(method string, status int) zapcore.Level {
	switch {
	case status >= 500:
		return zapcore.ErrorLevel
	case status >= 400:
		return zapcore.WarnLevel
	case method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}
