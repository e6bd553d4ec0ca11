package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/DiDinar5/DutchAuction/internal/auth"
)

func TestAccessLog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)

	r := gin.New()
	r.Use(AccessLog(zap.New(core)))
	api := r.Group("/api/v1", auth.Middleware(auth.JWT{}, true))
	api.GET("/auctions", func(c *gin.Context) { c.Status(http.StatusOK) })
	api.POST("/auctions/:id/buy", func(c *gin.Context) { c.Status(http.StatusPaymentRequired) })
	api.POST("/auctions", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		method string
		path   string
		level  zapcore.Level
	}{
		{http.MethodGet, "/api/v1/auctions", zapcore.DebugLevel},
		{http.MethodPost, "/api/v1/auctions/3/buy", zapcore.WarnLevel},
		{http.MethodPost, "/api/v1/auctions", zapcore.InfoLevel},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		req.Header.Set(auth.AccountHeader, "bob")
		req.Header.Set(RequestIDHeader, "req-1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, "req-1", w.Header().Get(RequestIDHeader))
	}

	entries := logs.All()
	require.Len(t, entries, len(cases))
	for i, tc := range cases {
		require.Equal(t, tc.level, entries[i].Level, tc.path)
		fields := entries[i].ContextMap()
		require.Equal(t, "req-1", fields["request_id"])
		require.Equal(t, "bob", fields["account"])
	}
	require.Equal(t, "/api/v1/auctions/:id/buy", entries[1].ContextMap()["route"])

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NotEmpty(t, w.Header().Get(RequestIDHeader))
	require.Len(t, logs.All(), len(cases), "non-api paths are not logged")
}
