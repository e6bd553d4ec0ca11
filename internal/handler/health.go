package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DiDinar5/DutchAuction/internal/auction"
)

type HealthHandler struct {
	// DB is nil when the service runs on the in-memory ledger.
	DB       *gorm.DB
	Registry *auction.Registry
}

func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.health)
	r.GET("/readyz", h.ready)
}

// @Summary Health check
// @Tags health
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *HealthHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Readiness check
// @Description Reports the ledger backend and, when wired, the registry size.
// @Tags health
// @Success 200 {object} map[string]any
// @Failure 503 {object} map[string]any
// @Router /readyz [get]
func (h *HealthHandler) ready(c *gin.Context) {
	out := gin.H{"status": "ready", "ledger": "memory"}
	if h.Registry != nil {
		out["auctions"] = h.Registry.Len()
		out["pending_expiry"] = h.Registry.Pending()
	}
	if h.DB == nil {
		c.JSON(http.StatusOK, out)
		return
	}
	out["ledger"] = "db"
	if status := pingDB(c.Request.Context(), h.DB); status != "" {
		out["status"] = status
		c.JSON(http.StatusServiceUnavailable, out)
		return
	}
	c.JSON(http.StatusOK, out)
}

// pingDB returns an empty string when the database answers within two seconds.
func pingDB(ctx context.Context, db *gorm.DB) string {
	sqlDB, err := db.DB()
	if err != nil {
		return "db_error"
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return "db_unreachable"
	}
	return ""
}
