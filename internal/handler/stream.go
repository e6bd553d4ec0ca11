package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/DiDinar5/DutchAuction/internal/notify"
	"github.com/DiDinar5/DutchAuction/internal/stream"
)

type StreamHandler struct {
	Hub        *stream.Hub
	Dispatcher *notify.Dispatcher
}

func (h *StreamHandler) Register(g *gin.RouterGroup) {
	if h.Hub != nil {
		g.GET("/stream", h.stream)
	}
	g.GET("/system/notify-stats", h.stats)
}

// @Summary Live auction events (websocket)
// @Description Upgrades to a websocket and pushes one JSON event per message. Filter with type=auction_ended,auction_lapsed.
// @Tags events
// @Param type query string false "comma separated event types"
// @Router /api/v1/stream [get]
func (h *StreamHandler) stream(c *gin.Context) {
	h.Hub.ServeWS(c.Writer, c.Request)
}

// @Summary Notification pipeline counters
// @Tags events
// @Produce json
// @Success 200 {object} map[string]any
// @Router /api/v1/system/notify-stats [get]
func (h *StreamHandler) stats(c *gin.Context) {
	out := gin.H{"dispatcher": h.Dispatcher.Stats()}
	if h.Hub != nil {
		out["stream_subscribers"] = h.Hub.Subscribers()
		out["stream_dropped"] = h.Hub.Dropped()
	}
	Ok(c, out, nil)
}
