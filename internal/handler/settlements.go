package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DiDinar5/DutchAuction/internal/repository"
)

// SettlementHandler serves the persisted settlement and event history. It is only
// registered with the db ledger backend.
type SettlementHandler struct {
	Repo repository.Repository
}

func (h *SettlementHandler) Register(g *gin.RouterGroup) {
	g.GET("/settlements", h.list)
	g.GET("/auctions/:id/settlement", h.byAuction)
	g.GET("/events", h.events)
}

// @Summary List settlements
// @Tags settlements
// @Produce json
// @Param seller query string false "seller account"
// @Param buyer query string false "buyer account"
// @Param since query string false "RFC3339 lower bound on settled_at"
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {array} models.Settlement
// @Router /api/v1/settlements [get]
func (h *SettlementHandler) list(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	params := repository.ListSettlementsParams{
		Limit:  intQuery(c, "limit", 50),
		Offset: intQuery(c, "offset", 0),
		Seller: strQueryPtr(c, "seller"),
		Buyer:  strQueryPtr(c, "buyer"),
	}
	if v := strings.TrimSpace(c.Query("since")); v != "" {
		ts, err := time.Parse(time.RFC3339, v)
		if err != nil {
			Error(c, http.StatusBadRequest, "since must be RFC3339", nil)
			return
		}
		ts = ts.UTC()
		params.Since = &ts
	}
	items, err := h.Repo.ListSettlements(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{
		"limit":  params.Limit,
		"offset": params.Offset,
	})
}

// @Summary Settlement of one auction
// @Tags settlements
// @Produce json
// @Param id path int true "auction id"
// @Success 200 {object} models.Settlement
// @Failure 404 {object} map[string]any
// @Router /api/v1/auctions/{id}/settlement [get]
func (h *SettlementHandler) byAuction(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	item, err := h.Repo.GetSettlementByAuctionID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if item == nil {
		Error(c, http.StatusNotFound, "settlement not found", nil)
		return
	}
	Ok(c, item, nil)
}

// @Summary List emitted auction events
// @Tags events
// @Produce json
// @Param auction_id query int false "auction id"
// @Param type query string false "auction_created|auction_ended|auction_lapsed"
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {array} models.AuctionEvent
// @Router /api/v1/events [get]
func (h *SettlementHandler) events(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	params := repository.ListAuctionEventsParams{
		Limit:  intQuery(c, "limit", 50),
		Offset: intQuery(c, "offset", 0),
		Type:   strQueryPtr(c, "type"),
	}
	if v := strings.TrimSpace(c.Query("auction_id")); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			Error(c, http.StatusBadRequest, "invalid auction_id", nil)
			return
		}
		params.AuctionID = &id
	}
	items, err := h.Repo.ListAuctionEvents(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{
		"limit":  params.Limit,
		"offset": params.Offset,
	})
}
