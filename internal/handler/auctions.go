package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/DiDinar5/DutchAuction/internal/auction"
)

type AuctionHandler struct {
	Registry *auction.Registry
}

func (h *AuctionHandler) Register(g *gin.RouterGroup) {
	group := g.Group("/auctions")
	group.POST("", h.create)
	group.GET("", h.list)
	group.GET("/:id", h.get)
	group.GET("/:id/price", h.price)
	group.POST("/:id/buy", h.buy)
}

type createAuctionRequest struct {
	StartingPrice decimal.Decimal `json:"starting_price"`
	DiscountRate  decimal.Decimal `json:"discount_rate"`
	Item          string          `json:"item"`
	Duration      int64           `json:"duration"`
}

type buyRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// @Summary Create auction
// @Description The caller becomes the seller. Duration is counted in the configured time unit.
// @Tags auctions
// @Accept json
// @Produce json
// @Param body body createAuctionRequest true "listing"
// @Success 200 {object} auction.Snapshot
// @Failure 400 {object} map[string]any
// @Router /api/v1/auctions [post]
func (h *AuctionHandler) create(c *gin.Context) {
	if h.Registry == nil {
		Error(c, http.StatusInternalServerError, "registry unavailable", nil)
		return
	}
	seller, ok := callerAccount(c)
	if !ok {
		return
	}
	var req createAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	snap, err := h.Registry.Create(c.Request.Context(), seller, auction.CreateParams{
		StartingPrice: req.StartingPrice,
		DiscountRate:  req.DiscountRate,
		Item:          req.Item,
		Duration:      req.Duration,
	})
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, snap, nil)
}

// @Summary List auctions
// @Tags auctions
// @Produce json
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {array} auction.Snapshot
// @Router /api/v1/auctions [get]
func (h *AuctionHandler) list(c *gin.Context) {
	if h.Registry == nil {
		Error(c, http.StatusInternalServerError, "registry unavailable", nil)
		return
	}
	limit := clampLimit(intQuery(c, "limit", 50), 50)
	offset := intQuery(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	items := h.Registry.List(offset, limit)
	Ok(c, items, map[string]any{
		"limit":  limit,
		"offset": offset,
		"total":  h.Registry.Len(),
	})
}

// @Summary Get auction
// @Tags auctions
// @Produce json
// @Param id path int true "auction id"
// @Success 200 {object} auction.Snapshot
// @Failure 404 {object} map[string]any
// @Router /api/v1/auctions/{id} [get]
func (h *AuctionHandler) get(c *gin.Context) {
	if h.Registry == nil {
		Error(c, http.StatusInternalServerError, "registry unavailable", nil)
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	snap, err := h.Registry.Get(id)
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, snap, nil)
}

// @Summary Current price
// @Description The live price keeps decaying after a sale; a bought auction reports its final price in the snapshot.
// @Tags auctions
// @Produce json
// @Param id path int true "auction id"
// @Success 200 {object} auction.Quote
// @Failure 404 {object} map[string]any
// @Router /api/v1/auctions/{id}/price [get]
func (h *AuctionHandler) price(c *gin.Context) {
	if h.Registry == nil {
		Error(c, http.StatusInternalServerError, "registry unavailable", nil)
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	q, err := h.Registry.Quote(id)
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, q, nil)
}

// @Summary Buy auction
// @Description Pays amount from the caller's account. Overpayment is refunded.
// @Tags auctions
// @Accept json
// @Produce json
// @Param id path int true "auction id"
// @Param body body buyRequest true "payment"
// @Success 200 {object} auction.Receipt
// @Failure 402 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Failure 410 {object} map[string]any
// @Failure 424 {object} map[string]any
// @Router /api/v1/auctions/{id}/buy [post]
func (h *AuctionHandler) buy(c *gin.Context) {
	if h.Registry == nil {
		Error(c, http.StatusInternalServerError, "registry unavailable", nil)
		return
	}
	buyer, ok := callerAccount(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req buyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	rc, err := h.Registry.Buy(c.Request.Context(), id, buyer, req.Amount)
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, rc, nil)
}
