package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/DiDinar5/DutchAuction/internal/ledger"
	"github.com/DiDinar5/DutchAuction/internal/repository"
)

type AccountHandler struct {
	Ledger ledger.Ledger
	// Entries is set with the db backend and enables the entries listing.
	Entries       repository.LedgerRepository
	FaucetEnabled bool
}

func (h *AccountHandler) Register(g *gin.RouterGroup) {
	group := g.Group("/accounts")
	group.GET("/:id", h.balance)
	group.GET("/:id/entries", h.entries)
	group.POST("/:id/deposit", h.deposit)
	group.PUT("/:id/accepts-funds", h.acceptsFunds)
}

type accountResponse struct {
	Account string          `json:"account"`
	Balance decimal.Decimal `json:"balance"`
}

type depositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type acceptsFundsRequest struct {
	Accepts bool `json:"accepts"`
}

// accountParam resolves ":id", where "me" stands for the caller.
func accountParam(c *gin.Context) (string, bool) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "me" {
		return callerAccount(c)
	}
	if id == "" {
		Error(c, http.StatusBadRequest, "account id required", nil)
		return "", false
	}
	return id, true
}

// @Summary Account balance
// @Tags accounts
// @Produce json
// @Param id path string true "account id or me"
// @Success 200 {object} accountResponse
// @Router /api/v1/accounts/{id} [get]
func (h *AccountHandler) balance(c *gin.Context) {
	if h.Ledger == nil {
		Error(c, http.StatusInternalServerError, "ledger unavailable", nil)
		return
	}
	account, ok := accountParam(c)
	if !ok {
		return
	}
	bal, err := h.Ledger.Balance(c.Request.Context(), account)
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, accountResponse{Account: account, Balance: bal}, nil)
}

// @Summary Account ledger entries
// @Tags accounts
// @Produce json
// @Param id path string true "account id or me"
// @Param batch_id query string false "batch id"
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {array} models.LedgerEntry
// @Failure 501 {object} map[string]any
// @Router /api/v1/accounts/{id}/entries [get]
func (h *AccountHandler) entries(c *gin.Context) {
	if h.Entries == nil {
		Error(c, http.StatusNotImplemented, "ledger entries need the db backend", nil)
		return
	}
	account, ok := accountParam(c)
	if !ok {
		return
	}
	params := repository.ListLedgerEntriesParams{
		Limit:   intQuery(c, "limit", 50),
		Offset:  intQuery(c, "offset", 0),
		Account: &account,
		BatchID: strQueryPtr(c, "batch_id"),
	}
	items, err := h.Entries.ListLedgerEntries(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, map[string]any{
		"limit":  params.Limit,
		"offset": params.Offset,
	})
}

// @Summary Faucet deposit
// @Description Credits funds out of thin air. Disabled unless ledger.faucet_enabled is set.
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "account id or me"
// @Param body body depositRequest true "amount"
// @Success 200 {object} accountResponse
// @Failure 403 {object} map[string]any
// @Router /api/v1/accounts/{id}/deposit [post]
func (h *AccountHandler) deposit(c *gin.Context) {
	if !h.FaucetEnabled {
		Error(c, http.StatusForbidden, "faucet disabled", nil)
		return
	}
	if h.Ledger == nil {
		Error(c, http.StatusInternalServerError, "ledger unavailable", nil)
		return
	}
	account, ok := accountParam(c)
	if !ok {
		return
	}
	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	ctx := c.Request.Context()
	if err := h.Ledger.Deposit(ctx, account, req.Amount); err != nil {
		fail(c, err)
		return
	}
	bal, err := h.Ledger.Balance(ctx, account)
	if err != nil {
		fail(c, err)
		return
	}
	Ok(c, accountResponse{Account: account, Balance: bal}, nil)
}

// @Summary Toggle whether the caller accepts incoming funds
// @Tags accounts
// @Accept json
// @Produce json
// @Param id path string true "must be the caller or me"
// @Param body body acceptsFundsRequest true "flag"
// @Success 200 {object} map[string]any
// @Failure 403 {object} map[string]any
// @Router /api/v1/accounts/{id}/accepts-funds [put]
func (h *AccountHandler) acceptsFunds(c *gin.Context) {
	if h.Ledger == nil {
		Error(c, http.StatusInternalServerError, "ledger unavailable", nil)
		return
	}
	caller, ok := callerAccount(c)
	if !ok {
		return
	}
	account, ok := accountParam(c)
	if !ok {
		return
	}
	if account != caller {
		Error(c, http.StatusForbidden, "can only change own account", nil)
		return
	}
	var req acceptsFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if err := h.Ledger.SetAcceptsFunds(c.Request.Context(), account, req.Accepts); err != nil {
		fail(c, err)
		return
	}
	Ok(c, gin.H{"account": account, "accepts": req.Accepts}, nil)
}
