package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/DiDinar5/DutchAuction/internal/auction"
	"github.com/DiDinar5/DutchAuction/internal/auth"
	"github.com/DiDinar5/DutchAuction/internal/ledger"
)

type apiResponse struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    any            `json:"data,omitempty"`
	Meta    map[string]any `json:"meta,omitempty"`
}

func Ok(c *gin.Context, data any, meta map[string]any) {
	c.JSON(http.StatusOK, apiResponse{
		Code:    0,
		Message: "ok",
		Data:    data,
		Meta:    meta,
	})
}

func Error(c *gin.Context, status int, message string, meta map[string]any) {
	c.JSON(status, apiResponse{
		Code:    status,
		Message: message,
		Meta:    meta,
	})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, auction.ErrInvalidArgument),
		errors.Is(err, auction.ErrInvalidDiscount),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidAccount):
		return http.StatusBadRequest
	case errors.Is(err, auction.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, auction.ErrAuctionStopped):
		return http.StatusConflict
	case errors.Is(err, auction.ErrAuctionExpired):
		return http.StatusGone
	case errors.Is(err, auction.ErrInsufficientPayment):
		return http.StatusPaymentRequired
	case errors.Is(err, auction.ErrTransferFailed):
		return http.StatusFailedDependency
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	Error(c, statusFor(err), err.Error(), nil)
}

func callerAccount(c *gin.Context) (string, bool) {
	account, ok := auth.AccountFromGin(c)
	if !ok {
		Error(c, http.StatusUnauthorized, "unauthenticated", nil)
		return "", false
	}
	return account, true
}

func intQuery(c *gin.Context, key string, def int) int {
	if val := c.Query(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

func strQueryPtr(c *gin.Context, key string) *string {
	if val := strings.TrimSpace(c.Query(key)); val != "" {
		return &val
	}
	return nil
}

func idParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid auction id", nil)
		return 0, false
	}
	return id, true
}

func clampLimit(limit, def int) int {
	if limit <= 0 {
		return def
	}
	if limit > 500 {
		return 500
	}
	return limit
}
