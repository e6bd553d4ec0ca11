package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# Dutch Auction Service

Descending-price auctions with atomic settlement.

## Auth

All /api/v1/* routes need "Authorization: Bearer <jwt>" whose subject is the
calling account. Mint one with "auctionctl token mint -secret <s> -account <id>".
With auth.disabled the account is read from the X-Account-ID header instead.
Health endpoints are public.

## Pricing

price = max(0, starting_price - discount_rate * elapsed_units)

A buy must pay at least the current price before ends_at. The seller receives
price minus the platform fee, the fee account keeps the fee, and any overpayment
is refunded to the buyer in the same atomic step.

## Routes

- GET /healthz
- GET /readyz
- GET /swagger/index.html
- POST /api/v1/auctions
- GET /api/v1/auctions
- GET /api/v1/auctions/{id}
- GET /api/v1/auctions/{id}/price
- POST /api/v1/auctions/{id}/buy
- GET /api/v1/auctions/{id}/settlement (db ledger)
- GET /api/v1/settlements (db ledger)
- GET /api/v1/events (db ledger)
- GET /api/v1/accounts/{id}
- GET /api/v1/accounts/{id}/entries (db ledger)
- POST /api/v1/accounts/{id}/deposit (faucet)
- PUT /api/v1/accounts/{id}/accepts-funds
- GET /api/v1/stream (websocket)
- GET /api/v1/system/notify-stats
`)
	})
}
