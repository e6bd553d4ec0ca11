package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/DiDinar5/DutchAuction/internal/auction"
	"github.com/DiDinar5/DutchAuction/internal/auth"
	"github.com/DiDinar5/DutchAuction/internal/ledger"
	"github.com/DiDinar5/DutchAuction/internal/notify"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type testEnv struct {
	router *gin.Engine
	clock  *testClock
	ledger *ledger.Memory
	reg    *auction.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	clock := &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	mem := ledger.NewMemory("platform")
	reg, err := auction.NewRegistry(auction.Options{
		FeePercent: 10,
		Clock:      clock,
		Transfer:   mem,
	})
	require.NoError(t, err)

	r := gin.New()
	(&HealthHandler{Registry: reg}).Register(r)
	RegisterDocs(r)
	api := r.Group("/api/v1", auth.Middleware(auth.JWT{}, true))
	(&AuctionHandler{Registry: reg}).Register(api)
	(&AccountHandler{Ledger: mem, FaucetEnabled: true}).Register(api)
	(&StreamHandler{Dispatcher: notify.NewDispatcher(4, 0, nil)}).Register(api)
	return &testEnv{router: r, clock: clock, ledger: mem, reg: reg}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
}

func (e *testEnv) do(t *testing.T, method, path, account string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if account != "" {
		req.Header.Set(auth.AccountHeader, account)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w.Code, env
}

func createBody(start, rate, duration int64) map[string]any {
	return map[string]any{
		"starting_price": start,
		"discount_rate":  rate,
		"item":           "vase",
		"duration":       duration,
	}
}

func TestHealthAndDocs(t *testing.T) {
	e := newTestEnv(t)
	code, _ := e.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, code)
	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var ready map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ready))
	require.Equal(t, "memory", ready["ledger"])
	require.EqualValues(t, 0, ready["auctions"])

	req = httptest.NewRequest(http.MethodGet, "/docs", nil)
	w = httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "/api/v1/auctions")
}

func TestCreateGetAndPrice(t *testing.T) {
	e := newTestEnv(t)
	code, env := e.do(t, http.MethodPost, "/api/v1/auctions", "alice", createBody(100, 1, 60))
	require.Equal(t, http.StatusOK, code, env.Message)
	var snap auction.Snapshot
	require.NoError(t, json.Unmarshal(env.Data, &snap))
	require.Equal(t, "alice", snap.Seller)
	require.Equal(t, uint64(0), snap.ID)

	e.clock.Advance(10 * time.Second)
	code, env = e.do(t, http.MethodGet, "/api/v1/auctions/0/price", "bob", nil)
	require.Equal(t, http.StatusOK, code)
	var q auction.Quote
	require.NoError(t, json.Unmarshal(env.Data, &q))
	require.True(t, q.Price.Equal(decimal.NewFromInt(90)), "price=%s", q.Price)

	code, _ = e.do(t, http.MethodGet, "/api/v1/auctions/0", "bob", nil)
	require.Equal(t, http.StatusOK, code)
	code, _ = e.do(t, http.MethodGet, "/api/v1/auctions/5", "bob", nil)
	require.Equal(t, http.StatusNotFound, code)
	code, _ = e.do(t, http.MethodGet, "/api/v1/auctions/abc", "bob", nil)
	require.Equal(t, http.StatusBadRequest, code)
}

func TestCreateErrors(t *testing.T) {
	e := newTestEnv(t)
	code, env := e.do(t, http.MethodPost, "/api/v1/auctions", "alice", createBody(50, 1, 60))
	require.Equal(t, http.StatusBadRequest, code)
	require.Contains(t, env.Message, "discount")

	code, _ = e.do(t, http.MethodPost, "/api/v1/auctions", "", createBody(100, 1, 60))
	require.Equal(t, http.StatusUnauthorized, code)

	code, _ = e.do(t, http.MethodPost, "/api/v1/auctions", "alice", "not an object")
	require.Equal(t, http.StatusBadRequest, code)
	require.Equal(t, 0, e.reg.Len())
}

func TestListPaging(t *testing.T) {
	e := newTestEnv(t)
	for i := 0; i < 3; i++ {
		code, _ := e.do(t, http.MethodPost, "/api/v1/auctions", "alice", createBody(100, 1, 60))
		require.Equal(t, http.StatusOK, code)
	}
	code, env := e.do(t, http.MethodGet, "/api/v1/auctions?offset=1&limit=5", "bob", nil)
	require.Equal(t, http.StatusOK, code)
	var items []auction.Snapshot
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 2)
	require.Equal(t, uint64(1), items[0].ID)
	require.EqualValues(t, 3, env.Meta["total"])
}

func TestBuyFlow(t *testing.T) {
	e := newTestEnv(t)
	code, _ := e.do(t, http.MethodPost, "/api/v1/auctions", "alice", createBody(100, 1, 60))
	require.Equal(t, http.StatusOK, code)
	e.clock.Advance(10 * time.Second)

	code, _ = e.do(t, http.MethodPost, "/api/v1/auctions/0/buy", "bob", map[string]any{"amount": 95})
	require.Equal(t, http.StatusFailedDependency, code, "bob has no funds yet")

	code, _ = e.do(t, http.MethodPost, "/api/v1/accounts/me/deposit", "bob", map[string]any{"amount": "200"})
	require.Equal(t, http.StatusOK, code)

	code, _ = e.do(t, http.MethodPost, "/api/v1/auctions/0/buy", "bob", map[string]any{"amount": 80})
	require.Equal(t, http.StatusPaymentRequired, code)

	code, env := e.do(t, http.MethodPost, "/api/v1/auctions/0/buy", "bob", map[string]any{"amount": 95})
	require.Equal(t, http.StatusOK, code, env.Message)
	var rc auction.Receipt
	require.NoError(t, json.Unmarshal(env.Data, &rc))
	require.True(t, rc.Price.Equal(decimal.NewFromInt(90)))
	require.True(t, rc.Fee.Equal(decimal.NewFromInt(9)))
	require.True(t, rc.Refund.Equal(decimal.NewFromInt(5)))

	code, _ = e.do(t, http.MethodPost, "/api/v1/auctions/0/buy", "carol", map[string]any{"amount": 95})
	require.Equal(t, http.StatusConflict, code)

	code, env = e.do(t, http.MethodGet, "/api/v1/accounts/alice", "bob", nil)
	require.Equal(t, http.StatusOK, code)
	var acct accountResponse
	require.NoError(t, json.Unmarshal(env.Data, &acct))
	require.True(t, acct.Balance.Equal(decimal.NewFromInt(81)))

	code, env = e.do(t, http.MethodGet, "/api/v1/accounts/me", "bob", nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &acct))
	require.True(t, acct.Balance.Equal(decimal.NewFromInt(110)))
}

func TestBuyExpired(t *testing.T) {
	e := newTestEnv(t)
	code, _ := e.do(t, http.MethodPost, "/api/v1/auctions", "alice", createBody(100, 1, 60))
	require.Equal(t, http.StatusOK, code)
	e.clock.Advance(time.Minute)
	code, _ = e.do(t, http.MethodPost, "/api/v1/auctions/0/buy", "bob", map[string]any{"amount": 100})
	require.Equal(t, http.StatusGone, code)
}

func TestAccounts(t *testing.T) {
	e := newTestEnv(t)
	code, _ := e.do(t, http.MethodPut, "/api/v1/accounts/alice/accepts-funds", "bob", map[string]any{"accepts": false})
	require.Equal(t, http.StatusForbidden, code)
	code, _ = e.do(t, http.MethodPut, "/api/v1/accounts/me/accepts-funds", "alice", map[string]any{"accepts": false})
	require.Equal(t, http.StatusOK, code)

	code, _ = e.do(t, http.MethodPost, "/api/v1/accounts/me/deposit", "bob", map[string]any{"amount": "1.5"})
	require.Equal(t, http.StatusBadRequest, code)

	code, _ = e.do(t, http.MethodGet, "/api/v1/accounts/me/entries", "bob", nil)
	require.Equal(t, http.StatusNotImplemented, code)

	code, env := e.do(t, http.MethodGet, "/api/v1/system/notify-stats", "bob", nil)
	require.Equal(t, http.StatusOK, code, env.Message)
}

func TestFaucetDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1", auth.Middleware(auth.JWT{}, true))
	(&AccountHandler{Ledger: ledger.NewMemory("")}).Register(api)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts/me/deposit", bytes.NewBufferString(`{"amount":"5"}`))
	req.Header.Set(auth.AccountHeader, "bob")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{auction.ErrInvalidArgument, http.StatusBadRequest},
		{auction.ErrInvalidDiscount, http.StatusBadRequest},
		{auction.ErrNotFound, http.StatusNotFound},
		{auction.ErrAuctionStopped, http.StatusConflict},
		{auction.ErrAuctionExpired, http.StatusGone},
		{auction.ErrInsufficientPayment, http.StatusPaymentRequired},
		{auction.ErrTransferFailed, http.StatusFailedDependency},
		{ledger.ErrInvalidAmount, http.StatusBadRequest},
		{http.ErrHandlerTimeout, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Fatalf("statusFor(%v)=%d want %d", tc.err, got, tc.want)
		}
	}
}
