package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"

	"github.com/DiDinar5/DutchAuction/internal/auction"
)

func TestHub_SubscribeFilterAndDrop(t *testing.T) {
	h := NewHub(1, nil)
	all, cancelAll := h.Subscribe()
	ended, cancelEnded := h.Subscribe(auction.EventAuctionEnded)
	defer cancelEnded()
	require.Equal(t, 2, h.Subscribers())

	ctx := context.Background()
	require.NoError(t, h.Send(ctx, auction.Event{Type: auction.EventAuctionCreated, AuctionID: 1}))
	require.Len(t, all, 1)
	require.Len(t, ended, 0)

	require.NoError(t, h.Send(ctx, auction.Event{Type: auction.EventAuctionEnded, AuctionID: 1}))
	require.Len(t, ended, 1)
	require.Equal(t, uint64(1), h.Dropped(), "full buffer drops")

	cancelAll()
	cancelAll()
	require.Equal(t, 1, h.Subscribers())
}

func TestParseTypes(t *testing.T) {
	got := parseTypes(" auction_ended, ,auction_lapsed")
	require.Equal(t, []auction.EventType{auction.EventAuctionEnded, auction.EventAuctionLapsed}, got)
	require.Empty(t, parseTypes(""))
}

func TestHub_ServeWS(t *testing.T) {
	h := NewHub(8, nil)
	srv := httptest.NewServer(http.HandlerFunc(h.ServeWS))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/?type=auction_ended"
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "") }()

	require.Eventually(t, func() bool { return h.Subscribers() == 1 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, h.Send(ctx, auction.Event{Type: auction.EventAuctionCreated, AuctionID: 1}))
	require.NoError(t, h.Send(ctx, auction.Event{Type: auction.EventAuctionEnded, AuctionID: 2, Buyer: "bob"}))

	typ, b, err := conn.Read(ctx)
	require.NoError(t, err)
	require.Equal(t, websocket.MessageText, typ)
	var ev auction.Event
	require.NoError(t, json.Unmarshal(b, &ev))
	require.Equal(t, uint64(2), ev.AuctionID)
	require.Equal(t, "bob", ev.Buyer)
}
