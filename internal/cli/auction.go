package cli

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/DiDinar5/DutchAuction/internal/auction"
)

func auctionCmd(ctx Context, args []string) error {
	if len(args) == 0 {
		return errors.New("auction subcommand required: create|list|get|price|buy")
	}
	c := ctx.client()
	switch args[0] {
	case "create":
		fs := newFlagSet("auction create")
		item := fs.String("item", "", "item description")
		start := fs.String("start", "", "starting price")
		rate := fs.String("rate", "", "discount per time unit")
		duration := fs.Int64("duration", 0, "duration in time units")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		startPrice, err := parseAmount("start", *start)
		if err != nil {
			return err
		}
		discount, err := parseAmount("rate", *rate)
		if err != nil {
			return err
		}
		if *duration <= 0 {
			return errors.New("--duration must be positive")
		}
		var snap auction.Snapshot
		if _, err := c.Call(http.MethodPost, "/api/v1/auctions", map[string]any{
			"item":           strings.TrimSpace(*item),
			"starting_price": startPrice,
			"discount_rate":  discount,
			"duration":       *duration,
		}, &snap); err != nil {
			return err
		}
		return ctx.write(snap)

	case "list":
		fs := newFlagSet("auction list")
		limit := fs.Int("limit", 50, "page size")
		offset := fs.Int("offset", 0, "offset")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		q := url.Values{}
		q.Set("limit", strconv.Itoa(*limit))
		q.Set("offset", strconv.Itoa(*offset))
		var snaps []auction.Snapshot
		meta, err := c.Call(http.MethodGet, "/api/v1/auctions?"+q.Encode(), nil, &snaps)
		if err != nil {
			return err
		}
		return ctx.writeList(snaps, meta)

	case "get", "price":
		fs := newFlagSet("auction " + args[0])
		idFlag := fs.String("id", "", "auction id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		id, err := auctionID(fs, *idFlag)
		if err != nil {
			return err
		}
		if args[0] == "price" {
			var q auction.Quote
			if _, err := c.Call(http.MethodGet, fmt.Sprintf("/api/v1/auctions/%d/price", id), nil, &q); err != nil {
				return err
			}
			return ctx.write(q)
		}
		var snap auction.Snapshot
		if _, err := c.Call(http.MethodGet, fmt.Sprintf("/api/v1/auctions/%d", id), nil, &snap); err != nil {
			return err
		}
		return ctx.write(snap)

	case "buy":
		fs := newFlagSet("auction buy")
		idFlag := fs.String("id", "", "auction id")
		amount := fs.String("amount", "", "payment; anything above the current price is refunded")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		id, err := auctionID(fs, *idFlag)
		if err != nil {
			return err
		}
		paid, err := parseAmount("amount", *amount)
		if err != nil {
			return err
		}
		var rc auction.Receipt
		if _, err := c.Call(http.MethodPost, fmt.Sprintf("/api/v1/auctions/%d/buy", id), map[string]any{
			"amount": paid,
		}, &rc); err != nil {
			return err
		}
		return ctx.write(rc)

	default:
		return errors.New("unknown auction subcommand")
	}
}
