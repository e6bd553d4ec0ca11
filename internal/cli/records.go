package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

func settlementCmd(ctx Context, args []string) error {
	if len(args) == 0 {
		return errors.New("settlement subcommand required: list|get")
	}
	c := ctx.client()
	switch args[0] {
	case "list":
		fs := newFlagSet("settlement list")
		seller := fs.String("seller", "", "seller account")
		buyer := fs.String("buyer", "", "buyer account")
		since := fs.String("since", "", "RFC3339 lower bound")
		limit := fs.Int("limit", 50, "page size")
		offset := fs.Int("offset", 0, "offset")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		q := url.Values{}
		if v := strings.TrimSpace(*seller); v != "" {
			q.Set("seller", v)
		}
		if v := strings.TrimSpace(*buyer); v != "" {
			q.Set("buyer", v)
		}
		if v := strings.TrimSpace(*since); v != "" {
			if _, err := time.Parse(time.RFC3339, v); err != nil {
				return fmt.Errorf("--since: %w", err)
			}
			q.Set("since", v)
		}
		q.Set("limit", strconv.Itoa(*limit))
		q.Set("offset", strconv.Itoa(*offset))
		var out []map[string]any
		meta, err := c.Call(http.MethodGet, "/api/v1/settlements?"+q.Encode(), nil, &out)
		if err != nil {
			return err
		}
		return ctx.writeList(out, meta)

	case "get":
		fs := newFlagSet("settlement get")
		idFlag := fs.String("auction", "", "auction id")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		id, err := auctionID(fs, *idFlag)
		if err != nil {
			return err
		}
		var out map[string]any
		if _, err := c.Call(http.MethodGet, fmt.Sprintf("/api/v1/auctions/%d/settlement", id), nil, &out); err != nil {
			return err
		}
		return ctx.write(out)

	default:
		return errors.New("unknown settlement subcommand")
	}
}

func eventsCmd(ctx Context, args []string) error {
	if len(args) == 0 || args[0] != "list" {
		return errors.New("events subcommand required: list")
	}
	fs := newFlagSet("events list")
	aid := fs.String("auction", "", "auction id")
	typ := fs.String("type", "", "auction_created|auction_ended|auction_lapsed")
	limit := fs.Int("limit", 50, "page size")
	offset := fs.Int("offset", 0, "offset")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	q := url.Values{}
	if v := strings.TrimSpace(*aid); v != "" {
		q.Set("auction_id", v)
	}
	if v := strings.TrimSpace(*typ); v != "" {
		q.Set("type", v)
	}
	q.Set("limit", strconv.Itoa(*limit))
	q.Set("offset", strconv.Itoa(*offset))
	var out []map[string]any
	meta, err := ctx.client().Call(http.MethodGet, "/api/v1/events?"+q.Encode(), nil, &out)
	if err != nil {
		return err
	}
	return ctx.writeList(out, meta)
}

func serviceCmd(ctx Context, args []string) error {
	if len(args) == 0 {
		return errors.New("service subcommand required: health|stats")
	}
	c := ctx.client()
	switch args[0] {
	case "health":
		req, err := c.NewRequest(http.MethodGet, "/readyz", nil)
		if err != nil {
			return err
		}
		// /readyz answers with a bare object, not the envelope.
		resp, err := (&http.Client{Timeout: 5 * time.Second}).Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		out := map[string]any{}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&out)
		out["status_code"] = resp.StatusCode
		if err := ctx.write(out); err != nil {
			return err
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("service not ready: http %d", resp.StatusCode)
		}
		return nil
	case "stats":
		var out map[string]any
		if _, err := c.Call(http.MethodGet, "/api/v1/system/notify-stats", nil, &out); err != nil {
			return err
		}
		return ctx.write(out)
	default:
		return errors.New("unknown service subcommand")
	}
}
