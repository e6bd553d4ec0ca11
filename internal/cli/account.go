package cli

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

func accountCmd(ctx Context, args []string) error {
	if len(args) == 0 {
		return errors.New("account subcommand required: balance|deposit|entries|accepts")
	}
	c := ctx.client()
	fs := newFlagSet("account " + args[0])
	id := fs.String("id", "me", "account id, me for the caller")
	var (
		amount  *string
		accepts *bool
		batch   *string
		limit   *int
		offset  *int
	)
	switch args[0] {
	case "deposit":
		amount = fs.String("amount", "", "amount to credit")
	case "accepts":
		accepts = fs.Bool("accepts", true, "whether the account accepts incoming funds")
	case "entries":
		batch = fs.String("batch", "", "only entries of this batch")
		limit = fs.Int("limit", 50, "page size")
		offset = fs.Int("offset", 0, "offset")
	}
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	base := "/api/v1/accounts/" + url.PathEscape(strings.TrimSpace(*id))

	switch args[0] {
	case "balance":
		var out map[string]any
		if _, err := c.Call(http.MethodGet, base, nil, &out); err != nil {
			return err
		}
		return ctx.write(out)

	case "deposit":
		v, err := parseAmount("amount", *amount)
		if err != nil {
			return err
		}
		var out map[string]any
		if _, err := c.Call(http.MethodPost, base+"/deposit", map[string]any{"amount": v}, &out); err != nil {
			return err
		}
		return ctx.write(out)

	case "accepts":
		var out map[string]any
		if _, err := c.Call(http.MethodPut, base+"/accepts-funds", map[string]any{"accepts": *accepts}, &out); err != nil {
			return err
		}
		return ctx.write(out)

	case "entries":
		q := url.Values{}
		if strings.TrimSpace(*batch) != "" {
			q.Set("batch_id", strings.TrimSpace(*batch))
		}
		q.Set("limit", strconv.Itoa(*limit))
		q.Set("offset", strconv.Itoa(*offset))
		var out []map[string]any
		meta, err := c.Call(http.MethodGet, base+"/entries?"+q.Encode(), nil, &out)
		if err != nil {
			return err
		}
		return ctx.writeList(out, meta)

	default:
		return errors.New("unknown account subcommand")
	}
}
