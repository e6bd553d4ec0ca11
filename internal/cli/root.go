package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/DiDinar5/DutchAuction/internal/cli/client"
	"github.com/DiDinar5/DutchAuction/internal/cli/output"
)

type Context struct {
	APIBase string
	Token   string
	Account string
	Output  output.Format
	// Out receives command results. Defaults to stdout.
	Out io.Writer
}

func (ctx Context) client() *client.Client {
	return &client.Client{BaseURL: ctx.APIBase, Token: ctx.Token, Account: ctx.Account}
}

func (ctx Context) write(v any) error {
	w := ctx.Out
	if w == nil {
		w = os.Stdout
	}
	return output.Write(w, ctx.Output, v)
}

func Usage(w io.Writer) {
	fmt.Fprint(w, `auctionctl <command> <subcommand> [flags]

Global Flags:
  --api-base    auctiond base URL (env: DA_API_BASE)
  --token       Bearer token (env: DA_TOKEN)
  --account     Account id sent as X-Account-ID when auth is disabled (env: DA_ACCOUNT)
  --output      json|text (default json)

Commands:
  token       mint
  auction     create/list/get/price/buy
  account     balance/deposit/entries/accepts
  settlement  list/get
  events      list
  service     health/stats
`)
}

func Dispatch(ctx Context, args []string) error {
	if len(args) == 0 {
		Usage(os.Stderr)
		return errors.New("missing command")
	}
	switch args[0] {
	case "token":
		return tokenCmd(ctx, args[1:])
	case "auction":
		return auctionCmd(ctx, args[1:])
	case "account":
		return accountCmd(ctx, args[1:])
	case "settlement":
		return settlementCmd(ctx, args[1:])
	case "events":
		return eventsCmd(ctx, args[1:])
	case "service":
		return serviceCmd(ctx, args[1:])
	case "help", "-h", "--help":
		Usage(os.Stdout)
		return nil
	default:
		Usage(os.Stderr)
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("auctionctl "+name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	return fs
}

// auctionID reads --id, falling back to the first positional argument.
func auctionID(fs *flag.FlagSet, flagValue string) (uint64, error) {
	raw := strings.TrimSpace(flagValue)
	if raw == "" && fs.NArg() > 0 {
		raw = strings.TrimSpace(fs.Arg(0))
	}
	if raw == "" {
		return 0, errors.New("auction id required")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid auction id %q", raw)
	}
	return id, nil
}

func parseAmount(name, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("--%s required", name)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}

// listResult keeps the paging meta next to the items.
type listResult struct {
	Items any            `json:"items"`
	Meta  map[string]any `json:"meta,omitempty"`
}

func (ctx Context) writeList(items any, meta map[string]any) error {
	if ctx.Output == output.FormatText {
		return ctx.write(items)
	}
	return ctx.write(listResult{Items: items, Meta: meta})
}
