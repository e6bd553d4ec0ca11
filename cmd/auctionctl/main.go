package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/DiDinar5/DutchAuction/internal/cli"
	"github.com/DiDinar5/DutchAuction/internal/cli/output"
	"github.com/DiDinar5/DutchAuction/internal/cli/profile"
)

func main() {
	var (
		apiBase = flag.String("api-base", "", "auctiond base URL (env: DA_API_BASE)")
		token   = flag.String("token", "", "Bearer token (env: DA_TOKEN)")
		account = flag.String("account", "", "Account id for auth-disabled services (env: DA_ACCOUNT)")
		outFmt  = flag.String("output", "json", "Output format: json|text")
	)
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		cli.Usage(os.Stderr)
		os.Exit(2)
	}

	cfg, err := profile.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}
	if strings.TrimSpace(*apiBase) != "" {
		cfg.APIBase = strings.TrimRight(strings.TrimSpace(*apiBase), "/")
	}
	if strings.TrimSpace(*account) != "" {
		cfg.Account = strings.TrimSpace(*account)
	}

	ctx := cli.Context{
		APIBase: cfg.APIBase,
		Account: cfg.Account,
		Output:  output.Format(strings.TrimSpace(*outFmt)),
		Out:     os.Stdout,
	}

	// Token resolution order: --token, DA_TOKEN, then an unexpired saved token.
	if strings.TrimSpace(*token) != "" {
		ctx.Token = strings.TrimSpace(*token)
	} else if v := strings.TrimSpace(os.Getenv("DA_TOKEN")); v != "" {
		ctx.Token = v
	} else if cred, err := profile.LoadCredentials(); err == nil && !cred.Expired(time.Now()) {
		ctx.Token = strings.TrimSpace(cred.Token)
		if ctx.Account == "" {
			ctx.Account = cred.Account
		}
	}

	if err := cli.Dispatch(ctx, args); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
