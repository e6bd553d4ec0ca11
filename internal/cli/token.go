package cli

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/DiDinar5/DutchAuction/internal/auth"
	"github.com/DiDinar5/DutchAuction/internal/cli/profile"
)

type tokenResponse struct {
	Token     string `json:"token"`
	Account   string `json:"account"`
	ExpiresAt string `json:"expires_at"`
}

// tokenCmd mints tokens offline with the service's shared secret. It is an operator
// tool; auctiond has no login endpoint.
func tokenCmd(ctx Context, args []string) error {
	if len(args) == 0 {
		return errors.New("token subcommand required: mint")
	}
	switch args[0] {
	case "mint":
		fs := newFlagSet("token mint")
		secret := fs.String("secret", os.Getenv("DA_AUTH_JWT_SECRET"), "JWT secret (env: DA_AUTH_JWT_SECRET)")
		account := fs.String("account", ctx.Account, "account id (token subject)")
		ttl := fs.Duration("ttl", 24*time.Hour, "token lifetime")
		issuer := fs.String("issuer", auth.DefaultIssuer, "token issuer")
		save := fs.Bool("save", false, "store the token in the credentials file")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}
		if strings.TrimSpace(*secret) == "" || strings.TrimSpace(*account) == "" {
			return errors.New("usage: auctionctl token mint --secret <s> --account <id> [--ttl 24h] [--save]")
		}

		j := auth.JWT{Secret: []byte(*secret), TokenTTL: *ttl, Issuer: *issuer}
		tok, exp, err := j.Mint(*account)
		if err != nil {
			return err
		}
		resp := tokenResponse{
			Token:     tok,
			Account:   strings.TrimSpace(*account),
			ExpiresAt: exp.Format(time.RFC3339),
		}
		if *save {
			if err := profile.SaveCredentials(profile.Credentials{
				Token:     resp.Token,
				Account:   resp.Account,
				ExpiresAt: resp.ExpiresAt,
			}); err != nil {
				return err
			}
		}
		return ctx.write(resp)
	default:
		return errors.New("unknown token subcommand")
	}
}
