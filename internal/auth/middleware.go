package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const AccountHeader = "X-Account-ID"

type ctxKey int

const accountCtxKey ctxKey = 1

func WithAccount(ctx context.Context, account string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, accountCtxKey, account)
}

func AccountFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(accountCtxKey).(string)
	return v, ok && v != ""
}

func AccountFromGin(c *gin.Context) (string, bool) {
	if c == nil || c.Request == nil {
		return "", false
	}
	return AccountFromContext(c.Request.Context())
}

// Middleware resolves the calling account. With disabled set the account is taken
// verbatim from the X-Account-ID header; otherwise a bearer JWT is required.
// Browsers cannot set headers on websocket upgrades, so an access_token query
// parameter is accepted as well.
func Middleware(j JWT, disabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var account string
		if disabled {
			account = strings.TrimSpace(c.GetHeader(AccountHeader))
			if account == "" {
				abort(c, "missing "+AccountHeader+" header")
				return
			}
		} else {
			tok := bearerToken(c.GetHeader("Authorization"))
			if tok == "" {
				tok = strings.TrimSpace(c.Query("access_token"))
			}
			if tok == "" {
				abort(c, "missing bearer token")
				return
			}
			claims, err := j.Verify(tok)
			if err != nil {
				abort(c, "invalid token")
				return
			}
			account = claims.Account()
		}
		c.Request = c.Request.WithContext(WithAccount(c.Request.Context(), account))
		c.Next()
	}
}

func abort(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    http.StatusUnauthorized,
		"message": message,
	})
}

func bearerToken(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	parts := strings.SplitN(v, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
