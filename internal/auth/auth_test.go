package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestJWT_MintAndVerify(t *testing.T) {
	j := JWT{Secret: []byte("secret"), TokenTTL: time.Hour}
	tok, exp, err := j.Mint(" alice ")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := j.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "alice", claims.Account())
	require.Equal(t, DefaultIssuer, claims.Issuer)

	_, err = JWT{Secret: []byte("other")}.Verify(tok)
	require.Error(t, err)
	_, err = JWT{Secret: []byte("secret"), Issuer: "someone-else"}.Verify(tok)
	require.Error(t, err)

	_, _, err = j.Mint("")
	require.Error(t, err)
	_, _, err = JWT{}.Mint("alice")
	require.Error(t, err)
}

func TestJWT_Expired(t *testing.T) {
	j := JWT{Secret: []byte("secret")}
	past := time.Now().Add(-time.Hour)
	tok, _, err := j.Sign(Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(past),
	}})
	require.NoError(t, err)
	_, err = j.Verify(tok)
	require.Error(t, err)
}

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"":              "",
		"Bearer abc":    "abc",
		"bearer  abc ":  "abc",
		"Basic abc":     "",
		"Bearer":        "",
		" Bearer x.y.z": "x.y.z",
	}
	for in, want := range cases {
		if got := bearerToken(in); got != want {
			t.Fatalf("bearerToken(%q)=%q want %q", in, got, want)
		}
	}
}

func newAuthRouter(j JWT, disabled bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/whoami", Middleware(j, disabled), func(c *gin.Context) {
		account, _ := AccountFromGin(c)
		c.String(http.StatusOK, account)
	})
	return r
}

func TestMiddleware(t *testing.T) {
	j := JWT{Secret: []byte("secret")}
	tok, _, err := j.Mint("bob")
	require.NoError(t, err)

	tests := []struct {
		name     string
		disabled bool
		url      string
		header   map[string]string
		status   int
		body     string
	}{
		{name: "bearer", url: "/whoami", header: map[string]string{"Authorization": "Bearer " + tok}, status: http.StatusOK, body: "bob"},
		{name: "query token", url: "/whoami?access_token=" + tok, status: http.StatusOK, body: "bob"},
		{name: "missing", url: "/whoami", status: http.StatusUnauthorized},
		{name: "garbage", url: "/whoami", header: map[string]string{"Authorization": "Bearer nope"}, status: http.StatusUnauthorized},
		{name: "header when disabled", disabled: true, url: "/whoami", header: map[string]string{AccountHeader: "carol"}, status: http.StatusOK, body: "carol"},
		{name: "disabled without header", disabled: true, url: "/whoami", status: http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newAuthRouter(j, tc.disabled)
			req := httptest.NewRequest(http.MethodGet, tc.url, nil)
			for k, v := range tc.header {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			require.Equal(t, tc.status, w.Code)
			if tc.body != "" {
				require.Equal(t, tc.body, w.Body.String())
			}
		})
	}
}
