package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-rental-service/internal/config"
)

func rateCtx(t *testing.T, userID interface{}) echo.Context {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/returns", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.1.2.3")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/returns")
	if userID != nil {
		c.Set("user_id", userID)
	}
	return c
}

func TestBuildRateKey(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl"}

	cases := []struct {
		strategy string
		userID   interface{}
		want     string
	}{
		{"ip", float64(7), "rl:ip:10.1.2.3"},
		{"user", float64(7), "rl:user:7"},
		{"route", nil, "rl:route:POST /v1/returns"},
		{"ip_route", nil, "rl:ip:10.1.2.3:route:POST /v1/returns"},
		{"ip_user", float64(7), "rl:ip:10.1.2.3:user:7"},
		// unknown strategies fall back to ip+user
		{"bogus", nil, "rl:ip:10.1.2.3:user:anon"},
	}
	for _, tc := range cases {
		t.Run(tc.strategy, func(t *testing.T) {
			cfg.KeyStrategy = tc.strategy
			require.Equal(t, tc.want, buildRateKey(cfg, rateCtx(t, tc.userID)))
		})
	}
}

func TestCurrentUserID(t *testing.T) {
	require.Equal(t, "anon", currentUserID(rateCtx(t, nil)))
	require.Equal(t, "42", currentUserID(rateCtx(t, float64(42))))
	require.Equal(t, "42", currentUserID(rateCtx(t, "42")))
	require.Equal(t, "anon", currentUserID(rateCtx(t, "")))
}

func TestAsInt64(t *testing.T) {
	require.Equal(t, int64(5), asInt64(int64(5)))
	require.Equal(t, int64(5), asInt64(5))
	require.Equal(t, int64(5), asInt64(5.9))
	require.Equal(t, int64(5), asInt64("5"))
	require.Equal(t, int64(0), asInt64("x"))
	require.Equal(t, int64(0), asInt64(nil))
}
