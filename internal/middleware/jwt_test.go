package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-rental-service/internal/utils"
)

const jwtTestSecret = "test-secret"

// runJWT sends one request through JWTAuth and reports the status,
// whether the wrapped handler ran, and the context for claim checks.
func runJWT(t *testing.T, authHeader string) (int, bool, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/returns", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	ran := false
	h := JWTAuth(jwtTestSecret)(func(c echo.Context) error {
		ran = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec.Code, ran, c
}

func TestJWTAuth_RejectsMissingToken(t *testing.T) {
	code, ran, _ := runJWT(t, "")
	require.Equal(t, http.StatusUnauthorized, code)
	require.False(t, ran, "handler must not run without credentials")
}

func TestJWTAuth_RejectsMalformedToken(t *testing.T) {
	code, ran, _ := runJWT(t, "Bearer not-a-jwt")
	require.Equal(t, http.StatusUnauthorized, code)
	require.False(t, ran)
}

func TestJWTAuth_RejectsWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("some-other-secret", 42, "CLERK", 5)
	require.NoError(t, err)

	code, ran, _ := runJWT(t, "Bearer "+tok.Token)
	require.Equal(t, http.StatusUnauthorized, code)
	require.False(t, ran)
}

func TestJWTAuth_ValidTokenSetsIdentity(t *testing.T) {
	tok, err := utils.NewAccessToken(jwtTestSecret, 42, "CLERK", 5)
	require.NoError(t, err)

	code, ran, c := runJWT(t, "Bearer "+tok.Token)
	require.Equal(t, http.StatusOK, code)
	require.True(t, ran)

	// Claims round-trip through JSON, so the subject arrives numeric.
	require.Equal(t, float64(42), c.Get("user_id"))
	require.Equal(t, "CLERK", c.Get("role"))
	require.Equal(t, "42", currentUserID(c))
}
