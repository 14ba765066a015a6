package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthedContext(t *testing.T, token string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/kits", nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestMiddleware_ValidToken(t *testing.T) {
	v, err := NewStaticVerifier([]TokenEntry{{Token: "tok", ID: "u1", Email: "a@b.c"}})
	require.NoError(t, err)

	c, rec := newAuthedContext(t, "tok")

	var captured *Identity
	handler := Middleware(v)(func(c echo.Context) error {
		captured = IdentityFrom(c)
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "u1", captured.ID)
}

func TestMiddleware_RejectsMissingAndInvalidTokens(t *testing.T) {
	v, err := NewStaticVerifier([]TokenEntry{{Token: "tok", ID: "u1"}})
	require.NoError(t, err)

	for _, token := range []string{"", "wrong"} {
		c, _ := newAuthedContext(t, token)

		handler := Middleware(v)(func(c echo.Context) error {
			t.Fatal("handler must not run for unauthenticated request")
			return nil
		})

		err := handler(c)
		require.Error(t, err)
		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	}
}

func TestIdentityFrom_Unset(t *testing.T) {
	c, _ := newAuthedContext(t, "")
	assert.Nil(t, IdentityFrom(c))
}
