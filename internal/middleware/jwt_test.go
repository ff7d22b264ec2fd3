package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clanci-blog/internal/utils"
)

const secret = "test-secret"

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", JWTMiddleware(secret), func(c *gin.Context) {
		id, ok := AccountID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})
	return r
}

func call(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTMiddleware_Valid(t *testing.T) {
	tok, err := utils.NewAccessToken(secret, 42, time.Hour, time.Now())
	require.NoError(t, err)

	w := call(newRouter(), "Bearer "+tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":42}`, w.Body.String())
}

func TestJWTMiddleware_Rejects(t *testing.T) {
	expired, err := utils.NewAccessToken(secret, 42, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	foreign, err := utils.NewAccessToken("other", 42, time.Hour, time.Now())
	require.NoError(t, err)
	refresh, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": 42, "exp": time.Now().Add(time.Hour).Unix(), "typ": "refresh",
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	cases := map[string]string{
		"missing":      "",
		"no bearer":    "Token abc",
		"garbage":      "Bearer abc",
		"expired":      "Bearer " + expired,
		"wrong secret": "Bearer " + foreign,
		"wrong type":   "Bearer " + refresh,
	}
	r := newRouter()
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			w := call(r, header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}
