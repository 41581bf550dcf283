package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/middleware"
)

const testSecret = "login-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

// newAuthRouter 受保护的路由返回 context 中的 user_id
func newAuthRouter() *gin.Engine {
	r := gin.New()
	r.GET("/me", middleware.Auth(testSecret), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.ContextUserIDKey))
	})
	return r
}

func TestAuth_ValidToken(t *testing.T) {
	// Arrange
	token := signToken(t, testSecret, jwt.MapClaims{"user_id": "alice", "exp": time.Now().Add(time.Hour).Unix()})
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	// Act
	newAuthRouter().ServeHTTP(w, req)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", w.Body.String())
}

func TestAuth_Rejects(t *testing.T) {
	expired := signToken(t, testSecret, jwt.MapClaims{"user_id": "alice", "exp": time.Now().Add(-time.Hour).Unix()})
	wrongKey := signToken(t, "other", jwt.MapClaims{"user_id": "alice", "exp": time.Now().Add(time.Hour).Unix()})
	numericID := signToken(t, testSecret, jwt.MapClaims{"user_id": 42, "exp": time.Now().Add(time.Hour).Unix()})

	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Token abc",
		"expired":        "Bearer " + expired,
		"wrong secret":   "Bearer " + wrongKey,
		"numeric id":     "Bearer " + numericID,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			// Arrange
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()

			// Act
			newAuthRouter().ServeHTTP(w, req)

			// Assert
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestAuth_EmptySecretPanics(t *testing.T) {
	assert.Panics(t, func() { middleware.Auth("") })
}
