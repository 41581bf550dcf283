package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisstate "github.com/MediaBox-AUIKits/AUIInteractionClass/internal/infra/state/redis"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/middleware"
)

func newRateLimitRouter(t *testing.T, max int) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r := gin.New()
	r.Use(middleware.RateLimit(redisstate.NewRedisStateRepository(client, "test:"), max, time.Second))
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r, mr
}

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	// Arrange
	r, _ := newRateLimitRouter(t, 2)

	// Act
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
	}

	// Assert
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimit_WindowResets(t *testing.T) {
	// Arrange
	r, mr := newRateLimitRouter(t, 1)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)

	// Act: 窗口过期
	mr.FastForward(2 * time.Second)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_RedisDown(t *testing.T) {
	// Arrange
	r, mr := newRateLimitRouter(t, 1)
	mr.Close()

	// Act
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	// Assert
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
