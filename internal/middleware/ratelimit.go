package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/repository"
)

// RateLimit 返回一个 Gin 中间件，按客户端 IP 做固定窗口限流。
// limiter: 计数器存储，通常为 redisstate.RedisStateRepository。
// maxRequests: 窗口内允许的最大请求数。
// window: 窗口长度。
func RateLimit(limiter repository.RateLimitRepository, maxRequests int, window time.Duration) gin.HandlerFunc {
	if limiter == nil {
		panic("RateLimitRepository cannot be nil for RateLimit middleware")
	}
	if maxRequests <= 0 {
		panic("maxRequests must be positive for RateLimit middleware")
	}
	if window <= 0 {
		panic("window duration must be positive for RateLimit middleware")
	}

	return func(c *gin.Context) {
		// 服务在反向代理后面时需要配置 gin 的 TrustedProxies
		clientIP := c.ClientIP()

		exceeded, err := limiter.CheckRateLimit(c.Request.Context(), clientIP, maxRequests, window)
		if err != nil {
			logrus.WithError(err).WithField("client_ip", clientIP).Error("RateLimit: Failed to check rate limit")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":    http.StatusInternalServerError,
				"success": false,
				"message": "Rate limiting error",
			})
			return
		}

		if exceeded {
			logrus.WithField("client_ip", clientIP).Warn("RateLimit: Too many requests")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"success": false,
				"message": "Too many requests",
			})
			return
		}

		c.Next()
	}
}
