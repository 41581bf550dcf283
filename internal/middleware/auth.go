package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
)

// ContextUserIDKey 认证通过后 user_id 在 gin.Context 中的键
const ContextUserIDKey = "user_id"

var (
	// ErrMissingAuthHeader 请求缺少 Authorization 头
	ErrMissingAuthHeader = errors.New("missing Authorization header")
	// ErrMissingUserID 登录 token 中没有 user_id
	ErrMissingUserID = errors.New("login token has no user_id")
)

// loginClaims 与 AuthTokenService.LoginToken 签发的 claims 对应
type loginClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    http.StatusUnauthorized,
		"success": false,
		"message": message,
	})
}

// Auth 校验 Bearer 登录 token，并把 user_id 写入 gin.Context。
func Auth(loginSecret string) gin.HandlerFunc {
	if loginSecret == "" {
		panic("JWT secret cannot be empty for Auth middleware")
	}
	key := []byte(loginSecret)

	return func(c *gin.Context) {
		raw, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			logrus.WithField("path", c.Request.URL.Path).WithError(err).Warn("Auth middleware: rejected header")
			unauthorized(c, "Authorization header is required")
			return
		}

		userID, err := parseLoginToken(raw, key)
		if err != nil {
			logCtx := logrus.WithField("path", c.Request.URL.Path).WithError(err)
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				logCtx.Warn("Auth middleware: token expired")
			case errors.Is(err, jwt.ErrTokenSignatureInvalid):
				logCtx.Warn("Auth middleware: token signature invalid")
			default:
				logCtx.Warn("Auth middleware: invalid token")
			}
			unauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// bearerToken 从 "Bearer xxx" 中取出 token
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingAuthHeader
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", jwt.ErrTokenMalformed
	}
	return token, nil
}

func parseLoginToken(raw string, key []byte) (string, error) {
	claims := &loginClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return "", fmt.Errorf("token validation failed: %w", err)
	}
	if claims.UserID == "" {
		return "", ErrMissingUserID
	}
	return claims.UserID, nil
}
