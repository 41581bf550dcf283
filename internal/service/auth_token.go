package service

import (
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
)

const (
	jumpTokenExpiry = time.Hour
	jumpURLFormat   = "auipusher://page/live-room?app_server=%s&token=%s&user_id=%s&user_name=%s&live_id=%s"
)

// AuthTokenService 负责 PC 推流助手跳转 token 和登录 token。
type AuthTokenService struct {
	jumpSecret  []byte
	loginSecret []byte
	loginExpiry time.Duration
	now         func() time.Time
}

// NewAuthTokenService loginExpiryHours <= 0 时默认 24 小时
func NewAuthTokenService(jumpSecret, loginSecret string, loginExpiryHours int) (*AuthTokenService, error) {
	if jumpSecret == "" || loginSecret == "" {
		return nil, fmt.Errorf("JWT secret key cannot be empty")
	}
	if loginExpiryHours <= 0 {
		loginExpiryHours = 24
	}
	return &AuthTokenService{
		jumpSecret:  []byte(jumpSecret),
		loginSecret: []byte(loginSecret),
		loginExpiry: time.Duration(loginExpiryHours) * time.Hour,
		now:         time.Now,
	}, nil
}

// LiveJumpURL 生成推流助手的跳转链接，token 一小时有效
func (s *AuthTokenService) LiveJumpURL(userID, userName, liveID, serverHost string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":    userID,
		"live_id":    liveID,
		"user_name":  userName,
		"app_server": serverHost,
		"exp":        s.now().Add(jumpTokenExpiry).Unix(),
	})
	signed, err := token.SignedString(s.jumpSecret)
	if err != nil {
		logrus.WithField("user_id", userID).WithError(err).Error("Failed to sign jump token")
		return "", ErrInternalServer
	}
	return fmt.Sprintf(jumpURLFormat,
		url.PathEscape(serverHost),
		signed,
		url.PathEscape(userID),
		url.PathEscape(userName),
		url.PathEscape(liveID),
	), nil
}

// VerifyInput 校验跳转 token 的参数。UserName 为空时不校验。
type VerifyInput struct {
	Token     string
	UserID    string
	LiveID    string
	UserName  string
	AppServer string
}

// Verify 校验跳转 token 并签发登录 token
func (s *AuthTokenService) Verify(in VerifyInput) (string, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": in.UserID, "live_id": in.LiveID})

	token, err := jwt.Parse(in.Token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jumpSecret, nil
	})
	if err != nil || !token.Valid {
		logCtx.WithError(err).Warn("Invalid jump token")
		return "", ErrAuthenticationFailed
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrAuthenticationFailed
	}

	claim := func(key string) string {
		v, _ := claims[key].(string)
		return v
	}
	if claim("user_id") != in.UserID {
		logCtx.Warn("Jump token user_id not matched")
		return "", ErrAuthenticationFailed
	}
	if claim("live_id") != in.LiveID {
		logCtx.Warn("Jump token live_id not matched")
		return "", ErrAuthenticationFailed
	}
	userName := claim("user_name")
	if in.UserName != "" && in.UserName != userName {
		logCtx.Warn("Jump token user_name not matched")
		return "", ErrAuthenticationFailed
	}
	if claim("app_server") != in.AppServer {
		logCtx.Warn("Jump token app_server not matched")
		return "", ErrAuthenticationFailed
	}

	return s.LoginToken(userName)
}

// LoginToken 签发登录 token，由 Auth 中间件校验
func (s *AuthTokenService) LoginToken(userID string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(s.loginExpiry).Unix(),
		"iat":     now.Unix(),
	})
	signed, err := token.SignedString(s.loginSecret)
	if err != nil {
		logrus.WithField("user_id", userID).WithError(err).Error("Failed to sign login token")
		return "", ErrInternalServer
	}
	return signed, nil
}
