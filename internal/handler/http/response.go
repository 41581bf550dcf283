package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 所有接口统一的响应结构，HTTP 状态码总是 200
type Response struct {
	Code    int         `json:"code"`
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// 业务码
const (
	CodeOK           = 200
	CodeInvalidParam = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeError        = 500
)

func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: CodeOK, Success: true, Data: data})
}

// ErrorResponse 失败响应，reason 非空时放在 data.reason 中
func ErrorResponse(c *gin.Context, code int, message, reason string) {
	resp := Response{Code: code, Success: false, Message: message}
	if reason != "" {
		resp.Data = gin.H{"reason": reason}
	}
	c.JSON(http.StatusOK, resp)
}

// InvalidParamResponse 请求参数校验失败
func InvalidParamResponse(c *gin.Context, message string) {
	ErrorResponse(c, CodeInvalidParam, message, ReasonInvalidParam)
}
