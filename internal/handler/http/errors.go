package http

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/service"
)

// 失败原因，客户端据此区分业务错误
const (
	ReasonClassNotFound           = "ClassNotFound"
	ReasonInBlackList             = "InBlackList"
	ReasonClassNotAssistantPermit = "ClassNotAssistantPermit"
	ReasonClassHasAssistant       = "ClassHasAssistant"
	ReasonNotInClass              = "NotInClass"
	ReasonDBException             = "DBException"
	ReasonPermissionDenied        = "PermissionDenied"
	ReasonAlreadyCheckIn          = "AlreadyCheckIn"
	ReasonNotFound                = "NotFound"
	ReasonClassBusy               = "ClassBusy"
	ReasonInvalidSignature        = "InvalidSignature"
	ReasonInvalidParam            = "InvalidParam"
	ReasonProviderError           = "ProviderError"
	ReasonAuthenticationFailed    = "AuthenticationFailed"
)

type errorMapping struct {
	err    error
	code   int
	reason string
}

var errorMappings = []errorMapping{
	{service.ErrClassNotFound, CodeNotFound, ReasonClassNotFound},
	{service.ErrInBlackList, CodeOK, ReasonInBlackList},
	{service.ErrClassNotAssistantPermit, CodeOK, ReasonClassNotAssistantPermit},
	{service.ErrClassHasAssistant, CodeOK, ReasonClassHasAssistant},
	{service.ErrNotInClass, CodeOK, ReasonNotInClass},
	{service.ErrDBException, CodeError, ReasonDBException},
	{service.ErrPermissionDenied, CodeForbidden, ReasonPermissionDenied},
	{service.ErrAlreadyCheckIn, CodeOK, ReasonAlreadyCheckIn},
	{service.ErrNotFound, CodeNotFound, ReasonNotFound},
	{service.ErrClassBusy, CodeOK, ReasonClassBusy},
	{service.ErrInvalidSignature, CodeInvalidParam, ReasonInvalidSignature},
	{service.ErrInvalidParam, CodeInvalidParam, ReasonInvalidParam},
	{service.ErrProviderError, CodeError, ReasonProviderError},
	{service.ErrAuthenticationFailed, CodeUnauthorized, ReasonAuthenticationFailed},
}

// reasonOf 返回错误对应的业务码和原因，未知错误返回 ("", CodeError)
func reasonOf(err error) (string, int) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m.reason, m.code
		}
	}
	return "", CodeError
}

// HandleServiceError 把 Service 返回的错误写成失败响应
func HandleServiceError(c *gin.Context, err error) {
	reason, code := reasonOf(err)
	if reason == "" {
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Unhandled internal server error")
		ErrorResponse(c, CodeError, "An unexpected error occurred", "")
		return
	}
	ErrorResponse(c, code, err.Error(), reason)
}
