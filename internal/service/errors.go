package service

import "errors"

// 业务错误。handler 层把它们映射为返回体中的 reason。
var (
	ErrClassNotFound           = errors.New("class not found")
	ErrInBlackList             = errors.New("user is in the black list of this class")
	ErrClassNotAssistantPermit = errors.New("class has no assistant permit")
	ErrClassHasAssistant       = errors.New("class already has an assistant")
	ErrNotInClass              = errors.New("user is not in class")
	ErrDBException             = errors.New("database exception")
	ErrPermissionDenied        = errors.New("permission denied")
	ErrAlreadyCheckIn          = errors.New("already check in")
	ErrNotFound                = errors.New("not found")
	ErrClassBusy               = errors.New("class is busy, please retry")
	ErrInvalidSignature        = errors.New("invalid callback signature")
	ErrInvalidParam            = errors.New("invalid param")
	ErrProviderError           = errors.New("external provider error")
	ErrAuthenticationFailed    = errors.New("authentication failed")
	ErrInternalServer          = errors.New("internal server error")
)
