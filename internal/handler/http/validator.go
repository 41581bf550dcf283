package http

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
)

var registerOnce sync.Once

// imServerNames v2 接口接受的通道名称
var imServerNames = map[string]bool{
	domain.ChannelNameLegacy:     true,
	domain.ChannelNameCurrent:    true,
	domain.ChannelNameThirdParty: true,
}

func validateIMServer(fl validator.FieldLevel) bool {
	return imServerNames[fl.Field().String()]
}

func validateIdentity(fl validator.FieldLevel) bool {
	return domain.Identity(fl.Field().Int()).IsValid()
}

func validateMemberStatus(fl validator.FieldLevel) bool {
	return domain.MemberStatus(fl.Field().Int()).IsValid()
}

// RegisterValidators 在 gin 的校验引擎上注册自定义规则，可重复调用
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("unexpected gin validator engine %T", binding.Validator.Engine())
			return
		}
		rules := map[string]validator.Func{
			"im_server":     validateIMServer,
			"identity":      validateIdentity,
			"member_status": validateMemberStatus,
		}
		for tag, fn := range rules {
			if err = v.RegisterValidation(tag, fn); err != nil {
				return
			}
		}
	})
	return err
}
