package service

import "github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"

// ResolveIdentity 决定用户在课堂中的身份。
// 老师身份只能由课堂的 teacher_id 决定，客户端只能申请助教。
func ResolveIdentity(teacherID, userID string, requested domain.Identity) domain.Identity {
	if teacherID != "" && userID != "" && teacherID == userID {
		return domain.IdentityTeacher
	}
	if requested == domain.IdentityAssistant {
		return domain.IdentityAssistant
	}
	return domain.IdentityStudent
}
