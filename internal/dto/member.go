package dto

import "github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"

// ClassMember 成员的公开信息，也是成员变动消息的消息体。
type ClassMember struct {
	ClassID    string              `json:"class_id"`
	UserID     string              `json:"user_id"`
	UserName   string              `json:"user_name"`
	UserAvatar string              `json:"user_avatar"`
	Identity   domain.Identity     `json:"identity"`
	Status     domain.MemberStatus `json:"status"`
	JoinTime   Time                `json:"join_time"`
}

// NewClassMember 从持久化记录转换，m 为 nil 时返回 nil
func NewClassMember(m *domain.Member) *ClassMember {
	if m == nil {
		return nil
	}
	return &ClassMember{
		ClassID:    m.ClassID,
		UserID:     m.UserID,
		UserName:   m.UserName,
		UserAvatar: m.UserAvatar,
		Identity:   m.Identity,
		Status:     m.Status,
		JoinTime:   NewTime(m.CreatedAt),
	}
}

// MemberPage 成员分页结果
type MemberPage struct {
	Total   int64          `json:"total"`
	Members []*ClassMember `json:"members"`
}

// AssistantPermit 助教权限
type AssistantPermit struct {
	ClassID   string `json:"class_id"`
	Permit    string `json:"permit"`
	CreatedAt Time   `json:"created_at"`
	UpdatedAt Time   `json:"updated_at"`
}

func NewAssistantPermit(p *domain.AssistantPermit) *AssistantPermit {
	return &AssistantPermit{
		ClassID:   p.ClassID,
		Permit:    p.Permit,
		CreatedAt: NewTime(p.CreatedAt),
		UpdatedAt: NewTime(p.UpdatedAt),
	}
}

// CheckIn 签到
type CheckIn struct {
	ID        string `json:"id"`
	StartTime Time   `json:"start_time"`
	NowTime   Time   `json:"now_time"`
	Duration  int    `json:"duration"`
}

// CheckInRecord 签到记录
type CheckInRecord struct {
	CheckInID string `json:"check_in_id"`
	ClassID   string `json:"class_id"`
	UserID    string `json:"user_id"`
	Time      Time   `json:"time"`
}

// Doc 课件
type Doc struct {
	ClassID    string `json:"class_id"`
	DocID      string `json:"doc_id"`
	ServerType string `json:"server_type"`
	DocInfos   string `json:"doc_infos"`
	CreatedAt  Time   `json:"created_at"`
	UpdatedAt  Time   `json:"updated_at"`
}

func NewDoc(d *domain.Doc) *Doc {
	return &Doc{
		ClassID:    d.ClassID,
		DocID:      d.DocID,
		ServerType: d.ServerType.String(),
		DocInfos:   d.DocInfos,
		CreatedAt:  NewTime(d.CreatedAt),
		UpdatedAt:  NewTime(d.UpdatedAt),
	}
}

// DocInfo 批量添加课件时的单项
type DocInfo struct {
	DocID      string `json:"doc_id"`
	ServerType string `json:"server_type"`
	DocInfos   string `json:"doc_infos"`
}
