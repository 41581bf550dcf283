package domain

import "time"

// Identity 成员身份
type Identity int

const (
	IdentityAll       Identity = 0 // 仅用于查询过滤
	IdentityStudent   Identity = 1
	IdentityAssistant Identity = 2
	IdentityTeacher   Identity = 3
)

// IsValid 判断身份值是否合法 (0 表示不限)
func (i Identity) IsValid() bool {
	return i >= IdentityAll && i <= IdentityTeacher
}

// MemberStatus 成员状态
type MemberStatus int

const (
	MemberStatusAll    MemberStatus = 0 // 仅用于查询过滤
	MemberStatusNormal MemberStatus = 1 // 在课堂中
	MemberStatusExit   MemberStatus = 2 // 已离开
	MemberStatusKick   MemberStatus = 3 // 被踢出
)

// IsValid 判断状态值是否合法 (0 表示不限)
func (s MemberStatus) IsValid() bool {
	return s >= MemberStatusAll && s <= MemberStatusKick
}

// Member 表示用户在某个课堂中的参与记录。
// (ClassID, UserID) 唯一，重新加入时复用同一行。
type Member struct {
	ID         uint         `gorm:"primaryKey"`
	ClassID    string       `gorm:"size:64;not null;uniqueIndex:idx_class_user,priority:1;index:idx_class_identity,priority:1"`
	UserID     string       `gorm:"size:64;not null;uniqueIndex:idx_class_user,priority:2"`
	UserName   string       `gorm:"column:user_name;size:128"`
	UserAvatar string       `gorm:"column:user_avatar;size:512"`
	Identity   Identity     `gorm:"not null;default:1;index:idx_class_identity,priority:2"`
	Status     MemberStatus `gorm:"not null;default:1"`
	CreatedAt  time.Time    // 加入时间
	UpdatedAt  time.Time
}

// TableName 沿用原有表名
func (Member) TableName() string {
	return "class_member"
}

// IsActive 成员当前是否在课堂中
func (m *Member) IsActive() bool {
	return m != nil && m.Status == MemberStatusNormal
}
