package domain

import "time"

// BanMonths 踢出后的封禁时长 (月)
const BanMonths = 12

// BanEntry 课堂黑名单记录，被踢出的用户会写入一条。
type BanEntry struct {
	ID        uint      `gorm:"primaryKey"`
	ClassID   string    `gorm:"size:64;not null;uniqueIndex:idx_kick_class_user,priority:1"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_kick_class_user,priority:2"`
	ExpiredAt time.Time // 踢出时间 + BanMonths
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName 沿用原有表名
func (BanEntry) TableName() string {
	return "class_kick_member"
}

// AssistantPermit 课堂的助教权限配置
type AssistantPermit struct {
	ID        uint      `gorm:"primaryKey"`
	ClassID   string    `gorm:"size:64;not null;uniqueIndex"`
	Permit    string    `gorm:"type:text"` // 权限信息 (由客户端定义)
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (AssistantPermit) TableName() string {
	return "assistant_permit"
}
