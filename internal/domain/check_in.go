package domain

import "time"

// CheckIn 一次课堂签到
type CheckIn struct {
	ID        string    `gorm:"primaryKey;size:64"`
	ClassID   string    `gorm:"size:64;not null;index"`
	Title     string    `gorm:"size:255"`
	Creator   string    `gorm:"size:64"`
	StartTime time.Time `gorm:"index"`
	Duration  int       // 持续时长 (秒)
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CheckIn) TableName() string {
	return "class_check_in"
}

// IsRunning 判断签到在 now 时刻是否仍在进行 (两端闭区间)
func (c *CheckIn) IsRunning(now time.Time) bool {
	end := c.StartTime.Add(time.Duration(c.Duration) * time.Second)
	return !now.Before(c.StartTime) && !now.After(end)
}

// CheckInRecord 用户的签到记录
type CheckInRecord struct {
	ID        string    `gorm:"primaryKey;size:64"`
	CheckInID string    `gorm:"size:64;not null;uniqueIndex:idx_check_in_user,priority:1"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_check_in_user,priority:2"`
	CreatedAt time.Time // 签到时间
	UpdatedAt time.Time
}

func (CheckInRecord) TableName() string {
	return "class_check_in_record"
}

// DocServerType 课件所在的白板服务
type DocServerType int64

const DocServerNetEase DocServerType = 0

func (t DocServerType) String() string {
	if t == DocServerNetEase {
		return "netease"
	}
	return ""
}

// Doc 课堂关联的课件
type Doc struct {
	DocID      string        `gorm:"primaryKey;size:64"`
	ClassID    string        `gorm:"primaryKey;size:64"`
	ServerType DocServerType `gorm:"not null;default:0"`
	DocInfos   string        `gorm:"type:text"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Doc) TableName() string {
	return "doc_infos"
}
