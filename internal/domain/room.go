package domain

import (
	"strings"
	"time"
)

// RoomStatus 课堂状态
type RoomStatus int64

const (
	RoomStatusPrepare RoomStatus = 0 // 准备中 (初始状态 / 暂停)
	RoomStatusOn      RoomStatus = 1 // 上课中
	RoomStatusOff     RoomStatus = 2 // 已下课
)

// IsValid 判断状态值是否合法
func (s RoomStatus) IsValid() bool {
	return s == RoomStatusPrepare || s == RoomStatusOn || s == RoomStatusOff
}

// RoomMode 课堂模式
type RoomMode int64

const (
	RoomModeOpen  RoomMode = 0 // 公开课
	RoomModeBig   RoomMode = 1 // 大班课
	RoomModeSmall RoomMode = 2 // 小班课
)

// Room 表示一个课堂 (直播间)。
// ID 由创建课堂时建立的消息群组 ID 决定，而不是数据库自增。
type Room struct {
	ID          string     `gorm:"primaryKey;size:64"`              // 课堂 ID (= 消息群组 ID)
	CreatedAt   time.Time  `gorm:"index"`                           // 创建时间 (列表按此倒序)
	UpdatedAt   time.Time                                           // 最后更新时间
	Title       string     `gorm:"size:255"`                        // 标题
	Anchor      string     `gorm:"size:64"`                         // 主播 (保留字段)
	ExtendsInfo string     `gorm:"column:extends;type:text"`        // 扩展信息 (不透明 JSON)
	Status      RoomStatus `gorm:"not null;default:0"`              // 状态
	Mode        RoomMode   `gorm:"not null;default:0"`              // 模式
	AliyunID    string     `gorm:"column:a_li_yun_id;size:64"`      // 阿里云 IM 群组 ID
	RongCloudID string     `gorm:"column:rong_cloud_id;size:64"`    // 融云聊天室 ID
	Notice      string     `gorm:"type:text"`                       // 公告
	MeetingID   string     `gorm:"size:64;index"`                   // RTC 频道关联 ID
	CoverURL    string     `gorm:"size:512"`                        // 封面
	TeacherID   string     `gorm:"size:64;index"`                   // 老师 ID
	TeacherNick string     `gorm:"size:128"`                        // 老师昵称
	VodID       string     `gorm:"size:64"`                         // 点播 ID
	MeetingInfo string     `gorm:"type:text"`                       // 连麦信息 (Meeting JSON)
	StartedAt   *time.Time                                          // 最近一次进入 On 的时间
	StoppedAt   *time.Time                                          // 最近一次进入 Off 的时间
	BoardsInfo  string     `gorm:"column:boards;type:text"`         // 白板描述 (JSON)
	IMServer    string     `gorm:"column:im_server;size:128"`       // 创建时开通的消息通道, 逗号分隔
}

// TableName 沿用原有表名
func (Room) TableName() string {
	return "class_infos"
}

// Channels 返回课堂在创建时开通的消息通道。
// 老数据没有记录通道时，视为只开通了 Legacy。
func (r *Room) Channels() []MessagingChannel {
	var channels []MessagingChannel
	for _, s := range strings.Split(r.IMServer, ",") {
		if ch, ok := ParseChannel(strings.TrimSpace(s)); ok {
			channels = append(channels, ch)
		}
	}
	if len(channels) == 0 {
		return []MessagingChannel{ChannelLegacy}
	}
	return channels
}

// GroupID 返回指定通道上课堂对应的群组 ID
func (r *Room) GroupID(ch MessagingChannel) string {
	if ch == ChannelThirdParty {
		return r.RongCloudID
	}
	return r.AliyunID
}
