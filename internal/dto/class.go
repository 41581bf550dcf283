package dto

import "github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"

// RoomSnapshot 课堂详情: 持久化字段 + 各外部服务的实时信息。
// 外部信息获取失败时对应字段为空。
type RoomSnapshot struct {
	ID          string            `json:"id"`
	BoardsInfo  string            `json:"boards"`
	CreatedAt   Time              `json:"createdAt"`
	UpdatedAt   Time              `json:"updatedAt"`
	Title       string            `json:"title"`
	Anchor      string            `json:"anchor"`
	ExtendsInfo string            `json:"extends"`
	Status      domain.RoomStatus `json:"status"`
	Mode        domain.RoomMode   `json:"mode"`
	RongCloudID string            `json:"rong_cloud_id"`
	AliyunID    string            `json:"aliyun_id"`
	Notice      string            `json:"notice"`
	MeetingID   string            `json:"meeting_id"`
	CoverURL    string            `json:"cover_url"`
	TeacherID   string            `json:"teacher_id"`
	TeacherNick string            `json:"teacher_nick"`
	VodID       string            `json:"vod_id"`
	MeetingInfo string            `json:"meetingInfo"`
	StartedAt   *Time             `json:"startedAt"`
	StoppedAt   *Time             `json:"stoppedAt"`
	IMServer    []string          `json:"im_server,omitempty"`

	VodInfo    *VodInfo     `json:"vod_info,omitempty"`
	UserStatus *UserStatus  `json:"user_status,omitempty"`
	LinkInfo   *LinkInfo    `json:"link_info,omitempty"`
	ShadowLink *LinkInfo    `json:"shadow_link_info,omitempty"`
	Metrics    *Metrics     `json:"metrics,omitempty"`
	Assistant  *ClassMember `json:"assistantPermit,omitempty"`
}

// NewRoomSnapshot 只填充持久化字段
func NewRoomSnapshot(room *domain.Room) *RoomSnapshot {
	names := make([]string, 0, 3)
	for _, ch := range room.Channels() {
		names = append(names, ch.String())
	}
	return &RoomSnapshot{
		ID:          room.ID,
		BoardsInfo:  room.BoardsInfo,
		CreatedAt:   NewTime(room.CreatedAt),
		UpdatedAt:   NewTime(room.UpdatedAt),
		Title:       room.Title,
		Anchor:      room.Anchor,
		ExtendsInfo: room.ExtendsInfo,
		Status:      room.Status,
		Mode:        room.Mode,
		RongCloudID: room.RongCloudID,
		AliyunID:    room.AliyunID,
		Notice:      room.Notice,
		MeetingID:   room.MeetingID,
		CoverURL:    room.CoverURL,
		TeacherID:   room.TeacherID,
		TeacherNick: room.TeacherNick,
		VodID:       room.VodID,
		MeetingInfo: room.MeetingInfo,
		StartedAt:   NewTimePtr(room.StartedAt),
		StoppedAt:   NewTimePtr(room.StoppedAt),
		IMServer:    names,
	}
}

// LinkInfo RTC 推拉流地址
type LinkInfo struct {
	RtcPushURL  string        `json:"rtc_push_url"`
	RtcPullURL  string        `json:"rtc_pull_url"`
	CdnPullInfo *PullLiveInfo `json:"cdn_pull_info"`
}

// PullLiveInfo 旁路 CDN 拉流地址 (摄像头流 + 屏幕共享流)
type PullLiveInfo struct {
	RtmpURL        string `json:"rtmp_url"`
	RtsURL         string `json:"rts_url"`
	FlvURL         string `json:"flv_url"`
	HlsURL         string `json:"hls_url"`
	RtmpOriaacURL  string `json:"rtmp_oriaac_url"`
	RtsOriaacURL   string `json:"rts_oriaac_url"`
	FlvOriaacURL   string `json:"flv_oriaac_url"`
	HlsOriaacURL   string `json:"hls_oriaac_url"`
	RtmpScreenURL  string `json:"rtmp_screen_url"`
	RtsScreenURL   string `json:"rts_screen_url"`
	FlvScreenURL   string `json:"flv_screen_url"`
	HlsScreenURL   string `json:"hls_screen_url"`
	RtmpScreenOURL string `json:"rtmp_screen_oriaac_url"`
	RtsScreenOURL  string `json:"rts_screen_oriaac_url"`
	FlvScreenOURL  string `json:"flv_screen_oriaac_url"`
	HlsScreenOURL  string `json:"hls_screen_oriaac_url"`
}

// VodStatus 点播媒资状态
type VodStatus int

const (
	VodStatusPrepare VodStatus = 0
	VodStatusOK      VodStatus = 1
	VodStatusFailed  VodStatus = 2
)

// VodInfo 回放信息
type VodInfo struct {
	Status    VodStatus  `json:"status"`
	PlayInfos []PlayInfo `json:"playlist"`
}

// PlayInfo 单路回放地址
type PlayInfo struct {
	BitDepth     int    `json:"bit_depth"`
	BitRate      string `json:"bit_rate"`
	CreationTime string `json:"creation_time"`
	Definition   string `json:"definition"`
	Duration     string `json:"duration"`
	Encrypt      int64  `json:"encrypt"`
	EncryptType  string `json:"encrypt_type"`
	Format       string `json:"format"`
	Fps          string `json:"fps"`
	HDRType      string `json:"hdr_type"`
	Height       int64  `json:"height"`
	Width        int64  `json:"width"`
	PlayURL      string `json:"play_url"`
	Size         int64  `json:"size"`
	Status       string `json:"status"`
	StreamType   string `json:"stream_type"`
	WatermarkID  string `json:"watermark_id"`
}

// Metrics 群组统计
type Metrics struct {
	LikeCount   int64 `json:"like_count"`
	OnlineCount int64 `json:"online_count"`
	PV          int64 `json:"pv"`
	UV          int64 `json:"uv"`
}

// UserStatus 用户禁言状态
type UserStatus struct {
	Mute       bool     `json:"mute"`
	MuteSource []string `json:"mute_source"`
}

// BoardAuth 白板鉴权信息
type BoardAuth struct {
	Nonce    string `json:"nonce"`
	CurTime  int64  `json:"curTime"`
	Checksum string `json:"checksum"`
}

// BoardCreateResult 白板房间创建结果，序列化后存入 Room.BoardsInfo
type BoardCreateResult struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	Cid        string `json:"cid"`
	BoardTitle string `json:"boardTitle"`
	UID        int64  `json:"uid"`
	BoardID    string `json:"boardId"`
	AppKey     string `json:"appKey"`
}

// RtcAuthToken RTC 入会鉴权
type RtcAuthToken struct {
	AuthToken string `json:"auth_token"`
	Timestamp int64  `json:"timestamp"`
}

// RoomPage 课堂分页结果
type RoomPage struct {
	TotalCount int64           `json:"totalCount"`
	PageSize   int             `json:"pageSize"`
	TotalPage  int             `json:"totalPage"`
	CurrPage   int             `json:"currPage"`
	List       []*RoomSnapshot `json:"list"`
}

// NewRoomPage 计算总页数
func NewRoomPage(list []*RoomSnapshot, total int64, pageSize, pageNum int) *RoomPage {
	totalPage := 0
	if pageSize > 0 {
		totalPage = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return &RoomPage{
		TotalCount: total,
		PageSize:   pageSize,
		TotalPage:  totalPage,
		CurrPage:   pageNum,
		List:       list,
	}
}
