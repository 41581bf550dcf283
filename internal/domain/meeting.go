package domain

// MeetingMember 连麦成员的实时状态
type MeetingMember struct {
	UserID                 string `json:"user_id"`
	UserNick               string `json:"user_nick"`
	UserAvatar             string `json:"user_avatar"`
	CameraOpened           bool   `json:"camera_opened"`
	MicOpened              bool   `json:"mic_opened"`
	RtcPullURL             string `json:"rtc_pull_url"`
	IsAudioPublishing      bool   `json:"is_audio_publishing"`
	IsVideoPublishing      bool   `json:"is_video_publishing"`
	IsScreenPublishing     bool   `json:"is_screen_publishing"`
	ScreenShare            bool   `json:"screen_share"`
	MutilMedia             bool   `json:"mutil_media"`
	ControlledCameraOpened bool   `json:"controlled_camera_opened"`
	ControlledMicOpened    bool   `json:"controlled_mic_opened"`
}

// Meeting 保存在 Room.MeetingInfo 中的连麦信息，没有独立的存储。
type Meeting struct {
	Members            []MeetingMember `json:"members"`
	AllMute            bool            `json:"all_mute"`
	InteractionAllowed bool            `json:"interaction_allowed"`
}
