package domain

import "strings"

// MessagingChannel 消息通道。取代原来散落各处的字符串分支。
type MessagingChannel int

const (
	ChannelLegacy     MessagingChannel = iota + 1 // 阿里云互动消息 (老 IM)
	ChannelCurrent                                // 阿里云互动消息 (新 IM)
	ChannelThirdParty                             // 融云
)

// 通道的对外名称
const (
	ChannelNameLegacy     = "aliyun_old_im"
	ChannelNameCurrent    = "aliyun_new_im"
	ChannelNameThirdParty = "rong_cloud"
)

var channelNames = map[MessagingChannel]string{
	ChannelLegacy:     ChannelNameLegacy,
	ChannelCurrent:    ChannelNameCurrent,
	ChannelThirdParty: ChannelNameThirdParty,
}

// v1 接口使用的别名
var channelAliases = map[string]MessagingChannel{
	ChannelNameLegacy:     ChannelLegacy,
	ChannelNameCurrent:    ChannelCurrent,
	ChannelNameThirdParty: ChannelThirdParty,
	"aliyun":              ChannelLegacy,
	"rongCloud":           ChannelThirdParty,
}

// AllChannels 按创建顺序列出全部通道 (Legacy 必须先于 Current 创建)
var AllChannels = []MessagingChannel{ChannelLegacy, ChannelCurrent, ChannelThirdParty}

func (c MessagingChannel) String() string {
	if name, ok := channelNames[c]; ok {
		return name
	}
	return "unknown"
}

// ParseChannel 解析通道名称，同时接受 v1 别名
func ParseChannel(s string) (MessagingChannel, bool) {
	ch, ok := channelAliases[s]
	return ch, ok
}

// ParseChannels 解析通道列表并去重。遇到未知名称时返回 false。
func ParseChannels(names []string) ([]MessagingChannel, bool) {
	seen := make(map[MessagingChannel]bool, len(names))
	channels := make([]MessagingChannel, 0, len(names))
	for _, name := range names {
		ch, ok := ParseChannel(name)
		if !ok {
			return nil, false
		}
		if !seen[ch] {
			seen[ch] = true
			channels = append(channels, ch)
		}
	}
	return channels, true
}

// JoinChannels 序列化为 Room.IMServer 的存储格式
func JoinChannels(channels []MessagingChannel) string {
	names := make([]string, 0, len(channels))
	for _, ch := range channels {
		names = append(names, ch.String())
	}
	return strings.Join(names, ",")
}

// ContainsChannel 判断列表中是否包含某通道
func ContainsChannel(channels []MessagingChannel, ch MessagingChannel) bool {
	for _, c := range channels {
		if c == ch {
			return true
		}
	}
	return false
}

// MessageType 课堂成员变动消息的类型
type MessageType int

const (
	MessageTypeJoin MessageType = 11001
	MessageTypeExit MessageType = 11002
	MessageTypeKick MessageType = 11003
)
