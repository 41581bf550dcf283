package bootstrap

import (
	"github.com/sirupsen/logrus"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/infra/provider/aliyun"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/infra/provider/rongcloud"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/infra/provider/whiteboard"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/provider"
)

// Providers 外部服务的具体实现。未配置的能力为 nil。
type Providers struct {
	Channels   provider.ChannelTable
	Live       *aliyun.Live
	Vod        *aliyun.Vod
	Metrics    *aliyun.LegacyIM
	RongCloud  *rongcloud.Client
	Whiteboard *whiteboard.Client
}

// NewProviders 按配置创建各通道。缺少凭证的通道不注册，请求该通道时按未配置处理。
func NewProviders(cfg *Config, log *logrus.Logger) *Providers {
	p := &Providers{Channels: provider.ChannelTable{}}

	p.Live = aliyun.NewLive(aliyun.LiveConfig{
		PushURL:         cfg.Live.PushURL,
		PullURL:         cfg.Live.PullURL,
		PushAuthKey:     cfg.Live.PushAuthKey,
		PullAuthKey:     cfg.Live.PullAuthKey,
		AppName:         cfg.Live.AppName,
		AuthExpires:     cfg.Live.AuthExpires,
		MicAppID:        cfg.Live.MicAppID,
		MicAppKey:       cfg.Live.MicAppKey,
		CallbackAuthKey: cfg.Live.CallbackAuthKey,
	})

	if cfg.Aliyun.AccessKeyID != "" && cfg.Aliyun.AccessKeySecret != "" {
		client := aliyun.NewClient(aliyun.ClientConfig{
			AccessKeyID:     cfg.Aliyun.AccessKeyID,
			AccessKeySecret: cfg.Aliyun.AccessKeySecret,
			RegionID:        cfg.Aliyun.RegionID,
			Timeout:         cfg.Aliyun.Timeout,
			QPS:             cfg.Aliyun.QPS,
		})
		p.Vod = aliyun.NewVod(client, cfg.Aliyun.VodEndpoint)

		if cfg.Aliyun.IMAppID != "" {
			legacy := aliyun.NewLegacyIM(client, cfg.Aliyun.LiveEndpoint, cfg.Aliyun.IMAppID)
			p.Metrics = legacy
			p.Channels[domain.ChannelLegacy] = provider.Channel{Groups: legacy, Messages: legacy, Tokens: legacy}
		} else {
			log.Warn("ALIYUN_IM_APP_ID not set, channel aliyun_old_im disabled")
		}

		if cfg.Aliyun.NewIMAppID != "" && cfg.Aliyun.NewIMAppKey != "" {
			current := aliyun.NewCurrentIM(client, cfg.Aliyun.NewIMEndpoint, aliyun.CurrentIMConfig{
				AppID:   cfg.Aliyun.NewIMAppID,
				AppKey:  cfg.Aliyun.NewIMAppKey,
				AppSign: cfg.Aliyun.NewIMAppSign,
			})
			p.Channels[domain.ChannelCurrent] = provider.Channel{Groups: current, Messages: current, Tokens: current}
		} else {
			log.Warn("ALIYUN_NEW_IM_APP_ID/ALIYUN_NEW_IM_APP_KEY not set, channel aliyun_new_im disabled")
		}
	} else {
		log.Warn("Aliyun access key not set, vod and aliyun IM channels disabled")
	}

	if cfg.RongCloud.AppKey != "" && cfg.RongCloud.AppSecret != "" {
		p.RongCloud = rongcloud.NewClient(rongcloud.Config{
			APIURL:    cfg.RongCloud.APIURL,
			AppKey:    cfg.RongCloud.AppKey,
			AppSecret: cfg.RongCloud.AppSecret,
			Timeout:   cfg.RongCloud.Timeout,
		})
		p.Channels[domain.ChannelThirdParty] = provider.Channel{Groups: p.RongCloud, Messages: p.RongCloud, Tokens: p.RongCloud}
	} else {
		log.Warn("RONGCLOUD_APP_KEY/RONGCLOUD_APP_SECRET not set, channel rong_cloud disabled")
	}

	if cfg.Whiteboard.AppKey != "" && cfg.Whiteboard.AppSecret != "" {
		p.Whiteboard = whiteboard.NewClient(whiteboard.Config{
			AppKey:             cfg.Whiteboard.AppKey,
			AppSecret:          cfg.Whiteboard.AppSecret,
			CreateURL:          cfg.Whiteboard.CreateURL,
			DeleteURL:          cfg.Whiteboard.DeleteURL,
			ChannelDestroyTime: cfg.Whiteboard.ChannelDestroyTime,
			Timeout:            cfg.Whiteboard.Timeout,
		})
	} else {
		log.Warn("Whiteboard credentials not set, whiteboard disabled")
	}

	return p
}

// 以下转换避免把 nil 指针装进非 nil 接口

func (p *Providers) vod() provider.VodProvider {
	if p.Vod == nil {
		return nil
	}
	return p.Vod
}

func (p *Providers) metrics() provider.GroupMetricsProvider {
	if p.Metrics == nil {
		return nil
	}
	return p.Metrics
}

func (p *Providers) whiteboard() provider.WhiteboardProvider {
	if p.Whiteboard == nil {
		return nil
	}
	return p.Whiteboard
}

func (p *Providers) moderator() provider.ChatroomModerator {
	if p.RongCloud == nil {
		return nil
	}
	return p.RongCloud
}
