package aliyun

import (
	"context"
	"fmt"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/dto"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/provider"
)

var _ provider.VodProvider = (*Vod)(nil)

// Vod 点播媒资查询
type Vod struct {
	client   *Client
	endpoint string
}

func NewVod(client *Client, endpoint string) *Vod {
	if client == nil {
		panic("aliyun client cannot be nil for Vod")
	}
	if endpoint == "" {
		endpoint = VodEndpoint
	}
	return &Vod{client: client, endpoint: endpoint}
}

// SearchByTitle 按标题精确匹配，返回第一个媒资 ID
func (v *Vod) SearchByTitle(ctx context.Context, title string) (string, error) {
	var resp struct {
		MediaList []struct {
			MediaID string `json:"MediaId"`
		} `json:"MediaList"`
	}
	err := v.client.Call(ctx, v.endpoint, VodVersion, "SearchMedia", map[string]string{
		"Match": fmt.Sprintf("Title='%s'", title),
	}, &resp)
	if err != nil {
		return "", err
	}
	if len(resp.MediaList) == 0 {
		return "", nil
	}
	return resp.MediaList[0].MediaID, nil
}

type playInfo struct {
	BitDepth     int    `json:"BitDepth"`
	Bitrate      string `json:"Bitrate"`
	CreationTime string `json:"CreationTime"`
	Definition   string `json:"Definition"`
	Duration     string `json:"Duration"`
	Encrypt      int64  `json:"Encrypt"`
	EncryptType  string `json:"EncryptType"`
	Format       string `json:"Format"`
	Fps          string `json:"Fps"`
	HDRType      string `json:"HDRType"`
	Height       int64  `json:"Height"`
	Width        int64  `json:"Width"`
	PlayURL      string `json:"PlayURL"`
	Size         int64  `json:"Size"`
	Status       string `json:"Status"`
	StreamType   string `json:"StreamType"`
	WatermarkID  string `json:"WatermarkId"`
}

// PlayInfo 获取媒资的全部播放地址
func (v *Vod) PlayInfo(ctx context.Context, mediaID string) (*dto.VodInfo, error) {
	var resp struct {
		PlayInfoList struct {
			PlayInfo []playInfo `json:"PlayInfo"`
		} `json:"PlayInfoList"`
	}
	err := v.client.Call(ctx, v.endpoint, VodVersion, "GetPlayInfo", map[string]string{
		"VideoId": mediaID,
	}, &resp)
	if err != nil {
		return nil, err
	}

	infos := make([]dto.PlayInfo, 0, len(resp.PlayInfoList.PlayInfo))
	for _, p := range resp.PlayInfoList.PlayInfo {
		infos = append(infos, dto.PlayInfo{
			BitDepth:     p.BitDepth,
			BitRate:      p.Bitrate,
			CreationTime: p.CreationTime,
			Definition:   p.Definition,
			Duration:     p.Duration,
			Encrypt:      p.Encrypt,
			EncryptType:  p.EncryptType,
			Format:       p.Format,
			Fps:          p.Fps,
			HDRType:      p.HDRType,
			Height:       p.Height,
			Width:        p.Width,
			PlayURL:      p.PlayURL,
			Size:         p.Size,
			Status:       p.Status,
			StreamType:   p.StreamType,
			WatermarkID:  p.WatermarkID,
		})
	}
	return &dto.VodInfo{Status: dto.VodStatusOK, PlayInfos: infos}, nil
}
