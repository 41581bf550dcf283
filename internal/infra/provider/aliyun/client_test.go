package aliyun

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/domain"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/dto"
	"github.com/MediaBox-AUIKits/AUIInteractionClass/internal/provider"
)

func newTestClient() *Client {
	return NewClient(ClientConfig{AccessKeyID: "ak", AccessKeySecret: "secret"})
}

func TestPercentEncode(t *testing.T) {
	assert.Equal(t, "a%20b%2A~", percentEncode("a b*~"))
	assert.Equal(t, "%2F", percentEncode("/"))
}

func TestClient_Call_SignsRequest(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		got = map[string]string{}
		for k := range r.PostForm {
			got[k] = r.PostForm.Get(k)
		}
		_, _ = w.Write([]byte(`{"Result":{"GroupId":"g1"}}`))
	}))
	defer srv.Close()

	c := newTestClient()
	c.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	im := NewLegacyIM(c, srv.URL, "app1")

	groupID, err := im.CreateGroup(context.Background(), "", "teacher1")

	require.NoError(t, err)
	assert.Equal(t, "g1", groupID)
	assert.Equal(t, "CreateMessageGroup", got["Action"])
	assert.Equal(t, "app1", got["AppId"])
	assert.Equal(t, "teacher1", got["CreatorId"])
	assert.Equal(t, "2024-01-02T03:04:05Z", got["Timestamp"])
	assert.Equal(t, LiveVersion, got["Version"])

	// 用同样的参数重新计算签名应一致
	signature := got["Signature"]
	delete(got, "Signature")
	assert.Equal(t, c.sign(http.MethodPost, got), signature)
}

func TestClient_Call_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"Code":"InvalidParam","Message":"bad","RequestId":"r1"}`))
	}))
	defer srv.Close()

	im := NewLegacyIM(newTestClient(), srv.URL, "app1")
	_, err := im.CreateGroup(context.Background(), "", "teacher1")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "InvalidParam", apiErr.Code)
	assert.Equal(t, "r1", apiErr.RequestID)
}

func TestLegacyIM_SendToGroup(t *testing.T) {
	var form map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = map[string]string{
			"Type":           r.PostForm.Get("Type"),
			"Data":           r.PostForm.Get("Data"),
			"OperatorUserId": r.PostForm.Get("OperatorUserId"),
			"SkipAudit":      r.PostForm.Get("SkipAudit"),
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	im := NewLegacyIM(newTestClient(), srv.URL, "app1")
	err := im.SendToGroup(context.Background(), "g1", domain.MessageTypeKick, &dto.ClassMember{ClassID: "c1", UserID: "u1"})

	require.NoError(t, err)
	assert.Equal(t, "11003", form["Type"])
	assert.Equal(t, "System", form["OperatorUserId"])
	assert.Equal(t, "true", form["SkipAudit"])
	assert.Contains(t, form["Data"], `"user_id":"u1"`)
}

func TestLegacyIM_UserMuteStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "teacher1", r.PostForm.Get("UserIdList.1"))
		_, _ = w.Write([]byte(`{"Result":{"UserList":[{"IsMute":true,"MuteBy":["group"]}]}}`))
	}))
	defer srv.Close()

	im := NewLegacyIM(newTestClient(), srv.URL, "app1")
	status, err := im.UserMuteStatus(context.Background(), "g1", "teacher1")

	require.NoError(t, err)
	require.NotNil(t, status)
	assert.True(t, status.Mute)
	assert.Equal(t, []string{"group"}, status.MuteSource)
}

func TestCurrentIM_IssueToken(t *testing.T) {
	im := NewCurrentIM(newTestClient(), "", CurrentIMConfig{AppID: "a", AppKey: "k", AppSign: "s"})
	im.now = func() time.Time { return time.Unix(1000, 0) }

	token, err := im.IssueToken(context.Background(), provider.TokenRequest{UserID: "u1"})

	require.NoError(t, err)
	ct, ok := token.(*provider.CurrentToken)
	require.True(t, ok)
	assert.Equal(t, "a", ct.AppID)
	assert.Equal(t, "s", ct.AppSign)
	assert.Equal(t, int64(1000+48*3600), ct.Auth.Timestamp)
	assert.Equal(t, "", ct.Auth.Role)
	assert.Equal(t, sha256Hex("aku1"+ct.Auth.Nonce+"173800"), ct.AppToken)
}

func TestVod_PlayInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"PlayInfoList":{"PlayInfo":[{"PlayURL":"https://v/1.m3u8","Bitrate":"800","Format":"m3u8"}]}}`))
	}))
	defer srv.Close()

	vod := NewVod(newTestClient(), srv.URL)
	info, err := vod.PlayInfo(context.Background(), "m1")

	require.NoError(t, err)
	assert.Equal(t, dto.VodStatusOK, info.Status)
	require.Len(t, info.PlayInfos, 1)
	assert.Equal(t, "https://v/1.m3u8", info.PlayInfos[0].PlayURL)
	assert.Equal(t, "800", info.PlayInfos[0].BitRate)
}
