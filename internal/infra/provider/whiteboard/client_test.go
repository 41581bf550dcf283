package whiteboard

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_AuthInfo(t *testing.T) {
	c := NewClient(Config{AppSecret: "secret"})
	c.now = func() time.Time { return time.Unix(1700000000, 0) }

	auth := c.AuthInfo()

	assert.Len(t, auth.Nonce, 32)
	assert.Equal(t, int64(1700000000), auth.CurTime)
	assert.Equal(t, checksum("secret", auth.Nonce, 1700000000), auth.Checksum)
}

func TestClient_Create_Success(t *testing.T) {
	var body createRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "key", r.Header.Get("AppKey"))
		assert.NotEmpty(t, r.Header.Get("CheckSum"))
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))
		_, _ = w.Write([]byte(`{"code":200,"cid":"cid-1"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{AppKey: "key", AppSecret: "s", CreateURL: srv.URL, ChannelDestroyTime: time.Hour})
	c.now = func() time.Time { return time.Unix(1000, 0) }

	result, err := c.Create(context.Background(), "board1", "数学课")

	require.NoError(t, err)
	assert.Equal(t, 200, result.Code)
	assert.Equal(t, "cid-1", result.Cid)
	assert.Equal(t, "board1", result.BoardID)
	assert.Equal(t, "数学课", result.BoardTitle)
	assert.Equal(t, "key", result.AppKey)
	assert.Equal(t, "board1", body.ChannelName)
	assert.Equal(t, 2, body.Mode)
	assert.True(t, body.Persistent)
	assert.Equal(t, int64(1000+3600), body.ChannelDestroyTime)
}

func TestClient_Create_ErrorCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":414,"errmsg":"bad channel"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{CreateURL: srv.URL})
	result, err := c.Create(context.Background(), "board1", "t")

	require.NoError(t, err)
	assert.Equal(t, 414, result.Code)
	assert.Equal(t, "bad channel", result.Message)
	assert.Empty(t, result.Cid)
}

func TestClient_Delete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/rooms/cid-1", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(Config{DeleteURL: srv.URL + "/rooms/"})
	code, err := c.Delete(context.Background(), "cid-1")

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, code)
}
