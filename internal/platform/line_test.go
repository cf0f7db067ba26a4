// Package platform - Test LINE client với httptest server và verify chữ ký webhook.
package platform

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fusion_talk/internal/common"
)

func TestLineSendMessageText(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sentMessages":[{"id":"line-msg-42"}]}`))
	}))
	defer server.Close()

	client := NewLineClient(server.URL, 5*time.Second)
	messageId, err := client.SendMessage(context.Background(), "token-abc", "U123", OutboundMessage{
		Content:     "xin chào",
		ContentType: "text",
	})

	assert.NoError(t, err)
	assert.Equal(t, "line-msg-42", messageId, "Phải trả về message id từ response của LINE")
	assert.Equal(t, "/v2/bot/message/push", gotPath)
	assert.Equal(t, "Bearer token-abc", gotAuth)
	assert.Equal(t, "U123", gotBody["to"])

	messages := gotBody["messages"].([]interface{})
	first := messages[0].(map[string]interface{})
	assert.Equal(t, "text", first["type"])
	assert.Equal(t, "xin chào", first["text"])
}

func TestLineSendMessageImage(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewLineClient(server.URL, 5*time.Second)
	_, err := client.SendMessage(context.Background(), "token", "U123", OutboundMessage{
		ContentType: "image",
		MediaUrl:    "https://cdn.example.com/pic.jpg",
	})

	assert.NoError(t, err)
	messages := gotBody["messages"].([]interface{})
	first := messages[0].(map[string]interface{})
	assert.Equal(t, "image", first["type"])
	assert.Equal(t, "https://cdn.example.com/pic.jpg", first["originalContentUrl"])
	assert.Equal(t, "https://cdn.example.com/pic.jpg", first["previewImageUrl"])
}

func TestLineSendMessageUpstreamRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Invalid access token"}`))
	}))
	defer server.Close()

	client := NewLineClient(server.URL, 5*time.Second)
	_, err := client.SendMessage(context.Background(), "expired-token", "U123", OutboundMessage{Content: "hi"})

	assert.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUpstreamSend), "Nền tảng từ chối phải trả về ErrUpstreamSend")
}

func TestLineGetProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/bot/profile/U123", r.URL.Path)
		w.Write([]byte(`{"displayName":"Alice","pictureUrl":"https://cdn/pic.jpg","statusMessage":"busy"}`))
	}))
	defer server.Close()

	client := NewLineClient(server.URL, 5*time.Second)
	profile, err := client.GetProfile(context.Background(), "token", "U123")

	assert.NoError(t, err)
	assert.Equal(t, "Alice", profile.DisplayName)
	assert.Equal(t, "https://cdn/pic.jpg", profile.AvatarUrl)
	assert.Equal(t, "busy", profile.StatusText)
}

func TestVerifyLineSignature(t *testing.T) {
	secret := "channel-secret"
	body := []byte(`{"events":[]}`)

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	validSignature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	assert.True(t, VerifyLineSignature(secret, body, validSignature), "Chữ ký đúng phải pass")
	assert.False(t, VerifyLineSignature(secret, body, ""), "Thiếu chữ ký phải fail")
	assert.False(t, VerifyLineSignature(secret, body, "không phải base64!!"), "Chữ ký không decode được phải fail")
	assert.False(t, VerifyLineSignature("secret-khác", body, validSignature), "Secret khác phải fail")
	assert.False(t, VerifyLineSignature(secret, []byte("body khác"), validSignature), "Body bị sửa phải fail")
}
