package platform

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"fusion_talk/internal/common"
)

func TestMessengerSendMessageText(t *testing.T) {
	var gotPath, gotToken string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.URL.Query().Get("access_token")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"recipient_id":"U999","message_id":"mid.abc"}`))
	}))
	defer server.Close()

	client := NewMessengerClient(server.URL, 5*time.Second)
	messageId, err := client.SendMessage(context.Background(), "page-token", "U999", OutboundMessage{
		Content:     "hello",
		ContentType: "text",
	})

	assert.NoError(t, err)
	assert.Equal(t, "mid.abc", messageId, "Phải trả về message_id từ Graph API")
	assert.Equal(t, "/me/messages", gotPath)
	assert.Equal(t, "page-token", gotToken)

	recipient := gotBody["recipient"].(map[string]interface{})
	assert.Equal(t, "U999", recipient["id"])
	message := gotBody["message"].(map[string]interface{})
	assert.Equal(t, "hello", message["text"])
}

func TestMessengerSendMessageImage(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"message_id":"mid.img"}`))
	}))
	defer server.Close()

	client := NewMessengerClient(server.URL, 5*time.Second)
	_, err := client.SendMessage(context.Background(), "token", "U999", OutboundMessage{
		ContentType: "image",
		MediaUrl:    "https://cdn.example.com/pic.jpg",
	})

	assert.NoError(t, err)
	message := gotBody["message"].(map[string]interface{})
	attachment := message["attachment"].(map[string]interface{})
	assert.Equal(t, "image", attachment["type"])
	payload := attachment["payload"].(map[string]interface{})
	assert.Equal(t, "https://cdn.example.com/pic.jpg", payload["url"])
}

func TestMessengerSendMessageUpstreamRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"message":"Error validating access token"}}`))
	}))
	defer server.Close()

	client := NewMessengerClient(server.URL, 5*time.Second)
	_, err := client.SendMessage(context.Background(), "expired", "U999", OutboundMessage{Content: "hi"})

	assert.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUpstreamSend), "Graph API từ chối phải trả về ErrUpstreamSend")
}

func TestMessengerGetProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/U999", r.URL.Path)
		assert.Equal(t, "name,profile_pic", r.URL.Query().Get("fields"))
		w.Write([]byte(`{"name":"Bob","profile_pic":"https://cdn/bob.jpg","id":"U999"}`))
	}))
	defer server.Close()

	client := NewMessengerClient(server.URL, 5*time.Second)
	profile, err := client.GetProfile(context.Background(), "token", "U999")

	assert.NoError(t, err)
	assert.Equal(t, "Bob", profile.DisplayName)
	assert.Equal(t, "https://cdn/bob.jpg", profile.AvatarUrl)
}

func TestVerifyMessengerSignature(t *testing.T) {
	appSecret := "app-secret"
	body := []byte(`{"object":"page","entry":[]}`)

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	validHeader := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	assert.True(t, VerifyMessengerSignature(appSecret, body, validHeader), "Chữ ký đúng phải pass")
	assert.False(t, VerifyMessengerSignature(appSecret, body, ""), "Thiếu header phải fail")
	assert.False(t, VerifyMessengerSignature(appSecret, body, "sha1=abc"), "Prefix sai phải fail")
	assert.False(t, VerifyMessengerSignature(appSecret, body, "sha256=zzzz"), "Hex không hợp lệ phải fail")
	assert.False(t, VerifyMessengerSignature("secret-khác", body, validHeader), "Secret khác phải fail")
}
