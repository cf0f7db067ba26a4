package platform

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"fusion_talk/internal/common"
)

// MessengerClient gọi Facebook Graph API (Messenger Platform).
type MessengerClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewMessengerClient tạo client Messenger với endpoint và timeout cấu hình được.
func NewMessengerClient(baseURL string, timeout time.Duration) *MessengerClient {
	return &MessengerClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// SendMessage gửi tin nhắn qua POST /{pageId}/messages của Graph API.
// recipientId là PSID của khách hàng; page được xác định bởi access token.
func (c *MessengerClient) SendMessage(ctx context.Context, accessToken, recipientId string, message OutboundMessage) (string, error) {
	var messagePart map[string]interface{}
	if message.ContentType == "image" && message.MediaUrl != "" {
		messagePart = map[string]interface{}{
			"attachment": map[string]interface{}{
				"type": "image",
				"payload": map[string]interface{}{
					"url":         message.MediaUrl,
					"is_reusable": true,
				},
			},
		}
	} else {
		messagePart = map[string]interface{}{"text": message.Content}
	}

	body, err := json.Marshal(map[string]interface{}{
		"recipient":      map[string]string{"id": recipientId},
		"messaging_type": "RESPONSE",
		"message":        messagePart,
	})
	if err != nil {
		return "", common.NewError(common.ErrCodeInternalServer, "Lỗi tạo body gửi Messenger", common.StatusInternalServerError, err)
	}

	sendURL := fmt.Sprintf("%s/me/messages?access_token=%s", c.baseURL, url.QueryEscape(accessToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendURL, bytes.NewReader(body))
	if err != nil {
		return "", common.NewError(common.ErrCodeInternalServer, "Lỗi tạo request gửi Messenger", common.StatusInternalServerError, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithFields(logrus.Fields{"recipientId": recipientId, "error": err.Error()}).Error("Messenger send: lỗi mạng hoặc timeout")
		return "", common.ErrUpstreamSend
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logrus.WithFields(logrus.Fields{
			"recipientId": recipientId,
			"status":      resp.StatusCode,
			"body":        string(respBody),
		}).Error("Messenger send: nền tảng từ chối")
		return "", common.ErrUpstreamSend
	}

	var sendResp struct {
		MessageId string `json:"message_id"`
	}
	if err := json.Unmarshal(respBody, &sendResp); err == nil {
		return sendResp.MessageId, nil
	}
	return "", nil
}

// GetProfile lấy tên và ảnh đại diện của khách hàng qua GET /{psid}.
func (c *MessengerClient) GetProfile(ctx context.Context, accessToken, userId string) (*Profile, error) {
	profileURL := fmt.Sprintf("%s/%s?fields=name,profile_pic&access_token=%s", c.baseURL, userId, url.QueryEscape(accessToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, profileURL, nil)
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, "Lỗi tạo request lấy profile Messenger", common.StatusInternalServerError, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, common.NewError(common.ErrCodeUpstreamProfile, "Lỗi khi lấy profile từ Messenger", common.StatusBadGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, common.NewError(common.ErrCodeUpstreamProfile, "Messenger từ chối yêu cầu lấy profile", common.StatusBadGateway, string(respBody))
	}

	var profileResp struct {
		Name       string `json:"name"`
		ProfilePic string `json:"profile_pic"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profileResp); err != nil {
		return nil, common.NewError(common.ErrCodeUpstreamProfile, "Lỗi đọc profile từ Messenger", common.StatusBadGateway, err)
	}

	return &Profile{
		DisplayName: profileResp.Name,
		AvatarUrl:   profileResp.ProfilePic,
	}, nil
}

// VerifyMessengerSignature verify chữ ký X-Hub-Signature-256 của webhook:
// "sha256=" + HMAC-SHA256 hex của raw body với app secret.
func VerifyMessengerSignature(appSecret string, body []byte, header string) bool {
	const prefix = "sha256="
	if !strings.HasPrefix(header, prefix) {
		return false
	}
	expected, err := hex.DecodeString(strings.TrimPrefix(header, prefix))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(appSecret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), expected)
}
