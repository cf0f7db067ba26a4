package platform

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"fusion_talk/internal/common"
)

// LineClient gọi LINE Messaging API.
type LineClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewLineClient tạo client LINE với endpoint và timeout cấu hình được
// (endpoint override được khi test với httptest).
func NewLineClient(baseURL string, timeout time.Duration) *LineClient {
	return &LineClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// lineMessage là một message trong body push của LINE.
type lineMessage struct {
	Type               string `json:"type"`
	Text               string `json:"text,omitempty"`
	OriginalContentUrl string `json:"originalContentUrl,omitempty"`
	PreviewImageUrl    string `json:"previewImageUrl,omitempty"`
}

// SendMessage đẩy tin nhắn qua POST /v2/bot/message/push với bearer token của kênh.
func (c *LineClient) SendMessage(ctx context.Context, accessToken, recipientId string, message OutboundMessage) (string, error) {
	var msg lineMessage
	if message.ContentType == "image" && message.MediaUrl != "" {
		msg = lineMessage{
			Type:               "image",
			OriginalContentUrl: message.MediaUrl,
			PreviewImageUrl:    message.MediaUrl,
		}
	} else {
		msg = lineMessage{Type: "text", Text: message.Content}
	}

	body, err := json.Marshal(map[string]interface{}{
		"to":       recipientId,
		"messages": []lineMessage{msg},
	})
	if err != nil {
		return "", common.NewError(common.ErrCodeInternalServer, "Lỗi tạo body gửi LINE", common.StatusInternalServerError, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/bot/message/push", bytes.NewReader(body))
	if err != nil {
		return "", common.NewError(common.ErrCodeInternalServer, "Lỗi tạo request gửi LINE", common.StatusInternalServerError, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logrus.WithFields(logrus.Fields{"recipientId": recipientId, "error": err.Error()}).Error("LINE push: lỗi mạng hoặc timeout")
		return "", common.ErrUpstreamSend
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logrus.WithFields(logrus.Fields{
			"recipientId": recipientId,
			"status":      resp.StatusCode,
			"body":        string(respBody),
		}).Error("LINE push: nền tảng từ chối")
		return "", common.ErrUpstreamSend
	}

	// LINE trả về id của các message đã gửi (có thể vắng ở API cũ)
	var pushResp struct {
		SentMessages []struct {
			Id string `json:"id"`
		} `json:"sentMessages"`
	}
	if err := json.Unmarshal(respBody, &pushResp); err == nil && len(pushResp.SentMessages) > 0 {
		return pushResp.SentMessages[0].Id, nil
	}
	return "", nil
}

// GetProfile lấy profile khách hàng qua GET /v2/bot/profile/{userId}.
func (c *LineClient) GetProfile(ctx context.Context, accessToken, userId string) (*Profile, error) {
	url := fmt.Sprintf("%s/v2/bot/profile/%s", c.baseURL, userId)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, "Lỗi tạo request lấy profile LINE", common.StatusInternalServerError, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, common.NewError(common.ErrCodeUpstreamProfile, "Lỗi khi lấy profile từ LINE", common.StatusBadGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, common.NewError(common.ErrCodeUpstreamProfile, "LINE từ chối yêu cầu lấy profile", common.StatusBadGateway, string(respBody))
	}

	var profileResp struct {
		DisplayName   string `json:"displayName"`
		PictureUrl    string `json:"pictureUrl"`
		StatusMessage string `json:"statusMessage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profileResp); err != nil {
		return nil, common.NewError(common.ErrCodeUpstreamProfile, "Lỗi đọc profile từ LINE", common.StatusBadGateway, err)
	}

	return &Profile{
		DisplayName: profileResp.DisplayName,
		AvatarUrl:   profileResp.PictureUrl,
		StatusText:  profileResp.StatusMessage,
	}, nil
}

// VerifyLineSignature verify chữ ký X-Line-Signature của webhook:
// HMAC-SHA256 của raw body với channel secret, mã hóa base64.
func VerifyLineSignature(channelSecret string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	expected, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(channelSecret))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), expected)
}
