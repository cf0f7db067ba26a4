// Package webhookhdl - Test chuẩn hóa payload webhook thành (content, contentType, mediaUrl).
package webhookhdl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	chatmodels "fusion_talk/internal/api/chat/models"
	webhookdto "fusion_talk/internal/api/webhook/dto"
)

func TestNormalizeLineMessageText(t *testing.T) {
	content, contentType, mediaUrl := normalizeLineMessage(&webhookdto.LineEventMessage{
		Id:   "m1",
		Type: "text",
		Text: "xin chào",
	})
	assert.Equal(t, "xin chào", content)
	assert.Equal(t, chatmodels.ContentTypeText, contentType)
	assert.Empty(t, mediaUrl)
}

func TestNormalizeLineMessageImage(t *testing.T) {
	content, contentType, mediaUrl := normalizeLineMessage(&webhookdto.LineEventMessage{
		Id:   "m2",
		Type: "image",
	})
	// Ảnh LINE không có URL sẵn — content rỗng, service sẽ thay bằng fallback
	assert.Empty(t, content)
	assert.Equal(t, chatmodels.ContentTypeImage, contentType)
	assert.Empty(t, mediaUrl)
}

func TestNormalizeLineMessageUnrecognized(t *testing.T) {
	content, contentType, _ := normalizeLineMessage(&webhookdto.LineEventMessage{
		Id:   "m3",
		Type: "sticker",
	})
	assert.Equal(t, "Sent a sticker", content, "Loại không nhận diện được phải có fallback theo loại")
	assert.Equal(t, chatmodels.ContentTypeText, contentType)
}

func TestNormalizeMessengerMessageText(t *testing.T) {
	content, contentType, mediaUrl := normalizeMessengerMessage(&webhookdto.MessengerMessage{
		Mid:  "mid.1",
		Text: "hello",
	})
	assert.Equal(t, "hello", content)
	assert.Equal(t, chatmodels.ContentTypeText, contentType)
	assert.Empty(t, mediaUrl)
}

func TestNormalizeMessengerMessageImageAttachment(t *testing.T) {
	message := &webhookdto.MessengerMessage{Mid: "mid.2"}
	message.Attachments = []webhookdto.MessengerAttachment{{Type: "image"}}
	message.Attachments[0].Payload.Url = "https://cdn.fb.com/pic.jpg"

	content, contentType, mediaUrl := normalizeMessengerMessage(message)
	assert.Empty(t, content)
	assert.Equal(t, chatmodels.ContentTypeImage, contentType)
	assert.Equal(t, "https://cdn.fb.com/pic.jpg", mediaUrl)
}

func TestNormalizeMessengerMessageImageWithCaption(t *testing.T) {
	message := &webhookdto.MessengerMessage{Mid: "mid.3", Text: "nhìn này"}
	message.Attachments = []webhookdto.MessengerAttachment{{Type: "image"}}
	message.Attachments[0].Payload.Url = "https://cdn.fb.com/pic.jpg"

	content, contentType, mediaUrl := normalizeMessengerMessage(message)
	assert.Equal(t, "nhìn này", content, "Caption kèm ảnh phải được giữ lại")
	assert.Equal(t, chatmodels.ContentTypeImage, contentType)
	assert.Equal(t, "https://cdn.fb.com/pic.jpg", mediaUrl)
}

func TestNormalizeMessengerMessageNonImageAttachment(t *testing.T) {
	message := &webhookdto.MessengerMessage{Mid: "mid.4"}
	message.Attachments = []webhookdto.MessengerAttachment{{Type: "file"}}

	_, contentType, mediaUrl := normalizeMessengerMessage(message)
	assert.Equal(t, chatmodels.ContentTypeText, contentType, "Attachment không phải ảnh xử lý như text")
	assert.Empty(t, mediaUrl)
}
