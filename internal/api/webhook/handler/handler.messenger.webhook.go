package webhookhdl

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"

	chatdto "fusion_talk/internal/api/chat/dto"
	chatmodels "fusion_talk/internal/api/chat/models"
	webhookdto "fusion_talk/internal/api/webhook/dto"
	webhookmodels "fusion_talk/internal/api/webhook/models"
	"fusion_talk/internal/global"
	"fusion_talk/internal/platform"
)

// normalizeMessengerMessage dịch message Messenger sang (content, contentType, mediaUrl).
// Attachment ảnh mang URL dùng được ngay từ CDN của Facebook.
func normalizeMessengerMessage(message *webhookdto.MessengerMessage) (string, string, string) {
	for _, attachment := range message.Attachments {
		if attachment.Type == "image" && attachment.Payload.Url != "" {
			return message.Text, chatmodels.ContentTypeImage, attachment.Payload.Url
		}
	}
	return message.Text, chatmodels.ContentTypeText, ""
}

// HandleMessengerVerify xử lý handshake subscribe của Messenger:
// echo hub.challenge khi verify token khớp, 403 khi không.
func (h *WebhookHandler) HandleMessengerVerify(c fiber.Ctx) error {
	mode := c.Query("hub.mode")
	verifyToken := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && verifyToken != "" && verifyToken == global.ServerConfig.MessengerVerifyToken {
		return c.Status(fiber.StatusOK).SendString(challenge)
	}
	return c.SendStatus(fiber.StatusForbidden)
}

// HandleMessengerWebhook nhận webhook của Messenger. Chữ ký X-Hub-Signature-256
// verify bằng app secret chung; kênh nhận xác định theo entry.id (page ID).
func (h *WebhookHandler) HandleMessengerWebhook(c fiber.Ctx) error {
	rawBody := append([]byte(nil), c.Body()...)

	if global.ServerConfig.MessengerAppSecret != "" {
		if !platform.VerifyMessengerSignature(global.ServerConfig.MessengerAppSecret, rawBody, c.Get("X-Hub-Signature-256")) {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
	}

	var payload webhookdto.MessengerWebhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		logrus.WithField("error", err.Error()).Warn("Messenger webhook: body không phải JSON hợp lệ")
		return c.Status(fiber.StatusOK).SendString("EVENT_RECEIVED")
	}
	if payload.Object != "page" {
		return c.Status(fiber.StatusOK).SendString("EVENT_RECEIVED")
	}

	logEntry, logErr := h.webhookLogService.LogReceived(c.Context(), chatmodels.PlatformMessenger, "", string(rawBody))
	if logErr != nil {
		logrus.WithField("error", logErr.Error()).Error("Messenger webhook: không ghi được webhook log")
	}

	recorded := 0
	var processErr error
	for _, entry := range payload.Entry {
		channel, err := h.channelService.FindActiveByPlatformKey(c.Context(), chatmodels.PlatformMessenger, entry.Id)
		if err != nil {
			logrus.WithField("pageId", entry.Id).Warn("Messenger webhook: không tìm thấy kênh active cho page")
			continue
		}
		accessToken, err := h.channelService.DecryptedAccessToken(channel)
		if err != nil {
			accessToken = ""
		}

		for _, messaging := range entry.Messaging {
			// Echo là bản sao tin nhắn page tự gửi (đã ghi nhận lúc gửi qua API) — bỏ qua
			if messaging.Message == nil || messaging.Message.IsEcho || messaging.Sender.Id == "" {
				continue
			}

			exists, err := h.chatService.HasMessage(c.Context(), chatmodels.PlatformMessenger, channel.ChannelKey, messaging.Sender.Id, messaging.Message.Mid)
			if err == nil && exists {
				continue
			}

			content, contentType, mediaUrl := normalizeMessengerMessage(messaging.Message)
			input := &chatdto.InboundMessageInput{
				Platform:    chatmodels.PlatformMessenger,
				ChannelId:   channel.ChannelKey,
				CustomerId:  messaging.Sender.Id,
				Content:     content,
				ContentType: contentType,
				MediaUrl:    mediaUrl,
				MessageId:   messaging.Message.Mid,
			}

			if accessToken != "" {
				profileCtx, cancel := context.WithTimeout(c.Context(), profileTimeout())
				if profile, err := h.messengerClient.GetProfile(profileCtx, accessToken, messaging.Sender.Id); err == nil {
					input.CustomerName = profile.DisplayName
					input.AvatarUrl = profile.AvatarUrl
				}
				cancel()
			}

			if _, err := h.chatService.RecordInbound(c.Context(), input); err != nil {
				logrus.WithFields(logrus.Fields{
					"channelId":  channel.ChannelKey,
					"customerId": messaging.Sender.Id,
					"error":      err.Error(),
				}).Error("Messenger webhook: lỗi ghi nhận tin nhắn inbound")
				processErr = err
				continue
			}
			recorded++
		}
	}

	if logEntry != nil {
		status := webhookmodels.WebhookStatusProcessed
		errorMessage := ""
		if processErr != nil {
			status = webhookmodels.WebhookStatusFailed
			errorMessage = processErr.Error()
		} else if recorded == 0 {
			status = webhookmodels.WebhookStatusSkipped
		}
		_ = h.webhookLogService.UpdateStatus(c.Context(), logEntry.ID, status, errorMessage)
	}

	return c.Status(fiber.StatusOK).SendString("EVENT_RECEIVED")
}
