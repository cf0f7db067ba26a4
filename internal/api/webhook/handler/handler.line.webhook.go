package webhookhdl

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"

	chatdto "fusion_talk/internal/api/chat/dto"
	chatmodels "fusion_talk/internal/api/chat/models"
	chatsvc "fusion_talk/internal/api/chat/service"
	webhookdto "fusion_talk/internal/api/webhook/dto"
	webhookmodels "fusion_talk/internal/api/webhook/models"
	"fusion_talk/internal/platform"
)

// normalizeLineMessage dịch message LINE sang (content, contentType, mediaUrl).
// Ảnh LINE phải tải qua content API riêng nên không có mediaUrl sẵn —
// fallback content đảm nhận phần hiển thị.
func normalizeLineMessage(message *webhookdto.LineEventMessage) (string, string, string) {
	switch message.Type {
	case "text":
		return message.Text, chatmodels.ContentTypeText, ""
	case "image":
		return "", chatmodels.ContentTypeImage, ""
	default:
		return chatsvc.FallbackContent(message.Type), chatmodels.ContentTypeText, ""
	}
}

// HandleLineWebhook nhận webhook của LINE. Kênh nhận xác định qua destination
// (userId của bot), chữ ký X-Line-Signature verify bằng channel secret đã giải mã.
func (h *WebhookHandler) HandleLineWebhook(c fiber.Ctx) error {
	rawBody := append([]byte(nil), c.Body()...)

	var payload webhookdto.LineWebhookPayload
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		logrus.WithField("error", err.Error()).Warn("LINE webhook: body không phải JSON hợp lệ")
		return c.SendStatus(fiber.StatusOK)
	}

	channel, err := h.channelService.FindOne(c.Context(), bson.M{
		"platform":  chatmodels.PlatformLine,
		"botUserId": payload.Destination,
	}, nil)
	if err != nil {
		// Không để lộ kênh nào tồn tại — nhận rồi bỏ qua
		logrus.WithField("destination", payload.Destination).Warn("LINE webhook: không tìm thấy kênh cho destination")
		return c.SendStatus(fiber.StatusOK)
	}

	logEntry, logErr := h.webhookLogService.LogReceived(c.Context(), chatmodels.PlatformLine, channel.ChannelKey, string(rawBody))
	if logErr != nil {
		logrus.WithField("error", logErr.Error()).Error("LINE webhook: không ghi được webhook log")
	}

	secret, err := h.channelService.DecryptedSecret(&channel)
	if err != nil || !platform.VerifyLineSignature(secret, rawBody, c.Get("X-Line-Signature")) {
		if logEntry != nil {
			_ = h.webhookLogService.UpdateStatus(c.Context(), logEntry.ID, webhookmodels.WebhookStatusFailed, "chữ ký không hợp lệ")
		}
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	accessToken, err := h.channelService.DecryptedAccessToken(&channel)
	if err != nil {
		accessToken = "" // profile fetch sẽ bị bỏ qua, message vẫn được ghi nhận
	}

	recorded := 0
	var processErr error
	for _, event := range payload.Events {
		// Chỉ xử lý message từ user cá nhân; follow/unfollow/group bỏ qua
		if event.Type != "message" || event.Message == nil || event.Source.UserId == "" {
			continue
		}

		// Dedup: LINE không đảm bảo at-most-once delivery
		exists, err := h.chatService.HasMessage(c.Context(), chatmodels.PlatformLine, channel.ChannelKey, event.Source.UserId, event.Message.Id)
		if err == nil && exists {
			continue
		}

		content, contentType, mediaUrl := normalizeLineMessage(event.Message)
		input := &chatdto.InboundMessageInput{
			Platform:    chatmodels.PlatformLine,
			ChannelId:   channel.ChannelKey,
			CustomerId:  event.Source.UserId,
			Content:     content,
			ContentType: contentType,
			MediaUrl:    mediaUrl,
			MessageId:   event.Message.Id,
		}

		// Profile best-effort: lỗi không chặn việc ghi nhận tin nhắn
		if accessToken != "" {
			profileCtx, cancel := context.WithTimeout(c.Context(), profileTimeout())
			if profile, err := h.lineClient.GetProfile(profileCtx, accessToken, event.Source.UserId); err == nil {
				input.CustomerName = profile.DisplayName
				input.AvatarUrl = profile.AvatarUrl
				input.StatusText = profile.StatusText
			}
			cancel()
		}

		if _, err := h.chatService.RecordInbound(c.Context(), input); err != nil {
			logrus.WithFields(logrus.Fields{
				"channelId":  channel.ChannelKey,
				"customerId": event.Source.UserId,
				"error":      err.Error(),
			}).Error("LINE webhook: lỗi ghi nhận tin nhắn inbound")
			processErr = err
			continue
		}
		recorded++
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

	return c.SendStatus(fiber.StatusOK)
}
