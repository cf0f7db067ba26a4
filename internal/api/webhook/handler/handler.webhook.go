// Package webhookhdl nhận và xử lý webhook từ các nền tảng nhắn tin.
// Webhook không qua auth middleware — xác thực bằng chữ ký của nền tảng.
// Quy trình chung: log raw payload → verify chữ ký → chuẩn hóa từng sự kiện
// message → dedup theo message id → ghi nhận vào hội thoại. Luôn trả 200 cho
// sự kiện đã nhận hợp lệ để nền tảng không giao lại.
package webhookhdl

import (
	"fmt"
	"time"

	chatsvc "fusion_talk/internal/api/chat/service"
	channelsvc "fusion_talk/internal/api/channel/service"
	webhooksvc "fusion_talk/internal/api/webhook/service"
	"fusion_talk/internal/bus"
	"fusion_talk/internal/global"
	"fusion_talk/internal/platform"
)

// WebhookHandler xử lý webhook của cả hai nền tảng.
type WebhookHandler struct {
	chatService       *chatsvc.ChatService
	channelService    *channelsvc.ChannelService
	webhookLogService *webhooksvc.WebhookLogService
	lineClient        *platform.LineClient
	messengerClient   *platform.MessengerClient
}

// NewWebhookHandler tạo instance mới của WebhookHandler.
func NewWebhookHandler(eventBus *bus.Bus) (*WebhookHandler, error) {
	chatService, err := chatsvc.NewChatService(eventBus)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat service: %v", err)
	}
	channelService, err := channelsvc.NewChannelService()
	if err != nil {
		return nil, fmt.Errorf("failed to create channel service: %v", err)
	}
	webhookLogService, err := webhooksvc.NewWebhookLogService()
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook log service: %v", err)
	}

	timeout := time.Duration(global.ServerConfig.PlatformSendTimeout) * time.Second
	return &WebhookHandler{
		chatService:       chatService,
		channelService:    channelService,
		webhookLogService: webhookLogService,
		lineClient:        platform.NewLineClient(global.ServerConfig.LineAPIBaseURL, timeout),
		messengerClient:   platform.NewMessengerClient(global.ServerConfig.GraphAPIBaseURL, timeout),
	}, nil
}

// profileTimeout trả về timeout cho lời gọi lấy profile (best-effort).
func profileTimeout() time.Duration {
	return time.Duration(global.ServerConfig.PlatformSendTimeout) * time.Second
}
