// Package chathdl xử lý các request của domain chat.
// Domain hội thoại có handler riêng vì các thao tác của nó không phải CRUD thuần:
// gửi tin nhắn đi qua API nền tảng, đánh dấu đã đọc, và các truy vấn inbox.
package chathdl

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"

	basehdl "fusion_talk/internal/api/base/handler"
	chatdto "fusion_talk/internal/api/chat/dto"
	models "fusion_talk/internal/api/chat/models"
	chatsvc "fusion_talk/internal/api/chat/service"
	channelsvc "fusion_talk/internal/api/channel/service"
	"fusion_talk/internal/bus"
	"fusion_talk/internal/common"
	"fusion_talk/internal/global"
	"fusion_talk/internal/platform"
)

// ChatHandler xử lý các request hội thoại: gửi tin, đánh dấu đã đọc,
// danh sách hội thoại và lịch sử tin nhắn.
type ChatHandler struct {
	*basehdl.BaseHandler[models.ChatConversation, chatdto.InboundMessageInput, chatdto.ConversationUpdateInput]
	chatService     *chatsvc.ChatService
	channelService  *channelsvc.ChannelService
	lineClient      *platform.LineClient
	messengerClient *platform.MessengerClient
}

// NewChatHandler tạo instance mới của ChatHandler. eventBus được truyền
// xuống chat service để phát sự kiện thay đổi hội thoại.
func NewChatHandler(eventBus *bus.Bus) (*ChatHandler, error) {
	chatService, err := chatsvc.NewChatService(eventBus)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat service: %v", err)
	}
	channelService, err := channelsvc.NewChannelService()
	if err != nil {
		return nil, fmt.Errorf("failed to create channel service: %v", err)
	}

	timeout := time.Duration(global.ServerConfig.PlatformSendTimeout) * time.Second
	baseHandler := basehdl.NewBaseHandler[models.ChatConversation, chatdto.InboundMessageInput, chatdto.ConversationUpdateInput](chatService)

	return &ChatHandler{
		BaseHandler:     baseHandler,
		chatService:     chatService,
		channelService:  channelService,
		lineClient:      platform.NewLineClient(global.ServerConfig.LineAPIBaseURL, timeout),
		messengerClient: platform.NewMessengerClient(global.ServerConfig.GraphAPIBaseURL, timeout),
	}, nil
}

// parseHistoryLimit đọc query limit của lịch sử tin nhắn: rỗng nghĩa là toàn bộ
// lịch sử; giá trị không phải số hoặc âm bị từ chối thay vì âm thầm cắt về
// trang mặc định.
func parseHistoryLimit(raw string) (int64, error) {
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || limit < 0 {
		return 0, common.NewError(common.ErrCodeValidationInput,
			fmt.Sprintf("Tham số limit không hợp lệ: '%s'", raw),
			common.StatusBadRequest, nil)
	}
	return limit, nil
}

// senderFor trả về adapter tương ứng với nền tảng.
func (h *ChatHandler) senderFor(platformName string) (platform.Sender, error) {
	switch platformName {
	case models.PlatformLine:
		return h.lineClient, nil
	case models.PlatformMessenger:
		return h.messengerClient, nil
	}
	return nil, common.NewError(common.ErrCodeValidationInput,
		fmt.Sprintf("Nền tảng '%s' không được hỗ trợ", platformName),
		common.StatusBadRequest, nil)
}

// HandleSendMessage gửi tin nhắn cho khách hàng: gửi qua API nền tảng trước,
// gửi thành công mới ghi nhận vào hội thoại (send-then-persist) — gửi thất bại
// không để lại message "ma" trong lịch sử.
func (h *ChatHandler) HandleSendMessage(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input chatdto.SendMessageInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		// Chỉ trả lời được khách đã có hội thoại — kiểm tra trước khi gọi nền tảng
		exists, err := h.chatService.ConversationExists(c.Context(), input.Platform, input.ChannelId, input.CustomerId)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		if !exists {
			h.HandleResponse(c, nil, common.ErrConversationNotFound)
			return nil
		}

		channel, err := h.channelService.FindActiveByPlatformKey(c.Context(), input.Platform, input.ChannelId)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		accessToken, err := h.channelService.DecryptedAccessToken(channel)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		sender, err := h.senderFor(input.Platform)
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		sendCtx, cancel := context.WithTimeout(c.Context(),
			time.Duration(global.ServerConfig.PlatformSendTimeout)*time.Second)
		defer cancel()

		platformMessageId, err := sender.SendMessage(sendCtx, accessToken, input.CustomerId, platform.OutboundMessage{
			Content:     input.Content,
			ContentType: input.ContentType,
			MediaUrl:    input.MediaUrl,
		})
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		conversation, err := h.chatService.RecordOutbound(c.Context(), &chatdto.OutboundMessageInput{
			Platform:    input.Platform,
			ChannelId:   input.ChannelId,
			CustomerId:  input.CustomerId,
			Content:     input.Content,
			ContentType: input.ContentType,
			MediaUrl:    input.MediaUrl,
			MessageId:   platformMessageId,
		})
		h.HandleResponse(c, conversation, err)
		return nil
	})
}

// HandleMarkRead đánh dấu hội thoại đã đọc (unreadCount về 0).
func (h *ChatHandler) HandleMarkRead(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input chatdto.MarkReadInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		err := h.chatService.MarkRead(c.Context(), input.Platform, input.ChannelId, input.CustomerId)
		h.HandleResponse(c, nil, err)
		return nil
	})
}

// HandleListConversations trả về trang hội thoại cho inbox, sắp theo
// tin nhắn mới nhất, có thể lọc theo platform/channelId qua query.
func (h *ChatHandler) HandleListConversations(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		page, limit := h.ParsePagination(c)

		filter := bson.M{}
		if platformName := c.Query("platform"); platformName != "" {
			filter["platform"] = platformName
		}
		if channelId := c.Query("channelId"); channelId != "" {
			filter["channelId"] = channelId
		}

		result, err := h.chatService.ListConversations(c.Context(), filter, page, limit)
		h.HandleResponse(c, result, err)
		return nil
	})
}

// HandleListMessages trả về lịch sử tin nhắn của một hội thoại, mới nhất trước.
func (h *ChatHandler) HandleListMessages(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		platformName := c.Query("platform")
		channelId := c.Query("channelId")
		customerId := c.Query("customerId")
		if platformName == "" || channelId == "" || customerId == "" {
			h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput,
				"Thiếu tham số bắt buộc: platform, channelId, customerId",
				common.StatusBadRequest, nil))
			return nil
		}

		limit, err := parseHistoryLimit(c.Query("limit"))
		if err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		messages, err := h.chatService.ListMessages(c.Context(), platformName, channelId, customerId, limit)
		h.HandleResponse(c, messages, err)
		return nil
	})
}
