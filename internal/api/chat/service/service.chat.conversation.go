// Package chatsvc - service hội thoại: ghi nhận tin nhắn inbound/outbound,
// quản lý unread counter và cung cấp các truy vấn cho inbox.
package chatsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "fusion_talk/internal/api/base/models"
	basesvc "fusion_talk/internal/api/base/service"
	chatdto "fusion_talk/internal/api/chat/dto"
	models "fusion_talk/internal/api/chat/models"
	"fusion_talk/internal/bus"
	"fusion_talk/internal/common"
	"fusion_talk/internal/global"
)

// Độ dài tối đa của lastMessagePreview (tính theo rune)
const maxPreviewLength = 120

// ConversationEvent là payload phát lên bus mỗi khi hội thoại thay đổi,
// cho subscriber (notifier) biết hội thoại nào cần làm mới.
type ConversationEvent struct {
	Platform      string `json:"platform"`
	ChannelId     string `json:"channelId"`
	CustomerId    string `json:"customerId"`
	Direction     string `json:"direction,omitempty"`
	Preview       string `json:"preview,omitempty"`
	LastMessageAt int64  `json:"lastMessageAt,omitempty"`
	UnreadCount   int64  `json:"unreadCount"`
}

// ChatService là cấu trúc chứa các phương thức của aggregate hội thoại.
// Mọi mutation đều là MỘT lệnh FindOneAndUpdate nguyên tử — hai tin nhắn
// đến cùng lúc trên cùng một hội thoại không bao giờ mất append hay mất increment.
type ChatService struct {
	*basesvc.BaseServiceMongoImpl[models.ChatConversation]
	eventBus *bus.Bus
}

// NewChatService tạo mới ChatService. eventBus được inject từ cmd/server
// (có thể nil trong test — khi đó không phát sự kiện).
func NewChatService(eventBus *bus.Bus) (*ChatService, error) {
	conversationCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Conversations)
	if !exist {
		return nil, fmt.Errorf("failed to get conversations collection: %v", common.ErrNotFound)
	}

	return &ChatService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.ChatConversation](conversationCollection),
		eventBus:             eventBus,
	}, nil
}

// conversationKey trả về filter định danh một hội thoại theo bộ ba khóa.
func conversationKey(platform, channelId, customerId string) bson.M {
	return bson.M{
		"platform":   platform,
		"channelId":  channelId,
		"customerId": customerId,
	}
}

// FallbackContent trả về nội dung thay thế theo loại tin nhắn,
// đảm bảo không bao giờ lưu message có content rỗng.
func FallbackContent(contentType string) string {
	switch contentType {
	case models.ContentTypeImage:
		return "Sent an image"
	case "", models.ContentTypeText:
		return "Sent a message"
	default:
		return fmt.Sprintf("Sent a %s", contentType)
	}
}

// NormalizeContent chuẩn hóa nội dung và loại tin nhắn: contentType rỗng thành
// "text", content rỗng thành fallback theo loại.
func NormalizeContent(content, contentType string) (string, string) {
	if contentType == "" {
		contentType = models.ContentTypeText
	}
	if content == "" {
		content = FallbackContent(contentType)
	}
	return content, contentType
}

// BuildPreview cắt nội dung thành preview hiển thị trên inbox.
func BuildPreview(content string) string {
	runes := []rune(content)
	if len(runes) <= maxPreviewLength {
		return content
	}
	return string(runes[:maxPreviewLength])
}

// NewestFirst trả về bản sao danh sách tin nhắn theo thứ tự mới nhất trước.
// Lưu trữ luôn theo thứ tự thời gian; đảo chiều chỉ là transform lúc đọc.
func NewestFirst(messages []models.ChatMessage) []models.ChatMessage {
	reversed := make([]models.ChatMessage, len(messages))
	for i, msg := range messages {
		reversed[len(messages)-1-i] = msg
	}
	return reversed
}

// buildMessage dựng ChatMessage từ các trường đã chuẩn hóa, tự sinh uuid
// khi nền tảng không cung cấp message id.
func buildMessage(messageId, direction, content, contentType, mediaUrl string, at int64) models.ChatMessage {
	if messageId == "" {
		messageId = uuid.NewString()
	}
	return models.ChatMessage{
		MessageId:   messageId,
		Direction:   direction,
		Content:     content,
		ContentType: contentType,
		MediaUrl:    mediaUrl,
		CreatedAt:   at,
	}
}

// buildInboundUpdate dựng update document cho RecordInbound: MỘT lệnh vừa
// append message, vừa tăng unreadCount, vừa làm mới preview/profile cache.
// Profile ghi đè khi có dữ liệu mới, không merge.
func buildInboundUpdate(input *chatdto.InboundMessageInput, message models.ChatMessage, now int64) *basesvc.UpdateData {
	set := map[string]interface{}{
		"lastMessagePreview": BuildPreview(message.Content),
		"lastMessageAt":      message.CreatedAt,
		"updatedAt":          now,
	}
	if input.CustomerName != "" {
		set["customerName"] = input.CustomerName
	}
	if input.AvatarUrl != "" {
		set["avatarUrl"] = input.AvatarUrl
	}
	if input.StatusText != "" {
		set["statusText"] = input.StatusText
	}

	return &basesvc.UpdateData{
		Push: map[string]interface{}{"messages": message},
		Inc:  map[string]interface{}{"unreadCount": 1},
		Set:  set,
		// Các trường khóa lấy từ filter khi upsert tạo mới; chỉ cần createdAt
		SetOnInsert: map[string]interface{}{"createdAt": now},
	}
}

// buildOutboundUpdate dựng update document cho RecordOutbound: append message
// và làm mới preview, KHÔNG có $inc và KHÔNG có $setOnInsert.
func buildOutboundUpdate(message models.ChatMessage, now int64) *basesvc.UpdateData {
	return &basesvc.UpdateData{
		Push: map[string]interface{}{"messages": message},
		Set: map[string]interface{}{
			"lastMessagePreview": BuildPreview(message.Content),
			"lastMessageAt":      message.CreatedAt,
			"updatedAt":          now,
		},
	}
}

// RecordInbound ghi nhận một tin nhắn inbound vào hội thoại: tạo hội thoại nếu
// chưa có, append message, tăng unreadCount, cập nhật preview và profile cache —
// tất cả trong MỘT lệnh upsert nguyên tử. Không đảm bảo idempotency: sự kiện
// trùng được ghi thành hai message; dedup theo message id của nền tảng là việc
// của webhook handler (xem HasMessage).
func (s *ChatService) RecordInbound(ctx context.Context, input *chatdto.InboundMessageInput) (*models.ChatConversation, error) {
	content, contentType := NormalizeContent(input.Content, input.ContentType)
	now := time.Now().UnixMilli()
	message := buildMessage(input.MessageId, models.DirectionIncoming, content, contentType, input.MediaUrl, now)
	update := buildInboundUpdate(input, message, now)

	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	conversation, err := s.BaseServiceMongoImpl.FindOneAndUpdate(ctx, conversationKey(input.Platform, input.ChannelId, input.CustomerId), update, opts)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"platform":   input.Platform,
			"channelId":  input.ChannelId,
			"customerId": input.CustomerId,
			"error":      err.Error(),
		}).Error("RecordInbound: Lỗi khi ghi nhận tin nhắn inbound")
		return nil, err
	}

	s.publish(bus.KindChatInbound, &conversation, models.DirectionIncoming)
	return &conversation, nil
}

// RecordOutbound ghi nhận một tin nhắn outbound đã gửi thành công: append message
// và cập nhật preview, KHÔNG đụng vào unreadCount và KHÔNG upsert — gửi cho khách
// hàng chưa từng có hội thoại trả về ErrConversationNotFound (trên các nền tảng
// này tài khoản doanh nghiệp chỉ trả lời được, không chủ động bắt chuyện).
func (s *ChatService) RecordOutbound(ctx context.Context, input *chatdto.OutboundMessageInput) (*models.ChatConversation, error) {
	content, contentType := NormalizeContent(input.Content, input.ContentType)
	now := time.Now().UnixMilli()
	message := buildMessage(input.MessageId, models.DirectionOutgoing, content, contentType, input.MediaUrl, now)
	update := buildOutboundUpdate(message, now)

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	conversation, err := s.BaseServiceMongoImpl.FindOneAndUpdate(ctx, conversationKey(input.Platform, input.ChannelId, input.CustomerId), update, opts)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrConversationNotFound
		}
		return nil, err
	}

	s.publish(bus.KindChatOutbound, &conversation, models.DirectionOutgoing)
	return &conversation, nil
}

// MarkRead đặt unreadCount về 0 cho hội thoại. Hội thoại không tồn tại hoặc
// đã ở 0 đều là no-op, không phải lỗi.
func (s *ChatService) MarkRead(ctx context.Context, platform, channelId, customerId string) error {
	update := &basesvc.UpdateData{
		Set: map[string]interface{}{"unreadCount": int64(0)},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	conversation, err := s.BaseServiceMongoImpl.FindOneAndUpdate(ctx, conversationKey(platform, channelId, customerId), update, opts)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return err
	}

	s.publish(bus.KindChatRead, &conversation, "")
	return nil
}

// ConversationExists kiểm tra hội thoại có tồn tại cho bộ ba khóa không.
// Caller gửi tin outbound dùng hàm này trước khi gọi API nền tảng — tránh
// gửi thành công rồi mới phát hiện không có hội thoại để ghi nhận.
func (s *ChatService) ConversationExists(ctx context.Context, platform, channelId, customerId string) (bool, error) {
	return s.BaseServiceMongoImpl.DocumentExists(ctx, conversationKey(platform, channelId, customerId))
}

// HasMessage kiểm tra hội thoại đã chứa message id này chưa — webhook handler
// dùng để dedup khi nền tảng giao lại cùng một sự kiện (LINE không đảm bảo
// at-most-once delivery).
func (s *ChatService) HasMessage(ctx context.Context, platform, channelId, customerId, messageId string) (bool, error) {
	filter := conversationKey(platform, channelId, customerId)
	filter["messages.messageId"] = messageId
	return s.BaseServiceMongoImpl.DocumentExists(ctx, filter)
}

// ListConversations trả về trang hội thoại sắp theo lastMessageAt giảm dần,
// KHÔNG kèm message bodies (inbox chỉ cần preview). Đây là snapshot — client
// cần dữ liệu mới thì poll lại.
func (s *ChatService) ListConversations(ctx context.Context, filter bson.M, page, limit int64) (*basemodels.PaginateResult[models.ChatConversation], error) {
	if filter == nil {
		filter = bson.M{}
	}

	opts := options.Find().
		SetProjection(bson.M{"messages": 0}).
		SetSort(bson.D{{Key: "lastMessageAt", Value: -1}})

	return s.BaseServiceMongoImpl.FindWithPagination(ctx, filter, page, limit, opts)
}

// ListMessages trả về lịch sử tin nhắn của một hội thoại theo thứ tự mới nhất
// trước. limit > 0 giới hạn số tin trả về (các tin mới nhất).
func (s *ChatService) ListMessages(ctx context.Context, platform, channelId, customerId string, limit int64) ([]models.ChatMessage, error) {
	conversation, err := s.BaseServiceMongoImpl.FindOne(ctx, conversationKey(platform, channelId, customerId), nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrConversationNotFound
		}
		return nil, err
	}

	messages := NewestFirst(conversation.Messages)
	if limit > 0 && int64(len(messages)) > limit {
		messages = messages[:limit]
	}
	return messages, nil
}

// BackfillEmptyContent thay nội dung rỗng của các message cũ bằng fallback
// tương ứng (dữ liệu trước khi có bất biến content khác rỗng). Dùng arrayFilters
// để chỉ sửa đúng các phần tử vi phạm, không đụng phần còn lại của mảng.
func (s *ChatService) BackfillEmptyContent(ctx context.Context) (int64, error) {
	now := time.Now().UnixMilli()
	var modified int64

	// Message dạng ảnh thiếu caption
	imageResult, err := s.Collection().UpdateMany(ctx,
		bson.M{"messages.content": ""},
		bson.M{"$set": bson.M{
			"messages.$[img].content": FallbackContent(models.ContentTypeImage),
			"updatedAt":               now,
		}},
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"img.content": "", "img.contentType": models.ContentTypeImage}},
		}),
	)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	modified += imageResult.ModifiedCount

	// Các loại còn lại về fallback chung
	otherResult, err := s.Collection().UpdateMany(ctx,
		bson.M{"messages.content": ""},
		bson.M{"$set": bson.M{
			"messages.$[other].content": FallbackContent(models.ContentTypeText),
			"updatedAt":                 now,
		}},
		options.Update().SetArrayFilters(options.ArrayFilters{
			Filters: []interface{}{bson.M{"other.content": "", "other.contentType": bson.M{"$ne": models.ContentTypeImage}}},
		}),
	)
	if err != nil {
		return modified, common.ConvertMongoError(err)
	}
	modified += otherResult.ModifiedCount

	return modified, nil
}

// publish phát sự kiện thay đổi hội thoại lên bus (không block, không lỗi).
func (s *ChatService) publish(kind string, conversation *models.ChatConversation, direction string) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(bus.Event{
		Kind: kind,
		Payload: &ConversationEvent{
			Platform:      conversation.Platform,
			ChannelId:     conversation.ChannelId,
			CustomerId:    conversation.CustomerId,
			Direction:     direction,
			Preview:       conversation.LastMessagePreview,
			LastMessageAt: conversation.LastMessageAt,
			UnreadCount:   conversation.UnreadCount,
		},
	})
}
