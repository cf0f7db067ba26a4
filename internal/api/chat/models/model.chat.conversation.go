// Package models - model hội thoại (ChatConversation) thuộc domain chat.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các nền tảng nhắn tin được hỗ trợ
const (
	PlatformLine      = "line"
	PlatformMessenger = "messenger"
)

// ChatConversation là aggregate hội thoại: mỗi bộ ba (platform, channelId, customerId)
// có đúng một document — tính duy nhất do unique index đảm bảo qua upsert-by-key,
// không dùng lock ở tầng ứng dụng. Hội thoại được tạo lười khi có tin nhắn đầu tiên
// và không bao giờ bị subsystem này xóa.
type ChatConversation struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Platform   string             `json:"platform" bson:"platform" validate:"platform"`
	ChannelId  string             `json:"channelId" bson:"channelId"`   // ChannelKey của kênh (LINE channel ID / Facebook page ID)
	CustomerId string             `json:"customerId" bson:"customerId"` // ID khách hàng trên nền tảng (LINE userId / Messenger PSID)

	// Cache profile best-effort: ghi đè mỗi khi có dữ liệu mới hơn,
	// không yêu cầu nhất quán với profile thật trên nền tảng
	CustomerName string `json:"customerName,omitempty" bson:"customerName,omitempty"`
	AvatarUrl    string `json:"avatarUrl,omitempty" bson:"avatarUrl,omitempty"`
	StatusText   string `json:"statusText,omitempty" bson:"statusText,omitempty"`

	LastMessagePreview string `json:"lastMessagePreview" bson:"lastMessagePreview"` // Luôn phản ánh tin nhắn mới nhất, bất kể hướng
	LastMessageAt      int64  `json:"lastMessageAt" bson:"lastMessageAt"`           // UnixMilli, dùng sắp xếp inbox
	UnreadCount        int64  `json:"unreadCount" bson:"unreadCount"`               // Chỉ tăng khi có tin inbound, chỉ về 0 khi MarkRead

	Messages []ChatMessage `json:"messages,omitempty" bson:"messages,omitempty"` // Append-only, thứ tự = thời gian

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}
