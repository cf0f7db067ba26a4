// Package models - model kênh kết nối (Channel) thuộc domain channel.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái kênh kết nối
const (
	ChannelStatusActive   = "active"
	ChannelStatusInactive = "inactive"
)

// Channel định nghĩa một kênh kết nối với nền tảng nhắn tin (LINE OA hoặc Facebook Page).
// ChannelKey là ID của kênh trên nền tảng (LINE channel ID / Facebook page ID) — trùng với
// channelId trong hội thoại. AccessToken và Secret được lưu ở trạng thái mã hóa AES-GCM,
// chỉ giải mã tại thời điểm gọi API nền tảng.
type Channel struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Platform    string             `json:"platform" bson:"platform" validate:"platform"`
	Name        string             `json:"name" bson:"name"`
	ChannelKey  string             `json:"channelKey" bson:"channelKey" index:"unique"`
	BotUserId   string             `json:"botUserId,omitempty" bson:"botUserId,omitempty"`
	AccessToken string             `json:"-" bson:"accessToken"`
	Secret      string             `json:"-" bson:"secret"`
	Status      string             `json:"status" bson:"status"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}
