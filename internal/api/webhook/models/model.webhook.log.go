// Package models - model log webhook thuộc domain webhook.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái xử lý của một webhook đã nhận
const (
	WebhookStatusReceived  = "received"  // Đã nhận, chưa xử lý xong
	WebhookStatusProcessed = "processed" // Đã chuẩn hóa và ghi nhận vào hội thoại
	WebhookStatusSkipped   = "skipped"   // Bỏ qua (trùng, echo, không phải message)
	WebhookStatusFailed    = "failed"    // Xử lý lỗi (chi tiết trong Error)
)

// WebhookLog lưu raw payload của mỗi webhook nhận từ nền tảng, phục vụ
// truy vết và xử lý lại khi cần. Webhook luôn được log trước khi xử lý.
type WebhookLog struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Platform  string             `json:"platform" bson:"platform"`
	ChannelId string             `json:"channelId,omitempty" bson:"channelId,omitempty"` // Kênh nhận webhook (nếu xác định được)
	Payload   string             `json:"payload" bson:"payload"`                         // Raw body nguyên văn
	Status    string             `json:"status" bson:"status"`
	Error     string             `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}
