// Package database - Index bổ sung cho domain chat (compound) không thể định nghĩa qua model tags.
package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fusion_talk/internal/global"
)

// CreateChatIndexes tạo các index cho collection hội thoại và webhook log.
// Unique compound index trên bộ ba khóa là thứ đảm bảo bất biến
// "đúng một hội thoại cho mỗi (platform, channelId, customerId)" — upsert đồng thời
// trên cùng khóa chỉ tạo được một document, không cần lock ở tầng ứng dụng.
func CreateChatIndexes(ctx context.Context, db *mongo.Database) error {
	conversations := db.Collection(global.MongoDB_ColNames.Conversations)

	if _, err := conversations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "platform", Value: 1},
			{Key: "channelId", Value: 1},
			{Key: "customerId", Value: 1},
		},
		Options: options.Index().SetName("conversation_key_unique").SetUnique(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// Inbox sắp theo tin nhắn mới nhất
	if _, err := conversations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "lastMessageAt", Value: -1}},
		Options: options.Index().SetName("conversation_last_message_at"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// Dedup theo message id của nền tảng (multikey trên mảng messages)
	if _, err := conversations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "platform", Value: 1},
			{Key: "channelId", Value: 1},
			{Key: "customerId", Value: 1},
			{Key: "messages.messageId", Value: 1},
		},
		Options: options.Index().SetName("conversation_message_id"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// Webhook log: truy vết theo kênh và thời gian nhận
	webhookLogs := db.Collection(global.MongoDB_ColNames.WebhookLogs)
	if _, err := webhookLogs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "platform", Value: 1},
			{Key: "channelId", Value: 1},
			{Key: "createdAt", Value: -1},
		},
		Options: options.Index().SetName("webhook_log_channel_time"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	return nil
}
