package main

import (
	"context"

	"github.com/sirupsen/logrus"

	"fusion_talk/config"
	authmodels "fusion_talk/internal/api/auth/models"
	channelmodels "fusion_talk/internal/api/channel/models"
	chatmodels "fusion_talk/internal/api/chat/models"
	webhookmodels "fusion_talk/internal/api/webhook/models"
	"fusion_talk/internal/database"
	"fusion_talk/internal/global"
)

// InitGlobal khởi tạo các biến toàn cục theo thứ tự phụ thuộc.
func InitGlobal() {
	initColNames()         // Khởi tạo tên các collection trong database
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
}

// Hàm khởi tạo tên các collection trong database
func initColNames() {
	global.MongoDB_ColNames.Users = "auth_users"
	global.MongoDB_ColNames.Channels = "channels"
	global.MongoDB_ColNames.Conversations = "chat_conversations"
	global.MongoDB_ColNames.WebhookLogs = "webhook_logs"

	logrus.Info("Initialized collection names")
}

// Hàm khởi tạo validator (đăng ký custom validators: platform, content_type)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.ServerConfig = config.NewConfig()
	if global.ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil")
	}
	logrus.Info("Initialized server config")
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	logrus.Info("Connected to MongoDB")

	// Khởi tạo các db và collections nếu chưa có
	if err := database.EnsureDatabaseAndCollections(global.MongoDB_Session); err != nil {
		logrus.Fatalf("Failed to ensure database and collections: %v", err)
	}
	logrus.Info("Ensured database and collections")

	// Khởi tạo các index cho các collection
	dbName := global.ServerConfig.MongoDB_DBName
	db := global.MongoDB_Session.Database(dbName)
	indexTargets := map[string]interface{}{
		global.MongoDB_ColNames.Users:         authmodels.User{},
		global.MongoDB_ColNames.Channels:      channelmodels.Channel{},
		global.MongoDB_ColNames.Conversations: chatmodels.ChatConversation{},
		global.MongoDB_ColNames.WebhookLogs:   webhookmodels.WebhookLog{},
	}
	for colName, model := range indexTargets {
		if err := database.CreateIndexes(context.TODO(), db.Collection(colName), model); err != nil {
			logrus.Fatalf("Failed to create indexes for %s: %v", colName, err)
		}
	}

	// Index compound của domain chat (không định nghĩa được qua model tags)
	if err := database.CreateChatIndexes(context.TODO(), db); err != nil {
		logrus.Fatalf("Failed to create chat indexes: %v", err)
	}
	logrus.Info("Created collection indexes")
}
