package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	authdto "fusion_talk/internal/api/auth/dto"
	authsvc "fusion_talk/internal/api/auth/service"
	chatsvc "fusion_talk/internal/api/chat/service"
	"fusion_talk/internal/global"
	"fusion_talk/internal/logger"
)

// InitDefaultData khởi tạo dữ liệu mặc định và chạy các bước vá dữ liệu cũ.
func InitDefaultData() {
	log := logger.GetAppLogger()
	seedAdminAccount(log)
	backfillConversations(log)
}

// seedAdminAccount tạo tài khoản admin nếu được cấu hình qua
// ADMIN_EMAIL/ADMIN_PASSWORD và chưa tồn tại.
func seedAdminAccount(log *logrus.Logger) {
	cfg := global.ServerConfig
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Info("Không cấu hình tài khoản admin mặc định, đăng ký user qua /api/v1/auth/register")
		return
	}

	userService, err := authsvc.NewUserService()
	if err != nil {
		log.Fatalf("Failed to initialize user service: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = userService.Register(ctx, &authdto.UserRegisterInput{
		Name:     "Administrator",
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	})
	if err != nil {
		// Đã tồn tại từ lần chạy trước là bình thường
		log.Infof("Tài khoản admin mặc định không được tạo (có thể đã tồn tại): %v", err)
		return
	}

	log.Infof("Đã tạo tài khoản admin mặc định: %s", cfg.AdminEmail)
}

// backfillConversations vá dữ liệu hội thoại cũ: message content rỗng
// (ghi trước khi có fallback bắt buộc) được thay bằng chuỗi fallback theo loại.
// Idempotent — các lần chạy sau không còn gì để sửa.
func backfillConversations(log *logrus.Logger) {
	chatService, err := chatsvc.NewChatService(nil)
	if err != nil {
		log.Fatalf("Failed to initialize chat service: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	modified, err := chatService.BackfillEmptyContent(ctx)
	if err != nil {
		// Không chặn khởi động: dữ liệu cũ sửa được ở lần chạy sau
		log.Errorf("Backfill nội dung message rỗng thất bại: %v", err)
		return
	}
	if modified > 0 {
		log.Infof("Đã backfill %d hội thoại có message content rỗng", modified)
	}
}
