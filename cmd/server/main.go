package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	chatsvc "fusion_talk/internal/api/chat/service"
	"fusion_talk/internal/bus"
	"fusion_talk/internal/database"
	"fusion_talk/internal/global"
	"fusion_talk/internal/logger"
)

// initLogger khởi tạo và cấu hình logger cho toàn bộ ứng dụng
func initLogger() {
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	logger.GetAppLogger().Info("Logger system initialized successfully")
}

// startNotifier chạy subscriber nhận sự kiện hội thoại từ bus và ghi audit log.
// Đây là điểm nối cho các kênh thông báo đẩy về sau; hiện tại client poll,
// subscriber chỉ ghi nhận luồng sự kiện.
func startNotifier(eventBus *bus.Bus) func() {
	events, unsubscribe := eventBus.Subscribe("chat.", 256)

	go func() {
		auditLog := logger.GetAuditLogger()
		for evt := range events {
			payload, ok := evt.Payload.(*chatsvc.ConversationEvent)
			if !ok {
				continue
			}
			auditLog.WithFields(map[string]interface{}{
				"kind":        evt.Kind,
				"platform":    payload.Platform,
				"channelId":   payload.ChannelId,
				"customerId":  payload.CustomerId,
				"unreadCount": payload.UnreadCount,
			}).Info("Conversation event")
		}
	}()

	return unsubscribe
}

// Hàm main
func main() {
	// Khởi tạo logger
	initLogger()

	// Khởi tạo các biến toàn cục
	InitGlobal()

	// Khởi tạo registry
	InitRegistry()

	// Khởi tạo dữ liệu mặc định
	InitDefaultData()

	// Event bus được khởi tạo tường minh một lần ở đây và inject xuống các
	// service qua router — có đường shutdown rõ ràng cùng server
	eventBus := bus.New()
	stopNotifier := startNotifier(eventBus)

	// Khởi tạo app với cấu hình
	app := InitFiberApp(eventBus)

	log := logger.GetAppLogger()

	// Bắt tín hiệu dừng để shutdown có trật tự
	shutdownDone := make(chan struct{})
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		log.Infof("Received signal %s, shutting down...", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Errorf("Error during server shutdown: %v", err)
		}
		close(shutdownDone)
	}()

	address := global.ServerConfig.Address
	log.WithFields(map[string]interface{}{
		"address":  address,
		"protocol": "HTTP",
	}).Info("Starting Fiber server...")

	if err := app.Listen(address, fiber.ListenConfig{}); err != nil {
		log.Fatalf("Error in Fiber Listen: %v", err)
	}

	<-shutdownDone

	// Dọn dẹp theo thứ tự ngược với khởi tạo
	stopNotifier()
	eventBus.Shutdown()
	if err := database.CloseInstance(global.MongoDB_Session); err != nil {
		log.Errorf("Error closing MongoDB connection: %v", err)
	}
	logger.Close()
}
