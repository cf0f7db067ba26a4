// Package router đăng ký các route thuộc domain chat.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	chathdl "fusion_talk/internal/api/chat/handler"
	"fusion_talk/internal/api/middleware"
	apirouter "fusion_talk/internal/api/router"
	"fusion_talk/internal/bus"
)

// Register trả về RegisterFunc đăng ký các route chat lên v1,
// đóng eventBus vào closure để truyền xuống handler.
func Register(eventBus *bus.Bus) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		chatHandler, err := chathdl.NewChatHandler(eventBus)
		if err != nil {
			return fmt.Errorf("failed to create chat handler: %w", err)
		}

		authMiddleware := middleware.AuthMiddleware()

		apirouter.RegisterRouteWithMiddleware(v1, "/chat", "POST", "/send", []fiber.Handler{authMiddleware}, chatHandler.HandleSendMessage)
		apirouter.RegisterRouteWithMiddleware(v1, "/chat", "POST", "/mark-read", []fiber.Handler{authMiddleware}, chatHandler.HandleMarkRead)
		apirouter.RegisterRouteWithMiddleware(v1, "/chat", "GET", "/conversations", []fiber.Handler{authMiddleware}, chatHandler.HandleListConversations)
		apirouter.RegisterRouteWithMiddleware(v1, "/chat", "GET", "/messages", []fiber.Handler{authMiddleware}, chatHandler.HandleListMessages)

		// Truy vấn quản trị trên collection hội thoại dùng base CRUD chỉ đọc
		r.RegisterCRUDRoutes(v1, "/conversation", chatHandler, apirouter.ReadOnlyConfig)

		return nil
	}
}
