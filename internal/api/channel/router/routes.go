// Package router đăng ký các route thuộc domain channel.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	channelhdl "fusion_talk/internal/api/channel/handler"
	"fusion_talk/internal/api/middleware"
	apirouter "fusion_talk/internal/api/router"
)

// Register đăng ký tất cả route channel lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	channelHandler, err := channelhdl.NewChannelHandler()
	if err != nil {
		return fmt.Errorf("failed to create channel handler: %w", err)
	}

	authMiddleware := middleware.AuthMiddleware()

	// Create và update token đi qua handler riêng (mã hóa token trước khi lưu)
	apirouter.RegisterRouteWithMiddleware(v1, "/channel", "POST", "/create", []fiber.Handler{authMiddleware}, channelHandler.HandleCreate)
	apirouter.RegisterRouteWithMiddleware(v1, "/channel", "PUT", "/update-token/:id", []fiber.Handler{authMiddleware}, channelHandler.HandleUpdateToken)

	// CRUD còn lại dùng base handler (InsOne tắt — create phải mã hóa token)
	channelConfig := apirouter.CRUDConfig{
		InsOne: false,
		Find:   true, FindOne: true, FindById: true, Paginate: true,
		UpdById: true, DelById: true,
		Count: true,
	}
	r.RegisterCRUDRoutes(v1, "/channel", channelHandler, channelConfig)

	return nil
}
