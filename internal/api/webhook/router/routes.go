// Package router đăng ký các route thuộc domain webhook.
// Các endpoint nhận webhook KHÔNG qua auth middleware — nền tảng gọi trực tiếp,
// xác thực bằng chữ ký trong header.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	apirouter "fusion_talk/internal/api/router"
	webhookhdl "fusion_talk/internal/api/webhook/handler"
	"fusion_talk/internal/bus"
)

// Register trả về RegisterFunc đăng ký các route webhook lên v1.
func Register(eventBus *bus.Bus) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		webhookHandler, err := webhookhdl.NewWebhookHandler(eventBus)
		if err != nil {
			return fmt.Errorf("failed to create webhook handler: %w", err)
		}
		webhookLogHandler, err := webhookhdl.NewWebhookLogHandler()
		if err != nil {
			return fmt.Errorf("failed to create webhook log handler: %w", err)
		}

		// Endpoint nhận webhook — public, verify bằng chữ ký
		v1.Post("/webhook/line", webhookHandler.HandleLineWebhook)
		v1.Get("/webhook/messenger", webhookHandler.HandleMessengerVerify)
		v1.Post("/webhook/messenger", webhookHandler.HandleMessengerWebhook)

		// Truy vấn webhook log cho quản trị — chỉ đọc, có auth
		r.RegisterCRUDRoutes(v1, "/webhook-log", webhookLogHandler, apirouter.ReadOnlyConfig)

		return nil
	}
}
