package webhookhdl

import (
	"fmt"

	basehdl "fusion_talk/internal/api/base/handler"
	models "fusion_talk/internal/api/webhook/models"
	webhooksvc "fusion_talk/internal/api/webhook/service"
)

// WebhookLogHandler phục vụ truy vấn quản trị trên webhook log (chỉ đọc —
// log do webhook handler ghi, không tạo/sửa qua API).
type WebhookLogHandler struct {
	*basehdl.BaseHandler[models.WebhookLog, models.WebhookLog, models.WebhookLog]
}

// NewWebhookLogHandler tạo instance mới của WebhookLogHandler.
func NewWebhookLogHandler() (*WebhookLogHandler, error) {
	webhookLogService, err := webhooksvc.NewWebhookLogService()
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook log service: %v", err)
	}
	return &WebhookLogHandler{
		BaseHandler: basehdl.NewBaseHandler[models.WebhookLog, models.WebhookLog, models.WebhookLog](webhookLogService),
	}, nil
}
