// Package webhooksvc - service log webhook.
package webhooksvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "fusion_talk/internal/api/base/service"
	models "fusion_talk/internal/api/webhook/models"
	"fusion_talk/internal/common"
	"fusion_talk/internal/global"
)

// WebhookLogService là cấu trúc chứa các phương thức quản lý log webhook.
type WebhookLogService struct {
	*basesvc.BaseServiceMongoImpl[models.WebhookLog]
}

// NewWebhookLogService tạo mới WebhookLogService
func NewWebhookLogService() (*WebhookLogService, error) {
	logCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.WebhookLogs)
	if !exist {
		return nil, fmt.Errorf("failed to get webhook_logs collection: %v", common.ErrNotFound)
	}

	return &WebhookLogService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.WebhookLog](logCollection),
	}, nil
}

// LogReceived ghi lại raw payload ngay khi nhận webhook, trước mọi xử lý.
func (s *WebhookLogService) LogReceived(ctx context.Context, platform, channelId, payload string) (*models.WebhookLog, error) {
	log, err := s.BaseServiceMongoImpl.InsertOne(ctx, models.WebhookLog{
		Platform:  platform,
		ChannelId: channelId,
		Payload:   payload,
		Status:    models.WebhookStatusReceived,
	})
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// UpdateStatus cập nhật trạng thái xử lý của một webhook log.
func (s *WebhookLogService) UpdateStatus(ctx context.Context, id primitive.ObjectID, status, errorMessage string) error {
	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{"status": status},
	}
	if errorMessage != "" {
		updateData.Set["error"] = errorMessage
	}

	_, err := s.BaseServiceMongoImpl.UpdateById(ctx, id, updateData)
	return err
}
