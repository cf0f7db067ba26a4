// Package channelsvc - service kênh kết nối (Channel).
package channelsvc

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basesvc "fusion_talk/internal/api/base/service"
	channeldto "fusion_talk/internal/api/channel/dto"
	models "fusion_talk/internal/api/channel/models"
	"fusion_talk/internal/common"
	"fusion_talk/internal/global"
	"fusion_talk/internal/utility"
)

// ChannelService là cấu trúc chứa các phương thức liên quan đến kênh kết nối
type ChannelService struct {
	*basesvc.BaseServiceMongoImpl[models.Channel]
}

// NewChannelService tạo mới ChannelService
func NewChannelService() (*ChannelService, error) {
	channelCollection, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.Channels)
	if !exist {
		return nil, fmt.Errorf("failed to get channels collection: %v", common.ErrNotFound)
	}

	return &ChannelService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.Channel](channelCollection),
	}, nil
}

// Create tạo kênh kết nối mới, mã hóa access token và secret trước khi lưu.
func (s *ChannelService) Create(ctx context.Context, input *channeldto.ChannelCreateInput) (*models.Channel, error) {
	encryptedToken, err := utility.EncryptString(input.AccessToken, global.ServerConfig.TokenEncryptionKey)
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, "Lỗi mã hóa access token", common.StatusInternalServerError, err)
	}
	encryptedSecret, err := utility.EncryptString(input.Secret, global.ServerConfig.TokenEncryptionKey)
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, "Lỗi mã hóa secret", common.StatusInternalServerError, err)
	}

	channel := models.Channel{
		Platform:    input.Platform,
		Name:        input.Name,
		ChannelKey:  input.ChannelKey,
		BotUserId:   input.BotUserId,
		AccessToken: encryptedToken,
		Secret:      encryptedSecret,
		Status:      models.ChannelStatusActive,
	}

	created, err := s.BaseServiceMongoImpl.InsertOne(ctx, channel)
	if err != nil {
		logrus.WithFields(logrus.Fields{"platform": input.Platform, "channelKey": input.ChannelKey, "error": err.Error()}).Error("Create: Lỗi khi tạo channel")
		return nil, err
	}
	return &created, nil
}

// UpdateToken cập nhật access token (và secret nếu có) của kênh — dùng khi token hết hạn.
func (s *ChannelService) UpdateToken(ctx context.Context, channelID primitive.ObjectID, input *channeldto.ChannelUpdateTokenInput) (*models.Channel, error) {
	encryptedToken, err := utility.EncryptString(input.AccessToken, global.ServerConfig.TokenEncryptionKey)
	if err != nil {
		return nil, common.NewError(common.ErrCodeInternalServer, "Lỗi mã hóa access token", common.StatusInternalServerError, err)
	}

	updateData := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"accessToken": encryptedToken,
		},
	}
	if input.Secret != "" {
		encryptedSecret, err := utility.EncryptString(input.Secret, global.ServerConfig.TokenEncryptionKey)
		if err != nil {
			return nil, common.NewError(common.ErrCodeInternalServer, "Lỗi mã hóa secret", common.StatusInternalServerError, err)
		}
		updateData.Set["secret"] = encryptedSecret
	}

	updated, err := s.BaseServiceMongoImpl.UpdateById(ctx, channelID, updateData)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// FindActiveByPlatformKey tìm kênh active theo platform + channelKey.
// Trả về ErrChannelNotFound / ErrChannelInactive để caller phân biệt.
func (s *ChannelService) FindActiveByPlatformKey(ctx context.Context, platform string, channelKey string) (*models.Channel, error) {
	channel, err := s.BaseServiceMongoImpl.FindOne(ctx, bson.M{
		"platform":   platform,
		"channelKey": channelKey,
	}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrChannelNotFound
		}
		return nil, err
	}
	if channel.Status != models.ChannelStatusActive {
		return nil, common.ErrChannelInactive
	}
	return &channel, nil
}

// DecryptedAccessToken giải mã access token của kênh tại thời điểm sử dụng.
func (s *ChannelService) DecryptedAccessToken(channel *models.Channel) (string, error) {
	token, err := utility.DecryptString(channel.AccessToken, global.ServerConfig.TokenEncryptionKey)
	if err != nil {
		return "", common.NewError(common.ErrCodeInternalServer, "Lỗi giải mã access token của kênh", common.StatusInternalServerError, err)
	}
	return token, nil
}

// DecryptedSecret giải mã secret của kênh (dùng verify chữ ký webhook).
func (s *ChannelService) DecryptedSecret(channel *models.Channel) (string, error) {
	secret, err := utility.DecryptString(channel.Secret, global.ServerConfig.TokenEncryptionKey)
	if err != nil {
		return "", common.NewError(common.ErrCodeInternalServer, "Lỗi giải mã secret của kênh", common.StatusInternalServerError, err)
	}
	return secret, nil
}
