package channelhdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson/primitive"

	basehdl "fusion_talk/internal/api/base/handler"
	channeldto "fusion_talk/internal/api/channel/dto"
	models "fusion_talk/internal/api/channel/models"
	channelsvc "fusion_talk/internal/api/channel/service"
	"fusion_talk/internal/common"
)

// ChannelHandler xử lý các request quản lý kênh kết nối
type ChannelHandler struct {
	*basehdl.BaseHandler[models.Channel, channeldto.ChannelCreateInput, channeldto.ChannelUpdateInput]
	channelService *channelsvc.ChannelService
}

// NewChannelHandler tạo instance mới của ChannelHandler
func NewChannelHandler() (*ChannelHandler, error) {
	channelService, err := channelsvc.NewChannelService()
	if err != nil {
		return nil, fmt.Errorf("failed to create channel service: %v", err)
	}
	baseHandler := basehdl.NewBaseHandler[models.Channel, channeldto.ChannelCreateInput, channeldto.ChannelUpdateInput](channelService)
	return &ChannelHandler{
		BaseHandler:    baseHandler,
		channelService: channelService,
	}, nil
}

// HandleCreate tạo kênh kết nối mới.
// Không dùng base InsertOne vì token phải được mã hóa trước khi lưu.
func (h *ChannelHandler) HandleCreate(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		var input channeldto.ChannelCreateInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}
		channel, err := h.channelService.Create(c.Context(), &input)
		h.HandleResponse(c, channel, err)
		return nil
	})
}

// HandleUpdateToken cập nhật access token của kênh (khi token hết hạn)
func (h *ChannelHandler) HandleUpdateToken(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		id := c.Params("id")
		if !primitive.IsValidObjectID(id) {
			h.HandleResponse(c, nil, common.NewError(
				common.ErrCodeValidationFormat,
				fmt.Sprintf("ID '%s' không đúng định dạng MongoDB ObjectID (phải là chuỗi hex 24 ký tự)", id),
				common.StatusBadRequest,
				nil,
			))
			return nil
		}

		var input channeldto.ChannelUpdateTokenInput
		if err := h.ParseRequestBody(c, &input); err != nil {
			h.HandleResponse(c, nil, err)
			return nil
		}

		objID, _ := primitive.ObjectIDFromHex(id)
		channel, err := h.channelService.UpdateToken(c.Context(), objID, &input)
		h.HandleResponse(c, channel, err)
		return nil
	})
}
