// Package chatsvc - Test hành vi store-level của reconciler trên mock MongoDB
// (mtest mock client: dựng response của server, không cần mongod).
package chatsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	basesvc "fusion_talk/internal/api/base/service"
	chatdto "fusion_talk/internal/api/chat/dto"
	models "fusion_talk/internal/api/chat/models"
	"fusion_talk/internal/common"
)

// newMockChatService dựng ChatService trên collection mock, không bus.
func newMockChatService(mt *mtest.T) *ChatService {
	return &ChatService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[models.ChatConversation](mt.Coll),
	}
}

func TestRecordInboundUpsertCommand(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("mot lenh upsert nguyen tu", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "platform", Value: models.PlatformLine},
			{Key: "channelId", Value: "C1"},
			{Key: "customerId", Value: "U123"},
			{Key: "unreadCount", Value: int64(1)},
			{Key: "lastMessagePreview", Value: "hi"},
		}}))

		service := newMockChatService(mt)
		conversation, err := service.RecordInbound(context.Background(), &chatdto.InboundMessageInput{
			Platform:   models.PlatformLine,
			ChannelId:  "C1",
			CustomerId: "U123",
			Content:    "hi",
		})

		assert.NoError(mt, err)
		assert.Equal(mt, int64(1), conversation.UnreadCount)
		assert.Equal(mt, "hi", conversation.LastMessagePreview)

		// Toàn bộ mutation phải nằm trong MỘT findAndModify có upsert —
		// không read-modify-write, không lệnh thứ hai
		started := mt.GetStartedEvent()
		assert.Equal(mt, "findAndModify", started.CommandName)
		command := started.Command.String()
		assert.Contains(mt, command, "upsert")
		assert.Contains(mt, command, "$push")
		assert.Contains(mt, command, "$inc")
		assert.Contains(mt, command, "$setOnInsert")
	})
}

func TestRecordOutboundUnknownConversation(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("khong tao hoi thoai moi", func(mt *mtest.T) {
		// findAndModify không match trả về value null
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		service := newMockChatService(mt)
		_, err := service.RecordOutbound(context.Background(), &chatdto.OutboundMessageInput{
			Platform:   models.PlatformMessenger,
			ChannelId:  "page-1",
			CustomerId: "U999",
			Content:    "hi",
		})

		assert.True(mt, errors.Is(err, common.ErrConversationNotFound),
			"Gửi cho khách chưa từng có hội thoại phải trả về ErrConversationNotFound, nhận: %v", err)

		// Lệnh gửi xuống driver không được mang upsert
		started := mt.GetStartedEvent()
		assert.Equal(mt, "findAndModify", started.CommandName)
		if upsert, lookupErr := started.Command.LookupErr("upsert"); lookupErr == nil {
			assert.False(mt, upsert.Boolean(), "RecordOutbound không bao giờ upsert")
		}
	})
}

func TestMarkReadMissingConversation(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("khoa khong ton tai la no-op", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		service := newMockChatService(mt)
		err := service.MarkRead(context.Background(), models.PlatformLine, "C1", "U-khong-ton-tai")

		assert.NoError(mt, err, "MarkRead trên khóa không tồn tại phải là no-op, không phải lỗi")
	})
}

func TestBackfillEmptyContentTwoPasses(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("cong don modified cua hai luot", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 3}, bson.E{Key: "nModified", Value: 2}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 4}, bson.E{Key: "nModified", Value: 3}),
		)

		service := newMockChatService(mt)
		modified, err := service.BackfillEmptyContent(context.Background())

		assert.NoError(mt, err)
		assert.Equal(mt, int64(5), modified, "Tổng modified là cộng dồn của lượt ảnh và lượt còn lại")

		// Cả hai lượt đều là update có arrayFilters (chỉ sửa phần tử vi phạm)
		first := mt.GetStartedEvent()
		second := mt.GetStartedEvent()
		assert.Equal(mt, "update", first.CommandName)
		assert.Equal(mt, "update", second.CommandName)
		assert.Contains(mt, first.Command.String(), "arrayFilters")
		assert.Contains(mt, second.Command.String(), "arrayFilters")
	})
}
