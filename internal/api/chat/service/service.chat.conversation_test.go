// Package chatsvc - Test các hàm thuần của reconciler: fallback content,
// chuẩn hóa nội dung, preview và transform thứ tự đọc.
package chatsvc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	chatdto "fusion_talk/internal/api/chat/dto"
	models "fusion_talk/internal/api/chat/models"
)

func TestFallbackContent(t *testing.T) {
	assert.Equal(t, "Sent an image", FallbackContent(models.ContentTypeImage), "Ảnh không caption phải thành 'Sent an image'")
	assert.Equal(t, "Sent a message", FallbackContent(models.ContentTypeText), "Text rỗng phải thành fallback chung")
	assert.Equal(t, "Sent a message", FallbackContent(""), "ContentType rỗng mặc định là text")
	assert.Equal(t, "Sent a sticker", FallbackContent("sticker"), "Loại không nhận diện được phải thành 'Sent a <type>'")
	assert.Equal(t, "Sent a video", FallbackContent("video"))
}

func TestNormalizeContent(t *testing.T) {
	// Content có sẵn thì giữ nguyên
	content, contentType := NormalizeContent("xin chào", models.ContentTypeText)
	assert.Equal(t, "xin chào", content)
	assert.Equal(t, models.ContentTypeText, contentType)

	// ContentType rỗng mặc định thành text
	content, contentType = NormalizeContent("hi", "")
	assert.Equal(t, "hi", content)
	assert.Equal(t, models.ContentTypeText, contentType)

	// Ảnh không caption: content không bao giờ rỗng
	content, contentType = NormalizeContent("", models.ContentTypeImage)
	assert.Equal(t, "Sent an image", content, "Message ảnh content rỗng phải được thay bằng fallback")
	assert.Equal(t, models.ContentTypeImage, contentType)

	// Cả hai rỗng
	content, contentType = NormalizeContent("", "")
	assert.NotEmpty(t, content, "Không bao giờ lưu message với content rỗng")
	assert.Equal(t, models.ContentTypeText, contentType)
}

func TestBuildPreview(t *testing.T) {
	// Nội dung ngắn giữ nguyên
	assert.Equal(t, "hello", BuildPreview("hello"))

	// Nội dung dài bị cắt theo rune, không vỡ ký tự unicode
	long := strings.Repeat("ế", 200)
	preview := BuildPreview(long)
	assert.Equal(t, maxPreviewLength, len([]rune(preview)), "Preview phải bị cắt về độ dài tối đa")
	assert.Equal(t, strings.Repeat("ế", maxPreviewLength), preview)

	// Đúng bằng giới hạn thì không cắt
	exact := strings.Repeat("a", maxPreviewLength)
	assert.Equal(t, exact, BuildPreview(exact))
}

func TestNewestFirst(t *testing.T) {
	messages := []models.ChatMessage{
		{MessageId: "m1", CreatedAt: 100},
		{MessageId: "m2", CreatedAt: 200},
		{MessageId: "m3", CreatedAt: 300},
	}

	reversed := NewestFirst(messages)

	assert.Len(t, reversed, 3)
	assert.Equal(t, "m3", reversed[0].MessageId, "Tin nhắn mới nhất phải đứng đầu")
	assert.Equal(t, "m2", reversed[1].MessageId)
	assert.Equal(t, "m1", reversed[2].MessageId)

	// Transform lúc đọc không được đụng vào dữ liệu gốc (lưu trữ giữ thứ tự thời gian)
	assert.Equal(t, "m1", messages[0].MessageId, "NewestFirst không được mutate slice gốc")
	assert.Equal(t, "m3", messages[2].MessageId)
}

func TestNewestFirstEmpty(t *testing.T) {
	assert.Empty(t, NewestFirst(nil))
	assert.Empty(t, NewestFirst([]models.ChatMessage{}))
}

func TestBuildMessage(t *testing.T) {
	// Có message id từ nền tảng thì dùng nguyên
	msg := buildMessage("line-msg-1", models.DirectionIncoming, "hi", models.ContentTypeText, "", 123)
	assert.Equal(t, "line-msg-1", msg.MessageId)
	assert.Equal(t, models.DirectionIncoming, msg.Direction)
	assert.Equal(t, int64(123), msg.CreatedAt)

	// Không có thì tự sinh uuid, hai lần sinh phải khác nhau
	msg1 := buildMessage("", models.DirectionOutgoing, "a", models.ContentTypeText, "", 1)
	msg2 := buildMessage("", models.DirectionOutgoing, "b", models.ContentTypeText, "", 2)
	assert.NotEmpty(t, msg1.MessageId)
	assert.NotEmpty(t, msg2.MessageId)
	assert.NotEqual(t, msg1.MessageId, msg2.MessageId, "Message id tự sinh phải duy nhất")
}

func TestConversationKey(t *testing.T) {
	key := conversationKey("line", "channel-1", "U123")
	assert.Equal(t, "line", key["platform"])
	assert.Equal(t, "channel-1", key["channelId"])
	assert.Equal(t, "U123", key["customerId"])
	assert.Len(t, key, 3, "Khóa hội thoại chỉ gồm đúng bộ ba định danh")
}

func TestBuildInboundUpdateShape(t *testing.T) {
	message := buildMessage("m1", models.DirectionIncoming, "hi", models.ContentTypeText, "", 123)
	update := buildInboundUpdate(&chatdto.InboundMessageInput{CustomerName: "Alice"}, message, 456)

	// Append đúng MỘT message và message đó là phần tử mới cuối mảng
	assert.Len(t, update.Push, 1)
	assert.Equal(t, message, update.Push["messages"], "$push phải append đúng message vừa dựng")

	// Mỗi inbound tăng unreadCount đúng 1 — N lần inbound là $inc N lần
	assert.Equal(t, map[string]interface{}{"unreadCount": 1}, update.Inc)

	// $setOnInsert chỉ chứa createdAt: các trường khóa đã nằm trong filter,
	// lặp lại ở đây gây path conflict khi upsert tạo mới
	assert.Len(t, update.SetOnInsert, 1)
	assert.Contains(t, update.SetOnInsert, "createdAt")

	assert.Equal(t, "hi", update.Set["lastMessagePreview"])
	assert.Equal(t, int64(123), update.Set["lastMessageAt"])
	assert.Equal(t, int64(456), update.Set["updatedAt"])
	assert.Equal(t, "Alice", update.Set["customerName"])
	assert.NotContains(t, update.Set, "avatarUrl", "Profile rỗng không được ghi đè giá trị đã cache")
	assert.NotContains(t, update.Set, "statusText")
}

func TestBuildInboundUpdateWithoutProfile(t *testing.T) {
	message := buildMessage("m2", models.DirectionIncoming, "xin chào", models.ContentTypeText, "", 10)
	update := buildInboundUpdate(&chatdto.InboundMessageInput{}, message, 20)

	assert.Len(t, update.Set, 3, "Không có profile thì $set chỉ gồm preview, lastMessageAt và updatedAt")
	assert.NotContains(t, update.Set, "customerName")
}

func TestBuildOutboundUpdateShape(t *testing.T) {
	message := buildMessage("m3", models.DirectionOutgoing, "hello back", models.ContentTypeText, "", 300)
	update := buildOutboundUpdate(message, 400)

	assert.Equal(t, message, update.Push["messages"])
	assert.Equal(t, "hello back", update.Set["lastMessagePreview"])

	// Outbound không đụng vào counter và không bao giờ tạo hội thoại mới
	assert.Nil(t, update.Inc, "Outbound không được tăng unreadCount")
	assert.Nil(t, update.SetOnInsert, "Outbound không có nhánh tạo mới")
}
