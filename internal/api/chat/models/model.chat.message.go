package models

// Hướng của tin nhắn so với tài khoản doanh nghiệp
const (
	DirectionIncoming = "in"  // Khách hàng gửi đến
	DirectionOutgoing = "out" // Tài khoản doanh nghiệp gửi đi
)

// Loại nội dung tin nhắn
const (
	ContentTypeText  = "text"
	ContentTypeImage = "image"
)

// ChatMessage là một tin nhắn nhúng trong document hội thoại.
// Messages là append-only: thứ tự trong mảng chính là thứ tự thời gian,
// không bao giờ sắp xếp lại hay sửa sau khi append (ngoại trừ backfill
// nội dung rỗng — xem ChatService.BackfillEmptyContent).
type ChatMessage struct {
	MessageId   string `json:"messageId" bson:"messageId"`                 // ID tin nhắn: id từ nền tảng nếu có, ngược lại uuid sinh lúc ghi nhận
	Direction   string `json:"direction" bson:"direction"`                 // in | out
	Content     string `json:"content" bson:"content"`                     // Luôn khác rỗng (có fallback)
	ContentType string `json:"contentType" bson:"contentType"`             // text | image
	MediaUrl    string `json:"mediaUrl,omitempty" bson:"mediaUrl,omitempty"` // Chỉ có khi contentType = image
	CreatedAt   int64  `json:"createdAt" bson:"createdAt"`                 // UnixMilli, gán tại thời điểm ghi nhận
}
