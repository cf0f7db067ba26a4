// Package chatdto - các cấu trúc đầu vào của domain chat.
package chatdto

// InboundMessageInput là sự kiện tin nhắn inbound đã được chuẩn hóa
// (webhook handler dịch payload của nền tảng sang dạng này trước khi gọi service).
type InboundMessageInput struct {
	Platform   string `json:"platform" validate:"required,platform"`
	ChannelId  string `json:"channelId" validate:"required"`
	CustomerId string `json:"customerId" validate:"required"`

	// Profile best-effort, có thể thiếu hoặc cũ
	CustomerName string `json:"customerName"`
	AvatarUrl    string `json:"avatarUrl"`
	StatusText   string `json:"statusText"`

	Content     string `json:"content"`
	ContentType string `json:"contentType" validate:"content_type"`
	MediaUrl    string `json:"mediaUrl"`
	MessageId   string `json:"messageId"` // ID tin nhắn từ nền tảng (dùng dedup); rỗng thì service tự sinh uuid
}

// OutboundMessageInput là tin nhắn outbound đã gửi thành công qua nền tảng,
// cần ghi nhận vào hội thoại.
type OutboundMessageInput struct {
	Platform    string `json:"platform" validate:"required,platform"`
	ChannelId   string `json:"channelId" validate:"required"`
	CustomerId  string `json:"customerId" validate:"required"`
	Content     string `json:"content"`
	ContentType string `json:"contentType" validate:"content_type"`
	MediaUrl    string `json:"mediaUrl"`
	MessageId   string `json:"messageId"`
}

// SendMessageInput đầu vào API gửi tin nhắn cho khách hàng.
type SendMessageInput struct {
	Platform    string `json:"platform" validate:"required,platform"`
	ChannelId   string `json:"channelId" validate:"required"`
	CustomerId  string `json:"customerId" validate:"required"`
	Content     string `json:"content"`
	ContentType string `json:"contentType" validate:"content_type"`
	MediaUrl    string `json:"mediaUrl"`
}

// MarkReadInput đầu vào đánh dấu đã đọc một hội thoại.
type MarkReadInput struct {
	Platform   string `json:"platform" validate:"required,platform"`
	ChannelId  string `json:"channelId" validate:"required"`
	CustomerId string `json:"customerId" validate:"required"`
}

// ConversationUpdateInput đầu vào sửa thông tin hiển thị của hội thoại
// (chỉ phần profile cache, không đụng vào messages hay counter).
type ConversationUpdateInput struct {
	CustomerName string `json:"customerName" bson:"customerName,omitempty"`
	AvatarUrl    string `json:"avatarUrl" bson:"avatarUrl,omitempty"`
	StatusText   string `json:"statusText" bson:"statusText,omitempty"`
}
