// Package platform chứa các adapter gọi API của nền tảng nhắn tin
// (LINE Messaging API, Facebook Graph API): gửi tin nhắn, lấy profile khách hàng
// và verify chữ ký webhook. Mọi lời gọi đều mang timeout hữu hạn — gửi thất bại
// hay timeout trả lỗi cho caller, không treo và không tự retry.
package platform

import (
	"context"
)

// Profile là thông tin hiển thị của khách hàng lấy từ API nền tảng.
type Profile struct {
	DisplayName string
	AvatarUrl   string
	StatusText  string
}

// OutboundMessage là tin nhắn gửi đi đã chuẩn hóa, adapter dịch sang
// định dạng của từng nền tảng.
type OutboundMessage struct {
	Content     string
	ContentType string // text | image
	MediaUrl    string // bắt buộc khi ContentType = image
}

// Sender là giao diện chung của các adapter nền tảng.
// SendMessage trả về message id do nền tảng cấp (có thể rỗng nếu nền tảng không trả).
type Sender interface {
	SendMessage(ctx context.Context, accessToken, recipientId string, message OutboundMessage) (string, error)
	GetProfile(ctx context.Context, accessToken, userId string) (*Profile, error)
}
