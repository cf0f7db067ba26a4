package channeldto

// ChannelCreateInput đầu vào tạo kênh kết nối.
// AccessToken và Secret nhận dạng plaintext, service sẽ mã hóa trước khi lưu.
type ChannelCreateInput struct {
	Platform    string `json:"platform" validate:"required,platform"`
	Name        string `json:"name" validate:"required"`
	ChannelKey  string `json:"channelKey" validate:"required"`
	BotUserId   string `json:"botUserId"`
	AccessToken string `json:"accessToken" validate:"required"`
	Secret      string `json:"secret" validate:"required"`
}

// ChannelUpdateInput đầu vào cập nhật thông tin kênh (không gồm token).
type ChannelUpdateInput struct {
	Name   string `json:"name" bson:"name,omitempty"`
	Status string `json:"status" bson:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

// ChannelUpdateTokenInput đầu vào cập nhật token của kênh (khi token hết hạn).
type ChannelUpdateTokenInput struct {
	AccessToken string `json:"accessToken" validate:"required"`
	Secret      string `json:"secret"`
}
