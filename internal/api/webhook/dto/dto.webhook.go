// Package webhookdto - cấu trúc payload webhook của các nền tảng.
// Chỉ khai báo các trường cần cho việc chuẩn hóa thành sự kiện inbound,
// phần còn lại của payload giữ nguyên trong webhook log.
package webhookdto

// ==========================
// LINE Messaging API webhook
// ==========================

// LineWebhookPayload là body webhook của LINE: destination là userId của bot
// (xác định kênh nhận), events là danh sách sự kiện.
type LineWebhookPayload struct {
	Destination string             `json:"destination"`
	Events      []LineWebhookEvent `json:"events"`
}

// LineWebhookEvent là một sự kiện trong webhook LINE.
type LineWebhookEvent struct {
	Type       string            `json:"type"` // message | follow | unfollow | ...
	Timestamp  int64             `json:"timestamp"`
	Source     LineEventSource   `json:"source"`
	Message    *LineEventMessage `json:"message,omitempty"`
	ReplyToken string            `json:"replyToken,omitempty"`
}

// LineEventSource xác định nguồn gửi sự kiện.
type LineEventSource struct {
	Type   string `json:"type"` // user | group | room
	UserId string `json:"userId"`
}

// LineEventMessage là phần message của sự kiện type=message.
type LineEventMessage struct {
	Id   string `json:"id"`
	Type string `json:"type"` // text | image | sticker | ...
	Text string `json:"text,omitempty"`
}

// ==========================
// Messenger Platform webhook
// ==========================

// MessengerWebhookPayload là body webhook của Messenger: mỗi entry là một page,
// mỗi messaging là một sự kiện của page đó.
type MessengerWebhookPayload struct {
	Object string           `json:"object"` // "page"
	Entry  []MessengerEntry `json:"entry"`
}

// MessengerEntry là nhóm sự kiện của một page (Id = page ID).
type MessengerEntry struct {
	Id        string               `json:"id"`
	Time      int64                `json:"time"`
	Messaging []MessengerMessaging `json:"messaging"`
}

// MessengerMessaging là một sự kiện messaging.
type MessengerMessaging struct {
	Sender    MessengerParticipant `json:"sender"`
	Recipient MessengerParticipant `json:"recipient"`
	Timestamp int64                `json:"timestamp"`
	Message   *MessengerMessage    `json:"message,omitempty"`
}

// MessengerParticipant là một bên tham gia (PSID của khách hoặc page ID).
type MessengerParticipant struct {
	Id string `json:"id"`
}

// MessengerMessage là phần message của sự kiện.
type MessengerMessage struct {
	Mid         string                `json:"mid"`
	Text        string                `json:"text,omitempty"`
	IsEcho      bool                  `json:"is_echo,omitempty"`
	Attachments []MessengerAttachment `json:"attachments,omitempty"`
}

// MessengerAttachment là một file đính kèm.
type MessengerAttachment struct {
	Type    string `json:"type"` // image | video | audio | file
	Payload struct {
		Url string `json:"url"`
	} `json:"payload"`
}
