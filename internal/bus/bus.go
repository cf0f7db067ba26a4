// Package bus cung cấp một in-process publish/subscribe bus cho các sự kiện hội thoại.
// Bus được khởi tạo tường minh ở cmd/server và inject vào các service cần phát sự kiện,
// có đường shutdown rõ ràng — không dùng biến module-global khởi tạo lười.
package bus

import (
	"strings"
	"sync"
	"time"
)

// Các loại sự kiện phát trên bus. Kind có dạng namespace phân cấp bằng dấu chấm,
// subscriber lọc theo prefix (ví dụ "chat." nhận cả hai loại dưới đây).
const (
	KindChatInbound  = "chat.message.inbound"
	KindChatOutbound = "chat.message.outbound"
	KindChatRead     = "chat.conversation.read"
)

// Event đại diện cho một sự kiện domain phát trên bus.
type Event struct {
	Kind      string
	Timestamp time.Time
	Payload   any
}

// Bus là in-process pub/sub bus với lọc theo namespace prefix.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]*subscription
	next   int
	closed bool
}

type subscription struct {
	namespace string
	ch        chan Event
}

// New tạo một event bus mới.
func New() *Bus {
	return &Bus{
		subs: make(map[int]*subscription),
	}
}

// Publish gửi event đến tất cả subscriber có namespace là prefix của event.Kind.
// Không block: subscriber đầy buffer sẽ bị drop event (poll-based reader sẽ bắt kịp sau).
func (b *Bus) Publish(evt Event) {
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, sub := range b.subs {
		if strings.HasPrefix(evt.Kind, sub.namespace) {
			select {
			case sub.ch <- evt:
			default:
			}
		}
	}
}

// Subscribe trả về channel nhận các event khớp namespace prefix và hàm unsubscribe.
// bufSize điều khiển buffer của channel.
func (b *Bus) Subscribe(namespace string, bufSize int) (<-chan Event, func()) {
	ch := make(chan Event, bufSize)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := b.next
	b.next++
	b.subs[id] = &subscription{namespace: namespace, ch: ch}
	b.mu.Unlock()

	return ch, func() {
		b.mu.Lock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub.ch)
		}
		b.mu.Unlock()
	}
}

// Shutdown đóng bus: từ chối publish mới và đóng channel của mọi subscriber.
// Gọi một lần khi server shutdown.
func (b *Bus) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub.ch)
	}
}
