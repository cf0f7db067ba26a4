// Package bus - Test pub/sub: lọc namespace, non-blocking publish và shutdown.
package bus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	defer b.Shutdown()

	events, unsubscribe := b.Subscribe("chat.", 8)
	defer unsubscribe()

	b.Publish(Event{Kind: KindChatInbound, Payload: "p1"})

	select {
	case evt := <-events:
		assert.Equal(t, KindChatInbound, evt.Kind)
		assert.Equal(t, "p1", evt.Payload)
		assert.False(t, evt.Timestamp.IsZero(), "Publish phải tự gán timestamp khi thiếu")
	case <-time.After(time.Second):
		t.Fatal("Không nhận được event đã publish")
	}
}

func TestNamespaceFiltering(t *testing.T) {
	b := New()
	defer b.Shutdown()

	chatEvents, unsubChat := b.Subscribe("chat.message.", 8)
	defer unsubChat()
	allEvents, unsubAll := b.Subscribe("chat.", 8)
	defer unsubAll()

	b.Publish(Event{Kind: KindChatRead})

	select {
	case evt := <-allEvents:
		assert.Equal(t, KindChatRead, evt.Kind)
	case <-time.After(time.Second):
		t.Fatal("Subscriber namespace 'chat.' phải nhận event chat.conversation.read")
	}

	select {
	case evt := <-chatEvents:
		t.Fatalf("Subscriber namespace 'chat.message.' không được nhận %s", evt.Kind)
	case <-time.After(50 * time.Millisecond):
		// Đúng: không có event nào lọt qua filter
	}
}

func TestPublishDoesNotBlockOnFullBuffer(t *testing.T) {
	b := New()
	defer b.Shutdown()

	_, unsubscribe := b.Subscribe("chat.", 1)
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		// Buffer 1, publish 10 — subscriber không đọc, publish vẫn phải trả về
		for i := 0; i < 10; i++ {
			b.Publish(Event{Kind: KindChatInbound})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish bị block khi buffer của subscriber đầy")
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	defer b.Shutdown()

	events, unsubscribe := b.Subscribe("chat.", 8)
	unsubscribe()

	// Channel phải được đóng sau unsubscribe
	select {
	case _, open := <-events:
		assert.False(t, open, "Channel phải đóng sau khi unsubscribe")
	case <-time.After(time.Second):
		t.Fatal("Channel không được đóng sau unsubscribe")
	}

	// Unsubscribe lần hai không panic
	unsubscribe()
}

func TestShutdown(t *testing.T) {
	b := New()
	events, _ := b.Subscribe("chat.", 8)

	b.Shutdown()

	_, open := <-events
	assert.False(t, open, "Shutdown phải đóng channel của mọi subscriber")

	// Publish sau shutdown là no-op, không panic
	b.Publish(Event{Kind: KindChatInbound})

	// Subscribe sau shutdown trả về channel đã đóng
	lateEvents, lateUnsub := b.Subscribe("chat.", 1)
	_, open = <-lateEvents
	assert.False(t, open, "Subscribe sau shutdown phải nhận channel đã đóng")
	lateUnsub()

	// Shutdown lần hai không panic
	b.Shutdown()
}
