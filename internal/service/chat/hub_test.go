package chat

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"room_chat_server/pkg/errorx"
)

type stubConn struct {
	frames chan []byte
	closed chan struct{}
	once   sync.Once
}

func newStubConn(buffer int) *stubConn {
	return &stubConn{frames: make(chan []byte, buffer), closed: make(chan struct{})}
}

func (c *stubConn) Send(payload []byte) bool {
	select {
	case <-c.closed:
		return false
	default:
	}
	select {
	case c.frames <- payload:
		return true
	default:
		return false
	}
}

func (c *stubConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// waitFor 读取帧直到出现指定事件
func waitFor(t *testing.T, c *stubConn, event string) frame {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case payload := <-c.frames:
			var f frame
			if err := json.Unmarshal(payload, &f); err != nil {
				t.Fatalf("bad frame %s: %v", payload, err)
			}
			if f.Event == event {
				return f
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", event)
		}
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(testOptions())
	go hub.Start()
	t.Cleanup(hub.Close)
	return hub
}

func TestHubConnectAndBroadcast(t *testing.T) {
	hub := startHub(t)
	aliceConn, bobConn := newStubConn(64), newStubConn(64)

	alice, err := hub.Connect("alice", aliceConn)
	if err != nil {
		t.Fatalf("connect alice: %v", err)
	}
	waitFor(t, aliceConn, OutPaginationInfo)
	if _, err := hub.Connect("bob", bobConn); err != nil {
		t.Fatalf("connect bob: %v", err)
	}
	waitFor(t, bobConn, OutPaginationInfo)

	if !hub.Submit(alice, SendMessageEvent{Text: "hello"}) {
		t.Fatal("submit rejected")
	}
	f := waitFor(t, bobConn, OutReceiveMessage)
	var msg struct {
		Text   string `json:"message"`
		Sender string `json:"sender"`
	}
	if err := json.Unmarshal(f.Data, &msg); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if msg.Text != "hello" || msg.Sender != "alice" {
		t.Fatalf("message = %+v", msg)
	}
	f = waitFor(t, bobConn, OutUnreadCountUpdate)
	var unread UnreadUpdate
	if err := json.Unmarshal(f.Data, &unread); err != nil || unread.Count != 1 {
		t.Fatalf("unread = %+v, err = %v", unread, err)
	}
}

func TestHubDisconnectClosesConn(t *testing.T) {
	hub := startHub(t)
	aliceConn, bobConn := newStubConn(64), newStubConn(64)
	alice, _ := hub.Connect("alice", aliceConn)
	bob, _ := hub.Connect("bob", bobConn)
	waitFor(t, aliceConn, OutPaginationInfo)

	hub.Submit(bob, DisconnectEvent{})
	waitFor(t, aliceConn, OutUserLeft)

	select {
	case <-bobConn.closed:
	case <-time.After(2 * time.Second):
		t.Fatal("disconnected connection was not closed")
	}
	if _, ok := hub.Engine().Session(bob); ok {
		t.Fatal("session survived disconnect")
	}
	if _, ok := hub.Engine().Session(alice); !ok {
		t.Fatal("unrelated session was removed")
	}
}

func TestHubSlowConsumerDoesNotBlock(t *testing.T) {
	hub := startHub(t)
	slow := newStubConn(0)
	fastConn := newStubConn(256)
	if _, err := hub.Connect("slow", slow); err != nil {
		t.Fatalf("connect slow: %v", err)
	}
	fast, _ := hub.Connect("fast", fastConn)
	waitFor(t, fastConn, OutPaginationInfo)

	for i := 0; i < 10; i++ {
		hub.Submit(fast, SendMessageEvent{Text: "spam"})
	}
	hub.Submit(fast, TypingEvent{IsTyping: true})
	waitFor(t, fastConn, OutTypingUsers)
}

func TestHubRejectsAfterClose(t *testing.T) {
	hub := NewHub(testOptions())
	go hub.Start()
	conn := newStubConn(8)
	sid, err := hub.Connect("alice", conn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	hub.Close()
	hub.Close()

	select {
	case <-conn.closed:
	default:
		t.Fatal("close did not close live connections")
	}
	if hub.Submit(sid, SendMessageEvent{Text: "late"}) {
		t.Fatal("submit accepted after close")
	}
	_, err = hub.Connect("bob", newStubConn(8))
	if !errors.Is(err, errorx.ErrServerBusy) {
		t.Fatalf("connect after close: err = %v", err)
	}
}
