package websocket

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"room_chat_server/internal/service/chat"

	"github.com/gorilla/websocket"
)

// recordingBroker 记录网关投递的事件
type recordingBroker struct {
	events chan chat.Event
}

func (b *recordingBroker) Connect(username string, conn chat.Conn) (string, error) {
	return "s1", nil
}

func (b *recordingBroker) Submit(sessionID string, ev chat.Event) bool {
	b.events <- ev
	return true
}

func dialGateway(t *testing.T, g *Gateway) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = g.Serve(w, r, "alice")
	}))
	t.Cleanup(server.Close)
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestCheckOrigin(t *testing.T) {
	tests := []struct {
		allowed []string
		origin  string
		want    bool
	}{
		{nil, "http://evil.example", true},
		{[]string{"*"}, "http://evil.example", true},
		{[]string{"http://localhost:5173"}, "http://localhost:5173", true},
		{[]string{"http://localhost:5173"}, "http://evil.example", false},
		{[]string{"http://localhost:5173"}, "", true},
	}
	for _, tt := range tests {
		r := httptest.NewRequest("GET", "/ws", nil)
		if tt.origin != "" {
			r.Header.Set("Origin", tt.origin)
		}
		if got := checkOrigin(tt.allowed)(r); got != tt.want {
			t.Fatalf("allowed=%v origin=%q: got %v, want %v", tt.allowed, tt.origin, got, tt.want)
		}
	}
}

func TestClientSendDropsWhenFullOrClosed(t *testing.T) {
	c := newClient(nil, Options{SendBufferSize: 1, EventsPerSecond: 1, Burst: 1})
	if !c.Send([]byte("a")) {
		t.Fatal("first frame dropped")
	}
	if c.Send([]byte("b")) {
		t.Fatal("frame accepted beyond buffer")
	}
	<-c.sendBack
	_ = c.Close()
	_ = c.Close()
	if c.Send([]byte("c")) {
		t.Fatal("frame accepted after close")
	}
}

func TestReadPumpNeverRateLimitsTyping(t *testing.T) {
	broker := &recordingBroker{events: make(chan chat.Event, 16)}
	g := NewGateway(broker, Options{EventsPerSecond: 0.001, Burst: 1})
	conn := dialGateway(t, g)

	frames := []string{
		`{"event":"send_message","data":{"text":"a"}}`,
		`{"event":"send_message","data":{"text":"b"}}`,
		`{"event":"typing","data":{"isTyping":true}}`,
		`{"event":"send_message","data":{"text":"c"}}`,
		`{"event":"typing","data":{"isTyping":false}}`,
	}
	for _, f := range frames {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	want := []chat.Event{
		chat.SendMessageEvent{Text: "a"},
		chat.TypingEvent{IsTyping: true},
		chat.TypingEvent{IsTyping: false},
	}
	var got []chat.Event
	timeout := time.After(2 * time.Second)
	for len(got) < len(want) {
		select {
		case ev := <-broker.events:
			got = append(got, ev)
		case <-timeout:
			t.Fatalf("submitted events = %#v, want %#v", got, want)
		}
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("submitted events = %#v, want %#v", got, want)
		}
	}
}
