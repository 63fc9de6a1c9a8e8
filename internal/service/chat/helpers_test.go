package chat

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"room_chat_server/internal/model"
)

type delivery struct {
	sessionID string
	out       Outbound
}

// recordingOutbox 按投递顺序记录全部出站事件
type recordingOutbox struct {
	mu   sync.Mutex
	sent []delivery
}

func (r *recordingOutbox) Deliver(sessionID string, out Outbound) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, delivery{sessionID: sessionID, out: out})
}

func (r *recordingOutbox) of(sessionID string) []Outbound {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Outbound
	for _, d := range r.sent {
		if d.sessionID == sessionID {
			out = append(out, d.out)
		}
	}
	return out
}

func (r *recordingOutbox) names(sessionID string) []string {
	var names []string
	for _, out := range r.of(sessionID) {
		names = append(names, out.Event)
	}
	return names
}

// last 会话最近一次收到的指定事件
func (r *recordingOutbox) last(t *testing.T, sessionID, event string) Outbound {
	t.Helper()
	outs := r.of(sessionID)
	for i := len(outs) - 1; i >= 0; i-- {
		if outs[i].Event == event {
			return outs[i]
		}
	}
	t.Fatalf("session %s never received %s (got %v)", sessionID, event, r.names(sessionID))
	return Outbound{}
}

func (r *recordingOutbox) count(sessionID, event string) int {
	n := 0
	for _, out := range r.of(sessionID) {
		if out.Event == event {
			n++
		}
	}
	return n
}

func (r *recordingOutbox) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}

func sequence(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testOptions() Options {
	return Options{
		Rooms:             []string{"general", "random", "tech"},
		DefaultRoom:       "general",
		NewMessageID:      sequence("m"),
		NewSessionID:      sequence("s"),
		NewNotificationID: sequence("n"),
		Now:               func() time.Time { return testNow },
	}
}

func newTestEngine(t *testing.T, mutate func(o *Options)) (*Engine, *recordingOutbox) {
	t.Helper()
	opts := testOptions()
	if mutate != nil {
		mutate(&opts)
	}
	out := &recordingOutbox{}
	return NewEngine(opts, out), out
}

// connect 注册会话并完成隐式加入默认房间
func connect(t *testing.T, e *Engine, username string) string {
	t.Helper()
	s := e.Register(username)
	if err := e.Handle(s.ID, connectEvent{}); err != nil {
		t.Fatalf("connect %s: %v", username, err)
	}
	return s.ID
}

func mustHandle(t *testing.T, e *Engine, sessionID string, ev Event) {
	t.Helper()
	if err := e.Handle(sessionID, ev); err != nil {
		t.Fatalf("handle %s for %s: %v", ev.Name(), sessionID, err)
	}
}

func memberIDs(members []model.Member) []string {
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	return ids
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
