package chat

import (
	"errors"
	"fmt"
	"testing"

	"room_chat_server/internal/model"
	"room_chat_server/pkg/errorx"
)

func newMessages(n int) []*model.Message {
	msgs := make([]*model.Message, 0, n)
	for i := 1; i <= n; i++ {
		msgs = append(msgs, &model.Message{ID: fmt.Sprintf("m%d", i)})
	}
	return msgs
}

func ids(msgs []*model.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.ID)
	}
	return out
}

func TestMessageLogEvictsOldestFirst(t *testing.T) {
	log := NewMessageLog(3)
	var evicted []string
	for _, m := range newMessages(5) {
		if old := log.Append(m); old != nil {
			evicted = append(evicted, old.ID)
		}
	}
	if !equalStrings(evicted, []string{"m1", "m2"}) {
		t.Fatalf("evicted = %v", evicted)
	}
	if got := ids(log.All()); !equalStrings(got, []string{"m3", "m4", "m5"}) {
		t.Fatalf("log = %v", got)
	}
	if got := ids(log.Tail(2)); !equalStrings(got, []string{"m4", "m5"}) {
		t.Fatalf("tail = %v", got)
	}
	if got := log.Tail(10); len(got) != 3 {
		t.Fatalf("tail beyond length = %d", len(got))
	}
}

func TestMessageLogPage(t *testing.T) {
	log := NewMessageLog(100)
	for _, m := range newMessages(7) {
		log.Append(m)
	}
	tests := []struct {
		loaded, size int
		want         []string
		hasMore      bool
	}{
		{0, 3, []string{"m5", "m6", "m7"}, true},
		{3, 3, []string{"m2", "m3", "m4"}, true},
		{6, 3, []string{"m1"}, false},
		{7, 3, []string{}, false},
		{50, 3, []string{}, false},
		{-4, 2, []string{"m6", "m7"}, true},
	}
	for _, tt := range tests {
		page, hasMore := log.Page(tt.loaded, tt.size)
		if !equalStrings(ids(page), tt.want) || hasMore != tt.hasMore {
			t.Fatalf("Page(%d, %d) = %v, %v; want %v, %v", tt.loaded, tt.size, ids(page), hasMore, tt.want, tt.hasMore)
		}
	}
}

func TestLedgerReactAndRead(t *testing.T) {
	l := NewLedger()
	msg := &model.Message{ID: "m1", SenderID: "s1"}
	l.Track(msg, "general")

	if !equalStrings(msg.ReadBy, []string{"s1"}) {
		t.Fatalf("readBy seeded with %v", msg.ReadBy)
	}
	reactions, room, err := l.React("m1", "s2", "👍")
	if err != nil || room != "general" || reactions["s2"] != "👍" {
		t.Fatalf("react = %v, %q, %v", reactions, room, err)
	}
	// 返回副本，修改不影响账本
	reactions["s3"] = "x"
	if _, ok := msg.Reactions["s3"]; ok {
		t.Fatal("react returned the live map")
	}

	readBy, _, changed, err := l.MarkRead("m1", "s2")
	if err != nil || !changed || !equalStrings(readBy, []string{"s1", "s2"}) {
		t.Fatalf("mark read = %v, %v, %v", readBy, changed, err)
	}
	if _, _, changed, _ = l.MarkRead("m1", "s2"); changed {
		t.Fatal("second mark read reported a change")
	}

	l.Forget("m1")
	if _, _, err := l.React("m1", "s2", "👍"); !errors.Is(err, errorx.ErrNotFound) {
		t.Fatalf("react forgotten: err = %v", err)
	}
	if _, _, _, err := l.MarkRead("m1", "s2"); !errors.Is(err, errorx.ErrNotFound) {
		t.Fatalf("read forgotten: err = %v", err)
	}
}

func TestTrackerFeedCapacityAndForget(t *testing.T) {
	tr := NewTracker(2)
	for i := 1; i <= 3; i++ {
		tr.Push("s1", model.Notification{ID: fmt.Sprintf("n%d", i), Room: "general"})
	}
	feed := tr.Feed("s1")
	if len(feed) != 2 || feed[0].ID != "n2" || feed[1].ID != "n3" {
		t.Fatalf("feed = %+v", feed)
	}
	tr.MarkRoomRead("s1", "general")
	for _, n := range tr.Feed("s1") {
		if !n.Read {
			t.Fatalf("notification %s not read", n.ID)
		}
	}

	if tr.Increment("s1", "general") != 1 || tr.Increment("s1", "general") != 2 {
		t.Fatal("increment is not monotone")
	}
	tr.Clear("s1", "general")
	if tr.Count("s1", "general") != 0 {
		t.Fatal("clear did not reset the count")
	}

	tr.Forget("s1")
	if tr.tracked("s1") {
		t.Fatal("forget left state behind")
	}
}

func TestDeriveReceiptStatus(t *testing.T) {
	members := []string{"s1", "s2", "s3"}
	tests := []struct {
		readBy []string
		want   ReceiptStatus
	}{
		{[]string{"s1"}, ReceiptSent},
		{[]string{"s1", "s2"}, ReceiptDelivered},
		{[]string{"s1", "s2", "s3"}, ReceiptRead},
		{[]string{"s2", "s3", "s9"}, ReceiptRead},
	}
	for _, tt := range tests {
		if got := DeriveReceiptStatus(tt.readBy, "s1", members); got != tt.want {
			t.Fatalf("readBy %v: status = %s, want %s", tt.readBy, got, tt.want)
		}
	}
}

func TestRoomStore(t *testing.T) {
	s := NewRoomStore([]string{"general", " random ", "general", "", "private_x"}, 10)
	if got := s.PublicNames(); !equalStrings(got, []string{"general", "random"}) {
		t.Fatalf("public rooms = %v", got)
	}

	general, _ := s.Public("general")
	random, _ := s.Public("random")
	s.Enter(general, "s1")
	s.SetTyping(general, "s1", true)
	if s.SetTyping(random, "s1", true) {
		t.Fatal("non-member marked as typing")
	}

	left := s.LeaveAll("s1")
	if len(left) != 1 || left[0].Room != general || !left[0].WasTyping {
		t.Fatalf("departures = %+v", left)
	}
	if len(s.LeaveAll("s1")) != 0 {
		t.Fatal("leave is not idempotent")
	}

	p := s.Private("s2", "s1")
	if p != s.Private("s1", "s2") || p.Name != PrivateKey("s1", "s2") {
		t.Fatalf("private room not shared: %s", p.Name)
	}
	if !equalStrings(p.audience(), []string{"s1", "s2"}) {
		t.Fatalf("private audience = %v", p.audience())
	}
	if _, err := s.Public(p.Name); !errors.Is(err, errorx.ErrUnknownRoom) {
		t.Fatalf("private room exposed as public: %v", err)
	}
}

func TestRegistryViewing(t *testing.T) {
	r := NewRegistry(sequence("s"), nil)
	a := r.Register("alice")
	b := r.Register("alice")
	if a.ID == b.ID {
		t.Fatal("duplicate usernames must get distinct sessions")
	}
	if r.Viewing(a.ID, "general") {
		t.Fatal("authenticating session is viewing a room")
	}
	a.State = model.StateJoined
	r.SetRoom(a.ID, "general")
	if !r.Viewing(a.ID, "general") || r.Viewing(a.ID, "random") {
		t.Fatal("viewing does not follow the current room")
	}

	r.remove(a.ID)
	if _, ok := r.Lookup(a.ID); ok || r.Len() != 1 {
		t.Fatalf("remove left %d sessions", r.Len())
	}
	var order []string
	r.Each(func(s *model.Session) { order = append(order, s.ID) })
	if !equalStrings(order, []string{b.ID}) {
		t.Fatalf("order = %v", order)
	}
}
