package chat

import (
	"errors"
	"testing"

	"room_chat_server/pkg/errorx"
)

func TestDecodeEvent(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Event
	}{
		{"join object", `{"event":"join","data":{"room":"tech"}}`, JoinEvent{Room: "tech"}},
		{"join bare string", `{"event":"join","data":" random "}`, JoinEvent{Room: "random"}},
		{"user_join alias", `{"event":"user_join","data":{"room":"general"}}`, JoinEvent{Room: "general"}},
		{"change room", `{"event":"change_room","data":"tech"}`, ChangeRoomEvent{Room: "tech"}},
		{"clear unread", `{"event":"clear_unread_count","data":{"room":"general"}}`, ClearUnreadEvent{Room: "general"}},
		{"load more", `{"event":"load_more_messages","data":{"room":"general","loadedCount":20}}`, LoadMoreEvent{Room: "general", LoadedCount: 20}},
		{"load more current count", `{"event":"load_more_messages","data":{"room":"general","currentCount":40}}`, LoadMoreEvent{Room: "general", LoadedCount: 40}},
		{"send message text", `{"event":"send_message","data":{"text":"hi"}}`, SendMessageEvent{Text: "hi"}},
		{"send message fallback", `{"event":"send_message","data":{"message":"hey"}}`, SendMessageEvent{Text: "hey"}},
		{"send message bare", `{"event":"send_message","data":"yo"}`, SendMessageEvent{Text: "yo"}},
		{"reaction numeric id", `{"event":"message_reaction","data":{"messageId":1790000000000000001,"reaction":"👍"}}`, ReactionEvent{MessageID: "1790000000000000001", Reaction: "👍"}},
		{"read bare id", `{"event":"message_read","data":"m1"}`, ReadEvent{MessageID: "m1"}},
		{"read object", `{"event":"message_read","data":{"messageId":42}}`, ReadEvent{MessageID: "42"}},
		{"typing object", `{"event":"typing","data":{"isTyping":true}}`, TypingEvent{IsTyping: true}},
		{"typing bare", `{"event":"typing","data":false}`, TypingEvent{IsTyping: false}},
		{"private message", `{"event":"private_message","data":{"to":"s2","message":"psst"}}`, PrivateMessageEvent{To: "s2", Text: "psst"}},
		{
			"send file",
			`{"event":"send_file","data":{"fileName":"a.png","fileType":"image/png","fileSize":10,"fileUrl":"https://x/a.png"}}`,
			SendFileEvent{FileName: "a.png", FileType: "image/png", FileSize: 10, FileURL: "https://x/a.png"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeEvent([]byte(tt.raw))
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDecodeNotificationSettings(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"event":"update_notification_settings","data":{"sound":false}}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	patch := ev.(NotificationSettingsEvent).Patch
	if patch.Sound == nil || *patch.Sound || patch.Browser != nil || patch.Desktop != nil {
		t.Fatalf("patch = %+v", patch)
	}
}

func TestDecodeEventRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `hello`},
		{"unknown event", `{"event":"launch_rockets","data":{}}`},
		{"disconnect is transport only", `{"event":"disconnect","data":{}}`},
		{"connect is internal", `{"event":"connect","data":{}}`},
		{"join without room", `{"event":"join","data":{}}`},
		{"join wrong type", `{"event":"join","data":{"room":5}}`},
		{"empty message", `{"event":"send_message","data":{"text":""}}`},
		{"load more without count", `{"event":"load_more_messages","data":{"room":"general"}}`},
		{"load more negative", `{"event":"load_more_messages","data":{"room":"general","loadedCount":-1}}`},
		{"reaction without id", `{"event":"message_reaction","data":{"reaction":"👍"}}`},
		{"reaction fractional id", `{"event":"message_reaction","data":{"messageId":1.5,"reaction":"👍"}}`},
		{"typing without flag", `{"event":"typing","data":{}}`},
		{"private without target", `{"event":"private_message","data":{"message":"hi"}}`},
		{"file without url", `{"event":"send_file","data":{"fileName":"a.png"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := DecodeEvent([]byte(tt.raw))
			if err == nil {
				t.Fatalf("decoded %#v, want error", ev)
			}
			if !errors.Is(err, errorx.ErrMalformedEvent) {
				t.Fatalf("err = %v, want malformed event", err)
			}
		})
	}
}
