package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func mkUpdate(id int, chatID int64, text string) telegramUpdate {
	var u telegramUpdate
	raw := struct {
		UpdateID int `json:"update_id"`
		Message  struct {
			Text string `json:"text"`
			Chat struct {
				ID int64 `json:"id"`
			} `json:"chat"`
		} `json:"message"`
	}{UpdateID: id}
	raw.Message.Text = text
	raw.Message.Chat.ID = chatID
	b, _ := json.Marshal(raw)
	_ = json.Unmarshal(b, &u)
	return u
}

func TestCommandFrom(t *testing.T) {
	tn := NewTelegramNotifier("token", "123", "")

	tests := []struct {
		name   string
		update telegramUpdate
		want   string
		ok     bool
	}{
		{"command from configured chat", mkUpdate(1, 123, "/status"), "/status", true},
		{"command with argument", mkUpdate(2, 123, " /analyze BTC "), "/analyze BTC", true},
		{"plain chatter ignored", mkUpdate(3, 123, "hello there"), "", false},
		{"foreign chat ignored", mkUpdate(4, 999, "/status"), "", false},
		{"empty message ignored", mkUpdate(5, 123, ""), "", false},
		{"no message payload", telegramUpdate{UpdateID: 6}, "", false},
	}
	for _, tt := range tests {
		got, ok := tn.commandFrom(tt.update)
		if ok != tt.ok || got != tt.want {
			t.Errorf("%s: commandFrom = (%q, %v), want (%q, %v)", tt.name, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCommandFrom_NoChatFilterWithoutChatID(t *testing.T) {
	tn := NewTelegramNotifier("token", "", "")
	if _, ok := tn.commandFrom(mkUpdate(1, 42, "/help")); !ok {
		t.Error("without a configured chat, any chat's commands should pass")
	}
}

func TestFetchUpdates_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"description":"flood control"}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "123", "")
	tn.APIBase = srv.URL

	_, err := tn.fetchUpdates(context.Background(), srv.Client(), 0)
	if err == nil || !strings.Contains(err.Error(), "flood control") {
		t.Errorf("expected the API error description, got %v", err)
	}
}

func TestStartPolling_DispatchesAndReplies(t *testing.T) {
	var calls int32
	sent := make(chan string, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.Contains(r.URL.Path, "getUpdates"):
			if atomic.AddInt32(&calls, 1) == 1 {
				w.Write([]byte(`{"ok":true,"result":[
					{"update_id":7,"message":{"text":"/status","chat":{"id":123}}},
					{"update_id":8,"message":{"text":"just chatting","chat":{"id":123}}}
				]}`))
				return
			}
			// Offset must have advanced past every consumed update.
			if !strings.Contains(r.URL.RawQuery, "offset=9") {
				t.Errorf("offset not advanced: %s", r.URL.RawQuery)
			}
			w.Write([]byte(`{"ok":true,"result":[]}`))
		case strings.Contains(r.URL.Path, "sendMessage"):
			var payload map[string]string
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Errorf("decode sendMessage payload: %v", err)
			}
			select {
			case sent <- payload["text"]:
			default:
			}
			w.Write([]byte(`{"ok":true}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "123", "")
	tn.APIBase = srv.URL

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		tn.StartPolling(ctx, func(command string) string {
			if command != "/status" {
				t.Errorf("handler got %q, want /status", command)
			}
			return "bot is up"
		})
		close(done)
	}()

	select {
	case reply := <-sent:
		if reply != "bot is up" {
			t.Errorf("reply = %q", reply)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no reply delivered")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not stop on cancel")
	}
}
