package handlers

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"back2u-backend/internal/models"
	"back2u-backend/internal/services"

	"github.com/gorilla/websocket"
)

type wsFrame struct {
	Type    string          `json:"type"`
	UID     string          `json:"uid"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func (s *testServer) dial(t *testing.T, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(s.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil reads frames until match accepts one or the deadline passes
func readUntil(t *testing.T, conn *websocket.Conn, match func(wsFrame) bool) wsFrame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var f wsFrame
		if err := conn.ReadJSON(&f); err != nil {
			t.Fatalf("read: %v", err)
		}
		if match(f) {
			return f
		}
	}
}

func authState(uid string) func(wsFrame) bool {
	return func(f wsFrame) bool { return f.Type == "auth_state" && f.UID == uid }
}

func TestWebSocketNotificationDelivery(t *testing.T) {
	s := newTestServer(t)
	alice := s.token(t, "uidA", "Alice")
	budi := s.token(t, "uidB", "Budi")

	var report models.Report
	s.do(t, http.MethodPost, "/api/v1/reports", alice, models.ReportInput{Title: "Dompet Hitam"}, &report)

	conn := s.dial(t, "")
	if err := conn.WriteJSON(services.WSMessage{Type: "sign_in", Token: alice}); err != nil {
		t.Fatal(err)
	}
	readUntil(t, conn, authState("uidA"))
	if !s.hub.IsOnline("uidA") {
		t.Fatal("owner not registered after sign_in")
	}

	var ret models.Return
	s.do(t, http.MethodPost, "/api/v1/reports/"+report.ID+"/returns", budi, models.ReturnInput{Title: "ketemu"}, &ret)

	f := readUntil(t, conn, func(f wsFrame) bool { return f.Type == "notification" })
	var n models.Notification
	if err := json.Unmarshal(f.Data, &n); err != nil {
		t.Fatalf("decode notification: %v", err)
	}
	if n.ReturnID != ret.ID || n.ID != services.NotificationID(ret.ID) {
		t.Errorf("notification = %+v, want return %s", n, ret.ID)
	}

	if err := conn.WriteJSON(services.WSMessage{Type: "sign_out"}); err != nil {
		t.Fatal(err)
	}
	readUntil(t, conn, authState(""))
	if s.hub.IsOnline("uidA") {
		t.Fatal("owner still registered after sign_out")
	}

	s.do(t, http.MethodPost, "/api/v1/reports/"+report.ID+"/returns", budi, models.ReturnInput{Title: "lagi"}, nil)

	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	var late wsFrame
	err := conn.ReadJSON(&late)
	var netErr net.Error
	if !errors.As(err, &netErr) || !netErr.Timeout() {
		t.Fatalf("expected no frame after sign_out, got %+v (err %v)", late, err)
	}
}

func TestWebSocketTokenQuery(t *testing.T) {
	s := newTestServer(t)
	alice := s.token(t, "uidA", "Alice")

	conn := s.dial(t, "?token="+alice)
	readUntil(t, conn, authState("uidA"))

	conn.Close()
	deadline := time.Now().Add(5 * time.Second)
	for s.hub.IsOnline("uidA") {
		if time.Now().After(deadline) {
			t.Fatal("connection still registered after close")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWebSocketRejectsBadToken(t *testing.T) {
	s := newTestServer(t)

	url := "ws" + strings.TrimPrefix(s.URL, "http") + "/ws?token=garbage"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("response = %+v, want 401", resp)
	}
}

func TestWebSocketMessageErrors(t *testing.T) {
	s := newTestServer(t)
	conn := s.dial(t, "")

	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{"malformed", "{", "Invalid message format"},
		{"unknown type", `{"type":"dance"}`, "Unknown message type"},
		{"bad sign_in", `{"type":"sign_in","token":"garbage"}`, "invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(tt.payload)); err != nil {
				t.Fatal(err)
			}
			f := readUntil(t, conn, func(f wsFrame) bool { return f.Type == "error" })
			if f.Message != tt.want {
				t.Errorf("message = %q, want %q", f.Message, tt.want)
			}
		})
	}

	if err := conn.WriteJSON(services.WSMessage{Type: "ping"}); err != nil {
		t.Fatal(err)
	}
	readUntil(t, conn, func(f wsFrame) bool { return f.Type == "pong" })
}
