package ws

import (
	"encoding/json"
	"testing"
	"time"
)

func recvMessage(t *testing.T, ch chan []byte) *Message {
	t.Helper()
	select {
	case data := <-ch:
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			t.Fatalf("bad envelope: %v", err)
		}
		return &msg
	case <-time.After(time.Second):
		t.Fatal("no message within 1s")
		return nil
	}
}

func TestHub_BroadcastReachesAllWatchers(t *testing.T) {
	hub := NewHub()

	a := &Connection{SessionID: "s_1", UserID: "u_a", Send: make(chan []byte, 8), Hub: hub}
	b := &Connection{SessionID: "s_1", UserID: "u_b", Send: make(chan []byte, 8), Hub: hub}
	other := &Connection{SessionID: "s_2", UserID: "u_c", Send: make(chan []byte, 8), Hub: hub}
	hub.Register(a)
	hub.Register(b)
	hub.Register(other)

	hub.BroadcastToSession("s_1", string(MsgSessionProgress), map[string]int{"score": 3})

	for _, conn := range []*Connection{a, b} {
		msg := recvMessage(t, conn.Send)
		if msg.Type != MsgSessionProgress {
			t.Errorf("type = %q", msg.Type)
		}
	}

	select {
	case <-other.Send:
		t.Fatal("watcher of another session received the message")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_DisconnectSessionClosesWatchers(t *testing.T) {
	hub := NewHub()

	conn := &Connection{SessionID: "s_1", UserID: "u_a", Send: make(chan []byte, 8), Hub: hub}
	hub.Register(conn)

	hub.BroadcastToSession("s_1", string(MsgSessionClosed), nil)
	if msg := recvMessage(t, conn.Send); msg.Type != MsgSessionClosed {
		t.Fatalf("type = %q", msg.Type)
	}

	hub.DisconnectSession("s_1")

	select {
	case _, ok := <-conn.Send:
		if ok {
			t.Fatal("expected closed channel, got message")
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed within 1s")
	}
}

func TestHub_CloseEventArrivesBeforeTeardown(t *testing.T) {
	hub := NewHub()

	conn := &Connection{SessionID: "s_1", UserID: "u_a", Send: make(chan []byte, 8), Hub: hub}
	hub.Register(conn)

	// Queue the terminal event and the teardown back to back, the way
	// the session service does on close, without draining in between.
	hub.BroadcastToSession("s_1", string(MsgSessionClosed), map[string]string{"id": "s_1"})
	hub.DisconnectSession("s_1")

	if msg := recvMessage(t, conn.Send); msg.Type != MsgSessionClosed {
		t.Fatalf("first delivery = %q, want %q", msg.Type, MsgSessionClosed)
	}

	select {
	case data, ok := <-conn.Send:
		if ok {
			t.Fatalf("expected closed channel after teardown, got %s", data)
		}
	case <-time.After(time.Second):
		t.Fatal("send channel not closed within 1s")
	}
}

func TestHub_UnregisterIsIdempotentAfterDisconnect(t *testing.T) {
	hub := NewHub()

	conn := &Connection{SessionID: "s_1", UserID: "u_a", Send: make(chan []byte, 8), Hub: hub}
	hub.Register(conn)
	hub.DisconnectSession("s_1")

	// The read pump unregisters on exit even if the session was already
	// torn down; this must not panic on a double close.
	hub.Unregister(conn)

	hub.BroadcastToSession("s_1", string(MsgSessionProgress), nil)
	time.Sleep(50 * time.Millisecond)
}
