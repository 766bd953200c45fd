package channels

import (
	"context"
	"testing"
	"time"
)

// fakeChannel is a minimal Channel implementation for manager tests.
type fakeChannel struct {
	name      string
	connected bool
	failConn  bool
	incoming  chan *IncomingMessage
	sent      []*OutgoingMessage
}

func newFakeChannel(name string) *fakeChannel {
	return &fakeChannel{name: name, incoming: make(chan *IncomingMessage, 8)}
}

func (f *fakeChannel) Name() string { return f.name }

func (f *fakeChannel) Connect(ctx context.Context) error {
	if f.failConn {
		return ErrConnectionFailed
	}
	f.connected = true
	return nil
}

func (f *fakeChannel) Disconnect() error {
	f.connected = false
	return nil
}

func (f *fakeChannel) Send(ctx context.Context, to string, msg *OutgoingMessage) error {
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeChannel) Receive() <-chan *IncomingMessage { return f.incoming }
func (f *fakeChannel) IsConnected() bool                { return f.connected }
func (f *fakeChannel) Self() Identity                   { return Identity{ID: "1", Username: "floppa"} }
func (f *fakeChannel) Health() HealthStatus             { return HealthStatus{Connected: f.connected} }

func TestManagerRegisterDuplicate(t *testing.T) {
	m := NewManager(nil)

	if err := m.Register(newFakeChannel("discord")); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := m.Register(newFakeChannel("discord")); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestManagerFanIn(t *testing.T) {
	m := NewManager(nil)
	ch := newFakeChannel("discord")
	if err := m.Register(ch); err != nil {
		t.Fatalf("register: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	in := &IncomingMessage{ID: "m1", Channel: "discord", Content: "hello"}
	ch.incoming <- in

	select {
	case got := <-m.Messages():
		if got.ID != "m1" {
			t.Errorf("unexpected message: %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for fanned-in message")
	}
}

func TestManagerSendUnknownChannel(t *testing.T) {
	m := NewManager(nil)

	err := m.Send(context.Background(), "telegram", "c1", &OutgoingMessage{Content: "hi"})
	if err == nil {
		t.Error("expected error for unknown channel")
	}
}

func TestManagerSendDisconnected(t *testing.T) {
	m := NewManager(nil)
	ch := newFakeChannel("discord")
	if err := m.Register(ch); err != nil {
		t.Fatalf("register: %v", err)
	}

	err := m.Send(context.Background(), "discord", "c1", &OutgoingMessage{Content: "hi"})
	if err == nil {
		t.Error("expected error when channel is disconnected")
	}
}

func TestManagerStartAllFail(t *testing.T) {
	m := NewManager(nil)
	ch := newFakeChannel("discord")
	ch.failConn = true
	if err := m.Register(ch); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := m.Start(context.Background()); err == nil {
		t.Error("expected error when no channel connects")
	}
}
