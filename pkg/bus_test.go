package giga

import (
	"context"
	"testing"
	"time"
)

type testSubscriber struct {
	rec chan Message
}

func (s testSubscriber) GetChan() chan Message {
	return s.rec
}

func TestBusRoutesByEventType(t *testing.T) {
	bus := NewMessageBus()

	txnOnly := testSubscriber{rec: make(chan Message, 10)}
	bus.Register(txnOnly, EVENT_TXN("TXN"))
	all := testSubscriber{rec: make(chan Message, 10)}
	bus.Register(all, EVENT_ALL("ALL"))

	bus.Run(make(chan bool, 1), make(chan bool, 1), make(chan context.Context))

	bus.Send(TXN_VALID, "validated", "msg-1")
	bus.Send(SYS_MSG, "system chatter")

	// the TXN subscriber sees only the TXN message
	select {
	case m := <-txnOnly.rec:
		if m.EventType.Type() != "TXN" || m.ID != "msg-1" {
			t.Errorf("wrong message delivered: %+v", m)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for TXN message")
	}

	// the ALL subscriber sees both, in order
	for _, want := range []string{"TXN", "SYS"} {
		select {
		case m := <-all.rec:
			if m.EventType.Type() != want {
				t.Errorf("want %s message, got %+v", want, m)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %s message", want)
		}
	}

	select {
	case m := <-txnOnly.rec:
		t.Errorf("TXN subscriber should not see %+v", m)
	case <-time.After(50 * time.Millisecond):
	}
}
