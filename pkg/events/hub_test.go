package events

import (
	"testing"
	"time"
)

type statusPayload struct {
	State      string `json:"state"`
	Percentage int    `json:"percentage"`
}

func TestPublishFansOut(t *testing.T) {
	h := NewEventHub()
	a := h.Subscribe()
	b := h.Subscribe()
	defer h.Unsubscribe(a)
	defer h.Unsubscribe(b)

	h.Publish(BatteryStatus, statusPayload{State: "charging", Percentage: 42})

	for i, ch := range []chan Event{a, b} {
		select {
		case ev := <-ch:
			if ev.Name != BatteryStatus {
				t.Errorf("subscriber %d: name = %q", i, ev.Name)
			}
			p, err := DecodeAs[statusPayload](ev)
			if err != nil {
				t.Fatalf("subscriber %d: decode failed: %v", i, err)
			}
			if p.State != "charging" || p.Percentage != 42 {
				t.Errorf("subscriber %d: payload = %+v", i, p)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d did not receive the event", i)
		}
	}
}

func TestPublishDropsForSlowSubscriber(t *testing.T) {
	h := NewEventHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	for i := 0; i < 100; i++ {
		h.Publish(BatteryStatus, i)
	}

	if got := len(ch); got != cap(ch) {
		t.Errorf("buffered events = %d, want %d", got, cap(ch))
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	h := NewEventHub()
	ch := h.Subscribe()
	if h.Subscribers() != 1 {
		t.Fatalf("Subscribers() = %d, want 1", h.Subscribers())
	}

	h.Unsubscribe(ch)
	h.Unsubscribe(ch) // second call is a no-op

	if _, ok := <-ch; ok {
		t.Error("channel should be closed")
	}
	if h.Subscribers() != 0 {
		t.Errorf("Subscribers() = %d, want 0", h.Subscribers())
	}

	// Publishing with no subscribers must not block.
	h.Publish(BatteryError, BatteryErrorEvent{Reason: "x"})
}

func TestNilHub(t *testing.T) {
	var h *EventHub
	h.Publish(BatteryStatus, "ignored")
	if h.Subscribers() != 0 {
		t.Error("nil hub should report no subscribers")
	}
}

func TestDecodeAsEmpty(t *testing.T) {
	v, err := DecodeAs[statusPayload](Event{Name: BatteryStatus})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != (statusPayload{}) {
		t.Errorf("DecodeAs(empty) = %+v, want zero", v)
	}
}
