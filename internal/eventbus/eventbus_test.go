package eventbus

import (
	"testing"

	"github.com/fieldops/leadrouter/core/events"
	"github.com/fieldops/leadrouter/core/model"
)

func TestBusPublishSubscribe(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	bus.Publish(events.AssignmentCreated{Assignment: model.Assignment{LeadID: "l1"}})
	v := <-ch
	ev, ok := v.(events.AssignmentCreated)
	if !ok || ev.Assignment.LeadID != "l1" {
		t.Fatalf("unexpected event %v", v)
	}
	bus.Unsubscribe(ch)
}

func TestBusSlowSubscriberDoesNotBlock(t *testing.T) {
	bus := New()
	_ = bus.Subscribe() // never drained
	for i := 0; i < subscriberBuffer*2; i++ {
		bus.Publish(events.ReminderDue{Stage: model.Stage24H})
	}
	// Reaching here without deadlock is the assertion.
}

func TestBusClose(t *testing.T) {
	bus := New()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatalf("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Fatalf("expected ch2 closed")
	}
	if ch := bus.Subscribe(); ch == nil {
		t.Fatalf("subscribe after close must return a closed channel, not nil")
	}
}

func TestBusUnsubscribeAfterClose(t *testing.T) {
	bus := New()
	ch := bus.Subscribe()
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Unsubscribe after Close: %v", r)
		}
	}()
	bus.Unsubscribe(ch)
}
