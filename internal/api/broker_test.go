package api

import (
	"testing"
	"time"
)

func TestBrokerPublishSubscribe(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe(TopicSolves)

	evt := Event{Type: "solve.completed", Data: map[string]any{"solve_id": "s1"}}
	b.Publish(TopicSolves, evt)

	select {
	case got := <-ch:
		if got.Type != evt.Type {
			t.Fatalf("got type %s, want %s", got.Type, evt.Type)
		}
		if got.Data["solve_id"].(string) != "s1" {
			t.Fatalf("bad payload: %+v", got.Data)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("timeout waiting for event")
	}

	b.Unsubscribe(TopicSolves, ch)
	select {
	case _, ok := <-ch:
		if ok {
			t.Fatal("channel should be closed after unsubscribe")
		}
	case <-time.After(50 * time.Millisecond):
		// acceptable if already drained and closed
	}
}

func TestBrokerTopicIsolation(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("other")
	defer b.Unsubscribe("other", ch)

	b.Publish(TopicSolves, Event{Type: "solve.completed"})

	select {
	case evt := <-ch:
		t.Fatalf("unexpected event on other topic: %+v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}
