package events

import (
	"context"
	"errors"
	"testing"
)

func TestPublishRunsEveryHandler(t *testing.T) {
	d := NewInMemoryDispatcher()
	var seen []string
	d.Subscribe(EventConversationClosed, func(_ context.Context, e Event) error {
		seen = append(seen, "first:"+e.ContactNumber)
		return errors.New("boom")
	})
	d.Subscribe(EventConversationClosed, func(_ context.Context, e Event) error {
		if e.ID == "" || e.Timestamp.IsZero() {
			t.Fatalf("event not stamped: %+v", e)
		}
		seen = append(seen, "second:"+e.ContactNumber)
		return nil
	})
	d.Subscribe(EventMessageSent, func(context.Context, Event) error {
		t.Fatal("unrelated handler invoked")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventConversationClosed, ContactNumber: "+5511"})
	if err == nil || err.Error() != "boom" {
		t.Fatalf("err = %v, want joined handler error", err)
	}
	if len(seen) != 2 || seen[0] != "first:+5511" || seen[1] != "second:+5511" {
		t.Fatalf("handlers ran as %v", seen)
	}
}

func TestPublishWithoutListeners(t *testing.T) {
	if err := NewInMemoryDispatcher().Publish(context.Background(), Event{Type: EventMessageSent}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}
