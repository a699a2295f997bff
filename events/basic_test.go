package events

import "testing"

func TestSubscribeAndEmit(t *testing.T) {
	bus := NewBus()

	sub1, err := bus.Subscribe(&ClassCancelled{})
	if err != nil {
		t.Fatal(err)
	}

	sub2, err := bus.Subscribe(&WaitlistPromoted{})
	if err != nil {
		t.Fatal(err)
	}

	go func() {
		bus.Emit(&ClassCancelled{ClassID: "abc"})
		bus.Emit(&WaitlistPromoted{UserID: "u1"})
	}()

	evt1 := <-sub1.Out()
	cancelled, ok := evt1.(*ClassCancelled)
	if !ok {
		t.Error("Event is wrong type")
	} else if cancelled.ClassID != "abc" {
		t.Errorf("Expected class ID abc, got %s", cancelled.ClassID)
	}

	evt2 := <-sub2.Out()
	if _, ok := evt2.(*WaitlistPromoted); !ok {
		t.Error("Event is wrong type")
	}

	if err := sub1.Close(); err != nil {
		t.Error(err)
	}

	if err := sub2.Close(); err != nil {
		t.Error(err)
	}
}

func TestSubscribeMultipleTypes(t *testing.T) {
	bus := NewBus()

	sub, err := bus.Subscribe([]interface{}{
		&ClassCancelled{},
		&ClassRescheduled{},
	})
	if err != nil {
		t.Fatal(err)
	}
	defer sub.Close()

	go func() {
		bus.Emit(&ClassCancelled{})
		bus.Emit(&ClassRescheduled{})
	}()

	if _, ok := (<-sub.Out()).(*ClassCancelled); !ok {
		t.Error("Event is wrong type")
	}
	if _, ok := (<-sub.Out()).(*ClassRescheduled); !ok {
		t.Error("Event is wrong type")
	}
}

func TestSubscribeNonPointer(t *testing.T) {
	bus := NewBus()

	if _, err := bus.Subscribe(ClassCancelled{}); err == nil {
		t.Error("Expected error subscribing with non-pointer type")
	}
}
