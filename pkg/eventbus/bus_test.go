//go:build !integration

package eventbus

import "testing"

func TestBus_PublishReachesSubscribers(t *testing.T) {
	bus := New()

	var a, b int
	unsubA := bus.Subscribe(TopicCartChanged, func() { a++ })
	defer unsubA()
	unsubB := bus.Subscribe(TopicCartChanged, func() { b++ })
	defer unsubB()

	bus.Publish(TopicCartChanged)
	bus.Publish("other.topic")

	if a != 1 || b != 1 {
		t.Fatalf("got a=%d b=%d, want 1 and 1", a, b)
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New()

	var calls int
	unsub := bus.Subscribe(TopicCartChanged, func() { calls++ })
	keep := bus.Subscribe(TopicCartChanged, func() {})
	defer keep()

	unsub()
	unsub()

	bus.Publish(TopicCartChanged)
	if calls != 0 {
		t.Fatalf("unsubscribed handler called %d times", calls)
	}
	if got := bus.Subscribers(TopicCartChanged); got != 1 {
		t.Fatalf("subscribers = %d, want 1", got)
	}
}

func TestBus_UnsubscribeDuringPublish(t *testing.T) {
	bus := New()

	var unsub func()
	var calls int
	unsub = bus.Subscribe(TopicCartChanged, func() {
		calls++
		unsub()
	})

	bus.Publish(TopicCartChanged)
	bus.Publish(TopicCartChanged)

	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if got := bus.Subscribers(TopicCartChanged); got != 0 {
		t.Fatalf("subscribers = %d, want 0", got)
	}
}

func TestBus_CartChangedIsPerOwner(t *testing.T) {
	bus := New()

	var alice, bob int
	defer bus.Subscribe(CartChanged("alice"), func() { alice++ })()
	defer bus.Subscribe(CartChanged("bob"), func() { bob++ })()

	bus.Publish(CartChanged("alice"))
	bus.Publish(CartChanged("alice"))

	if alice != 2 || bob != 0 {
		t.Fatalf("got alice=%d bob=%d, want 2 and 0", alice, bob)
	}
}
