package input

import "testing"

func TestBusSubscribeOrderAndUnsubscribe(t *testing.T) {
	b := NewBus()
	var got []string
	unA := b.Subscribe(func(e Event) { got = append(got, "a:"+e.Kind.String()) })
	b.Subscribe(func(e Event) { got = append(got, "b:"+e.Kind.String()) })

	b.Publish(Event{Kind: PointerDown})
	unA()
	unA()
	b.Publish(Event{Kind: PointerUp})

	want := []string{"a:pointerdown", "b:pointerdown", "b:pointerup"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if b.Len() != 1 {
		t.Fatalf("Len = %d, want 1", b.Len())
	}
}

func TestBusUnsubscribeDuringPublish(t *testing.T) {
	b := NewBus()
	calls := 0
	var un func()
	un = b.Subscribe(func(Event) {
		calls++
		un()
	})
	b.Publish(Event{Kind: Resize})
	b.Publish(Event{Kind: Resize})
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if b.Len() != 0 {
		t.Fatalf("Len = %d, want 0", b.Len())
	}
}
