package observer

import "testing"

func TestSubject_SubscribeNotifyUnsubscribe(t *testing.T) {
	var s Subject[int]
	var got []int

	unsubscribe := s.Subscribe(func(v int) { got = append(got, v) })
	s.Notify(1)
	s.Notify(2)

	unsubscribe()
	unsubscribe()
	s.Notify(3)

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("unexpected notifications %v", got)
	}
	if s.Len() != 0 {
		t.Fatalf("expected no subscribers left, got %d", s.Len())
	}
}
