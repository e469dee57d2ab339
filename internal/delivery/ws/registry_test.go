package ws

import (
	"testing"
)

func newRegistryClient(id string) *Client {
	return &Client{
		PeerID: id,
		send:   make(chan []byte, sendBufferSize),
	}
}

func TestConnectionRegistry_Add(t *testing.T) {
	r := NewConnectionRegistry()

	if err := r.Add("a", newRegistryClient("a")); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if r.Len() != 1 {
		t.Errorf("Expected 1 peer, got %d", r.Len())
	}

	if err := r.Add("a", newRegistryClient("a")); err != ErrDuplicatePeer {
		t.Errorf("Expected ErrDuplicatePeer, got %v", err)
	}
}

func TestConnectionRegistry_Remove(t *testing.T) {
	r := NewConnectionRegistry()
	r.Add("a", newRegistryClient("a"))

	if !r.Remove("a") {
		t.Error("Expected Remove to report true for present peer")
	}
	if r.Remove("a") {
		t.Error("Expected Remove to report false for absent peer")
	}
	if !r.IsEmpty() {
		t.Error("Expected registry to be empty after removal")
	}
}

func TestConnectionRegistry_OthersOrder(t *testing.T) {
	r := NewConnectionRegistry()
	for _, id := range []string{"a", "b", "c", "d"} {
		r.Add(id, newRegistryClient(id))
	}

	others := r.Others("b")
	want := []string{"a", "c", "d"}
	if len(others) != len(want) {
		t.Fatalf("Expected %d others, got %d", len(want), len(others))
	}
	for i, id := range want {
		if others[i] != id {
			t.Errorf("Expected others[%d] = %s, got %s", i, id, others[i])
		}
	}
}

func TestConnectionRegistry_OrderSurvivesRemoval(t *testing.T) {
	r := NewConnectionRegistry()
	for _, id := range []string{"a", "b", "c"} {
		r.Add(id, newRegistryClient(id))
	}
	r.Remove("b")
	r.Add("e", newRegistryClient("e"))

	others := r.Others("")
	want := []string{"a", "c", "e"}
	for i, id := range want {
		if others[i] != id {
			t.Errorf("Expected others[%d] = %s, got %s", i, id, others[i])
		}
	}
}

func TestConnectionRegistry_Get(t *testing.T) {
	r := NewConnectionRegistry()
	c := newRegistryClient("a")
	r.Add("a", c)

	got, ok := r.Get("a")
	if !ok || got != c {
		t.Error("Expected Get to return the registered client")
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Expected Get to miss for unknown id")
	}
}
