package datastore

import "testing"

// expectedPairs enumerates every (collection, action) pair §4.2 specifies.
// Adding a command to the specification without adding it here — or to
// the registry — fails this test, acting as the compile-time-adjacent
// exhaustiveness check the tagged-variant dispatch note calls for.
var expectedPairs = map[string][]string{
	"User":      {"create", "read", "query", "update"},
	"Developer": {"create", "read", "query", "update"},
	"Game":      {"create", "read", "query", "update", "add_rating", "delete"},
	"Room":      {"create", "read", "update", "delete", "query"},
	"GameLog":   {"create", "read", "update", "query"},
}

func TestRegistryIsExhaustive(t *testing.T) {
	for collection, actions := range expectedPairs {
		handlers, ok := registry[collection]
		if !ok {
			t.Fatalf("registry missing collection %q", collection)
		}
		for _, action := range actions {
			if _, ok := handlers[action]; !ok {
				t.Errorf("registry missing %s.%s", collection, action)
			}
		}
	}

	for collection, handlers := range registry {
		if _, ok := expectedPairs[collection]; !ok {
			t.Errorf("registry has unexpected collection %q", collection)
		}
		for action := range handlers {
			found := false
			for _, expected := range expectedPairs[collection] {
				if expected == action {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("registry has unexpected action %s.%s", collection, action)
			}
		}
	}
}

func TestDispatchUnknownCollection(t *testing.T) {
	s := &Server{}
	resp := s.dispatch(Envelope{Collection: "Nope", Action: "create"})
	if resp["status"] != "error" {
		t.Fatalf("expected error status, got %v", resp)
	}
}

func TestDispatchUnknownAction(t *testing.T) {
	s := &Server{}
	resp := s.dispatch(Envelope{Collection: "User", Action: "delete"})
	if resp["status"] != "error" {
		t.Fatalf("expected error status, got %v", resp)
	}
}
