package idgen

import (
	"testing"
)

func TestNewID(t *testing.T) {
	id := NewID()
	if len(id) != 20 {
		t.Errorf("Expected ID length 20, got %d", len(id))
	}
}

func TestNewIDUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("Duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestNewRequestID(t *testing.T) {
	id := NewRequestID()
	if len(id) != 20 {
		t.Errorf("Expected request ID length 20, got %d", len(id))
	}
}
