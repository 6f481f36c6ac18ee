package id

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDGenerator(t *testing.T) {
	gen := NewUUIDGenerator()
	first, err := gen.NewID()
	if err != nil {
		t.Fatalf("new id: %v", err)
	}
	second, _ := gen.NewID()
	if first == second {
		t.Fatalf("expected unique ids")
	}
	parsed, err := uuid.Parse(first)
	if err != nil || parsed.Version() != 7 {
		t.Fatalf("expected uuid v7, got %q err=%v", first, err)
	}
}
