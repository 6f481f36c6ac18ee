package identity

import "testing"

func TestRef(t *testing.T) {
	if _, ok := (Ref{}).Get(); ok {
		t.Fatalf("zero ref must be unresolved")
	}
	if Resolved(0).IsResolved() || Resolved(-5).IsResolved() {
		t.Fatalf("non-positive ids must not resolve")
	}

	id, ok := Resolved(42).Get()
	if !ok || id != 42 {
		t.Fatalf("unexpected resolved ref: id=%d ok=%v", id, ok)
	}
	if Resolved(42).String() != "42" || Unresolved().String() != "unresolved" {
		t.Fatalf("unexpected string form")
	}
}
