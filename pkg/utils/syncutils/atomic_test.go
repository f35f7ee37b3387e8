package syncutils

import "testing"

func TestAtomicBool(t *testing.T) {
	var b AtomicBool
	if b.Get() {
		t.Fatal("zero value should be false")
	}
	b.Set(true)
	if !b.Get() {
		t.Fatal("expected true after Set(true)")
	}
	if b.CompareAndSwap(false, true) {
		t.Fatal("CAS from false should fail when true")
	}
	if !b.CompareAndSwap(true, false) {
		t.Fatal("CAS from true should succeed")
	}
	if b.Get() {
		t.Fatal("expected false after CAS")
	}
}
