package app

import "testing"

func TestAdmitter_DedupThenBudget(t *testing.T) {
	a := newAdmitter(3)

	if v := a.admit("a"); v != admitAccept {
		t.Fatalf("first a: %v", v)
	}
	if v := a.admit("b"); v != admitAccept {
		t.Fatalf("b: %v", v)
	}
	if v := a.admit("a"); v != admitDuplicate {
		t.Fatalf("repeat a: %v", v)
	}
	if v := a.admit("c"); v != admitAccept {
		t.Fatalf("c: %v", v)
	}
	if !a.exhausted() {
		t.Fatalf("budget of 3 should be gone")
	}
	if v := a.admit("d"); v != admitBudget {
		t.Fatalf("d past budget: %v", v)
	}
	if a.admitted() != 3 {
		t.Fatalf("admitted: %d", a.admitted())
	}
}

func TestAdmitter_DuplicatesDoNotSpendBudget(t *testing.T) {
	a := newAdmitter(2)
	a.admit("x")
	a.admit("x")
	a.admit("x")
	if a.exhausted() {
		t.Fatalf("one unique id must not exhaust a budget of 2")
	}
	if v := a.admit("y"); v != admitAccept {
		t.Fatalf("y: %v", v)
	}
}

func TestAdmitter_ZeroMeansUnlimited(t *testing.T) {
	a := newAdmitter(0)
	for i := 0; i < 1000; i++ {
		if v := a.admit(string(rune('a' + i%26))); i < 26 && v != admitAccept {
			t.Fatalf("admit %d: %v", i, v)
		}
	}
	if a.exhausted() {
		t.Fatalf("unlimited admitter exhausted")
	}
	if a.admitted() != 26 {
		t.Fatalf("admitted: %d", a.admitted())
	}
}
