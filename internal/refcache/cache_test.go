package refcache

import (
	"errors"
	"testing"
)

func TestRegisterAndResolve(t *testing.T) {
	c := New(false)

	if err := c.Register(School, Key("Demo School"), 1); err != nil {
		t.Fatalf("register: %v", err)
	}
	id, err := c.Resolve(School, Key("Demo School"))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if id != 1 {
		t.Fatalf("id=%d want 1", id)
	}
}

func TestRegisterIdempotent(t *testing.T) {
	c := New(false)

	if err := c.Register(Grade, Key("1", "Grade 6"), 5); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := c.Register(Grade, Key("1", "Grade 6"), 5); err != nil {
		t.Fatalf("same binding must be a no-op, got %v", err)
	}
}

func TestRegisterConflictFails(t *testing.T) {
	c := New(false)

	if err := c.Register(Grade, Key("1", "Grade 6"), 5); err != nil {
		t.Fatalf("register: %v", err)
	}
	err := c.Register(Grade, Key("1", "Grade 6"), 6)
	var dup *DuplicateKeyError
	if !errors.As(err, &dup) {
		t.Fatalf("want DuplicateKeyError, got %v", err)
	}
	if dup.Have != 5 || dup.Got != 6 {
		t.Fatalf("dup=%+v", dup)
	}
}

func TestResolveMissing(t *testing.T) {
	c := New(false)

	_, err := c.Resolve(Student, Key("1", "Nobody"))
	var unres *UnresolvedReferenceError
	if !errors.As(err, &unres) {
		t.Fatalf("want UnresolvedReferenceError, got %v", err)
	}

	if _, ok := c.TryResolve(Student, Key("1", "Nobody")); ok {
		t.Fatalf("TryResolve must miss")
	}
}

func TestKnownID(t *testing.T) {
	c := New(false)

	if c.KnownID(Teacher, 9) {
		t.Fatalf("id 9 should be unknown")
	}
	if err := c.Register(Teacher, Key("1", "Teacher 01"), 9); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !c.KnownID(Teacher, 9) {
		t.Fatalf("id 9 should be known after register")
	}

	c.Track(FeePayment, 44)
	if !c.KnownID(FeePayment, 44) {
		t.Fatalf("tracked id should be known")
	}
	if c.KnownID(FeeStructure, 44) {
		t.Fatalf("id sets must be scoped per entity")
	}
}

func TestCaseFolding(t *testing.T) {
	strict := New(false)
	_ = strict.Register(School, "Demo", 1)
	if _, ok := strict.TryResolve(School, "demo"); ok {
		t.Fatalf("case-sensitive cache must not fold")
	}

	folded := New(true)
	_ = folded.Register(School, "Demo", 1)
	id, ok := folded.TryResolve(School, "DEMO")
	if !ok || id != 1 {
		t.Fatalf("folded cache should resolve DEMO, ok=%v id=%d", ok, id)
	}
}
