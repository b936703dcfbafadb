package buffer

import (
	"errors"
	"testing"
)

func TestNewArenaValidation(t *testing.T) {
	if _, err := NewArena[float64](0); err == nil {
		t.Fatal("expected error for size=0")
	}
	if _, err := NewArena[float32](-4); err == nil {
		t.Fatal("expected error for size=-4")
	}
}

func TestArenaAllocDisjoint(t *testing.T) {
	a, err := NewArena[float64](10)
	if err != nil {
		t.Fatal(err)
	}

	first, err := a.Alloc(4)
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Alloc(6)
	if err != nil {
		t.Fatal(err)
	}

	for i := range first {
		first[i] = 1
	}
	for i, v := range second {
		if v != 0 {
			t.Fatalf("second[%d] = %v, want 0", i, v)
		}
	}

	if cap(first) != 4 {
		t.Fatalf("cap(first) = %d, want 4", cap(first))
	}
	if a.Used() != 10 || a.Remaining() != 0 || a.Len() != 10 {
		t.Fatalf("used=%d remaining=%d len=%d", a.Used(), a.Remaining(), a.Len())
	}
}

func TestArenaExhausted(t *testing.T) {
	a, err := NewArena[int](3)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := a.Alloc(4); !errors.Is(err, ErrArenaExhausted) {
		t.Fatalf("err = %v, want ErrArenaExhausted", err)
	}
	if _, err := a.Alloc(0); err == nil {
		t.Fatal("expected error for n=0")
	}
	if a.Used() != 0 {
		t.Fatalf("failed allocations must not consume space, used=%d", a.Used())
	}
}

func TestArenaZero(t *testing.T) {
	a, err := NewArena[float64](4)
	if err != nil {
		t.Fatal(err)
	}

	s, _ := a.Alloc(4)
	s[2] = 7
	a.Zero()

	if s[2] != 0 {
		t.Fatalf("s[2] = %v after Zero, want 0", s[2])
	}
}
