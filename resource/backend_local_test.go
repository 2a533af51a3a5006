package resource

import (
	"errors"
	"sync"
	"testing"
)

func TestLocalBackend_Basic(t *testing.T) {
	b := NewLocalBackend(0)

	if err := b.Create(3, "wl_buffer", "test value"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	val, ok := b.Get(3)
	if !ok {
		t.Fatal("Get failed")
	}
	if val != "test value" {
		t.Fatalf("Expected 'test value', got %v", val)
	}

	iface, ok := b.Interface(3)
	if !ok || iface != "wl_buffer" {
		t.Fatalf("Interface = %q, %v", iface, ok)
	}

	val, ok = b.Drop(3)
	if !ok {
		t.Fatal("Drop failed")
	}
	if val != "test value" {
		t.Fatalf("Expected 'test value', got %v", val)
	}

	if _, ok = b.Get(3); ok {
		t.Fatal("Expected Get to fail after Drop")
	}
	if _, ok = b.Drop(3); ok {
		t.Fatal("Expected second Drop to fail")
	}
}

func TestLocalBackend_InvalidID(t *testing.T) {
	b := NewLocalBackend(0)

	if err := b.Create(0, "wl_buffer", 1); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("Expected ErrInvalidID, got %v", err)
	}
	if _, ok := b.Get(0); ok {
		t.Fatal("Get(0) should fail")
	}
}

func TestLocalBackend_IDInUse(t *testing.T) {
	b := NewLocalBackend(0)

	if err := b.Create(5, "a", 1); err != nil {
		t.Fatal(err)
	}
	if err := b.Create(5, "b", 2); !errors.Is(err, ErrIDInUse) {
		t.Fatalf("Expected ErrIDInUse, got %v", err)
	}

	// The id is reusable once dropped
	b.Drop(5)
	if err := b.Create(5, "b", 2); err != nil {
		t.Fatalf("Create after Drop failed: %v", err)
	}
}

func TestLocalBackend_Limit(t *testing.T) {
	b := NewLocalBackend(2)

	if err := b.Create(1, "a", 1); err != nil {
		t.Fatal(err)
	}
	if err := b.Create(2, "a", 2); err != nil {
		t.Fatal(err)
	}
	if err := b.Create(3, "a", 3); !errors.Is(err, ErrFull) {
		t.Fatalf("Expected ErrFull, got %v", err)
	}

	b.Drop(1)
	if err := b.Create(3, "a", 3); err != nil {
		t.Fatalf("Create after Drop failed: %v", err)
	}
}

func TestLocalBackend_Close(t *testing.T) {
	b := NewLocalBackend(0)
	b.Create(1, "a", 1)

	if err := b.Close(); err != nil {
		t.Fatal(err)
	}
	if b.Len() != 0 {
		t.Fatalf("Expected Len() == 0 after Close, got %d", b.Len())
	}
	if err := b.Create(2, "a", 2); !errors.Is(err, ErrClosed) {
		t.Fatalf("Expected ErrClosed, got %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}

func TestLocalBackend_EachOrdered(t *testing.T) {
	b := NewLocalBackend(0)
	for _, id := range []ID{9, 2, 40, 1} {
		b.Create(id, "a", int(id))
	}

	var got []ID
	b.Each(func(id ID, _ string, _ any) bool {
		got = append(got, id)
		return true
	})

	want := []ID{1, 2, 9, 40}
	if len(got) != len(want) {
		t.Fatalf("Each visited %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Each visited %v, want %v", got, want)
		}
	}

	var visited int
	b.Each(func(ID, string, any) bool {
		visited++
		return false
	})
	if visited != 1 {
		t.Fatalf("Each should stop early, visited %d", visited)
	}
}

func TestLocalBackend_Concurrent(t *testing.T) {
	b := NewLocalBackend(0)

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(id ID) {
			defer wg.Done()
			if err := b.Create(id, "a", id); err != nil {
				t.Errorf("Create(%d): %v", id, err)
				return
			}
			b.Get(id)
			b.Drop(id)
		}(ID(i))
	}
	wg.Wait()

	if b.Len() != 0 {
		t.Fatalf("Expected Len() == 0, got %d", b.Len())
	}
}
