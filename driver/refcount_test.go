package driver

import (
	"errors"
	"testing"
)

func TestRefCountedInitRunsInitOnceAndTeardownOnLastRelease(t *testing.T) {
	inits, teardowns := 0, 0
	r := NewRefCountedInit(
		func() error { inits++; return nil },
		func() { teardowns++ },
	)

	for i := 0; i < 3; i++ {
		if err := r.Acquire(); err != nil {
			t.Fatalf("Acquire: %v", err)
		}
	}
	if inits != 1 {
		t.Fatalf("inits = %d, want 1", inits)
	}
	if r.Count() != 3 {
		t.Fatalf("count = %d, want 3", r.Count())
	}

	r.Release()
	r.Release()
	if teardowns != 0 {
		t.Fatalf("teardowns = %d, want 0 before last release", teardowns)
	}
	r.Release()
	if teardowns != 1 {
		t.Fatalf("teardowns = %d, want 1 after last release", teardowns)
	}

	// A stray extra release is a no-op, not a negative count.
	r.Release()
	if r.Count() != 0 {
		t.Fatalf("count = %d, want 0", r.Count())
	}
}

func TestRefCountedInitFailurePropagatesAndDoesNotIncrement(t *testing.T) {
	wantErr := errors.New("init failed")
	r := NewRefCountedInit(
		func() error { return wantErr },
		func() {},
	)
	if err := r.Acquire(); err != wantErr {
		t.Fatalf("Acquire err = %v, want %v", err, wantErr)
	}
	if r.Count() != 0 {
		t.Fatalf("count = %d, want 0 after failed init", r.Count())
	}
}
