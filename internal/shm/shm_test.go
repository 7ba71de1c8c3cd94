package shm_test

import (
	"errors"
	"path/filepath"
	"testing"

	"gosuda.org/dodesc/internal/shm"
)

func TestAnonymousRegion(t *testing.T) {
	r, err := shm.Anonymous(4096)
	if err != nil {
		t.Fatalf("Failed to map anonymous region: %v", err)
	}
	defer r.Close()

	if r.Size() != 4096 || len(r.Bytes()) != 4096 {
		t.Fatalf("Expected 4096 bytes, got size=%d len=%d", r.Size(), len(r.Bytes()))
	}
	if r.Name() != "" {
		t.Errorf("Anonymous region should have no name, got %q", r.Name())
	}
	if r.FD() != ^uintptr(0) {
		t.Errorf("Anonymous region should report no file descriptor")
	}
	for i, b := range r.Bytes() {
		if b != 0 {
			t.Fatalf("Byte %d not zeroed: %d", i, b)
		}
	}
}

func TestFileRegionSharedBetweenMappings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "region")

	primary, err := shm.Create(path, 8192)
	if err != nil {
		t.Fatalf("Failed to create region: %v", err)
	}
	defer primary.Close()

	secondary, err := shm.Open(path)
	if err != nil {
		t.Fatalf("Failed to open region: %v", err)
	}
	defer secondary.Close()

	if secondary.Size() != 8192 {
		t.Fatalf("Expected secondary size 8192, got %d", secondary.Size())
	}

	copy(primary.Bytes()[100:], "display object")
	if got := string(secondary.Bytes()[100:114]); got != "display object" {
		t.Errorf("Secondary mapping did not observe write, got %q", got)
	}
}

func TestRegionInvalidSize(t *testing.T) {
	if _, err := shm.Anonymous(0); !errors.Is(err, shm.ErrInvalidSize) {
		t.Errorf("Expected ErrInvalidSize, got %v", err)
	}
	if _, err := shm.Create(filepath.Join(t.TempDir(), "x"), -1); !errors.Is(err, shm.ErrInvalidSize) {
		t.Errorf("Expected ErrInvalidSize, got %v", err)
	}
}

func TestRegionDoubleClose(t *testing.T) {
	r, err := shm.Anonymous(4096)
	if err != nil {
		t.Fatalf("Failed to map anonymous region: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("First close failed: %v", err)
	}
	if err := r.Close(); !errors.Is(err, shm.ErrClosed) {
		t.Errorf("Expected ErrClosed on second close, got %v", err)
	}
	if err := r.Pin(); !errors.Is(err, shm.ErrClosed) {
		t.Errorf("Expected ErrClosed on pin after close, got %v", err)
	}
}
