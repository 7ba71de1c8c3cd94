package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"gosuda.org/dodesc/internal/config"
)

func TestRunBoth(t *testing.T) {
	cfg := config.Default()
	cfg.Region.Path = filepath.Join(t.TempDir(), "region")
	cfg.Sim.FrameRate = 200
	cfg.Sim.StaticEvery = 5

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	p, err := simulate(ctx, cfg, "both", "")
	if err != nil {
		t.Fatalf("simulate failed: %v", err)
	}

	// Sessions are closed while the server still answers, so teardown
	// does not wait for the shutdown timeout.
	if elapsed := time.Since(start); elapsed > 900*time.Millisecond {
		t.Errorf("teardown took %v", elapsed)
	}
	if p == nil {
		t.Fatal("expected a producer")
	}
	if ids := p.plugin.Registered(); len(ids) != 0 {
		t.Errorf("expected every session to be unregistered, still registered: %v", ids)
	}
}

func TestRunUnknownRole(t *testing.T) {
	if err := run(context.Background(), config.Default(), "observer", ""); err == nil {
		t.Fatal("expected an error for an unknown role")
	}
}

func TestConsumerNeedsRegion(t *testing.T) {
	cfg := config.Default()
	cfg.Region.Path = filepath.Join(t.TempDir(), "missing")

	if err := run(context.Background(), cfg, "consumer", ""); err == nil {
		t.Fatal("expected an error for a missing region")
	}
}
