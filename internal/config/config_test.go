package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"gosuda.org/dodesc/internal/config"
)

func TestDefaultIsValid(t *testing.T) {
	if err := config.Default().Validate(); err != nil {
		t.Fatalf("default configuration invalid: %v", err)
	}
}

func TestParseOverDefaults(t *testing.T) {
	c, err := config.Parse([]byte(`
[region]
path = "/tmp/region"
slots = 4

[log]
level = "debug"

[sim]
display_objects = 3
frame_rate = 90
lock_hold = "2ms"
duration = "1m30s"
`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if c.Region.Path != "/tmp/region" || c.Region.Slots != 4 {
		t.Errorf("unexpected region %+v", c.Region)
	}
	if c.Region.RingSize != config.Default().Region.RingSize {
		t.Errorf("missing keys must keep their defaults, got ring_size %d", c.Region.RingSize)
	}
	if c.Log.Level != "debug" {
		t.Errorf("unexpected level %q", c.Log.Level)
	}
	if c.Sim.LockHold.Std() != 2*time.Millisecond || c.Sim.Duration.Std() != 90*time.Second {
		t.Errorf("unexpected durations %v %v", c.Sim.LockHold.Std(), c.Sim.Duration.Std())
	}
	if got := c.FrameInterval(); got != time.Second/90 {
		t.Errorf("unexpected frame interval %v", got)
	}

	l := c.Layout()
	if l.Slots != 4 || l.BufferSize != c.Region.BufferSize {
		t.Errorf("unexpected layout %+v", l)
	}
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":       "[region]\nsize = 12\n",
		"bad duration":      "[sim]\nlock_hold = \"soon\"\n",
		"too many objects":  "[region]\nslots = 2\n[sim]\ndisplay_objects = 3\n",
		"odd buffer size":   "[region]\nbuffer_size = 13\n",
		"zero frame rate":   "[sim]\nframe_rate = 0\n",
		"negative duration": "[sim]\nduration = \"-1s\"\n",
		"empty path":        "[region]\npath = \"\"\n",
		"not toml":          "region = [",
	}
	for name, doc := range cases {
		if _, err := config.Parse([]byte(doc)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}

	_, err := config.Parse([]byte("[sim]\nframe_rate = 0\n"))
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	c := config.Default()
	c.Sim.LockHold = config.Duration(5 * time.Millisecond)

	data, err := c.Encode()
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if !strings.Contains(string(data), "5ms") {
		t.Errorf("durations must be encoded as strings:\n%s", data)
	}

	back, err := config.Parse(data)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if *back != *c {
		t.Errorf("expected %+v, got %+v", c, back)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "descsim.toml")
	if err := os.WriteFile(path, []byte("[log]\nlevel = \"info\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu     sync.Mutex
		levels []string
	)
	done := make(chan error, 1)
	go func() {
		done <- config.Watch(ctx, path, func(c *config.Config) {
			mu.Lock()
			levels = append(levels, c.Log.Level)
			mu.Unlock()
		})
	}()

	reloaded := func(level string) bool {
		mu.Lock()
		defer mu.Unlock()
		for _, l := range levels {
			if l == level {
				return true
			}
		}
		return false
	}

	// The watcher may not be registered yet; keep rewriting until it fires.
	deadline := time.Now().Add(2 * time.Second)
	for !reloaded("debug") {
		if time.Now().After(deadline) {
			t.Fatal("configuration change not observed")
		}
		if err := os.WriteFile(path, []byte("[log]\nlevel = \"debug\"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	// An invalid edit is skipped.
	if err := os.WriteFile(path, []byte("[log]\nlevle = \"warn\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	if reloaded("warn") {
		t.Error("invalid configuration must not be delivered")
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
