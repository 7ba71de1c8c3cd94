package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestSetLevelReachesChildren(t *testing.T) {
	child := Named("test")
	defer SetLevel("info")

	if err := SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel failed: %v", err)
	}
	if child.GetLevel() != log.DebugLevel {
		t.Errorf("child level: expected debug, got %v", child.GetLevel())
	}
	if Default().GetLevel() != log.DebugLevel {
		t.Errorf("default level: expected debug, got %v", Default().GetLevel())
	}
}

func TestSetLevelRejectsUnknown(t *testing.T) {
	if err := SetLevel("loud"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestNewWritesPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "producer")
	l.Info("slot bound", "id", 3)

	out := buf.String()
	if !strings.Contains(out, "producer") || !strings.Contains(out, "slot bound") || !strings.Contains(out, "id=3") {
		t.Errorf("unexpected log line %q", out)
	}
}
