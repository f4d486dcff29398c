package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHelpersBeforeInit(t *testing.T) {
	Close()
	// Must not panic.
	Info("nothing")
	Error("nothing", "k", "v")
	WithPrefix("x").Info("discarded")
}

func TestInitWritesLevels(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(&buf, "info"); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(Close)

	Debug("hidden")
	Info("fetch done", "count", 3)
	Warn("slow upstream")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug line should be filtered at info level")
	}
	if !strings.Contains(out, "fetch done") || !strings.Contains(out, "count=3") {
		t.Errorf("missing info line: %q", out)
	}
	if !strings.Contains(out, "slow upstream") {
		t.Errorf("missing warn line: %q", out)
	}
}

func TestInitBadLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(&buf, "loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestInitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "news-today.log")
	if err := InitFile(path, "debug"); err != nil {
		t.Fatalf("InitFile: %v", err)
	}
	WithPrefix("proxy").Debug("request", "path", "/news")
	Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	if !strings.Contains(string(data), "proxy") || !strings.Contains(string(data), "path=/news") {
		t.Errorf("unexpected log contents: %q", data)
	}
}
